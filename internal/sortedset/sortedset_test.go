// Copyright 2024 Kelvin Clement Mwinuka
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sortedset

import (
	"testing"

	"github.com/go-test/deep"
)

func pair(member string, score string) MemberScore {
	return MemberScore{Member: []byte(member), Score: []byte(score)}
}

func memberStrings(result []MemberScore) []string {
	out := make([]string, len(result))
	for i, r := range result {
		out[i] = string(r.Member)
	}
	return out
}

// Scenario 1: score update counted as change under CH.
func TestZAddCHCountsScoreChanges(t *testing.T) {
	s := New(nil)

	n, _, err := s.ZAdd([]MemberScore{pair("a", "1"), pair("b", "2")}, ZAddOptions{CH: true})
	if err != nil || n != 2 {
		t.Fatalf("first ZADD CH = (%d, %v), want (2, nil)", n, err)
	}

	n, _, err = s.ZAdd([]MemberScore{pair("a", "1"), pair("b", "3")}, ZAddOptions{CH: true})
	if err != nil || n != 1 {
		t.Fatalf("second ZADD CH = (%d, %v), want (1, nil)", n, err)
	}

	if got := s.ZScore([]byte("a")); string(got) != "1" {
		t.Fatalf("a score = %s, want 1", got)
	}
	if got := s.ZScore([]byte("b")); string(got) != "3" {
		t.Fatalf("b score = %s, want 3", got)
	}
}

// Scenario 2: INCR producing NaN.
func TestZIncrByNaN(t *testing.T) {
	s := New(nil)
	if _, _, err := s.ZAdd([]MemberScore{pair("x", "0")}, ZAddOptions{}); err != nil {
		t.Fatalf("setup ZADD: %v", err)
	}

	got, err := s.ZIncrBy([]byte("x"), []byte("+inf"))
	if err != nil || string(got) != "inf" {
		t.Fatalf("ZINCRBY +inf = (%s, %v), want (inf, nil)", got, err)
	}

	_, err = s.ZIncrBy([]byte("x"), []byte("-inf"))
	if err != ErrOperationProducedNaN {
		t.Fatalf("ZINCRBY -inf error = %v, want ErrOperationProducedNaN", err)
	}
	if got := s.ZScore([]byte("x")); string(got) != "inf" {
		t.Fatalf("x score after failed incr = %s, want unchanged inf", got)
	}
}

// Scenario 3: lex range with sentinels.
func TestZRangeByLexSentinels(t *testing.T) {
	s := New(nil)
	_, _, _ = s.ZAdd([]MemberScore{pair("a", "0"), pair("b", "0"), pair("c", "0"), pair("d", "0")}, ZAddOptions{})

	got := s.ZRangeByLex(LexRange{Min: []byte("b"), Max: []byte("d"), MaxExclusive: true}, Limit{Count: -1})
	if diff := deep.Equal(memberStrings(got), []string{"b", "c"}); diff != nil {
		t.Errorf("[b (d range: %v", diff)
	}

	got = s.ZRangeByLex(LexRange{MinUnbounded: true, MaxUnbounded: true}, Limit{Count: -1})
	if diff := deep.Equal(memberStrings(got), []string{"a", "b", "c", "d"}); diff != nil {
		t.Errorf("- + range: %v", diff)
	}

	got = s.ZRangeByLex(LexRange{Min: []byte("b"), MinExclusive: true, Max: []byte("b"), MaxExclusive: true}, Limit{Count: -1})
	if len(got) != 0 {
		t.Errorf("(b (b range should be empty, got %v", memberStrings(got))
	}
}

// Scenario 4: ZPOPMAX ordering.
func TestZPopMaxOrdering(t *testing.T) {
	s := New(nil)
	_, _, _ = s.ZAdd([]MemberScore{pair("a", "1"), pair("b", "2"), pair("c", "2")}, ZAddOptions{})

	got := s.ZPopMax(2)
	if len(got) != 2 || string(got[0].Member) != "c" || string(got[1].Member) != "b" {
		t.Fatalf("ZPOPMAX 2 = %v, want [c b]", memberStrings(got))
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 member left, got %d", s.Len())
	}
	if got := s.ZScore([]byte("a")); string(got) != "1" {
		t.Fatalf("remaining member a score = %s, want 1", got)
	}
}

// Scenario 5: negative index range.
func TestZRangeNegativeIndices(t *testing.T) {
	s := New(nil)
	_, _, _ = s.ZAdd([]MemberScore{
		pair("a", "1"), pair("b", "2"), pair("c", "3"), pair("d", "4"), pair("e", "5"),
	}, ZAddOptions{})

	got := s.ZRange(-2, -1, false, true)
	if diff := deep.Equal(memberStrings(got), []string{"d", "e"}); diff != nil {
		t.Errorf("ZRANGE -2 -1: %v", diff)
	}
	if string(got[0].Score) != "4" || string(got[1].Score) != "5" {
		t.Errorf("scores = %s,%s want 4,5", got[0].Score, got[1].Score)
	}
}

// Scenario 6: NX/XX filter.
func TestZAddNXXXFilter(t *testing.T) {
	s := New(nil)
	_, _, _ = s.ZAdd([]MemberScore{pair("a", "1")}, ZAddOptions{})

	n, _, err := s.ZAdd([]MemberScore{pair("a", "2"), pair("b", "2")}, ZAddOptions{NX: true})
	if err != nil || n != 1 {
		t.Fatalf("ZADD NX = (%d,%v), want (1,nil)", n, err)
	}
	if string(s.ZScore([]byte("a"))) != "1" {
		t.Fatalf("a should remain 1 under NX")
	}
	if string(s.ZScore([]byte("b"))) != "2" {
		t.Fatalf("b should be added as 2")
	}

	n, _, err = s.ZAdd([]MemberScore{pair("a", "3"), pair("c", "3")}, ZAddOptions{XX: true})
	if err != nil || n != 0 {
		t.Fatalf("ZADD XX = (%d,%v), want (0,nil)", n, err)
	}
	if string(s.ZScore([]byte("a"))) != "3" {
		t.Fatalf("a should be updated to 3 under XX")
	}
	if s.ZScore([]byte("c")) != nil {
		t.Fatalf("c should remain absent under XX")
	}
}

func TestZRangeAllViaZeroMinusOne(t *testing.T) {
	s := New(nil)
	_, _, _ = s.ZAdd([]MemberScore{pair("a", "1"), pair("b", "2")}, ZAddOptions{})
	got := s.ZRange(0, -1, false, false)
	if diff := deep.Equal(memberStrings(got), []string{"a", "b"}); diff != nil {
		t.Errorf("ZRANGE 0 -1: %v", diff)
	}
}

func TestZRangeByScoreEmptyExclusiveBothEnds(t *testing.T) {
	s := New(nil)
	_, _, _ = s.ZAdd([]MemberScore{pair("a", "5")}, ZAddOptions{})
	got := s.ZRangeByScore(ScoreRange{Min: 5, Max: 5, MinExclusive: true, MaxExclusive: true}, Limit{Count: -1}, false, false)
	if len(got) != 0 {
		t.Fatalf("expected empty range, got %v", memberStrings(got))
	}
}

func TestZRangeByScoreLimitOffsetPastEnd(t *testing.T) {
	s := New(nil)
	_, _, _ = s.ZAdd([]MemberScore{pair("a", "1"), pair("b", "2")}, ZAddOptions{})
	got := s.ZRangeByScore(ScoreRange{Min: -1, Max: 1e18}, Limit{Offset: 10, Count: -1}, false, false)
	if len(got) != 0 {
		t.Fatalf("expected empty range past end, got %v", memberStrings(got))
	}
}

func TestZPopMaxCountExceedsSizeEmptiesSet(t *testing.T) {
	s := New(nil)
	_, _, _ = s.ZAdd([]MemberScore{pair("a", "1"), pair("b", "2")}, ZAddOptions{})
	got := s.ZPopMax(100)
	if len(got) != 2 {
		t.Fatalf("expected both members popped, got %v", memberStrings(got))
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty set, got len %d", s.Len())
	}
	if !s.RemoveFromRegion() {
		t.Fatalf("RemoveFromRegion should report true for an empty set")
	}
}

func TestZRankAndZRevRank(t *testing.T) {
	s := New(nil)
	_, _, _ = s.ZAdd([]MemberScore{pair("a", "1"), pair("b", "2"), pair("c", "3")}, ZAddOptions{})
	if s.ZRank([]byte("a")) != 0 || s.ZRank([]byte("c")) != 2 {
		t.Fatalf("unexpected ranks")
	}
	if s.ZRevRank([]byte("a")) != 2 || s.ZRevRank([]byte("c")) != 0 {
		t.Fatalf("unexpected reverse ranks")
	}
	if s.ZRank([]byte("missing")) != -1 || s.ZRevRank([]byte("missing")) != -1 {
		t.Fatalf("absent member should rank -1")
	}
}

func TestZRemAndApplyDeltaRoundTrip(t *testing.T) {
	src := New(nil)
	_, _, _ = src.ZAdd([]MemberScore{pair("a", "1"), pair("b", "2")}, ZAddOptions{})

	removed := src.ZRem([][]byte{[]byte("a")})
	if removed != 1 {
		t.Fatalf("ZREM removed = %d, want 1", removed)
	}
	if src.ZScore([]byte("a")) != nil {
		t.Fatalf("a should be absent after ZREM")
	}

	// ZADD a back, then replay the equivalent deltas on a fresh replica.
	_, _, _ = src.ZAdd([]MemberScore{pair("a", "1")}, ZAddOptions{})

	replica := New(nil)
	if err := replica.ApplyDelta(&AddsDelta{Members: []MemberScore{pair("a", "1"), pair("b", "2")}}, nil); err != nil {
		t.Fatalf("ApplyDelta adds: %v", err)
	}

	if diff := deep.Equal(allMembers(src), allMembers(replica)); diff != nil {
		t.Errorf("replica diverged from source: %v", diff)
	}
}

func allMembers(s *SortedSet) []MemberScore {
	return s.ZRange(0, -1, false, true)
}

func TestZAddRejectsInvalidScore(t *testing.T) {
	s := New(nil)
	if _, _, err := s.ZAdd([]MemberScore{pair("a", "not-a-number")}, ZAddOptions{}); err != ErrNotAValidFloat {
		t.Fatalf("expected ErrNotAValidFloat, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("invalid ZADD must not mutate the set")
	}
}

func TestZAddIncrRequiresSinglePair(t *testing.T) {
	s := New(nil)
	_, _, err := s.ZAdd([]MemberScore{pair("a", "1"), pair("b", "2")}, ZAddOptions{INCR: true})
	if err != ErrIncrRequiresOnePair {
		t.Fatalf("expected ErrIncrRequiresOnePair, got %v", err)
	}
}
