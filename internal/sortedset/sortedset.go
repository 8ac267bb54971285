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

// Package sortedset implements the core of a Redis-compatible sorted
// set: a member map and an order-statistics tree kept in lockstep,
// plus the ZADD/ZINCRBY/ZREM/... command surface built on top of them.
//
// The package assumes external per-key serialization: every exported
// method takes the set's own lock, but concurrent access from two
// SortedSet values that are meant to represent the same logical key is
// undefined — callers own that guarantee.
package sortedset

import (
	"bytes"
	"math"
	"sync"
)

// SortedSet is a single Redis-compatible sorted set: a member map and
// an order-statistics tree over the same entries, guarded by one lock.
type SortedSet struct {
	mu      sync.Mutex
	members *memberIndex
	scores  *scoreSet
	sink    DeltaSink
}

// New creates an empty sorted set. A nil sink is replaced with
// NopDeltaSink so command methods never need to nil-check it.
func New(sink DeltaSink) *SortedSet {
	if sink == nil {
		sink = NopDeltaSink{}
	}
	return &SortedSet{
		members: newMemberIndex(),
		scores:  &scoreSet{},
		sink:    sink,
	}
}

// SetDeltaSink replaces the set's delta sink. It exists so a
// replication adapter can be constructed after the set itself (the
// adapter's FSM needs a *SortedSet to apply deltas onto, creating an
// unavoidable ordering dependency the other way around).
func (s *SortedSet) SetDeltaSink(sink DeltaSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sink == nil {
		sink = NopDeltaSink{}
	}
	s.sink = sink
}

// Len returns the number of members (ZCARD).
func (s *SortedSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.members.size()
}

// SizeBytes reports the member map's heap-size footprint, per the
// distilled spec's requirement that the map account for itself.
func (s *SortedSet) SizeBytes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.members.sizeBytes()
}

// memberAdd implements the "remove from tree, mutate, re-insert"
// pattern mandated for score updates. It returns whether the member
// was newly created and whether its canonical score bytes actually
// changed (the latter only meaningful when it was not new).
func (s *SortedSet) memberAdd(member []byte, score float64) (isNew, changed bool) {
	newScoreBytes := canonicalScoreBytes(score)

	if old, ok := s.members.get(member); ok {
		changed = !bytes.Equal(old.scoreBytes, newScoreBytes)
		s.scores.remove(old)
		old.score = score
		old.scoreBytes = newScoreBytes
		s.scores.insert(old)
		return false, changed
	}

	e := &entry{
		member:     bytesKey(append([]byte(nil), member...)),
		score:      score,
		scoreBytes: newScoreBytes,
	}
	s.members.put(e)
	s.scores.insert(e)
	return true, false
}

// memberRemove deletes member if present, returning whether it was
// removed.
func (s *SortedSet) memberRemove(member []byte) bool {
	e, ok := s.members.get(member)
	if !ok {
		return false
	}
	s.members.delete(member)
	s.scores.remove(e)
	return true
}

// ZAdd implements ZADD. pairs are applied in order. When opts.INCR is
// set, pairs must contain exactly one element and the call behaves as
// ZIncrBy subject to NX/XX; the returned int is unused in that mode
// (use the incrScore return value instead).
func (s *SortedSet) ZAdd(pairs []MemberScore, opts ZAddOptions) (count int, incrScore []byte, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if opts.INCR {
		if len(pairs) != 1 {
			return 0, nil, ErrIncrRequiresOnePair
		}
		incrScore, err = s.zIncrByLocked(pairs[0].Member, pairs[0].Score, opts.NX, opts.XX)
		return 0, incrScore, err
	}

	scores := make([]float64, len(pairs))
	for i, p := range pairs {
		f, perr := ParseScore(p.Score)
		if perr != nil {
			return 0, nil, perr
		}
		scores[i] = f
	}

	added, changedCount := 0, 0
	var applied []MemberScore

	for i, p := range pairs {
		_, exists := s.members.get(p.Member)
		if opts.NX && exists {
			continue
		}
		if opts.XX && !exists {
			continue
		}
		isNew, changed := s.memberAdd(p.Member, scores[i])
		if isNew {
			added++
		} else if changed {
			changedCount++
		}
		e, _ := s.members.get(p.Member)
		applied = append(applied, MemberScore{Member: e.memberBytes(), Score: e.scoreBytes})
	}

	if len(applied) > 0 {
		_ = s.sink.PublishAdds(AddsDelta{Members: applied})
	}

	if opts.CH {
		return added + changedCount, nil, nil
	}
	return added, nil, nil
}

// ZIncrBy implements ZINCRBY.
func (s *SortedSet) ZIncrBy(member []byte, increment []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.zIncrByLocked(member, increment, false, false)
}

func (s *SortedSet) zIncrByLocked(member []byte, increment []byte, nx, xx bool) ([]byte, error) {
	inc, err := ParseScore(increment)
	if err != nil {
		return nil, err
	}

	_, exists := s.members.get(member)
	if nx && exists {
		return nil, nil
	}
	if xx && !exists {
		return nil, nil
	}

	newScore := inc
	if exists {
		e, _ := s.members.get(member)
		newScore = e.score + inc
	}
	if math.IsNaN(newScore) {
		return nil, ErrOperationProducedNaN
	}

	s.memberAdd(member, newScore)
	e, _ := s.members.get(member)

	_ = s.sink.PublishAdds(AddsDelta{Members: []MemberScore{{Member: e.memberBytes(), Score: e.scoreBytes}}})

	return e.scoreBytes, nil
}

// ZRem implements ZREM.
func (s *SortedSet) ZRem(members [][]byte) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed [][]byte
	for _, m := range members {
		if s.memberRemove(m) {
			removed = append(removed, m)
		}
	}
	if len(removed) > 0 {
		_ = s.sink.PublishRems(RemsDelta{Members: removed})
	}
	return len(removed)
}

// ZScore implements ZSCORE. A nil return means the member is absent.
func (s *SortedSet) ZScore(member []byte) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.members.get(member)
	if !ok {
		return nil
	}
	return e.scoreBytes
}

// ZCount implements ZCOUNT.
func (s *SortedSet) ZCount(r ScoreRange) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	minIdx := s.scores.indexOf(scoreProbe(r.Min, r.MinExclusive, true))
	maxIdx := s.scores.indexOf(scoreProbe(r.Max, r.MaxExclusive, false))
	if maxIdx < minIdx {
		return 0
	}
	return maxIdx - minIdx
}

// ZRank implements ZRANK. Returns -1 if member is absent.
func (s *SortedSet) ZRank(member []byte) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.members.get(member)
	if !ok {
		return -1
	}
	return s.scores.indexOf(e)
}

// ZRevRank implements ZREVRANK. Returns -1 if member is absent.
func (s *SortedSet) ZRevRank(member []byte) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.members.get(member)
	if !ok {
		return -1
	}
	return s.scores.size() - 1 - s.scores.indexOf(e)
}

// boundIndex implements the negative-index normalization shared by
// ZRANGE/ZREVRANGE: negative indices wrap via i+size; start floors at
// 0, end floors at -1 so an inclusive end does not wrap past zero.
func boundIndex(i, size int, isEnd bool) int {
	if i < 0 {
		i += size
	}
	if isEnd {
		if i < -1 {
			i = -1
		}
	} else if i < 0 {
		i = 0
	}
	if i > size {
		i = size
	}
	return i
}

// ZRange implements ZRANGE/ZREVRANGE.
func (s *SortedSet) ZRange(min, max int, reverse, withScores bool) []MemberScore {
	s.mu.Lock()
	defer s.mu.Unlock()

	size := s.scores.size()
	start := boundIndex(min, size, false)
	end := boundIndex(max, size, true)
	rangeSize := end - start + 1
	if rangeSize <= 0 || start >= size {
		return nil
	}

	startIdx := start
	if reverse {
		startIdx = size - 1 - start
	}

	it := s.scores.rangeByIndex(startIdx, rangeSize, reverse)
	return drain(it, withScores)
}

func drain(it *rangeIterator, withScores bool) []MemberScore {
	var out []MemberScore
	for {
		e, ok := it.next()
		if !ok {
			break
		}
		ms := MemberScore{Member: e.memberBytes()}
		if withScores {
			ms.Score = e.scoreBytes
		}
		out = append(out, ms)
	}
	return out
}

// ZRangeByScore implements ZRANGEBYSCORE/ZREVRANGEBYSCORE.
func (s *SortedSet) ZRangeByScore(r ScoreRange, limit Limit, reverse, withScores bool) []MemberScore {
	s.mu.Lock()
	defer s.mu.Unlock()

	minIdx := s.scores.indexOf(scoreProbe(r.Min, r.MinExclusive, true))
	maxIdx := s.scores.indexOf(scoreProbe(r.Max, r.MaxExclusive, false))

	return s.rangeFromIndices(minIdx, maxIdx, limit, reverse, withScores)
}

// ZRangeByLex implements ZRANGEBYLEX. All members are assumed to share
// the score of the entry at index 0; behavior with mixed scores is
// unspecified, matching the source this was distilled from.
func (s *SortedSet) ZRangeByLex(r LexRange, limit Limit) []MemberScore {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scores.size() == 0 {
		return nil
	}
	score := s.scores.get(0).score

	var minIdx int
	if r.MinUnbounded {
		minIdx = s.scores.indexOf(scoreProbe(score, false, true))
	} else {
		minIdx = s.scores.indexOf(lexProbe(r.Min, score, r.MinExclusive, true))
	}

	var maxIdx int
	if r.MaxUnbounded {
		maxIdx = s.scores.indexOf(scoreProbe(score, false, false))
	} else {
		maxIdx = s.scores.indexOf(lexProbe(r.Max, score, r.MaxExclusive, false))
	}

	return s.rangeFromIndices(minIdx, maxIdx, limit, false, false)
}

// rangeFromIndices applies LIMIT to the half-open index range
// [minIdx, maxIdx) and materializes the result, shared by the score
// and lex range commands.
func (s *SortedSet) rangeFromIndices(minIdx, maxIdx int, limit Limit, reverse, withScores bool) []MemberScore {
	size := s.scores.size()

	if limit.Count < 0 {
		limit.Count = size
	}

	if reverse {
		maxIdx -= limit.Offset
		if maxIdx < 0 || maxIdx <= minIdx {
			return nil
		}
	} else {
		minIdx += limit.Offset
		if minIdx >= maxIdx || minIdx > size {
			return nil
		}
	}

	take := maxIdx - minIdx
	if limit.Count < take {
		take = limit.Count
	}
	if take <= 0 {
		return nil
	}

	startIdx := minIdx
	if reverse {
		startIdx = maxIdx - 1
	}

	it := s.scores.rangeByIndex(startIdx, take, reverse)
	return drain(it, withScores)
}

// ZPopMax implements ZPOPMAX.
func (s *SortedSet) ZPopMax(count int) []MemberScore {
	s.mu.Lock()
	defer s.mu.Unlock()

	size := s.scores.size()
	if count > size {
		count = size
	}
	if count <= 0 {
		return nil
	}

	it := s.scores.rangeByIndex(size-1, count, true)
	var result []MemberScore
	var removed [][]byte
	for {
		e, ok := it.next()
		if !ok {
			break
		}
		result = append(result, MemberScore{Member: e.memberBytes(), Score: e.scoreBytes})
		removed = append(removed, e.memberBytes())
		s.members.delete(e.memberBytes())
		it.remove()
	}

	if len(removed) > 0 {
		_ = s.sink.PublishRems(RemsDelta{Members: removed})
	}
	return result
}

// ApplyDelta replays a previously emitted delta unconditionally,
// without emitting a further delta of its own.
func (s *SortedSet) ApplyDelta(adds *AddsDelta, rems *RemsDelta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if adds != nil {
		for _, ms := range adds.Members {
			score, err := ParseScore(ms.Score)
			if err != nil {
				return err
			}
			s.memberAdd(ms.Member, score)
		}
	}
	if rems != nil {
		for _, m := range rems.Members {
			s.memberRemove(m)
		}
	}
	return nil
}

// RemoveFromRegion reports whether the set is empty, the signal the
// distilled spec uses to tell an external storage layer it may delete
// the key entirely.
func (s *SortedSet) RemoveFromRegion() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.members.size() == 0
}
