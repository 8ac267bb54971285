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
	"fmt"
	"testing"
)

func TestScoreSetInsertAndIndexOf(t *testing.T) {
	s := &scoreSet{}
	for i := 0; i < 10; i++ {
		s.insert(realEntry(fmt.Sprintf("m%02d", i), float64(i)))
	}
	if s.size() != 10 {
		t.Fatalf("expected size 10, got %d", s.size())
	}
	for i := 0; i < 10; i++ {
		e := s.get(i)
		if s.indexOf(e) != i {
			t.Fatalf("indexOf(get(%d)) = %d, want %d", i, s.indexOf(e), i)
		}
	}
}

func TestScoreSetRemoveKeepsOrder(t *testing.T) {
	s := &scoreSet{}
	members := []string{"a", "b", "c", "d", "e"}
	for i, m := range members {
		s.insert(realEntry(m, float64(i)))
	}
	s.remove(realEntry("c", 2))
	if s.size() != 4 {
		t.Fatalf("expected size 4 after remove, got %d", s.size())
	}
	var order []string
	s.inOrder(func(e *entry) bool {
		order = append(order, string(e.memberBytes()))
		return true
	})
	want := []string{"a", "b", "d", "e"}
	for i, m := range want {
		if order[i] != m {
			t.Fatalf("order[%d] = %s, want %s", i, order[i], m)
		}
	}
}

func TestScoreSetRangeByIndexForwardAndReverse(t *testing.T) {
	s := &scoreSet{}
	for i := 0; i < 5; i++ {
		s.insert(realEntry(fmt.Sprintf("m%d", i), float64(i)))
	}

	it := s.rangeByIndex(1, 3, false)
	var fwd []string
	for {
		e, ok := it.next()
		if !ok {
			break
		}
		fwd = append(fwd, string(e.memberBytes()))
	}
	wantFwd := []string{"m1", "m2", "m3"}
	for i := range wantFwd {
		if fwd[i] != wantFwd[i] {
			t.Fatalf("forward[%d] = %s, want %s", i, fwd[i], wantFwd[i])
		}
	}

	it = s.rangeByIndex(4, 3, true)
	var rev []string
	for {
		e, ok := it.next()
		if !ok {
			break
		}
		rev = append(rev, string(e.memberBytes()))
	}
	wantRev := []string{"m4", "m3", "m2"}
	for i := range wantRev {
		if rev[i] != wantRev[i] {
			t.Fatalf("reverse[%d] = %s, want %s", i, rev[i], wantRev[i])
		}
	}
}

func TestScoreSetRangeIteratorRemove(t *testing.T) {
	s := &scoreSet{}
	for i := 0; i < 5; i++ {
		s.insert(realEntry(fmt.Sprintf("m%d", i), float64(i)))
	}

	it := s.rangeByIndex(4, 3, true)
	var popped []string
	for {
		e, ok := it.next()
		if !ok {
			break
		}
		popped = append(popped, string(e.memberBytes()))
		it.remove()
	}
	want := []string{"m4", "m3", "m2"}
	for i := range want {
		if popped[i] != want[i] {
			t.Fatalf("popped[%d] = %s, want %s", i, popped[i], want[i])
		}
	}
	if s.size() != 2 {
		t.Fatalf("expected 2 entries left, got %d", s.size())
	}
	var remaining []string
	s.inOrder(func(e *entry) bool {
		remaining = append(remaining, string(e.memberBytes()))
		return true
	})
	if len(remaining) != 2 || remaining[0] != "m0" || remaining[1] != "m1" {
		t.Fatalf("unexpected remaining entries: %v", remaining)
	}
}

func TestScoreSetStaysBalanced(t *testing.T) {
	s := &scoreSet{}
	const n = 2000
	for i := 0; i < n; i++ {
		s.insert(realEntry(fmt.Sprintf("m%06d", i), float64(i)))
	}
	h := nodeHeight(s.root)
	// A balanced binary tree over n=2000 elements has height close to
	// log2(2000) ~= 11; an unbalanced insert-in-order chain would have
	// height 2000. 40 is a generous ceiling that still catches a
	// regression to an unbalanced tree.
	if h > 40 {
		t.Fatalf("tree height %d suggests rebalancing regressed", h)
	}
}
