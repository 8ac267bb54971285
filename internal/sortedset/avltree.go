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

// avlNode is a node of the order-statistics tree. size is the count of
// nodes in the subtree rooted here, including this node; height is the
// usual AVL balance height. Both are maintained on every structural
// change so that indexOf/get run in O(log n).
type avlNode struct {
	e      *entry
	left   *avlNode
	right  *avlNode
	height int
	size   int
}

func nodeSize(n *avlNode) int {
	if n == nil {
		return 0
	}
	return n.size
}

func nodeHeight(n *avlNode) int {
	if n == nil {
		return 0
	}
	return n.height
}

func (n *avlNode) recalc() {
	n.height = 1 + max(nodeHeight(n.left), nodeHeight(n.right))
	n.size = 1 + nodeSize(n.left) + nodeSize(n.right)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func balanceFactor(n *avlNode) int {
	if n == nil {
		return 0
	}
	return nodeHeight(n.left) - nodeHeight(n.right)
}

func rotateRight(n *avlNode) *avlNode {
	l := n.left
	n.left = l.right
	l.right = n
	n.recalc()
	l.recalc()
	return l
}

func rotateLeft(n *avlNode) *avlNode {
	r := n.right
	n.right = r.left
	r.left = n
	n.recalc()
	r.recalc()
	return r
}

func rebalance(n *avlNode) *avlNode {
	n.recalc()
	bf := balanceFactor(n)
	if bf > 1 {
		if balanceFactor(n.left) < 0 {
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	}
	if bf < -1 {
		if balanceFactor(n.right) > 0 {
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	}
	return n
}

// scoreSet is the order-statistics tree: a balanced BST of entries
// ordered by compareEntries, augmented with subtree sizes so that
// indexOf and get run in O(log n).
type scoreSet struct {
	root *avlNode
}

func (s *scoreSet) size() int {
	return nodeSize(s.root)
}

func (s *scoreSet) insert(e *entry) {
	s.root = insertNode(s.root, e)
}

func insertNode(n *avlNode, e *entry) *avlNode {
	if n == nil {
		return &avlNode{e: e, height: 1, size: 1}
	}
	if compareEntries(e, n.e) < 0 {
		n.left = insertNode(n.left, e)
	} else {
		n.right = insertNode(n.right, e)
	}
	return rebalance(n)
}

// remove deletes the entry equal to e (by compareEntries) from the
// tree. It is a no-op if no such entry is present.
func (s *scoreSet) remove(e *entry) {
	s.root, _ = removeNode(s.root, e)
}

func removeNode(n *avlNode, e *entry) (*avlNode, bool) {
	if n == nil {
		return nil, false
	}
	c := compareEntries(e, n.e)
	removed := false
	switch {
	case c < 0:
		n.left, removed = removeNode(n.left, e)
	case c > 0:
		n.right, removed = removeNode(n.right, e)
	default:
		removed = true
		if n.left == nil {
			return n.right, true
		}
		if n.right == nil {
			return n.left, true
		}
		succ := leftmost(n.right)
		n.e = succ.e
		n.right, _ = removeNode(n.right, succ.e)
	}
	return rebalance(n), removed
}

func leftmost(n *avlNode) *avlNode {
	for n.left != nil {
		n = n.left
	}
	return n
}

// indexOf returns the rank of e: the number of entries strictly less
// than e under compareEntries. For an entry not present in the tree,
// this is its insertion index.
func (s *scoreSet) indexOf(e *entry) int {
	n := s.root
	idx := 0
	for n != nil {
		if compareEntries(e, n.e) <= 0 {
			n = n.left
		} else {
			idx += nodeSize(n.left) + 1
			n = n.right
		}
	}
	return idx
}

// get returns the entry at position i in ascending order, i in
// [0, size).
func (s *scoreSet) get(i int) *entry {
	n := s.root
	for n != nil {
		leftSize := nodeSize(n.left)
		switch {
		case i < leftSize:
			n = n.left
		case i == leftSize:
			return n.e
		default:
			i -= leftSize + 1
			n = n.right
		}
	}
	return nil
}

// rangeIterator yields entries starting at index start, count of them
// at most, ascending (reverse=false) or descending (reverse=true).
// remove() removes the last-yielded entry from the tree.
type rangeIterator struct {
	s       *scoreSet
	idx     int
	reverse bool
	remaining int
	last    *entry
}

func (s *scoreSet) rangeByIndex(start, count int, reverse bool) *rangeIterator {
	return &rangeIterator{s: s, idx: start, reverse: reverse, remaining: count}
}

func (it *rangeIterator) next() (*entry, bool) {
	if it.remaining <= 0 || it.idx < 0 || it.idx >= it.s.size() {
		return nil, false
	}
	e := it.s.get(it.idx)
	it.last = e
	it.remaining--
	if it.reverse {
		it.idx--
	} else {
		it.idx++
	}
	return e, true
}

// remove deletes the entry most recently returned by next from the
// tree. After removal, ascending iteration does not need to advance
// the index (the next element shifted into the vacated slot);
// descending iteration likewise keeps idx pointed one below the
// removed element, which is already where it was decremented to.
func (it *rangeIterator) remove() {
	if it.last == nil {
		return
	}
	it.s.remove(it.last)
	if !it.reverse {
		it.idx--
	}
	it.last = nil
}

// inOrder walks every entry in ascending order, stopping early if
// yield returns false.
func (s *scoreSet) inOrder(yield func(*entry) bool) {
	inOrderNode(s.root, yield)
}

func inOrderNode(n *avlNode, yield func(*entry) bool) bool {
	if n == nil {
		return true
	}
	if !inOrderNode(n.left, yield) {
		return false
	}
	if !yield(n.e) {
		return false
	}
	return inOrderNode(n.right, yield)
}
