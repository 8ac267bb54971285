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

import "bytes"

// compareEntries orders two entries by score, breaking ties by member.
// It is the single comparator used throughout the tree: real entries,
// sentinel probes, and lex probes are all compared the same way.
func compareEntries(a, b *entry) int {
	if a.score < b.score {
		return -1
	}
	if a.score > b.score {
		return 1
	}
	return compareMembers(a, b)
}

// compareMembers implements the tie-break rule from the boundary
// sentinel design: a least-tagged member compares less than anything,
// a greatest-tagged member compares greater than anything, two
// sentinels of the same kind must never be compared against each
// other (that is an internal invariant violation), and otherwise
// members compare by unsigned lexicographic byte order.
func compareMembers(a, b *entry) int {
	if a.isLexProbe || b.isLexProbe {
		return compareLexProbe(a, b)
	}

	aTag, bTag := a.member.tag, b.member.tag

	if aTag == tagLeast && bTag == tagLeast {
		panic("sortedset: cannot compare two least-member sentinels")
	}
	if aTag == tagGreatest && bTag == tagGreatest {
		panic("sortedset: cannot compare two greatest-member sentinels")
	}
	if aTag == tagLeast || bTag == tagGreatest {
		return -1
	}
	if bTag == tagLeast || aTag == tagGreatest {
		return 1
	}
	return bytes.Compare(a.member.bytes, b.member.bytes)
}

// compareLexProbe handles comparisons where at least one side is a
// ZRANGEBYLEX probe entry. A probe carries the same member bytes a
// real entry would use as its boundary, plus isExclusive/isMinimum
// flags that decide which side of an exact match the probe falls on.
func compareLexProbe(a, b *entry) int {
	switch {
	case a.isLexProbe && b.isLexProbe:
		panic("sortedset: cannot compare two lex probes")
	case a.isLexProbe:
		c := bytes.Compare(a.member.bytes, b.member.bytes)
		if c != 0 {
			return c
		}
		if a.isMinimum != a.isExclusive {
			return -1
		}
		return 1
	default:
		return -compareLexProbe(b, a)
	}
}

// scoreProbe builds a synthetic entry used to locate a score-range
// boundary via indexOf. isExclusive/isMinimum follow the endpoint
// encoding rule: inclusive-min or exclusive-max probes with the LEAST
// sentinel, the rest probe with GREATEST.
func scoreProbe(score float64, isExclusive, isMinimum bool) *entry {
	m := greatest
	if isExclusive != isMinimum {
		m = least
	}
	return &entry{member: m, score: score}
}

// lexProbe builds a synthetic entry used to locate a ZRANGEBYLEX
// boundary via indexOf, at the given shared score.
func lexProbe(member []byte, score float64, isExclusive, isMinimum bool) *entry {
	return &entry{
		member:      bytesKey(member),
		score:       score,
		isLexProbe:  true,
		isExclusive: isExclusive,
		isMinimum:   isMinimum,
	}
}
