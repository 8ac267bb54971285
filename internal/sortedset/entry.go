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

// memberTag distinguishes a real, user-supplied member from one of the
// two process-wide boundary sentinels. The distilled spec models
// sentinels by object identity; Go copies slices freely, so identity
// does not survive a round trip through a function boundary. A tagged
// union is the idiomatic substitute: a sentinel is recognized by its
// tag, never by comparing bytes.
type memberTag uint8

const (
	tagBytes memberTag = iota
	tagLeast
	tagGreatest
)

// memberKey is either a real member's bytes or one of the two
// sentinels. Sentinel values carry no bytes.
type memberKey struct {
	tag   memberTag
	bytes []byte
}

func bytesKey(b []byte) memberKey { return memberKey{tag: tagBytes, bytes: b} }

// least and greatest are the two process-wide sentinel keys. They are
// declared once and never mutated; every probe that needs a boundary
// endpoint refers to one of these two values rather than constructing
// a fresh tagged value, so that "is this a sentinel" is always a tag
// check rather than a value comparison.
var (
	least    = memberKey{tag: tagLeast}
	greatest = memberKey{tag: tagGreatest}
)

// entry is the (member, scoreBytes, score) triple shared by the member
// map and the order-statistics tree. Real entries always carry
// tagBytes; probe entries (never inserted into either index) may carry
// a sentinel tag or the special lex-probe shape in comparator.go.
type entry struct {
	member    memberKey
	scoreBytes []byte
	score      float64

	// isLexProbe marks a probe built for ZRANGEBYLEX: it carries real
	// member bytes (tagBytes) plus exclusivity/min-max flags, and is
	// compared against real entries by lexProbe rules rather than the
	// plain sentinel rules. It is never true for an entry that lives in
	// either index.
	isLexProbe bool
	isExclusive bool
	isMinimum   bool
}

// memberBytes returns the real member bytes backing this entry. It
// must only be called on entries known to carry tagBytes.
func (e *entry) memberBytes() []byte {
	return e.member.bytes
}
