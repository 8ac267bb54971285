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

// memberIndex maps member bytes to the live entry stored in the
// order-statistics tree. A Go map keyed by string already hashes and
// compares by content, which is exactly what the distilled spec's
// byte-array-keyed hash map calls for; no custom hash strategy is
// needed.
type memberIndex struct {
	entries map[string]*entry
}

func newMemberIndex() *memberIndex {
	return &memberIndex{entries: make(map[string]*entry)}
}

func (m *memberIndex) get(member []byte) (*entry, bool) {
	e, ok := m.entries[string(member)]
	return e, ok
}

func (m *memberIndex) put(e *entry) {
	m.entries[string(e.memberBytes())] = e
}

func (m *memberIndex) delete(member []byte) {
	delete(m.entries, string(member))
}

func (m *memberIndex) size() int {
	return len(m.entries)
}

// sizeBytes estimates the heap footprint of the map: per-entry
// overhead plus the member key bytes plus the canonical score bytes.
// This mirrors the distilled spec's requirement that the member map
// report its own footprint so an external memory-pressure collaborator
// can account for it without reaching into the tree.
func (m *memberIndex) sizeBytes() int {
	const perEntryOverhead = 48
	total := 0
	for k, e := range m.entries {
		total += perEntryOverhead + len(k) + len(e.scoreBytes)
	}
	return total
}
