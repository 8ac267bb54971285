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
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const maxLengthPrefixed = math.MaxUint32

// Serialize writes size followed by (memberBytes, scoreBytes) pairs,
// each length-prefixed, in member-map iteration order. It holds the
// set's lock for the duration, so it is mutually exclusive with every
// mutator, matching the distilled spec's requirement that
// serialization and mutation never interleave.
func (s *SortedSet) Serialize(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeUint32(w, uint32(s.members.size())); err != nil {
		return err
	}
	for _, e := range s.members.entries {
		if err := writeLengthPrefixed(w, e.memberBytes()); err != nil {
			return err
		}
		if err := writeLengthPrefixed(w, e.scoreBytes); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize replaces the set's contents with the stream written by
// Serialize. The set must otherwise be unused (or already guarded
// externally); no delta is emitted for the entries it loads.
func (s *SortedSet) Deserialize(r io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	size, err := readUint32(r)
	if err != nil {
		return err
	}

	members := newMemberIndex()
	scores := &scoreSet{}

	for i := uint32(0); i < size; i++ {
		member, err := readLengthPrefixed(r)
		if err != nil {
			return err
		}
		scoreBytes, err := readLengthPrefixed(r)
		if err != nil {
			return err
		}
		score, err := ParseScore(scoreBytes)
		if err != nil {
			return err
		}
		e := &entry{member: bytesKey(member), score: score, scoreBytes: scoreBytes}
		members.put(e)
		scores.insert(e)
	}

	s.members = members
	s.scores = scores
	return nil
}

func writeUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

func writeLengthPrefixed(w io.Writer, b []byte) error {
	if uint64(len(b)) > maxLengthPrefixed {
		return fmt.Errorf("sortedset: value too large to serialize (%d bytes)", len(b))
	}
	if err := writeUint32(w, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readLengthPrefixed(r io.Reader) ([]byte, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}
