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

// Package replication adapts sortedset.DeltaSink onto a hashicorp/raft
// log, so a delta emitted by one node's SortedSet is replayed onto
// every other node's replica of the same key.
package replication

import (
	"encoding/json"
	"io"

	"github.com/hashicorp/raft"

	"github.com/sortedkv/sortedset/internal/sortedset"
)

// deltaRecord is the wire shape appended to the raft log: exactly one
// of Adds or Rems is set, matching the two tagged delta variants.
type deltaRecord struct {
	Adds *sortedset.AddsDelta `json:"adds,omitempty"`
	Rems *sortedset.RemsDelta `json:"rems,omitempty"`
}

// FSM applies replicated deltas to a local SortedSet replica. It is
// handed to raft.NewRaft as the state machine; every node in the
// cluster runs one, pointed at its own local copy of the set.
type FSM struct {
	set *sortedset.SortedSet
}

// NewFSM returns an FSM that applies replicated deltas to set.
func NewFSM(set *sortedset.SortedSet) *FSM {
	return &FSM{set: set}
}

// Apply implements raft.FSM. It decodes the logged delta and replays
// it via SortedSet.ApplyDelta, which performs the update
// unconditionally and does not itself emit a further delta.
func (f *FSM) Apply(log *raft.Log) interface{} {
	var rec deltaRecord
	if err := json.Unmarshal(log.Data, &rec); err != nil {
		return err
	}
	return f.set.ApplyDelta(rec.Adds, rec.Rems)
}

// Snapshot implements raft.FSM by serializing the current contents of
// the local replica via SortedSet.Serialize.
func (f *FSM) Snapshot() (raft.FSMSnapshot, error) {
	return &fsmSnapshot{set: f.set}, nil
}

// Restore implements raft.FSM by replacing the local replica's
// contents with a previously taken snapshot.
func (f *FSM) Restore(r io.ReadCloser) error {
	defer func() {
		_ = r.Close()
	}()
	return f.set.Deserialize(r)
}

type fsmSnapshot struct {
	set *sortedset.SortedSet
}

func (s *fsmSnapshot) Persist(sink raft.SnapshotSink) error {
	if err := s.set.Serialize(sink); err != nil {
		_ = sink.Cancel()
		return err
	}
	return sink.Close()
}

func (s *fsmSnapshot) Release() {}
