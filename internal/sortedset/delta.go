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

// AddsDelta is the record emitted after a mutation that added or
// updated members: one MemberScore per member touched, in application
// order.
type AddsDelta struct {
	Members []MemberScore
}

// RemsDelta is the record emitted after a mutation that removed
// members.
type RemsDelta struct {
	Members [][]byte
}

// DeltaSink is the external collaborator that replicates incremental
// changes. It is invoked synchronously, inside the set's lock, after
// every command that actually changed something; a sink that needs to
// do anything blocking should make PublishAdds/PublishRems
// non-blocking on its own (queue-and-return), since the core holds its
// lock for the duration of the call.
type DeltaSink interface {
	PublishAdds(delta AddsDelta) error
	PublishRems(delta RemsDelta) error
}

// NopDeltaSink discards every delta. It is the default sink for a
// SortedSet created without one, so the core never has to nil-check
// before publishing.
type NopDeltaSink struct{}

func (NopDeltaSink) PublishAdds(AddsDelta) error { return nil }
func (NopDeltaSink) PublishRems(RemsDelta) error { return nil }
