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

package config

import (
	"time"

	"github.com/sortedkv/sortedset/internal/util"
)

// DefaultConfig returns the configuration GetConfig would produce with
// every flag left at its default, useful for tests and for embedding
// a replica without going through flag parsing.
func DefaultConfig() Config {
	raftBindAddr, _ := util.GetIPAddress()
	raftBindPort, _ := util.GetFreePort()

	return Config{
		ServerID:          "1",
		JoinAddr:          "",
		BindAddr:          "127.0.0.1",
		DataDir:           ".",
		BootstrapCluster:  false,
		SnapshotThreshold: 1000,
		SnapshotInterval:  5 * time.Minute,
		RaftBindAddr:      raftBindAddr,
		RaftBindPort:      uint16(raftBindPort),
	}
}
