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
	"encoding/json"
	"errors"
	"flag"
	"log"
	"os"
	"path"
	"time"

	"github.com/sortedkv/sortedset/internal/util"

	"gopkg.in/yaml.v3"
)

// Config holds everything the replication adapter and demo command need
// to stand up a raft-backed sorted set replica. Anything belonging to
// the wire-protocol server, ACL, pub/sub, eviction or AOF machinery of
// the larger project this was pulled out of has no home here.
type Config struct {
	ServerID         string        `json:"ServerId" yaml:"ServerId"`
	JoinAddr         string        `json:"JoinAddr" yaml:"JoinAddr"`
	BindAddr         string        `json:"BindAddr" yaml:"BindAddr"`
	DataDir          string        `json:"DataDir" yaml:"DataDir"`
	BootstrapCluster bool          `json:"BootstrapCluster" yaml:"BootstrapCluster"`
	SnapshotThreshold uint64       `json:"SnapshotThreshold" yaml:"SnapshotThreshold"`
	SnapshotInterval time.Duration `json:"SnapshotInterval" yaml:"SnapshotInterval"`
	RaftBindAddr     string
	RaftBindPort     uint16
}

// GetConfig parses command-line flags, optionally overlays a JSON or
// YAML config file on top, and fills in the raft bind address/port when
// they were not supplied explicitly.
func GetConfig() (Config, error) {
	serverId := flag.String("server-id", "1", "Sorted set replica ID in the raft cluster.")
	joinAddr := flag.String("join-addr", "", "Address of an existing cluster member to join.")
	bindAddr := flag.String("bind-addr", "127.0.0.1", "Address to bind this replica to.")
	dataDir := flag.String("data-dir", ".", "Directory to store the raft log and snapshots.")
	bootstrapCluster := flag.Bool("bootstrap-cluster", false, "Whether this instance should bootstrap a new cluster.")
	snapshotThreshold := flag.Uint64("snapshot-threshold", 1000, "Number of raft log entries that trigger a snapshot.")
	snapshotInterval := flag.Duration("snapshot-interval", 5*time.Minute, "Interval between snapshot checks.")
	configPath := flag.String("config", "", "Path to a JSON or YAML config file. Overrides the flag values above.")

	flag.Parse()

	raftBindAddr, err := util.GetIPAddress()
	if err != nil {
		return Config{}, err
	}
	raftBindPort, err := util.GetFreePort()
	if err != nil {
		return Config{}, err
	}

	conf := Config{
		ServerID:          *serverId,
		JoinAddr:          *joinAddr,
		BindAddr:          *bindAddr,
		DataDir:           *dataDir,
		BootstrapCluster:  *bootstrapCluster,
		SnapshotThreshold: *snapshotThreshold,
		SnapshotInterval:  *snapshotInterval,
		RaftBindAddr:      raftBindAddr,
		RaftBindPort:      uint16(raftBindPort),
	}

	if len(*configPath) == 0 {
		return conf, nil
	}

	f, err := os.Open(*configPath)
	if err != nil {
		return Config{}, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Println(cerr)
		}
	}()

	switch path.Ext(f.Name()) {
	case ".json":
		if err := json.NewDecoder(f).Decode(&conf); err != nil {
			return Config{}, err
		}
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(f).Decode(&conf); err != nil {
			return Config{}, err
		}
	default:
		return Config{}, errors.New("config file must have a .json, .yaml or .yml extension")
	}

	return conf, nil
}
