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

package replication

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/raft"
	raftboltdb "github.com/hashicorp/raft-boltdb"
	"github.com/sethvargo/go-retry"

	"github.com/sortedkv/sortedset/internal/clock"
	"github.com/sortedkv/sortedset/internal/config"
	"github.com/sortedkv/sortedset/internal/sortedset"
	"github.com/sortedkv/sortedset/internal/util"
)

// Node wraps a raft.Raft instance bound to one local SortedSet
// replica. It is the concrete DeltaSink named in the component design:
// PublishAdds/PublishRems marshal the delta and submit it to the raft
// log; FSM.Apply (running on every node, including this one) replays
// it onto the local replica.
type Node struct {
	conf config.Config
	raft *raft.Raft

	applyTimeout time.Duration
	backoff      retry.Backoff
	clock        clock.Clock
}

// New starts a raft node bound to set and returns the Node as soon as
// the raft instance is created (and, with BootstrapCluster, the
// bootstrap configuration submitted); it does not wait for a leader to
// be elected, so an early Apply can fail until one is. Cluster membership (AddVoter/gossip
// discovery) is intentionally not implemented here: the single voter
// named in conf is the entire membership this package manages, per the
// distilled spec's explicit exclusion of cross-node cluster management
// from the core's scope.
func New(conf config.Config, set *sortedset.SortedSet) (*Node, error) {
	raftConfig := raft.DefaultConfig()
	raftConfig.LocalID = raft.ServerID(conf.ServerID)
	raftConfig.SnapshotThreshold = conf.SnapshotThreshold
	raftConfig.SnapshotInterval = conf.SnapshotInterval

	var logStore raft.LogStore
	var stableStore raft.StableStore
	var snapshotStore raft.SnapshotStore

	if conf.DataDir == "" {
		logStore = raft.NewInmemStore()
		stableStore = raft.NewInmemStore()
		snapshotStore = raft.NewInmemSnapshotStore()
	} else {
		boltStore, err := raftboltdb.NewBoltStore(filepath.Join(conf.DataDir, "logs.db"))
		if err != nil {
			return nil, err
		}
		logStore, err = raft.NewLogCache(512, boltStore)
		if err != nil {
			return nil, err
		}
		stableStore = raft.StableStore(boltStore)
		snapshotStore, err = raft.NewFileSnapshotStore(conf.DataDir, 2, os.Stdout)
		if err != nil {
			return nil, err
		}
	}

	bindAddr := fmt.Sprintf("%s:%d", conf.RaftBindAddr, conf.RaftBindPort)
	advertiseAddr, err := net.ResolveTCPAddr("tcp", bindAddr)
	if err != nil {
		return nil, err
	}

	transport, err := raft.NewTCPTransport(bindAddr, advertiseAddr, 10, 5*time.Second, os.Stdout)
	if err != nil {
		return nil, err
	}

	raftServer, err := raft.NewRaft(raftConfig, NewFSM(set), logStore, stableStore, snapshotStore, transport)
	if err != nil {
		return nil, fmt.Errorf("replication: could not start raft node: %w", err)
	}

	if conf.BootstrapCluster {
		if err := raftServer.BootstrapCluster(raft.Configuration{
			Servers: []raft.Server{
				{Suffrage: raft.Voter, ID: raft.ServerID(conf.ServerID), Address: raft.ServerAddress(bindAddr)},
			},
		}).Error(); err != nil {
			log.Printf("replication: bootstrap: %v\n", err)
		}
	}

	n := &Node{
		conf:         conf,
		raft:         raftServer,
		applyTimeout: 5 * time.Second,
		clock:        clock.NewClock(),
	}
	n.backoff = util.RetryBackoff(retry.NewExponential(50*time.Millisecond), 5, 20*time.Millisecond, time.Second, 10*time.Second)
	return n, nil
}

// IsLeader reports whether this node currently holds raft leadership.
// Only the leader may Apply; followers forward through whatever
// external collaborator owns cluster routing (out of scope here).
func (n *Node) IsLeader() bool {
	return n.raft.State() == raft.Leader
}

func (n *Node) apply(rec deltaRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return retry.Do(context.Background(), n.backoff, func(ctx context.Context) error {
		future := n.raft.Apply(data, n.applyTimeout)
		if err := future.Error(); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

// PublishAdds implements sortedset.DeltaSink.
func (n *Node) PublishAdds(delta sortedset.AddsDelta) error {
	if err := n.apply(deltaRecord{Adds: &delta}); err != nil {
		log.Printf("replication: %s publish adds failed after retries, dropping: %v\n", n.clock.Now(), err)
	}
	return nil
}

// PublishRems implements sortedset.DeltaSink.
func (n *Node) PublishRems(delta sortedset.RemsDelta) error {
	if err := n.apply(deltaRecord{Rems: &delta}); err != nil {
		log.Printf("replication: %s publish rems failed after retries, dropping: %v\n", n.clock.Now(), err)
	}
	return nil
}

// Shutdown transfers leadership away (if held) and shuts the raft node
// down, mirroring the teacher's RaftShutdown behavior.
func (n *Node) Shutdown() {
	if n.IsLeader() {
		if err := n.raft.LeadershipTransfer().Error(); err != nil {
			log.Printf("replication: leadership transfer: %v\n", err)
		}
	}
	if err := n.raft.Shutdown().Error(); err != nil {
		log.Printf("replication: shutdown: %v\n", err)
	}
}
