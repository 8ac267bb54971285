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

// sortedsetd wires a config, a replicated SortedSet, and a raft node
// together and keeps the process alive. It is not a Redis-compatible
// server: there is no wire protocol listener here, only the
// replication and storage layers the command surface depends on.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sortedkv/sortedset/internal/config"
	"github.com/sortedkv/sortedset/internal/replication"
	"github.com/sortedkv/sortedset/internal/sortedset"
)

func main() {
	conf, err := config.GetConfig()
	if err != nil {
		log.Fatal(err)
	}

	set := sortedset.New(nil)

	node, err := replication.New(conf, set)
	if err != nil {
		log.Fatal(err)
	}
	set.SetDeltaSink(node)

	log.Printf("sortedsetd: server-id=%s bind=%s:%d data-dir=%s\n",
		conf.ServerID, conf.RaftBindAddr, conf.RaftBindPort, conf.DataDir)

	cancelCh := make(chan os.Signal, 1)
	signal.Notify(cancelCh, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-cancelCh

	node.Shutdown()
}
