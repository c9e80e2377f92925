package main

import (
	"net"
	"path/filepath"
	"time"

	"github.com/aegenchain/aegen-core/config"
	"github.com/aegenchain/aegen-core/consensus"
	"github.com/aegenchain/aegen-core/cryptoutil"
	"github.com/aegenchain/aegen-core/execution"
	"github.com/aegenchain/aegen-core/mempool"
	"github.com/aegenchain/aegen-core/netgossip"
	"github.com/aegenchain/aegen-core/proposer"
	"github.com/aegenchain/aegen-core/state"
	"github.com/aegenchain/aegen-core/storage"
	"github.com/aegenchain/aegen-core/types"
	"github.com/aegenchain/aegen-core/vm"
)

// runNode wires the persistent KV, state store, mempool, execution engine,
// VM, and PBFT node together and starts the gossip listener. It blocks
// until the listener errs or the process is signaled to stop.
func runNode(cfg config.Config) error {
	db, err := storage.Open(filepath.Join(cfg.DataDir, "state"))
	if err != nil {
		return err
	}
	defer db.Close()

	store := state.New(db)
	if err := store.Load(); err != nil {
		return err
	}

	precompiles := vm.NewPrecompileSet()
	precompiles.Register(9, vm.DefaultGroth16Precompile)
	machine := vm.NewMachine(store, precompiles)

	engine := execution.New(store, machine)
	pool := mempool.New()

	selfPriv, selfPub, err := cryptoutil.GenerateKeypair()
	if err != nil {
		return err
	}
	self := types.Address(cryptoutil.DeriveAddress(selfPub))
	prop := proposer.New(pool, engine, self, selfPriv)

	voteLog, err := consensus.OpenVoteLog(filepath.Join(cfg.DataDir, "votes.log"))
	if err != nil {
		return err
	}
	defer voteLog.Close()

	records, err := consensus.ReplayVoteLog(filepath.Join(cfg.DataDir, "votes.log"))
	if err != nil {
		return err
	}

	node := consensus.NewNode(cfg.NodeID, cfg.Committee, voteLog, func(v types.Vote) {
		log.WithField("phase", v.Phase).Debug("broadcasting vote")
	}, func(blockHash [32]byte) {
		log.WithField("block_hash", blockHash).Info("block finalized")
	})
	node.Recover(records)

	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return err
	}
	defer ln.Close()

	var height uint64
	var prevHash [32]byte
	var prevTime uint64
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.HeartbeatSec) * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if pool.Size() == 0 {
				b := prop.ProposeHeartbeat(height, prevTime, prevHash)
				log.WithField("height", b.Header.Height).Debug("produced heartbeat block")
				continue
			}
			b, snap, err := prop.Propose(height, prevTime, prevHash)
			if err != nil {
				log.WithError(err).Warn("propose failed")
				continue
			}
			_ = snap // this loop neither commits nor rolls back the snapshot handle
			log.WithField("height", b.Header.Height).Info("proposed block")
		}
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go netgossip.ServeConn(conn, func(msg netgossip.Message) {
			log.WithField("type", msg.Type).Debug("received gossip message")
		})
	}
}
