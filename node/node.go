package node

import (
	"github.com/inconshreveable/log15"
	"github.com/pkg/errors"

	"github.com/latticenet/go-lattice/chain_db"
	"github.com/latticenet/go-lattice/common"
	"github.com/latticenet/go-lattice/config"
	"github.com/latticenet/go-lattice/confirmation"
	"github.com/latticenet/go-lattice/election"
	"github.com/latticenet/go-lattice/stats"
)

// Node wires the ledger store, the election notifier and the
// confirmation height processor together for one process lifetime.
type Node struct {
	config *config.Config

	chainDb   *chain_db.ChainDb
	elections *election.Elections
	stat      *stats.Stat
	processor *confirmation.Processor

	lifecycle common.LifecycleStatus

	log log15.Logger
}

func New(cfg *config.Config) (*Node, error) {
	chainDb, err := chain_db.NewChainDb(cfg.LedgerDir())
	if err != nil {
		return nil, errors.Wrap(err, "new node")
	}

	epochLink, err := cfg.EpochLinkHash()
	if err != nil {
		return nil, errors.Wrap(err, "parse epoch link")
	}

	elections := election.NewElections()
	stat := stats.New()
	processor := confirmation.NewProcessor(
		confirmation.NewPendingConfirmation(),
		chainDb,
		stat,
		elections,
		epochLink,
		cfg.Confirmation,
	)

	return &Node{
		config:    cfg,
		chainDb:   chainDb,
		elections: elections,
		stat:      stat,
		processor: processor,
		log:       log15.New("module", "node"),
	}, nil
}

func (n *Node) Start() error {
	if !n.lifecycle.PreStart() {
		return errors.New("node already started")
	}
	n.processor.Start()
	n.lifecycle.PostStart()
	n.log.Info("node started", "dataDir", n.config.DataDir)
	return nil
}

// Stop halts the processor before closing the store so no write
// transaction is cut off mid-commit.
func (n *Node) Stop() error {
	if !n.lifecycle.PreStop() {
		return errors.New("node not running")
	}
	n.processor.Stop()
	if err := n.chainDb.Close(); err != nil {
		n.log.Error("close chain db failed, error is " + err.Error())
	}
	n.lifecycle.PostStop()
	n.log.Info("node stopped")
	return nil
}

func (n *Node) Processor() *confirmation.Processor {
	return n.processor
}

func (n *Node) ChainDb() *chain_db.ChainDb {
	return n.chainDb
}

func (n *Node) Elections() *election.Elections {
	return n.elections
}

func (n *Node) Stats() *stats.Stat {
	return n.stat
}
