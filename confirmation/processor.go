package confirmation

import (
	"sync"

	"github.com/inconshreveable/log15"
	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/latticenet/go-lattice/chain_db"
	"github.com/latticenet/go-lattice/common/types"
	"github.com/latticenet/go-lattice/config"
	"github.com/latticenet/go-lattice/stats"
)

const (
	Create = iota
	Start
	Stop
)

const heightNotSet = ^uint64(0)

// confHeightDetails is one queued confirmation height write: raise
// account to height, where hash is the highest block being confirmed and
// numBlocksConfirmed the increase over the previously stored height.
type confHeightDetails struct {
	account            types.Address
	hash               types.Hash
	height             uint64
	numBlocksConfirmed uint64
}

// setRunLength finalizes numBlocksConfirmed as the distance from the
// frame's own height down to lowerHeight (exclusive). Callers must pass
// lowerHeight < height; the count starts out as heightNotSet and may be
// corrected more than once before the entry is flushed.
func (d *confHeightDetails) setRunLength(lowerHeight uint64) {
	d.numBlocksConfirmed = d.height - lowerHeight
}

// receiveSourcePair is a DFS frame: the receive block that caused the
// descent and the send block whose chain is explored next.
type receiveSourcePair struct {
	receiveDetails confHeightDetails
	sourceHash     types.Hash
}

// confirmedIteratedPair bounds the per-account work of one invocation:
// confirmedHeight is what the account will be raised to, iteratedHeight
// how far the chain has already been scanned. The iterated bound is what
// keeps self-sends and circular sends from being walked twice.
type confirmedIteratedPair struct {
	confirmedHeight uint64
	iteratedHeight  uint64
}

// Processor owns the worker that raises per-account confirmation height
// watermarks. Confirming a receive block implicitly confirms the paired
// send and, transitively, the sender's chain up to it, so one queued
// hash can fan out across many accounts. Writes are batched to keep the
// store's write lock short.
type Processor struct {
	pendingConfirmations *PendingConfirmation
	store                LedgerStore
	stats                *stats.Stat
	confirmer            BlockConfirmer
	epochLink            types.Hash

	batchWriteSize      uint64
	batchReadSize       uint64
	largeChainThreshold uint64

	status      int
	statusMutex sync.Mutex

	stopped                *atomic.Bool
	receiveSourcePairsSize *atomic.Int64

	wakeup       chan struct{}
	breaker      chan struct{}
	stopListener chan struct{}

	log log15.Logger
}

func NewProcessor(pending *PendingConfirmation, store LedgerStore, stat *stats.Stat, confirmer BlockConfirmer, epochLink types.Hash, cfg *config.Confirmation) *Processor {
	cfg = config.MergeConfirmationConfig(cfg)
	return &Processor{
		pendingConfirmations:   pending,
		store:                  store,
		stats:                  stat,
		confirmer:              confirmer,
		epochLink:              epochLink,
		batchWriteSize:         cfg.BatchWriteSize,
		batchReadSize:          cfg.BatchReadSize,
		largeChainThreshold:    cfg.LargeChainThreshold,
		status:                 Create,
		stopped:                atomic.NewBool(false),
		receiveSourcePairsSize: atomic.NewInt64(0),
		wakeup:                 make(chan struct{}, 1),
		log:                    log15.New("module", "confirmation"),
	}
}

func (p *Processor) Start() {
	p.statusMutex.Lock()
	defer p.statusMutex.Unlock()
	if p.status != Start {
		p.breaker = make(chan struct{})
		p.stopListener = make(chan struct{})
		p.stopped.Store(false)

		go p.work()

		p.status = Start
	}
}

// Stop is idempotent. It signals the worker, which exits at the next
// batch boundary, and joins it. Hashes not yet reached stay queued.
func (p *Processor) Stop() {
	p.statusMutex.Lock()
	defer p.statusMutex.Unlock()
	if p.status == Start {
		p.stopped.Store(true)
		close(p.breaker)

		<-p.stopListener

		p.status = Stop
		p.log.Info("stopped")
	}
}

// Add queues a hash deemed confirmed by consensus.
func (p *Processor) Add(hash types.Hash) {
	p.pendingConfirmations.Add(hash)
	select {
	case p.wakeup <- struct{}{}:
	default:
	}
}

func (p *Processor) Size() int {
	return p.pendingConfirmations.Size()
}

func (p *Processor) IsProcessing(hash types.Hash) bool {
	return p.pendingConfirmations.IsProcessing(hash)
}

func (p *Processor) Current() types.Hash {
	return p.pendingConfirmations.Current()
}

// ReceiveSourcePairsSize reports the DFS frontier depth, maintained as a
// plain atomic so introspection never touches the worker's state.
func (p *Processor) ReceiveSourcePairsSize() int64 {
	return p.receiveSourcePairsSize.Load()
}

func (p *Processor) work() {
LOOP:
	for {
		if p.stopped.Load() {
			break
		}

		hash, ok := p.pendingConfirmations.popForProcessing()
		if ok {
			p.addConfirmationHeight(hash)
			p.pendingConfirmations.clearCurrent()
			continue
		}

		select {
		case <-p.wakeup:
		case <-p.breaker:
			break LOOP
		}
	}
	p.stopListener <- struct{}{}
}

// addConfirmationHeight walks every chain implicitly confirmed by hash.
// Receive blocks found below hash push DFS frames for their source
// chains; heights are written from the ground upwards in batches so the
// watermark invariant holds even if the run is cut short.
func (p *Processor) addConfirmationHeight(hash types.Hash) {
	var receiveDetails *confHeightDetails
	current := hash
	var pendingWrites []confHeightDetails
	var receiveSourcePairs []receiveSourcePair
	confirmedIteratedPairs := make(map[types.Address]*confirmedIteratedPair)

	readTx, err := p.store.TxBeginRead()
	if err != nil {
		p.log.Error("tx_begin_read failed, error is "+err.Error(), "method", "addConfirmationHeight")
		return
	}
	defer readTx.Release()
	defer func() {
		p.receiveSourcePairsSize.Store(0)
	}()

	for {
		if len(receiveSourcePairs) > 0 {
			top := receiveSourcePairs[len(receiveSourcePairs)-1]
			details := top.receiveDetails
			receiveDetails = &details
			current = top.sourceHash
		} else if receiveDetails != nil {
			// Back to the original chain for the final pass: confirm the
			// blocks below the original hash (incl. itself) and the first
			// receive block if the original block is not one.
			current = hash
			receiveDetails = nil
		}

		blockHeight, err := p.store.BlockAccountHeight(readTx, current)
		if err != nil {
			p.log.Error("block height lookup failed, error is "+err.Error(), "method", "addConfirmationHeight", "hash", current)
			return
		}
		account, err := p.store.BlockAccount(readTx, current)
		if err != nil {
			p.log.Error("block account lookup failed, error is "+err.Error(), "method", "addConfirmationHeight", "hash", current)
			return
		}
		accountInfo, err := p.store.AccountGet(readTx, account)
		if err != nil {
			p.log.Error("account_get failed, error is "+err.Error(), "method", "addConfirmationHeight", "account", account)
			return
		}

		confirmationHeight := accountInfo.ConfirmationHeight
		iteratedHeight := confirmationHeight
		if pair, ok := confirmedIteratedPairs[account]; ok {
			if pair.confirmedHeight > confirmationHeight {
				confirmationHeight = pair.confirmedHeight
				iteratedHeight = confirmationHeight
			}
			if pair.iteratedHeight > iteratedHeight {
				iteratedHeight = pair.iteratedHeight
			}
		}

		countBeforeReceive := len(receiveSourcePairs)
		if blockHeight > iteratedHeight {
			if blockHeight-iteratedHeight > p.largeChainThreshold {
				p.log.Info("iterating over a large account chain for setting confirmation height, the top block: " + current.String())
			}
			receiveSourcePairs = p.collectUnconfirmed(receiveSourcePairs, readTx, blockHeight, iteratedHeight, current, account)
		}

		// No longer need the read transaction.
		readTx.Reset()

		// If this added no more receive frames we can confirm this
		// account, as well as the receive block that led us here.
		confirmedReceivesPending := countBeforeReceive != len(receiveSourcePairs)
		if !confirmedReceivesPending {
			if blockHeight > confirmationHeight {
				if pair, ok := confirmedIteratedPairs[account]; ok {
					pair.confirmedHeight = blockHeight
					if blockHeight > iteratedHeight {
						pair.iteratedHeight = blockHeight
					}
				} else {
					confirmedIteratedPairs[account] = &confirmedIteratedPair{confirmedHeight: blockHeight, iteratedHeight: blockHeight}
				}
				pendingWrites = append(pendingWrites, confHeightDetails{
					account:            account,
					hash:               current,
					height:             blockHeight,
					numBlocksConfirmed: blockHeight - confirmationHeight,
				})
			}

			if receiveDetails != nil {
				receiveAccount := receiveDetails.account
				if pair, ok := confirmedIteratedPairs[receiveAccount]; ok {
					// Blocks below the recorded height were counted by an
					// earlier entry for this account, so only the gap up to
					// the receive counts here.
					receiveDetails.setRunLength(pair.confirmedHeight)
					pair.confirmedHeight = receiveDetails.height
				} else {
					confirmedIteratedPairs[receiveAccount] = &confirmedIteratedPair{confirmedHeight: receiveDetails.height, iteratedHeight: receiveDetails.height}
				}
				pendingWrites = append(pendingWrites, *receiveDetails)
			}

			if len(receiveSourcePairs) > 0 {
				receiveSourcePairs = receiveSourcePairs[:len(receiveSourcePairs)-1]
				p.receiveSourcePairsSize.Dec()
			}
		} else if blockHeight > iteratedHeight {
			if pair, ok := confirmedIteratedPairs[account]; ok {
				pair.iteratedHeight = blockHeight
			} else {
				confirmedIteratedPairs[account] = &confirmedIteratedPair{confirmedHeight: confirmationHeight, iteratedHeight: blockHeight}
			}
		}

		var totalPendingWriteBlockCount uint64
		for i := range pendingWrites {
			totalPendingWriteBlockCount += pendingWrites[i].numBlocksConfirmed
		}

		if (uint64(len(pendingWrites)) >= p.batchWriteSize || len(receiveSourcePairs) == 0) && len(pendingWrites) > 0 {
			pendingWrites, err = p.writePending(pendingWrites, totalPendingWriteBlockCount)
			if err != nil {
				// Don't set any more blocks as confirmed from the original
				// hash if an inconsistency is found.
				receiveSourcePairs = nil
				p.receiveSourcePairsSize.Store(0)
				return
			}
		}

		// Exit early when the processor has been stopped, otherwise a
		// long chain keeps the worker running past shutdown.
		if p.stopped.Load() {
			return
		}

		if err := readTx.Renew(); err != nil {
			p.log.Error("renew read transaction failed, error is "+err.Error(), "method", "addConfirmationHeight")
			return
		}

		if len(receiveSourcePairs) == 0 && current == hash {
			break
		}
	}
}

// collectUnconfirmed walks the unscanned region of an account chain from
// hash downward, notifying the confirmer for each visited block that is
// not queued or currently processing, and pushing a DFS frame for every receive whose source chain the store
// knows. The pushed frame's count starts as heightNotSet and is fixed by
// the next lower receive on this chain, by the end-of-descent fix-up, or
// by the reconciliation at flush time.
func (p *Processor) collectUnconfirmed(pairs []receiveSourcePair, readTx *chain_db.ReadTransaction, blockHeight, iteratedHeight uint64, hash types.Hash, account types.Address) []receiveSourcePair {
	numToConfirm := blockHeight - iteratedHeight
	nextHeight := uint64(heightNotSet)
	pushed := false

	for numToConfirm > 0 && !hash.IsZero() {
		block, sideband := p.store.BlockGet(readTx, hash)
		if block != nil {
			if !p.pendingConfirmations.IsProcessing(hash) {
				p.confirmer.ConfirmBlock(readTx, block, sideband)
			}

			source := block.Source()
			if source.IsZero() {
				source = block.Link()
			}

			if !source.IsZero() && source != p.epochLink && p.store.SourceExists(readTx, source) {
				receiveHeight := iteratedHeight + numToConfirm
				// Set the run length of the receive block above, if any.
				if nextHeight != heightNotSet {
					pairs[len(pairs)-1].receiveDetails.setRunLength(receiveHeight)
				}

				pairs = append(pairs, receiveSourcePair{
					receiveDetails: confHeightDetails{
						account:            account,
						hash:               hash,
						height:             receiveHeight,
						numBlocksConfirmed: heightNotSet,
					},
					sourceHash: source,
				})
				p.receiveSourcePairsSize.Inc()
				nextHeight = receiveHeight
				pushed = true
			}

			hash = block.Previous()
		}

		// A very large account chain should not pin one read snapshot
		// for the whole walk.
		if numToConfirm%p.batchReadSize == 0 {
			if err := readTx.Refresh(); err != nil {
				p.log.Error("refresh read transaction failed, error is "+err.Error(), "method", "collectUnconfirmed")
				return pairs
			}
		}

		numToConfirm--
	}

	// The lowest receive of this descent confirms everything down to the
	// already-iterated region.
	if pushed {
		pairs[len(pairs)-1].receiveDetails.setRunLength(iteratedHeight)
	}

	return pairs
}

// writePending drains entries in FIFO order, at most batchWriteSize
// account applies per write transaction so the exclusive write lock
// stays short. Returns the entries not yet applied together with the
// error, if any.
func (p *Processor) writePending(allPending []confHeightDetails, totalPendingWriteBlockCount uint64) ([]confHeightDetails, error) {
	for len(allPending) > 0 {
		writeTx, err := p.store.TxBeginWrite()
		if err != nil {
			p.log.Error("tx_begin_write failed, error is "+err.Error(), "method", "writePending")
			return allPending, errors.Wrap(err, "write pending")
		}

		var numAccountsProcessed uint64
		for len(allPending) > 0 {
			pending := &allPending[0]
			accountInfo, err := p.store.AccountGet(writeTx, pending.account)
			if err != nil {
				writeTx.Discard()
				p.log.Error("account_get failed, error is "+err.Error(), "method", "writePending", "account", pending.account)
				return allPending, errors.Wrap(err, "write pending")
			}

			if pending.height > accountInfo.ConfirmationHeight {
				// The block may have been rolled back by another subsystem
				// since it was queued.
				block, sideband := p.store.BlockGet(writeTx, pending.hash)
				if block == nil || sideband.Height != pending.height {
					p.log.Warn("Failed to write confirmation height for: " + pending.hash.String())
					p.stats.Inc(stats.TypeConfirmationHeight, stats.DetailInvalidBlock)
					writeTx.Discard()
					return allPending, errors.Errorf("block %s missing while writing confirmation height", pending.hash)
				}

				p.stats.Add(stats.TypeConfirmationHeight, stats.DetailBlocksConfirmed, stats.DirIn, int64(pending.height-accountInfo.ConfirmationHeight))
				accountInfo.ConfirmationHeight = pending.height
				if err := p.store.AccountPut(writeTx, pending.account, accountInfo); err != nil {
					writeTx.Discard()
					p.log.Error("account_put failed, error is "+err.Error(), "method", "writePending", "account", pending.account)
					return allPending, errors.Wrap(err, "write pending")
				}
			}

			totalPendingWriteBlockCount -= pending.numBlocksConfirmed
			numAccountsProcessed++
			allPending = allPending[1:]

			if numAccountsProcessed >= p.batchWriteSize {
				// Commit periodically to limit time under the write lock
				// for long chains.
				break
			}
		}

		if err := writeTx.Commit(); err != nil {
			p.log.Error("commit failed, error is "+err.Error(), "method", "writePending")
			return allPending, errors.Wrap(err, "write pending")
		}
	}
	return nil, nil
}
