package election

import (
	"github.com/inconshreveable/log15"
	"github.com/olebedev/emitter"

	"github.com/latticenet/go-lattice/chain_db/access"
	"github.com/latticenet/go-lattice/ledger"
)

const confirmedTopic = "confirmed"

// Elections is notified for every block that becomes implicitly
// confirmed, before its height is written, and fans the event out to
// subscribers (observer finalization, payment notification and the
// like).
type Elections struct {
	em  *emitter.Emitter
	log log15.Logger
}

func NewElections() *Elections {
	return &Elections{
		em:  emitter.New(256),
		log: log15.New("module", "election"),
	}
}

// ConfirmBlock is fire-and-forget: delivery happens on the emitter's
// goroutines, never blocking the confirmation worker.
func (e *Elections) ConfirmBlock(r access.Reader, block *ledger.AccountBlock, sideband *ledger.Sideband) {
	e.em.Emit(confirmedTopic, block, sideband)
}

// Subscribe returns a channel of confirmed-block events. Args[0] is the
// *ledger.AccountBlock, Args[1] the *ledger.Sideband. Pass the same
// channel to Unsubscribe to detach it.
func (e *Elections) Subscribe() <-chan emitter.Event {
	return e.em.On(confirmedTopic)
}

func (e *Elections) Unsubscribe(ch <-chan emitter.Event) {
	e.em.Off(confirmedTopic, ch)
}
