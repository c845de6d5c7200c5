// Package memory provides in-memory ledger stores and a journaling transaction
// runner for development servers and tests.
package memory

import (
	"time"

	"almanah/internal/ledger/ports"
)

// New returns a fresh set of stores and the transaction runner that protects them.
func New(txTimeout time.Duration) (ports.Stores, *Tx) {
	return ports.Stores{
		PrintedCards: NewPrintedCards(),
		Entries:      NewEntries(),
		Albums:       NewAlbums(),
	}, NewTx(txTimeout)
}
