package tx

import (
	"context"
	"sync"

	"github.com/karpathy/cryptos/internal/bterrors"
	"github.com/karpathy/cryptos/pkg/hash"
)

// Fetcher resolves a previous transaction by its txid. Validate calls
// through this for every input rather than requiring the caller to
// have already resolved funding outputs. Implementations may wrap a
// local cache, a remote explorer, or a live peer connection (pkg/p2p);
// Validate is indifferent. The ctx parameter lets network-backed
// implementations honor cancellation and deadlines on what is, for
// them, blocking I/O.
type Fetcher interface {
	Fetch(ctx context.Context, txid hash.Hash256) (*Transaction, error)
}

// MapFetcher is a Fetcher backed by a plain in-memory map, guarded by
// a mutex so a single cache can be shared by concurrent validations.
// This is the only Fetcher this package ships: a caller-populated map
// it already owns does not warrant pulling in an external LRU library
// (see DESIGN.md).
type MapFetcher struct {
	mu   sync.RWMutex
	txns map[hash.Hash256]*Transaction
}

// NewMapFetcher returns an empty MapFetcher.
func NewMapFetcher() *MapFetcher {
	return &MapFetcher{txns: make(map[hash.Hash256]*Transaction)}
}

// Put registers t under its own txid so later Fetch calls for inputs
// spending it can resolve it.
func (f *MapFetcher) Put(t *Transaction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txns[t.ID()] = t
}

// Fetch implements Fetcher.
func (f *MapFetcher) Fetch(_ context.Context, txid hash.Hash256) (*Transaction, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	t, ok := f.txns[txid]
	if !ok {
		return nil, bterrors.Newf(bterrors.Io, "tx.MapFetcher.Fetch", "unknown prev tx %s", txid)
	}
	return t, nil
}
