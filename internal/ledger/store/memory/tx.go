package memory

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	id "almanah/pkg/domain"
	dErrors "almanah/pkg/domain-errors"
)

// numShards spreads per-user serialization across a fixed set of locks.
const numShards = 128

// defaultTxTimeout bounds a transaction when the caller set no deadline.
const defaultTxTimeout = 5 * time.Second

// Tx serializes work per user with sharded mutexes and undoes every store
// write made through its context when the callback fails.
type Tx struct {
	shards  [numShards]sync.Mutex
	timeout time.Duration
}

// NewTx builds a transaction runner. A zero timeout selects the default.
func NewTx(timeout time.Duration) *Tx {
	return &Tx{timeout: timeout}
}

func (t *Tx) RunInTx(ctx context.Context, userID id.UserID, fn func(ctx context.Context) error) (err error) {
	if journalFrom(ctx) != nil {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	shard := &t.shards[shardFor(userID)]
	shard.Lock()
	defer shard.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	j := &journal{}
	defer func() {
		if r := recover(); r != nil {
			j.rollback()
			panic(r)
		}
		if err != nil {
			j.rollback()
			return
		}
		j.commit()
	}()
	return fn(withJournal(ctx, j))
}

func shardFor(userID id.UserID) int {
	h := fnv.New32a()
	_, _ = h.Write(userID[:])
	return int(h.Sum32() % numShards)
}

// journal records compensating actions for writes made inside a transaction,
// plus writes that only become visible to other users on commit.
type journal struct {
	mu       sync.Mutex
	undo     []func()
	onCommit []func()
}

func (j *journal) record(fn func()) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.undo = append(j.undo, fn)
}

func (j *journal) rollback() {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
	j.onCommit = nil
}

func (j *journal) deferCommit(fn func()) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.onCommit = append(j.onCommit, fn)
}

func (j *journal) commit() {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, fn := range j.onCommit {
		fn()
	}
	j.onCommit = nil
	j.undo = nil
}

type journalKey struct{}

func withJournal(ctx context.Context, j *journal) context.Context {
	return context.WithValue(ctx, journalKey{}, j)
}

func journalFrom(ctx context.Context) *journal {
	j, _ := ctx.Value(journalKey{}).(*journal)
	return j
}

// recordUndo registers fn when ctx belongs to a transaction.
func recordUndo(ctx context.Context, fn func()) {
	if j := journalFrom(ctx); j != nil {
		j.record(fn)
	}
}
