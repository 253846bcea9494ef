package mocks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/txledger/internal/domain"
	"github.com/iho/txledger/internal/usecase"
)

var errTxClosed = errors.New("tx is closed")

// InMemoryLedger is a transactional in-memory ledger. Writes made through a
// transaction are staged and become visible only on Commit.
type InMemoryLedger struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	history  map[string]*domain.HistoryEntry
	order    []string

	// Fault injection.
	BeginErr     error
	UpdateErr    error
	InsertErr    error
	CommitErr    error
	BeforeInsert func(entry *domain.HistoryEntry)

	Commits   int
	Rollbacks int
}

// NewInMemoryLedger creates an empty ledger.
func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{
		accounts: make(map[string]*domain.Account),
		history:  make(map[string]*domain.HistoryEntry),
	}
}

// AddAccount opens an account directly, bypassing any transaction.
func (l *InMemoryLedger) AddAccount(id string, balance decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now().UTC()
	l.accounts[id] = &domain.Account{ID: id, Balance: balance, InitialBalance: balance, CreatedAt: now, UpdatedAt: now}
}

// SetBalance overwrites a committed balance without history.
func (l *InMemoryLedger) SetBalance(id string, balance decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if acc, ok := l.accounts[id]; ok {
		acc.Balance = balance
	}
}

// InsertCommitted stores a history row as if another worker committed it.
func (l *InMemoryLedger) InsertCommitted(entry *domain.HistoryEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.insertLocked(entry)
}

// Balance returns the committed balance of id.
func (l *InMemoryLedger) Balance(id string) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()

	if acc, ok := l.accounts[id]; ok {
		return acc.Balance
	}
	return decimal.Zero
}

// HistoryCount returns the number of committed history rows.
func (l *InMemoryLedger) HistoryCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.history)
}

// Begin implements usecase.TransactionManager.
func (l *InMemoryLedger) Begin(ctx context.Context) (usecase.Transaction, error) {
	if l.BeginErr != nil {
		return nil, l.BeginErr
	}
	return &InMemoryTx{ledger: l, balances: make(map[string]decimal.Decimal)}, nil
}

// Accounts returns an AccountRepository backed by the ledger.
func (l *InMemoryLedger) Accounts() usecase.AccountRepository { return &memAccountRepo{l} }

// Transactions returns a TransactionRepository backed by the ledger.
func (l *InMemoryLedger) Transactions() usecase.TransactionRepository { return &memTransactionRepo{l} }

// Totals returns a LedgerRepository backed by the ledger.
func (l *InMemoryLedger) Totals() usecase.LedgerRepository { return &memLedgerRepo{l} }

func (l *InMemoryLedger) insertLocked(entry *domain.HistoryEntry) {
	cp := *entry
	l.history[entry.TransactionID] = &cp
	l.order = append(l.order, entry.TransactionID)
}

// InMemoryTx stages writes for one InMemoryLedger transaction.
type InMemoryTx struct {
	ledger   *InMemoryLedger
	balances map[string]decimal.Decimal
	updated  map[string]time.Time
	entries  []*domain.HistoryEntry
	done     bool
}

// Commit publishes the staged writes.
func (t *InMemoryTx) Commit(ctx context.Context) error {
	if t.done {
		return errTxClosed
	}
	t.done = true

	l := t.ledger
	if l.CommitErr != nil {
		return l.CommitErr
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range t.entries {
		if _, ok := l.history[e.TransactionID]; ok {
			return domain.ErrDuplicateTransaction
		}
	}

	for id, bal := range t.balances {
		acc := l.accounts[id]
		acc.Balance = bal
		acc.UpdatedAt = t.updated[id]
	}
	for _, e := range t.entries {
		l.insertLocked(e)
	}

	l.Commits++
	return nil
}

// Rollback discards the staged writes.
func (t *InMemoryTx) Rollback(ctx context.Context) error {
	if t.done {
		return errTxClosed
	}
	t.done = true
	t.ledger.mu.Lock()
	t.ledger.Rollbacks++
	t.ledger.mu.Unlock()
	return nil
}

func asMemTx(tx usecase.Transaction) (*InMemoryTx, error) {
	mt, ok := tx.(*InMemoryTx)
	if !ok || mt.done {
		return nil, errTxClosed
	}
	return mt, nil
}

type memAccountRepo struct{ l *InMemoryLedger }

func (r *memAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()

	if _, ok := r.l.accounts[account.ID]; ok {
		return domain.ErrAccountExists
	}
	cp := *account
	r.l.accounts[account.ID] = &cp
	return nil
}

func (r *memAccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()

	acc, ok := r.l.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	cp := *acc
	for _, e := range r.l.history {
		if e.AccountID == id {
			cp.TransactionCount++
		}
	}
	return &cp, nil
}

func (r *memAccountRepo) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	mt, err := asMemTx(tx)
	if err != nil {
		return nil, err
	}

	acc, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bal, ok := mt.balances[id]; ok {
		acc.Balance = bal
	}
	return acc, nil
}

func (r *memAccountRepo) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if r.l.UpdateErr != nil {
		return r.l.UpdateErr
	}

	mt, err := asMemTx(tx)
	if err != nil {
		return err
	}

	if mt.updated == nil {
		mt.updated = make(map[string]time.Time)
	}
	mt.balances[id] = balance
	mt.updated[id] = updatedAt
	return nil
}

func (r *memAccountRepo) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	r.l.mu.Lock()
	ids := make([]string, 0, len(r.l.accounts))
	for id := range r.l.accounts {
		ids = append(ids, id)
	}
	r.l.mu.Unlock()

	sort.Strings(ids)

	var out []*domain.Account
	for i := offset; i < len(ids) && len(out) < limit; i++ {
		acc, err := r.GetByID(ctx, ids[i])
		if err != nil {
			return nil, err
		}
		out = append(out, acc)
	}
	return out, nil
}

type memTransactionRepo struct{ l *InMemoryLedger }

func (r *memTransactionRepo) Exists(ctx context.Context, tx usecase.Transaction, id string) (bool, error) {
	if _, err := asMemTx(tx); err != nil {
		return false, err
	}

	r.l.mu.Lock()
	defer r.l.mu.Unlock()

	_, ok := r.l.history[id]
	return ok, nil
}

func (r *memTransactionRepo) Create(ctx context.Context, tx usecase.Transaction, entry *domain.HistoryEntry) error {
	mt, err := asMemTx(tx)
	if err != nil {
		return err
	}

	if r.l.BeforeInsert != nil {
		r.l.BeforeInsert(entry)
	}
	if r.l.InsertErr != nil {
		return r.l.InsertErr
	}

	r.l.mu.Lock()
	_, dup := r.l.history[entry.TransactionID]
	r.l.mu.Unlock()
	if dup {
		return domain.ErrDuplicateTransaction
	}

	mt.entries = append(mt.entries, entry)
	return nil
}

func (r *memTransactionRepo) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.HistoryEntry, error) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()

	var matched []*domain.HistoryEntry
	for i := len(r.l.order) - 1; i >= 0; i-- {
		if e := r.l.history[r.l.order[i]]; e.AccountID == accountID {
			matched = append(matched, e)
		}
	}

	if offset >= len(matched) {
		return []*domain.HistoryEntry{}, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

type memLedgerRepo struct{ l *InMemoryLedger }

func (r *memLedgerRepo) AccountTotals(ctx context.Context) ([]domain.AccountTotals, error) {
	r.l.mu.Lock()
	ids := make([]string, 0, len(r.l.accounts))
	for id := range r.l.accounts {
		ids = append(ids, id)
	}
	r.l.mu.Unlock()

	sort.Strings(ids)

	out := make([]domain.AccountTotals, 0, len(ids))
	for _, id := range ids {
		t, err := r.AccountTotalsByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, nil
}

func (r *memLedgerRepo) AccountTotalsByID(ctx context.Context, accountID string) (*domain.AccountTotals, error) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()

	acc, ok := r.l.accounts[accountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	t := &domain.AccountTotals{
		AccountID:      acc.ID,
		InitialBalance: acc.InitialBalance,
		Balance:        acc.Balance,
	}
	for _, e := range r.l.history {
		if e.AccountID != accountID || e.Status != domain.TransactionStatusCompleted {
			continue
		}
		if e.Type.IsDebit() {
			t.Debits = t.Debits.Add(e.Amount)
		} else {
			t.Deposits = t.Deposits.Add(e.Amount)
		}
	}
	return t, nil
}

// SequenceIDGenerator returns prefix-1, prefix-2, ...
type SequenceIDGenerator struct {
	mu     sync.Mutex
	Prefix string
	n      int
}

func (g *SequenceIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.n++
	return fmt.Sprintf("%s-%d", g.Prefix, g.n)
}

// RecordingDelivery is a Delivery that records its disposition.
type RecordingDelivery struct {
	Payload  []byte
	AckErr   error
	NackErr  error
	Acked    int
	Nacked   int
	Requeued bool
}

func (d *RecordingDelivery) Body() []byte { return d.Payload }

func (d *RecordingDelivery) Ack() error {
	d.Acked++
	return d.AckErr
}

func (d *RecordingDelivery) Nack(requeue bool) error {
	d.Nacked++
	d.Requeued = requeue
	return d.NackErr
}

// RecordingDeadLetterPublisher keeps every published record.
type RecordingDeadLetterPublisher struct {
	mu      sync.Mutex
	Err     error
	Records []*domain.ErrorRecord
}

func (p *RecordingDeadLetterPublisher) PublishDeadLetter(ctx context.Context, record *domain.ErrorRecord) error {
	if p.Err != nil {
		return p.Err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.Records = append(p.Records, record)
	return nil
}

// InMemoryAttemptTracker counts attempts in a map.
type InMemoryAttemptTracker struct {
	mu     sync.Mutex
	Err    error
	counts map[string]int64
}

func NewInMemoryAttemptTracker() *InMemoryAttemptTracker {
	return &InMemoryAttemptTracker{counts: make(map[string]int64)}
}

func (t *InMemoryAttemptTracker) Increment(ctx context.Context, key string) (int64, error) {
	if t.Err != nil {
		return 0, t.Err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.counts[key]++
	return t.counts[key], nil
}

func (t *InMemoryAttemptTracker) Reset(ctx context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.counts, key)
	return nil
}

// Count returns the current counter for key.
func (t *InMemoryAttemptTracker) Count(key string) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.counts[key]
}
