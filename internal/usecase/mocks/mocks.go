package mocks

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/iho/ledger/internal/domain"
	"github.com/iho/ledger/internal/usecase"
)

// MemoryLedger is an in-memory store that behaves like the postgres
// adapters: row locks block until the holder commits or rolls back, writes
// become visible only on commit, and a rolled back transaction leaves no
// trace.
type MemoryLedger struct {
	mu           sync.Mutex
	locks        map[string]chan struct{}
	accounts     map[string]domain.Account
	transactions map[string]*domain.Transaction
	entries      map[string]*domain.Entry
	outbox       []*domain.OutboxEvent

	// FailPost, when set, is returned by the entry store after the given
	// number of successful posts within one transaction.
	FailPost      error
	FailPostAfter int
	// FailCommit, when set, is returned by Commit and the transaction is
	// rolled back.
	FailCommit error
	// LockHook runs after a row lock is acquired.
	LockHook func(key string)
}

// NewMemoryLedger creates an empty MemoryLedger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		locks:        make(map[string]chan struct{}),
		accounts:     make(map[string]domain.Account),
		transactions: make(map[string]*domain.Transaction),
		entries:      make(map[string]*domain.Entry),
	}
}

// TxManager returns the usecase.TransactionManager view.
func (s *MemoryLedger) TxManager() usecase.TransactionManager { return memTxManager{s} }

// Accounts returns the usecase.AccountRepository view.
func (s *MemoryLedger) Accounts() usecase.AccountRepository { return memAccounts{s} }

// Transactions returns the usecase.TransactionRepository view.
func (s *MemoryLedger) Transactions() usecase.TransactionRepository { return memTransactions{s} }

// Entries returns the usecase.EntryRepository view.
func (s *MemoryLedger) Entries() usecase.EntryRepository { return memEntries{s} }

// Outbox returns the usecase.OutboxRepository view.
func (s *MemoryLedger) Outbox() usecase.OutboxRepository { return memOutbox{s} }

// Ledger returns the usecase.LedgerRepository view.
func (s *MemoryLedger) Ledger() usecase.LedgerRepository { return memLedger{s} }

// SeedAccount stores an account directly.
func (s *MemoryLedger) SeedAccount(acc domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[acc.ID] = acc
}

// Account returns the committed state of an account.
func (s *MemoryLedger) Account(id string) (domain.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	return acc, ok
}

// EntryCount returns the number of committed entries.
func (s *MemoryLedger) EntryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// TransactionCount returns the number of committed transactions.
func (s *MemoryLedger) TransactionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transactions)
}

// OutboxEvents returns the committed outbox events.
func (s *MemoryLedger) OutboxEvents() []*domain.OutboxEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.OutboxEvent(nil), s.outbox...)
}

func (s *MemoryLedger) lock(ctx context.Context, tx *memTx, key string) error {
	if _, held := tx.held[key]; held {
		return nil
	}

	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = make(chan struct{}, 1)
		s.locks[key] = l
	}
	s.mu.Unlock()

	select {
	case l <- struct{}{}:
	case <-ctx.Done():
		return domain.ErrConcurrencyFailure
	}

	tx.held[key] = l
	if s.LockHook != nil {
		s.LockHook(key)
	}
	return nil
}

type memTx struct {
	store        *MemoryLedger
	held         map[string]chan struct{}
	accounts     map[string]domain.Account
	transactions map[string]*domain.Transaction
	entries      []*domain.Entry
	outbox       []*domain.OutboxEvent
	posts        int
	done         bool
}

func (tx *memTx) release() {
	for key, l := range tx.held {
		<-l
		delete(tx.held, key)
	}
	tx.done = true
}

func (tx *memTx) Commit(ctx context.Context) error {
	if tx.done {
		return errors.New("transaction already closed")
	}
	defer tx.release()

	if tx.store.FailCommit != nil {
		return tx.store.FailCommit
	}

	s := tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, acc := range tx.accounts {
		s.accounts[id] = acc
	}
	for id, txn := range tx.transactions {
		s.transactions[id] = txn
	}
	for _, e := range tx.entries {
		s.entries[e.ID] = e
	}
	s.outbox = append(s.outbox, tx.outbox...)
	return nil
}

func (tx *memTx) Rollback(ctx context.Context) error {
	if tx.done {
		return nil
	}
	tx.release()
	return nil
}

func asMemTx(tx usecase.Transaction) *memTx {
	return tx.(*memTx)
}

type memTxManager struct{ s *MemoryLedger }

func (m memTxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	return &memTx{
		store:        m.s,
		held:         make(map[string]chan struct{}),
		accounts:     make(map[string]domain.Account),
		transactions: make(map[string]*domain.Transaction),
	}, nil
}

type memAccounts struct{ s *MemoryLedger }

func (r memAccounts) CreateIfAbsent(ctx context.Context, tx usecase.Transaction, account *domain.Account) (*domain.Account, bool, error) {
	mtx := asMemTx(tx)
	if err := r.s.lock(ctx, mtx, "account:"+account.ID); err != nil {
		return nil, false, err
	}

	if acc, ok := r.s.Account(account.ID); ok {
		return &acc, false, nil
	}

	stored := *account
	stored.Balance = 0
	mtx.accounts[stored.ID] = stored
	return &stored, true, nil
}

func (r memAccounts) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	acc, ok := r.s.Account(id)
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &acc, nil
}

func (r memAccounts) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	mtx := asMemTx(tx)
	if err := r.s.lock(ctx, mtx, "account:"+id); err != nil {
		return nil, err
	}

	if acc, ok := mtx.accounts[id]; ok {
		return &acc, nil
	}
	acc, ok := r.s.Account(id)
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &acc, nil
}

type memTransactions struct{ s *MemoryLedger }

func (r memTransactions) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	mtx := asMemTx(tx)
	if err := r.s.lock(ctx, mtx, "transaction:"+txn.ID); err != nil {
		return err
	}

	r.s.mu.Lock()
	_, exists := r.s.transactions[txn.ID]
	r.s.mu.Unlock()
	if exists {
		return domain.ErrDuplicateTransaction
	}

	mtx.transactions[txn.ID] = txn
	return nil
}

func (r memTransactions) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	txn, ok := r.s.transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return txn, nil
}

func (r memTransactions) GetByIDTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	if txn, ok := asMemTx(tx).transactions[id]; ok {
		return txn, nil
	}
	return r.GetByID(ctx, id)
}

type memEntries struct{ s *MemoryLedger }

func (r memEntries) Post(ctx context.Context, tx usecase.Transaction, entry *domain.Entry, delta int64) (int64, error) {
	mtx := asMemTx(tx)
	if _, held := mtx.held["account:"+entry.AccountID]; !held {
		return 0, errors.New("account row is not locked")
	}
	if r.s.FailPost != nil && mtx.posts >= r.s.FailPostAfter {
		return 0, r.s.FailPost
	}

	r.s.mu.Lock()
	_, dup := r.s.entries[entry.ID]
	r.s.mu.Unlock()
	if dup {
		return 0, domain.ErrDuplicateEntry
	}

	acc, ok := mtx.accounts[entry.AccountID]
	if !ok {
		committed, found := r.s.Account(entry.AccountID)
		if !found {
			return 0, domain.ErrAccountNotFound
		}
		acc = committed
	}
	acc.Balance += delta
	acc.UpdatedAt = entry.CreatedAt
	mtx.accounts[acc.ID] = acc

	stored := *entry
	mtx.entries = append(mtx.entries, &stored)
	mtx.posts++
	return acc.Balance, nil
}

func (r memEntries) GetByTransaction(ctx context.Context, transactionID string) ([]*domain.Entry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Entry
	for _, e := range r.s.entries {
		if e.TransactionID == transactionID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memOutbox struct{ s *MemoryLedger }

func (r memOutbox) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	mtx := asMemTx(tx)
	mtx.outbox = append(mtx.outbox, event)
	return nil
}

func (r memOutbox) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.OutboxEvent
	for _, e := range r.s.outbox {
		if !e.Published && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r memOutbox) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.outbox {
		if e.ID == id {
			at := publishedAt
			e.Published = true
			e.PublishedAt = &at
		}
	}
	return nil
}

type memLedger struct{ s *MemoryLedger }

func (r memLedger) CheckConsistency(ctx context.Context) (*domain.ConsistencyReport, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sums := make(map[string]int64, len(r.s.accounts))
	type totals struct{ debit, credit int64 }
	perTxn := make(map[string]*totals)

	for _, e := range r.s.entries {
		acc := r.s.accounts[e.AccountID]
		sums[e.AccountID] += acc.Delta(e)

		t, ok := perTxn[e.TransactionID]
		if !ok {
			t = &totals{}
			perTxn[e.TransactionID] = t
		}
		if e.Direction == domain.DirectionDebit {
			t.debit += e.Amount
		} else {
			t.credit += e.Amount
		}
	}

	report := &domain.ConsistencyReport{
		CheckedAt: time.Now().UTC(),
		Accounts:  int64(len(r.s.accounts)),
	}
	for id, acc := range r.s.accounts {
		if acc.Balance != sums[id] {
			report.MismatchedAccounts++
		}
	}
	for _, t := range perTxn {
		if t.debit != t.credit {
			report.UnbalancedTransactions++
		}
	}
	return report, nil
}

// SequenceIDGenerator hands out deterministic ids.
type SequenceIDGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int
}

// NewSequenceIDGenerator creates a generator producing prefix-1, prefix-2, ...
func NewSequenceIDGenerator(prefix string) *SequenceIDGenerator {
	return &SequenceIDGenerator{prefix: prefix}
}

// Generate returns the next id.
func (g *SequenceIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return g.prefix + "-" + strconv.Itoa(g.next)
}
