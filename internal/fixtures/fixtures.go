// Package fixtures provides an in-memory implementation of the repository
// contracts for tests. It emulates the storage semantics the coordinator
// relies on: reads hand out independent copies, saves are compare-and-swap on
// the version token, and a unit of work rolls every mutation back when its
// function fails. Mutations are individually locked but units are not
// serialized against each other, so concurrent operations race on the token
// exactly as they would against the real store.
package fixtures

import (
	"context"
	"sync"

	"github.com/amirasaad/bankledger/pkg/currency"
	"github.com/amirasaad/bankledger/pkg/domain/account"
	"github.com/amirasaad/bankledger/pkg/domain/ledger"
	"github.com/amirasaad/bankledger/pkg/domain/rate"
	"github.com/amirasaad/bankledger/pkg/repository"
	"github.com/google/uuid"
)

// Store holds the in-memory state shared by all units of work.
type Store struct {
	mu           sync.Mutex
	accounts     map[uuid.UUID]*account.Account
	numbers      map[int64]uuid.UUID
	rates        map[uuid.UUID]*rate.Rate
	ratesByCode  map[currency.Code]uuid.UUID
	transactions map[uuid.UUID]*ledger.Transaction
	entries      []ledger.Entry
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		accounts:     make(map[uuid.UUID]*account.Account),
		numbers:      make(map[int64]uuid.UUID),
		rates:        make(map[uuid.UUID]*rate.Rate),
		ratesByCode:  make(map[currency.Code]uuid.UUID),
		transactions: make(map[uuid.UUID]*ledger.Transaction),
	}
}

// NewUoW returns a unit of work over the store. Repositories obtained outside
// Do auto-commit; inside Do every mutation is journaled and undone on error.
func NewUoW(store *Store) repository.UnitOfWork {
	return &uow{store: store}
}

// journal records undo actions for one unit of work, applied in reverse on
// rollback.
type journal struct {
	undo []func(s *Store)
}

func (j *journal) add(fn func(s *Store)) {
	if j != nil {
		j.undo = append(j.undo, fn)
	}
}

func (j *journal) rollback(s *Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i](s)
	}
}

type uow struct {
	store *Store
	j     *journal
}

func (u *uow) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	child := &uow{store: u.store, j: &journal{}}
	if err := fn(child); err != nil {
		child.j.rollback(u.store)
		return err
	}
	return nil
}

func (u *uow) AccountRepository() (repository.AccountRepository, error) {
	return &accountRepo{u}, nil
}

func (u *uow) RateRepository() (repository.RateRepository, error) {
	return &rateRepo{u}, nil
}

func (u *uow) TransactionRepository() (repository.TransactionRepository, error) {
	return &transactionRepo{u}, nil
}

func (u *uow) EntryRepository() (repository.EntryRepository, error) {
	return &entryRepo{u}, nil
}

func cloneAccount(a *account.Account) *account.Account {
	cp := *a
	return &cp
}

type accountRepo struct {
	u *uow
}

func (r *accountRepo) Create(_ context.Context, a *account.Account) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.numbers[a.Number]; taken {
		return account.ErrDuplicateAccountNumber
	}
	id, number := a.ID, a.Number
	s.accounts[id] = cloneAccount(a)
	s.numbers[number] = id
	r.u.j.add(func(s *Store) {
		delete(s.accounts, id)
		delete(s.numbers, number)
	})
	return nil
}

func (r *accountRepo) Get(_ context.Context, id uuid.UUID) (*account.Account, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *accountRepo) List(_ context.Context) ([]*account.Account, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*account.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, cloneAccount(a))
	}
	return out, nil
}

func (r *accountRepo) ListByKind(_ context.Context, kind account.Kind) ([]*account.Account, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*account.Account
	for _, a := range s.accounts {
		if a.Kind == kind {
			out = append(out, cloneAccount(a))
		}
	}
	return out, nil
}

// Save is the compare-and-swap: it commits only when the stored row still
// carries the version the caller loaded, and bumps it on success.
func (r *accountRepo) Save(_ context.Context, a *account.Account) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.accounts[a.ID]
	if !ok {
		return account.ErrAccountNotFound
	}
	if cur.Version != a.Version {
		return account.ErrConcurrencyConflict
	}
	prev := cur
	next := cloneAccount(a)
	next.Version++
	s.accounts[a.ID] = next
	a.Version++
	r.u.j.add(func(s *Store) {
		s.accounts[prev.ID] = prev
	})
	return nil
}

func (r *accountRepo) Delete(_ context.Context, id uuid.UUID) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.accounts[id]
	if !ok {
		return account.ErrAccountNotFound
	}
	delete(s.accounts, id)
	delete(s.numbers, prev.Number)
	r.u.j.add(func(s *Store) {
		s.accounts[prev.ID] = prev
		s.numbers[prev.Number] = prev.ID
	})
	return nil
}

type rateRepo struct {
	u *uow
}

func (r *rateRepo) Create(_ context.Context, rt *rate.Rate) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.ratesByCode[rt.Currency]; taken {
		return rate.ErrDuplicateCurrency
	}
	cp := *rt
	s.rates[rt.ID] = &cp
	s.ratesByCode[rt.Currency] = rt.ID
	id, code := rt.ID, rt.Currency
	r.u.j.add(func(s *Store) {
		delete(s.rates, id)
		delete(s.ratesByCode, code)
	})
	return nil
}

func (r *rateRepo) Get(_ context.Context, id uuid.UUID) (*rate.Rate, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.rates[id]
	if !ok {
		return nil, rate.ErrRateNotFound
	}
	cp := *rt
	return &cp, nil
}

func (r *rateRepo) GetByCurrency(_ context.Context, code currency.Code) (*rate.Rate, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.ratesByCode[code]
	if !ok {
		return nil, rate.ErrRateNotFound
	}
	cp := *s.rates[id]
	return &cp, nil
}

func (r *rateRepo) List(_ context.Context) ([]*rate.Rate, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*rate.Rate, 0, len(s.rates))
	for _, rt := range s.rates {
		cp := *rt
		out = append(out, &cp)
	}
	return out, nil
}

type transactionRepo struct {
	u *uow
}

func (r *transactionRepo) Create(_ context.Context, t *ledger.Transaction) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.transactions[t.ID] = &cp
	id := t.ID
	r.u.j.add(func(s *Store) {
		delete(s.transactions, id)
	})
	return nil
}

func (r *transactionRepo) Get(_ context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok {
		return nil, ledger.ErrTransactionNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *transactionRepo) Delete(_ context.Context, id uuid.UUID) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.transactions[id]
	if !ok {
		return ledger.ErrTransactionNotFound
	}
	delete(s.transactions, id)
	r.u.j.add(func(s *Store) {
		s.transactions[prev.ID] = prev
	})
	return nil
}

type entryRepo struct {
	u *uow
}

func (r *entryRepo) Create(_ context.Context, e *ledger.Entry) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *e)
	key := *e
	r.u.j.add(func(s *Store) {
		for i := range s.entries {
			if s.entries[i] == key {
				s.entries = append(s.entries[:i], s.entries[i+1:]...)
				break
			}
		}
	})
	return nil
}

func (r *entryRepo) DeleteByAccount(_ context.Context, accountID uuid.UUID) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept, removed []ledger.Entry
	for _, e := range s.entries {
		if e.AccountID == accountID {
			removed = append(removed, e)
		} else {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	r.u.j.add(func(s *Store) {
		s.entries = append(s.entries, removed...)
	})
	return nil
}

func (r *entryRepo) DeleteByTransaction(_ context.Context, transactionID uuid.UUID) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept, removed []ledger.Entry
	for _, e := range s.entries {
		if e.TransactionID == transactionID {
			removed = append(removed, e)
		} else {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	r.u.j.add(func(s *Store) {
		s.entries = append(s.entries, removed...)
	})
	return nil
}

func (r *entryRepo) ListDetails(
	_ context.Context,
	accountID uuid.UUID,
	scope ledger.Scope,
) ([]ledger.TransactionDetails, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	counterpart := make(map[uuid.UUID]uuid.UUID)
	for _, e := range s.entries {
		if e.AccountID != accountID {
			counterpart[e.TransactionID] = e.AccountID
		}
	}

	details := []ledger.TransactionDetails{}
	for _, e := range s.entries {
		if e.AccountID != accountID {
			continue
		}
		if scope == ledger.ScopeSource && !e.Source {
			continue
		}
		if scope == ledger.ScopeDestination && e.Source {
			continue
		}
		t := s.transactions[e.TransactionID]
		rt := s.rates[t.RateID]
		d := ledger.TransactionDetails{
			TransactionID: t.ID,
			Kind:          t.Kind,
			Amount:        t.Amount,
			Currency:      rt.Currency,
			Timestamp:     t.Timestamp,
		}
		other, hasOther := counterpart[e.TransactionID]
		if e.Source {
			d.AccountID = e.AccountID
			if hasOther {
				o := other
				d.ReceiverID = &o
			}
		} else {
			d.AccountID = other
			receiver := e.AccountID
			d.ReceiverID = &receiver
		}
		details = append(details, d)
	}
	return details, nil
}
