package testutil

import (
	"context"
	"sync"

	"github.com/cassiomorais/paymentpipeline/internal/apperrors"
	"github.com/cassiomorais/paymentpipeline/internal/domain/account"
	"github.com/cassiomorais/paymentpipeline/internal/domain/inbox"
	"github.com/cassiomorais/paymentpipeline/internal/domain/order"
	"github.com/cassiomorais/paymentpipeline/internal/domain/outbox"
	"github.com/google/uuid"
)

// --- Account Repository Mock ---

type MockAccountRepository struct {
	mu           sync.Mutex
	accounts     map[uuid.UUID]*account.Account
	transactions map[uuid.UUID][]*account.Transaction

	GetByUserIDFunc func(ctx context.Context, userID string) (*account.Account, error)
	UpdateFunc      func(ctx context.Context, a *account.Account) error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts:     make(map[uuid.UUID]*account.Account),
		transactions: make(map[uuid.UUID][]*account.Transaction),
	}
}

func (m *MockAccountRepository) AddAccount(a *account.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[a.ID] = a
}

func (m *MockAccountRepository) Create(ctx context.Context, a *account.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.accounts {
		if existing.UserID == a.UserID {
			return apperrors.ErrAccountExists
		}
	}
	m.accounts[a.ID] = a
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil, apperrors.ErrAccountNotFound
	}
	return a, nil
}

func (m *MockAccountRepository) GetByUserID(ctx context.Context, userID string) (*account.Account, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.UserID == userID {
			return a, nil
		}
	}
	return nil, apperrors.ErrAccountNotFound
}

// Update emulates the real repository's optimistic-lock CAS: it only
// succeeds if the stored version still matches a.Version-1.
func (m *MockAccountRepository) Update(ctx context.Context, a *account.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, a)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.accounts[a.ID]
	if !ok {
		return apperrors.ErrAccountNotFound
	}
	if stored.Version != a.Version-1 {
		return apperrors.ErrOptimisticLockFailed
	}
	m.accounts[a.ID] = a
	return nil
}

func (m *MockAccountRepository) AddTransaction(ctx context.Context, t *account.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[t.AccountID] = append(m.transactions[t.AccountID], t)
	return nil
}

func (m *MockAccountRepository) GetTransactions(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*account.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	txns := m.transactions[accountID]
	if offset >= len(txns) {
		return nil, nil
	}
	end := offset + limit
	if end > len(txns) || limit <= 0 {
		end = len(txns)
	}
	return txns[offset:end], nil
}

// --- Order Repository Mock ---

type MockOrderRepository struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*order.Order

	UpdateStatusFunc func(ctx context.Context, id uuid.UUID, status order.Status) error
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{orders: make(map[uuid.UUID]*order.Order)}
}

func (m *MockOrderRepository) AddOrder(o *order.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = o
}

func (m *MockOrderRepository) Create(ctx context.Context, o *order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = o
	return nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, apperrors.ErrOrderNotFound
	}
	return o, nil
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID string) ([]*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*order.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return apperrors.ErrOrderNotFound
	}
	if err := o.TransitionTo(status); err != nil {
		return err
	}
	return nil
}

// --- Outbox Repository Mock ---

type MockOutboxRepository struct {
	mu      sync.Mutex
	entries []*outbox.Entry

	InsertFunc        func(ctx context.Context, e *outbox.Entry) error
	GetPendingFunc    func(ctx context.Context, limit int) ([]*outbox.Entry, error)
	MarkPublishedFunc func(ctx context.Context, id uuid.UUID) error
	IncrementRetryFunc func(ctx context.Context, id uuid.UUID) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Entries() []*outbox.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*outbox.Entry(nil), m.entries...)
}

func (m *MockOutboxRepository) Insert(ctx context.Context, e *outbox.Entry) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, e)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *MockOutboxRepository) GetPending(ctx context.Context, limit int) ([]*outbox.Entry, error) {
	if m.GetPendingFunc != nil {
		return m.GetPendingFunc(ctx, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var pending []*outbox.Entry
	for _, e := range m.entries {
		if e.Status == outbox.StatusPending {
			pending = append(pending, e)
			if len(pending) == limit {
				break
			}
		}
	}
	return pending, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id uuid.UUID) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.ID == id {
			e.Status = outbox.StatusProcessed
		}
	}
	return nil
}

func (m *MockOutboxRepository) IncrementRetry(ctx context.Context, id uuid.UUID) error {
	if m.IncrementRetryFunc != nil {
		return m.IncrementRetryFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.ID == id {
			e.RetryCount++
		}
	}
	return nil
}

// --- Inbox Repository Mock ---

type MockInboxRepository struct {
	mu     sync.Mutex
	events map[string]*inbox.Event
}

func NewMockInboxRepository() *MockInboxRepository {
	return &MockInboxRepository{events: make(map[string]*inbox.Event)}
}

func (m *MockInboxRepository) GetByOrderID(ctx context.Context, orderID string) (*inbox.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[orderID], nil
}

func (m *MockInboxRepository) Insert(ctx context.Context, e *inbox.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.events[e.OrderID]; exists {
		return apperrors.ErrDuplicateEvent
	}
	m.events[e.OrderID] = e
	return nil
}

func (m *MockInboxRepository) MarkProcessed(ctx context.Context, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.events[orderID]; ok {
		e.Status = inbox.StatusProcessed
	}
	return nil
}

func (m *MockInboxRepository) MarkFailed(ctx context.Context, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.events[orderID]; ok {
		e.Status = inbox.StatusFailed
	}
	return nil
}

// --- Transaction Manager Mock ---

// MockTransactionManager runs fn directly against the same context — none
// of the mocked repositories above are transaction-aware, so this is
// sufficient to exercise use case logic without a real database.
type MockTransactionManager struct {
	WithTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.WithTransactionFunc != nil {
		return m.WithTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}
