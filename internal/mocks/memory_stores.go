// Package mocks provides test doubles for the repository and client
// interfaces. The Memory* types are real in-memory implementations keyed by
// session id, so handler tests can exercise whole flows without Redis.
package mocks

import (
	"context"

	"github.com/cinemor/booking-api/internal/domain"
)

type MemoryBookingRepo struct {
	Drafts map[string]*domain.BookingDraft
}

func NewMemoryBookingRepo() *MemoryBookingRepo {
	return &MemoryBookingRepo{Drafts: make(map[string]*domain.BookingDraft)}
}

func (m *MemoryBookingRepo) Get(ctx context.Context, sessionID string) (*domain.BookingDraft, error) {
	if draft, ok := m.Drafts[sessionID]; ok {
		copied := *draft
		return &copied, nil
	}

	return &domain.BookingDraft{}, nil
}

func (m *MemoryBookingRepo) Save(ctx context.Context, sessionID string, draft *domain.BookingDraft) error {
	copied := *draft
	m.Drafts[sessionID] = &copied

	return nil
}

func (m *MemoryBookingRepo) Delete(ctx context.Context, sessionID string) error {
	delete(m.Drafts, sessionID)
	return nil
}

func (m *MemoryBookingRepo) Rename(ctx context.Context, oldSessionID, newSessionID string) error {
	if draft, ok := m.Drafts[oldSessionID]; ok {
		m.Drafts[newSessionID] = draft
		delete(m.Drafts, oldSessionID)
	}

	return nil
}

type MemoryCartRepo struct {
	Carts map[string]*domain.Cart
}

func NewMemoryCartRepo() *MemoryCartRepo {
	return &MemoryCartRepo{Carts: make(map[string]*domain.Cart)}
}

func (m *MemoryCartRepo) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if cart, ok := m.Carts[sessionID]; ok {
		copied := domain.Cart{Items: append([]domain.CartItem(nil), cart.Items...)}
		return &copied, nil
	}

	return &domain.Cart{}, nil
}

func (m *MemoryCartRepo) Save(ctx context.Context, sessionID string, cart *domain.Cart) error {
	m.Carts[sessionID] = &domain.Cart{Items: append([]domain.CartItem(nil), cart.Items...)}
	return nil
}

func (m *MemoryCartRepo) Delete(ctx context.Context, sessionID string) error {
	delete(m.Carts, sessionID)
	return nil
}

func (m *MemoryCartRepo) Rename(ctx context.Context, oldSessionID, newSessionID string) error {
	if cart, ok := m.Carts[oldSessionID]; ok {
		m.Carts[newSessionID] = cart
		delete(m.Carts, oldSessionID)
	}

	return nil
}

type MemoryPendingActionRepo struct {
	Actions map[string]*domain.PendingAction
}

func NewMemoryPendingActionRepo() *MemoryPendingActionRepo {
	return &MemoryPendingActionRepo{Actions: make(map[string]*domain.PendingAction)}
}

func (m *MemoryPendingActionRepo) Get(ctx context.Context, sessionID string) (*domain.PendingAction, error) {
	return m.Actions[sessionID], nil
}

func (m *MemoryPendingActionRepo) Save(ctx context.Context, sessionID string, action *domain.PendingAction) error {
	m.Actions[sessionID] = action
	return nil
}

func (m *MemoryPendingActionRepo) Delete(ctx context.Context, sessionID string) error {
	delete(m.Actions, sessionID)
	return nil
}

func (m *MemoryPendingActionRepo) Rename(ctx context.Context, oldSessionID, newSessionID string) error {
	if action, ok := m.Actions[oldSessionID]; ok {
		m.Actions[newSessionID] = action
		delete(m.Actions, oldSessionID)
	}

	return nil
}

type MemorySeatSelectionRepo struct {
	Selections map[string]*domain.SeatSelection
}

func NewMemorySeatSelectionRepo() *MemorySeatSelectionRepo {
	return &MemorySeatSelectionRepo{Selections: make(map[string]*domain.SeatSelection)}
}

func (m *MemorySeatSelectionRepo) Get(ctx context.Context, sessionID string) (*domain.SeatSelection, error) {
	return m.Selections[sessionID], nil
}

func (m *MemorySeatSelectionRepo) Save(ctx context.Context, sessionID string, selection *domain.SeatSelection) error {
	m.Selections[sessionID] = selection
	return nil
}

func (m *MemorySeatSelectionRepo) Delete(ctx context.Context, sessionID string) error {
	delete(m.Selections, sessionID)
	return nil
}

func (m *MemorySeatSelectionRepo) Rename(ctx context.Context, oldSessionID, newSessionID string) error {
	if selection, ok := m.Selections[oldSessionID]; ok {
		m.Selections[newSessionID] = selection
		delete(m.Selections, oldSessionID)
	}

	return nil
}

type MemoryOrderRepo struct {
	Orders map[string][]domain.Order
}

func NewMemoryOrderRepo() *MemoryOrderRepo {
	return &MemoryOrderRepo{Orders: make(map[string][]domain.Order)}
}

func (m *MemoryOrderRepo) Append(ctx context.Context, userKey string, order domain.Order) error {
	m.Orders[userKey] = append(m.Orders[userKey], order)
	return nil
}

func (m *MemoryOrderRepo) ListByUser(ctx context.Context, userKey string) ([]domain.Order, error) {
	return m.Orders[userKey], nil
}

// MemoryCheckoutLock mimics the Redis SetNX semantics of the real lock.
type MemoryCheckoutLock struct {
	Held map[string]bool
}

func NewMemoryCheckoutLock() *MemoryCheckoutLock {
	return &MemoryCheckoutLock{Held: make(map[string]bool)}
}

func (m *MemoryCheckoutLock) Acquire(ctx context.Context, sessionID string) (bool, error) {
	if m.Held[sessionID] {
		return false, nil
	}

	m.Held[sessionID] = true

	return true, nil
}

func (m *MemoryCheckoutLock) Release(ctx context.Context, sessionID string) error {
	delete(m.Held, sessionID)
	return nil
}

// MockPurchaseAPI records submitted purchases instead of calling a remote
// service.
type MockPurchaseAPI struct {
	Submitted []domain.Purchase
	Err       error
}

func (m *MockPurchaseAPI) SubmitPurchase(ctx context.Context, bearerToken string, purchase domain.Purchase) error {
	if m.Err != nil {
		return m.Err
	}

	m.Submitted = append(m.Submitted, purchase)

	return nil
}
