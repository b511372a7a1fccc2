// Package testutil provides in-memory repository implementations for tests.
package testutil

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/facturel/facturel-backend/internal/domain"
)

// MockBillRepository is an in-memory implementation of domain.BillRepository
type MockBillRepository struct {
	mu    sync.RWMutex
	bills map[uuid.UUID]*domain.Bill
	tags  map[uuid.UUID][]uuid.UUID
	// TagLookup resolves tag IDs to tags when attaching them to bills.
	// Optional; when nil, bills carry an empty tag set.
	TagLookup func(id uuid.UUID) (*domain.Tag, bool)
}

// NewMockBillRepository creates a new MockBillRepository
func NewMockBillRepository() *MockBillRepository {
	return &MockBillRepository{
		bills: make(map[uuid.UUID]*domain.Bill),
		tags:  make(map[uuid.UUID][]uuid.UUID),
	}
}

// AddBill seeds a bill directly, bypassing validation
func (m *MockBillRepository) AddBill(bill *domain.Bill) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if bill.ID == uuid.Nil {
		bill.ID = uuid.New()
	}
	m.bills[bill.ID] = bill
}

// Create stores a new bill
func (m *MockBillRepository) Create(bill *domain.Bill) (*domain.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *bill
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.bills[stored.ID] = &stored

	result := stored
	return &result, nil
}

// GetByID retrieves a bill with its tags attached
func (m *MockBillRepository) GetByID(id uuid.UUID) (*domain.Bill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bill, exists := m.bills[id]
	if !exists {
		return nil, domain.ErrBillNotFound
	}

	result := *bill
	result.Tags = m.tagsFor(id)
	return &result, nil
}

// List retrieves all bills sorted by name
func (m *MockBillRepository) List(includeArchived bool) ([]*domain.Bill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bills := make([]*domain.Bill, 0, len(m.bills))
	for _, bill := range m.bills {
		if !includeArchived && bill.IsArchived {
			continue
		}
		result := *bill
		result.Tags = m.tagsFor(bill.ID)
		bills = append(bills, &result)
	}

	sort.Slice(bills, func(i, j int) bool {
		return strings.ToLower(bills[i].Name) < strings.ToLower(bills[j].Name)
	})

	return bills, nil
}

// Update replaces a stored bill
func (m *MockBillRepository) Update(bill *domain.Bill) (*domain.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.bills[bill.ID]
	if !exists {
		return nil, domain.ErrBillNotFound
	}

	stored := *bill
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now()
	m.bills[stored.ID] = &stored

	result := stored
	return &result, nil
}

// Delete removes a bill
func (m *MockBillRepository) Delete(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.bills[id]; !exists {
		return domain.ErrBillNotFound
	}
	delete(m.bills, id)
	delete(m.tags, id)
	return nil
}

// Archive flags a bill as archived
func (m *MockBillRepository) Archive(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bill, exists := m.bills[id]
	if !exists {
		return domain.ErrBillNotFound
	}
	bill.IsArchived = true
	bill.UpdatedAt = time.Now()
	return nil
}

// ReplaceTags replaces a bill's tag set
func (m *MockBillRepository) ReplaceTags(billID uuid.UUID, tagIDs []uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.bills[billID]; !exists {
		return domain.ErrBillNotFound
	}
	m.tags[billID] = append([]uuid.UUID(nil), tagIDs...)
	return nil
}

// tagsFor resolves the tag set for a bill. Caller must hold the lock.
func (m *MockBillRepository) tagsFor(billID uuid.UUID) []domain.Tag {
	tags := make([]domain.Tag, 0)
	if m.TagLookup == nil {
		return tags
	}
	for _, tagID := range m.tags[billID] {
		if tag, ok := m.TagLookup(tagID); ok {
			tags = append(tags, *tag)
		}
	}
	return tags
}

// MockPaymentRepository is an in-memory implementation of domain.PaymentRepository
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[uuid.UUID]*domain.Payment
}

// NewMockPaymentRepository creates a new MockPaymentRepository
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[uuid.UUID]*domain.Payment),
	}
}

// AddPayment seeds a payment directly, bypassing validation
func (m *MockPaymentRepository) AddPayment(payment *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	m.payments[payment.ID] = payment
}

// Create stores a new payment
func (m *MockPaymentRepository) Create(payment *domain.Payment) (*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *payment
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.payments[stored.ID] = &stored

	result := stored
	return &result, nil
}

// GetByID retrieves a payment
func (m *MockPaymentRepository) GetByID(id uuid.UUID) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	payment, exists := m.payments[id]
	if !exists {
		return nil, domain.ErrPaymentNotFound
	}

	result := *payment
	return &result, nil
}

// List retrieves payments newest first, optionally filtered by bill
func (m *MockPaymentRepository) List(billID *uuid.UUID) ([]*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	payments := make([]*domain.Payment, 0, len(m.payments))
	for _, payment := range m.payments {
		if billID != nil && payment.BillID != *billID {
			continue
		}
		result := *payment
		payments = append(payments, &result)
	}

	sort.Slice(payments, func(i, j int) bool {
		return payments[i].PaymentDate.After(payments[j].PaymentDate)
	})

	return payments, nil
}

// Update replaces a stored payment
func (m *MockPaymentRepository) Update(payment *domain.Payment) (*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.payments[payment.ID]
	if !exists {
		return nil, domain.ErrPaymentNotFound
	}

	stored := *payment
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now()
	m.payments[stored.ID] = &stored

	result := stored
	return &result, nil
}

// Delete removes a payment
func (m *MockPaymentRepository) Delete(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.payments[id]; !exists {
		return domain.ErrPaymentNotFound
	}
	delete(m.payments, id)
	return nil
}

// MockTagRepository is an in-memory implementation of domain.TagRepository
type MockTagRepository struct {
	mu   sync.RWMutex
	tags map[uuid.UUID]*domain.Tag
}

// NewMockTagRepository creates a new MockTagRepository
func NewMockTagRepository() *MockTagRepository {
	return &MockTagRepository{
		tags: make(map[uuid.UUID]*domain.Tag),
	}
}

// AddTag seeds a tag directly, bypassing validation
func (m *MockTagRepository) AddTag(tag *domain.Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tag.ID == uuid.Nil {
		tag.ID = uuid.New()
	}
	m.tags[tag.ID] = tag
}

// Lookup resolves a tag by ID; suitable as MockBillRepository.TagLookup
func (m *MockTagRepository) Lookup(id uuid.UUID) (*domain.Tag, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tag, exists := m.tags[id]
	if !exists {
		return nil, false
	}
	result := *tag
	return &result, true
}

// List retrieves all tags sorted by name
func (m *MockTagRepository) List() ([]*domain.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tags := make([]*domain.Tag, 0, len(m.tags))
	for _, tag := range m.tags {
		result := *tag
		tags = append(tags, &result)
	}

	sort.Slice(tags, func(i, j int) bool {
		return strings.ToLower(tags[i].Name) < strings.ToLower(tags[j].Name)
	})

	return tags, nil
}

// GetByID retrieves a tag by ID
func (m *MockTagRepository) GetByID(id uuid.UUID) (*domain.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tag, exists := m.tags[id]
	if !exists {
		return nil, domain.ErrTagNotFound
	}
	result := *tag
	return &result, nil
}

// GetByName retrieves a tag by exact name
func (m *MockTagRepository) GetByName(name string) (*domain.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, tag := range m.tags {
		if tag.Name == name {
			result := *tag
			return &result, nil
		}
	}
	return nil, domain.ErrTagNotFound
}

// Create stores a new tag, enforcing name uniqueness
func (m *MockTagRepository) Create(tag *domain.Tag) (*domain.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.tags {
		if existing.Name == tag.Name {
			return nil, domain.ErrTagNameExists
		}
	}

	stored := *tag
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	stored.CreatedAt = time.Now()
	m.tags[stored.ID] = &stored

	result := stored
	return &result, nil
}

// Delete removes a tag
func (m *MockTagRepository) Delete(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.tags[id]; !exists {
		return domain.ErrTagNotFound
	}
	delete(m.tags, id)
	return nil
}
