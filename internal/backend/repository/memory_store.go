package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"library-lending/internal/domain"
)

// MemoryStore implementa los tres repositorios en memoria. Se usa cuando no
// hay DATABASE_URL y en tests.
type MemoryStore struct {
	mu          sync.Mutex
	users       map[int64]domain.User
	books       map[string]domain.Book
	inventories map[int64]domain.Inventory
	records     []domain.BorrowingRecord
	nextUser    int64
	nextInv     int64
	nextRecord  int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[int64]domain.User),
		books:       make(map[string]domain.Book),
		inventories: make(map[int64]domain.Inventory),
	}
}

func (m *MemoryStore) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.PhoneNumber == user.PhoneNumber {
			return ErrDuplicate
		}
	}
	m.nextUser++
	user.ID = m.nextUser
	m.users[user.ID] = *user
	return nil
}

func (m *MemoryStore) GetByID(_ context.Context, id int64) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return u, nil
}

func (m *MemoryStore) GetByPhone(_ context.Context, phone string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.PhoneNumber == phone {
			return u, nil
		}
	}
	return domain.User{}, ErrNotFound
}

func (m *MemoryStore) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	ts := domain.NewTimestamp(at)
	u.LastLoginTime = &ts
	m.users[id] = u
	return nil
}

func (m *MemoryStore) UpsertBook(_ context.Context, book domain.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.books[book.ISBN] = book
	return nil
}

func (m *MemoryStore) GetBook(_ context.Context, isbn string) (domain.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[isbn]
	if !ok {
		return domain.Book{}, ErrNotFound
	}
	return b, nil
}

func (m *MemoryStore) AddInventory(_ context.Context, isbn string, storedAt time.Time) (domain.Inventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[isbn]; !ok {
		return domain.Inventory{}, ErrNotFound
	}
	m.nextInv++
	inv := domain.Inventory{
		InventoryID: m.nextInv,
		ISBN:        isbn,
		StoreTime:   domain.NewTimestamp(storedAt),
		Status:      domain.InventoryAvailable,
	}
	m.inventories[inv.InventoryID] = inv
	return m.withBook(inv), nil
}

func (m *MemoryStore) GetInventory(_ context.Context, id int64) (domain.Inventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.inventories[id]
	if !ok {
		return domain.Inventory{}, ErrInventoryNotFound
	}
	return m.withBook(inv), nil
}

func (m *MemoryStore) ListInventories(_ context.Context, status string) ([]domain.Inventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(func(inv domain.Inventory, _ domain.Book) bool {
		return status == "" || inv.Status == status
	}), nil
}

func (m *MemoryStore) SearchInventories(_ context.Context, p domain.SearchParams) ([]domain.Inventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keyword := strings.ToLower(strings.TrimSpace(p.Keyword))
	author := strings.ToLower(strings.TrimSpace(p.Author))
	isbn := strings.TrimSpace(p.ISBN)
	return m.filter(func(inv domain.Inventory, b domain.Book) bool {
		if keyword != "" && !strings.Contains(strings.ToLower(b.Name), keyword) {
			return false
		}
		if author != "" && !strings.Contains(strings.ToLower(b.Author), author) {
			return false
		}
		return isbn == "" || inv.ISBN == isbn
	}), nil
}

func (m *MemoryStore) CountBooks(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.books), nil
}

func (m *MemoryStore) Borrow(_ context.Context, userID, inventoryID int64, at time.Time) (domain.BorrowingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.inventories[inventoryID]
	if !ok {
		return domain.BorrowingRecord{}, ErrInventoryNotFound
	}
	for _, r := range m.records {
		if r.InventoryID == inventoryID && r.UserID == userID && r.ReturnTime == nil {
			return domain.BorrowingRecord{}, ErrAlreadyBorrowed
		}
	}
	if inv.Status != domain.InventoryAvailable {
		return domain.BorrowingRecord{}, ErrNotAvailable
	}

	inv.Status = domain.InventoryBorrowed
	m.inventories[inventoryID] = inv
	m.nextRecord++
	rec := domain.BorrowingRecord{
		RecordID:      m.nextRecord,
		UserID:        userID,
		InventoryID:   inventoryID,
		BorrowingTime: domain.NewTimestamp(at),
	}
	m.records = append(m.records, rec)
	return m.decorate(rec), nil
}

func (m *MemoryStore) Return(_ context.Context, userID, inventoryID int64, at time.Time) (domain.BorrowingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.inventories[inventoryID]
	if !ok {
		return domain.BorrowingRecord{}, ErrInventoryNotFound
	}
	idx := -1
	for i, r := range m.records {
		if r.InventoryID == inventoryID && r.ReturnTime == nil {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.BorrowingRecord{}, ErrNoActiveRecord
	}
	if m.records[idx].UserID != userID {
		return domain.BorrowingRecord{}, ErrNotBorrower
	}

	ts := domain.NewTimestamp(at)
	m.records[idx].ReturnTime = &ts
	inv.Status = domain.InventoryProcessing
	m.inventories[inventoryID] = inv
	return m.decorate(m.records[idx]), nil
}

func (m *MemoryStore) ListByUser(_ context.Context, userID int64, activeOnly bool) ([]domain.BorrowingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.BorrowingRecord, 0)
	for _, r := range m.records {
		if r.UserID != userID || (activeOnly && r.ReturnTime != nil) {
			continue
		}
		out = append(out, m.decorate(r))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].BorrowingTime.Equal(out[j].BorrowingTime.Time) {
			return out[i].RecordID > out[j].RecordID
		}
		return out[i].BorrowingTime.After(out[j].BorrowingTime.Time)
	})
	return out, nil
}

func (m *MemoryStore) filter(keep func(domain.Inventory, domain.Book) bool) []domain.Inventory {
	ids := make([]int64, 0, len(m.inventories))
	for id := range m.inventories {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]domain.Inventory, 0, len(ids))
	for _, id := range ids {
		inv := m.inventories[id]
		if keep(inv, m.books[inv.ISBN]) {
			out = append(out, m.withBook(inv))
		}
	}
	return out
}

func (m *MemoryStore) withBook(inv domain.Inventory) domain.Inventory {
	if b, ok := m.books[inv.ISBN]; ok {
		book := b
		inv.Book = &book
	}
	return inv
}

func (m *MemoryStore) decorate(r domain.BorrowingRecord) domain.BorrowingRecord {
	r.Status = domain.BorrowingActive
	if r.ReturnTime != nil {
		r.Status = domain.BorrowingReturned
	}
	if inv, ok := m.inventories[r.InventoryID]; ok {
		r.ISBN = inv.ISBN
		r.BookName = m.books[inv.ISBN].Name
	}
	return r
}
