package repository

import (
	"context"
	"errors"
	"time"

	"library-lending/internal/domain"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicate         = errors.New("already exists")
	ErrInventoryNotFound = errors.New("inventory not found")
	ErrNotAvailable      = errors.New("book is not available")
	ErrAlreadyBorrowed   = errors.New("book already borrowed by this user")
	ErrNoActiveRecord    = errors.New("no active borrowing record")
	ErrNotBorrower       = errors.New("book was borrowed by another user")
)

// UserRepository define el contrato de persistencia para lectores.
type UserRepository interface {
	// Create asigna el ID al usuario. ErrDuplicate si el telefono ya existe.
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (domain.User, error)
	GetByPhone(ctx context.Context, phone string) (domain.User, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
}

// BookRepository cubre libros y sus ejemplares.
type BookRepository interface {
	UpsertBook(ctx context.Context, book domain.Book) error
	GetBook(ctx context.Context, isbn string) (domain.Book, error)
	AddInventory(ctx context.Context, isbn string, storedAt time.Time) (domain.Inventory, error)
	GetInventory(ctx context.Context, id int64) (domain.Inventory, error)
	// ListInventories devuelve los ejemplares con su libro, por id ascendente.
	// status vacio no filtra.
	ListInventories(ctx context.Context, status string) ([]domain.Inventory, error)
	SearchInventories(ctx context.Context, params domain.SearchParams) ([]domain.Inventory, error)
	CountBooks(ctx context.Context) (int, error)
}

// BorrowingRepository aplica prestamo y devolucion de forma atomica sobre
// el ejemplar y el registro.
type BorrowingRepository interface {
	Borrow(ctx context.Context, userID, inventoryID int64, at time.Time) (domain.BorrowingRecord, error)
	Return(ctx context.Context, userID, inventoryID int64, at time.Time) (domain.BorrowingRecord, error)
	// ListByUser devuelve los registros del usuario, mas recientes primero.
	ListByUser(ctx context.Context, userID int64, activeOnly bool) ([]domain.BorrowingRecord, error)
}
