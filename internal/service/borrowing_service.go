package service

import (
	"context"
	"net/http"
	"strconv"

	"library-lending/internal/api"
	"library-lending/internal/domain"
)

// BorrowingService envuelve /borrowing/*. Todas las rutas salvo
// check-availability requieren token.
type BorrowingService struct {
	client *api.Client
}

func NewBorrowingService(client *api.Client) *BorrowingService {
	return &BorrowingService{client: client}
}

type inventoryRequest struct {
	InventoryID int64 `json:"inventoryId"`
}

func (s *BorrowingService) BorrowBook(ctx context.Context, inventoryID int64) (domain.BorrowingRecord, error) {
	return api.Call[domain.BorrowingRecord](ctx, s.client, api.Request{
		Method: http.MethodPost,
		Path:   "/borrowing/borrow",
		Body:   inventoryRequest{InventoryID: inventoryID},
	})
}

func (s *BorrowingService) ReturnBook(ctx context.Context, inventoryID int64) (domain.BorrowingRecord, error) {
	return api.Call[domain.BorrowingRecord](ctx, s.client, api.Request{
		Method: http.MethodPost,
		Path:   "/borrowing/return",
		Body:   inventoryRequest{InventoryID: inventoryID},
	})
}

// GetActiveBorrowings lista los prestamos sin devolver del usuario.
func (s *BorrowingService) GetActiveBorrowings(ctx context.Context) ([]domain.BorrowingRecord, error) {
	return api.Call[[]domain.BorrowingRecord](ctx, s.client, api.Request{Method: http.MethodGet, Path: "/borrowing/active"})
}

func (s *BorrowingService) GetBorrowingHistory(ctx context.Context) ([]domain.BorrowingRecord, error) {
	return api.Call[[]domain.BorrowingRecord](ctx, s.client, api.Request{Method: http.MethodGet, Path: "/borrowing/history"})
}

func (s *BorrowingService) GetBorrowingStats(ctx context.Context) (domain.BorrowingStats, error) {
	return api.Call[domain.BorrowingStats](ctx, s.client, api.Request{Method: http.MethodGet, Path: "/borrowing/stats"})
}

// CheckAvailability no requiere sesion.
func (s *BorrowingService) CheckAvailability(ctx context.Context, inventoryID int64) (domain.Availability, error) {
	return api.Call[domain.Availability](ctx, s.client, api.Request{
		Method: http.MethodGet,
		Path:   "/borrowing/check-availability/" + strconv.FormatInt(inventoryID, 10),
	})
}
