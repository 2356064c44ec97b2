package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"library-lending/internal/backend/repository"
	"library-lending/internal/domain"
)

// LendingService aplica las reglas de prestamo: solo ejemplares AVAILABLE,
// sin prestamo activo duplicado, y devolucion solo por quien lo presto.
type LendingService struct {
	logger     *zap.Logger
	books      repository.BookRepository
	borrowings repository.BorrowingRepository
	now        func() time.Time
}

func NewLendingService(logger *zap.Logger, books repository.BookRepository, borrowings repository.BorrowingRepository) *LendingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LendingService{
		logger:     logger,
		books:      books,
		borrowings: borrowings,
		now:        time.Now,
	}
}

func (s *LendingService) Borrow(ctx context.Context, userID, inventoryID int64) (domain.BorrowingRecord, error) {
	rec, err := s.borrowings.Borrow(ctx, userID, inventoryID, s.now())
	if err != nil {
		return domain.BorrowingRecord{}, err
	}
	s.logger.Info("book borrowed",
		zap.Int64("user_id", userID),
		zap.Int64("inventory_id", inventoryID),
		zap.Int64("record_id", rec.RecordID),
	)
	return rec, nil
}

func (s *LendingService) Return(ctx context.Context, userID, inventoryID int64) (domain.BorrowingRecord, error) {
	rec, err := s.borrowings.Return(ctx, userID, inventoryID, s.now())
	if err != nil {
		return domain.BorrowingRecord{}, err
	}
	s.logger.Info("book returned",
		zap.Int64("user_id", userID),
		zap.Int64("inventory_id", inventoryID),
		zap.Int64("record_id", rec.RecordID),
	)
	return rec, nil
}

func (s *LendingService) Active(ctx context.Context, userID int64) ([]domain.BorrowingRecord, error) {
	return s.borrowings.ListByUser(ctx, userID, true)
}

func (s *LendingService) History(ctx context.Context, userID int64) ([]domain.BorrowingRecord, error) {
	return s.borrowings.ListByUser(ctx, userID, false)
}

// Stats cuenta total, activos y devueltos sobre el historial completo.
func (s *LendingService) Stats(ctx context.Context, userID int64) (domain.BorrowingStats, error) {
	history, err := s.borrowings.ListByUser(ctx, userID, false)
	if err != nil {
		return domain.BorrowingStats{}, err
	}
	stats := domain.BorrowingStats{TotalBorrowed: len(history)}
	for _, r := range history {
		if r.Returned() {
			stats.ReturnedCount++
		} else {
			stats.ActiveCount++
		}
	}
	return stats, nil
}

func (s *LendingService) Availability(ctx context.Context, inventoryID int64) (domain.Availability, error) {
	inv, err := s.books.GetInventory(ctx, inventoryID)
	if err != nil {
		return domain.Availability{}, err
	}
	return domain.Availability{
		InventoryID: inv.InventoryID,
		IsAvailable: inv.Available(),
		Status:      inv.Status,
	}, nil
}
