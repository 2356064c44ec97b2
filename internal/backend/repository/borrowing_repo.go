package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-lending/internal/domain"
)

// PgBorrowingRepository implementa BorrowingRepository. Prestamo y devolucion
// corren en una transaccion con el ejemplar bloqueado (FOR UPDATE).
type PgBorrowingRepository struct {
	pool *pgxpool.Pool
}

func NewPgBorrowingRepository(pool *pgxpool.Pool) *PgBorrowingRepository {
	return &PgBorrowingRepository{pool: pool}
}

func (r *PgBorrowingRepository) Borrow(ctx context.Context, userID, inventoryID int64, at time.Time) (domain.BorrowingRecord, error) {
	var rec domain.BorrowingRecord
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		status, err := lockInventory(ctx, tx, inventoryID)
		if err != nil {
			return err
		}

		var active bool
		const dupQuery = `
			SELECT EXISTS (
				SELECT 1 FROM borrowing_records
				WHERE user_id = $1 AND inventory_id = $2 AND return_time IS NULL
			)
		`
		if err := tx.QueryRow(ctx, dupQuery, userID, inventoryID).Scan(&active); err != nil {
			return err
		}
		if active {
			return ErrAlreadyBorrowed
		}
		if status != domain.InventoryAvailable {
			return ErrNotAvailable
		}

		if _, err := tx.Exec(ctx, `UPDATE inventories SET status = $2 WHERE inventory_id = $1`,
			inventoryID, domain.InventoryBorrowed); err != nil {
			return err
		}
		const insert = `
			INSERT INTO borrowing_records (user_id, inventory_id, borrowing_time)
			VALUES ($1, $2, $3)
			RETURNING record_id
		`
		rec = domain.BorrowingRecord{
			UserID:        userID,
			InventoryID:   inventoryID,
			BorrowingTime: domain.NewTimestamp(at),
			Status:        domain.BorrowingActive,
		}
		return tx.QueryRow(ctx, insert, userID, inventoryID, rec.BorrowingTime.Time).Scan(&rec.RecordID)
	})
	if err != nil {
		return domain.BorrowingRecord{}, err
	}
	return r.withBook(ctx, rec)
}

func (r *PgBorrowingRepository) Return(ctx context.Context, userID, inventoryID int64, at time.Time) (domain.BorrowingRecord, error) {
	var rec domain.BorrowingRecord
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := lockInventory(ctx, tx, inventoryID); err != nil {
			return err
		}

		const activeQuery = `
			SELECT record_id, user_id, borrowing_time
			FROM borrowing_records
			WHERE inventory_id = $1 AND return_time IS NULL
			ORDER BY borrowing_time DESC
			LIMIT 1
			FOR UPDATE
		`
		var borrowed time.Time
		err := tx.QueryRow(ctx, activeQuery, inventoryID).Scan(&rec.RecordID, &rec.UserID, &borrowed)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNoActiveRecord
		}
		if err != nil {
			return err
		}
		if rec.UserID != userID {
			return ErrNotBorrower
		}

		ts := domain.NewTimestamp(at)
		rec.InventoryID = inventoryID
		rec.BorrowingTime = domain.NewTimestamp(borrowed)
		rec.ReturnTime = &ts
		rec.Status = domain.BorrowingReturned

		if _, err := tx.Exec(ctx, `UPDATE borrowing_records SET return_time = $2 WHERE record_id = $1`,
			rec.RecordID, ts.Time); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `UPDATE inventories SET status = $2 WHERE inventory_id = $1`,
			inventoryID, domain.InventoryProcessing)
		return err
	})
	if err != nil {
		return domain.BorrowingRecord{}, err
	}
	return r.withBook(ctx, rec)
}

func (r *PgBorrowingRepository) ListByUser(ctx context.Context, userID int64, activeOnly bool) ([]domain.BorrowingRecord, error) {
	query := `
		SELECT r.record_id, r.user_id, r.inventory_id, r.borrowing_time, r.return_time, i.isbn, b.name
		FROM borrowing_records r
		JOIN inventories i ON i.inventory_id = r.inventory_id
		JOIN books b ON b.isbn = i.isbn
		WHERE r.user_id = $1
	`
	if activeOnly {
		query += ` AND r.return_time IS NULL`
	}
	query += ` ORDER BY r.borrowing_time DESC, r.record_id DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.BorrowingRecord, 0)
	for rows.Next() {
		var (
			rec      domain.BorrowingRecord
			borrowed time.Time
			returned *time.Time
		)
		if err := rows.Scan(&rec.RecordID, &rec.UserID, &rec.InventoryID, &borrowed, &returned, &rec.ISBN, &rec.BookName); err != nil {
			return nil, err
		}
		rec.BorrowingTime = domain.NewTimestamp(borrowed)
		rec.Status = domain.BorrowingActive
		if returned != nil {
			ts := domain.NewTimestamp(*returned)
			rec.ReturnTime = &ts
			rec.Status = domain.BorrowingReturned
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *PgBorrowingRepository) withBook(ctx context.Context, rec domain.BorrowingRecord) (domain.BorrowingRecord, error) {
	const query = `
		SELECT i.isbn, b.name
		FROM inventories i JOIN books b ON b.isbn = i.isbn
		WHERE i.inventory_id = $1
	`
	if err := r.pool.QueryRow(ctx, query, rec.InventoryID).Scan(&rec.ISBN, &rec.BookName); err != nil {
		return domain.BorrowingRecord{}, err
	}
	return rec, nil
}

func lockInventory(ctx context.Context, tx pgx.Tx, inventoryID int64) (string, error) {
	var status string
	err := tx.QueryRow(ctx, `SELECT status FROM inventories WHERE inventory_id = $1 FOR UPDATE`, inventoryID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrInventoryNotFound
	}
	return status, err
}
