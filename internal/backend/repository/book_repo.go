package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-lending/internal/domain"
)

// PgBookRepository implementa BookRepository usando pgxpool.
type PgBookRepository struct {
	pool *pgxpool.Pool
}

func NewPgBookRepository(pool *pgxpool.Pool) *PgBookRepository {
	return &PgBookRepository{pool: pool}
}

const inventorySelect = `
	SELECT i.inventory_id, i.isbn, i.store_time, i.status,
	       b.name, b.author, b.introduction, b.image_url
	FROM inventories i
	JOIN books b ON b.isbn = i.isbn
`

func (r *PgBookRepository) UpsertBook(ctx context.Context, book domain.Book) error {
	const query = `
		INSERT INTO books (isbn, name, author, introduction, image_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (isbn) DO UPDATE
		SET name = EXCLUDED.name,
		    author = EXCLUDED.author,
		    introduction = EXCLUDED.introduction,
		    image_url = EXCLUDED.image_url
	`
	_, err := r.pool.Exec(ctx, query, book.ISBN, book.Name, book.Author, book.Introduction, book.ImageURL)
	return err
}

func (r *PgBookRepository) GetBook(ctx context.Context, isbn string) (domain.Book, error) {
	const query = `SELECT isbn, name, author, introduction, image_url FROM books WHERE isbn = $1`
	var b domain.Book
	err := r.pool.QueryRow(ctx, query, isbn).Scan(&b.ISBN, &b.Name, &b.Author, &b.Introduction, &b.ImageURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Book{}, ErrNotFound
	}
	return b, err
}

func (r *PgBookRepository) AddInventory(ctx context.Context, isbn string, storedAt time.Time) (domain.Inventory, error) {
	const query = `
		INSERT INTO inventories (isbn, store_time, status)
		SELECT isbn, $2, $3 FROM books WHERE isbn = $1
		RETURNING inventory_id
	`
	var id int64
	err := r.pool.QueryRow(ctx, query, isbn, storedAt.UTC(), domain.InventoryAvailable).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Inventory{}, ErrNotFound
	}
	if err != nil {
		return domain.Inventory{}, err
	}
	return r.GetInventory(ctx, id)
}

func (r *PgBookRepository) GetInventory(ctx context.Context, id int64) (domain.Inventory, error) {
	inv, err := scanInventory(r.pool.QueryRow(ctx, inventorySelect+` WHERE i.inventory_id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Inventory{}, ErrInventoryNotFound
	}
	return inv, err
}

func (r *PgBookRepository) ListInventories(ctx context.Context, status string) ([]domain.Inventory, error) {
	query := inventorySelect
	var args []any
	if status != "" {
		query += ` WHERE i.status = $1`
		args = append(args, status)
	}
	return r.queryInventories(ctx, query+` ORDER BY i.inventory_id`, args...)
}

func (r *PgBookRepository) SearchInventories(ctx context.Context, p domain.SearchParams) ([]domain.Inventory, error) {
	var (
		conds []string
		args  []any
	)
	if kw := strings.TrimSpace(p.Keyword); kw != "" {
		args = append(args, "%"+kw+"%")
		conds = append(conds, fmt.Sprintf("b.name ILIKE $%d", len(args)))
	}
	if author := strings.TrimSpace(p.Author); author != "" {
		args = append(args, "%"+author+"%")
		conds = append(conds, fmt.Sprintf("b.author ILIKE $%d", len(args)))
	}
	if isbn := strings.TrimSpace(p.ISBN); isbn != "" {
		args = append(args, isbn)
		conds = append(conds, fmt.Sprintf("i.isbn = $%d", len(args)))
	}
	query := inventorySelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	return r.queryInventories(ctx, query+` ORDER BY i.inventory_id`, args...)
}

func (r *PgBookRepository) CountBooks(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&n)
	return n, err
}

func (r *PgBookRepository) queryInventories(ctx context.Context, query string, args ...any) ([]domain.Inventory, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Inventory, 0)
	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func scanInventory(row pgx.Row) (domain.Inventory, error) {
	var (
		inv    domain.Inventory
		book   domain.Book
		stored time.Time
	)
	if err := row.Scan(
		&inv.InventoryID,
		&inv.ISBN,
		&stored,
		&inv.Status,
		&book.Name,
		&book.Author,
		&book.Introduction,
		&book.ImageURL,
	); err != nil {
		return domain.Inventory{}, err
	}
	book.ISBN = inv.ISBN
	inv.StoreTime = domain.NewTimestamp(stored)
	inv.Book = &book
	return inv, nil
}
