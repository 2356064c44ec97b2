package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"library-lending/internal/backend/repository"
	"library-lending/internal/domain"
)

var ErrBookNotFound = errors.New("book not found")

// CatalogService expone libros y ejemplares.
type CatalogService struct {
	logger *zap.Logger
	books  repository.BookRepository
}

func NewCatalogService(logger *zap.Logger, books repository.BookRepository) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{logger: logger, books: books}
}

// Available lista los ejemplares en estado AVAILABLE.
func (s *CatalogService) Available(ctx context.Context) ([]domain.Inventory, error) {
	return s.books.ListInventories(ctx, domain.InventoryAvailable)
}

func (s *CatalogService) All(ctx context.Context) ([]domain.Inventory, error) {
	return s.books.ListInventories(ctx, "")
}

func (s *CatalogService) Search(ctx context.Context, params domain.SearchParams) ([]domain.Inventory, error) {
	return s.books.SearchInventories(ctx, params)
}

func (s *CatalogService) Book(ctx context.Context, isbn string) (domain.Book, error) {
	book, err := s.books.GetBook(ctx, strings.TrimSpace(isbn))
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Book{}, ErrBookNotFound
	}
	return book, err
}

// SeedBook es una entrada del catalogo inicial con su cantidad de ejemplares.
type SeedBook struct {
	Book   domain.Book
	Copies int
}

// DefaultCatalog es el catalogo de desarrollo.
func DefaultCatalog() []SeedBook {
	return []SeedBook{
		{Book: domain.Book{ISBN: "9789865020059", Name: "原子習慣", Author: "詹姆斯‧克利爾", Introduction: "細微改變帶來巨大成就的實證法則"}, Copies: 2},
		{Book: domain.Book{ISBN: "9789865020060", Name: "深度工作力", Author: "卡爾‧紐波特", Introduction: "淺薄時代，個人成功的關鍵能力"}, Copies: 1},
		{Book: domain.Book{ISBN: "9789865020061", Name: "刻意練習", Author: "安德斯‧艾瑞克森", Introduction: "原創者全面解析，比天賦更關鍵的學習法"}, Copies: 1},
		{Book: domain.Book{ISBN: "9789865020062", Name: "心流", Author: "米哈里‧契克森米哈賴", Introduction: "高手都在研究的最優體驗心理學"}, Copies: 1},
		{Book: domain.Book{ISBN: "9789865020063", Name: "思考，快與慢", Author: "丹尼爾‧康納曼", Introduction: "兩種思考系統如何影響判斷與決策"}, Copies: 1},
	}
}

// Seed carga el catalogo solo si no hay libros. Devuelve cuantos libros cargo.
func (s *CatalogService) Seed(ctx context.Context, catalog []SeedBook) (int, error) {
	n, err := s.books.CountBooks(ctx)
	if err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	now := time.Now()
	for _, entry := range catalog {
		if err := s.books.UpsertBook(ctx, entry.Book); err != nil {
			return 0, fmt.Errorf("seed book %s: %w", entry.Book.ISBN, err)
		}
		for i := 0; i < entry.Copies; i++ {
			if _, err := s.books.AddInventory(ctx, entry.Book.ISBN, now); err != nil {
				return 0, fmt.Errorf("seed inventory %s: %w", entry.Book.ISBN, err)
			}
		}
	}
	s.logger.Info("catalog seeded", zap.Int("books", len(catalog)))
	return len(catalog), nil
}
