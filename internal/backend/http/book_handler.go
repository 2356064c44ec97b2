package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"library-lending/internal/backend/service"
	"library-lending/internal/domain"
)

// BookHandler atiende /api/books.
type BookHandler struct {
	logger  *zap.Logger
	catalog *service.CatalogService
}

func NewBookHandler(logger *zap.Logger, catalog *service.CatalogService) *BookHandler {
	return &BookHandler{logger: logger, catalog: catalog}
}

func (h *BookHandler) Available(c *gin.Context) {
	books, err := h.catalog.Available(c.Request.Context())
	if err != nil {
		h.logger.Error("list available books failed", zap.Error(err))
		fail(c, http.StatusBadRequest, "could not list books", "BOOKS_QUERY_ERROR")
		return
	}
	ok(c, "query successful", books)
}

func (h *BookHandler) All(c *gin.Context) {
	books, err := h.catalog.All(c.Request.Context())
	if err != nil {
		h.logger.Error("list books failed", zap.Error(err))
		fail(c, http.StatusBadRequest, "could not list books", "BOOKS_QUERY_ERROR")
		return
	}
	ok(c, "query successful", books)
}

// AvailableWithCount maneja GET /api/borrowing/available-books.
func (h *BookHandler) AvailableWithCount(c *gin.Context) {
	books, err := h.catalog.Available(c.Request.Context())
	if err != nil {
		h.logger.Error("list available books failed", zap.Error(err))
		fail(c, http.StatusBadRequest, "could not list books", "AVAILABLE_BOOKS_ERROR")
		return
	}
	ok(c, "query successful", gin.H{"books": books, "totalCount": len(books)})
}

// Search maneja GET /api/books/search?keyword=&author=&isbn=.
func (h *BookHandler) Search(c *gin.Context) {
	params := domain.SearchParams{
		Keyword: c.Query("keyword"),
		Author:  c.Query("author"),
		ISBN:    c.Query("isbn"),
	}
	books, err := h.catalog.Search(c.Request.Context(), params)
	if err != nil {
		h.logger.Error("search books failed", zap.Error(err))
		fail(c, http.StatusBadRequest, "could not search books", "BOOK_SEARCH_ERROR")
		return
	}
	ok(c, "query successful", books)
}

// GetByISBN responde 200 con success=false si el libro no existe.
func (h *BookHandler) GetByISBN(c *gin.Context) {
	book, err := h.catalog.Book(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			fail(c, http.StatusOK, err.Error(), "BOOK_NOT_FOUND")
			return
		}
		h.logger.Error("get book failed", zap.Error(err))
		fail(c, http.StatusBadRequest, "could not load book", "BOOK_QUERY_ERROR")
		return
	}
	ok(c, "query successful", book)
}
