package service

import (
	"context"
	"net/http"
	"net/url"

	"library-lending/internal/api"
	"library-lending/internal/domain"
)

// BookService envuelve /books/*.
type BookService struct {
	client *api.Client
}

func NewBookService(client *api.Client) *BookService {
	return &BookService{client: client}
}

func (s *BookService) GetAvailableBooks(ctx context.Context) ([]domain.Inventory, error) {
	return api.Call[[]domain.Inventory](ctx, s.client, api.Request{Method: http.MethodGet, Path: "/books/available"})
}

// GetAllBooks lista todos los ejemplares, prestados incluidos.
func (s *BookService) GetAllBooks(ctx context.Context) ([]domain.Inventory, error) {
	return api.Call[[]domain.Inventory](ctx, s.client, api.Request{Method: http.MethodGet, Path: "/books/all"})
}

// GetBookByID busca un libro por ISBN.
func (s *BookService) GetBookByID(ctx context.Context, id string) (domain.Book, error) {
	return api.Call[domain.Book](ctx, s.client, api.Request{
		Method: http.MethodGet,
		Path:   "/books/" + url.PathEscape(id),
	})
}

// SearchBooks envia solo los filtros no vacios como query.
func (s *BookService) SearchBooks(ctx context.Context, params domain.SearchParams) ([]domain.Inventory, error) {
	return api.Call[[]domain.Inventory](ctx, s.client, api.Request{
		Method: http.MethodGet,
		Path:   "/books/search",
		Query:  searchQuery(params),
	})
}

func searchQuery(p domain.SearchParams) url.Values {
	q := url.Values{}
	if p.Keyword != "" {
		q.Set("keyword", p.Keyword)
	}
	if p.Author != "" {
		q.Set("author", p.Author)
	}
	if p.ISBN != "" {
		q.Set("isbn", p.ISBN)
	}
	return q
}
