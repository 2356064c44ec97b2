package service

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"library-lending/internal/api"
	backendhttp "library-lending/internal/backend/http"
	"library-lending/internal/backend/repository"
	backend "library-lending/internal/backend/service"
	"library-lending/internal/domain"
	"library-lending/internal/router"
	"library-lending/internal/session"
)

func startBackend(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	store := repository.NewMemoryStore()
	jwtSvc := backend.NewJWTService("integration-secret", time.Hour)
	catalog := backend.NewCatalogService(logger, store)
	_, err := catalog.Seed(context.Background(), backend.DefaultCatalog())
	require.NoError(t, err)

	engine := backendhttp.NewRouter(logger, jwtSvc,
		backendhttp.NewAuthHandler(logger, backend.NewAuthService(logger, store, jwtSvc, nil)),
		backendhttp.NewBookHandler(logger, catalog),
		backendhttp.NewBorrowingHandler(logger, backend.NewLendingService(logger, store, store)),
	)
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}

func TestClientAgainstBackend(t *testing.T) {
	ctx := context.Background()
	sess := session.NewContext(session.NewMemoryKV(), zap.NewNop())
	notices := &noticeLog{}

	table, err := router.NewTable(router.DefaultRoutes())
	require.NoError(t, err)
	nav := router.New(table, sess, nil, zap.NewNop())

	client := api.NewClient(startBackend(t), 5*time.Second, zap.NewNop(),
		api.WithRequestInterceptor(api.AuthInterceptor(sess)),
		api.WithRequestInterceptor(api.RequestIDInterceptor()),
		api.WithResponseInterceptor(api.NewErrorInterceptor(sess, notices, nav, zap.NewNop())),
	)
	auth := NewAuthService(zap.NewNop(), client, sess)
	books := NewBookService(client)
	borrowing := NewBorrowingService(client)

	_, err = auth.Register(ctx, "0912345678", "Ana", "secret1")
	require.NoError(t, err)
	_, err = auth.Login(ctx, "0912345678", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", auth.CurrentUser().DisplayName)

	route, err := nav.Navigate(ctx, router.PathLogin)
	require.NoError(t, err)
	assert.Equal(t, router.PathBooks, route.Path)

	available, err := books.GetAvailableBooks(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, available)
	target := available[0].InventoryID

	_, err = borrowing.BorrowBook(ctx, target)
	require.NoError(t, err)

	_, err = borrowing.BorrowBook(ctx, target)
	require.ErrorIs(t, err, api.ErrHTTP)
	assert.Len(t, notices.errors, 1)

	active, err := borrowing.GetActiveBorrowings(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, target, active[0].InventoryID)

	_, err = borrowing.ReturnBook(ctx, target)
	require.NoError(t, err)

	stats, err := borrowing.GetBorrowingStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.BorrowingStats{TotalBorrowed: 1, ReturnedCount: 1}, stats)

	found, err := books.SearchBooks(ctx, domain.SearchParams{Author: "紐波特"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "深度工作力", found[0].Book.Name)

	// Un token invalido produce 401: se borra la sesion y se vuelve a login.
	require.NoError(t, sess.Set("forged", "Ana"))
	_, err = borrowing.GetBorrowingHistory(ctx)
	require.ErrorIs(t, err, api.ErrUnauthorized)
	assert.False(t, sess.Get().HasToken())
	assert.Equal(t, router.PathLogin, nav.Current().Path)
	assert.Equal(t, api.MsgSessionExpired, notices.errors[len(notices.errors)-1])
}
