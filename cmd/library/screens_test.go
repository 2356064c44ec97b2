package main

import (
	"bufio"
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
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
	"library-lending/internal/router"
	"library-lending/internal/service"
	"library-lending/internal/session"
)

func newTestApp(t *testing.T, input string) (*app, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	store := repository.NewMemoryStore()
	jwtSvc := backend.NewJWTService("screens-secret", time.Hour)
	catalog := backend.NewCatalogService(logger, store)
	_, err := catalog.Seed(context.Background(), backend.DefaultCatalog())
	require.NoError(t, err)
	srv := httptest.NewServer(backendhttp.NewRouter(logger, jwtSvc,
		backendhttp.NewAuthHandler(logger, backend.NewAuthService(logger, store, jwtSvc, nil)),
		backendhttp.NewBookHandler(logger, catalog),
		backendhttp.NewBorrowingHandler(logger, backend.NewLendingService(logger, store, store)),
	))
	t.Cleanup(srv.Close)

	var out, notices bytes.Buffer
	notifier := newTerminalNotifier(&notices)
	sess := session.NewContext(session.NewMemoryKV(), logger)
	table, err := router.NewTable(router.DefaultRoutes())
	require.NoError(t, err)
	nav := router.New(table, sess, notifier, logger)
	client := api.NewClient(srv.URL+"/api", 5*time.Second, logger,
		api.WithRequestInterceptor(api.AuthInterceptor(sess)),
		api.WithResponseInterceptor(api.NewErrorInterceptor(sess, notifier, nav, logger)),
	)
	return &app{
		in:        bufio.NewReader(strings.NewReader(input)),
		out:       &out,
		notifier:  notifier,
		session:   sess,
		nav:       nav,
		auth:      service.NewAuthService(logger, client, sess),
		books:     service.NewBookService(client),
		borrowing: service.NewBorrowingService(client),
	}, &out, &notices
}

func TestApp_QuitFromLogin(t *testing.T) {
	a, out, _ := newTestApp(t, "q\n")
	require.NoError(t, a.run(context.Background()))
	assert.Contains(t, out.String(), "===== Login - Library System =====")
}

func TestApp_EOFEndsSession(t *testing.T) {
	a, _, _ := newTestApp(t, "")
	require.NoError(t, a.run(context.Background()))
}

func TestApp_RegisterLoginBorrowFlow(t *testing.T) {
	input := strings.Join([]string{
		"2",                                 // login -> register
		"1", "0912345678", "Ana", "secret1", // register, back on login
		"1", "0912345678", "secret1", // login -> books
		"b", "1", // borrow copy 1
		"h", // my books
		"q",
	}, "\n") + "\n"
	a, out, notices := newTestApp(t, input)

	require.NoError(t, a.run(context.Background()))

	assert.Contains(t, out.String(), "===== Register - Library System =====")
	assert.Contains(t, out.String(), "===== My Books - Library System =====")
	assert.Contains(t, out.String(), "Signed in as Ana")
	assert.Contains(t, out.String(), "Total 1  Active 1  Returned 0")
	assert.Contains(t, notices.String(), "[ok] borrowed 原子習慣")
	assert.Equal(t, router.PathHistory, a.nav.Current().Path)
}

func TestApp_BadLoginStaysOnLogin(t *testing.T) {
	a, _, notices := newTestApp(t, "1\n0912345678\nwrong1\nq\n")
	require.NoError(t, a.run(context.Background()))
	assert.Contains(t, notices.String(), "[error] invalid phone number or password")
	assert.Equal(t, router.PathLogin, a.nav.Current().Path)
}
