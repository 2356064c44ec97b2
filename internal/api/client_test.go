package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"library-lending/internal/domain"
)

type recordingNotifier struct {
	mu       sync.Mutex
	errors   []string
	warnings []string
	success  []string
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func (n *recordingNotifier) Warning(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.warnings = append(n.warnings, msg)
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.success = append(n.success, msg)
}

type fakeSession struct {
	session domain.Session
	clears  int
}

func (f *fakeSession) Get() domain.Session { return f.session }

func (f *fakeSession) Clear() error {
	f.clears++
	f.session = domain.Session{}
	return nil
}

type fixture struct {
	client   *Client
	session  *fakeSession
	notifier *recordingNotifier
	pushed   []string
}

func newFixture(t *testing.T, handler http.HandlerFunc) *fixture {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	f := &fixture{
		session:  &fakeSession{session: domain.Session{Token: "tok-123", DisplayName: "Ana"}},
		notifier: &recordingNotifier{},
	}
	nav := NavigatorFunc(func(_ context.Context, path string) error {
		f.pushed = append(f.pushed, path)
		return nil
	})
	f.client = NewClient(srv.URL+"/api", time.Second, zap.NewNop(),
		WithRequestInterceptor(AuthInterceptor(f.session)),
		WithRequestInterceptor(RequestIDInterceptor()),
		WithResponseInterceptor(NewErrorInterceptor(f.session, f.notifier, nav, zap.NewNop())),
	)
	return f
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestClient_AttachesBearerAndRequestID(t *testing.T) {
	var gotAuth, gotReqID, gotPath, gotQuery string
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, `{"success":true,"data":[]}`)
	})

	env, err := f.client.Request(context.Background(), http.MethodGet, "/books/search", nil, url.Values{"keyword": {"dune"}})
	require.NoError(t, err)
	assert.True(t, env.Success)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotReqID)
	assert.Equal(t, "/api/books/search", gotPath)
	assert.Equal(t, "keyword=dune", gotQuery)
	assert.Empty(t, f.notifier.errors)
}

func TestClient_NoTokenSendsUnauthenticated(t *testing.T) {
	var gotAuth string
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, `{"success":true}`)
	})
	f.session.session = domain.Session{}

	_, err := f.client.Request(context.Background(), http.MethodGet, "/books/available", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_SendsJSONBody(t *testing.T) {
	var gotBody, gotType string
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		gotType = r.Header.Get("Content-Type")
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"recordId":9}}`)
	})

	type borrowReq struct {
		InventoryID int64 `json:"inventoryId"`
	}
	rec, err := Call[domain.BorrowingRecord](context.Background(), f.client, Request{
		Method: http.MethodPost,
		Path:   "/borrowing/borrow",
		Body:   borrowReq{InventoryID: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), rec.RecordID)
	assert.JSONEq(t, `{"inventoryId":4}`, gotBody)
	assert.Equal(t, "application/json", gotType)
}

func TestClient_BusinessFailureOn200(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":false,"message":"book not found","errorCode":"BOOK_NOT_FOUND"}`)
	})

	_, err := f.client.Request(context.Background(), http.MethodGet, "/books/1", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBusiness))

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, "book not found", apiErr.Message)
	assert.Equal(t, "BOOK_NOT_FOUND", apiErr.Code)
	assert.Equal(t, []string{"book not found"}, f.notifier.errors)
	assert.Equal(t, 0, f.session.clears)
}

func TestClient_BusinessFailureDefaultMessage(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":false}`)
	})

	_, err := f.client.Request(context.Background(), http.MethodGet, "/books/1", nil, nil)
	require.Error(t, err)
	assert.Equal(t, []string{MsgOperationFailed}, f.notifier.errors)
}

func TestClient_BusinessFailureWithoutInterceptor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":false,"message":"nope"}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil)
	_, err := client.Request(context.Background(), http.MethodGet, "/x", nil, nil)
	assert.ErrorIs(t, err, ErrBusiness)
}

func TestClient_UnauthorizedClearsSessionAndRedirects(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"success":false,"message":"invalid token","errorCode":"INVALID_TOKEN"}`)
	})

	_, err := f.client.Request(context.Background(), http.MethodGet, "/borrowing/history", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, f.session.clears)
	assert.False(t, f.session.Get().HasToken())
	assert.Equal(t, []string{"/login"}, f.pushed)
	assert.Equal(t, []string{MsgSessionExpired}, f.notifier.errors)
}

func TestClient_StatusClassification(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		body     string
		sentinel error
		message  string
	}{
		{"forbidden", http.StatusForbidden, `{"success":false}`, ErrForbidden, MsgForbidden},
		{"not found", http.StatusNotFound, ``, ErrNotFound, MsgNotFound},
		{"server", http.StatusInternalServerError, `{"success":false,"message":"boom"}`, ErrServer, MsgServerError},
		{"bad request with message", http.StatusBadRequest, `{"success":false,"message":"already borrowed"}`, ErrHTTP, "already borrowed"},
		{"bad gateway without body", http.StatusBadGateway, `<html>oops</html>`, ErrHTTP, "request failed (502)"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tc.status, tc.body)
			})

			_, err := f.client.Request(context.Background(), http.MethodGet, "/books/available", nil, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.sentinel)

			apiErr, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.message, apiErr.Message)
			assert.Equal(t, []string{tc.message}, f.notifier.errors)
			assert.Equal(t, 0, f.session.clears, "session must stay untouched")
			assert.Empty(t, f.pushed)
		})
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	notifier := &recordingNotifier{}
	client := NewClient(base, time.Second, zap.NewNop(),
		WithResponseInterceptor(NewErrorInterceptor(nil, notifier, nil, nil)),
	)

	_, err := client.Request(context.Background(), http.MethodGet, "/books/available", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Equal(t, []string{MsgNetworkError}, notifier.errors)
}

func TestClient_TimeoutIsNetworkFailure(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	client := NewClient(srv.URL, 50*time.Millisecond, nil)
	_, err := client.Request(context.Background(), http.MethodGet, "/slow", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.True(t, IsTimeout(err))
}

func TestClient_UnexpectedLocalFailure(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true}`)
	})

	_, err := f.client.Request(context.Background(), http.MethodPost, "/borrowing/borrow", map[string]any{"bad": make(chan int)}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpected)
	require.Len(t, f.notifier.errors, 1)
	assert.Contains(t, f.notifier.errors[0], MsgUnexpected)
}

func TestClient_RequestInterceptorError(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil,
		WithRequestInterceptor(func(context.Context, *http.Request) error {
			return errors.New("no signing key")
		}),
	)
	_, err := client.Request(context.Background(), http.MethodGet, "/x", nil, nil)
	assert.ErrorIs(t, err, ErrUnexpected)
	assert.False(t, called)
}

func TestCall_DecodeFailureIsUnexpected(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":"not a list"}`)
	})

	_, err := Call[[]domain.Inventory](context.Background(), f.client, Request{Path: "/books/available"})
	assert.ErrorIs(t, err, ErrUnexpected)
	assert.Len(t, f.notifier.errors, 1)
}

func TestCall_EmptyDataIsZeroValue(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"message":"ok","data":null}`)
	})

	got, err := Call[[]domain.Inventory](context.Background(), f.client, Request{Path: "/books/available"})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", 0, nil)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, DefaultTimeout, c.client.Timeout)

	c = NewClient("http://host/api/", 0, nil, WithHTTPClient(&http.Client{}))
	assert.Equal(t, "http://host/api", c.BaseURL())
	assert.Equal(t, DefaultTimeout, c.client.Timeout)
}
