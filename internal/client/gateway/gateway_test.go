package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/attendance/internal/client/models"
	"github.com/dmitrijs2005/attendance/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/attendance/internal/client/session"
	"github.com/dmitrijs2005/attendance/internal/common"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	mu    sync.Mutex
	cred  string
	calls []string
}

func (f *fakeSession) Credential() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cred
}

func (f *fakeSession) HandleUnauthorized(_ context.Context, c string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	return true
}

func (f *fakeSession) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeLocator struct {
	mu        sync.Mutex
	loc       string
	redirects int
}

func (l *fakeLocator) Location() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loc
}

func (l *fakeLocator) Redirect(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loc = path
	l.redirects++
}

type captured struct {
	Method      string
	Path        string
	Query       url.Values
	Auth        string
	HasAuth     bool
	RequestID   string
	ContentType string
	Body        string
}

func newServer(t *testing.T, h func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, func() []captured) {
	t.Helper()
	var mu sync.Mutex
	var seen []captured
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		_, hasAuth := r.Header[common.AuthorizationHeaderName]
		mu.Lock()
		seen = append(seen, captured{
			Method:      r.Method,
			Path:        r.URL.Path,
			Query:       r.URL.Query(),
			Auth:        r.Header.Get(common.AuthorizationHeaderName),
			HasAuth:     hasAuth,
			RequestID:   r.Header.Get(common.RequestIDHeaderName),
			ContentType: r.Header.Get("Content-Type"),
			Body:        string(b),
		})
		mu.Unlock()
		h(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts, func() []captured {
		mu.Lock()
		defer mu.Unlock()
		return append([]captured(nil), seen...)
	}
}

func okJSON(body string) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}
}

func status(code int, body string) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = io.WriteString(w, body)
	}
}

func TestDo_AttachesStoredCredentialByteForByte(t *testing.T) {
	ts, seen := newServer(t, okJSON(`{}`))
	tok := "eyJhbGciOiJIUzI1NiJ9.e30.a+b/c=="
	gw := New(ts.URL, ts.Client(), &fakeLocator{loc: "/student"}, nil)
	gw.Bind(&fakeSession{cred: tok})

	_, err := gw.Do(context.Background(), http.MethodGet, "/api/students/dashboard", nil)
	require.NoError(t, err)

	got := seen()
	require.Len(t, got, 1)
	assert.Equal(t, "Bearer "+tok, got[0].Auth)
	_, err = uuid.Parse(got[0].RequestID)
	assert.NoError(t, err, "request id must be a uuid")
}

func TestDo_NoCredentialNoHeader(t *testing.T) {
	ts, seen := newServer(t, okJSON(`{}`))
	gw := New(ts.URL, ts.Client(), nil, nil)
	gw.Bind(&fakeSession{})

	_, err := gw.Do(context.Background(), http.MethodGet, "/api/courses", nil)
	require.NoError(t, err)
	assert.False(t, seen()[0].HasAuth)
}

func TestDo_CredentialOverrides(t *testing.T) {
	ts, seen := newServer(t, okJSON(`{}`))
	gw := New(ts.URL, ts.Client(), nil, nil)
	gw.Bind(&fakeSession{cred: "current"})
	ctx := context.Background()

	_, err := gw.Do(ctx, http.MethodGet, "/api/auth/me", nil, WithCredential("candidate"))
	require.NoError(t, err)
	_, err = gw.Do(ctx, http.MethodPost, "/api/auth/register", map[string]string{"email": "x@y.z"}, WithoutCredential())
	require.NoError(t, err)

	got := seen()
	assert.Equal(t, "Bearer candidate", got[0].Auth)
	assert.False(t, got[1].HasAuth)
}

func TestDo_JSONBodyFormAndQuery(t *testing.T) {
	ts, seen := newServer(t, okJSON(`{"access_token":"t"}`))
	gw := New(ts.URL+"/", ts.Client(), nil, nil)
	ctx := context.Background()

	_, err := gw.Do(ctx, http.MethodPut, "/api/faculty/attendance/9", models.UpdateAttendance{Status: models.StatusAbsent})
	require.NoError(t, err)

	form := url.Values{"username": {"a@b.c"}, "password": {"p w&d"}}
	_, err = gw.Do(ctx, http.MethodPost, "/api/auth/login", nil, Form(form))
	require.NoError(t, err)

	_, err = gw.Do(ctx, http.MethodGet, "/api/reports/course/3", nil, WithQuery(url.Values{"format": {"csv"}}))
	require.NoError(t, err)

	got := seen()
	require.Len(t, got, 3)

	assert.Equal(t, http.MethodPut, got[0].Method)
	assert.Equal(t, "/api/faculty/attendance/9", got[0].Path)
	assert.Equal(t, "application/json", got[0].ContentType)
	assert.JSONEq(t, `{"status":"absent"}`, got[0].Body)

	assert.Equal(t, "application/x-www-form-urlencoded", got[1].ContentType)
	parsed, err := url.ParseQuery(got[1].Body)
	require.NoError(t, err)
	assert.Equal(t, form, parsed)

	assert.Equal(t, "csv", got[2].Query.Get("format"))
}

func TestCall_DecodesJSON(t *testing.T) {
	ts, _ := newServer(t, okJSON(`{"id":1,"email":"s@c.edu","full_name":"S","role":"student"}`))
	gw := New(ts.URL, ts.Client(), nil, nil)

	var id models.Identity
	require.NoError(t, gw.Call(context.Background(), http.MethodGet, "/api/auth/me", nil, &id))
	assert.Equal(t, models.RoleStudent, id.Role)
	assert.Equal(t, "s@c.edu", id.Email)
}

func TestCall_DecodeFailure(t *testing.T) {
	ts, _ := newServer(t, okJSON(`<html>`))
	gw := New(ts.URL, ts.Client(), nil, nil)

	var id models.Identity
	err := gw.Call(context.Background(), http.MethodGet, "/api/auth/me", nil, &id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestCall_BlobIsByteExact(t *testing.T) {
	payload := []byte{0x25, 0x50, 0x44, 0x46, 0x00, 0xff, 0xfe, 0x0a, 0x80}
	ts, _ := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(payload)
	})
	gw := New(ts.URL, ts.Client(), nil, nil)

	var got []byte
	require.NoError(t, gw.Call(context.Background(), http.MethodGet, "/api/reports/course/1", nil, &got, AsBlob()))
	assert.Equal(t, payload, got)

	var wrong string
	require.Error(t, gw.Call(context.Background(), http.MethodGet, "/api/reports/course/1", nil, &wrong, AsBlob()))
}

func TestDo_ErrorStatusesPassThrough(t *testing.T) {
	tests := []struct {
		name       string
		code       int
		body       string
		wantDetail string
		wantIs     error
	}{
		{"bad request detail", http.StatusBadRequest, `{"detail":"Email already registered"}`, "Email already registered", nil},
		{"forbidden", http.StatusForbidden, `{"detail":"Not enough permissions"}`, "Not enough permissions", common.ErrForbidden},
		{"not found", http.StatusNotFound, `{"detail":"Course not found"}`, "Course not found", common.ErrNotFound},
		{"validation list", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","email"],"msg":"value is not a valid email address"}]}`, "email: value is not a valid email address", nil},
		{"server error no body", http.StatusInternalServerError, ``, "", nil},
		{"unavailable", http.StatusServiceUnavailable, `upstream down`, "", common.ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, _ := newServer(t, status(tt.code, tt.body))
			sess := &fakeSession{cred: "tok"}
			gw := New(ts.URL, ts.Client(), &fakeLocator{loc: "/faculty"}, nil)
			gw.Bind(sess)

			_, err := gw.Do(context.Background(), http.MethodGet, "/x", nil)
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.code, apiErr.Status)
			assert.Equal(t, tt.wantDetail, apiErr.Detail)
			assert.NotEmpty(t, apiErr.RequestID)
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, err.Error())
			} else {
				assert.Contains(t, err.Error(), http.StatusText(tt.code))
			}
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			assert.NotErrorIs(t, err, common.ErrUnauthorized)
			assert.Empty(t, sess.Calls(), "only 401 touches the session")
		})
	}
}

func TestDo_401InvalidatesSessionAndStillFails(t *testing.T) {
	ts, _ := newServer(t, status(http.StatusUnauthorized, `{"detail":"Could not validate credentials"}`))
	sess := &fakeSession{cred: "tok"}
	gw := New(ts.URL, ts.Client(), &fakeLocator{loc: "/student"}, nil)
	gw.Bind(sess)

	_, err := gw.Do(context.Background(), http.MethodGet, "/api/students/dashboard", nil)
	require.ErrorIs(t, err, common.ErrUnauthorized)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Could not validate credentials", err.Error())
	assert.Equal(t, []string{"tok"}, sess.Calls())
}

func TestDo_401Skipped(t *testing.T) {
	ts, _ := newServer(t, status(http.StatusUnauthorized, `{"detail":"Incorrect email or password"}`))

	t.Run("on login surface", func(t *testing.T) {
		sess := &fakeSession{cred: "tok"}
		gw := New(ts.URL, ts.Client(), &fakeLocator{loc: common.LoginPath}, nil)
		gw.Bind(sess)

		_, err := gw.Do(context.Background(), http.MethodGet, "/api/auth/me", nil)
		require.ErrorIs(t, err, common.ErrUnauthorized)
		assert.Empty(t, sess.Calls())
	})

	t.Run("anonymous request", func(t *testing.T) {
		sess := &fakeSession{cred: "tok"}
		gw := New(ts.URL, ts.Client(), &fakeLocator{loc: "/student"}, nil)
		gw.Bind(sess)

		_, err := gw.Do(context.Background(), http.MethodPost, "/api/auth/login", nil,
			Form(url.Values{"username": {"u"}, "password": {"p"}}), WithoutCredential())
		require.ErrorIs(t, err, common.ErrUnauthorized)
		assert.Equal(t, "Incorrect email or password", err.Error())
		assert.Empty(t, sess.Calls())
	})
}

type meAPI struct{}

func (meAPI) Login(context.Context, string, string) (string, error) { return "tok", nil }
func (meAPI) Me(context.Context, string) (*models.Identity, error) {
	return &models.Identity{Email: "f@c.edu", Role: models.RoleFaculty}, nil
}

func TestDo_Concurrent401sLogOutOnce(t *testing.T) {
	var hits atomic.Int32
	ts, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		status(http.StatusUnauthorized, `{"detail":"Token expired"}`)(w, r)
	})

	creds := credentials.NewMemoryStore()
	loc := &fakeLocator{loc: "/faculty"}
	gw := New(ts.URL, ts.Client(), loc, nil)
	store := session.New(creds, meAPI{}, loc, nil)
	gw.Bind(store)

	ctx := context.Background()
	_, err := store.Login(ctx, "f@c.edu", "pw")
	require.NoError(t, err)
	writes := creds.Writes()

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = gw.Do(ctx, http.MethodGet, "/api/faculty/courses", nil)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	}
	assert.Equal(t, int32(n), hits.Load(), "no retry")
	assert.Equal(t, writes+1, creds.Writes(), "credential deleted exactly once")
	assert.Equal(t, 1, loc.redirects)

	phase, id := store.Snapshot()
	assert.Equal(t, session.PhaseUnauthenticated, phase)
	assert.Nil(t, id)
}

func TestDo_TransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	addr := ts.URL
	ts.Close()

	gw := New(addr, nil, nil, nil)
	_, err := gw.Do(context.Background(), http.MethodGet, "/api/auth/me", nil)
	require.ErrorIs(t, err, common.ErrUnavailable)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestDo_CanceledContextIsNotUnavailable(t *testing.T) {
	ts, _ := newServer(t, okJSON(`{}`))
	gw := New(ts.URL, ts.Client(), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gw.Do(ctx, http.MethodGet, "/api/courses", nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, common.ErrUnavailable)
}
