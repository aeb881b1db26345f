package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/atinyakov/GophLogin/internal/middleware"
	"github.com/atinyakov/GophLogin/internal/models"
	"github.com/atinyakov/GophLogin/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// failingProvider refuses to open any partition.
type failingProvider struct{}

func (failingProvider) Open(string) (storage.Store, error) { return nil, errors.New("backend down") }

// browser is a test client that keeps cookies and does not follow redirects.
type browser struct {
	t      *testing.T
	server *httptest.Server
	client *http.Client
}

func newBrowser(t *testing.T, pages *PageHandler) *browser {
	t.Helper()
	srv := httptest.NewServer(NewRouter(pages, zap.NewNop()))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &browser{t: t, server: srv, client: client}
}

func (b *browser) get(path string) (*http.Response, string) {
	b.t.Helper()
	resp, err := b.client.Get(b.server.URL + path)
	require.NoError(b.t, err)
	return b.read(resp)
}

func (b *browser) post(path string, form url.Values) (*http.Response, string) {
	b.t.Helper()
	resp, err := b.client.PostForm(b.server.URL+path, form)
	require.NoError(b.t, err)
	return b.read(resp)
}

func (b *browser) read(resp *http.Response) (*http.Response, string) {
	b.t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return resp, string(body)
}

func newPages(provider storage.Provider) *PageHandler {
	return &PageHandler{Provider: provider, Location: time.UTC, Logger: zap.NewNop()}
}

func TestLoginFlow(t *testing.T) {
	b := newBrowser(t, newPages(storage.NewMemoryProvider()))

	resp, body := b.get("/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `id="loginForm"`)

	resp, _ = b.get("/welcome.html")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/index.html", resp.Header.Get("Location"))

	resp, _ = b.post("/login", url.Values{"email": {"test@example.com"}, "password": {"123456"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/welcome.html", resp.Header.Get("Location"))

	resp, body = b.get("/welcome.html")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<span id="username">Test User</span>`)
	assert.Contains(t, body, `<span id="userEmail">test@example.com</span>`)
	assert.Regexp(t, `<span id="loginTime">\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}</span>`, body)

	resp, _ = b.get("/index.html")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode, "logged-in client is sent away from login")
	assert.Equal(t, "/welcome.html", resp.Header.Get("Location"))

	resp, _ = b.post("/logout", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/index.html", resp.Header.Get("Location"))

	resp, _ = b.get("/welcome.html")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/index.html", resp.Header.Get("Location"))
}

func TestLogin_ValidationErrors(t *testing.T) {
	b := newBrowser(t, newPages(storage.NewMemoryProvider()))

	resp, body := b.post("/login", url.Values{"email": {"a@b"}, "password": {"123"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Email format is invalid")
	assert.Contains(t, body, "Password must be at least 6 characters")
	assert.Contains(t, body, `value="a@b"`)
	assert.NotContains(t, body, `value="123"`)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	b := newBrowser(t, newPages(storage.NewMemoryProvider()))

	resp, body := b.post("/login", url.Values{"email": {"test@example.com"}, "password": {"wrong12"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Invalid email or password")

	resp, _ = b.get("/welcome.html")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestLogin_EscapesInput(t *testing.T) {
	b := newBrowser(t, newPages(storage.NewMemoryProvider()))

	_, body := b.post("/login", url.Values{"email": {`"><script>x</script>`}, "password": {"123456"}})
	assert.NotContains(t, body, "<script>x</script>")
}

func TestClientsAreIsolated(t *testing.T) {
	pages := newPages(storage.NewMemoryProvider())
	alice := newBrowser(t, pages)
	bob := &browser{t: t, server: alice.server, client: &http.Client{
		CheckRedirect: alice.client.CheckRedirect,
	}}
	jar, _ := cookiejar.New(nil)
	bob.client.Jar = jar

	resp, _ := alice.post("/login", url.Values{"email": {"test@example.com"}, "password": {"123456"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, _ = bob.get("/welcome.html")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode, "another browser is not logged in")
}

func TestWelcome_FlagWithoutProfile(t *testing.T) {
	provider := storage.NewMemoryProvider()
	pages := newPages(provider)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/welcome.html", nil)
	req.AddCookie(&http.Cookie{Name: middleware.ClientCookie, Value: "0b7f1a3e-3f57-4b2a-9df4-7c9a0f2a2b11"})

	store, err := provider.Open("0b7f1a3e-3f57-4b2a-9df4-7c9a0f2a2b11")
	require.NoError(t, err)
	require.NoError(t, store.SetItem(context.Background(), storage.DefaultPrefix+models.AuthKey, `{"isAuthenticated":true}`))

	NewRouter(pages, zap.NewNop()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/index.html", rec.Header().Get("Location"))
	keys, _ := store.Keys(context.Background())
	assert.Empty(t, keys)
}

func TestPages_StorageUnavailable(t *testing.T) {
	b := newBrowser(t, newPages(failingProvider{}))

	for _, path := range []string{"/", "/welcome.html"} {
		resp, body := b.get(path)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, path)
		assert.True(t, strings.Contains(body, "internal error"), path)
	}
	resp, _ := b.post("/login", url.Values{"email": {"test@example.com"}, "password": {"123456"}})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	resp, _ = b.post("/logout", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	NewRouter(newPages(storage.NewMemoryProvider()), zap.NewNop()).
		ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Empty(t, rec.Result().Cookies(), "health checks do not get a client id")
}
