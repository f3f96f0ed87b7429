package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/passreset/internal/audit"
	"github.com/nfrund/passreset/internal/backend"
	"github.com/nfrund/passreset/internal/handlers"
	"github.com/nfrund/passreset/internal/metrics"
	"github.com/nfrund/passreset/internal/pubsub"
	"github.com/nfrund/passreset/internal/rendering"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionSecret = "a-very-secret-key-for-testing-!"

type backendCall struct {
	Method        string
	Path          string
	Authorization string
	Body          string
}

// fakeBackend records change password requests and answers with status/body.
type fakeBackend struct {
	mu     sync.Mutex
	calls  []backendCall
	status int
	body   string
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	b.calls = append(b.calls, backendCall{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		Body:          string(raw),
	})
	status, body := b.status, b.body
	b.mu.Unlock()

	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func (b *fakeBackend) Calls() []backendCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]backendCall(nil), b.calls...)
}

// recordingPublisher keeps every published message.
type recordingPublisher struct {
	mu       sync.Mutex
	messages []pubsub.Message
}

func (p *recordingPublisher) Publish(ctx context.Context, msg pubsub.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Outcomes(t *testing.T) []audit.Outcome {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []audit.Outcome
	for _, msg := range p.messages {
		assert.Equal(t, audit.OutcomeTopic, msg.Topic)
		var o audit.Outcome
		require.NoError(t, json.Unmarshal(msg.Payload, &o))
		out = append(out, o)
	}
	return out
}

type testEnv struct {
	e         *echo.Echo
	backend   *fakeBackend
	publisher *recordingPublisher
}

func setupResetTest(t *testing.T, status int, body string) *testEnv {
	t.Helper()

	fb := &fakeBackend{status: status, body: body}
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)

	pub := &recordingPublisher{}
	h := handlers.NewResetPasswordHandler(
		backend.NewClient(srv.URL, srv.Client()),
		pub,
		metrics.NewRecorder(prometheus.NewRegistry()),
	)

	e := echo.New()
	e.Renderer = rendering.NewUniversalRenderer()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(testSessionSecret))))
	e.GET("/changepassword", h.ResetPasswordGet)
	e.POST("/changepassword", h.ResetPasswordPost)

	return &testEnv{e: e, backend: fb, publisher: pub}
}

func (env *testEnv) post(target, password, confirm string, headers map[string]string) *httptest.ResponseRecorder {
	form := url.Values{}
	form.Set("password", password)
	form.Set("passwordConfirm", confirm)

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

// assertFlashMessage is a test helper to check for a flash message set on the response.
func assertFlashMessage(t *testing.T, rec *httptest.ResponseRecorder, key, expectedMessage string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range rec.Result().Cookies() {
		req.AddCookie(cookie)
	}
	cookieStore := sessions.NewCookieStore([]byte(testSessionSecret))
	sess, err := cookieStore.Get(req, "flash-session")
	require.NoError(t, err)

	flashes := sess.Flashes(key)
	require.NotEmpty(t, flashes, "expected flash message but found none for key: %s", key)
	assert.Equal(t, expectedMessage, flashes[0])
}

func TestResetPasswordGet(t *testing.T) {
	env := setupResetTest(t, http.StatusOK, "")

	t.Run("shows the token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		env.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/changepassword?token=abc123", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Token: abc123")
		assert.Contains(t, rec.Body.String(), `name="passwordConfirm"`)
	})

	t.Run("placeholder without a token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		env.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/changepassword", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Token: No token provided")
	})

	t.Run("spanish page", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/changepassword", nil)
		req.Header.Set("Accept-Language", "es-ES,es;q=0.9")
		rec := httptest.NewRecorder()
		env.e.ServeHTTP(rec, req)

		assert.Contains(t, rec.Body.String(), `<html lang="es">`)
		assert.Contains(t, rec.Body.String(), "No se proporcionó un token")
	})

	assert.Empty(t, env.backend.Calls(), "rendering never calls the backend")
}

func TestResetPasswordPost(t *testing.T) {
	t.Run("matching passwords change the password and redirect home", func(t *testing.T) {
		env := setupResetTest(t, http.StatusOK, `{"msg":"clave actualizada"}`)

		rec := env.post("/changepassword?token=abc123", "secret1", "secret1", nil)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
		assertFlashMessage(t, rec, "success", "Your password has been changed.")

		calls := env.backend.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, http.MethodPatch, calls[0].Method)
		assert.Equal(t, "/api/changepassword", calls[0].Path)
		assert.Equal(t, "Bearer abc123", calls[0].Authorization)
		assert.JSONEq(t, `{"password":"secret1"}`, calls[0].Body)

		outcomes := env.publisher.Outcomes(t)
		require.Len(t, outcomes, 1)
		assert.Equal(t, audit.KindSuccess, outcomes[0].Kind)
		assert.True(t, outcomes[0].TokenPresent)
	})

	t.Run("htmx success uses HX-Redirect", func(t *testing.T) {
		env := setupResetTest(t, http.StatusOK, "")

		rec := env.post("/changepassword?token=abc123", "secret1", "secret1", map[string]string{"HX-Request": "true"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("HX-Redirect"))
		assert.Empty(t, rec.Header().Get(echo.HeaderLocation))
		assert.Len(t, env.backend.Calls(), 1)
	})

	t.Run("mismatch shows a message without calling the backend", func(t *testing.T) {
		env := setupResetTest(t, http.StatusOK, "")

		rec := env.post("/changepassword?token=abc123", "secret1", "other2", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "Passwords do not match.")
		assert.Contains(t, rec.Body.String(), "Token: abc123")
		assert.Empty(t, rec.Header().Get(echo.HeaderLocation))
		assert.Empty(t, env.backend.Calls())

		outcomes := env.publisher.Outcomes(t)
		require.Len(t, outcomes, 1)
		assert.Equal(t, audit.KindInvalid, outcomes[0].Kind)
	})

	t.Run("mismatch message is localized", func(t *testing.T) {
		env := setupResetTest(t, http.StatusOK, "")

		rec := env.post("/changepassword?token=abc123", "secret1", "other2", map[string]string{"Accept-Language": "es"})

		assert.Contains(t, rec.Body.String(), "Las claves no coinciden.")
	})

	t.Run("backend rejection shows its message and does not redirect", func(t *testing.T) {
		env := setupResetTest(t, http.StatusUnauthorized, `{"msg":"Token has expired"}`)

		rec := env.post("/changepassword?token=expired", "secret1", "secret1", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "The password could not be changed: Token has expired")
		assert.Empty(t, rec.Header().Get(echo.HeaderLocation))
		assert.Len(t, env.backend.Calls(), 1)

		outcomes := env.publisher.Outcomes(t)
		require.Len(t, outcomes, 1)
		assert.Equal(t, audit.KindRejected, outcomes[0].Kind)
		assert.Equal(t, http.StatusUnauthorized, outcomes[0].StatusCode)
	})

	t.Run("htmx failure returns only the form", func(t *testing.T) {
		env := setupResetTest(t, http.StatusInternalServerError, "")

		rec := env.post("/changepassword?token=abc123", "secret1", "secret1", map[string]string{"HX-Request": "true"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Body.String(), `<form id="reset-password-form"`))
		assert.Contains(t, rec.Body.String(), "The password could not be changed.")
		assert.Empty(t, rec.Header().Get("HX-Redirect"))
	})

	t.Run("unreachable backend shows a message and does not redirect", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		deadURL := srv.URL
		srv.Close()

		pub := &recordingPublisher{}
		h := handlers.NewResetPasswordHandler(backend.NewClient(deadURL, nil), pub, nil)
		e := echo.New()
		e.Renderer = rendering.NewUniversalRenderer()
		e.Use(session.Middleware(sessions.NewCookieStore([]byte(testSessionSecret))))
		e.POST("/changepassword", h.ResetPasswordPost)
		env := &testEnv{e: e, publisher: pub}

		rec := env.post("/changepassword?token=abc123", "secret1", "secret1", nil)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "Could not reach the server. Please try again.")
		assert.Empty(t, rec.Header().Get(echo.HeaderLocation))

		outcomes := pub.Outcomes(t)
		require.Len(t, outcomes, 1)
		assert.Equal(t, audit.KindTransport, outcomes[0].Kind)
	})

	t.Run("each submit is one request", func(t *testing.T) {
		env := setupResetTest(t, http.StatusOK, "")

		env.post("/changepassword?token=abc123", "secret1", "secret1", nil)
		env.post("/changepassword?token=abc123", "secret1", "secret1", nil)

		assert.Len(t, env.backend.Calls(), 2, "double submits are not deduplicated")
	})
}
