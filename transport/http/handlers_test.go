package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cadastra/cepd/adapters/events"
	"github.com/cadastra/cepd/adapters/store"
	"github.com/cadastra/cepd/adapters/tokenizer"
	"github.com/cadastra/cepd/adapters/users"
	"github.com/cadastra/cepd/core"
	"github.com/cadastra/cepd/internal/logger"
	"github.com/cadastra/cepd/ports"
	"github.com/cadastra/cepd/service"
)

// fakeLookup serves a canned address (or error) and counts upstream calls.
type fakeLookup struct {
	addr  *core.Address
	err   error
	calls int
}

func (f *fakeLookup) Fetch(ctx context.Context, cep string) (*core.Address, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.addr, nil
}

var _ ports.AddressLookup = (*fakeLookup)(nil)

func newTestRouter(t *testing.T, upstream ports.AddressLookup) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)

	table := users.NewEmpty()
	table.Add(core.User{Username: "admin", PasswordHash: string(hash)})

	kv := store.NewMemory()
	auth := service.NewAuthService(
		tokenizer.NewHS256([]byte("test-secret"), time.Hour),
		table,
		kv,
		events.NewNopPublisher(),
		time.Hour,
		logger.Nop(),
	)
	cep := service.NewCEPService(kv, upstream, 5*time.Minute, logger.Nop())

	return SetupRouter(NewHandlers(auth, cep, logger.Nop()), auth)
}

func doRequest(router *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	body := decodeBody(t, w)
	require.Equal(t, false, body["success"])
	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok, "error envelope missing: %s", w.Body.String())
	require.NotEmpty(t, errObj["timestamp"])
	code, _ := errObj["code"].(string)
	return code
}

func login(t *testing.T, router *gin.Engine) string {
	t.Helper()

	w := doRequest(router, http.MethodPost, "/api/v1/auth/login",
		gin.H{"username": "admin", "password": "admin123"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decodeBody(t, w)["data"].(map[string]any)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func sampleAddress() *core.Address {
	return &core.Address{
		CEP:          "01001-000",
		Street:       "Praça da Sé",
		Neighborhood: "Sé",
		City:         "São Paulo",
		State:        "SP",
		AreaCode:     "11",
	}
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t, &fakeLookup{addr: sampleAddress()})

	w := doRequest(router, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])

	w = doRequest(router, http.MethodGet, "/api/v1/cep/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["endpoints"])
}

func TestLoginSuccess(t *testing.T) {
	router := newTestRouter(t, &fakeLookup{addr: sampleAddress()})

	w := doRequest(router, http.MethodPost, "/api/v1/auth/login",
		gin.H{"username": "admin", "password": "admin123"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]any)
	assert.NotEmpty(t, data["token"])
	assert.Equal(t, "1h", data["expiresIn"])
}

func TestLoginWrongPassword(t *testing.T) {
	router := newTestRouter(t, &fakeLookup{addr: sampleAddress()})

	w := doRequest(router, http.MethodPost, "/api/v1/auth/login",
		gin.H{"username": "admin", "password": "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, CodeLoginFailed, errorCode(t, w))
}

func TestLoginValidation(t *testing.T) {
	router := newTestRouter(t, &fakeLookup{addr: sampleAddress()})

	w := doRequest(router, http.MethodPost, "/api/v1/auth/login",
		gin.H{"username": "ab", "password": "admin123"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeValidationError, errorCode(t, w))

	w = doRequest(router, http.MethodPost, "/api/v1/auth/login",
		gin.H{"username": "admin"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeValidationError, errorCode(t, w))
}

func TestLookupRequiresAuth(t *testing.T) {
	router := newTestRouter(t, &fakeLookup{addr: sampleAddress()})

	w := doRequest(router, http.MethodPost, "/api/v1/cep", gin.H{"cep": "01001-000"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, CodeUnauthorized, errorCode(t, w))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cep", bytes.NewBufferString(`{"cep":"01001-000"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, CodeInvalidTokenFormat, errorCode(t, rec))

	w = doRequest(router, http.MethodPost, "/api/v1/cep", gin.H{"cep": "01001-000"}, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, CodeInvalidToken, errorCode(t, w))
}

func TestLookupCacheFlow(t *testing.T) {
	upstream := &fakeLookup{addr: sampleAddress()}
	router := newTestRouter(t, upstream)
	token := login(t, router)

	w := doRequest(router, http.MethodPost, "/api/v1/cep", gin.H{"cep": "01001-000"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	first := decodeBody(t, w)
	assert.Equal(t, "viacep", first["source"])
	assert.Equal(t, false, first["cached"])
	assert.Equal(t, 1, upstream.calls)

	w = doRequest(router, http.MethodPost, "/api/v1/cep", gin.H{"cep": "01001000"}, token)
	require.Equal(t, http.StatusOK, w.Code)

	second := decodeBody(t, w)
	assert.Equal(t, "cache", second["source"])
	assert.Equal(t, true, second["cached"])
	assert.NotEmpty(t, second["cacheExpiresIn"])
	assert.Equal(t, first["data"], second["data"])
	assert.Equal(t, 1, upstream.calls)
}

func TestLogoutFlow(t *testing.T) {
	router := newTestRouter(t, &fakeLookup{addr: sampleAddress()})
	token := login(t, router)

	w := doRequest(router, http.MethodPost, "/api/v1/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["success"])

	// The revoked token no longer opens the lookup endpoint.
	w = doRequest(router, http.MethodPost, "/api/v1/cep", gin.H{"cep": "01001-000"}, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, CodeTokenRevoked, errorCode(t, w))
}

func TestLogoutWithoutToken(t *testing.T) {
	router := newTestRouter(t, &fakeLookup{addr: sampleAddress()})

	w := doRequest(router, http.MethodPost, "/api/v1/auth/logout", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeTokenRequired, errorCode(t, w))
}

func TestLogoutGarbageToken(t *testing.T) {
	router := newTestRouter(t, &fakeLookup{addr: sampleAddress()})

	w := doRequest(router, http.MethodPost, "/api/v1/auth/logout", nil, "not.a.token")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, CodeLogoutFailed, errorCode(t, w))
}

func TestLookupNotFound(t *testing.T) {
	router := newTestRouter(t, &fakeLookup{err: core.ErrCEPNotFound})
	token := login(t, router)

	w := doRequest(router, http.MethodPost, "/api/v1/cep", gin.H{"cep": "00000000"}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, CodeCEPNotFound, errorCode(t, w))
}

func TestLookupUpstreamDown(t *testing.T) {
	for _, sentinel := range []error{core.ErrUpstreamTimeout, core.ErrUpstreamUnavailable} {
		router := newTestRouter(t, &fakeLookup{err: sentinel})
		token := login(t, router)

		w := doRequest(router, http.MethodPost, "/api/v1/cep", gin.H{"cep": "01001000"}, token)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, CodeServiceUnavailable, errorCode(t, w))
	}
}

func TestLookupValidation(t *testing.T) {
	upstream := &fakeLookup{addr: sampleAddress()}
	router := newTestRouter(t, upstream)
	token := login(t, router)

	// Too short for the schema: rejected before the service runs.
	w := doRequest(router, http.MethodPost, "/api/v1/cep", gin.H{"cep": "123"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeValidationError, errorCode(t, w))

	// Passes the length check but not the 8-digit rule.
	w = doRequest(router, http.MethodPost, "/api/v1/cep", gin.H{"cep": "1234a678"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidCEP, errorCode(t, w))

	assert.Equal(t, 0, upstream.calls)
}
