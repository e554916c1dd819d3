package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"studyspots/internal/auth"
	"studyspots/internal/domain/storage"
	"studyspots/internal/objectstore"
	"studyspots/internal/ratelimiter"
	"studyspots/internal/service"
)

const (
	testBasicUser = "admin"
	testBasicPass = "hunter2"
)

type testServer struct {
	app    *application
	mux    http.Handler
	assets *objectstore.Memory
}

func newTestServer(t *testing.T, mutate ...func(*config)) *testServer {
	t.Helper()

	cfg := config{
		Env:         "test",
		StoreDriver: driverMemory,
		Auth: authConfig{
			Basic: basicConfig{User: testBasicUser, Pass: testBasicPass},
			Token: tokenConfig{Secret: "access", RefreshSecret: "refresh", Iss: "studyspots"},
		},
	}
	for _, fn := range mutate {
		fn(&cfg)
	}

	logger := zaptest.NewLogger(t).Sugar()
	store := storage.NewMemoryContainer()
	assets := objectstore.NewMemory("https://assets.test")

	app := &application{
		config:        cfg,
		store:         store,
		logger:        logger,
		service:       service.New(store, logger, service.WithObjectStore(assets)),
		authenticator: auth.NewJWTAuthenticator("access", "refresh", "studyspots", "studyspots"),
		rateLimiter:   ratelimiter.NewFixedWindowLimiter(cfg.RateLimiter.RequestsPerTimeFrame, cfg.RateLimiter.TimeFrame),
	}
	return &testServer{app: app, mux: app.mount(), assets: assets}
}

func (s *testServer) do(t *testing.T, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}

	rr := httptest.NewRecorder()
	s.mux.ServeHTTP(rr, req)
	return rr
}

func decodeData[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), rr.Body.String())
	return envelope.Data
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Status  int    `json:"status"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, rr.Code, envelope.Status)
	return envelope.Message
}

type idOnly struct {
	ID string `json:"id"`
}

func venuePayload(name string, lon, lat float64, amenities ...string) map[string]any {
	return map[string]any{
		"name": name,
		"address": map[string]string{
			"street":   "1 Main St",
			"city":     "Springfield",
			"state":    "IL",
			"zip_code": "62701",
		},
		"location":  map[string]float64{"longitude": lon, "latitude": lat},
		"amenities": amenities,
	}
}

func (s *testServer) createVenue(t *testing.T, name string, lon, lat float64, amenities ...string) string {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/v1/venues", venuePayload(name, lon, lat, amenities...), nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decodeData[idOnly](t, rr).ID
}

func (s *testServer) createUser(t *testing.T, name, password string) string {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/v1/users", map[string]any{"name": name, "password": password}, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decodeData[idOnly](t, rr).ID
}

func (s *testServer) createReview(t *testing.T, venueID, userID string, rating float64) string {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/v1/reviews", map[string]any{
		"venue_id":       venueID,
		"user_id":        userID,
		"overall_rating": rating,
	}, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decodeData[idOnly](t, rr).ID
}

func basicAuth(user, pass string) http.Header {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth(user, pass)
	return http.Header{"Authorization": req.Header.Values("Authorization")}
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": {"Bearer " + token}}
}

func imageForm(t *testing.T, field string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename="photo.png"`, field))
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG fake"))
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func (s *testServer) upload(t *testing.T, method, path, field string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := imageForm(t, field, fields)
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)

	rr := httptest.NewRecorder()
	s.mux.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodGet, "/v1/health", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	data := decodeData[map[string]string](t, rr)
	assert.Equal(t, "ok", data["status"])
	assert.Equal(t, "test", data["env"])
	assert.Equal(t, driverMemory, data["store"])
}

func TestRateLimiterMiddleware(t *testing.T) {
	s := newTestServer(t, func(c *config) {
		c.RateLimiter = ratelimiter.Config{RequestsPerTimeFrame: 2, TimeFrame: time.Minute, Enabled: true}
	})

	for i := 0; i < 2; i++ {
		rr := s.do(t, http.MethodGet, "/v1/health", nil, nil)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr := s.do(t, http.MethodGet, "/v1/health", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
	assert.NotEqual(t, "0", rr.Header().Get("Retry-After"))
}

func TestRateLimiterSharesWindowAcrossPorts(t *testing.T) {
	s := newTestServer(t, func(c *config) {
		c.RateLimiter = ratelimiter.Config{RequestsPerTimeFrame: 2, TimeFrame: time.Minute, Enabled: true}
	})

	send := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
		req.RemoteAddr = remote
		rr := httptest.NewRecorder()
		s.mux.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:40001"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1:40002"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:40003"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2:40001"))
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"192.0.2.1:1234", "192.0.2.1"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		{"192.0.2.1", "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			assert.Equal(t, tt.want, clientKey(req))
		})
	}
}
