package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modshop/internal/models"
	"modshop/internal/utils"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAuthAndAdminOnly(t *testing.T) {
	jwt := utils.NewJWTManager("secret", time.Hour)
	h := Auth(jwt)(AdminOnly(okHandler))

	userToken, err := jwt.GenerateJWT(models.Identity{ID: "u1", Role: models.RoleUser})
	require.NoError(t, err)
	adminToken, err := jwt.GenerateJWT(models.Identity{ID: "a1", IsAdmin: true, Role: models.RoleAdmin})
	require.NoError(t, err)
	foreign, err := utils.NewJWTManager("other", time.Hour).GenerateJWT(models.Identity{ID: "a1", IsAdmin: true, Role: models.RoleAdmin})
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"foreign signature", "Bearer " + foreign, http.StatusUnauthorized},
		{"user token", "Bearer " + userToken, http.StatusForbidden},
		{"admin token", "Bearer " + adminToken, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestAuthStoresClaims(t *testing.T) {
	jwt := utils.NewJWTManager("secret", time.Hour)
	token, err := jwt.GenerateJWT(models.Identity{ID: "u1", Name: "Rider", Role: models.RoleUser})
	require.NoError(t, err)

	var seen *utils.Claims
	h := Auth(jwt)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = utils.ClaimsFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, seen)
	assert.Equal(t, "Rider", seen.Name)
}

func TestCors(t *testing.T) {
	h := Cors([]string{"https://shop.example.com"})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://shop.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewRateLimiter(ctx, 0.001, 2).Limit(okHandler)

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:1002"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1000"), "other clients keep their own bucket")
}

func TestPrometheusUsesRouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMiddleware(reg)

	r := mux.NewRouter()
	r.Use(m.Instrument)
	r.Handle("/api/products/{id}", okHandler).Methods("GET")

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products/"+id, nil))
	}

	assert.Equal(t, 1, testutil.CollectAndCount(m.totalRequests))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.totalRequests.WithLabelValues("GET", "/api/products/{id}", "200")))
}
