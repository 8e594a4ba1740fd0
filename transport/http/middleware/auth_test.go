package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rolloff/config"
	"rolloff/infras/jwt"
	"rolloff/infras/otel/mocks"
	"rolloff/permissions"
	"rolloff/shared/constant"
	"rolloff/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	jwtGo "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	secret = "test-secret"
	apiKey = "internal-key"
)

func token(t *testing.T, role string, expiresIn time.Duration) string {
	t.Helper()

	now := time.Now()
	claims := jwt.Claims{
		UserID: "user-1",
		Email:  "staff@example.com",
		Role:   role,
		Type:   jwt.AccessToken,
		RegisteredClaims: jwtGo.RegisteredClaims{
			ExpiresAt: jwtGo.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwtGo.NewNumericDate(now),
		},
	}

	signed, err := jwtGo.NewWithClaims(jwtGo.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return "Bearer " + signed
}

func newRouter() http.Handler {
	cfg := &config.Config{}
	cfg.JWT.AccessSecret = secret
	cfg.App.APIKey = apiKey

	auth := middleware.NewAuthRoleMiddleware(jwt.New(cfg), mocks.NewOtel(), permissions.Get(), cfg)

	echoRole := func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value(constant.ContextKeyUserRole).(string)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(role))
	}

	router := chi.NewRouter()
	router.Route("/v1", func(group chi.Router) {
		group.Use(auth.APIKey, auth.Auth, auth.RBAC)
		group.Route("/reservations", func(reservations chi.Router) {
			reservations.Post("/quote", echoRole)
			reservations.Get("/", echoRole)
			reservations.Post("/{id}/charge", echoRole)
		})
	})

	return router
}

func TestAuthRole(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		header   func(t *testing.T) http.Header
		wantCode int
		wantRole string
	}{
		{
			name:     "public route as guest",
			method:   http.MethodPost,
			path:     "/v1/reservations/quote",
			header:   func(_ *testing.T) http.Header { return http.Header{} },
			wantCode: http.StatusOK,
		},
		{
			name:   "public route keeps staff identity",
			method: http.MethodPost,
			path:   "/v1/reservations/quote",
			header: func(t *testing.T) http.Header {
				return http.Header{constant.RequestHeaderAuthorization: {token(t, constant.RoleAdmin, time.Hour)}}
			},
			wantCode: http.StatusOK,
			wantRole: constant.RoleAdmin,
		},
		{
			name:   "public route ignores an expired token",
			method: http.MethodPost,
			path:   "/v1/reservations/quote",
			header: func(t *testing.T) http.Header {
				return http.Header{constant.RequestHeaderAuthorization: {token(t, constant.RoleAdmin, -time.Hour)}}
			},
			wantCode: http.StatusOK,
		},
		{
			name:     "protected route without token",
			method:   http.MethodGet,
			path:     "/v1/reservations",
			header:   func(_ *testing.T) http.Header { return http.Header{} },
			wantCode: http.StatusUnauthorized,
		},
		{
			name:   "protected route with expired token",
			method: http.MethodGet,
			path:   "/v1/reservations",
			header: func(t *testing.T) http.Header {
				return http.Header{constant.RequestHeaderAuthorization: {token(t, constant.RoleDispatcher, -time.Hour)}}
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:   "dispatcher lists reservations",
			method: http.MethodGet,
			path:   "/v1/reservations",
			header: func(t *testing.T) http.Header {
				return http.Header{constant.RequestHeaderAuthorization: {token(t, constant.RoleDispatcher, time.Hour)}}
			},
			wantCode: http.StatusOK,
			wantRole: constant.RoleDispatcher,
		},
		{
			name:   "dispatcher cannot charge",
			method: http.MethodPost,
			path:   "/v1/reservations/abc/charge",
			header: func(t *testing.T) http.Header {
				return http.Header{constant.RequestHeaderAuthorization: {token(t, constant.RoleDispatcher, time.Hour)}}
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:   "admin charges",
			method: http.MethodPost,
			path:   "/v1/reservations/abc/charge",
			header: func(t *testing.T) http.Header {
				return http.Header{constant.RequestHeaderAuthorization: {token(t, constant.RoleAdmin, time.Hour)}}
			},
			wantCode: http.StatusOK,
			wantRole: constant.RoleAdmin,
		},
		{
			name:     "internal api key",
			method:   http.MethodPost,
			path:     "/v1/reservations/abc/charge",
			header:   func(_ *testing.T) http.Header { return http.Header{constant.RequestHeaderAPIKey: {apiKey}} },
			wantCode: http.StatusOK,
			wantRole: constant.RoleSuperAdmin,
		},
		{
			name:     "wrong api key",
			method:   http.MethodPost,
			path:     "/v1/reservations/abc/charge",
			header:   func(_ *testing.T) http.Header { return http.Header{constant.RequestHeaderAPIKey: {"nope"}} },
			wantCode: http.StatusForbidden,
		},
	}

	router := newRouter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(tt.method, tt.path, nil)
			request.Header = tt.header(t)

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantCode, recorder.Code, recorder.Body.String())

			if tt.wantCode == http.StatusOK {
				assert.Equal(t, tt.wantRole, recorder.Body.String())
			}
		})
	}
}
