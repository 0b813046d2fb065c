package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"innkeep/config"
	"innkeep/infras/jwt"
	"innkeep/infras/otel/mocks"
	"innkeep/permissions"
	"innkeep/shared/constant"
	"innkeep/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "innkeep-test"
	cfg.App.APIKey = "test-api-key"
	cfg.JWT.AccessSecret = "test-access-secret"
	cfg.JWT.RefreshSecret = "test-refresh-secret"
	cfg.JWT.AccessExpireMin = 15
	cfg.JWT.RefreshExpireMin = 60

	return cfg
}

// authRouter wires the middleware chain the way transport/http/router does,
// with a probe handler that echoes the authenticated user back.
func authRouter(mw middleware.AuthRole) chi.Router {
	router := chi.NewRouter()
	router.Use(mw.APIKey)
	router.Use(mw.Auth)
	router.Get("/ping", func(writer http.ResponseWriter, request *http.Request) {
		userID, _ := request.Context().Value(constant.ContextKeyUserID).(string)

		writer.WriteHeader(http.StatusOK)
		_, _ = writer.Write([]byte(userID))
	})

	return router
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	jwtService := jwt.New(cfg)
	mw := middleware.NewAuthRoleMiddleware(jwtService, mocks.NewOtel(), &permissions.PermissionData{}, cfg)
	router := authRouter(mw)

	pair, err := jwtService.GenerateTokenPair("user-42", "staff@example.com", "manager")
	assert.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing authorization header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			authHeader: "Token " + pair.AccessToken,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			authHeader: "Bearer not-a-jwt",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "refresh token rejected on access endpoints",
			authHeader: "Bearer " + pair.RefreshToken,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid access token reaches the handler",
			authHeader: "Bearer " + pair.AccessToken,
			wantStatus: http.StatusOK,
			wantBody:   "user-42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.authHeader != constant.Empty {
				request.Header.Set(constant.RequestHeaderAuthorization, tt.authHeader)
			}

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantBody != constant.Empty {
				assert.Equal(t, tt.wantBody, recorder.Body.String())
			}
		})
	}
}

func TestAuthMiddleware_APIKeyBypass(t *testing.T) {
	cfg := testConfig()
	mw := middleware.NewAuthRoleMiddleware(jwt.New(cfg), mocks.NewOtel(), &permissions.PermissionData{}, cfg)
	router := authRouter(mw)

	request := httptest.NewRequest(http.MethodGet, "/ping", nil)
	request.Header.Set(constant.RequestHeaderAPIKey, cfg.App.APIKey)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)

	request = httptest.NewRequest(http.MethodGet, "/ping", nil)
	request.Header.Set(constant.RequestHeaderAPIKey, "wrong-key")

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}
