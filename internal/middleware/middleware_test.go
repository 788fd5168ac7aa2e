package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"studentwallet/internal/config"
	apperrors "studentwallet/internal/errors"
	"studentwallet/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doRequest(r *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/test", http.NoBody)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseBody(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatal("expected error object in response")
	}
	code, _ := errObj["code"].(string)
	return code
}

func TestAPIKeyMiddleware(t *testing.T) {
	tests := []struct {
		name          string
		configuredKey string
		requestKey    string
		wantStatus    int
	}{
		{"valid_api_key", "webhook-secret", "webhook-secret", http.StatusOK},
		{"invalid_api_key", "webhook-secret", "wrong-key", http.StatusUnauthorized},
		{"missing_api_key", "webhook-secret", "", http.StatusUnauthorized},
		{"partial_match_rejected", "webhook-secret", "webhook", http.StatusUnauthorized},
		{"open_when_unconfigured", "", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(APIKeyMiddleware(tt.configuredKey))
			r.POST("/test", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"status": "ok"})
			})

			headers := map[string]string{}
			if tt.requestKey != "" {
				headers["X-API-Key"] = tt.requestKey
			}
			rec := doRequest(r, headers)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusUnauthorized {
				if code := errorCode(t, rec); code != "INVALID_API_KEY" {
					t.Errorf("error code = %q, want INVALID_API_KEY", code)
				}
			}
		})
	}
}

func setupAuthRouter() *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware())
	r.POST("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("userID")})
	})
	return r
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token, expiresAt, err := GenerateAccessToken(&models.User{ID: "zalo-42", Name: "Lan"})
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Errorf("expected expiry in the future, got %v", expiresAt)
	}

	rec := doRequest(setupAuthRouter(), map[string]string{"Authorization": "Bearer " + token})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if got := parseBody(t, rec)["user_id"]; got != "zalo-42" {
		t.Errorf("user_id = %v, want zalo-42", got)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "zalo-42",
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	expiredToken, _ := expired.SignedString([]byte(config.Get().JWTSecret))

	otherKey := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "zalo-42", Issuer: tokenIssuer},
	})
	forgedToken, _ := otherKey.SignedString([]byte("not-the-secret"))

	tests := []struct {
		name   string
		header string
	}{
		{"missing_header", ""},
		{"wrong_scheme", "Basic abc"},
		{"garbage_token", "Bearer not-a-jwt"},
		{"expired_token", "Bearer " + expiredToken},
		{"wrong_key", "Bearer " + forgedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			rec := doRequest(setupAuthRouter(), headers)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			if code := errorCode(t, rec); code != "UNAUTHORIZED" {
				t.Errorf("error code = %q, want UNAUTHORIZED", code)
			}
		})
	}
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"app_error", apperrors.ErrBudgetNotFound, http.StatusNotFound, "BUDGET_NOT_FOUND"},
		{"wrapped_app_error", apperrors.Wrap(apperrors.ErrInternalServer, errors.New("db down")), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"plain_error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler())
			r.POST("/test", func(c *gin.Context) {
				_ = c.Error(tt.err)
			})

			rec := doRequest(r, nil)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if code := errorCode(t, rec); code != tt.wantCode {
				t.Errorf("error code = %q, want %q", code, tt.wantCode)
			}
		})
	}
}

func TestRequestLogging_SetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogging())
	r.POST("/test", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	rec := doRequest(r, nil)
	id := rec.Header().Get("X-Request-ID")
	if id == "" {
		t.Fatal("expected X-Request-ID header")
	}
	if rec.Body.String() != id {
		t.Errorf("context request id %q does not match header %q", rec.Body.String(), id)
	}

	incoming := "0190a8a4-5b8e-7c3d-9f10-2b3c4d5e6f70"
	rec = doRequest(r, map[string]string{"X-Request-ID": incoming})
	if got := rec.Header().Get("X-Request-ID"); got != incoming {
		t.Errorf("expected incoming request id to be reused, got %q", got)
	}
}
