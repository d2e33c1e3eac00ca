package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"attendance/constants"
	"attendance/errors"
	"attendance/services"
	"attendance/services/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubAuth map[string]services.UserInfo

func (s stubAuth) Authenticate(token string) (services.UserInfo, error) {
	info, ok := s[token]
	if !ok {
		return services.UserInfo{}, errors.NewAppError(errors.ErrCodeInvalidToken, "invalid token", nil)
	}
	return info, nil
}

func newRouter(auth Authenticator, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware(), LoggerMiddleware(logger.NewNop()), MetricsMiddleware())
	r.GET("/secure", AuthMiddleware(auth, roles...), func(c *gin.Context) {
		info, _ := CurrentUser(c)
		c.String(http.StatusOK, info.Role)
	})
	return r
}

func get(r *gin.Engine, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	auth := stubAuth{
		"Bearer boss": {AccountID: uuid.New(), Role: constants.RoleEmployer, EmployerID: uuid.New()},
		"Bearer ada":  {AccountID: uuid.New(), Role: constants.RoleEmployee, EmployerID: uuid.New()},
	}
	r := newRouter(auth, constants.RoleEmployer)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"wrong role", "Bearer ada", http.StatusForbidden},
		{"employer", "Bearer boss", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := map[string]string{}
			if tt.header != "" {
				h["Authorization"] = tt.header
			}
			w := get(r, h)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestAuthMiddlewareWithoutRoles(t *testing.T) {
	auth := stubAuth{"Bearer ada": {Role: constants.RoleEmployee, EmployerID: uuid.New()}}
	w := get(newRouter(auth), map[string]string{"Authorization": "Bearer ada"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, constants.RoleEmployee, w.Body.String())
}

func TestRequestID(t *testing.T) {
	auth := stubAuth{"Bearer boss": {Role: constants.RoleEmployer, EmployerID: uuid.New()}}
	r := newRouter(auth)

	w := get(r, map[string]string{"Authorization": "Bearer boss", RequestIDHeader: "req-42"})
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))

	w = get(r, map[string]string{"Authorization": "Bearer boss"})
	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
}
