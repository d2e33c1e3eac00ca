package routes

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"attendance/middleware"
	"attendance/services"
	"attendance/services/policy"
	"attendance/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code      int             `json:"code"`
	Mess      string          `json:"mess"`
	Data      json.RawMessage `json:"data"`
	ErrorCode string          `json:"errorCode"`
}

type api struct {
	t      *testing.T
	router *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	db := testutil.NewDB(t)

	policies := policy.NewStore(policy.StoreOptions{DB: db, Redis: rdb})
	deps := Dependencies{
		Auth:       services.NewAuthService(services.AuthServiceOptions{DB: db, Secret: "test-secret"}),
		Employers:  services.NewEmployerService(services.EmployerServiceOptions{DB: db, Policies: policies}),
		Employees:  services.NewEmployeeService(services.EmployeeServiceOptions{DB: db}),
		Attendance: services.NewAttendanceService(services.AttendanceServiceOptions{DB: db, Redis: rdb, Policies: policies}),
		Payroll:    services.NewPayrollService(services.PayrollServiceOptions{DB: db, Policies: policies}),
		Deductions: services.NewDeductionService(services.DeductionServiceOptions{DB: db}),
		Holidays:   services.NewHolidayService(services.HolidayServiceOptions{DB: db, Redis: rdb}),
		Policies:   policies,
	}

	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	SetupRoutes(router, deps)
	return &api{t: t, router: router}
}

func (a *api) do(method, path, token string, body interface{}) (int, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func (a *api) token(env envelope) string {
	a.t.Helper()
	var login struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(a.t, login.AccessToken)
	return login.AccessToken
}

func (a *api) registerEmployer(company, email string) string {
	a.t.Helper()
	status, env := a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"companyName": company,
		"email":       email,
		"password":    "secret123",
	})
	require.Equal(a.t, http.StatusCreated, status, env.Mess)
	return a.token(env)
}

func (a *api) addEmployee(employerToken, first, email string) string {
	a.t.Helper()
	status, env := a.do(http.MethodPost, "/api/v1/employees", employerToken, map[string]interface{}{
		"firstName":  first,
		"lastName":   "Okafor",
		"email":      email,
		"password":   "secret123",
		"department": "Engineering",
		"salary":     "5000",
	})
	require.Equal(a.t, http.StatusCreated, status, env.Mess)
	var e struct {
		ID string `json:"id"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &e))
	return e.ID
}

func (a *api) login(email string) string {
	a.t.Helper()
	status, env := a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": "secret123"})
	require.Equal(a.t, http.StatusOK, status, env.Mess)
	return a.token(env)
}

func TestPing(t *testing.T) {
	a := newAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestClockInFlow(t *testing.T) {
	a := newAPI(t)
	employerToken := a.registerEmployer("Acme", "owner@acme.test")
	a.addEmployee(employerToken, "Ada", "ada@acme.test")
	employeeToken := a.login("ada@acme.test")

	status, env := a.do(http.MethodPost, "/api/v1/attendance/clock-in", employeeToken, nil)
	require.Equal(t, http.StatusCreated, status, env.Mess)

	status, env = a.do(http.MethodPost, "/api/v1/attendance/clock-in", employeeToken, map[string]float64{})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "ALREADY_CLOCKED_IN", env.ErrorCode)

	status, _ = a.do(http.MethodGet, "/api/v1/attendance/today", employeeToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = a.do(http.MethodPost, "/api/v1/attendance/clock-out", employeeToken, nil)
	assert.Equal(t, http.StatusOK, status, env.Mess)

	status, _ = a.do(http.MethodGet, "/api/v1/attendance", employerToken, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = a.do(http.MethodGet, "/api/v1/attendance?status=late&q=ada", employerToken, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = a.do(http.MethodGet, "/api/v1/attendance?status=asleep", employerToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = a.do(http.MethodGet, "/api/v1/dashboard", employerToken, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestClockInRejectsBadCoordinates(t *testing.T) {
	a := newAPI(t)
	employerToken := a.registerEmployer("Acme", "owner@acme.test")
	a.addEmployee(employerToken, "Ada", "ada@acme.test")
	employeeToken := a.login("ada@acme.test")

	status, env := a.do(http.MethodPost, "/api/v1/attendance/clock-in", employeeToken, map[string]float64{"latitude": 91, "longitude": 3})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_COORDINATE", env.ErrorCode)
}

func TestAuthAndRoles(t *testing.T) {
	a := newAPI(t)
	employerToken := a.registerEmployer("Acme", "owner@acme.test")
	a.addEmployee(employerToken, "Ada", "ada@acme.test")
	employeeToken := a.login("ada@acme.test")

	status, _ := a.do(http.MethodGet, "/api/v1/employees", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env := a.do(http.MethodGet, "/api/v1/employees", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_TOKEN", env.ErrorCode)

	status, _ = a.do(http.MethodGet, "/api/v1/employees", employeeToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = a.do(http.MethodPost, "/api/v1/attendance/clock-in", employerToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "ada@acme.test", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestTenantIsolation(t *testing.T) {
	a := newAPI(t)
	acme := a.registerEmployer("Acme", "owner@acme.test")
	globex := a.registerEmployer("Globex", "owner@globex.test")
	adaID := a.addEmployee(acme, "Ada", "ada@acme.test")

	status, env := a.do(http.MethodGet, "/api/v1/employees/"+adaID, globex, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "TENANT_ISOLATION", env.ErrorCode)

	status, _ = a.do(http.MethodGet, "/api/v1/attendance/summary?startDate=2026-03-01&endDate=2026-03-07&employeeId="+adaID, globex, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = a.do(http.MethodGet, "/api/v1/employees/"+adaID, acme, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestValidationErrors(t *testing.T) {
	a := newAPI(t)
	employerToken := a.registerEmployer("Acme", "owner@acme.test")

	status, env := a.do(http.MethodGet, "/api/v1/attendance/summary?startDate=03/01/2026&endDate=2026-03-07", employerToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", env.ErrorCode)

	status, env = a.do(http.MethodGet, "/api/v1/payroll", employerToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", env.ErrorCode)

	status, env = a.do(http.MethodPost, "/api/v1/employees", employerToken, map[string]interface{}{
		"firstName": "Ada", "lastName": "Obi", "email": "ada@acme.test", "password": "secret123",
		"department": "Enginering", "salary": "5000",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_DEPARTMENT", env.ErrorCode)
	assert.Contains(t, env.Mess, "Engineering")

	status, _ = a.do(http.MethodGet, "/api/v1/employees/not-a-uuid", employerToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSettingsAndPayroll(t *testing.T) {
	a := newAPI(t)
	employerToken := a.registerEmployer("Acme", "owner@acme.test")
	a.addEmployee(employerToken, "Ada", "ada@acme.test")

	settings := map[string]interface{}{
		"resumptionTime":              "08:30:00",
		"closingTime":                 "17:00:00",
		"gracePeriodMinutes":          10,
		"latenessDeductionAmount":     "50",
		"absentDeductionAmount":       "100",
		"clockInRadiusMeters":         150,
		"requireLocationVerification": true,
		"qrCodeRefreshIntervalHours":  12,
	}
	status, env := a.do(http.MethodPut, "/api/v1/settings", employerToken, settings)
	require.Equal(t, http.StatusOK, status, env.Mess)

	settings["closingTime"] = "08:00:00"
	status, _ = a.do(http.MethodPut, "/api/v1/settings", employerToken, settings)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = a.do(http.MethodGet, "/api/v1/settings", employerToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), "08:30:00")

	status, env = a.do(http.MethodGet, "/api/v1/payroll?month=2026-02", employerToken, nil)
	require.Equal(t, http.StatusOK, status, env.Mess)
	var report struct {
		Lines  []map[string]interface{} `json:"lines"`
		Totals struct {
			Employees int    `json:"employees"`
			Salary    string `json:"salary"`
		} `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Len(t, report.Lines, 1)
	assert.Equal(t, 1, report.Totals.Employees)
	assert.Equal(t, "5000", report.Totals.Salary)

	status, env = a.do(http.MethodGet, "/api/v1/payroll?month=2026-02&q=nobody", employerToken, nil)
	require.Equal(t, http.StatusOK, status, env.Mess)
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Empty(t, report.Lines)
	assert.Equal(t, 0, report.Totals.Employees)

	status, env = a.do(http.MethodPost, "/api/v1/payroll/runs?month=2026-02", employerToken, nil)
	require.Equal(t, http.StatusOK, status, env.Mess)
	status, _ = a.do(http.MethodGet, "/api/v1/payroll/runs?month=2026-02", employerToken, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestHolidayAndQRCodeEndpoints(t *testing.T) {
	a := newAPI(t)
	employerToken := a.registerEmployer("Acme", "owner@acme.test")

	status, env := a.do(http.MethodPost, "/api/v1/holidays", employerToken, map[string]string{
		"name": "Workers Day", "fromDate": "2026-05-01", "toDate": "2026-05-01",
	})
	require.Equal(t, http.StatusCreated, status, env.Mess)
	var h struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &h))

	status, _ = a.do(http.MethodGet, "/api/v1/holidays?year=2026", employerToken, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = a.do(http.MethodDelete, "/api/v1/holidays/"+h.ID, employerToken, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, env = a.do(http.MethodGet, "/api/v1/qr-codes", employerToken, nil)
	require.Equal(t, http.StatusOK, status, env.Mess)
	assert.Contains(t, string(env.Data), "code")
	assert.NotContains(t, string(env.Data), "employeeId")

	adaID := a.addEmployee(employerToken, "Ada", "ada@acme.test")
	status, env = a.do(http.MethodGet, "/api/v1/qr-codes?employeeId="+adaID, employerToken, nil)
	require.Equal(t, http.StatusOK, status, env.Mess)
	assert.Contains(t, string(env.Data), adaID)

	status, _ = a.do(http.MethodGet, "/api/v1/qr-codes?employeeId=nope", employerToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
