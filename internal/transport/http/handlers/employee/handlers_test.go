package employeehandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/attendance"
	"ems/internal/domain/auth"
	"ems/internal/domain/core"
	"ems/internal/transport/http/middleware"
)

const testSecret = "handler-test-secret"

type fakeCoreStore struct {
	employees map[string]core.Employee
}

func (f *fakeCoreStore) CreateAdmin(ctx context.Context, email, hash string) (core.Admin, error) {
	return core.Admin{}, core.ErrNotFound
}

func (f *fakeCoreStore) FindAdminByEmail(ctx context.Context, email string) (core.Admin, error) {
	return core.Admin{}, core.ErrNotFound
}

func (f *fakeCoreStore) ListAdmins(ctx context.Context) ([]core.Admin, error) { return nil, nil }

func (f *fakeCoreStore) UpdateAdminEmail(ctx context.Context, adminID, email string) error {
	return core.ErrNotFound
}

func (f *fakeCoreStore) AdminCount(ctx context.Context) (int, error) { return 0, nil }

func (f *fakeCoreStore) CreateEmployee(ctx context.Context, payload core.NewEmployee, hash string) (core.Employee, error) {
	emp := core.Employee{ID: "emp-" + payload.Email, Name: payload.Name, Email: payload.Email, PasswordHash: hash}
	f.employees[emp.ID] = emp
	return emp, nil
}

func (f *fakeCoreStore) FindEmployeeByEmail(ctx context.Context, email string) (core.Employee, error) {
	for _, emp := range f.employees {
		if emp.Email == email {
			return emp, nil
		}
	}
	return core.Employee{}, core.ErrNotFound
}

func (f *fakeCoreStore) GetEmployee(ctx context.Context, employeeID string) (core.Employee, error) {
	emp, ok := f.employees[employeeID]
	if !ok {
		return core.Employee{}, core.ErrNotFound
	}
	return emp, nil
}

func (f *fakeCoreStore) ListEmployees(ctx context.Context, limit, offset int) ([]core.Employee, error) {
	return nil, nil
}

func (f *fakeCoreStore) UpdateEmployee(ctx context.Context, employeeID string, payload core.EmployeeUpdate) error {
	return core.ErrNotFound
}

func (f *fakeCoreStore) DeleteEmployee(ctx context.Context, employeeID string) (core.Employee, error) {
	return core.Employee{}, core.ErrNotFound
}

func (f *fakeCoreStore) EmployeeCount(ctx context.Context) (int, error) { return len(f.employees), nil }

func (f *fakeCoreStore) SalaryTotal(ctx context.Context) (float64, error) { return 0, nil }

func (f *fakeCoreStore) CreateCategory(ctx context.Context, name string) (core.Category, error) {
	return core.Category{ID: "cat-1", Name: name}, nil
}

func (f *fakeCoreStore) ListCategories(ctx context.Context) ([]core.Category, error) {
	return nil, nil
}

type fakeLedgerStore struct {
	records []attendance.ClockRecord
	nextID  int
}

func (f *fakeLedgerStore) Insert(ctx context.Context, employeeID string, clockIn time.Time, location string, mode attendance.WorkMode) (attendance.ClockRecord, error) {
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID && rec.Open() {
			return attendance.ClockRecord{}, attendance.ErrAlreadyClockedIn
		}
	}
	f.nextID++
	rec := attendance.ClockRecord{
		ID:         "rec-" + string(rune('a'+f.nextID)),
		EmployeeID: employeeID,
		ClockIn:    clockIn,
		Location:   location,
		WorkMode:   mode,
	}
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeLedgerStore) CloseOpen(ctx context.Context, employeeID string, at time.Time) (attendance.ClockRecord, error) {
	oldest := -1
	for i, rec := range f.records {
		if rec.EmployeeID != employeeID || !rec.Open() {
			continue
		}
		if oldest == -1 || rec.ClockIn.Before(f.records[oldest].ClockIn) {
			oldest = i
		}
	}
	if oldest == -1 {
		return attendance.ClockRecord{}, attendance.ErrNoOpenSession
	}
	out := at
	f.records[oldest].ClockOut = &out
	return f.records[oldest], nil
}

func (f *fakeLedgerStore) HasOpen(ctx context.Context, employeeID string) (bool, error) {
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID && rec.Open() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLedgerStore) ListByEmployee(ctx context.Context, employeeID string) ([]attendance.ClockRecord, error) {
	var out []attendance.ClockRecord
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeLedgerStore) CloseOlderThan(ctx context.Context, cutoff, at time.Time) (int, error) {
	return 0, nil
}

func newTestRouter(t *testing.T) (chi.Router, *fakeCoreStore) {
	t.Helper()

	coreStore := &fakeCoreStore{employees: map[string]core.Employee{}}
	coreSvc := core.NewService(coreStore)
	ledger := attendance.NewService(&fakeLedgerStore{}, time.UTC)

	handler := NewHandler(coreSvc, ledger, testSecret, 24*time.Hour, false)

	r := chi.NewRouter()
	r.Use(middleware.Auth(testSecret))
	r.Route("/employee", handler.RegisterRoutes)
	return r, coreStore
}

func seedEmployee(t *testing.T, store *fakeCoreStore, email, password string) core.Employee {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	emp := core.Employee{ID: "emp-1", Name: "Alice", Email: email, PasswordHash: hash}
	store.employees[emp.ID] = emp
	return emp
}

func doJSON(t *testing.T, router chi.Router, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestLoginSetsSessionCookie(t *testing.T) {
	router, store := newTestRouter(t)
	seedEmployee(t, store, "alice@example.com", "s3cret")

	rr := doJSON(t, router, http.MethodPost, "/employee/employeelogin", map[string]string{
		"email":    "Alice@Example.com",
		"password": "s3cret",
	}, nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("login status = %d, want 200; body %s", rr.Code, rr.Body)
	}

	cookie := sessionCookie(t, rr)
	if !cookie.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}
	if cookie.MaxAge != int((24 * time.Hour).Seconds()) {
		t.Errorf("cookie MaxAge = %d, want %d", cookie.MaxAge, int((24 * time.Hour).Seconds()))
	}

	claims, err := auth.ParseToken(testSecret, cookie.Value)
	if err != nil {
		t.Fatalf("cookie token invalid: %v", err)
	}
	if claims.Role != auth.RoleEmployee {
		t.Errorf("token role = %q, want %q", claims.Role, auth.RoleEmployee)
	}
	if claims.UserID != "emp-1" {
		t.Errorf("token user id = %q, want emp-1", claims.UserID)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	router, store := newTestRouter(t)
	seedEmployee(t, store, "alice@example.com", "s3cret")

	rr := doJSON(t, router, http.MethodPost, "/employee/employeelogin", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	}, nil)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/employee/employeelogin", map[string]string{
		"email":    "ghost@example.com",
		"password": "whatever",
	}, nil)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/employee/employee_clockin/emp-1", map[string]string{
		"location": "HQ",
	}, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("no-cookie status = %d, want 401", rr.Code)
	}

	bad := &http.Cookie{Name: middleware.SessionCookieName, Value: "not-a-token"}
	rr = doJSON(t, router, http.MethodPost, "/employee/employee_clockin/emp-1", map[string]string{
		"location": "HQ",
	}, bad)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("bad-cookie status = %d, want 403", rr.Code)
	}
}

func TestClockInLifecycle(t *testing.T) {
	router, store := newTestRouter(t)
	seedEmployee(t, store, "alice@example.com", "s3cret")

	login := doJSON(t, router, http.MethodPost, "/employee/employeelogin", map[string]string{
		"email":    "alice@example.com",
		"password": "s3cret",
	}, nil)
	cookie := sessionCookie(t, login)

	status := doJSON(t, router, http.MethodGet, "/employee/employee_is_clocked_in/emp-1", nil, cookie)
	if got := status.Body.String(); !bytes.Contains([]byte(got), []byte(`"clockedIn":false`)) {
		t.Fatalf("expected clockedIn false before first clock-in, got %s", got)
	}

	rr := doJSON(t, router, http.MethodPost, "/employee/employee_clockin/emp-1", map[string]string{
		"location":     "HQ",
		"workFromType": "office",
	}, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("clock-in status = %d, want 200; body %s", rr.Code, rr.Body)
	}

	rr = doJSON(t, router, http.MethodPost, "/employee/employee_clockin/emp-1", map[string]string{
		"location":     "HQ",
		"workFromType": "office",
	}, cookie)
	if rr.Code != http.StatusConflict {
		t.Fatalf("duplicate clock-in status = %d, want 409; body %s", rr.Code, rr.Body)
	}
	if !bytes.Contains(rr.Body.Bytes(), []byte("already_clocked_in")) {
		t.Fatalf("expected already_clocked_in code, got %s", rr.Body)
	}

	status = doJSON(t, router, http.MethodGet, "/employee/employee_is_clocked_in/emp-1", nil, cookie)
	if got := status.Body.String(); !bytes.Contains([]byte(got), []byte(`"clockedIn":true`)) {
		t.Fatalf("expected clockedIn true while open, got %s", got)
	}

	rr = doJSON(t, router, http.MethodPost, "/employee/employee_clockout/emp-1", nil, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("clock-out status = %d, want 200; body %s", rr.Code, rr.Body)
	}

	rr = doJSON(t, router, http.MethodPost, "/employee/employee_clockout/emp-1", nil, cookie)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("second clock-out status = %d, want 404; body %s", rr.Code, rr.Body)
	}
	if !bytes.Contains(rr.Body.Bytes(), []byte("no_open_session")) {
		t.Fatalf("expected no_open_session code, got %s", rr.Body)
	}
}

func TestClockInRejectsUnknownWorkMode(t *testing.T) {
	router, store := newTestRouter(t)
	seedEmployee(t, store, "alice@example.com", "s3cret")

	login := doJSON(t, router, http.MethodPost, "/employee/employeelogin", map[string]string{
		"email":    "alice@example.com",
		"password": "s3cret",
	}, nil)
	cookie := sessionCookie(t, login)

	rr := doJSON(t, router, http.MethodPost, "/employee/employee_clockin/emp-1", map[string]string{
		"location":     "HQ",
		"workFromType": "moon",
	}, cookie)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", rr.Code, rr.Body)
	}
}

func TestCalendarReturnsEntries(t *testing.T) {
	router, store := newTestRouter(t)
	seedEmployee(t, store, "alice@example.com", "s3cret")

	login := doJSON(t, router, http.MethodPost, "/employee/employeelogin", map[string]string{
		"email":    "alice@example.com",
		"password": "s3cret",
	}, nil)
	cookie := sessionCookie(t, login)

	doJSON(t, router, http.MethodPost, "/employee/employee_clockin/emp-1", map[string]string{
		"location": "HQ",
	}, cookie)
	doJSON(t, router, http.MethodPost, "/employee/employee_clockout/emp-1", nil, cookie)

	rr := doJSON(t, router, http.MethodGet, "/employee/calendar/emp-1", nil, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("calendar status = %d, want 200; body %s", rr.Code, rr.Body)
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			CalendarData []attendance.CalendarEntry `json:"calendarData"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode calendar response: %v", err)
	}
	if len(envelope.Data.CalendarData) != 1 {
		t.Fatalf("calendar entries = %d, want 1", len(envelope.Data.CalendarData))
	}
	entry := envelope.Data.CalendarData[0]
	if entry.Location != "HQ" {
		t.Errorf("entry location = %q, want HQ", entry.Location)
	}
	if entry.WorkMode != attendance.WorkModeOffice {
		t.Errorf("entry work mode = %q, want office", entry.WorkMode)
	}
	if entry.ClockOut == nil {
		t.Error("entry clock-out should be set after clocking out")
	}
}

func TestCalendarExportProducesPDF(t *testing.T) {
	router, store := newTestRouter(t)
	seedEmployee(t, store, "alice@example.com", "s3cret")

	login := doJSON(t, router, http.MethodPost, "/employee/employeelogin", map[string]string{
		"email":    "alice@example.com",
		"password": "s3cret",
	}, nil)
	cookie := sessionCookie(t, login)

	doJSON(t, router, http.MethodPost, "/employee/employee_clockin/emp-1", map[string]string{
		"location": "HQ",
	}, cookie)

	rr := doJSON(t, router, http.MethodGet, "/employee/calendar/emp-1/export", nil, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("export status = %d, want 200; body %s", rr.Code, rr.Body)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q, want application/pdf", ct)
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF")) {
		t.Error("export body is not a PDF document")
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/employee/logout", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("logout status = %d, want 200", rr.Code)
	}
	cookie := sessionCookie(t, rr)
	if cookie.MaxAge >= 0 {
		t.Errorf("cleared cookie MaxAge = %d, want negative", cookie.MaxAge)
	}
}
