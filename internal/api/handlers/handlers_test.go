package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/employee-records/internal/auth"
	"github.com/isdelr/employee-records/internal/common"
	"github.com/isdelr/employee-records/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStore = errors.New("store unavailable")

type stubRenderer struct {
	rendered []string
	err      error
}

func (s *stubRenderer) Render(w io.Writer, name string, data any) error {
	if s.err != nil {
		return s.err
	}
	s.rendered = append(s.rendered, name)
	_, err := fmt.Fprintf(w, "page:%s", name)
	return err
}

type failingEmployees struct{ err error }

func (f failingEmployees) GetAllEmployees(ctx context.Context) ([]models.Employee, error) {
	return nil, f.err
}

func (f failingEmployees) GetEmployeeByID(ctx context.Context, id string) (models.Employee, error) {
	return models.Employee{}, f.err
}

func (f failingEmployees) CreateEmployee(ctx context.Context, e models.Employee) (models.Employee, error) {
	return models.Employee{}, f.err
}

func (f failingEmployees) UpdateEmployee(ctx context.Context, id string, e models.Employee) (models.Employee, error) {
	return models.Employee{}, f.err
}

func (f failingEmployees) DeleteEmployee(ctx context.Context, id string) error {
	return f.err
}

type failingUsers struct{ err error }

func (f failingUsers) Register(ctx context.Context, username, email, password string) (models.User, error) {
	return models.User{}, f.err
}

func (f failingUsers) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	return models.User{}, f.err
}

func (f failingUsers) GetUserByID(ctx context.Context, id string) (models.User, error) {
	return models.User{}, f.err
}

// acceptingUsers authenticates any credentials as user.
type acceptingUsers struct{ user models.User }

func (a acceptingUsers) Register(ctx context.Context, username, email, password string) (models.User, error) {
	return a.user, nil
}

func (a acceptingUsers) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	return a.user, nil
}

func (a acceptingUsers) GetUserByID(ctx context.Context, id string) (models.User, error) {
	return a.user, nil
}

func employeeRouter(h *EmployeeHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.GetAll)
	r.Post("/create", h.Create)
	r.Get("/update/{id}", h.EditForm)
	r.Put("/update/{id}", h.Update)
	r.Delete("/delete/{id}", h.Delete)
	return r
}

func validForm() url.Values {
	return url.Values{
		"firstName":  {"Ada"},
		"lastName":   {"Lovelace"},
		"department": {"Engineering"},
		"startDate":  {"2024-03-01"},
		"jobTitle":   {"Engineer"},
		"salary":     {"1"},
	}
}

func TestEmployeeHandler_StoreFailures(t *testing.T) {
	h := NewEmployeeHandler(failingEmployees{err: errStore}, &stubRenderer{})
	router := employeeRouter(h)

	tests := []struct {
		name   string
		method string
		target string
		form   url.Values
		want   string
	}{
		{"list", http.MethodGet, "/", nil, "Error retrieving employees."},
		{"create", http.MethodPost, "/create", validForm(), "Error creating new employee."},
		{"edit form", http.MethodGet, "/update/1", nil, "Error fetching employee for update"},
		{"update", http.MethodPut, "/update/1", validForm(), "Error updating employee."},
		{"delete", http.MethodDelete, "/delete/1", nil, "Error deleting employee."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.form != nil {
				body = strings.NewReader(tt.form.Encode())
			}
			req := httptest.NewRequest(tt.method, tt.target, body)
			if tt.form != nil {
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, tt.want, strings.TrimSpace(rec.Body.String()))
		})
	}
}

func TestEmployeeHandler_NotFound(t *testing.T) {
	h := NewEmployeeHandler(failingEmployees{err: fmt.Errorf("lookup: %w", common.ErrNotFound)}, &stubRenderer{})
	router := employeeRouter(h)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/update/missing", nil),
		httptest.NewRequest(http.MethodDelete, "/delete/missing", nil),
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code, req.URL.Path)
	}
}

func TestEmployeeHandler_RenderFailure(t *testing.T) {
	h := NewEmployeeHandler(failingEmployees{}, &stubRenderer{err: errors.New("broken template")})
	rec := httptest.NewRecorder()
	employeeRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestParseEmployee_JSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/create", strings.NewReader(
		`{"firstName":"Ada","lastName":"Lovelace","department":"Marketing","startDate":"2023-12-31","jobTitle":"Lead","salary":5000.25}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	e, err := parseEmployee(httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.Equal(t, "Marketing", e.Department)
	assert.Equal(t, 5000.25, e.Salary)
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), e.StartDate)
}

func TestAuthHandler_StoreFailures(t *testing.T) {
	codec := auth.NewCodec([]byte("secret"), time.Hour)
	guard := auth.NewGuard(auth.CookieExtractor(auth.SessionCookieName), codec)
	h := NewAuthHandler(failingUsers{err: errStore}, codec, guard, &stubRenderer{}, true)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice","password":"pw"}`))
	req.Header.Set("Content-Type", "application/json")
	h.Login(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Result().Cookies())

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"username":"alice","email":"a@x.com","password":"pw"}`))
	req.Header.Set("Content-Type", "application/json")
	h.Register(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAuthHandler_RegisterValidationMessage(t *testing.T) {
	codec := auth.NewCodec([]byte("secret"), time.Hour)
	guard := auth.NewGuard(auth.CookieExtractor(auth.SessionCookieName), codec)
	err := fmt.Errorf("%w: password must be at most 72 bytes", common.ErrValidation)
	h := NewAuthHandler(failingUsers{err: err}, codec, guard, &stubRenderer{}, false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"username":"alice","email":"a@x.com","password":"pw"}`))
	req.Header.Set("Content-Type", "application/json")
	h.Register(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Password must be at most 72 bytes", body["msg"])
}

func TestAuthHandler_SecureCookie(t *testing.T) {
	codec := auth.NewCodec([]byte("secret"), time.Hour)
	guard := auth.NewGuard(auth.CookieExtractor(auth.SessionCookieName), codec)
	h := NewAuthHandler(failingUsers{}, codec, guard, &stubRenderer{}, true)

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodGet, "/logout", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
	assert.True(t, cookies[0].HttpOnly)
}

func TestAuthHandler_LoginSetsSecureCookie(t *testing.T) {
	issuedAt := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)
	codec := auth.NewCodec([]byte("secret"), auth.DefaultTokenTTL, auth.WithClock(func() time.Time { return issuedAt }))
	guard := auth.NewGuard(auth.CookieExtractor(auth.SessionCookieName), codec)
	h := NewAuthHandler(acceptingUsers{user: models.User{ID: "u1", Username: "alice"}}, codec, guard, &stubRenderer{}, true)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(url.Values{"username": {"alice"}, "password": {"pw1"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, auth.SessionCookieName, cookie.Name)
	assert.True(t, cookie.Secure)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 3600, cookie.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.True(t, cookie.Expires.Equal(issuedAt.Add(auth.DefaultTokenTTL)), cookie.Expires)

	claims, err := codec.Verify(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.True(t, claims.ExpiresAt.Time.Equal(cookie.Expires))
}
