package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abrezinsky/judgesched/internal/errors"
	"github.com/abrezinsky/judgesched/internal/handlers"
	"github.com/abrezinsky/judgesched/internal/repository"
	"github.com/abrezinsky/judgesched/internal/services"
)

func TestAPIError_Error(t *testing.T) {
	err := handlers.NewAPIError(http.StatusBadRequest, "BAD_REQUEST", "test message")

	if err.Error() != "test message" {
		t.Errorf("expected 'test message', got %q", err.Error())
	}
	if err.Code != "BAD_REQUEST" {
		t.Errorf("expected code 'BAD_REQUEST', got %q", err.Code)
	}
}

func TestBadRequest_AssignsValidationCode(t *testing.T) {
	if err := handlers.BadRequest("missing field"); err.Code != handlers.ErrCodeBadRequest {
		t.Errorf("expected BAD_REQUEST, got %q", err.Code)
	}
	if err := handlers.BadRequest("invalid slot"); err.Code != handlers.ErrCodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %q", err.Code)
	}
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		name           string
		err            *handlers.APIError
		expectedStatus int
	}{
		{"ErrBadRequest", handlers.ErrBadRequest, http.StatusBadRequest},
		{"ErrUnauthorized", handlers.ErrUnauthorized, http.StatusUnauthorized},
		{"ErrNotFound", handlers.ErrNotFound, http.StatusNotFound},
		{"ErrInternalServer", handlers.ErrInternalServer, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Status != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, tt.err.Status)
			}
		})
	}
}

func TestToAPIError_DirectTests(t *testing.T) {
	tests := []struct {
		name           string
		inputErr       error
		expectedStatus int
		expectedMsg    string
		expectedCode   string
	}{
		{
			name:           "NotFoundError",
			inputErr:       errors.NotFound("unit u1 not found"),
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "unit u1 not found",
			expectedCode:   "NOT_FOUND",
		},
		{
			name:           "ValidationError",
			inputErr:       errors.Validation("slot must not be negative"),
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "slot must not be negative",
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "InvalidInputError",
			inputErr:       &errors.Error{Kind: errors.ErrInvalidInput, Message: "invalid input"},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid input",
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "ConflictError",
			inputErr:       &errors.Error{Kind: errors.ErrConflict, Message: "entrant e1 already exists"},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "entrant e1 already exists",
			expectedCode:   "CONFLICT",
		},
		{
			name:           "InternalError_DefaultCase",
			inputErr:       &errors.Error{Kind: errors.ErrInternal, Message: "internal error"},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "Internal server error",
			expectedCode:   "INTERNAL_SERVER_ERROR",
		},
		{
			name:           "ServiceError",
			inputErr:       services.ErrSameUnit,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "cannot swap a unit with itself",
			expectedCode:   "BAD_REQUEST",
		},
		{
			name:           "InvalidTableError",
			inputErr:       &services.InvalidTableError{Table: "bad_table"},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid table name: bad_table",
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "RepositoryNotFound",
			inputErr:       fmt.Errorf("lookup: %w", repository.ErrNotFound),
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "Not found",
			expectedCode:   "NOT_FOUND",
		},
		{
			name:           "GenericError",
			inputErr:       fmt.Errorf("generic error"),
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "Internal server error",
			expectedCode:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := handlers.ToAPIError(tt.inputErr)

			if apiErr.Status != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, apiErr.Status)
			}
			if apiErr.Message != tt.expectedMsg {
				t.Errorf("expected message %q, got %q", tt.expectedMsg, apiErr.Message)
			}
			if apiErr.Code != tt.expectedCode {
				t.Errorf("expected code %q, got %q", tt.expectedCode, apiErr.Code)
			}
		})
	}
}

func TestDecodeJSON_EmptyBody(t *testing.T) {
	setup := newTestSetup(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/entrants", nil)
	req.AddCookie(setup.authCookie)
	rec := httptest.NewRecorder()
	setup.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty body, got %d", rec.Code)
	}
	if !strings.Contains(strings.ToLower(rec.Body.String()), "empty") {
		t.Errorf("expected error to mention 'empty', got %q", rec.Body.String())
	}
}

func TestDecodeJSON_InvalidJSON(t *testing.T) {
	setup := newTestSetup(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/judges", strings.NewReader("{invalid}"))
	req.AddCookie(setup.authCookie)
	rec := httptest.NewRecorder()
	setup.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid JSON, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "JSON") {
		t.Errorf("expected error to mention 'JSON', got %q", rec.Body.String())
	}
}

func TestToAPIError_RepositoryFailureIs500(t *testing.T) {
	setup := newTestSetup(t)
	setup.repo.DB().Close()

	rec := setup.do(t, http.MethodGet, "/api/admin/entrants", nil)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 for internal error, got %d", rec.Code)
	}
}

func TestRouter_Health(t *testing.T) {
	setup := newTestSetup(t)

	rec := httptest.NewRecorder()
	setup.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("unexpected health response: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_MetricsMounted(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("judgesched_up 1"))
	})
	h := handlers.New(nil, nil, nil, nil, nil, nil, metrics, handlers.NoopHTTPLogger{})

	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Body.String() != "judgesched_up 1" {
		t.Errorf("expected metrics body, got %q", rec.Body.String())
	}
}
