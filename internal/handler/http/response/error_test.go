package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/escopo/escopo-backend-go/internal/domain/auth"
	"github.com/escopo/escopo-backend-go/internal/domain/employee"
	"github.com/escopo/escopo-backend-go/internal/domain/payroll"
	"github.com/escopo/escopo-backend-go/internal/domain/user"
	"github.com/escopo/escopo-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", validator.ValidationErrors{{Field: "days", Message: "must be between 1 and 30"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"wrapped validation", fmt.Errorf("calc: %w", validator.ValidationErrors{{Field: "x", Message: "y"}}), http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"configuration", &payroll.ConfigurationError{Table: "INSS 2024", Reason: "no brackets"}, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"missing company", auth.ErrCompanyClaimMissing, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", user.ErrInsufficientPermissions, http.StatusForbidden, "FORBIDDEN"},
		{"employee", employee.ErrEmployeeNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"rubric", fmt.Errorf("%w: abc", payroll.ErrRubricNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"rubric code", payroll.ErrRubricCodeExists, http.StatusConflict, "CONFLICT"},
		{"payslip", payroll.ErrPayslipNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"tax year", fmt.Errorf("%w: 2019", payroll.ErrTaxYearNotSupported), http.StatusBadRequest, "BAD_REQUEST"},
		{"partner", payroll.ErrPartnerNotEntitled, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown", errors.New("connection refused"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tc.code, body.Error.Code)
		})
	}
}

func TestHandleError_ValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, validator.ValidationErrors{{Field: "entries[0].rubric_id", Message: "rubric is inactive"}})

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "rubric is inactive", body.Error.Details["entries[0].rubric_id"])
}

func TestHandleError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, errors.New("pq: password authentication failed"))
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestNewMeta(t *testing.T) {
	assert.Equal(t, &Meta{Page: 2, Limit: 20, TotalItems: 41, TotalPages: 3}, NewMeta(2, 20, 41))
	assert.Equal(t, 0, NewMeta(1, 20, 0).TotalPages)
}
