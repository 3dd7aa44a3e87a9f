package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldbooking/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query   string
		want    domain.PaginationParams
		wantErr bool
	}{
		{query: "", want: domain.PaginationParams{Page: 1, PageSize: 20}},
		{query: "page=3&page_size=5", want: domain.PaginationParams{Page: 3, PageSize: 5}},
		{query: "page=2&page_size=500", want: domain.PaginationParams{Page: 2, PageSize: 100}},
		{query: "page=0", wantErr: true},
		{query: "page_size=-1", wantErr: true},
		{query: "page=x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			got, err := ParsePagination(q)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	got, meta := Page(items, domain.PaginationParams{Page: 2, PageSize: 2})
	assert.Equal(t, []int{3, 4}, got)
	assert.Equal(t, PaginationMeta{Page: 2, PageSize: 2, Total: 5, TotalPages: 3}, meta)

	got, _ = Page(items, domain.PaginationParams{Page: 3, PageSize: 2})
	assert.Equal(t, []int{5}, got)

	got, meta = Page(items, domain.PaginationParams{Page: 9, PageSize: 2})
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, 5, meta.Total)
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		retryAfter bool
	}{
		{"validation", domain.NewValidationError("bad slot"), http.StatusBadRequest, ErrCodeBadRequest, false},
		{"conflict", fmt.Errorf("join slot: %w", domain.NewConflictError("taken")), http.StatusConflict, ErrCodeConflict, false},
		{"not found", domain.NewNotFoundError("missing"), http.StatusNotFound, ErrCodeNotFound, false},
		{"state", domain.NewStateError("finished"), http.StatusUnprocessableEntity, ErrCodeInvalidState, false},
		{"forbidden", domain.NewForbiddenError("not host"), http.StatusForbidden, ErrCodeForbidden, false},
		{"transient", domain.WrapTransient("db", errors.New("conn reset")), http.StatusServiceUnavailable, ErrCodeUnavailable, true},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternalError, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/events/e1/start", nil)
			WriteServiceError(rr, r, testLogger, tt.err)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.retryAfter, rr.Header().Get("Retry-After") != "")
			var envelope APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
			assert.Nil(t, envelope.Data)
			if tt.wantStatus >= http.StatusInternalServerError {
				assert.NotContains(t, envelope.Error.Message, "boom")
				assert.NotContains(t, envelope.Error.Message, "conn reset")
			}
		})
	}
}

type completeBody struct {
	AttendeeIDs []string `json:"attendee_ids"`
}

func (b completeBody) Validate() error {
	var p Problems
	if b.AttendeeIDs == nil {
		p.Add("attendee_ids is required")
	}
	return p.Err()
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"valid", `{"attendee_ids":["p1"]}`, ""},
		{"empty list", `{"attendee_ids":[]}`, ""},
		{"empty body", ``, "request body is required"},
		{"unknown field", `{"attendee_ids":[],"extra":1}`, `unknown field "extra"`},
		{"fails validation", `{}`, "attendee_ids is required"},
		{"malformed", `{`, "request body is not valid JSON"},
		{"wrong type", `{"attendee_ids":"p1"}`, "attendee_ids must be a []string"},
		{"trailing document", `{"attendee_ids":[]} {}`, "single JSON object"},
		{"too large", `{"attendee_ids":["` + strings.Repeat("x", maxBodyBytes) + `"]}`, "must not exceed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dest completeBody
			err := DecodeJSON(rr, r, &dest)
			if tt.wantMsg == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, domain.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestWriteJSONSuccess(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteJSONSuccess(rr, http.StatusCreated, map[string]int{"capacity": 14})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.JSONEq(t, `{"data":{"capacity":14},"error":null}`, rr.Body.String())
}
