package errors

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestAPIError(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_REQUEST", "bad input")
	assert.Equal(t, "bad input", err.Error())
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)

	withDetails := NewWithDetails(http.StatusNotFound, "NOT_FOUND", "gone", "thing")
	assert.Equal(t, "thing", withDetails.Details)
}

func TestFileError(t *testing.T) {
	err := FileError("holdings.xlsx", ErrHeaderNotFound)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "INVALID_FILE", err.ErrorCode)
	assert.Contains(t, err.Message, "holdings.xlsx")
	assert.Contains(t, err.Message, "header row")
}

func TestProblemDetailsMarshalJSON(t *testing.T) {
	pd := NewProblemDetails(400, TypeValidation, "Validation Failed", "bad field", "/api/x").
		WithExtension("trace_id", "t-1")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, TypeValidation, m["type"])
	assert.Equal(t, "Validation Failed", m["title"])
	assert.Equal(t, float64(400), m["status"])
	assert.Equal(t, "t-1", m["trace_id"])
}

func TestErrorToProblem(t *testing.T) {
	h := NewErrorHandler(discardLogger(), false)
	req := httptest.NewRequest(http.MethodPost, "/api/portfolio/beta", nil)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"header not found", ErrHeaderNotFound, http.StatusBadRequest, TypeHeaderNotFound},
		{"isin column missing", ErrISINColumnMissing, http.StatusBadRequest, TypeISINColumnMissing},
		{"deadline exceeded", context.DeadlineExceeded, http.StatusGatewayTimeout, TypeTimeout},
		{"api error passthrough", ErrNoValidSecurities, http.StatusUnprocessableEntity, TypeNoValidSecurities},
		{"file error", FileError("x.csv", ErrISINColumnMissing), http.StatusBadRequest, TypeInvalidUpload},
		{"unknown error", assert.AnError, http.StatusInternalServerError, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pd := h.ErrorToProblem(tt.err, req)
			assert.Equal(t, tt.wantStatus, pd.Status)
			assert.Equal(t, tt.wantType, pd.Type)
		})
	}
}

func TestHandleErrorWritesProblemJSON(t *testing.T) {
	h := NewErrorHandler(discardLogger(), false)
	req := httptest.NewRequest(http.MethodPost, "/api/portfolio/beta", nil)
	rec := httptest.NewRecorder()

	h.HandleError(rec, req, ErrHeaderNotFound)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, TypeHeaderNotFound, m["type"])
}
