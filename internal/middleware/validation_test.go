package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "hrpulse/internal/errors"
)

func newTestValidation(max int64) *ValidationMiddleware {
	return NewValidationMiddleware(discardLogger(), apierrors.NewErrorHandler(discardLogger(), false), max)
}

func TestLimitBody(t *testing.T) {
	m := newTestValidation(8)

	var readErr error
	handler := m.LimitBody(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("declared length over the limit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/workbooks", strings.NewReader("0123456789")))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Equal(t, apierrors.TypePayloadTooLarge, decodeProblem(t, rec.Body)["type"])
	})

	t.Run("streamed body capped", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/workbooks", strings.NewReader("0123456789"))
		req.ContentLength = -1
		handler.ServeHTTP(httptest.NewRecorder(), req)

		var maxErr *http.MaxBytesError
		require.ErrorAs(t, readErr, &maxErr)
		assert.Equal(t, int64(8), maxErr.Limit)
	})

	t.Run("small body passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/workbooks", strings.NewReader("abc")))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.NoError(t, readErr)
	})
}

func TestContentTypeValidator(t *testing.T) {
	handler := ContentTypeValidator(apierrors.NewErrorHandler(discardLogger(), false), "multipart/form-data")(http.HandlerFunc(okHandler))

	tests := []struct {
		name        string
		method      string
		contentType string
		want        int
	}{
		{"multipart accepted", http.MethodPost, "multipart/form-data; boundary=xyz", http.StatusOK},
		{"json rejected", http.MethodPost, "application/json", http.StatusUnsupportedMediaType},
		{"missing header", http.MethodPost, "", http.StatusBadRequest},
		{"get skipped", http.MethodGet, "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/workbooks", nil)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

type exportQuery struct {
	Filename string `query:"filename" validate:"omitempty,csvfilename"`
	Column   string `query:"column" validate:"required,notblank"`
	Limit    int    `query:"limit" validate:"gte=1,lte=1000"`
}

func TestValidateStruct(t *testing.T) {
	m := newTestValidation(0)

	assert.NoError(t, m.ValidateStruct(exportQuery{Filename: "gaps.csv", Column: "الجنس", Limit: 10}))
	assert.NoError(t, m.ValidateStruct(exportQuery{Column: "x", Limit: 1}))

	err := m.ValidateStruct(exportQuery{Filename: "../etc/passwd.csv", Column: "  ", Limit: 0})
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	details, ok := apiErr.Details.(apierrors.ValidationErrors)
	require.True(t, ok)
	fields := map[string]string{}
	for _, e := range details.Errors {
		fields[e.Field] = e.Message
	}
	assert.Equal(t, "filename must be a plain .csv file name", fields["filename"])
	assert.Equal(t, "column must not be blank", fields["column"])
	assert.Equal(t, "limit must be greater than or equal to 1", fields["limit"])
}

func TestQueryParamValidator(t *testing.T) {
	v := NewQueryParamValidator(discardLogger(), apierrors.NewErrorHandler(discardLogger(), false))

	rec := httptest.NewRecorder()
	got, ok := v.ValidateInt(rec, httptest.NewRequest(http.MethodGet, "/rows", nil), "limit", 1, 500, 100)
	assert.True(t, ok)
	assert.Equal(t, 100, got)

	got, ok = v.ValidateInt(rec, httptest.NewRequest(http.MethodGet, "/rows?limit=25", nil), "limit", 1, 500, 100)
	assert.True(t, ok)
	assert.Equal(t, 25, got)

	rec = httptest.NewRecorder()
	_, ok = v.ValidateInt(rec, httptest.NewRequest(http.MethodGet, "/rows?limit=abc", nil), "limit", 1, 500, 100)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	_, ok = v.ValidateInt(rec, httptest.NewRequest(http.MethodGet, "/rows?limit=501", nil), "limit", 1, 500, 100)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

}
