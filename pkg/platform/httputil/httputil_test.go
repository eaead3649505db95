package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "catalog/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		require.Equal(t, http.StatusInternalServerError, w.Code)
		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "internal_error", body["error"])
		_, ok := body["error_description"]
		assert.False(t, ok, "expected error_description to be omitted for internal errors")
	})

	t.Run("bad request includes description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid input"))

		require.Equal(t, http.StatusBadRequest, w.Code)
		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "bad_request", body["error"])
		assert.Equal(t, "invalid input", body["error_description"])
	})

	t.Run("uncoded error is internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, errors.New("raw"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("upstream codes map to bad gateway", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeBadUpstream, "remote sent cases=-1"))
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestWriteJSONWithETag(t *testing.T) {
	payload := map[string]int{"cases": 1}

	first := httptest.NewRecorder()
	WriteJSONWithETag(first, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, payload)
	require.Equal(t, http.StatusOK, first.Code)
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.Regexp(t, `^W/"[0-9a-f]+"$`, etag)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("If-None-Match", etag)
	second := httptest.NewRecorder()
	WriteJSONWithETag(second, req, http.StatusOK, payload)
	assert.Equal(t, http.StatusNotModified, second.Code)
	assert.Empty(t, second.Body.String())
}

func TestWriteJSONWithETagIfNoneMatchForms(t *testing.T) {
	payload := map[string]int{"cases": 9311}
	first := httptest.NewRecorder()
	WriteJSONWithETag(first, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, payload)
	etag := first.Header().Get("ETag")
	strong := strings.TrimPrefix(etag, "W/")

	tests := []struct {
		name   string
		header []string
		want   int
	}{
		{name: "tag in a list", header: []string{`"stale", ` + etag}, want: http.StatusNotModified},
		{name: "tag on a second header line", header: []string{`"stale"`, etag}, want: http.StatusNotModified},
		{name: "wildcard", header: []string{"*"}, want: http.StatusNotModified},
		{name: "strong form matches weakly", header: []string{strong}, want: http.StatusNotModified},
		{name: "only other tags", header: []string{`"stale", W/"older"`}, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for _, h := range tt.header {
				req.Header.Add("If-None-Match", h)
			}
			rec := httptest.NewRecorder()
			WriteJSONWithETag(rec, req, http.StatusOK, payload)
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, etag, rec.Header().Get("ETag"))
		})
	}
}

func TestETagStable(t *testing.T) {
	assert.Equal(t, ETag([]byte("a")), ETag([]byte("a")))
	assert.NotEqual(t, ETag([]byte("a")), ETag([]byte("b")))
}
