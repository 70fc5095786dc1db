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

	dErrors "chassisd/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid parameter", dErrors.New(dErrors.CodeInvalidParameter, "bad"), http.StatusBadRequest, "invalid_parameter"},
		{"invalid character", dErrors.New(dErrors.CodeInvalidCharacter, "bad"), http.StatusBadRequest, "invalid_character"},
		{"year out of range", dErrors.New(dErrors.CodeYearOutOfRange, "bad"), http.StatusBadRequest, "year_out_of_range"},
		{"ambiguous pattern", dErrors.New(dErrors.CodeAmbiguousPattern, "bad"), http.StatusBadRequest, "ambiguous_pattern"},
		{"unknown manufacturer", dErrors.New(dErrors.CodeUnknownManufacturer, "bad"), http.StatusNotFound, "unknown_manufacturer"},
		{"storage failure", dErrors.New(dErrors.CodeStorageFailure, "bad"), http.StatusServiceUnavailable, "storage_failure"},
		{"uncoded", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tc.err)

			assert.Equal(t, tc.status, w.Code)

			var body map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tc.code, body["error"])
		})
	}
}

func TestWriteError_ClientErrorsCarryADescription(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, dErrors.New(dErrors.CodeInvalidParameter, "quantity must be positive"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "quantity must be positive", body["error_description"])
}

func TestWriteError_ServerErrorsOmitTheDescription(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, dErrors.New(dErrors.CodeStorageFailure, "disk path /var/lib leaked"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	_, ok := body["error_description"]
	assert.False(t, ok, "infrastructure details must not reach callers")
}

func TestDecode(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("valid body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ok"}`))
		w := httptest.NewRecorder()

		v, ok := Decode[payload](w, r)
		require.True(t, ok)
		assert.Equal(t, "ok", v.Name)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ok","extra":1}`))
		w := httptest.NewRecorder()

		_, ok := Decode[payload](w, r)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
		w := httptest.NewRecorder()

		_, ok := Decode[payload](w, r)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
