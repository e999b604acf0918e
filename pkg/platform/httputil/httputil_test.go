package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "shelfcheck/pkg/errors"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]int{"count": 3})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"count":3}`, rec.Body.String())
}

func TestWriteError(t *testing.T) {
	t.Run("coded error includes description", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, pkgerrors.New(pkgerrors.CodeBadRequest, "batch too large"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var body map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "bad_request", body["error"])
		assert.Equal(t, "batch too large", body["error_description"])
	})

	t.Run("internal error hides description", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, fmt.Errorf("pgx: connection refused to 10.0.0.7"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var body map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "internal_error", body["error"])
		assert.NotContains(t, body, "error_description")
	})
}

func TestDecode(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("valid body decodes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
		got, err := Decode[payload](req)
		require.NoError(t, err)
		assert.Equal(t, "x", got.Name)
	})

	t.Run("unknown field rejected as bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nmae":"x"}`))
		_, err := Decode[payload](req)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeBadRequest, pkgerrors.CodeOf(err))
	})

	t.Run("malformed body rejected as bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
		_, err := Decode[payload](req)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeBadRequest, pkgerrors.CodeOf(err))
	})
}
