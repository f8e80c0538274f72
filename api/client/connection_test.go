package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/brimdata/pqjson/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertRequest(t *testing.T) {
	var query, contentType, body string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		contentType = r.Header.Get("Content-Type")
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		body = string(b)
		w.Header().Set("Content-Type", api.MediaTypeJSON)
		io.WriteString(w, "[]")
	}))
	defer ts.Close()
	conn := NewConnectionTo(ts.URL)
	res, err := conn.Convert(context.Background(), strings.NewReader("PAR1"), api.ConvertOpts{Decoder: "arrow", NDJSON: true})
	require.NoError(t, err)
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
	assert.Equal(t, "decoder=arrow&ndjson=true", query)
	assert.Equal(t, api.MediaTypeParquet, contentType)
	assert.Equal(t, "PAR1", body)
}

func TestErrorResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", api.MediaTypeJSON)
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(api.Error{Type: "Error", Kind: "decode", Message: "parquet read failed: bad footer"})
	}))
	defer ts.Close()
	_, err := NewConnectionTo(ts.URL).Convert(context.Background(), strings.NewReader("x"), api.ConvertOpts{})
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnprocessableEntity))
	var apierr *api.Error
	require.ErrorAs(t, err, &apierr)
	assert.Equal(t, "decode", apierr.Kind)
	assert.Equal(t, "parquet read failed: bad footer", apierr.Message)
}
