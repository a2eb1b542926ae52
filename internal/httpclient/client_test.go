package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPostJSONRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Value string }
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": req.Value})
	}))
	defer srv.Close()

	var out struct{ Echo string `json:"echo"` }
	err := PostJSON(context.Background(), srv.URL, struct{ Value string }{Value: "hi"}, &out)
	require.NoError(t, err)
	require.Equal(t, "hi", out.Echo)
}

func TestGetJSONReturnsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	var out struct{}
	err := GetJSON(context.Background(), srv.URL, &out)
	require.Error(t, err)
}

func TestDeleteJSONSucceeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, DeleteJSON(context.Background(), srv.URL))
}
