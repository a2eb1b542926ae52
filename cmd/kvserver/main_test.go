package main

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePositiveInt(t *testing.T) {
	n, err := parsePositiveInt("42")
	require.NoError(t, err)
	require.Equal(t, 42, n)

	_, err = parsePositiveInt("0")
	require.Error(t, err)

	_, err = parsePositiveInt("-3")
	require.Error(t, err)

	_, err = parsePositiveInt("abc")
	require.Error(t, err)
}

func TestSafeResourceNameRejectsMalformed(t *testing.T) {
	w := httptest.NewRecorder()
	_, ok := safeResourceName(w, "")
	require.False(t, ok)
	require.Equal(t, 400, w.Code)
}

func TestSafeResourceNameAcceptsWellFormed(t *testing.T) {
	w := httptest.NewRecorder()
	name, ok := safeResourceName(w, "users/john")
	require.True(t, ok)
	require.Equal(t, "users/john", name.String())
}
