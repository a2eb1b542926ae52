package dberr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errBoom = errors.New("boom")

func TestAbortClassification(t *testing.T) {
	err := Abort(errBoom)

	assert.True(t, IsAbort(err))
	assert.False(t, IsStorage(err))
	assert.ErrorIs(t, err, errBoom)
}

func TestStorageClassification(t *testing.T) {
	err := Storage(errBoom)

	assert.True(t, IsStorage(err))
	assert.False(t, IsAbort(err))
	assert.ErrorIs(t, err, errBoom)
}

func TestStorageNilIsNil(t *testing.T) {
	assert.Nil(t, Storage(nil))
}

func TestDecodeErrorWraps(t *testing.T) {
	err := Abort(&DecodeError{Key: "users/john", Reason: "bad prefix", Err: errBoom})

	assert.True(t, IsAbort(err))
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "users/john")
}

func TestInvariantViolationPanics(t *testing.T) {
	assert.Panics(t, func() {
		InvariantViolation("wrong transaction variant: %s", "embedded")
	})
}
