package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrappedErrorsMatchSentinels(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		msg    string
	}{
		{"not found", NotFoundError("submission"), ErrNotFound, "submission not found"},
		{"invalid input", InvalidInputError("field", "unknown field"), ErrInvalidInput, "field: unknown field: invalid input"},
		{"internal", InternalError("boom"), ErrInternal, "boom: internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, Is(tt.err, tt.target))
			assert.Equal(t, tt.msg, tt.err.Error())
		})
	}
}

func TestStorageError_KeepsCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := StorageError("kv.set", cause)

	assert.True(t, Is(err, ErrStorage))
	assert.True(t, Is(err, cause))
	assert.Equal(t, "kv.set: storage error: connection refused", err.Error())
}
