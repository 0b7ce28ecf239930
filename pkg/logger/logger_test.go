package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVsRedactsCredentials(t *testing.T) {
	out := sanitizeKVs([]interface{}{"user_id", "42", "access_token", "abc", "Email", "a@b.c", "dangling"})

	assert.Equal(t, []interface{}{"user_id", "42", "access_token", "[REDACTED]", "Email", "[REDACTED]", "dangling"}, out)
}

func TestNopLoggerDoesNotPanic(t *testing.T) {
	l := Nop().With("module", "test")
	assert.NotPanics(t, func() {
		l.Info("hello", "password", "hunter2")
		l.Sync()
	})
}
