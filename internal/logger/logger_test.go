// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(false, &buf)
	l.Debug("hidden")
	l.Info("shown", zap.String("k", "v"))
	_ = l.Sync()

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "INFO")

	buf.Reset()
	l = NewLogger(true, &buf)
	l.Debug("visible")
	_ = l.Sync()
	assert.Contains(t, buf.String(), "DEBUG")
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := zap.NewExample()
	assert.Same(t, l, OrNop(l))
}
