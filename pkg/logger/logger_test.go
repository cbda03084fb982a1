package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLoggerFallsBackToGlobal(t *testing.T) {
	ctx := context.Background()
	entry := GetLogger(ctx)
	require.NotNil(t, entry)
	assert.Equal(t, L.Logger, entry.Logger)
}

func TestWithLoggerRoundTrip(t *testing.T) {
	base := logrus.New()
	entry := logrus.NewEntry(base).WithField("component", "registry")

	ctx := WithLogger(context.Background(), entry)
	got := GetLogger(ctx)

	assert.Equal(t, base, got.Logger)
	assert.Equal(t, "registry", got.Data["component"])
}

func TestSetLogLevel(t *testing.T) {
	t.Cleanup(func() { require.NoError(t, SetLogLevel("warn")) })

	require.NoError(t, SetLogLevel("debug"))
	assert.Equal(t, logrus.DebugLevel, L.Logger.GetLevel())

	assert.Error(t, SetLogLevel("not-a-level"))
}

func TestSetLogFormat(t *testing.T) {
	t.Cleanup(func() { SetLogFormat("fmt") })

	var buf bytes.Buffer
	SetLogOutput(&buf)
	t.Cleanup(func() { SetLogOutput(logrus.New().Out) })

	SetLogFormat("json")
	L.Warn("structured")
	assert.Contains(t, buf.String(), `"msg":"structured"`)
}
