// internal/pkg/logger/logger_test.go
package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmods/storefront-be/internal/pkg/logger"
)

func TestWithLogger_RoundTrip(t *testing.T) {
	l := logger.NewLogger(nil)

	ctx := logger.WithLogger(context.Background(), l)
	got := logger.FromContext(ctx)

	assert.Same(t, l.Logger, got)
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	got := logger.FromContext(context.Background())

	assert.NotNil(t, got)
}

func TestFromContext_IgnoresForeignKeys(t *testing.T) {
	type foreignKey string

	l := logger.NewLogger(nil)
	ctx := context.WithValue(context.Background(), foreignKey("logger"), l)

	got := logger.FromContext(ctx)

	assert.NotSame(t, l.Logger, got)
}

func TestSanitizationHandler_RedactsSensitiveAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := logger.NewSanitizationHandler(slog.NewJSONHandler(&buf, nil))
	l := slog.New(h)

	l.Info("customer login", slog.String("password", "hunter2"), slog.String("email_domain", "shop"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "***REDACTED***", record["password"])
	assert.Equal(t, "shop", record["email_domain"])
	assert.NotContains(t, buf.String(), "hunter2")
}
