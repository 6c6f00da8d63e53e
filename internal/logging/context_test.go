package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/crmbridge/matchgate/internal/logging"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Parallel()

	t.Run("returns the logger stored in the context", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		logger := slog.New(slog.NewJSONHandler(buf, nil))
		ctx := logging.AddToContext(context.Background(), logger)

		require.Equal(t, logger, logging.FromContext(ctx))
	})

	t.Run("falls back to a usable logger when none is stored", func(t *testing.T) {
		t.Parallel()
		logger := logging.FromContext(context.Background())
		require.NotNil(t, logger)
	})
}

func TestAddMetaToContext(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(buf, nil))
	ctx := logging.AddToContext(context.Background(), logger)

	ctx = logging.AddMetaToContext(ctx, slog.String("customerId", "c-1"))
	logging.FromContext(ctx).Info("resolving")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "c-1", record["customerId"])
	require.Equal(t, "resolving", record["msg"])
}
