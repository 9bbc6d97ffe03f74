package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trackkit/pkg/logger"
)

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf))

	log.Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")

	// Default level is info: debug is suppressed.
	buf.Reset()
	log.Debug("quiet")
	assert.Empty(t, buf.String())
}

func TestNew_JSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithJSONFormatter(),
		logger.WithAttr(slog.String("service", "trackkit")),
	)

	log.LogAttrs(context.Background(), slog.LevelInfo, "dispatched",
		logger.Category("shipment_created"),
	)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "dispatched", record["msg"])
	assert.Equal(t, "trackkit", record["service"])
	assert.Equal(t, "shipment_created", record["category"])
}

func TestNew_InvalidFormatPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		logger.New(logger.WithFormat("xml"))
	})
}

func TestAttrHelpers_EmptyValues(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.Error(nil))
	assert.Equal(t, slog.Attr{}, logger.Component(""))
	assert.Equal(t, slog.Attr{}, logger.EventKind(""))
	assert.Equal(t, slog.Attr{}, logger.Category(""))
	assert.Equal(t, slog.Attr{}, logger.UserEmail(""))
	assert.Equal(t, slog.Attr{}, logger.DeliveryID(""))
}

func TestAttrHelpers_Keys(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "event_kind", logger.EventKind("entity:created").Key)
	assert.Equal(t, "category", logger.Category("system_alert").Key)
	assert.Equal(t, "user_email", logger.UserEmail("a@b.co").Key)
}
