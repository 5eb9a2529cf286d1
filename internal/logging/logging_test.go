package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/m-mizutani/gt"

	"clipo/clipoterm/internal/logging"
)

func TestNewJSONRedactsPassword(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, "debug", "json")
	gt.NoError(t, err).Required()

	type credentials struct {
		Email    string
		Password string
	}
	logger.Info("login", slog.Any("req", credentials{Email: "a@example.com", Password: "hunter2"}))

	gt.String(t, buf.String()).Contains("a@example.com")
	gt.Bool(t, bytes.Contains(buf.Bytes(), []byte("hunter2"))).False()
}

func TestNewRejectsUnknownSettings(t *testing.T) {
	_, err := logging.New(&bytes.Buffer{}, "loud", "json")
	gt.Error(t, err)

	_, err = logging.New(&bytes.Buffer{}, "info", "xml")
	gt.Error(t, err)
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, "info", "json")
	gt.NoError(t, err).Required()

	ctx := logging.With(context.Background(), logger)
	gt.Value(t, logging.From(ctx)).Equal(logger)
	gt.Value(t, logging.From(context.Background())).Equal(logging.Default())
}
