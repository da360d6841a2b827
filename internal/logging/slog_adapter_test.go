// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

func TestSlogHandler_WritesThroughZerolog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	slogger := slog.New(NewSlogHandlerWithLogger(zerolog.New(&buf)))

	slogger.Warn("service restarted",
		slog.String("service", "ingest"),
		slog.Int("attempt", 2),
		slog.Bool("final", false),
		slog.Duration("backoff", 15*time.Second),
	)

	out := buf.String()
	for _, want := range []string{
		`"level":"warn"`,
		`"message":"service restarted"`,
		`"service":"ingest"`,
		`"attempt":2`,
		`"final":false`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in output: %s", want, out)
		}
	}
}

func TestSlogHandler_GroupsAndAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := NewSlogHandlerWithLogger(zerolog.New(&buf))
	h := base.WithAttrs([]slog.Attr{slog.String("tree", "newsdesk")}).WithGroup("supervisor")

	slog.New(h).Info("event", slog.String("name", "http-server"))

	out := buf.String()
	if !strings.Contains(out, `"supervisor.tree":"newsdesk"`) {
		t.Errorf("expected grouped pre-set attr, got: %s", out)
	}
	if !strings.Contains(out, `"supervisor.name":"http-server"`) {
		t.Errorf("expected grouped record attr, got: %s", out)
	}
	if base.WithGroup("") != base {
		t.Error("WithGroup(\"\") should return the same handler")
	}
}

func TestSlogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   slog.Level
		want zerolog.Level
	}{
		{slog.LevelDebug - 4, zerolog.TraceLevel},
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
		{slog.LevelError + 4, zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		if got := slogLevel(tt.in); got != tt.want {
			t.Errorf("slogLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWatermillAdapter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	a := &WatermillAdapter{logger: zerolog.New(&buf)}

	a.With(watermill.LogFields{"topic": "articles.liked"}).
		Error("publish failed", errors.New("nats: timeout"), watermill.LogFields{"attempt": 1})

	out := buf.String()
	for _, want := range []string{`"topic":"articles.liked"`, `"attempt":1`, `"error":"nats: timeout"`, `"message":"publish failed"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in output: %s", want, out)
		}
	}
}
