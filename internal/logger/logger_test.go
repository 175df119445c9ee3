package logger

import (
	"bytes"
	"context"
	"log/slog"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stripANSI removes color escape sequences so assertions can look at the
// rendered text only.
var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: "json", Level: slog.LevelInfo})

	log.Info("catalog loaded", "genres", 3)

	out := buf.String()
	assert.Contains(t, out, `"msg":"catalog loaded"`)
	assert.Contains(t, out, `"genres":3`)
	assert.Contains(t, out, `"level":"INFO"`)
}

func TestNew_FormatFollowsEnvironment(t *testing.T) {
	tests := []struct {
		environment string
		wantJSON    bool
	}{
		{"production", true},
		{"development", false},
		{"staging", false},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(Config{Writer: &buf, Environment: tt.environment})

			log.Info("probe format")

			if tt.wantJSON {
				assert.Contains(t, buf.String(), `"msg":"probe format"`)
			} else {
				assert.NotContains(t, buf.String(), `"msg"`)
				assert.Contains(t, stripANSI(buf.String()), "probe format")
			}
		})
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: "pretty", Level: slog.LevelWarn})

	log.Debug("too quiet")
	log.Info("still too quiet")
	log.Warn("player error reported")

	out := stripANSI(buf.String())
	assert.NotContains(t, out, "too quiet")
	assert.Contains(t, out, "player error reported")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run("level "+tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestConsoleHandler_Enabled(t *testing.T) {
	h := newConsoleHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})

	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestConsoleHandler_RendersLine(t *testing.T) {
	var buf bytes.Buffer
	h := newConsoleHandler(&buf, nil)

	rec := slog.NewRecord(time.Date(2026, 3, 1, 9, 30, 15, 0, time.UTC), slog.LevelInfo, "scene resolved", 0)
	rec.AddAttrs(slog.String("scene", "tavern_brawl"), slog.Int("videos", 2))
	require.NoError(t, h.Handle(context.Background(), rec))

	out := stripANSI(buf.String())
	assert.Contains(t, out, "09:30:15 INF scene resolved")
	assert.Contains(t, out, "scene=tavern_brawl")
	assert.Contains(t, out, "videos=2")
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestConsoleHandler_LevelTags(t *testing.T) {
	tests := []struct {
		level slog.Level
		tag   string
	}{
		{slog.LevelDebug, "DBG"},
		{slog.LevelInfo, "INF"},
		{slog.LevelWarn, "WRN"},
		{slog.LevelError, "ERR"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			var buf bytes.Buffer
			h := newConsoleHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

			rec := slog.NewRecord(time.Now(), tt.level, "msg", 0)
			require.NoError(t, h.Handle(context.Background(), rec))

			assert.Contains(t, stripANSI(buf.String()), tt.tag+" msg")
		})
	}
}

func TestConsoleHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := newConsoleHandler(&buf, nil).WithAttrs([]slog.Attr{slog.String("request_id", "req-1")})

	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "recommend", 0)
	rec.AddAttrs(slog.String("genre", "fantasy"))
	require.NoError(t, h.Handle(context.Background(), rec))

	out := stripANSI(buf.String())
	assert.Contains(t, out, "request_id=req-1")
	assert.Contains(t, out, "genre=fantasy")
}

func TestConsoleHandler_WithGroupPrefixesKeys(t *testing.T) {
	var buf bytes.Buffer
	h := newConsoleHandler(&buf, nil).WithGroup("youtube")

	rec := slog.NewRecord(time.Now(), slog.LevelWarn, "search failed", 0)
	rec.AddAttrs(slog.String("query", "tavern music"))
	require.NoError(t, h.Handle(context.Background(), rec))

	assert.Contains(t, stripANSI(buf.String()), "youtube.query=tavern music")
}

func TestConsoleHandler_ValueRendering(t *testing.T) {
	var buf bytes.Buffer
	h := newConsoleHandler(&buf, nil)

	when := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "cache entry", 0)
	rec.AddAttrs(slog.Time("expires_at", when), slog.Duration("ttl", 10*time.Minute))
	require.NoError(t, h.Handle(context.Background(), rec))

	out := stripANSI(buf.String())
	assert.Contains(t, out, "expires_at=2026-03-01T10:00:00Z")
	assert.Contains(t, out, "ttl=10m0s")
}
