package logger

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLine(t *testing.T, format logFormat, emit func(*slog.Logger)) string {
	t.Helper()
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	handler := newStructuredHandler(handlerConfig{
		level:    slog.LevelInfo,
		writer:   aw,
		format:   format,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})
	emit(slog.New(handler))
	require.NoError(t, aw.Flush())
	require.NoError(t, aw.Close())
	return strings.TrimSpace(buf.String())
}

func TestStructuredHandlerKVOrder(t *testing.T) {
	ctx := WithRID(context.Background(), "rid-123")
	ctx = WithUpdateMeta(ctx, 42, 7, 9)

	line := captureLine(t, formatKV, func(l *slog.Logger) {
		LogEvent(ctx, l.With("component", "service.market"), slog.LevelInfo, "listing.published",
			slog.String("status", "ok"),
			slog.Int64("listing_id", 3),
		)
	})

	tokens := strings.Split(line, " ")
	require.GreaterOrEqual(t, len(tokens), 6, line)
	expected := []string{"ts=", "level=INFO", "component=service.market", "event=listing.published", "status=ok", "rid=rid-123"}
	for i, prefix := range expected {
		assert.True(t, strings.HasPrefix(tokens[i], prefix), "token %d = %s, want prefix %s", i, tokens[i], prefix)
	}
	assert.Contains(t, line, "user_id=7")
	assert.Contains(t, line, "listing_id=3")
}

func TestStructuredHandlerJSONOrder(t *testing.T) {
	ctx := WithRID(context.Background(), "rid-json")

	line := captureLine(t, formatJSON, func(l *slog.Logger) {
		LogEvent(ctx, l.With("component", "service.store"), slog.LevelError, "store.failed",
			slog.String("status", "fail"),
			slog.String("err", "boom"),
		)
	})

	require.True(t, strings.HasPrefix(line, "{"), line)
	prefixes := []string{`{"ts":`, `"level":"ERROR"`, `"component":"service.store"`, `"event":"store.failed"`, `"status":"fail"`, `"rid":"rid-json"`}
	pos := -1
	for _, pref := range prefixes {
		idx := strings.Index(line, pref)
		require.Greater(t, idx, pos, "prefix %s out of order in %s", pref, line)
		pos = idx
	}
}

func TestStructuredHandlerCompactRID(t *testing.T) {
	rawRID := "123:456:789"
	ctx := WithRID(context.Background(), rawRID)

	kv := captureLine(t, formatKV, func(l *slog.Logger) {
		LogEvent(ctx, l, slog.LevelInfo, "rid.test")
	})
	assert.Contains(t, kv, "rid="+CompactRID(rawRID))
	assert.NotContains(t, kv, "rid_full=")

	js := captureLine(t, formatJSON, func(l *slog.Logger) {
		LogEvent(ctx, l, slog.LevelInfo, "rid.test")
	})
	assert.Contains(t, js, `"rid":"`+CompactRID(rawRID)+`"`)
	assert.Contains(t, js, `"rid_full":"`+rawRID+`"`)
	assert.Contains(t, js, `"ts_unix_nano"`)
}

func TestStructuredHandlerNormalizesValues(t *testing.T) {
	line := captureLine(t, formatKV, func(l *slog.Logger) {
		l.Info("handled",
			slog.Duration("duration", 1500*time.Microsecond),
			slog.String("outcome", "exploded"),
			slog.String("status", "OK"),
			slog.String("empty", "  "),
		)
	})
	assert.Contains(t, line, "event=handled")
	assert.Contains(t, line, "duration_ms=2")
	assert.Contains(t, line, "status=ok")
	assert.NotContains(t, line, "outcome=")
	assert.NotContains(t, line, "empty=")
	assert.Contains(t, line, "component=app")
}

func TestStructuredHandlerSkipsBelowLevel(t *testing.T) {
	line := captureLine(t, formatKV, func(l *slog.Logger) {
		l.Debug("noise")
	})
	assert.Empty(t, line)
}

func TestRatioSampler(t *testing.T) {
	s := newRatioSampler(1, 3)
	got := []bool{s.Allow(), s.Allow(), s.Allow(), s.Allow()}
	assert.Equal(t, []bool{true, false, false, true}, got)

	s.Set(0, 0)
	assert.True(t, s.Allow())

	n, d := parseRatioSpec("2/5")
	assert.Equal(t, [2]int{2, 5}, [2]int{n, d})
	n, d = parseRatioSpec("10")
	assert.Equal(t, [2]int{1, 10}, [2]int{n, d})
	n, d = parseRatioSpec("x/y")
	assert.Equal(t, [2]int{0, 0}, [2]int{n, d})
}

func TestCompactRIDPassthrough(t *testing.T) {
	assert.Equal(t, "not-a-rid", CompactRID("not-a-rid"))
	assert.Equal(t, "1.a.z", CompactRID("1:10:35"))
	assert.Equal(t, "abc", SanitizeLimit("a\x00bcdef", 3))
}
