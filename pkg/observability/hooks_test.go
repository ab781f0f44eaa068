package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnSynthStart(ctx, 100, 64, 64)
	p.OnSynthComplete(ctx, 90, 10, time.Second, nil)
	p.OnEncodeComplete(ctx, "fits", 2880, time.Millisecond, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "frame")
	c.OnCacheMiss(ctx, "frame")
	c.OnCacheSet(ctx, "frame", 1024)
}

type countingHooks struct {
	NoopPipelineHooks
	starts int
}

func (h *countingHooks) OnSynthStart(context.Context, int, int, int) { h.starts++ }

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	h := &countingHooks{}
	SetPipelineHooks(h)
	Pipeline().OnSynthStart(context.Background(), 1, 1, 1)
	if h.starts != 1 {
		t.Errorf("custom hook called %d times, want 1", h.starts)
	}

	SetPipelineHooks(nil)
	if Pipeline() != PipelineHooks(h) {
		t.Error("SetPipelineHooks(nil) should keep the current hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore no-op hooks")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger)
	ctx := context.Background()

	h.OnSynthStart(ctx, 100, 64, 32)
	h.OnSynthComplete(ctx, 80, 20, time.Millisecond, nil)
	h.OnSynthComplete(ctx, 0, 0, time.Millisecond, errors.New("boom"))
	h.OnEncodeComplete(ctx, "fits", 5760, time.Millisecond, nil)
	h.OnCacheHit(ctx, "frame")
	h.OnCacheMiss(ctx, "frame")
	h.OnCacheSet(ctx, "frame", 5760)

	out := buf.String()
	for _, want := range []string{"synthesis started", "dropped=20", "synthesis failed", "encoded", "cache hit", "cache miss", "cache store"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksQuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel}))
	h.OnSynthStart(context.Background(), 1, 1, 1)
	if buf.Len() != 0 {
		t.Errorf("debug events should be filtered at info level, got %q", buf.String())
	}
}
