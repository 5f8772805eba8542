package surface

import (
	"context"
	"time"
)

const DefaultSettleDelay = time.Second

// Settler waits until a loaded tab has finished layout and paint. size is the
// length of the mounted markup in bytes (0 when unknown).
type Settler interface {
	Settle(ctx context.Context, tab Tab, size int) error
}

type SettlerFunc func(ctx context.Context, tab Tab, size int) error

func (f SettlerFunc) Settle(ctx context.Context, tab Tab, size int) error { return f(ctx, tab, size) }

// PaintWaiter is implemented by tabs that can report when fonts are loaded
// and a frame has been painted.
type PaintWaiter interface {
	WaitPaint(ctx context.Context) error
}

// FixedDelay waits d regardless of the document.
func FixedDelay(d time.Duration) Settler {
	return SettlerFunc(func(ctx context.Context, _ Tab, _ int) error {
		return sleep(ctx, d)
	})
}

// Proportional waits base plus perKiB for every KiB of markup, capped at max.
func Proportional(base, perKiB, max time.Duration) Settler {
	return SettlerFunc(func(ctx context.Context, _ Tab, size int) error {
		d := base + time.Duration(size/1024)*perKiB
		if max > 0 && d > max {
			d = max
		}
		return sleep(ctx, d)
	})
}

// PaintSettled waits for the tab to report a painted frame and falls back
// to a fixed delay for tabs that cannot.
func PaintSettled(fallback time.Duration) Settler {
	return SettlerFunc(func(ctx context.Context, tab Tab, _ int) error {
		if pw, ok := tab.(PaintWaiter); ok {
			return pw.WaitPaint(ctx)
		}
		return sleep(ctx, fallback)
	})
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ParseSettler builds a settler from its configuration name.
func ParseSettler(mode string, delay time.Duration) Settler {
	switch mode {
	case "paint":
		return PaintSettled(delay)
	case "proportional":
		return Proportional(delay/4, 20*time.Millisecond, 3*delay)
	default:
		return FixedDelay(delay)
	}
}
