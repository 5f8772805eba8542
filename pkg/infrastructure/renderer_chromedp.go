package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"resume-builder/internal/surface"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrChromeClosed = errors.New("chrome: browser closed")

type ChromeConfig struct {
	ExecPath     string
	NoSandbox    bool
	AutoDownload bool
	// Timeout bounds each tab operation. Zero means no limit.
	Timeout time.Duration
}

// Chrome is a long-lived headless browser. Every tab it opens is an
// independent off-screen surface.
type Chrome struct {
	cfg           ChromeConfig
	log           *zap.Logger
	browserCtx    context.Context
	allocCancel   context.CancelFunc
	browserCancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// NewChrome launches the browser. The process lives until Close.
func NewChrome(cfg ChromeConfig, log *zap.Logger) (*Chrome, error) {
	if log == nil {
		log = zap.NewNop()
	}
	execPath := cfg.ExecPath
	if execPath == "" && cfg.AutoDownload {
		p, err := ResolveBrowser()
		if err != nil {
			return nil, err
		}
		execPath = p
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-timer-throttling", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.WSURLReadTimeout(60*time.Second),
	)
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}
	if cfg.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			msg := fmt.Sprintf(format, args...)
			if strings.Contains(msg, "could not unmarshal event") {
				return
			}
			log.Debug("chromedp: " + msg)
		}),
	)

	// ensure Chrome starts
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("chrome: start: %w", err)
	}
	log.Info("chrome started", zap.String("exec_path", execPath), zap.Bool("no_sandbox", cfg.NoSandbox))

	return &Chrome{
		cfg:           cfg,
		log:           log,
		browserCtx:    browserCtx,
		allocCancel:   allocCancel,
		browserCancel: browserCancel,
	}, nil
}

func (c *Chrome) NewTab(ctx context.Context) (surface.Tab, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrChromeClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tabCtx, cancel := chromedp.NewContext(c.browserCtx)
	// the first Run creates the target
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("chrome: new tab: %w", err)
	}
	return &chromeTab{ctx: tabCtx, cancel: cancel, timeout: c.cfg.Timeout}, nil
}

// Close shuts the browser down. Open tabs stop working.
func (c *Chrome) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.browserCancel()
	c.allocCancel()
	return nil
}

type chromeTab struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	once    sync.Once
}

// bind derives a context for one operation on the tab that also ends when
// the caller's ctx does.
func (t *chromeTab) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithCancel(t.ctx)
	if t.timeout > 0 {
		var cancelTimeout context.CancelFunc
		runCtx, cancelTimeout = context.WithTimeout(runCtx, t.timeout)
		prev := cancel
		cancel = func() { cancelTimeout(); prev() }
	}
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

func (t *chromeTab) Load(ctx context.Context, url string) error {
	runCtx, done := t.bind(ctx)
	defer done()
	return chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

const paintScript = `document.fonts.ready.then(() => new Promise(resolve =>
  requestAnimationFrame(() => requestAnimationFrame(() => resolve(true)))))`

// WaitPaint resolves once web fonts are loaded and two frames were painted.
func (t *chromeTab) WaitPaint(ctx context.Context) error {
	runCtx, done := t.bind(ctx)
	defer done()
	var ok bool
	return chromedp.Run(runCtx, chromedp.Evaluate(paintScript, &ok, awaitPromise))
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

type box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// cloneScript copies the target into a fixed-width container at the top
// left of the page and returns the container's box.
func cloneScript(selector, id string, widthPx int) string {
	return fmt.Sprintf(`(() => {
  const src = document.querySelector(%q);
  if (!src) throw new Error("capture target not found: " + %q);
  const holder = document.createElement("div");
  holder.id = %q;
  holder.style.cssText = "position:absolute;left:0;top:0;margin:0;padding:0;width:%dpx;background:#ffffff;z-index:2147483647;";
  const clone = src.cloneNode(true);
  clone.removeAttribute("id");
  holder.appendChild(clone);
  document.body.appendChild(holder);
  window.scrollTo(0, 0);
  const r = holder.getBoundingClientRect();
  return {x: r.left + window.scrollX, y: r.top + window.scrollY, width: r.width, height: Math.ceil(r.height)};
})()`, selector, selector, id, widthPx)
}

func removeScript(id string) string {
	return fmt.Sprintf(`(() => { const n = document.getElementById(%q); if (n) n.remove(); return true; })()`, id)
}

func (t *chromeTab) Capture(ctx context.Context, selector string, widthPx int, scale float64) ([]byte, error) {
	if widthPx <= 0 {
		return nil, fmt.Errorf("chrome: invalid capture width %d", widthPx)
	}
	if scale <= 0 {
		scale = 1
	}
	runCtx, done := t.bind(ctx)
	defer done()

	id := "capture-" + uuid.NewString()
	defer func() {
		// the clone is removed on every path
		var ok bool
		_ = chromedp.Run(t.ctx, chromedp.Evaluate(removeScript(id), &ok))
	}()

	var b box
	var img []byte
	err := chromedp.Run(runCtx,
		emulation.SetDeviceMetricsOverride(int64(widthPx), 1123, 1, false),
		chromedp.Evaluate(cloneScript(selector, id, widthPx), &b),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if b.Width <= 0 || b.Height <= 0 {
				return fmt.Errorf("chrome: empty capture box %.0fx%.0f", b.Width, b.Height)
			}
			var err error
			img, err = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				WithCaptureBeyondViewport(true).
				WithFromSurface(true).
				WithClip(&page.Viewport{
					X:      b.X,
					Y:      b.Y,
					Width:  math.Ceil(b.Width),
					Height: math.Ceil(b.Height),
					Scale:  scale,
				}).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (t *chromeTab) Close() error {
	t.once.Do(func() {
		// cancelling the NewContext context closes the target
		t.cancel()
	})
	return nil
}
