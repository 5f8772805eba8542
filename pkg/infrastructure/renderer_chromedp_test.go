package infrastructure

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"resume-builder/internal/model/modeltest"
	"resume-builder/internal/pdf"
	"resume-builder/internal/surface"
	"resume-builder/internal/templates"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChrome(t *testing.T) *Chrome {
	t.Helper()
	path, ok := LookupChrome()
	if !ok {
		t.Skip("chrome not found on PATH; skipping browser test")
	}
	c, err := NewChrome(ChromeConfig{ExecPath: path, NoSandbox: true, Timeout: 30 * time.Second}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestChromeCaptureFixedWidth(t *testing.T) {
	c := newTestChrome(t)
	html, err := templates.Render(modeltest.Long(30), "professional")
	require.NoError(t, err)

	m := surface.NewMounter(c, surface.WithSettler(surface.PaintSettled(time.Second)), surface.WithTempDir(t.TempDir()))
	err = m.With(context.Background(), html, func(ctx context.Context, sc *surface.Scoped) error {
		img, err := sc.Capture(ctx, pdf.CaptureSelector, pdf.A4.PixelWidth(), 2)
		require.NoError(t, err)
		cfg, err := png.DecodeConfig(bytes.NewReader(img))
		require.NoError(t, err)
		assert.Equal(t, 2*794, cfg.Width)
		assert.Greater(t, cfg.Height, cfg.Width, "a long resume is taller than wide")
		return nil
	})
	require.NoError(t, err)
}

func TestChromeCaptureMissingSelector(t *testing.T) {
	c := newTestChrome(t)
	m := surface.NewMounter(c, surface.WithSettler(surface.FixedDelay(0)), surface.WithTempDir(t.TempDir()))
	err := m.With(context.Background(), []byte("<html><body><p>hi</p></body></html>"), func(ctx context.Context, sc *surface.Scoped) error {
		_, err := sc.Capture(ctx, pdf.CaptureSelector, 794, 1)
		return err
	})
	assert.Error(t, err)
}

// openPage loads html into a new tab of c.
func openPage(t *testing.T, c *Chrome, html string) *chromeTab {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(html), 0o600))
	tab, err := c.NewTab(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = tab.Close() })
	require.NoError(t, tab.Load(context.Background(), "file://"+path))
	return tab.(*chromeTab)
}

func captureClones(t *testing.T, tab *chromeTab) int {
	t.Helper()
	var n int
	require.NoError(t, chromedp.Run(tab.ctx,
		chromedp.Evaluate(`document.querySelectorAll('[id^="capture-"]').length`, &n)))
	return n
}

func TestChromeCaptureFailureRemovesClone(t *testing.T) {
	c := newTestChrome(t)
	// the clone is appended, then the zero-height box fails the capture
	tab := openPage(t, c, `<html><body><div id="resume-root" style="display:none">hidden</div></body></html>`)

	_, err := tab.Capture(context.Background(), pdf.CaptureSelector, 794, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty capture box")
	assert.Zero(t, captureClones(t, tab))
}

func TestChromeCaptureCancelledRemovesClone(t *testing.T) {
	c := newTestChrome(t)
	html, err := templates.Render(modeltest.Long(40), "professional")
	require.NoError(t, err)
	page := string(html) + `<script>
new MutationObserver(ms => ms.forEach(m => m.addedNodes.forEach(n => {
  if (n.id && n.id.startsWith("capture-")) console.log("cloned");
}))).observe(document.body, {childList: true});
</script>`
	tab := openPage(t, c, page)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cloned := make(chan struct{}, 1)
	chromedp.ListenTarget(tab.ctx, func(ev interface{}) {
		if _, ok := ev.(*runtime.EventConsoleAPICalled); ok {
			select {
			case cloned <- struct{}{}:
			default:
			}
			cancel()
		}
	})

	_, _ = tab.Capture(ctx, pdf.CaptureSelector, 794, 4)
	select {
	case <-cloned:
	case <-time.After(5 * time.Second):
		t.Fatal("clone was never appended")
	}
	assert.Zero(t, captureClones(t, tab))
}

func TestChromeClosedRejectsTabs(t *testing.T) {
	c := newTestChrome(t)
	require.NoError(t, c.Close())
	_, err := c.NewTab(context.Background())
	assert.ErrorIs(t, err, ErrChromeClosed)
}
