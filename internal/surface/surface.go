// Package surface mounts rendered resumes on off-screen browser tabs so they
// can be captured, and guarantees the tabs and their files are cleaned up.
package surface

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

var (
	ErrReleased  = errors.New("surface: released")
	ErrNoBrowser = errors.New("surface: no browser configured")
)

// Tab is a single headless browser page.
type Tab interface {
	Load(ctx context.Context, url string) error
	// Capture returns a PNG of the element matched by selector, laid out at
	// widthPx CSS pixels and rendered at scale device pixels per CSS pixel.
	Capture(ctx context.Context, selector string, widthPx int, scale float64) ([]byte, error)
	Close() error
}

// Browser opens tabs. Implementations are safe for concurrent use.
type Browser interface {
	NewTab(ctx context.Context) (Tab, error)
}

// Scoped is a mounted surface. It must be released exactly once by its
// owner; further calls to Release are no-ops. Release waits for captures
// already in progress.
type Scoped struct {
	tab  Tab
	dir  string
	url  string
	log  *zap.Logger
	once sync.Once
	mu   sync.RWMutex
	done bool
	err  error
}

func (s *Scoped) URL() string { return s.url }

func (s *Scoped) Capture(ctx context.Context, selector string, widthPx int, scale float64) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.done {
		return nil, ErrReleased
	}
	return s.tab.Capture(ctx, selector, widthPx, scale)
}

// Release closes the tab and removes any files written for it.
func (s *Scoped) Release() error {
	s.once.Do(func() {
		s.mu.Lock()
		s.done = true
		s.mu.Unlock()

		var errs []error
		if s.tab != nil {
			if err := s.tab.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close tab: %w", err))
			}
		}
		if s.dir != "" {
			if err := os.RemoveAll(s.dir); err != nil {
				errs = append(errs, fmt.Errorf("remove %s: %w", s.dir, err))
			}
		}
		s.err = errors.Join(errs...)
		if s.err != nil {
			s.log.Warn("surface release incomplete", zap.Error(s.err))
		}
	})
	return s.err
}

// Mounter places markup on fresh off-screen tabs.
type Mounter struct {
	browser Browser
	settle  Settler
	tmpDir  string
	log     *zap.Logger
}

type MounterOption func(*Mounter)

// WithSettler replaces the default fixed one second settle delay.
func WithSettler(s Settler) MounterOption { return func(m *Mounter) { m.settle = s } }

// WithTempDir sets the parent directory for mounted documents.
func WithTempDir(dir string) MounterOption { return func(m *Mounter) { m.tmpDir = dir } }

func WithLogger(l *zap.Logger) MounterOption { return func(m *Mounter) { m.log = l } }

func NewMounter(b Browser, opts ...MounterOption) *Mounter {
	m := &Mounter{browser: b, settle: FixedDelay(DefaultSettleDelay), log: zap.NewNop()}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Mount writes html to a private directory, loads it in a new tab and waits
// for it to settle. On error nothing is left behind.
func (m *Mounter) Mount(ctx context.Context, html []byte) (sc *Scoped, err error) {
	if m == nil || m.browser == nil {
		return nil, ErrNoBrowser
	}
	dir, err := os.MkdirTemp(m.tmpDir, "resume-")
	if err != nil {
		return nil, fmt.Errorf("surface: temp dir: %w", err)
	}
	sc = &Scoped{dir: dir, log: m.log}
	defer func() {
		if err != nil {
			_ = sc.Release()
			sc = nil
		}
	}()

	path := filepath.Join(dir, "index.html")
	if err = os.WriteFile(path, html, 0o600); err != nil {
		return sc, fmt.Errorf("surface: write document: %w", err)
	}
	sc.url = "file://" + filepath.ToSlash(path)

	if sc.tab, err = m.browser.NewTab(ctx); err != nil {
		return sc, fmt.Errorf("surface: open tab: %w", err)
	}
	if err = sc.tab.Load(ctx, sc.url); err != nil {
		return sc, fmt.Errorf("surface: load: %w", err)
	}
	if err = m.settle.Settle(ctx, sc.tab, len(html)); err != nil {
		return sc, fmt.Errorf("surface: settle: %w", err)
	}
	m.log.Debug("surface mounted", zap.String("url", sc.url), zap.Int("bytes", len(html)))
	return sc, nil
}

// With mounts html, runs fn against the surface and always releases it,
// including when fn fails or panics.
func (m *Mounter) With(ctx context.Context, html []byte, fn func(context.Context, *Scoped) error) error {
	sc, err := m.Mount(ctx, html)
	if err != nil {
		return err
	}
	defer sc.Release()
	return fn(ctx, sc)
}

// Open attaches to a page that is already rendered somewhere else. The caller
// owns the returned surface and must release it.
func Open(ctx context.Context, b Browser, url string, settle Settler) (sc *Scoped, err error) {
	if b == nil {
		return nil, ErrNoBrowser
	}
	if settle == nil {
		settle = FixedDelay(DefaultSettleDelay)
	}
	tab, err := b.NewTab(ctx)
	if err != nil {
		return nil, fmt.Errorf("surface: open tab: %w", err)
	}
	sc = &Scoped{tab: tab, url: url, log: zap.NewNop()}
	if err := tab.Load(ctx, url); err != nil {
		_ = sc.Release()
		return nil, fmt.Errorf("surface: load: %w", err)
	}
	if err := settle.Settle(ctx, tab, 0); err != nil {
		_ = sc.Release()
		return nil, fmt.Errorf("surface: settle: %w", err)
	}
	return sc, nil
}
