package snapshot

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
)

// ChromedpSnapshotter renders pages in headless Chrome and returns the
// visible body text. It holds one browser allocator for its lifetime; one
// tab is opened per Snapshot call. It is the fallback for environments
// without the external snapshot tool.
type ChromedpSnapshotter struct {
	allocator   context.Context
	allocCancel context.CancelFunc
	navTimeout  time.Duration
}

// NewChromedpSnapshotter starts a headless Chrome allocator.
func NewChromedpSnapshotter(userAgent string, navTimeout time.Duration) *ChromedpSnapshotter {
	if navTimeout <= 0 {
		navTimeout = 60 * time.Second
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("enable-automation", false),
	)
	if userAgent != "" {
		opts = append(opts, chromedp.UserAgent(userAgent))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromedpSnapshotter{
		allocator:   allocCtx,
		allocCancel: allocCancel,
		navTimeout:  navTimeout,
	}
}

// Snapshot navigates to url in a fresh tab and returns the rendered body
// text once the page settles.
func (s *ChromedpSnapshotter) Snapshot(ctx context.Context, url string) (string, error) {
	taskCtx, taskCancel := chromedp.NewContext(s.allocator)
	defer taskCancel()

	taskCtx, cancel := context.WithTimeout(taskCtx, s.navTimeout)
	defer cancel()

	// Honor caller cancellation between items.
	go func() {
		select {
		case <-ctx.Done():
			taskCancel()
		case <-taskCtx.Done():
		}
	}()

	var text string
	err := chromedp.Run(taskCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			// A desktop viewport; the mobile layout hides the
			// contact block on some listings.
			return emulation.SetDeviceMetricsOverride(1366, 768, 1, false).Do(ctx)
		}),
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(2*time.Second), // let client-side rendering finish
		chromedp.Text("body", &text, chromedp.ByQuery),
	)
	if err != nil {
		return "", eris.Wrapf(err, "snapshot: chromedp navigate %s", url)
	}

	return text, nil
}

// Close shuts down the browser allocator.
func (s *ChromedpSnapshotter) Close() error {
	s.allocCancel()
	return nil
}
