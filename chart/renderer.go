package chart

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"catalog-pricer/models"
	"catalog-pricer/utils"
)

// ErrNoBrowser is returned when no Chrome/Chromium binary can be found.
var ErrNoBrowser = errors.New("chart: no Chrome or Chromium binary found")

// Rasterizer turns an SVG document into PNG bytes.
type Rasterizer interface {
	Rasterize(ctx context.Context, svg string, width, height int) ([]byte, error)
}

// Renderer writes the chart image, preferring PNG and falling back to SVG.
type Renderer struct {
	rasterizer Rasterizer
	logger     *utils.Logger
}

// NewRenderer creates a Renderer. A nil rasterizer always writes SVG.
func NewRenderer(rasterizer Rasterizer, logger *utils.Logger) *Renderer {
	return &Renderer{rasterizer: rasterizer, logger: logger}
}

// Render draws the price differences of records to path and returns the path
// actually written. When rasterization fails the SVG is written next to path
// with an .svg extension instead.
func (r *Renderer) Render(ctx context.Context, records []*models.PricedRecord, path string) (string, error) {
	bars := Bars(records)
	svg := SVG(bars)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("chart: create output dir: %w", err)
		}
	}

	if r.rasterizer != nil && !strings.EqualFold(filepath.Ext(path), ".svg") {
		png, err := r.rasterizer.Rasterize(ctx, svg, Width, Height)
		if err == nil {
			if err := os.WriteFile(path, png, 0644); err != nil {
				return "", fmt.Errorf("chart: write %q: %w", path, err)
			}
			r.logger.Info("[chart] Wrote %d bars to %s", len(bars), path)
			return path, nil
		}
		r.logger.Warn("[chart] PNG rendering failed: %v, writing SVG instead", err)
	}

	svgPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".svg"
	if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
		return "", fmt.Errorf("chart: write %q: %w", svgPath, err)
	}
	r.logger.Info("[chart] Wrote %d bars to %s", len(bars), svgPath)
	return svgPath, nil
}

// ChromeRasterizer screenshots the SVG in headless Chrome.
type ChromeRasterizer struct {
	chromeBin string
	timeout   time.Duration
}

// NewChromeRasterizer creates a rasterizer. An empty chromeBin triggers a
// search of the usual install locations.
func NewChromeRasterizer(chromeBin string, timeout time.Duration) *ChromeRasterizer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChromeRasterizer{chromeBin: chromeBin, timeout: timeout}
}

// Rasterize implements Rasterizer.
func (c *ChromeRasterizer) Rasterize(ctx context.Context, svg string, width, height int) ([]byte, error) {
	bin := c.chromeBin
	if bin == "" {
		bin = findChromeBinary()
	}
	if bin == "" {
		return nil, ErrNoBrowser
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.WindowSize(width, height),
		chromedp.ExecPath(bin),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	runCtx, cancelTimeout := context.WithTimeout(browserCtx, c.timeout)
	defer cancelTimeout()

	page := `<!DOCTYPE html><html><head><style>html,body{margin:0;padding:0;background:#fff}</style></head><body>` +
		svg + `</body></html>`
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(page))

	var buf []byte
	err := chromedp.Run(runCtx,
		chromedp.EmulateViewport(int64(width), int64(height)),
		chromedp.Navigate(dataURL),
		chromedp.WaitVisible("svg", chromedp.ByQuery),
		chromedp.Screenshot("svg", &buf, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("chart: rasterize: %w", err)
	}
	return buf, nil
}

func findChromeBinary() string {
	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
