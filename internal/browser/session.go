// Package browser drives a real browser through the DevTools protocol
// and exposes the operations as dispatchable tools.
package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"testweaver/pkg/logging"
)

// Driver is the browser surface the tools are built on. Session is the
// real implementation; tests substitute fakes.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	Click(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector, value string) error
	// Screenshot captures the page and returns the saved file path
	Screenshot(ctx context.Context, name string) (string, error)
	// PageContent returns the current page HTML
	PageContent(ctx context.Context) (string, error)
}

// Config holds browser session settings.
type Config struct {
	// Headless hides the browser window
	Headless bool `yaml:"headless"`
	// ScreenshotDir is where captures are written
	ScreenshotDir string `yaml:"screenshotDir"`
	// ElementTimeout bounds waiting for a single element; zero means 10s
	ElementTimeout time.Duration `yaml:"elementTimeout,omitempty"`
}

// Session is a lazily launched browser with a single active page. The
// browser process starts on the first operation, not at construction,
// so runs that never reach a browser step stay cheap.
type Session struct {
	config Config

	mu      sync.Mutex
	browser *rod.Browser
	page    *rod.Page
}

// NewSession creates an unlaunched session.
func NewSession(config Config) *Session {
	if config.ScreenshotDir == "" {
		config.ScreenshotDir = "screenshots"
	}
	if config.ElementTimeout == 0 {
		config.ElementTimeout = 10 * time.Second
	}
	return &Session{config: config}
}

// ensurePage launches the browser and opens a blank page on first use.
func (s *Session) ensurePage() (*rod.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.page != nil {
		return s.page, nil
	}

	controlURL, err := launcher.New().Headless(s.config.Headless).Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	logging.Info("Browser", "Launched browser (headless=%t)", s.config.Headless)
	s.browser = browser
	s.page = page
	return page, nil
}

// Navigate loads a URL and waits for the load event.
func (s *Session) Navigate(ctx context.Context, url string) error {
	page, err := s.ensurePage()
	if err != nil {
		return err
	}
	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("page %s did not finish loading: %w", url, err)
	}
	logging.Debug("Browser", "Navigated to %s", url)
	return nil
}

// Click waits for the selector and clicks its first match.
func (s *Session) Click(ctx context.Context, selector string) error {
	element, err := s.element(ctx, selector)
	if err != nil {
		return err
	}
	if err := element.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("failed to click %s: %w", selector, err)
	}
	logging.Debug("Browser", "Clicked %s", selector)
	return nil
}

// Fill clears the matched input and types the value.
func (s *Session) Fill(ctx context.Context, selector, value string) error {
	element, err := s.element(ctx, selector)
	if err != nil {
		return err
	}
	if err := element.SelectAllText(); err == nil {
		_ = element.Input("")
	}
	if err := element.Input(value); err != nil {
		return fmt.Errorf("failed to fill %s: %w", selector, err)
	}
	logging.Debug("Browser", "Filled %s", selector)
	return nil
}

// Screenshot captures the full page into the screenshot directory and
// returns the file path.
func (s *Session) Screenshot(ctx context.Context, name string) (string, error) {
	page, err := s.ensurePage()
	if err != nil {
		return "", err
	}

	data, err := page.Context(ctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return "", fmt.Errorf("failed to capture screenshot: %w", err)
	}

	if err := os.MkdirAll(s.config.ScreenshotDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create screenshot directory: %w", err)
	}
	path := filepath.Join(s.config.ScreenshotDir, name+".png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save screenshot: %w", err)
	}
	logging.Debug("Browser", "Saved screenshot %s", path)
	return path, nil
}

// PageContent returns the serialized HTML of the current page.
func (s *Session) PageContent(ctx context.Context) (string, error) {
	page, err := s.ensurePage()
	if err != nil {
		return "", err
	}
	html, err := page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return html, nil
}

func (s *Session) element(ctx context.Context, selector string) (*rod.Element, error) {
	page, err := s.ensurePage()
	if err != nil {
		return nil, err
	}
	element, err := page.Context(ctx).Timeout(s.config.ElementTimeout).Element(selector)
	if err != nil {
		return nil, fmt.Errorf("no element matched %s: %w", selector, err)
	}
	return element, nil
}

// Close shuts down the browser if it was launched.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser == nil {
		return nil
	}
	err := s.browser.Close()
	s.browser, s.page = nil, nil
	if err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	logging.Info("Browser", "Browser closed")
	return nil
}
