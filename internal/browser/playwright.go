package browser

import (
	"fmt"
	"math/rand"

	"go-jobscraper/internal/config"

	"github.com/playwright-community/playwright-go"
)

// Manager owns the playwright runtime and one shared browser process.
// Each worker gets its own isolated context from NewContext, so no page
// state is ever shared between workers.
type Manager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	cfg     config.ScraperConfig
}

func NewManager(cfg config.ScraperConfig) (*Manager, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		Args: []string{
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-gpu",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	return &Manager{pw: pw, browser: browser, cfg: cfg}, nil
}

// NewContext creates an isolated browser context with a user agent drawn
// at random from the configured pool, optionally seeded with cookies.
func (m *Manager) NewContext(cookies []playwright.OptionalCookie) (playwright.BrowserContext, error) {
	opts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: 1920, Height: 1080},
	}
	if len(m.cfg.UserAgents) > 0 {
		opts.UserAgent = playwright.String(m.cfg.UserAgents[rand.Intn(len(m.cfg.UserAgents))])
	}

	browserCtx, err := m.browser.NewContext(opts)
	if err != nil {
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}

	if len(cookies) > 0 {
		if err := browserCtx.AddCookies(cookies); err != nil {
			browserCtx.Close()
			return nil, fmt.Errorf("could not add cookies: %w", err)
		}
	}

	return browserCtx, nil
}

func (m *Manager) Close() error {
	if m.browser != nil {
		if err := m.browser.Close(); err != nil {
			return err
		}
	}
	if m.pw != nil {
		return m.pw.Stop()
	}
	return nil
}
