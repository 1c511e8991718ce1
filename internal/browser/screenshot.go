package browser

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// keep at most this many screenshots per scraper name; anti-bot pages
// can fire on every request and would otherwise fill the disk
const maxScreenshotsPerName = 20

// ScreenShotDebugger writes full-page screenshots when a scraper hits an
// unexpected page (Cloudflare wall, captcha, layout change), so blocked
// runs can be diagnosed after the fact.
type ScreenShotDebugger struct {
	outputDir string
}

func NewScreenShotDebugger() *ScreenShotDebugger {
	dir := filepath.Join("logs", "screenshots")
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("⚠️ Could not create screenshot dir: %v", err)
	}
	return &ScreenShotDebugger{outputDir: dir}
}

func (s *ScreenShotDebugger) CaptureAndLog(page playwright.Page, name, message string) error {
	log.Printf("📸 %s", message)

	path := filepath.Join(s.outputDir,
		fmt.Sprintf("%s_%s.png", name, time.Now().Format("2006-01-02_15-04-05")))

	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		log.Printf("⚠️ Failed to capture screenshot: %v", err)
		return err
	}
	log.Printf("   Screenshot saved: %s", path)

	s.pruneOld(name)
	return nil
}

// pruneOld deletes the oldest screenshots for one name beyond the cap.
func (s *ScreenShotDebugger) pruneOld(name string) {
	matches, err := filepath.Glob(filepath.Join(s.outputDir, name+"_*.png"))
	if err != nil || len(matches) <= maxScreenshotsPerName {
		return
	}

	//timestamped filenames sort chronologically
	sort.Strings(matches)
	for _, old := range matches[:len(matches)-maxScreenshotsPerName] {
		if !strings.HasPrefix(filepath.Base(old), name+"_") {
			continue
		}
		os.Remove(old)
	}
}
