package glassdoor

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"go-jobscraper/internal/browser"
	"go-jobscraper/internal/classify"
	"go-jobscraper/internal/config"
	"go-jobscraper/internal/models"
	"go-jobscraper/internal/scraper"

	"github.com/playwright-community/playwright-go"
)

const baseURL = "https://www.glassdoor.com/"

type GlassdoorScraper struct {
	cfg config.ScraperConfig
}

func NewGlassdoorScraper(cfg config.ScraperConfig) *GlassdoorScraper {
	return &GlassdoorScraper{cfg: cfg}
}

func (s *GlassdoorScraper) Name() string {
	return "Glassdoor"
}

// handleAntiBot checks for the Cloudflare interstitial and CAPTCHA
// walls Glassdoor serves to automated traffic. Returns an error when the
// page is blocked so the caller can skip instead of parsing garbage.
func handleAntiBot(page playwright.Page, debugger *browser.ScreenShotDebugger) error {
	title, _ := page.Title()
	if strings.Contains(title, "Cloudflare") || strings.Contains(title, "Attention Required") || strings.Contains(title, "Just a moment") {
		log.Println("    🛡️ Cloudflare challenge detected. Waiting 7s...")
		debugger.CaptureAndLog(page, "glassdoor-cloudflare", "🚨 Glassdoor: Cloudflare Challenge Detected")
		time.Sleep(7 * time.Second)

		if title, _ := page.Title(); strings.Contains(title, "Cloudflare") || strings.Contains(title, "Attention Required") || strings.Contains(title, "Just a moment") {
			return fmt.Errorf("blocked by cloudflare")
		}
	}

	captchaCount, _ := page.Locator(".captcha, .recaptcha, [data-captcha]").Count()
	if captchaCount > 0 {
		debugger.CaptureAndLog(page, "glassdoor-captcha", "🚨 Glassdoor: CAPTCHA Detected")
		return fmt.Errorf("blocked by captcha")
	}

	return nil
}

func (s *GlassdoorScraper) Search(ctx context.Context, page playwright.Page, params scraper.SearchParams) ([]models.Job, error) {
	log.Println("🚪 Searching Glassdoor...")
	debugger := browser.NewScreenShotDebugger()

	query := params.Query
	if query == "" {
		query = "software engineer"
	}

	searchURL := fmt.Sprintf("%sJob/jobs.htm?sc.keyword=%s&locKeyword=%s&p=%d",
		baseURL, url.QueryEscape(query), url.QueryEscape(params.Location), params.Page)

	log.Printf("  🌐 Visiting: %s", searchURL)
	if _, err := page.Goto(searchURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(scraper.TimeoutMs(ctx, 30*time.Second)),
	}); err != nil {
		return nil, fmt.Errorf("failed to load glassdoor search: %w", err)
	}

	if err := handleAntiBot(page, debugger); err != nil {
		log.Printf("    🚫 %v. Skipping...", err)
		return nil, nil
	}

	if _, err := page.WaitForSelector(`li[data-test="jobListing"]`, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(15000),
	}); err != nil {
		log.Println("    ⚠️ Job listings not found or empty.")
		return nil, nil
	}

	browser.RandomDelay(s.cfg.DelayMinMs, s.cfg.DelayMaxMs)
	browser.MouseJiggle(page)
	browser.HumanScroll(page)

	cards, err := page.Locator(`li[data-test="jobListing"]`).All()
	if err != nil {
		return nil, fmt.Errorf("failed to locate job listings: %w", err)
	}
	log.Printf("    📄 Found %d job listings.", len(cards))

	var jobs []models.Job
	for _, card := range cards {
		job := s.parseJobCard(card)
		if job != nil {
			jobs = append(jobs, *job)
		}
	}

	log.Printf("    ✅ Parsed %d/%d jobs.", len(jobs), len(cards))
	return jobs, nil
}

func (s *GlassdoorScraper) parseJobCard(card playwright.Locator) *models.Job {
	jobID, err := card.GetAttribute("data-jobid")
	if err != nil || jobID == "" {
		return nil
	}

	title := innerText(card.Locator(`a[data-test="job-title"]`).First())
	company := innerText(card.Locator(".EmployerProfile_compactEmployerName__9MGcV, [data-test='employer-short-name']").First())
	location := innerText(card.Locator(`div[data-test="emp-location"]`).First())
	salary := innerText(card.Locator(`div[data-test="detailSalary"]`).First())
	postedDate := innerText(card.Locator(`div[data-test="job-age"]`).First())

	return &models.Job{
		ID:                jobID,
		Title:             title,
		Company:           company,
		Location:          location,
		SalaryDescription: salary,
		DatePosted:        postedDate,
		DateScraped:       time.Now().UTC(),
		Source:            "Glassdoor",
		JobClass:          classify.JobClass(title, ""),
	}
}

func innerText(loc playwright.Locator) string {
	count, err := loc.Count()
	if err != nil || count == 0 {
		return ""
	}
	text, err := loc.InnerText()
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(text), " ")
}

// DetailScraper loads one job listing page per id.
type DetailScraper struct {
	cfg        config.ScraperConfig
	browserCtx playwright.BrowserContext
	page       playwright.Page
	debugger   *browser.ScreenShotDebugger
}

func NewDetailScraper(cfg config.ScraperConfig, mgr *browser.Manager) (*DetailScraper, error) {
	browserCtx, err := mgr.NewContext(nil)
	if err != nil {
		return nil, err
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		browserCtx.Close()
		return nil, fmt.Errorf("could not create page: %w", err)
	}

	return &DetailScraper{
		cfg:        cfg,
		browserCtx: browserCtx,
		page:       page,
		debugger:   browser.NewScreenShotDebugger(),
	}, nil
}

func (d *DetailScraper) GetJobDetails(ctx context.Context, jobID string) (*models.JobDetail, error) {
	jobURL := fmt.Sprintf("%sjob-listing/j?jl=%s", baseURL, jobID)

	if _, err := d.page.Goto(jobURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(scraper.TimeoutMs(ctx, d.cfg.JobTimeout())),
	}); err != nil {
		return nil, fmt.Errorf("failed to load job page %s: %w", jobID, err)
	}

	if err := handleAntiBot(d.page, d.debugger); err != nil {
		return nil, err
	}

	if _, err := d.page.WaitForSelector(`div[data-test="jobDescriptionContent"], .jobDescriptionContent`, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(scraper.TimeoutMs(ctx, 10*time.Second)),
	}); err != nil {
		return &models.JobDetail{ID: jobID}, nil
	}

	description := innerText(d.page.Locator(`div[data-test="jobDescriptionContent"]`).First())
	if description == "" {
		description = innerText(d.page.Locator(".jobDescriptionContent").First())
	}

	title := innerText(d.page.Locator(`h1[data-test="job-title"]`).First())
	company := innerText(d.page.Locator(`h4[data-test="employer-name"]`).First())

	return &models.JobDetail{
		ID:          jobID,
		Description: description,
		Title:       title,
		Company:     company,
		JobClass:    classify.JobClass(title, description),
	}, nil
}

func (d *DetailScraper) Close() {
	if d.page != nil {
		d.page.Close()
	}
	if d.browserCtx != nil {
		d.browserCtx.Close()
	}
}
