package linkedin

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go-jobscraper/internal/browser"
	"go-jobscraper/internal/classify"
	"go-jobscraper/internal/config"
	"go-jobscraper/internal/models"
	"go-jobscraper/internal/scraper"

	"github.com/playwright-community/playwright-go"
)

const baseURL = "https://www.linkedin.com/"

//job id inside a listing href, e.g. /jobs/view/software-engineer-at-acme-4329358250
var jobIDRegex = regexp.MustCompile(`-(\d+)(?:\?|$)`)

type LinkedInScraper struct {
	cfg config.ScraperConfig
}

func NewLinkedInScraper(cfg config.ScraperConfig) *LinkedInScraper {
	return &LinkedInScraper{cfg: cfg}
}

func (s *LinkedInScraper) Name() string {
	return "LinkedIn"
}

func (s *LinkedInScraper) Search(ctx context.Context, page playwright.Page, params scraper.SearchParams) ([]models.Job, error) {
	log.Println("💼 Searching LinkedIn Jobs (guest)...")

	query := params.Query
	if query == "" {
		query = "software engineer"
	}

	//guest search endpoint, paged by result offset (25 per page)
	start := (params.Page - 1) * 25
	if start < 0 {
		start = 0
	}
	searchURL := fmt.Sprintf("%sjobs/search?keywords=%s&location=%s&start=%d",
		baseURL, url.QueryEscape(query), url.QueryEscape(params.Location), start)

	log.Printf("  🌐 Visiting: %s", searchURL)
	if _, err := page.Goto(searchURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(scraper.TimeoutMs(ctx, 30*time.Second)),
	}); err != nil {
		return nil, fmt.Errorf("failed to load linkedin search: %w", err)
	}

	if _, err := page.WaitForSelector("ul.jobs-search__results-list li", playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(15000),
	}); err != nil {
		log.Println("    ⚠️ Job list not found or empty.")
		return nil, nil
	}

	browser.RandomDelay(s.cfg.DelayMinMs, s.cfg.DelayMaxMs)
	browser.HumanScroll(page)

	cards, err := page.Locator("ul.jobs-search__results-list li").All()
	if err != nil {
		return nil, fmt.Errorf("failed to locate job cards: %w", err)
	}
	log.Printf("    📄 Found %d potential jobs.", len(cards))

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

func (s *LinkedInScraper) parseJobCard(card playwright.Locator) *models.Job {
	link := card.Locator("a.base-card__full-link").First()
	href, err := link.GetAttribute("href")
	if err != nil || href == "" {
		return nil
	}

	// Normalizing URL by removing query parameters
	// LinkedIn URLs often contain dynamic tracking params (?refId=..., ?trackingId=...)
	// which make the same job appear as different URLs.
	href = strings.Split(href, "?")[0]

	jobID := extractJobID(href)
	if jobID == "" {
		return nil
	}

	title := innerText(card.Locator("h3.base-search-card__title").First())
	company := innerText(card.Locator("h4.base-search-card__subtitle").First())
	location := innerText(card.Locator("span.job-search-card__location").First())
	postedDate := ""
	if dateEl := card.Locator("time").First(); dateEl != nil {
		if dt, err := dateEl.GetAttribute("datetime"); err == nil {
			postedDate = dt
		}
	}

	return &models.Job{
		ID:          jobID,
		Title:       title,
		Company:     company,
		Location:    location,
		DatePosted:  postedDate,
		DateScraped: time.Now().UTC(),
		Source:      "LinkedIn",
		JobClass:    classify.JobClass(title, ""),
	}
}

func extractJobID(href string) string {
	match := jobIDRegex.FindStringSubmatch(href)
	if match == nil {
		return ""
	}
	return match[1]
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

// DetailScraper loads the public job view for one id per call.
type DetailScraper struct {
	cfg        config.ScraperConfig
	browserCtx playwright.BrowserContext
	page       playwright.Page
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

	return &DetailScraper{cfg: cfg, browserCtx: browserCtx, page: page}, nil
}

func (d *DetailScraper) GetJobDetails(ctx context.Context, jobID string) (*models.JobDetail, error) {
	jobURL := fmt.Sprintf("%sjobs/view/%s", baseURL, jobID)

	if _, err := d.page.Goto(jobURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(scraper.TimeoutMs(ctx, d.cfg.JobTimeout())),
	}); err != nil {
		return nil, fmt.Errorf("failed to load job page %s: %w", jobID, err)
	}

	if _, err := d.page.WaitForSelector(".show-more-less-html__markup, .description__text", playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(scraper.TimeoutMs(ctx, 10*time.Second)),
	}); err != nil {
		return &models.JobDetail{ID: jobID}, nil
	}

	//expand the truncated description when the button is present
	showMoreBtn := d.page.Locator("button.show-more-less-html__button--more").First()
	if visible, _ := showMoreBtn.IsVisible(); visible {
		showMoreBtn.Click(playwright.LocatorClickOptions{Force: playwright.Bool(true)})
		time.Sleep(500 * time.Millisecond)
	}

	description := innerText(d.page.Locator(".show-more-less-html__markup").First())
	if description == "" {
		description = innerText(d.page.Locator(".description__text").First())
	}

	title := innerText(d.page.Locator("h1.top-card-layout__title").First())
	company := innerText(d.page.Locator("a.topcard__org-name-link").First())

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
