package jobsdb

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go-jobscraper/internal/browser"
	"go-jobscraper/internal/classify"
	"go-jobscraper/internal/config"
	"go-jobscraper/internal/models"
	"go-jobscraper/internal/scraper"

	"github.com/playwright-community/playwright-go"
)

const baseURL = "https://hk.jobsdb.com/"

//search path segments, mirrors the site URL scheme
var jobCategories = map[string]string{
	"software": "information-communication-technology",
	"finance":  "accounting-finance",
}

var jobTypes = map[string]string{
	"full_time": "full-time",
	"part_time": "part-time",
	"contract":  "contract-temp",
	"casual":    "casual-vacation",
}

var sortModes = map[string]string{
	"listed_date": "ListedDate",
	"relevance":   "KeywordRelevance",
}

type JobsDBScraper struct {
	cfg config.ScraperConfig
}

func NewJobsDBScraper(cfg config.ScraperConfig) *JobsDBScraper {
	return &JobsDBScraper{cfg: cfg}
}

func (s *JobsDBScraper) Name() string {
	return "JobsDB"
}

// searchFilters resolves the category/type/sortmode flags into URL
// segments. Unknown values are an error instead of a panic so a typo on
// the CLI fails cleanly.
func searchFilters(jobCategory, jobType, sortMode string) (string, string, string, error) {
	categoryPath, ok := jobCategories[jobCategory]
	if !ok {
		return "", "", "", fmt.Errorf("unknown job category %q", jobCategory)
	}

	jobTypePath := ""
	if jobType != "" {
		jobTypePath, ok = jobTypes[jobType]
		if !ok {
			return "", "", "", fmt.Errorf("unknown job type %q", jobType)
		}
	}

	if sortMode == "" {
		sortMode = "listed_date"
	}
	sortModeValue, ok := sortModes[sortMode]
	if !ok {
		return "", "", "", fmt.Errorf("unknown sort mode %q", sortMode)
	}

	return categoryPath, jobTypePath, sortModeValue, nil
}

func (s *JobsDBScraper) Search(ctx context.Context, page playwright.Page, params scraper.SearchParams) ([]models.Job, error) {
	log.Println("📋 Searching JobsDB...")

	jobCategory := params.JobCategory
	if jobCategory == "" {
		jobCategory = "software"
	}

	categoryPath, jobTypePath, sortModeValue, err := searchFilters(jobCategory, params.JobType, params.SortMode)
	if err != nil {
		return nil, err
	}

	//construct URL: /jobs-in-<category>[/<job-type>]?sortmode=...&page=N
	searchURL := fmt.Sprintf("%sjobs-in-%s", baseURL, categoryPath)
	if jobTypePath != "" {
		searchURL += "/" + jobTypePath
	}
	searchURL += fmt.Sprintf("?sortmode=%s&page=%d", sortModeValue, params.Page)

	log.Printf("  🌐 Visiting: %s", searchURL)
	if _, err := page.Goto(searchURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(scraper.TimeoutMs(ctx, 30*time.Second)),
	}); err != nil {
		return nil, fmt.Errorf("failed to load search page: %w", err)
	}

	//wait for job cards
	if _, err := page.WaitForSelector("article[data-job-id]", playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(15000),
	}); err != nil {
		log.Println("    ⚠️ Job cards not found or empty page.")
		return nil, nil
	}

	browser.RandomDelay(s.cfg.DelayMinMs, s.cfg.DelayMaxMs)
	browser.HumanScroll(page)

	cards, err := page.Locator("article[data-job-id]").All()
	if err != nil {
		return nil, fmt.Errorf("failed to locate job cards: %w", err)
	}
	log.Printf("    📄 Found %d job cards.", len(cards))

	var jobs []models.Job
	for _, card := range cards {
		job, err := s.parseJobCard(card, jobCategory, params.JobType)
		if err != nil {
			log.Printf("    ⚠️ Error parsing job card: %v", err)
			continue
		}
		if job != nil {
			jobs = append(jobs, *job)
		}
	}

	log.Printf("    ✅ Parsed %d/%d jobs.", len(jobs), len(cards))
	return jobs, nil
}

func (s *JobsDBScraper) parseJobCard(card playwright.Locator, jobCategory, jobType string) (*models.Job, error) {
	jobID, err := card.GetAttribute("data-job-id")
	if err != nil || jobID == "" {
		return nil, fmt.Errorf("job card without data-job-id")
	}

	title := textOrDefault(card.Locator("h3 a").First(), "Unknown Title")
	company := textOrDefault(card.Locator(`a[data-automation="jobCompany"]`).First(), "Unknown Company")
	location := textOrDefault(card.Locator(`span[data-automation="jobLocation"]`).First(), "Unknown Location")
	salary := textOrDefault(card.Locator(`span[data-automation="jobSalary"]`).First(), "")
	postedDate := textOrDefault(card.Locator(`span[data-automation="jobListingDate"]`).First(), "")

	jobClass := jobCategory
	if jobClass == "" {
		jobClass = classify.JobClass(title, "")
	}

	return &models.Job{
		ID:                jobID,
		Title:             title,
		Company:           company,
		Location:          location,
		SalaryDescription: salary,
		DatePosted:        postedDate,
		DateScraped:       time.Now().UTC(),
		Source:            "JobsDB",
		JobClass:          jobClass,
		WorkType:          jobType,
	}, nil
}

func textOrDefault(loc playwright.Locator, fallback string) string {
	count, err := loc.Count()
	if err != nil || count == 0 {
		return fallback
	}
	text, err := loc.InnerText()
	if err != nil {
		return fallback
	}
	cleaned := strings.Join(strings.Fields(text), " ")
	if cleaned == "" {
		return fallback
	}
	return cleaned
}

// DetailScraper fetches one job posting at a time. Each instance owns an
// isolated browser context so pipeline workers never contend on a page.
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
	jobURL := fmt.Sprintf("%sjob/%s", baseURL, jobID)

	if _, err := d.page.Goto(jobURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(scraper.TimeoutMs(ctx, d.cfg.JobTimeout())),
	}); err != nil {
		return nil, fmt.Errorf("failed to load job page %s: %w", jobID, err)
	}

	//wait for the ad body and fail fast when it never renders
	if _, err := d.page.WaitForSelector(`div[data-automation="jobAdDetails"], .job-description`, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(scraper.TimeoutMs(ctx, 10*time.Second)),
	}); err != nil {
		//expired or removed listing: no description, not an error
		return &models.JobDetail{ID: jobID}, nil
	}

	description := textOrDefault(d.page.Locator(`div[data-automation="jobAdDetails"]`).First(), "")
	if description == "" {
		description = textOrDefault(d.page.Locator(".job-description").First(), "")
	}

	title := textOrDefault(d.page.Locator(`h1[data-automation="job-detail-title"]`).First(), "")
	company := textOrDefault(d.page.Locator(`span[data-automation="advertiser-name"]`).First(), "")

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
