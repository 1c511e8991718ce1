package indeed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-jobscraper/internal/classify"
	"go-jobscraper/internal/config"
	"go-jobscraper/internal/models"
	"go-jobscraper/internal/scraper"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"
)

// Indeed renders its listings server-side, so this scraper runs on plain
// HTTP plus goquery instead of a browser.
type IndeedScraper struct {
	cfg     config.ScraperConfig
	baseURL string
	client  *http.Client
}

func NewIndeedScraper(cfg config.ScraperConfig) *IndeedScraper {
	return &IndeedScraper{
		cfg:     cfg,
		baseURL: "https://www.indeed.com",
		client:  &http.Client{Timeout: cfg.JobTimeout()},
	}
}

func (s *IndeedScraper) Name() string {
	return "Indeed"
}

func (s *IndeedScraper) userAgent() string {
	if len(s.cfg.UserAgents) == 0 {
		return "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36"
	}
	return s.cfg.UserAgents[rand.Intn(len(s.cfg.UserAgents))]
}

func (s *IndeedScraper) fetchDocument(ctx context.Context, rawURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent())
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return doc, nil
}

// Search scrapes one page of Indeed listings. The playwright page
// argument exists only to satisfy the shared Scraper interface and is
// ignored here.
func (s *IndeedScraper) Search(ctx context.Context, _ playwright.Page, params scraper.SearchParams) ([]models.Job, error) {
	log.Println("🔎 Searching Indeed...")

	query := params.Query
	if query == "" {
		query = "software engineer"
	}

	start := (params.Page - 1) * 10
	if start < 0 {
		start = 0
	}
	searchURL := fmt.Sprintf("%s/jobs?q=%s&l=%s&start=%d",
		s.baseURL, url.QueryEscape(query), url.QueryEscape(params.Location), start)

	log.Printf("  🌐 Fetching: %s", searchURL)
	doc, err := s.fetchDocument(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	var jobs []models.Job
	doc.Find("div.job_seen_beacon").Each(func(i int, card *goquery.Selection) {
		job := s.parseJobCard(card)
		if job != nil {
			jobs = append(jobs, *job)
		}
	})

	log.Printf("    ✅ Parsed %d jobs.", len(jobs))
	return jobs, nil
}

func (s *IndeedScraper) parseJobCard(card *goquery.Selection) *models.Job {
	jobID, ok := card.Find("a[data-jk]").First().Attr("data-jk")
	if !ok || jobID == "" {
		return nil
	}

	title := cleanText(card.Find("h2.jobTitle span").First().Text())
	company := cleanText(card.Find(`span[data-testid="company-name"]`).First().Text())
	location := cleanText(card.Find(`div[data-testid="text-location"]`).First().Text())
	salary := cleanText(card.Find(".salary-snippet-container").First().Text())
	postedDate := cleanText(card.Find(`span[data-testid="myJobsStateDate"]`).First().Text())

	return &models.Job{
		ID:                jobID,
		Title:             title,
		Company:           company,
		Location:          location,
		SalaryDescription: salary,
		DatePosted:        postedDate,
		DateScraped:       time.Now().UTC(),
		Source:            "Indeed",
		JobClass:          classify.JobClass(title, ""),
	}
}

// GetJobDetails fetches the viewjob page for one job key. The same
// struct serves as the pipeline detail scraper: HTTP clients are cheap,
// so each worker simply constructs its own IndeedScraper.
func (s *IndeedScraper) GetJobDetails(ctx context.Context, jobID string) (*models.JobDetail, error) {
	jobURL := fmt.Sprintf("%s/viewjob?jk=%s", s.baseURL, url.QueryEscape(jobID))

	doc, err := s.fetchDocument(ctx, jobURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load job %s: %w", jobID, err)
	}

	description := cleanText(doc.Find("#jobDescriptionText").First().Text())
	title := cleanText(doc.Find(`h1[data-testid="jobsearch-JobInfoHeader-title"]`).First().Text())
	company := cleanText(doc.Find(`div[data-testid="inlineHeader-companyName"]`).First().Text())

	return &models.JobDetail{
		ID:          jobID,
		Description: description,
		Title:       title,
		Company:     company,
		JobClass:    classify.JobClass(title, description),
	}, nil
}

func cleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
