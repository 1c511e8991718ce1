package main

import (
	"context"
	"fmt"

	"go-jobscraper/internal/browser"
	"go-jobscraper/internal/config"
	"go-jobscraper/internal/pipeline"
	"go-jobscraper/internal/scraper"
	"go-jobscraper/internal/scraper/glassdoor"
	"go-jobscraper/internal/scraper/indeed"
	"go-jobscraper/internal/scraper/jobsdb"
	"go-jobscraper/internal/scraper/linkedin"
)

// Fixed dispatch tables for the supported platforms. Resolution happens
// through scraper.ParsePlatform, so an unknown name is rejected with a
// typed error before anything here runs.

func newSearchScraper(platform scraper.Platform, cfg config.ScraperConfig) scraper.Scraper {
	switch platform {
	case scraper.PlatformJobsDB:
		return jobsdb.NewJobsDBScraper(cfg)
	case scraper.PlatformLinkedIn:
		return linkedin.NewLinkedInScraper(cfg)
	case scraper.PlatformGlassdoor:
		return glassdoor.NewGlassdoorScraper(cfg)
	case scraper.PlatformIndeed:
		return indeed.NewIndeedScraper(cfg)
	}
	return nil
}

// newDetailScraperFactory returns the per-worker constructor for the
// platform's detail scraper. mgr may be nil for platforms that do not
// drive a browser.
func newDetailScraperFactory(platform scraper.Platform, cfg config.ScraperConfig, mgr *browser.Manager) (func(ctx context.Context) (pipeline.DetailScraper, error), error) {
	if platform.UsesBrowser() && mgr == nil {
		return nil, fmt.Errorf("platform %s needs a browser manager", platform)
	}

	switch platform {
	case scraper.PlatformJobsDB:
		return func(ctx context.Context) (pipeline.DetailScraper, error) {
			return jobsdb.NewDetailScraper(cfg, mgr)
		}, nil
	case scraper.PlatformLinkedIn:
		return func(ctx context.Context) (pipeline.DetailScraper, error) {
			return linkedin.NewDetailScraper(cfg, mgr)
		}, nil
	case scraper.PlatformGlassdoor:
		return func(ctx context.Context) (pipeline.DetailScraper, error) {
			return glassdoor.NewDetailScraper(cfg, mgr)
		}, nil
	case scraper.PlatformIndeed:
		return func(ctx context.Context) (pipeline.DetailScraper, error) {
			return indeed.NewIndeedScraper(cfg), nil
		}, nil
	}
	return nil, &scraper.UnknownPlatformError{Name: string(platform)}
}

// searchPlatforms expands the --source flag into the platform list.
func searchPlatforms(source string) ([]scraper.Platform, error) {
	if source == "all" {
		return []scraper.Platform{
			scraper.PlatformJobsDB,
			scraper.PlatformLinkedIn,
			scraper.PlatformGlassdoor,
			scraper.PlatformIndeed,
		}, nil
	}

	platform, err := scraper.ParsePlatform(source)
	if err != nil {
		return nil, err
	}
	return []scraper.Platform{platform}, nil
}
