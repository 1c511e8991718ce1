// Define the interfaces for all scrapers
// Ensure consistency

package scraper

import (
	"context"
	"fmt"

	"go-jobscraper/internal/models"

	"github.com/playwright-community/playwright-go"
)

// SearchParams carries the listing-search criteria shared by every
// platform. Fields a platform does not support are ignored by it.
type SearchParams struct {
	Query       string
	Location    string
	JobCategory string
	JobType     string
	SortMode    string
	Page        int
}

//Scraper defines the interface that all platform search scrapers must implement
type Scraper interface {
	//Search scrapes one page of job listings from the platform
	Search(ctx context.Context, page playwright.Page, params SearchParams) ([]models.Job, error)

	//Name is the platform name (JobsDB, LinkedIn, ...)
	Name() string
}

// DetailScraper fetches the full posting for one job id. Each pipeline
// worker owns exactly one instance, never shared.
type DetailScraper interface {
	GetJobDetails(ctx context.Context, jobID string) (*models.JobDetail, error)
}

// Platform is the tagged set of supported job boards. Dispatch happens
// through explicit switches on this type; an unrecognized name is a
// typed error, not a runtime lookup failure.
type Platform string

const (
	PlatformJobsDB    Platform = "jobsdb"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformGlassdoor Platform = "glassdoor"
	PlatformIndeed    Platform = "indeed"
)

// UnknownPlatformError reports a platform name outside the supported set.
type UnknownPlatformError struct {
	Name string
}

func (e *UnknownPlatformError) Error() string {
	return fmt.Sprintf("unknown platform %q (supported: jobsdb, linkedin, glassdoor, indeed)", e.Name)
}

func ParsePlatform(name string) (Platform, error) {
	switch Platform(name) {
	case PlatformJobsDB, PlatformLinkedIn, PlatformGlassdoor, PlatformIndeed:
		return Platform(name), nil
	default:
		return "", &UnknownPlatformError{Name: name}
	}
}

// Source is the display name written to the jobs table for this platform.
func (p Platform) Source() string {
	switch p {
	case PlatformJobsDB:
		return "JobsDB"
	case PlatformLinkedIn:
		return "LinkedIn"
	case PlatformGlassdoor:
		return "Glassdoor"
	case PlatformIndeed:
		return "Indeed"
	}
	return string(p)
}

// UsesBrowser reports whether the platform scraper drives a real
// browser. Indeed is plain HTTP, everything else needs playwright.
func (p Platform) UsesBrowser() bool {
	return p != PlatformIndeed
}
