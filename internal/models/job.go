package models

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"
)

// Job is one listing row in the jobs table. Rows are created by the
// search scrapers and only ever updated in place afterwards; the detail
// pipeline never deletes a job.
type Job struct {
	InternalID        int64     `json:"internal_id"`
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Company           string    `json:"company"`
	Location          string    `json:"location"`
	WorkType          string    `json:"work_type"`
	SalaryDescription string    `json:"salary_description"`
	DatePosted        string    `json:"date_posted"`
	DateScraped       time.Time `json:"date_scraped"`
	Source            string    `json:"source"`
	JobClass          string    `json:"job_class"`
	JobSubclass       string    `json:"job_subclass"`
	Other             string    `json:"other"`
	Remark            string    `json:"remark"`
}

// JobDetail is what a detail fetch for one job id yields. Description is
// the only field every platform fills in; the rest are best-effort.
type JobDetail struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	JobClass    string `json:"job_class"`
}

// SentinelNoDescription marks a job whose detail page had no usable
// description. Writing it keeps the row out of the next
// missing-description selection, so one bad listing is not refetched
// forever.
const SentinelNoDescription = "N/A"

const errorSentinelPrefix = "Error: "

// ErrorSentinel converts a fetch error into the sentinel stored on the
// job row, tagged with the error kind so a later sweep can distinguish
// timeouts from hard scrape failures.
func ErrorSentinel(err error) string {
	var netErr net.Error

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return errorSentinelPrefix + "Timeout"
	case errors.Is(err, context.Canceled):
		return errorSentinelPrefix + "Canceled"
	case errors.As(err, &netErr):
		return errorSentinelPrefix + "Network"
	default:
		return errorSentinelPrefix + "Scrape"
	}
}

// IsSentinel reports whether a stored description is a failure marker
// rather than real content.
func IsSentinel(description string) bool {
	return description == SentinelNoDescription ||
		strings.HasPrefix(description, errorSentinelPrefix)
}

// HasValidDescription reports whether a detail result carries a real,
// non-sentinel description.
func (d *JobDetail) HasValidDescription() bool {
	if d == nil {
		return false
	}
	desc := strings.TrimSpace(d.Description)
	return desc != "" && !IsSentinel(desc)
}
