package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"go-jobscraper/internal/browser"
	"go-jobscraper/internal/config"
	"go-jobscraper/internal/database"
	"go-jobscraper/internal/scraper"
)

type updateFlags struct {
	source      string
	description string
}

func createUpdateCommand(ctx context.Context) *cobra.Command {
	flags := &updateFlags{}

	cmd := &cobra.Command{
		Use:   "update <job-id>",
		Short: "Update a single job's description, scraping it when not given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(ctx, flags, args[0])
		},
	}

	cmd.Flags().StringVar(&flags.source, "source", "jobsdb", "platform to scrape the description from")
	cmd.Flags().StringVar(&flags.description, "description", "", "description text to store; scraped from the platform when empty")

	return cmd
}

func runUpdate(ctx context.Context, flags *updateFlags, jobID string) error {
	cfg := config.Load()
	cfg.RequireDatabase()

	repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer repo.Close()

	description := flags.description
	if description == "" {
		description, err = scrapeDescription(ctx, cfg, flags.source, jobID)
		if err != nil {
			return err
		}
	}

	updated, err := repo.UpdateJobDescription(ctx, jobID, description)
	if err != nil {
		return err
	}
	if !updated {
		return fmt.Errorf("no job found with ID %s", jobID)
	}

	job, err := repo.GetJobByID(ctx, jobID)
	if err != nil {
		log.Printf("✅ Updated description for job %s (%d chars)", jobID, len(description))
		return nil
	}
	log.Printf("✅ Updated description for %q at %s (%d chars)", job.Title, job.Company, len(description))
	return nil
}

func scrapeDescription(ctx context.Context, cfg *config.Config, source, jobID string) (string, error) {
	platform, err := scraper.ParsePlatform(source)
	if err != nil {
		return "", err
	}

	var mgr *browser.Manager
	if platform.UsesBrowser() {
		mgr, err = browser.NewManager(cfg.Scraper)
		if err != nil {
			return "", fmt.Errorf("failed to start browser: %w", err)
		}
		defer mgr.Close()
	}

	factory, err := newDetailScraperFactory(platform, cfg.Scraper, mgr)
	if err != nil {
		return "", err
	}

	sc, err := factory(ctx)
	if err != nil {
		return "", err
	}
	if c, ok := sc.(interface{ Close() }); ok {
		defer c.Close()
	}

	fetchCtx, cancel := context.WithTimeout(ctx, cfg.Scraper.JobTimeout())
	defer cancel()

	detail, err := sc.GetJobDetails(fetchCtx, jobID)
	if err != nil {
		return "", fmt.Errorf("failed to scrape description for %s: %w", jobID, err)
	}
	if !detail.HasValidDescription() {
		return "", fmt.Errorf("no description found for job %s", jobID)
	}

	return detail.Description, nil
}
