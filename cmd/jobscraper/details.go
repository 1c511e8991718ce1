package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"go-jobscraper/internal/browser"
	"go-jobscraper/internal/config"
	"go-jobscraper/internal/database"
	"go-jobscraper/internal/notify"
	"go-jobscraper/internal/pipeline"
	"go-jobscraper/internal/scraper"
)

type detailsFlags struct {
	source   string
	ids      []string
	startID  int64
	endID    int64
	quantity int
	workers  int
	save     bool
	notify   bool
}

func createDetailsCommand(ctx context.Context) *cobra.Command {
	flags := &detailsFlags{}

	cmd := &cobra.Command{
		Use:   "details",
		Short: "Backfill full job descriptions with a concurrent worker pool",
		Long: `details selects job ids (an explicit list, an internal-id range, or the
oldest jobs still missing a description), splits them across workers and
scrapes each job's full posting. Failed jobs get a sentinel description
so the next missing-description run picks them up again.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetails(ctx, flags)
		},
	}

	cmd.Flags().StringVar(&flags.source, "source", "jobsdb", "platform to scrape details from (jobsdb, linkedin, glassdoor, indeed)")
	cmd.Flags().StringSliceVar(&flags.ids, "ids", nil, "explicit job ids to scrape")
	cmd.Flags().Int64Var(&flags.startID, "start-id", 0, "first internal id of the range to scrape")
	cmd.Flags().Int64Var(&flags.endID, "end-id", 0, "last internal id of the range to scrape")
	cmd.Flags().IntVar(&flags.quantity, "quantity", pipeline.DefaultQuantity, "how many missing-description jobs to scrape")
	cmd.Flags().IntVar(&flags.workers, "workers", 5, "number of concurrent workers")
	cmd.Flags().BoolVar(&flags.save, "save", false, "persist scraped descriptions to the database")
	cmd.Flags().BoolVar(&flags.notify, "notify", false, "send the run summary to the telegram channel")

	return cmd
}

func runDetails(ctx context.Context, flags *detailsFlags) error {
	cfg := config.Load()
	cfg.RequireDatabase()

	platform, err := scraper.ParsePlatform(flags.source)
	if err != nil {
		return err
	}

	var mgr *browser.Manager
	if platform.UsesBrowser() {
		mgr, err = browser.NewManager(cfg.Scraper)
		if err != nil {
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer mgr.Close()
	}

	newScraper, err := newDetailScraperFactory(platform, cfg.Scraper, mgr)
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		Save:       flags.save,
		Workers:    flags.workers,
		DelayMin:   cfg.Scraper.DelayMin(),
		DelayMax:   cfg.Scraper.DelayMax(),
		JobTimeout: cfg.Scraper.JobTimeout(),
		NewStore: func(ctx context.Context) (pipeline.Store, error) {
			repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
			if err != nil {
				return nil, err
			}
			return repo, nil
		},
		NewScraper: newScraper,
	}

	criteria := pipeline.Criteria{
		IDs:      flags.ids,
		StartID:  flags.startID,
		EndID:    flags.endID,
		Quantity: flags.quantity,
	}

	var bot *notify.Bot
	if flags.notify && cfg.TelegramToken != "" {
		bot, err = notify.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("⚠️ Telegram bot unavailable: %v", err)
			bot = nil
		}
	}

	stats, err := pipeline.Run(ctx, criteria, opts)
	if err != nil {
		if bot != nil {
			if serr := bot.SendError(err); serr != nil {
				log.Printf("⚠️ Failed to send error alert: %v", serr)
			}
		}
		return err
	}

	if bot != nil {
		if err := bot.SendRunSummary(stats.Success, stats.Failure); err != nil {
			log.Printf("⚠️ Failed to send run summary: %v", err)
		}
	}

	return nil
}
