package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := &cobra.Command{
		Use:   "jobscraper",
		Short: "Scrape job listings and full descriptions from the supported job boards",
		Long: `jobscraper collects job listings from JobsDB, LinkedIn, Glassdoor and
Indeed, stores them in Postgres, and backfills full job descriptions
with a concurrent worker pool.`,
		SilenceUsage: true,
	}

	root.AddCommand(createSearchCommand(ctx))
	root.AddCommand(createDetailsCommand(ctx))
	root.AddCommand(createUpdateCommand(ctx))

	if err := root.Execute(); err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}
}
