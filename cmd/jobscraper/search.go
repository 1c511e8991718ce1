package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/spf13/cobra"

	"go-jobscraper/internal/browser"
	"go-jobscraper/internal/config"
	"go-jobscraper/internal/database"
	"go-jobscraper/internal/dedup"
	"go-jobscraper/internal/models"
	"go-jobscraper/internal/notify"
	"go-jobscraper/internal/scraper"
)

type searchFlags struct {
	source      string
	query       string
	location    string
	jobCategory string
	jobType     string
	sortMode    string
	startPage   int
	endPage     int
	save        bool
	notify      bool
}

func createSearchCommand(ctx context.Context) *cobra.Command {
	flags := &searchFlags{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Scrape job listing pages from one or all platforms",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(ctx, flags)
		},
	}

	cmd.Flags().StringVar(&flags.source, "source", "all", "platform to scrape (jobsdb, linkedin, glassdoor, indeed, all)")
	cmd.Flags().StringVar(&flags.query, "query", "", "search keywords")
	cmd.Flags().StringVar(&flags.location, "location", "", "location filter")
	cmd.Flags().StringVar(&flags.jobCategory, "category", "software", "job category (software, finance)")
	cmd.Flags().StringVar(&flags.jobType, "job-type", "", "job type filter (full_time, part_time, contract, casual)")
	cmd.Flags().StringVar(&flags.sortMode, "sort", "listed_date", "sort mode (relevance, listed_date)")
	cmd.Flags().IntVar(&flags.startPage, "start-page", 1, "first listing page to scrape")
	cmd.Flags().IntVar(&flags.endPage, "end-page", 1, "last listing page to scrape")
	cmd.Flags().BoolVar(&flags.save, "save", false, "persist scraped listings to the database")
	cmd.Flags().BoolVar(&flags.notify, "notify", false, "send new listings to the telegram channel")

	return cmd
}

func runSearch(ctx context.Context, flags *searchFlags) error {
	cfg := config.Load()

	platforms, err := searchPlatforms(flags.source)
	if err != nil {
		return err
	}

	var repo *database.Repository
	if flags.save {
		cfg.RequireDatabase()
		repo, err = database.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer repo.Close()
	}

	cache := dedup.NewJobCache(cfg.CachePath)
	if repo != nil {
		keys, err := repo.ExistingJobIDs(ctx)
		if err != nil {
			log.Printf("⚠️ Could not preload seen jobs from database: %v", err)
		} else {
			cache.AddKeys(keys)
		}
	}

	var bot *notify.Bot
	if flags.notify && cfg.TelegramToken != "" {
		bot, err = notify.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("⚠️ Telegram bot unavailable, continuing without notifications: %v", err)
		}
	}

	var mgr *browser.Manager
	for _, p := range platforms {
		if p.UsesBrowser() {
			mgr, err = browser.NewManager(cfg.Scraper)
			if err != nil {
				return fmt.Errorf("failed to start browser: %w", err)
			}
			defer mgr.Close()
			break
		}
	}

	params := scraper.SearchParams{
		Query:       flags.query,
		Location:    flags.location,
		JobCategory: flags.jobCategory,
		JobType:     flags.jobType,
		SortMode:    flags.sortMode,
	}

	totalFound := 0
	totalSaved := 0

	for _, platform := range platforms {
		sc := newSearchScraper(platform, cfg.Scraper)
		log.Printf("🌐 Scraping %s pages %d-%d", sc.Name(), flags.startPage, flags.endPage)

		var page playwright.Page
		if platform.UsesBrowser() {
			browserCtx, err := mgr.NewContext(loadPlatformCookies(cfg.CookiesPath, platform))
			if err != nil {
				log.Printf("⚠️ %s: failed to create browser context, skipping platform: %v", sc.Name(), err)
				continue
			}

			page, err = browserCtx.NewPage()
			if err != nil {
				browserCtx.Close()
				log.Printf("⚠️ %s: failed to open page, skipping platform: %v", sc.Name(), err)
				continue
			}

			defer browserCtx.Close()
		}

		for pageNum := flags.startPage; pageNum <= flags.endPage; pageNum++ {
			params.Page = pageNum

			jobs, err := sc.Search(ctx, page, params)
			if err != nil {
				log.Printf("⚠️ %s page %d failed: %v", sc.Name(), pageNum, err)
				continue
			}
			totalFound += len(jobs)

			fresh := cache.FilterUnseen(jobs)
			log.Printf("📋 %s page %d: %d jobs (%d new)", sc.Name(), pageNum, len(jobs), len(fresh))

			if len(fresh) == 0 {
				continue
			}

			if repo != nil {
				inserted, err := repo.SaveJobs(ctx, fresh)
				if err != nil {
					log.Printf("⚠️ Failed to save %s jobs: %v", sc.Name(), err)
				} else {
					totalSaved += inserted
				}
			}

			cache.Add(fresh)
			notifyJobs(bot, fresh)
		}
	}

	log.Printf("✅ Search done. Found %d jobs, saved %d new.", totalFound, totalSaved)
	return nil
}

// loadPlatformCookies reads <cookiesPath>/cookies-<platform>.json if it
// exists. Missing cookie files are fine, the platforms work logged out.
func loadPlatformCookies(cookiesPath string, platform scraper.Platform) []playwright.OptionalCookie {
	path := filepath.Join(cookiesPath, fmt.Sprintf("cookies-%s.json", platform))
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	cookies, err := browser.LoadCookies(path)
	if err != nil {
		log.Printf("⚠️ Could not load cookies from %s: %v", path, err)
		return nil
	}
	return cookies
}

func notifyJobs(bot *notify.Bot, jobs []models.Job) {
	if bot == nil {
		return
	}
	for _, job := range jobs {
		if err := bot.SendJob(job); err != nil {
			log.Printf("⚠️ Telegram send failed for %s: %v", job.ID, err)
		}
		// telegram rate limit is roughly one message per second per chat
		time.Sleep(1 * time.Second)
	}
}
