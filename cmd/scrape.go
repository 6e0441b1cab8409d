package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ikihsan/location-companyemails/internal/crawler"
	"github.com/ikihsan/location-companyemails/internal/discovery"
	"github.com/ikihsan/location-companyemails/internal/model"
	"github.com/ikihsan/location-companyemails/internal/output"
)

var (
	scrapeLocations   []string
	scrapeRoles       []string
	scrapeMax         int
	scrapeConcurrency int
	scrapeOutputDir   string
	scrapeHeadless    bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Discover hiring companies and extract recruiter emails",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		roles := scrapeRoles
		if len(roles) == 0 {
			roles = cfg.Roles.Default
		}
		maxCompanies := scrapeMax
		if maxCompanies <= 0 {
			maxCompanies = cfg.Discovery.MaxCompanies
		}
		concurrency := scrapeConcurrency
		if concurrency <= 0 {
			concurrency = cfg.Discovery.Concurrency
		}
		outDir := scrapeOutputDir
		if outDir == "" {
			outDir = cfg.Output.Dir
		}
		if scrapeHeadless {
			zap.L().Warn("headless rendering is not implemented; using plain fetches")
		}

		st, err := newStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		writer, err := output.NewWriter(outDir)
		if err != nil {
			return err
		}

		fetcher := newFetcher()
		reg, err := newRegistry(fetcher)
		if err != nil {
			return err
		}
		engine := discovery.NewEngine(reg)
		cr := crawler.New(fetcher, crawler.Config{
			MaxDepth:    cfg.Crawl.MaxDepth,
			MaxPages:    cfg.Crawl.MaxPages,
			Concurrency: cfg.Crawl.Concurrency,
		})

		run, err := st.CreateRun(ctx, scrapeLocations, roles)
		if err != nil {
			return err
		}
		zap.L().Info("run started",
			zap.String("run_id", run.ID),
			zap.Strings("locations", scrapeLocations),
			zap.Strings("roles", roles))

		started := time.Now()
		var all []model.CompanyRecord
		outputFiles := make(map[string]string)

		for _, location := range scrapeLocations {
			if ctx.Err() != nil {
				break
			}

			companies, err := engine.Run(ctx, discovery.DiscoverRequest{
				Location:    location,
				Roles:       roles,
				MaxResults:  maxCompanies,
				Concurrency: concurrency,
			})
			if err != nil && ctx.Err() == nil {
				_ = st.FailRun(ctx, run.ID, err)
				return err
			}

			ptrs := make([]*model.CompanyRecord, len(companies))
			for i := range companies {
				ptrs[i] = &companies[i]
			}
			if err := cr.EnrichAll(ctx, ptrs); err != nil && ctx.Err() == nil {
				_ = st.FailRun(ctx, run.ID, err)
				return err
			}
			all = append(all, companies...)
			if ctx.Err() != nil {
				break
			}

			paths, err := writer.SaveAll(ptrs, location)
			if err != nil {
				_ = st.FailRun(ctx, run.ID, err)
				return err
			}
			for format, path := range paths {
				key := format
				if len(scrapeLocations) > 1 {
					key = location + " " + format
				}
				outputFiles[key] = path
			}

			if err := st.ArchiveCompanies(ctx, run.ID, companies); err != nil {
				zap.L().Warn("archiving companies failed",
					zap.String("run_id", run.ID), zap.Error(err))
			}
		}

		summary := buildSummary(scrapeLocations, roles, all, outputFiles, time.Since(started))

		if ctx.Err() != nil {
			ptrs := make([]*model.CompanyRecord, len(all))
			for i := range all {
				ptrs[i] = &all[i]
			}
			if _, err := writer.FlushPartial(ptrs, strings.Join(scrapeLocations, ", ")); err != nil {
				zap.L().Error("partial flush failed", zap.Error(err))
			}
			// The run context is gone; give the store a moment to record
			// the interruption.
			saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := st.CompleteRun(saveCtx, run.ID, model.RunStatusInterrupted, summary); err != nil {
				zap.L().Error("marking run interrupted failed", zap.Error(err))
			}
			return eris.New("run interrupted")
		}

		if err := st.CompleteRun(ctx, run.ID, model.RunStatusComplete, summary); err != nil {
			return err
		}

		fmt.Printf("Run %s complete: %d companies, %d with emails, %d emails total (%.1fs)\n",
			run.ID, summary.CompaniesDiscovered, summary.CompaniesWithEmails,
			summary.TotalEmails, summary.ElapsedSeconds)
		return nil
	},
}

func buildSummary(locations, roles []string, companies []model.CompanyRecord, files map[string]string, elapsed time.Duration) *model.RunSummary {
	withEmails, totalEmails := 0, 0
	for i := range companies {
		if n := len(companies[i].Emails); n > 0 {
			withEmails++
			totalEmails += n
		}
	}
	return &model.RunSummary{
		Locations:           locations,
		Roles:               roles,
		CompaniesDiscovered: len(companies),
		CompaniesWithEmails: withEmails,
		TotalEmails:         totalEmails,
		OutputFiles:         files,
		ElapsedSeconds:      elapsed.Seconds(),
	}
}

func init() {
	scrapeCmd.Flags().StringSliceVar(&scrapeLocations, "location", nil, "target location (repeatable)")
	scrapeCmd.Flags().StringSliceVar(&scrapeRoles, "role", nil, "target role (repeatable, defaults from config)")
	scrapeCmd.Flags().IntVar(&scrapeMax, "max-companies", 0, "unique company cap per location (default from config)")
	scrapeCmd.Flags().IntVar(&scrapeConcurrency, "concurrency", 0, "discovery worker count (default from config)")
	scrapeCmd.Flags().StringVar(&scrapeOutputDir, "output-dir", "", "artifact directory (default from config)")
	scrapeCmd.Flags().BoolVar(&scrapeHeadless, "headless", false, "use a headless browser for JS-heavy sources")
	_ = scrapeCmd.MarkFlagRequired("location")
	rootCmd.AddCommand(scrapeCmd)
}
