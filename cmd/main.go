package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/xhad/leaksift/pkg/analysis"
	cfgPkg "github.com/xhad/leaksift/pkg/config"
	"github.com/xhad/leaksift/pkg/llm"
	"github.com/xhad/leaksift/pkg/normalize"
	"github.com/xhad/leaksift/pkg/pipeline"
	"github.com/xhad/leaksift/pkg/store"
	"github.com/xhad/leaksift/server"
)

type Config struct {
	Mode          string
	DBUrl         string
	InputDir      string
	Model         string
	BaseURL       string
	MaxTokens     int
	Temperature   float64
	StartFile     int
	EndFile       int
	CallDelay     int
	ExpectedTotal int
	TopDomains    int
	ServeAddr     string
	Domain        string
	Verbose       bool
}

func main() {
	config := parseFlags()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	if !config.Verbose {
		log = log.Level(zerolog.InfoLevel)
	}

	if err := run(config, log); err != nil {
		log.Fatal().Err(err).Msg("run failed")
	}
}

func parseFlags() Config {
	var config Config
	var configPath string

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&config.Mode, "mode", "parse", "Pass to run: parse, victims, cleanup, locations, prices, stats, top-domains, serve")
	flag.StringVar(&config.DBUrl, "db-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	flag.StringVar(&config.InputDir, "input-dir", "", "Directory of scraped JSON documents")
	flag.StringVar(&config.Model, "model", "", "Completion model to use")
	flag.StringVar(&config.BaseURL, "api-url", os.Getenv("OPENAI_BASE_URL"), "Completion API base URL")
	flag.IntVar(&config.MaxTokens, "max-tokens", 0, "Maximum tokens for completion responses")
	flag.Float64Var(&config.Temperature, "temperature", 0, "Completion temperature")
	flag.IntVar(&config.StartFile, "start-file", 0, "First numbered document to parse")
	flag.IntVar(&config.EndFile, "end-file", 0, "Last numbered document to parse (0 walks the whole directory)")
	flag.IntVar(&config.CallDelay, "call-delay", 0, "Seconds between fallback calls")
	flag.IntVar(&config.ExpectedTotal, "expected-total", 0, "Externally known dataset size for the unparsed statistic")
	flag.IntVar(&config.TopDomains, "top-domains", 0, "How many domains to report")
	flag.StringVar(&config.ServeAddr, "addr", ":8080", "Report server listen address")
	flag.StringVar(&config.Domain, "domain", "", "Domain for the breakdown report")
	flag.BoolVar(&config.Verbose, "verbose", false, "Enable debug logging")
	flag.Parse()

	// Flags win over the config file; the file fills whatever was left unset.
	if cfg, err := cfgPkg.LoadConfig(configPath); err == nil {
		if config.DBUrl == "" {
			config.DBUrl = cfg.Database.URL
		}
		if config.InputDir == "" {
			config.InputDir = cfg.Reader.InputDir
		}
		if config.Model == "" {
			config.Model = cfg.LLM.Model
		}
		if config.BaseURL == "" {
			config.BaseURL = cfg.LLM.BaseURL
		}
		if config.MaxTokens == 0 {
			config.MaxTokens = cfg.LLM.MaxTokens
		}
		if config.Temperature == 0 {
			config.Temperature = cfg.LLM.Temperature
		}
		if config.StartFile == 0 {
			config.StartFile = cfg.Reader.StartFile
		}
		if config.EndFile == 0 {
			config.EndFile = cfg.Reader.EndFile
		}
		if config.CallDelay == 0 {
			config.CallDelay = cfg.Cleanup.CallDelaySeconds
		}
		if config.ExpectedTotal == 0 {
			config.ExpectedTotal = cfg.Report.ExpectedTotal
		}
		if config.TopDomains == 0 {
			config.TopDomains = cfg.Report.TopDomains
		}
	}

	return config
}

func run(config Config, log zerolog.Logger) error {
	ctx := context.Background()

	s, err := store.NewWithConfig(store.StoreConfig{ConnString: config.DBUrl})
	if err != nil {
		return fmt.Errorf("failed to initialize store: %v", err)
	}
	defer s.Close()

	switch config.Mode {
	case "parse", "victims":
		p := pipeline.NewWithConfig(pipeline.PipelineConfig{
			InputDir:     config.InputDir,
			StartFile:    config.StartFile,
			EndFile:      config.EndFile,
			ShowProgress: true,
		}, s, nil, log)

		var stats pipeline.RunStats
		if config.Mode == "parse" {
			stats, err = p.ParseAccounts(ctx)
		} else {
			stats, err = p.ParseVictims(ctx)
		}
		if err != nil {
			return err
		}
		color.Green("\n✓ Processed %d documents (%d skipped, %d malformed, %d rejected)\n",
			stats.Processed, stats.Skipped, stats.ParseFailures, stats.Rejected)

	case "cleanup", "locations", "prices":
		completer, err := llm.NewWithConfig(llm.CompleterConfig{
			Model:       config.Model,
			MaxTokens:   config.MaxTokens,
			Temperature: config.Temperature,
			BaseURL:     config.BaseURL,
			APIKeys:     cfgPkg.APIKeys(),
		})
		if err != nil {
			return fmt.Errorf("failed to initialize completer: %v", err)
		}

		resolver := normalize.NewWithConfig(completer, normalize.ResolverConfig{
			CallDelay: time.Duration(config.CallDelay) * time.Second,
		}, log)
		p := pipeline.NewWithConfig(pipeline.PipelineConfig{
			InputDir:     config.InputDir,
			ShowProgress: true,
		}, s, resolver, log)

		var stats pipeline.RunStats
		switch config.Mode {
		case "cleanup":
			stats, err = p.CleanupRecords(ctx)
		case "locations":
			stats, err = p.CleanupLocations(ctx)
		case "prices":
			stats, err = p.CleanupPrices(ctx)
		}
		if err != nil {
			return err
		}
		rs := resolver.Stats()
		color.Green("\n✓ Updated %d rows (%d fallback calls, %d cache hits, %d rate limited)\n",
			stats.Processed, rs.FallbackCalls, rs.CacheHits, rs.RateLimited)

	case "stats":
		stats, err := s.FetchStats(ctx, config.ExpectedTotal)
		if err != nil {
			return err
		}
		color.Cyan("Identity: %d\nFinancial: %d\nCredential: %d\nTotal: %d\n",
			stats.Identity, stats.Financial, stats.Credential, stats.Total)
		if config.ExpectedTotal > 0 {
			// The complement rests on the externally supplied dataset size,
			// not on anything the store can derive.
			color.Cyan("Unparsed (of expected %d): %d\n", config.ExpectedTotal, stats.Unparsed)
		}

	case "top-domains":
		agg := analysis.New(s)
		top, err := agg.TopDomains(ctx, config.TopDomains)
		if err != nil {
			return err
		}
		for _, dc := range top {
			fmt.Printf("%-40s %d\n", dc.Domain, dc.Count)
		}
		if config.Domain != "" {
			breakdown, err := agg.CompromisesByDomain(ctx, config.Domain)
			if err != nil {
				return err
			}
			color.Cyan("\n%s: %d compromises across %d countries\n",
				breakdown.Domain, breakdown.Count, len(breakdown.Countries))
		}

	case "serve":
		srv := server.NewReportServer(server.Config{
			Addr:          config.ServeAddr,
			ExpectedTotal: config.ExpectedTotal,
			TopDomains:    config.TopDomains,
		}, s, log)
		return srv.ListenAndServe()

	default:
		return fmt.Errorf("unknown mode: %s", config.Mode)
	}

	return nil
}
