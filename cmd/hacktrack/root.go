package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KOFI-GYIMAH/hacktrack/internal/cache"
	"github.com/KOFI-GYIMAH/hacktrack/internal/github"
	"github.com/KOFI-GYIMAH/hacktrack/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	token     string
	apiURL    string
	timeout   time.Duration
	perMinute int
	cacheSize int
	redisURL  string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:     "hacktrack",
	Short:   "Snapshot GitHub commit history with line and file totals",
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetLevel(logger.LevelDebug)
		} else {
			logger.SetLevel(logger.LevelWarn)
		}
	},
	SilenceUsage: true,
}

func Execute() {
	_ = godotenv.Load(".env")

	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("GITHUB_TOKEN"), "GitHub token (defaults to $GITHUB_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", github.DefaultBaseURL, "GitHub REST API base URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", github.DefaultTimeout, "Per-request timeout")
	rootCmd.PersistentFlags().IntVar(&perMinute, "requests-per-minute", 0, "Client-side request pacing (0 = unpaced)")
	rootCmd.PersistentFlags().IntVar(&cacheSize, "cache-size", 0, "Blob cache entries (0 = unbounded)")
	rootCmd.PersistentFlags().StringVar(&redisURL, "redis-url", os.Getenv("REDIS_URL"), "Shared blob cache (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(analyzeCmd, overviewCmd, rateLimitCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newClient() *github.Client {
	return github.NewClient(token,
		github.WithBaseURL(apiURL),
		github.WithTimeout(timeout),
		github.WithRequestsPerMinute(perMinute),
	)
}

func newAnalyzer() (*github.Analyzer, error) {
	blobCache, err := cache.Open(cacheSize, redisURL)
	if err != nil {
		return nil, err
	}
	return github.NewAnalyzer(newClient(), blobCache), nil
}
