package cmd

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chadmayfield/weatherd/internal/config"
	"github.com/chadmayfield/weatherd/internal/openweather"
	"github.com/chadmayfield/weatherd/internal/refresh"
	"github.com/chadmayfield/weatherd/internal/weather"
)

var refreshAll bool

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-fetch cached city readings from the provider",
	Long: `refresh walks every city in the cache and re-fetches the ones whose
reading has aged past the freshness window. With --all, every city is
re-fetched regardless of age.`,
	RunE: runRefresh,
}

func init() {
	refreshCmd.Flags().BoolVar(&refreshAll, "all", false, "refresh every city, not just stale ones")
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	setupLogging()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close() //nolint:errcheck

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := openweather.NewClient(cfg.Provider.APIKey, cfg.Provider.BaseURL)
	fetcher := openweather.NewRateLimited(client, cfg.Provider.RateLimitRPS, cfg.Provider.RateLimitBurst)
	svc := weather.NewService(s, fetcher, cfg.CacheTTL(), slog.Default())
	ref := refresh.New(s, svc, cfg.CacheTTL(), cfg.RefreshInterval(), slog.Default())

	refreshed, failed, err := ref.RunOnce(ctx, refreshAll)
	if err != nil {
		return err
	}

	slog.Info("refresh complete", "refreshed", refreshed, "failed", failed)
	return nil
}
