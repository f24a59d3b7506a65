package main

import (
	"context"
	"io"
	"log/slog"
	"strings"

	reports "github.com/FPI-TW/report-sub000"
	"github.com/FPI-TW/report-sub000/cache"
	"github.com/FPI-TW/report-sub000/internal/api"
	"github.com/FPI-TW/report-sub000/internal/config"
	"github.com/FPI-TW/report-sub000/reporttypes"
	"github.com/FPI-TW/report-sub000/store/miniostore"
	"github.com/FPI-TW/report-sub000/store/s3store"
	"github.com/FPI-TW/report-sub000/urlmap"
)

// loadConfig loads the configuration named by the persistent flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}

// newLogger builds the process logger.
func newLogger(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newStore connects the configured store backend.
func newStore(ctx context.Context, cfg *config.Config) (reporttypes.PageSource, error) {
	sc := cfg.Store
	switch sc.Backend {
	case config.BackendMinio:
		opts := []miniostore.Option{
			miniostore.WithCredentials(sc.AccessKeyID, sc.SecretAccessKey),
			miniostore.WithRegion(sc.Region),
			miniostore.WithSecure(sc.UseSSL),
			miniostore.WithTimeout(cfg.StoreTimeout()),
		}
		if sc.RateLimit > 0 {
			opts = append(opts, miniostore.WithRateLimit(sc.RateLimit, sc.RateBurst))
		}
		return miniostore.New(sc.Endpoint, sc.Bucket, opts...)
	default:
		opts := []s3store.Option{
			s3store.WithRegion(sc.Region),
			s3store.WithEndpoint(sc.Endpoint),
			s3store.WithForcePathStyle(sc.ForcePathStyle),
			s3store.WithTimeout(cfg.StoreTimeout()),
		}
		if sc.AccessKeyID != "" {
			opts = append(opts, s3store.WithStaticCredentials(sc.AccessKeyID, sc.SecretAccessKey, ""))
		}
		if sc.RateLimit > 0 {
			opts = append(opts, s3store.WithRateLimit(sc.RateLimit, sc.RateBurst))
		}
		return s3store.New(ctx, sc.Bucket, opts...)
	}
}

// newClient builds the listing client over source.
func newClient(source reporttypes.PageSource, cfg *config.Config, logger *slog.Logger) (*reports.Client, error) {
	opts := []reporttypes.Option{
		reports.WithMaxKeys(cfg.Listing.MaxKeys),
		reports.WithMaxPages(cfg.Listing.MaxPages),
		reports.WithLogger(logger),
	}
	if cfg.Listing.BaseURL != "" {
		opts = append(opts, reports.WithURLMapper(urlmap.BaseURL(cfg.Listing.BaseURL)))
	}
	if cfg.Listing.DatePolicy == "last" {
		opts = append(opts, reports.WithDatePolicy(reporttypes.DateLastMatch))
	}
	if cfg.Cache.Enabled {
		opts = append(opts,
			reports.WithCache(cache.New(cfg.CacheTTL(), cfg.Cache.MaxSize)),
			reports.WithLoadTimeout(cfg.RequestTimeout()),
		)
	}
	return reports.New(source, opts...)
}

// apiOptions converts configuration scopes into router options.
func apiOptions(cfg *config.Config, logger *slog.Logger) api.Options {
	scopes := make(map[string]api.Scope, len(cfg.Scopes))
	for name, sc := range cfg.Scopes {
		scopes[name] = api.Scope{Prefix: sc.Prefix, FileTypes: sc.FileTypes}
	}
	return api.Options{
		Scopes:         scopes,
		DefaultMonths:  cfg.Listing.DefaultMonths,
		RequestTimeout: cfg.RequestTimeout(),
		Logger:         logger,
	}
}
