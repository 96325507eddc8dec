// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/place-resolver/internal/batch"
	"github.com/pdiddy/place-resolver/internal/cache"
	"github.com/pdiddy/place-resolver/internal/httputil"
	"github.com/pdiddy/place-resolver/internal/output"
	"github.com/pdiddy/place-resolver/internal/places"
	"github.com/pdiddy/place-resolver/internal/publish"
	"github.com/pdiddy/place-resolver/internal/records"
	"github.com/pdiddy/place-resolver/internal/secrets"
	"github.com/pdiddy/place-resolver/pkg/types"
)

const defaultUserAgent = "place-resolver/0.1"

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve Place IDs for every record and write the CSV",
	Long: `Resolve looks up each record in order, prints "<name>: <place id>" per
record, and writes all rows to the output CSV once every lookup has succeeded.
Any failed lookup aborts the run and leaves the output file untouched.
A response status such as REQUEST_DENIED is reported as a warning and the
record takes whatever candidate came back, usually none. --strict makes such
a status abort the run instead.

Records come from the built-in list unless --records names a YAML file.`,
	RunE: runResolve,
}

func init() {
	f := resolveCmd.Flags()
	f.String("records", "", "YAML file of records to resolve (default: built-in list)")
	f.String("output", output.DefaultPath, "CSV file to write (overwritten)")
	f.String("region", places.DefaultRegion, "region inserted between city and zip in each query")
	f.String("endpoint", "", "override the Find Place From Text endpoint URL")
	f.Duration("timeout", places.DefaultTimeout, "per-request timeout")
	f.Int("max-retries", 0, "retries on HTTP 429 (0 = single attempt)")
	f.Bool("strict", false, "abort on a response status other than OK or ZERO_RESULTS")
	f.Duration("delay", 0, "pause between consecutive lookups")
	f.Bool("cache", false, "answer repeat lookups from the local SQLite cache")
	f.String("cache-path", cache.DefaultPath, "cache database file")
	f.Duration("cache-ttl", cache.DefaultTTL, "cache entry lifetime (0 = never expire)")
	f.String("publish-bucket", "", "upload the CSV to this S3 bucket after writing")
	f.String("publish-key", "", "S3 object key (default: output file name)")
	f.String("publish-region", "", "AWS region for the upload")

	for key, flag := range map[string]string{
		"records_file":         "records",
		"output.path":          "output",
		"lookup.region":        "region",
		"lookup.endpoint":      "endpoint",
		"lookup.timeout":       "timeout",
		"lookup.max_retries":   "max-retries",
		"lookup.strict":        "strict",
		"lookup.request_delay": "delay",
		"cache.enabled":        "cache",
		"cache.path":           "cache-path",
		"cache.ttl":            "cache-ttl",
		"publish.bucket":       "publish-bucket",
		"publish.key":          "publish-key",
		"publish.region":       "publish-region",
	} {
		viper.BindPFlag(key, f.Lookup(flag))
	}

	rootCmd.AddCommand(resolveCmd)
}

// runConfigFromViper assembles the run settings from flags, config file and
// environment, in viper's precedence order.
func runConfigFromViper() types.RunConfig {
	return types.RunConfig{
		RecordsFile: viper.GetString("records_file"),
		Lookup: types.LookupConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("lookup.timeout"),
				UserAgent: defaultUserAgent,
			},
			Endpoint:     viper.GetString("lookup.endpoint"),
			Region:       viper.GetString("lookup.region"),
			Fields:       places.DefaultFields,
			MaxRetries:   viper.GetInt("lookup.max_retries"),
			Strict:       viper.GetBool("lookup.strict"),
			RequestDelay: viper.GetDuration("lookup.request_delay"),
		},
		Cache: types.CacheConfig{
			Enabled: viper.GetBool("cache.enabled"),
			Path:    viper.GetString("cache.path"),
			TTL:     viper.GetDuration("cache.ttl"),
		},
		Output: types.OutputConfig{
			Path: viper.GetString("output.path"),
		},
		Publish: types.PublishConfig{
			Bucket: viper.GetString("publish.bucket"),
			Key:    viper.GetString("publish.key"),
			Region: viper.GetString("publish.region"),
		},
	}
}

func runResolve(cmd *cobra.Command, args []string) error {
	httputil.RetryLog = os.Stderr
	return resolve(cmd.Context(), runConfigFromViper(), loadedSecrets, os.Getenv, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// resolve performs one full run. The credential is checked before anything
// else so a missing key never reaches the network or the output file.
func resolve(ctx context.Context, cfg types.RunConfig, loaded map[string]string, getenv func(string) string, stdout, stderr io.Writer) error {
	key, err := secrets.APIKey(getenv, loaded)
	if err != nil {
		return err
	}
	cfg.Lookup.APIKey = key

	recs := records.Default()
	if cfg.RecordsFile != "" {
		if recs, err = records.Load(cfg.RecordsFile); err != nil {
			return err
		}
	}

	client := places.NewClient(cfg.Lookup)
	client.Warn = stderr
	var resolver places.Resolver = client

	var store *cache.Store
	var cached *cache.Resolver
	if cfg.Cache.Enabled {
		store, err = cache.Open(cfg.Cache)
		if err != nil {
			return err
		}
		defer store.Close()
		cached = &cache.Resolver{Store: store, Next: resolver, Region: cfg.Lookup.Region}
		resolver = cached
	}

	res, err := batch.Run(ctx, recs, resolver, batch.Options{
		OutputPath: cfg.Output.Path,
		Delay:      cfg.Lookup.RequestDelay,
	}, stdout)
	if err != nil {
		return err
	}

	if store != nil {
		run := cache.Run{
			ID:         res.RunID,
			StartedAt:  res.StartedAt,
			FinishedAt: res.FinishedAt,
			Records:    res.Total(),
			Resolved:   res.Resolved,
			CacheHits:  cached.Hits,
			OutputPath: res.OutputPath,
		}
		if err := store.RecordRun(ctx, run); err != nil {
			fmt.Fprintf(stderr, "warning: %v\n", err)
		}
		fmt.Fprintf(stderr, "cache: %d of %d lookups answered locally\n", cached.Hits, res.Total())
	}

	if cfg.Publish.Bucket != "" {
		pctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()
		pub, err := publish.New(pctx, cfg.Publish)
		if err != nil {
			return err
		}
		uri, err := pub.Upload(pctx, res.OutputPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Published %s\n", uri)
	}
	return nil
}
