// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/place-resolver/internal/cache"
	"github.com/pdiddy/place-resolver/pkg/types"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the local lookup cache",
	Long: `Cache manages the SQLite database that resolve --cache uses to answer
repeat lookups without the network. It also holds a log of resolve runs.`,
}

// --- stats subcommand ---

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache size and recent runs",
	RunE:  runCacheStats,
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	store, err := cache.Open(cacheConfigFromViper())
	if err != nil {
		return err
	}
	defer store.Close()

	recent, _ := cmd.Flags().GetInt("runs")
	st, err := store.Stats(cmd.Context(), recent)
	if err != nil {
		return err
	}
	formatCacheStats(st, cmd.OutOrStdout())
	return nil
}

func formatCacheStats(st cache.Stats, w io.Writer) {
	fmt.Fprintf(w, "entries: %d (%d expired)\n", st.Entries, st.Expired)
	if len(st.Runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	fmt.Fprintf(w, "\n%-36s  %-20s  %-8s  %-7s  %-8s  %s\n",
		"Run", "Started", "Records", "Found", "Cached", "Output")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, r := range st.Runs {
		fmt.Fprintf(w, "%-36s  %-20s  %-8d  %-7d  %-8d  %s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Records, r.Resolved, r.CacheHits, r.OutputPath)
	}
}

// --- clear subcommand ---

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached lookups (the run log is kept)",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cache.Open(cacheConfigFromViper())
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Clear(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached lookups\n", n)
		return nil
	},
}

// --- shared helpers ---

func cacheConfigFromViper() types.CacheConfig {
	path := viper.GetString("cache.path")
	if path == "" {
		path = cache.DefaultPath
	}
	ttl := cache.DefaultTTL
	if viper.IsSet("cache.ttl") {
		ttl = viper.GetDuration("cache.ttl")
	}
	return types.CacheConfig{Enabled: true, Path: path, TTL: ttl}
}

func init() {
	cacheStatsCmd.Flags().Int("runs", 10, "number of recent runs to show")

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	rootCmd.AddCommand(cacheCmd)
}
