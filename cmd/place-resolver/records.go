package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/place-resolver/internal/places"
	"github.com/pdiddy/place-resolver/internal/records"
	"github.com/pdiddy/place-resolver/pkg/types"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List the records a resolve run would look up",
	Long: `Records prints the record list with the query text each record produces.
It makes no network calls and needs no API key.

Use --export to write the built-in list as a YAML file that can be edited
and passed back with resolve --records.`,
	RunE: runRecords,
}

func init() {
	recordsCmd.Flags().String("records", "", "YAML file of records (default: built-in list)")
	recordsCmd.Flags().String("export", "", "write the list to this YAML file instead of printing it")

	rootCmd.AddCommand(recordsCmd)
}

func runRecords(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("records")
	if path == "" {
		path = viper.GetString("records_file")
	}

	recs := records.Default()
	if path != "" {
		var err error
		if recs, err = records.Load(path); err != nil {
			return err
		}
	}

	if export, _ := cmd.Flags().GetString("export"); export != "" {
		if err := records.Write(export, recs); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", len(recs), export)
		return nil
	}

	region := viper.GetString("lookup.region")
	if region == "" {
		region = places.DefaultRegion
	}
	formatRecordsTable(recs, region, cmd.OutOrStdout())
	return nil
}

func formatRecordsTable(recs []types.PlaceRecord, region string, w io.Writer) {
	fmt.Fprintf(w, "%-3s  %-40s  %-16s  %-5s  %s\n", "#", "Name", "City", "Zip", "Query")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for i, r := range recs {
		fmt.Fprintf(w, "%-3d  %-40s  %-16s  %-5s  %s\n", i+1, truncate(r.Name, 40), r.City, r.Zip, places.BuildQuery(r, region))
	}
	fmt.Fprintf(w, "\n%d records\n", len(recs))
}

// truncate shortens s to at most n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
