// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package records supplies the businesses to resolve: the built-in list of
// Maine cheese shops, or a YAML list loaded from disk.
package records

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/place-resolver/pkg/types"
)

var builtin = []types.PlaceRecord{
	{Name: "Sissle & Daughters", Address: "107 Washington Ave Unit 1", City: "Portland", Zip: "04101", Phone: "(207) 400-5344"},
	{Name: "The Cheese Iron", Address: "200 US Route 1 Suite 300", City: "Scarborough", Zip: "04074", Phone: "(207) 883-4057"},
	{Name: "Nibblesford Cheese Shop", Address: "5 Washington St Suite 1", City: "Biddeford", Zip: "04005", Phone: "(207) 710-2770"},
	{Name: "Smiling Hill Farm (Dairy Store)", Address: "781 County Rd", City: "Westbrook", Zip: "04092", Phone: "(207) 775-4818"},
	{Name: "Board. Wine & Cheese Bar", Address: "5 Shapleigh Rd Suite 108", City: "Kittery", Zip: "03904", Phone: "(207) 438-0300"},
	{Name: "Galley Provisions (Charcuterie & Graze Tables)", Address: "York", City: "York", Zip: "03909", Phone: ""},
	{Name: "Balfour Farm / The Little Cheese Shop", Address: "461 Webb Rd", City: "Pittsfield", Zip: "04967", Phone: "(207) 213-3159"},
	{Name: "State of Maine Cheese Co. / Rockport Marketplace", Address: "461 Commercial St (US Route 1)", City: "Rockport", Zip: "04856", Phone: "(207) 236-8895"},
	{Name: "Five Islands Farm (seasonal market)", Address: "1375 Five Islands Rd", City: "Georgetown", Zip: "04548", Phone: "(207) 371-9383"},
	{Name: "Morning Glory Natural Foods (big wine & cheese selection)", Address: "60 Maine St", City: "Brunswick", Zip: "04011", Phone: "(207) 729-0546"},
	{Name: "Portland Food Co-op", Address: "290 Congress St", City: "Portland", Zip: "04101", Phone: "(207) 805-1599"},
	{Name: "Market at Pineland Farms", Address: "15 Farm View Dr", City: "New Gloucester", Zip: "04260", Phone: "(207) 688-4539"},
	{Name: "Lakin's Gorges Cheese at East Forty Farm", Address: "2361 Friendship Rd (Route 220 S)", City: "Waldoboro", Zip: "04572", Phone: "(207) 230-4318"},
	{Name: "Maine Tasting Center (tasting room & boards)", Address: "506 Old Bath Rd", City: "Wiscasset", Zip: "04578", Phone: "(207) 558-5772"},
	{Name: "Noisy Acres Farm (goat cheese & farm store)", Address: "145 Back Nippen Rd", City: "Buxton", Zip: "04093", Phone: "(207) 608-1816"},
	{Name: "Winter Hill Farm (farmstead creamery & stand)", Address: "35 Hill Farm Rd", City: "Freeport", Zip: "04032", Phone: "(207) 869-5122"},
	{Name: "Broad Arrow Farm Market & Butcher / The Rooting Pig", Address: "33 Benner Rd", City: "Bristol", Zip: "04539", Phone: "(207) 553-0747"},
}

// Default returns a fresh copy of the built-in record list.
func Default() []types.PlaceRecord {
	out := make([]types.PlaceRecord, len(builtin))
	copy(out, builtin)
	return out
}

// fileFormat is the on-disk shape of a record list.
type fileFormat struct {
	Records []types.PlaceRecord `yaml:"records"`
}

// Load reads a YAML record list from path. The file holds a top-level
// "records" sequence; any place_id values in it are ignored.
func Load(path string) ([]types.PlaceRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading records file: %w", err)
	}
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing records file %s: %w", path, err)
	}
	if len(f.Records) == 0 {
		return nil, fmt.Errorf("records file %s contains no records", path)
	}
	for i := range f.Records {
		if strings.TrimSpace(f.Records[i].Name) == "" {
			return nil, fmt.Errorf("records file %s: record %d has no name", path, i+1)
		}
		f.Records[i].PlaceID = ""
	}
	return f.Records, nil
}

// Write saves recs as a YAML record list that Load can read back.
func Write(path string, recs []types.PlaceRecord) error {
	data, err := yaml.Marshal(&fileFormat{Records: recs})
	if err != nil {
		return fmt.Errorf("marshaling records: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
