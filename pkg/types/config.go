package types

import "time"

// HTTPConfig holds shared HTTP settings for requests to the places service.
type HTTPConfig struct {
	// Timeout is the per-request ceiling (default 10s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "place-resolver/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// LookupConfig holds settings for the Find Place From Text lookup.
type LookupConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is the places API credential. It is never written to config
	// output; it comes from the environment or the secrets directory.
	APIKey string `json:"-" yaml:"-"`

	// Endpoint overrides the lookup URL. Empty uses the public endpoint.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	// Region is inserted between city and zip in the query text (default "ME").
	Region string `json:"region" yaml:"region"`

	// Fields is the comma-separated field mask requested from the service.
	Fields string `json:"fields" yaml:"fields"`

	// MaxRetries is the number of retries on HTTP 429. Zero means a single
	// attempt per record.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Strict makes a body status other than OK or ZERO_RESULTS a fatal
	// error. By default such a status is reported as a warning and the
	// record gets whatever candidate the response carried.
	Strict bool `json:"strict" yaml:"strict"`

	// RequestDelay is the pause between consecutive lookups (default none).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`
}

// CacheConfig holds settings for the optional SQLite lookup cache.
type CacheConfig struct {
	// Enabled turns on the cache. Disabled by default: every run queries the
	// service for every record.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the SQLite database file (default ".place-resolver/cache.db").
	Path string `json:"path" yaml:"path"`

	// TTL is how long a cached answer stays valid. Zero means forever.
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// OutputConfig holds settings for the CSV output.
type OutputConfig struct {
	// Path is the CSV file to write. An existing file is overwritten.
	Path string `json:"path" yaml:"path"`
}

// PublishConfig holds settings for the optional S3 upload of the CSV.
type PublishConfig struct {
	// Bucket is the destination bucket. Empty disables publishing.
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`

	// Key is the object key. Empty uses the output file's base name.
	Key string `json:"key,omitempty" yaml:"key,omitempty"`

	// Region overrides the AWS region from the default credential chain.
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
}

// RunConfig groups all settings for a resolve run.
type RunConfig struct {
	RecordsFile string        `json:"records_file,omitempty" yaml:"records_file,omitempty"`
	Lookup      LookupConfig  `json:"lookup" yaml:"lookup"`
	Cache       CacheConfig   `json:"cache" yaml:"cache"`
	Output      OutputConfig  `json:"output" yaml:"output"`
	Publish     PublishConfig `json:"publish" yaml:"publish"`
}
