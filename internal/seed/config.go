// Package seed generates synthetic measurement records and loads them into a
// record store or a running fitscore server.
package seed

import "time"

// Defaults used when a Config field is zero.
const (
	DefaultSubjects = 200
	DefaultVisits   = 3
	DefaultStores   = 4
	DefaultWorkers  = 8
	DefaultTimeout  = 30 * time.Second
	DefaultSpan     = 24
)

// Config holds configuration for a seeding run.
type Config struct {
	Subjects int // Number of distinct subjects
	Visits   int // Measurement sessions per subject
	Stores   int // Number of stores records are spread across
	Workers  int // Concurrent writers
	Seed     uint64 // Random seed; equal seeds produce equal records
	Start    time.Time // Earliest measurement; defaults to Span months ago
	Span     int // Months covered by the generated visits
	BaseURL  string // Server base URL for Post
	Timeout  time.Duration // HTTP request timeout
	Output   string // Optional JSON file receiving the generated records
}

func (c Config) withDefaults() Config {
	if c.Subjects <= 0 {
		c.Subjects = DefaultSubjects
	}
	if c.Visits <= 0 {
		c.Visits = DefaultVisits
	}
	if c.Stores <= 0 {
		c.Stores = DefaultStores
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Span <= 0 {
		c.Span = DefaultSpan
	}
	if c.Start.IsZero() {
		c.Start = time.Now().UTC().AddDate(0, -c.Span, 0)
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Stats holds run statistics.
type Stats struct {
	Generated  int
	Submitted  int
	Successful int
	Failed     int
	StartTime  time.Time
	Duration   time.Duration
}
