// Package loadgen drives a running teamfit server with randomized requests
// and checks that identical requests always get identical answers.
package loadgen

import (
	"errors"
	"fmt"
	"time"
)

// Defaults applied by NewConfig.
const (
	DefaultBaseURL  = "http://localhost:9080"
	DefaultProfiles = 200
	DefaultCalls    = 1000
	DefaultWorkers  = 10
	DefaultRepeat   = 0.25
	DefaultTimeout  = 30 * time.Second
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid load test config")

// Config holds configuration for a load test run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Profiles int           // Profiles to generate and upload
	Calls    int           // Engine requests to send
	Workers  int           // Concurrent requests in flight
	Repeat   float64       // Share of calls that repeat an earlier call
	Seed     uint64        // Seed for the request generator
	Timeout  time.Duration // HTTP request timeout
	// OutputFile optionally receives the generated calls as JSON.
	OutputFile string
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	return &Config{
		BaseURL:  DefaultBaseURL,
		Profiles: DefaultProfiles,
		Calls:    DefaultCalls,
		Workers:  DefaultWorkers,
		Repeat:   DefaultRepeat,
		Seed:     1,
		Timeout:  DefaultTimeout,
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return fmt.Errorf("%w: base url must not be empty", ErrInvalidConfig)
	case c.Profiles < minProfiles:
		return fmt.Errorf("%w: need at least %d profiles", ErrInvalidConfig, minProfiles)
	case c.Calls < 1:
		return fmt.Errorf("%w: calls must be positive", ErrInvalidConfig)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	case c.Repeat < 0 || c.Repeat > 1:
		return fmt.Errorf("%w: repeat %.2f outside [0,1]", ErrInvalidConfig, c.Repeat)
	case c.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// Stats holds run statistics.
type Stats struct {
	ProfilesSeeded int            `json:"profiles_seeded"`
	CallsGenerated int            `json:"calls_generated"`
	CallsRepeated  int            `json:"calls_repeated"`
	CallsSent      int            `json:"calls_sent"`
	Succeeded      int            `json:"succeeded"`
	Rejected       int            `json:"rejected"` // 4xx answers
	Failed         int            `json:"failed"`   // transport errors and 5xx answers
	Mismatches     int            `json:"mismatches"`
	ByOp           map[string]int `json:"by_op"`
	StartTime      time.Time      `json:"start_time"`
	EndTime        time.Time      `json:"end_time"`
	Duration       time.Duration  `json:"duration_ns"`
}
