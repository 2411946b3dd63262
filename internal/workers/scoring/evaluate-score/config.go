// internal/workers/scoring/evaluate-score/config.go
package evaluatescore

import "time"

type Config struct {
	Timeout time.Duration
	// RejectGroupConflicts fails the job when selectedFactors names two
	// members of one exclusive group instead of keeping the later one.
	RejectGroupConflicts bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
