package main

import (
	"testing"
	"time"

	"github.com/kidwell/api-backend/internal/config"
)

func TestWriteTimeout(t *testing.T) {
	tests := []struct {
		name   string
		advice config.AdviceConfig
		want   time.Duration
	}{
		{
			name:   "single attempt",
			advice: config.AdviceConfig{Timeout: 30 * time.Second, RetryBaseDelay: 500 * time.Millisecond},
			want:   30*time.Second + 15*time.Second + 15*time.Second,
		},
		{
			// backoff 1s + 2s + 4s plus 10% jitter
			name:   "three retries",
			advice: config.AdviceConfig{Timeout: 10 * time.Second, MaxRetries: 3, RetryBaseDelay: time.Second},
			want:   40*time.Second + 7700*time.Millisecond + 15*time.Second + 15*time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := writeTimeout(tt.advice); got != tt.want {
				t.Errorf("writeTimeout() = %v, want %v", got, tt.want)
			}
		})
	}
}
