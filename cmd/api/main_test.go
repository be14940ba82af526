package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtfinder/config"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testConfig() *config.Config {
	return &config.Config{
		Environment:      "test",
		Port:             "0",
		ServiceName:      "courtfinder",
		ATCBaseURL:       "http://localhost:4000",
		UpstreamTimeout:  time.Second,
		EventBusProvider: "log",
		EventConsumer:    "none",
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*config.Config)
		cancelled bool
		wantErr   string
	}{
		{name: "relative upstream url", mutate: func(c *config.Config) { c.ATCBaseURL = "/atc" }, wantErr: "upstream client init"},
		{name: "listener fails", mutate: func(c *config.Config) { c.Port = "-1" }, wantErr: "server:"},
		{name: "stops cleanly when cancelled", cancelled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			ctx, cancel := context.WithCancel(context.Background())
			if tt.cancelled {
				cancel()
			} else {
				defer cancel()
			}

			done := make(chan error, 1)
			go func() { done <- run(ctx, cfg, testLogger) }()

			select {
			case err := <-done:
				if tt.wantErr == "" {
					assert.NoError(t, err)
					return
				}
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			case <-time.After(5 * time.Second):
				t.Fatal("run did not return")
			}
		})
	}
}
