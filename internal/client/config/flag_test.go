package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		name        string
		args        []string
		expectPanic bool
		expected    Config
	}{
		{
			name: "all flags set",
			args: []string{"cmd", "-d", "postgres://x:5432/y", "-l", "alt.db", "-p", "https://push.example", "-t", "20"},
			expected: Config{
				RemoteDSN:      "postgres://x:5432/y",
				LocalDBPath:    "alt.db",
				PushGatewayURL: "https://push.example",
				RemoteTimeout:  20 * time.Second,
			},
		},
		{
			name:        "incorrect timeout",
			args:        []string{"cmd", "-t", "abc"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}

			require.NotPanics(t, func() { parseFlags(config) })
			assert.Equal(t, tt.expected, *config)
		})
	}
}
