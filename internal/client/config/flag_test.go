package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected  *Config
		name      string
		args      []string
		expectErr bool
	}{
		{name: "Test1 OK", args: []string{"-a", "https://shop.example", "-t", "20", "-d", "/tmp/d", "-l", "debug"},
			expected: &Config{BackendURL: "https://shop.example", HTTPTimeout: 20 * time.Second, DataDir: "/tmp/d", LogLevel: "debug"}},
		{name: "Test2 foreign flags ignored", args: []string{"-c", "x.json", "-a", "https://shop.example", "-z"},
			expected: &Config{BackendURL: "https://shop.example"}},
		{name: "Test3 incorrect timeout", args: []string{"-t", "abc"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}
			err := parseFlags(config, tt.args)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(config, tt.expected))
		})
	}
}
