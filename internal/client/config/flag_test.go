package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		name      string
		args      []string
		start     Config
		want      Config
		wantPanic bool
	}{
		{
			name: "address and interval",
			args: []string{"balance", "-a", "chat.example:9090", "-i", "10"},
			want: Config{ServerEndpointAddr: "chat.example:9090", OnlineCheckInterval: 10 * time.Second},
		},
		{
			name: "database and downloads",
			args: []string{"balance", "-f", "/tmp/x.db", "-o", "out", "-i", "3"},
			want: Config{OnlineCheckInterval: 3 * time.Second, DatabasePath: "/tmp/x.db", DownloadsDir: "out"},
		},
		{
			name:  "unset flags keep current values",
			args:  []string{"balance", "-c", "cfg.json", "-o", "files"},
			start: Config{ServerEndpointAddr: "keep:1", OnlineCheckInterval: 5 * time.Second, DatabasePath: "keep.db"},
			want:  Config{ServerEndpointAddr: "keep:1", OnlineCheckInterval: 5 * time.Second, DatabasePath: "keep.db", DownloadsDir: "files"},
		},
		{
			name:      "interval is not a number",
			args:      []string{"balance", "-i", "often"},
			wantPanic: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			os.Args = tc.args
			cfg := tc.start

			if tc.wantPanic {
				require.Panics(t, func() { parseFlags(&cfg) })
				return
			}
			require.NotPanics(t, func() { parseFlags(&cfg) })
			assert.Empty(t, cmp.Diff(tc.want, cfg))
		})
	}
}
