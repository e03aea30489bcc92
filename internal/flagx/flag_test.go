package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-a", "127.0.0.1:50051", "-f", "balance.db"},
			allowed: []string{"-a"},
			want:    []string{"-a", "127.0.0.1:50051"},
		},
		{
			name:    "equals form",
			args:    []string{"-o=out", "-a", "x"},
			allowed: []string{"-o"},
			want:    []string{"-o=out"},
		},
		{
			name:    "unknown flags dropped",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "flag without value",
			args:    []string{"-c", "-d", "dsn"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "order preserved",
			args:    []string{"-i", "5", "-a", "host:1", "-i=7"},
			allowed: []string{"-a", "-i"},
			want:    []string{"-i", "5", "-a", "host:1", "-i=7"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"short", []string{"bin", "-c", "a.json", "-a", "host"}, "a.json"},
		{"long", []string{"bin", "-config=b.json"}, "b.json"},
		{"absent", []string{"bin", "-a", "host"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			assert.Equal(t, tt.want, JsonConfigFlags())
		})
	}
}
