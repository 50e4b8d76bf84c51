package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "separate value",
			args:         []string{"-d", "postgres://db", "-x", "1"},
			allowedFlags: []string{"-d"},
			want:         []string{"-d", "postgres://db"},
		},
		{
			name:         "equals form",
			args:         []string{"--config=board.yaml", "-a", ":8080"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=board.yaml"},
		},
		{
			name:         "unknown flags and positionals dropped",
			args:         []string{"sync", "-x", "1", "--y=2"},
			allowedFlags: []string{"-d"},
			want:         []string{},
		},
		{
			name:         "trailing flag without value",
			args:         []string{"-d"},
			allowedFlags: []string{"-d"},
			want:         []string{"-d"},
		},
		{
			name:         "dash token is not a value",
			args:         []string{"-k", "-a", ":9000"},
			allowedFlags: []string{"-k", "-a"},
			want:         []string{"-k", "-a", ":9000"},
		},
		{
			name:         "order and repetition preserved",
			args:         []string{"-k", "2,Name", "-l", "debug", "-k", "1"},
			allowedFlags: []string{"-k", "-l"},
			want:         []string{"-k", "2,Name", "-l", "debug", "-k", "1"},
		},
		{
			name:         "empty",
			args:         nil,
			allowedFlags: []string{"-d"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestConfigFile(t *testing.T) {
	assert.Equal(t, "/etc/karmaboard.yaml", ConfigFile([]string{"-c", "/etc/karmaboard.yaml"}))
	assert.Equal(t, "board.json", ConfigFile([]string{"serve", "-config", "board.json", "-a", ":80"}))
	assert.Equal(t, "b.json", ConfigFile([]string{"-c", "a.json", "-config", "b.json"}))
	assert.Empty(t, ConfigFile([]string{"-d", "dsn"}))
}
