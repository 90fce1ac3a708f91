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
			args:    []string{"-d", "jobs.db", "-x", "other"},
			allowed: []string{"-d"},
			want:    []string{"-d", "jobs.db"},
		},
		{
			name:    "equals form",
			args:    []string{"--database=jobs.db", "-p=proj"},
			allowed: []string{"-p"},
			want:    []string{"-p=proj"},
		},
		{
			name:    "flag followed by another flag keeps no value",
			args:    []string{"-d", "-p", "proj"},
			allowed: []string{"-d", "-p"},
			want:    []string{"-d", "-p", "proj"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-d", "jobs.db"},
			allowed: nil,
			want:    []string{},
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
	defer func() { os.Args = orig }()

	os.Args = []string{"cmd", "-c", "/tmp/cfg.json", "-p", "proj"}
	assert.Equal(t, "/tmp/cfg.json", JsonConfigFlags())

	os.Args = []string{"cmd", "-config=/etc/jobkeeper.json"}
	assert.Equal(t, "/etc/jobkeeper.json", JsonConfigFlags())

	os.Args = []string{"cmd", "-p", "proj"}
	assert.Equal(t, "", JsonConfigFlags())
}
