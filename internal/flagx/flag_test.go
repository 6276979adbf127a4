package flagx

import (
	"os"
	"reflect"
	"testing"
	"time"

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
			name:         "short flag with separate value",
			args:         []string{"-c", "conf.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "long flag with equals",
			args:         []string{"--config=alt.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=alt.json"},
		},
		{
			name:         "both short and long present, preserve order",
			args:         []string{"--config=first.json", "-c", "second.json", "-x", "1"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=first.json", "-c", "second.json"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{},
		},
		{
			name:         "flag without value at end is kept as-is",
			args:         []string{"-c"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c"},
		},
		{
			name:         "flag followed by another flag (no value)",
			args:         []string{"-c", "-notvalue"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c"},
		},
		{
			name:         "value that looks like a flag but with equals form",
			args:         []string{"--config=--weird.json"},
			allowedFlags: []string{"--config"},
			want:         []string{"--config=--weird.json"},
		},
		{
			name:         "multiple allowed flags kept",
			args:         []string{"-a", "localhost:8080", "-c", "conf.json", "--other", "x"},
			allowedFlags: []string{"-c", "-a"},
			want:         []string{"-a", "localhost:8080", "-c", "conf.json"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{},
		},
		{
			name:         "path with spaces remains single arg",
			args:         []string{"-c", "/home/user/conf.json"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "/home/user/conf.json"},
		},
		{
			name:         "do not treat next dash-starting token as value",
			args:         []string{"-c", "--config=alt.json"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c", "--config=alt.json"},
		},
		{
			name:         "repeated allowed flag is preserved in order",
			args:         []string{"-c", "one.json", "-c", "two.json"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "one.json", "-c", "two.json"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowedFlags)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("FilterArgs() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestConfigFile(t *testing.T) {
	assert.Equal(t, "/path/short.json", ConfigFile([]string{"-c", "/path/short.json"}))
	assert.Equal(t, "/path/long.json", ConfigFile([]string{"-config", "/path/long.json"}))
	assert.Equal(t, "/path/eq.json", ConfigFile([]string{"-a", ":80", "-config=/path/eq.json"}))
	assert.Empty(t, ConfigFile([]string{"-x", "1", "-y", "2"}))
	assert.Equal(t, "/path/2.json", ConfigFile([]string{"-c", "/path/1.json", "-config", "/path/2.json"}))
}

func TestJsonConfigFlags_ReadsProcessArgs(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-c", "/etc/sesdash.json"}
	assert.Equal(t, "/etc/sesdash.json", JsonConfigFlags())
}

func TestEnvString(t *testing.T) {
	v := "default"
	EnvString(&v, "FLAGX_TEST_UNSET_STRING")
	assert.Equal(t, "default", v)

	t.Setenv("FLAGX_TEST_STRING", "http://backend:9090")
	EnvString(&v, "FLAGX_TEST_STRING")
	assert.Equal(t, "http://backend:9090", v)
}

func TestEnvInt(t *testing.T) {
	n := 80
	assert.True(t, EnvInt(&n, "FLAGX_TEST_UNSET_INT"))
	assert.Equal(t, 80, n)

	t.Setenv("FLAGX_TEST_INT", " 8081 ")
	assert.True(t, EnvInt(&n, "FLAGX_TEST_INT"))
	assert.Equal(t, 8081, n)

	t.Setenv("FLAGX_TEST_INT", "eighty")
	assert.False(t, EnvInt(&n, "FLAGX_TEST_INT"))
	assert.Equal(t, 8081, n)
}

func TestEnvDuration(t *testing.T) {
	d := time.Second
	t.Setenv("FLAGX_TEST_DURATION", "45s")
	assert.True(t, EnvDuration(&d, "FLAGX_TEST_DURATION"))
	assert.Equal(t, 45*time.Second, d)

	t.Setenv("FLAGX_TEST_DURATION", "later")
	assert.False(t, EnvDuration(&d, "FLAGX_TEST_DURATION"))
	assert.Equal(t, 45*time.Second, d)
}
