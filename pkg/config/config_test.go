package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arthur-debert/twitchmotes/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const minimal = `
output_font = "out/emotes.ttf"
output_map = "out/emotes.csv"
`

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimal))
	require.NoError(t, err)

	assert.Equal(t, int64(0), cfg.StartPoint)
	assert.False(t, cfg.GlobalEmotes)
	assert.Empty(t, cfg.Channels)
	assert.Empty(t, cfg.CustomEmotes)
	assert.Equal(t, 3, cfg.EmoteScale)
	assert.Equal(t, 4, cfg.ParallelDownloads)
	assert.Equal(t, "build", cfg.BuildDir)
	assert.False(t, cfg.SkipFailedDownloads)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "https://api.twitch.tv/helix", cfg.Twitch.APIURL)
	assert.Equal(t, "https://id.twitch.tv/oauth2/token", cfg.Twitch.AuthURL)
	assert.Equal(t, "https://static-cdn.jtvnw.net/emoticons/v2", cfg.Twitch.CDNURL)
	assert.False(t, cfg.RemoteRequested())
}

func TestLoad_UserValues(t *testing.T) {
	path := writeConfig(t, `
start_point = 0xE000
global_emotes = true
channels = ["alpha", "beta"]
custom_emotes = "emotes"
output_font = "out/emotes.ttf"
output_map = "out/emotes.csv"
emote_scale = 2
parallel_downloads = 16
request_timeout = "5s"

[twitch]
cdn_url = "http://localhost:9000/cdn"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint32(0xE000), cfg.Start())
	assert.True(t, cfg.GlobalEmotes)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.Channels)
	assert.Equal(t, "emotes", cfg.CustomEmotes)
	assert.Equal(t, 2, cfg.EmoteScale)
	assert.Equal(t, 16, cfg.ParallelDownloads)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "http://localhost:9000/cdn", cfg.Twitch.CDNURL)
	// untouched keys of the same table keep their defaults
	assert.Equal(t, "https://api.twitch.tv/helix", cfg.Twitch.APIURL)
	assert.True(t, cfg.RemoteRequested())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TWITCHMOTES_CFG_PARALLEL_DOWNLOADS", "8")
	t.Setenv("TWITCHMOTES_CFG_TWITCH__API_URL", "http://localhost/helix")
	t.Setenv("TWITCHMOTES_CFG_CHANNELS", "one,two")

	cfg, err := Load(writeConfig(t, minimal))
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.ParallelDownloads)
	assert.Equal(t, "http://localhost/helix", cfg.Twitch.APIURL)
	assert.Equal(t, []string{"one", "two"}, cfg.Channels)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		code errors.ErrorCode
	}{
		{
			name: "missing_file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.toml") },
			code: errors.ErrConfigLoad,
		},
		{
			name: "malformed_toml",
			path: func(t *testing.T) string { return writeConfig(t, "output_font = [unterminated") },
			code: errors.ErrConfigParse,
		},
		{
			name: "wrong_type",
			path: func(t *testing.T) string { return writeConfig(t, minimal+"parallel_downloads = \"many\"\n") },
			code: errors.ErrConfigParse,
		},
		{
			name: "missing_outputs",
			path: func(t *testing.T) string { return writeConfig(t, "start_point = 1\n") },
			code: errors.ErrConfigValid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.path(t))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Equal(t, tt.code, errors.GetErrorCode(err))
		})
	}
}

func validConfig() Config {
	return Config{
		OutputFont:        "font.ttf",
		OutputMap:         "map.csv",
		EmoteScale:        3,
		ParallelDownloads: 4,
		BuildDir:          "build",
		Twitch: Twitch{
			APIURL:  "http://api",
			AuthURL: "http://auth",
			CDNURL:  "http://cdn",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "max_start_point", mutate: func(c *Config) { c.StartPoint = MaxStartPoint }},
		{name: "negative_start_point", mutate: func(c *Config) { c.StartPoint = -1 }, wantErr: "start_point"},
		{name: "start_point_too_large", mutate: func(c *Config) { c.StartPoint = MaxStartPoint + 1 }, wantErr: "start_point"},
		{name: "zero_parallelism", mutate: func(c *Config) { c.ParallelDownloads = 0 }, wantErr: "parallel_downloads"},
		{name: "scale_too_small", mutate: func(c *Config) { c.EmoteScale = 0 }, wantErr: "emote_scale"},
		{name: "scale_too_large", mutate: func(c *Config) { c.EmoteScale = 4 }, wantErr: "emote_scale"},
		{name: "empty_channel", mutate: func(c *Config) { c.Channels = []string{"ok", " "} }, wantErr: "channels[1]"},
		{name: "empty_build_dir", mutate: func(c *Config) { c.BuildDir = "" }, wantErr: "build_dir"},
		{
			name:    "remote_without_cdn",
			mutate:  func(c *Config) { c.GlobalEmotes = true; c.Twitch.CDNURL = "" },
			wantErr: "twitch.cdn_url",
		},
		{
			name:   "local_only_ignores_endpoints",
			mutate: func(c *Config) { c.Twitch = Twitch{} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := Config{}
	err := cfg.Validate()
	require.Error(t, err)

	details := errors.GetErrorDetails(err)
	assert.Equal(t, 5, details["problems"])
	for _, field := range []string{"output_font", "output_map", "emote_scale", "parallel_downloads", "build_dir"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestRender(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimal+"channels = [\"alpha\"]\n"))
	require.NoError(t, err)

	out, err := cfg.Render()
	require.NoError(t, err)
	text := string(out)
	assert.True(t, strings.Contains(text, "output_map = 'out/emotes.csv'") || strings.Contains(text, `output_map = "out/emotes.csv"`))
	assert.Contains(t, text, "[twitch]")
	assert.Contains(t, text, "alpha")
}

func TestDefaultContent(t *testing.T) {
	assert.Contains(t, DefaultContent(), "parallel_downloads = 4")
}
