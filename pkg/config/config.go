package config

import (
	"time"
)

// Limits enforced by Validate
const (
	MinEmoteScale = 1
	MaxEmoteScale = 3
	MaxStartPoint = 0x10FFFF
)

// Config is the decoded configuration document
type Config struct {
	StartPoint          int64         `koanf:"start_point" toml:"start_point"`
	GlobalEmotes        bool          `koanf:"global_emotes" toml:"global_emotes"`
	Channels            []string      `koanf:"channels" toml:"channels"`
	CustomEmotes        string        `koanf:"custom_emotes" toml:"custom_emotes,omitempty"`
	OutputFont          string        `koanf:"output_font" toml:"output_font"`
	OutputMap           string        `koanf:"output_map" toml:"output_map"`
	EmoteScale          int           `koanf:"emote_scale" toml:"emote_scale"`
	ParallelDownloads   int           `koanf:"parallel_downloads" toml:"parallel_downloads"`
	BuildDir            string        `koanf:"build_dir" toml:"build_dir"`
	FontTemplate        string        `koanf:"font_template" toml:"font_template,omitempty"`
	FontCompiler        string        `koanf:"font_compiler" toml:"font_compiler,omitempty"`
	SkipFailedDownloads bool          `koanf:"skip_failed_downloads" toml:"skip_failed_downloads"`
	RequestTimeout      time.Duration `koanf:"request_timeout" toml:"request_timeout"`
	Twitch              Twitch        `koanf:"twitch" toml:"twitch"`
}

// Twitch holds the remote platform endpoints
type Twitch struct {
	APIURL  string `koanf:"api_url" toml:"api_url"`
	AuthURL string `koanf:"auth_url" toml:"auth_url"`
	CDNURL  string `koanf:"cdn_url" toml:"cdn_url"`
}

// Start returns the first codepoint to assign.
// Only meaningful on a validated config.
func (c *Config) Start() uint32 {
	return uint32(c.StartPoint)
}

// RemoteRequested reports whether any remote emote source is configured
func (c *Config) RemoteRequested() bool {
	return c.GlobalEmotes || len(c.Channels) > 0
}
