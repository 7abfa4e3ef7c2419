package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/arthur-debert/twitchmotes/pkg/errors"
)

// Validate checks every field and reports all problems at once
func (c *Config) Validate() error {
	var result *multierror.Error

	if strings.TrimSpace(c.OutputFont) == "" {
		result = multierror.Append(result, fmt.Errorf("output_font is required"))
	}
	if strings.TrimSpace(c.OutputMap) == "" {
		result = multierror.Append(result, fmt.Errorf("output_map is required"))
	}
	if c.StartPoint < 0 || c.StartPoint > MaxStartPoint {
		result = multierror.Append(result, fmt.Errorf("start_point %#x is outside 0..%#x", c.StartPoint, MaxStartPoint))
	}
	if c.EmoteScale < MinEmoteScale || c.EmoteScale > MaxEmoteScale {
		result = multierror.Append(result, fmt.Errorf("emote_scale %d is outside %d..%d", c.EmoteScale, MinEmoteScale, MaxEmoteScale))
	}
	if c.ParallelDownloads < 1 {
		result = multierror.Append(result, fmt.Errorf("parallel_downloads must be at least 1, got %d", c.ParallelDownloads))
	}
	if strings.TrimSpace(c.BuildDir) == "" {
		result = multierror.Append(result, fmt.Errorf("build_dir must not be empty"))
	}
	if c.RequestTimeout < 0 {
		result = multierror.Append(result, fmt.Errorf("request_timeout must not be negative"))
	}
	for i, ch := range c.Channels {
		if strings.TrimSpace(ch) == "" {
			result = multierror.Append(result, fmt.Errorf("channels[%d] is empty", i))
		}
	}
	if c.RemoteRequested() {
		if c.Twitch.APIURL == "" {
			result = multierror.Append(result, fmt.Errorf("twitch.api_url must not be empty"))
		}
		if c.Twitch.AuthURL == "" {
			result = multierror.Append(result, fmt.Errorf("twitch.auth_url must not be empty"))
		}
		if c.Twitch.CDNURL == "" {
			result = multierror.Append(result, fmt.Errorf("twitch.cdn_url must not be empty"))
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid configuration").
			WithDetail("problems", len(result.Errors))
	}
	return nil
}
