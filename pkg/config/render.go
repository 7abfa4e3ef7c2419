package config

import (
	"github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/twitchmotes/pkg/errors"
)

// Render returns the effective configuration as a TOML document
func (c *Config) Render() ([]byte, error) {
	out, err := toml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return out, nil
}
