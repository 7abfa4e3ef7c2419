// Package config loads the twitchmotes configuration document.
//
// Values are layered in order: the embedded defaults, the TOML file named on
// the command line, then TWITCHMOTES_CFG_* environment variables. Nested keys
// use a double underscore in the environment, so TWITCHMOTES_CFG_TWITCH__CDN_URL
// sets twitch.cdn_url.
package config
