package main

// Short messages (one-liners)
const (
	MsgRootUse   = "twitchmotes <config.toml>"
	MsgRootShort = "Build an emoji font from local and Twitch emotes"
	MsgRootLong  = `twitchmotes collects png emotes from a local directory and, when
TWITCHMOTES_TOKEN holds a "client_id:client_secret" credential, the global
and channel emotes of Twitch. Every emote gets a private-use codepoint; the
name,codepoint mapping is written to output_map and the staged images are
handed to the configured font compiler to produce output_font.

Logging verbosity is read from TWITCHMOTES_VERBOSITY (0-3, default 1).`

	MsgErrorPrefix    = "Error:"
	MsgSummaryFormat  = "Built %d emotes (%d local, %d remote)"
	MsgMappingFormat  = "mapping: %s"
	MsgManifestFormat = "manifest: %s"
	MsgSkippedFormat  = "%d emotes could not be downloaded and were left out"
	MsgNoEmotes       = "No emotes found, the mapping is empty"
	MsgNoCredential   = "TWITCHMOTES_TOKEN is not set, remote emotes were skipped"
)
