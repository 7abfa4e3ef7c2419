// Package pipeline runs one emote font build from a loaded configuration.
//
// Phases run strictly in order: reset the staging area, stage the font
// template, scan local emotes, fetch the remote catalogue, download remote
// assets, then write the mapping and manifest and invoke the font compiler.
// Codepoints are all assigned before the download phase, which is the only
// concurrent one. A failure in any phase before the mapping is written leaves
// no mapping or manifest behind.
package pipeline
