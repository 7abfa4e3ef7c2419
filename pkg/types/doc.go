// Package types defines the core types and interfaces shared by the
// twitchmotes pipeline: the EmoteRecord carried from acquisition to the
// font compiler, its Origin, and the FS abstraction every stage writes
// through.
package types
