package types

import (
	"fmt"

	"github.com/arthur-debert/twitchmotes/pkg/errors"
)

// Origin identifies where an emote was acquired from
type Origin int

const (
	// OriginLocal is a user-supplied image from the custom emotes directory
	OriginLocal Origin = iota
	// OriginGlobalRemote is a platform-wide emote
	OriginGlobalRemote
	// OriginChannelRemote is an emote owned by a configured channel
	OriginChannelRemote
)

// String returns the lowercase name of the origin
func (o Origin) String() string {
	switch o {
	case OriginLocal:
		return "local"
	case OriginGlobalRemote:
		return "global"
	case OriginChannelRemote:
		return "channel"
	default:
		return fmt.Sprintf("origin(%d)", int(o))
	}
}

// IsRemote reports whether records of this origin carry a remote asset id
func (o Origin) IsRemote() bool {
	return o == OriginGlobalRemote || o == OriginChannelRemote
}

// EmoteRecord is a single named emote with its assigned codepoint
type EmoteRecord struct {
	// Name is the filename stem for local emotes or the platform display name
	Name string
	// Codepoint is the identifier assigned by the sequencer
	Codepoint uint32
	Origin    Origin
	// AssetID is the remote asset id; empty for local emotes
	AssetID string
	// Channel is the login of the owning channel for channel emotes
	Channel string
}

// HexCodepoint returns the codepoint in lowercase hexadecimal without prefix
func (r EmoteRecord) HexCodepoint() string {
	return fmt.Sprintf("%x", r.Codepoint)
}

// Validate checks the structural invariants of a record
func (r EmoteRecord) Validate() error {
	if r.Name == "" {
		return errors.Newf(errors.ErrInvalidInput, "emote %#x has an empty name", r.Codepoint)
	}
	if r.Origin.IsRemote() && r.AssetID == "" {
		return errors.Newf(errors.ErrInvalidInput, "remote emote %q has no asset id", r.Name)
	}
	if !r.Origin.IsRemote() && r.AssetID != "" {
		return errors.Newf(errors.ErrInvalidInput, "local emote %q must not carry an asset id", r.Name)
	}
	return nil
}
