package twitch

import (
	"context"

	"github.com/arthur-debert/twitchmotes/pkg/codepoint"
	"github.com/arthur-debert/twitchmotes/pkg/errors"
	"github.com/arthur-debert/twitchmotes/pkg/logging"
	"github.com/arthur-debert/twitchmotes/pkg/types"
)

// API is the subset of the Helix API the catalogue fetcher needs
type API interface {
	GlobalEmotes(ctx context.Context) ([]Emote, error)
	LookupChannel(ctx context.Context, login string) (User, error)
	ChannelEmotes(ctx context.Context, broadcasterID string) ([]Emote, error)
}

// Options selects which remote emote sets are fetched
type Options struct {
	GlobalEmotes bool
	// Channels are channel logins, fetched in this order
	Channels []string
	// Scale selects the asset resolution tier used when downloading
	Scale int
}

// Catalog is the ordered list of remote emotes with assigned codepoints
type Catalog struct {
	Records []types.EmoteRecord
	Scale   int
}

// Fetcher retrieves remote emote metadata and assigns codepoints
type Fetcher struct {
	api  API
	opts Options
}

// NewFetcher creates a Fetcher over the given API
func NewFetcher(api API, opts Options) *Fetcher {
	return &Fetcher{api: api, opts: opts}
}

// Fetch retrieves the global emotes (when enabled) and then each configured
// channel's emotes, assigning codepoints from seq in exactly that order.
// Requests are made one at a time; the first failure aborts the fetch.
func (f *Fetcher) Fetch(ctx context.Context, seq *codepoint.Sequencer) (Catalog, error) {
	logger := logging.GetLogger("twitch")
	done := logging.LogOperationStart(logger, "fetch remote catalogue")
	defer done()

	catalog := Catalog{Scale: f.opts.Scale}

	if f.opts.GlobalEmotes {
		emotes, err := f.api.GlobalEmotes(ctx)
		if err != nil {
			return Catalog{}, err
		}
		records, err := assign(emotes, types.OriginGlobalRemote, "", seq)
		if err != nil {
			return Catalog{}, err
		}
		logger.Info().Int("count", len(records)).Msg("Global emotes retrieved")
		catalog.Records = append(catalog.Records, records...)
	}

	for _, login := range f.opts.Channels {
		user, err := f.api.LookupChannel(ctx, login)
		if err != nil {
			return Catalog{}, err
		}
		emotes, err := f.api.ChannelEmotes(ctx, user.ID)
		if err != nil {
			return Catalog{}, err
		}
		records, err := assign(emotes, types.OriginChannelRemote, login, seq)
		if err != nil {
			return Catalog{}, err
		}
		logger.Info().Str("channel", login).Str("broadcaster_id", user.ID).
			Int("count", len(records)).Msg("Channel emotes retrieved")
		catalog.Records = append(catalog.Records, records...)
	}

	return catalog, nil
}

func assign(emotes []Emote, origin types.Origin, channel string, seq *codepoint.Sequencer) ([]types.EmoteRecord, error) {
	records := make([]types.EmoteRecord, 0, len(emotes))
	for _, e := range emotes {
		cp, err := seq.Next()
		if err != nil {
			return nil, err
		}
		rec := types.EmoteRecord{
			Name:      e.Name,
			Codepoint: cp,
			Origin:    origin,
			AssetID:   e.ID,
			Channel:   channel,
		}
		if err := rec.Validate(); err != nil {
			return nil, errors.Wrap(err, errors.ErrAPIRequest, "malformed emote in API response")
		}
		records = append(records, rec)
	}
	return records, nil
}
