// Package download fetches remote emote assets into the staging area with a
// bounded number of requests in flight.
//
// Every record writes to its own pre-determined staged file, so tasks share
// nothing but the concurrency gate and may complete in any order.
package download

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/arthur-debert/twitchmotes/pkg/errors"
	"github.com/arthur-debert/twitchmotes/pkg/logging"
	"github.com/arthur-debert/twitchmotes/pkg/staging"
	"github.com/arthur-debert/twitchmotes/pkg/types"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

const (
	// AssetFormat and AssetTheme are fixed URL segments: static images, light theme
	AssetFormat = "static"
	AssetTheme  = "light"

	// DefaultMaxAssetBytes bounds a single downloaded image (16 MB)
	DefaultMaxAssetBytes = 16 << 20
)

// Options configures a Downloader
type Options struct {
	// CDNURL is the base path assets are requested from
	CDNURL string
	// Scale selects the resolution tier, rendered as "<scale>.0" in the URL
	Scale int
	// Parallelism is the maximum number of requests in flight; values below 1 mean 1
	Parallelism int
	// SkipFailed keeps going after a failed item instead of aborting the batch
	SkipFailed bool
	UserAgent  string
	// MaxAssetBytes rejects larger assets; zero means DefaultMaxAssetBytes
	MaxAssetBytes int64
}

// Failure is a single record that could not be materialized
type Failure struct {
	Record types.EmoteRecord
	Err    error
}

// Result reports which records were staged
type Result struct {
	// Completed lists staged records in input order
	Completed []types.EmoteRecord
	// Failed is only populated when Options.SkipFailed is set
	Failed []Failure
}

// Err aggregates the failures of a batch, or returns nil when there were none
func (r Result) Err() error {
	var result *multierror.Error
	for _, f := range r.Failed {
		result = multierror.Append(result, f.Err)
	}
	return result.ErrorOrNil()
}

// Downloader fetches emote assets over HTTP
type Downloader struct {
	client *http.Client
	opts   Options
}

// New creates a Downloader. A nil client gets a pooled client from go-cleanhttp.
func New(client *http.Client, opts Options) *Downloader {
	if client == nil {
		client = cleanhttp.DefaultPooledClient()
	}
	if opts.Parallelism < 1 {
		opts.Parallelism = 1
	}
	if opts.MaxAssetBytes <= 0 {
		opts.MaxAssetBytes = DefaultMaxAssetBytes
	}
	return &Downloader{client: client, opts: opts}
}

// AssetURL builds the deterministic asset URL for an emote id and scale
func AssetURL(cdnURL, assetID string, scale int) string {
	return fmt.Sprintf("%s/%s/%s/%s/%d.0", strings.TrimRight(cdnURL, "/"), assetID, AssetFormat, AssetTheme, scale)
}

// Download stages the asset of every record under its canonical file name.
// At most Options.Parallelism fetches run at once. Unless SkipFailed is set,
// the first failed fetch or write cancels the remaining work and is returned;
// already staged files are left in place.
func (d *Downloader) Download(ctx context.Context, records []types.EmoteRecord, area *staging.Area) (Result, error) {
	logger := logging.GetLogger("download")
	done := logging.LogOperationStart(logger, "download assets")
	defer done()

	var (
		g    *errgroup.Group
		gctx context.Context
	)
	if d.opts.SkipFailed {
		g, gctx = &errgroup.Group{}, ctx
	} else {
		g, gctx = errgroup.WithContext(ctx)
	}
	g.SetLimit(d.opts.Parallelism)

	// one slot per record; each task writes only its own index
	errs := make([]error, len(records))

	for i := range records {
		if gctx.Err() != nil {
			break
		}
		i, rec := i, records[i]
		g.Go(func() error {
			err := d.fetch(gctx, rec, area)
			errs[i] = err
			if err != nil {
				logger.Warn().Err(err).Str("emote", rec.Name).Str("asset_id", rec.AssetID).Msg("Download failed")
				if !d.opts.SkipFailed {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, errors.Wrap(err, errors.ErrNetworkFetch, "download cancelled")
	}

	var result Result
	for i, rec := range records {
		if errs[i] != nil {
			result.Failed = append(result.Failed, Failure{Record: rec, Err: errs[i]})
			continue
		}
		result.Completed = append(result.Completed, rec)
	}

	logger.Info().Int("downloaded", len(result.Completed)).Int("failed", len(result.Failed)).
		Int("parallelism", d.opts.Parallelism).Msg("Remote emotes staged")
	return result, nil
}

// fetch downloads a single asset and writes it to the staging area
func (d *Downloader) fetch(ctx context.Context, rec types.EmoteRecord, area *staging.Area) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrapf(err, errors.ErrNetworkFetch, "fetching emote %q cancelled", rec.Name)
	}

	assetURL := AssetURL(d.opts.CDNURL, rec.AssetID, d.opts.Scale)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, http.NoBody)
	if err != nil {
		return errors.Wrapf(err, errors.ErrNetworkFetch, "creating request for %s", assetURL)
	}
	if d.opts.UserAgent != "" {
		req.Header.Set("User-Agent", d.opts.UserAgent)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, errors.ErrNetworkFetch, "fetching emote %q", rec.Name).
			WithDetail("url", assetURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Newf(errors.ErrNetworkFetch, "fetching emote %q: unexpected status %d", rec.Name, resp.StatusCode).
			WithDetail("url", assetURL).
			WithDetail("status", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, d.opts.MaxAssetBytes+1))
	if err != nil {
		return errors.Wrapf(err, errors.ErrNetworkFetch, "reading emote %q", rec.Name).
			WithDetail("url", assetURL)
	}
	if int64(len(body)) > d.opts.MaxAssetBytes {
		return errors.Newf(errors.ErrNetworkFetch, "emote %q exceeds %d bytes", rec.Name, d.opts.MaxAssetBytes).
			WithDetail("url", assetURL).
			WithDetail("limit", d.opts.MaxAssetBytes)
	}

	if _, err := area.Write(bytes.NewReader(body), rec.Codepoint); err != nil {
		return err
	}
	return nil
}
