package pipeline

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/arthur-debert/twitchmotes/pkg/codepoint"
	"github.com/arthur-debert/twitchmotes/pkg/config"
	"github.com/arthur-debert/twitchmotes/pkg/custom"
	"github.com/arthur-debert/twitchmotes/pkg/download"
	"github.com/arthur-debert/twitchmotes/pkg/fontbuild"
	"github.com/arthur-debert/twitchmotes/pkg/logging"
	"github.com/arthur-debert/twitchmotes/pkg/registry"
	"github.com/arthur-debert/twitchmotes/pkg/staging"
	"github.com/arthur-debert/twitchmotes/pkg/twitch"
	"github.com/arthur-debert/twitchmotes/pkg/types"
)

// Options carries the collaborators of a run
type Options struct {
	// FS is the filesystem everything is read from and written to
	FS types.FS
	// Credential is the raw "client_id:client_secret" value; empty skips the remote stage
	Credential string
	// Compiler builds the font; nil derives one from the config
	Compiler fontbuild.Compiler
	// HTTPClient is used for the API and the CDN; nil gets a pooled client
	HTTPClient *http.Client
	UserAgent  string
}

// Summary describes a successful run
type Summary struct {
	Registry     *registry.Registry
	Manifest     registry.Manifest
	MappingPath  string
	ManifestPath string
	FontPath     string
	// Skipped lists downloads dropped because skip_failed_downloads is set
	Skipped []download.Failure
}

// Run executes all phases for cfg
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Summary, error) {
	logger := logging.GetLogger("pipeline")
	defer logging.LogOperationStart(logger, "build")()

	compiler, err := resolveCompiler(cfg, opts.Compiler)
	if err != nil {
		return nil, err
	}
	client := opts.HTTPClient
	if client == nil {
		client = cleanhttp.DefaultPooledClient()
		client.Timeout = cfg.RequestTimeout
	}

	area := staging.New(opts.FS, cfg.BuildDir)
	logger.Debug().Str("build_dir", area.BuildDir()).Uint32("start_point", cfg.Start()).Msg("Starting emote build")
	if err := area.Reset(); err != nil {
		return nil, err
	}
	if cfg.FontTemplate != "" {
		if _, err := area.StageTemplate(cfg.FontTemplate); err != nil {
			return nil, err
		}
	}

	seq := codepoint.New(cfg.Start())

	var local []types.EmoteRecord
	if cfg.CustomEmotes != "" {
		local, err = custom.Scan(cfg.CustomEmotes, area, seq)
		if err != nil {
			return nil, err
		}
	}

	logger.Debug().Int("local", len(local)).Str("next_codepoint", fmt.Sprintf("%#x", seq.Peek())).Msg("Local scan finished")

	catalog, err := fetchRemote(ctx, cfg, opts, client, seq)
	if err != nil {
		return nil, err
	}

	var skipped []download.Failure
	remote := catalog.Records
	if len(remote) > 0 {
		dl := download.New(client, download.Options{
			CDNURL:      cfg.Twitch.CDNURL,
			Scale:       catalog.Scale,
			Parallelism: cfg.ParallelDownloads,
			SkipFailed:  cfg.SkipFailedDownloads,
			UserAgent:   opts.UserAgent,
		})
		result, err := dl.Download(ctx, remote, area)
		if err != nil {
			return nil, err
		}
		if len(result.Failed) > 0 {
			logger.Warn().Err(result.Err()).Int("count", len(result.Failed)).Msg("Some emotes could not be downloaded and were left out")
		}
		remote = result.Completed
		skipped = result.Failed
	}

	reg := registry.Build(local, remote)
	if err := reg.WriteMapping(opts.FS, cfg.OutputMap); err != nil {
		return nil, err
	}

	manifest := reg.Manifest(area)
	if err := registry.WriteManifest(opts.FS, area.ManifestPath(), manifest); err != nil {
		return nil, err
	}

	counts := reg.CountByOrigin()
	logger.Info().
		Int("local", counts[types.OriginLocal]).
		Int("global", counts[types.OriginGlobalRemote]).
		Int("channel", counts[types.OriginChannelRemote]).
		Str("map", cfg.OutputMap).
		Msg("Emote mapping written")

	if err := compiler.Compile(ctx, manifest, area.ManifestPath(), cfg.OutputFont); err != nil {
		return nil, err
	}

	return &Summary{
		Registry:     reg,
		Manifest:     manifest,
		MappingPath:  cfg.OutputMap,
		ManifestPath: area.ManifestPath(),
		FontPath:     cfg.OutputFont,
		Skipped:      skipped,
	}, nil
}

func fetchRemote(ctx context.Context, cfg *config.Config, opts Options, client *http.Client, seq *codepoint.Sequencer) (twitch.Catalog, error) {
	logger := logging.GetLogger("pipeline")
	empty := twitch.Catalog{Scale: cfg.EmoteScale}

	if opts.Credential == "" {
		if cfg.RemoteRequested() {
			logger.Info().Str("env", twitch.EnvToken).Msg("No credential set, skipping remote emotes")
		}
		return empty, nil
	}
	if !cfg.RemoteRequested() {
		logger.Debug().Msg("No remote emote sources configured")
		return empty, nil
	}

	clientOpts := []twitch.ClientOption{twitch.WithBaseURL(cfg.Twitch.APIURL)}
	if opts.UserAgent != "" {
		clientOpts = append(clientOpts, twitch.WithUserAgent(opts.UserAgent))
	}
	api, err := twitch.Connect(ctx, opts.Credential, cfg.Twitch.AuthURL, client, clientOpts...)
	if err != nil {
		return twitch.Catalog{}, err
	}

	fetcher := twitch.NewFetcher(api, twitch.Options{
		GlobalEmotes: cfg.GlobalEmotes,
		Channels:     cfg.Channels,
		Scale:        cfg.EmoteScale,
	})
	return fetcher.Fetch(ctx, seq)
}

func resolveCompiler(cfg *config.Config, c fontbuild.Compiler) (fontbuild.Compiler, error) {
	if c != nil {
		return c, nil
	}
	if cfg.FontCompiler == "" {
		return fontbuild.NopCompiler{}, nil
	}
	return fontbuild.NewCommandCompiler(cfg.FontCompiler)
}
