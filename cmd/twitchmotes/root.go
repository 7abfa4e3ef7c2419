package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/twitchmotes/internal/version"
	"github.com/arthur-debert/twitchmotes/pkg/config"
	"github.com/arthur-debert/twitchmotes/pkg/filesystem"
	"github.com/arthur-debert/twitchmotes/pkg/logging"
	"github.com/arthur-debert/twitchmotes/pkg/pipeline"
	"github.com/arthur-debert/twitchmotes/pkg/twitch"
	"github.com/arthur-debert/twitchmotes/pkg/types"
	"github.com/arthur-debert/twitchmotes/pkg/ui/output/styles"
)

// NewRootCmd creates the single twitchmotes command
func NewRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:     MsgRootUse,
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		Args:    cobra.ExactArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(logging.VerbosityFromEnv())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args[0], cmd.OutOrStdout())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

func run(ctx context.Context, configPath string, out io.Writer) error {
	logger := logging.GetLogger("cli")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if rendered, err := cfg.Render(); err == nil {
		logger.Trace().Str("config", string(rendered)).Msg("Effective configuration")
	}

	credential, ok := twitch.CredentialFromEnv()
	summary, err := pipeline.Run(ctx, cfg, pipeline.Options{
		FS:         filesystem.NewOS(),
		Credential: credential,
		UserAgent:  "twitchmotes/" + version.Version,
	})
	if err != nil {
		return err
	}

	counts := summary.Registry.CountByOrigin()
	local := counts[types.OriginLocal]
	remote := summary.Registry.Len() - local

	if summary.Registry.Len() == 0 {
		fmt.Fprintln(out, styles.Render("Warning", MsgNoEmotes))
	} else {
		fmt.Fprintln(out, styles.Render("Success", fmt.Sprintf(MsgSummaryFormat, summary.Registry.Len(), local, remote)))
	}
	fmt.Fprintln(out, styles.Render("Indent", styles.Render("FilePath", fmt.Sprintf(MsgMappingFormat, summary.MappingPath))))
	fmt.Fprintln(out, styles.Render("Indent", styles.Render("FilePath", fmt.Sprintf(MsgManifestFormat, summary.ManifestPath))))
	if n := len(summary.Skipped); n > 0 {
		fmt.Fprintln(out, styles.Render("Warning", fmt.Sprintf(MsgSkippedFormat, n)))
	}
	if !ok && cfg.RemoteRequested() {
		fmt.Fprintln(out, styles.Render("Muted", MsgNoCredential))
	}
	return nil
}
