// Package custom stages user-supplied emote images from a local directory.
package custom

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/twitchmotes/pkg/codepoint"
	"github.com/arthur-debert/twitchmotes/pkg/errors"
	"github.com/arthur-debert/twitchmotes/pkg/logging"
	"github.com/arthur-debert/twitchmotes/pkg/staging"
	"github.com/arthur-debert/twitchmotes/pkg/types"
)

// SupportedExtensions lists the lowercase image extensions that are staged
var SupportedExtensions = []string{".png"}

// Scan stages every supported image in dir and assigns each the next codepoint.
// Entries are visited in the order the filesystem's ReadDir returns them;
// unsupported files, extensionless files and subdirectories are skipped.
// A failed copy aborts the scan.
func Scan(dir string, area *staging.Area, seq *codepoint.Sequencer) ([]types.EmoteRecord, error) {
	logger := logging.GetLogger("custom")
	done := logging.LogOperationStart(logger, "scan custom emotes")
	defer done()

	entries, err := area.FS().ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirRead, "unable to read custom emotes directory: %s", dir)
	}

	var emotes []types.EmoteRecord
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name, ok := emoteName(entry.Name())
		if !ok {
			logger.Trace().Str("file", entry.Name()).Msg("Skipping unsupported file")
			continue
		}

		cp, err := seq.Next()
		if err != nil {
			return nil, err
		}

		src := filepath.Join(dir, entry.Name())
		if _, err := area.Stage(src, cp); err != nil {
			return nil, err
		}

		logger.Debug().Str("name", name).Str("codepoint", staging.FileName(cp)).Msg("Staged custom emote")
		emotes = append(emotes, types.EmoteRecord{
			Name:      name,
			Codepoint: cp,
			Origin:    types.OriginLocal,
		})
	}

	logger.Info().Int("count", len(emotes)).Str("dir", dir).Msg("Custom emotes staged")
	return emotes, nil
}

// emoteName returns the file stem if the extension is supported
func emoteName(filename string) (string, bool) {
	ext := filepath.Ext(filename)
	if ext == "" {
		return "", false
	}
	stem := strings.TrimSuffix(filename, ext)
	if stem == "" {
		return "", false
	}
	for _, supported := range SupportedExtensions {
		if strings.EqualFold(ext, supported) {
			return stem, true
		}
	}
	return "", false
}
