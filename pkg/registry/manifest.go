package registry

import (
	"encoding/json"
	"time"

	"github.com/arthur-debert/twitchmotes/pkg/errors"
	"github.com/arthur-debert/twitchmotes/pkg/internal/hashutil"
	"github.com/arthur-debert/twitchmotes/pkg/staging"
	"github.com/arthur-debert/twitchmotes/pkg/types"
)

// ManifestVersion is bumped whenever the manifest layout changes
const ManifestVersion = 1

// ManifestEntry describes one emoji for the font compiler.
// Either File and Hash are set, or Error explains why the staged file is unusable.
type ManifestEntry struct {
	Sequence []uint32 `json:"sequence"`
	Name     string   `json:"name,omitempty"`
	Origin   string   `json:"origin"`
	Channel  string   `json:"channel,omitempty"`
	File     string   `json:"file,omitempty"`
	Hash     string   `json:"hash,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// Manifest is the asset list handed to the font compiler
type Manifest struct {
	MetaVersion int             `json:"metaVersion"`
	CreatedAt   time.Time       `json:"createdAt"`
	ImageDir    string          `json:"imageDir"`
	Emojis      []ManifestEntry `json:"emojis"`
}

// Failed returns the entries whose staged file could not be hashed
func (m Manifest) Failed() []ManifestEntry {
	var failed []ManifestEntry
	for _, e := range m.Emojis {
		if e.Error != "" {
			failed = append(failed, e)
		}
	}
	return failed
}

// Manifest pairs every record with its staged file and content hash
func (r *Registry) Manifest(area *staging.Area) Manifest {
	m := Manifest{
		MetaVersion: ManifestVersion,
		CreatedAt:   time.Now().UTC(),
		ImageDir:    area.Dir(),
		Emojis:      make([]ManifestEntry, 0, len(r.records)),
	}

	for _, rec := range r.records {
		entry := ManifestEntry{
			Sequence: []uint32{rec.Codepoint},
			Name:     rec.Name,
			Origin:   rec.Origin.String(),
			Channel:  rec.Channel,
		}
		path := area.Path(rec.Codepoint)
		hash, err := hashutil.CalculateFileChecksum(area.FS(), path)
		if err != nil {
			entry.Error = err.Error()
		} else {
			entry.File = path
			entry.Hash = hash
		}
		m.Emojis = append(m.Emojis, entry)
	}
	return m
}

// WriteManifest writes the manifest as indented JSON
func WriteManifest(fsys types.FS, path string, m Manifest) error {
	data, err := json.MarshalIndent(&m, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "unable to encode manifest")
	}
	if err := fsys.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "unable to write manifest: %s", path)
	}
	return nil
}
