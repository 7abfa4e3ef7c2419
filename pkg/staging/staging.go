// Package staging manages the working directory that holds renamed emote
// images before font compilation.
//
// Each staged image is named emoji_u<hex>.png after its codepoint, the
// naming convention font compilers use to map files to characters. The
// PNG directory is recreated empty at the start of every run.
package staging

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/arthur-debert/twitchmotes/pkg/errors"
	"github.com/arthur-debert/twitchmotes/pkg/logging"
	"github.com/arthur-debert/twitchmotes/pkg/types"
)

const (
	// PNGDir is the subdirectory of the build dir holding staged images
	PNGDir = "png"

	// FilePrefix and FileExt frame the hex codepoint of a staged file name
	FilePrefix = "emoji_u"
	FileExt    = ".png"

	// ManifestFile is written to the build dir for the font compiler
	ManifestFile = "manifest.json"

	dirPerm  = 0755
	filePerm = 0644
)

// Area is the staging directory for a single run
type Area struct {
	fs       types.FS
	buildDir string
}

// New creates a staging Area rooted at buildDir
func New(fsys types.FS, buildDir string) *Area {
	return &Area{fs: fsys, buildDir: buildDir}
}

// FS returns the filesystem the area writes through
func (a *Area) FS() types.FS {
	return a.fs
}

// BuildDir returns the root build directory
func (a *Area) BuildDir() string {
	return a.buildDir
}

// Dir returns the directory holding staged images
func (a *Area) Dir() string {
	return filepath.Join(a.buildDir, PNGDir)
}

// ManifestPath returns where the manifest for the font compiler is written
func (a *Area) ManifestPath() string {
	return filepath.Join(a.buildDir, ManifestFile)
}

// FileName returns the canonical staged file name for a codepoint
func FileName(codepoint uint32) string {
	return fmt.Sprintf("%s%x%s", FilePrefix, codepoint, FileExt)
}

// Path returns the full staged path for a codepoint
func (a *Area) Path(codepoint uint32) string {
	return filepath.Join(a.Dir(), FileName(codepoint))
}

// Reset removes any previous staging contents and recreates the image directory
func (a *Area) Reset() error {
	logger := logging.GetLogger("staging")
	dir := a.Dir()

	if err := a.fs.RemoveAll(dir); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "unable to remove old png build dir: %s", dir)
	}

	if err := a.fs.MkdirAll(dir, dirPerm); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "unable to create png build dir: %s", dir)
	}
	logger.Debug().Str("dir", dir).Msg("Staging directory ready")
	return nil
}

// Stage copies src into the staging area under the canonical name for codepoint
func (a *Area) Stage(src string, codepoint uint32) (string, error) {
	dst := a.Path(codepoint)
	if err := a.copyFile(src, dst); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileCopy, "unable to copy %s to %s", src, dst).
			WithDetail("codepoint", codepoint)
	}
	return dst, nil
}

// Write streams r into the staging area under the canonical name for codepoint
func (a *Area) Write(r io.Reader, codepoint uint32) (string, error) {
	dst := a.Path(codepoint)
	if err := a.writeFile(r, dst); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileWrite, "unable to write %s", dst).
			WithDetail("codepoint", codepoint)
	}
	return dst, nil
}

// StageTemplate copies a font template file into the build dir under its base name
func (a *Area) StageTemplate(src string) (string, error) {
	if err := a.fs.MkdirAll(a.buildDir, dirPerm); err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate, "unable to create build dir: %s", a.buildDir)
	}
	dst := filepath.Join(a.buildDir, filepath.Base(src))
	if err := a.copyFile(src, dst); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileCopy, "unable to create template file in build directory: %s", dst)
	}
	return dst, nil
}

func (a *Area) copyFile(src, dst string) error {
	in, err := a.fs.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()
	return a.writeFile(in, dst)
}

func (a *Area) writeFile(r io.Reader, dst string) error {
	out, err := a.fs.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
