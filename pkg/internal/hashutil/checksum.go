package hashutil

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/arthur-debert/twitchmotes/pkg/types"
)

// Prefix is prepended to every formatted checksum
const Prefix = "sha256:"

// FileChecksum calculates the SHA256 digest of a file on the given filesystem
func FileChecksum(fsys types.FS, path string) ([sha256.Size]byte, error) {
	var sum [sha256.Size]byte

	file, err := fsys.Open(path)
	if err != nil {
		return sum, err
	}
	defer func() {
		_ = file.Close()
	}()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return sum, err
	}
	copy(sum[:], hash.Sum(nil))
	return sum, nil
}

// CalculateFileChecksum returns the SHA256 checksum of a file formatted as sha256:<hex>
func CalculateFileChecksum(fsys types.FS, path string) (string, error) {
	sum, err := FileChecksum(fsys, path)
	if err != nil {
		return "", err
	}
	return Format(sum), nil
}

// Format renders a digest as sha256:<hex>
func Format(sum [sha256.Size]byte) string {
	return fmt.Sprintf("%s%x", Prefix, sum[:])
}
