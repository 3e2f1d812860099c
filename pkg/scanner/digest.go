// Package scanner performs on-demand forensic inspection of individual
// files: cryptographic digests, Shannon entropy, extension and size
// heuristics, and a local reputation lookup.
package scanner

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/aegis-watch/aegisd/pkg/errors"
)

const digestBlockSize = 8192

// Digest computes the hex digest of a file, streaming it in fixed-size
// blocks. Supported algorithms are sha256 (the default when algorithm is
// empty), sha1 and md5.
func Digest(path, algorithm string) (string, error) {
	var h hash.Hash
	switch algorithm {
	case "", "sha256":
		h = sha256.New()
	case "sha1":
		h = sha1.New()
	case "md5":
		h = md5.New()
	default:
		return "", fmt.Errorf("unsupported digest algorithm: %s", algorithm)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewNotFound(path)
		}
		return "", errors.NewIO("open", path, err)
	}
	defer f.Close()

	buf := make([]byte, digestBlockSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", errors.NewIO("read", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
