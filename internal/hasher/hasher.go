// Package hasher computes content identities for files.
//
// Two strengths are offered: a fast xxHash64 fingerprint used to bucket
// candidates, and a blake2b-256 digest used to confirm identity.
package hasher

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/crypto/blake2b"
)

// Digest is a blake2b-256 content digest.
type Digest [blake2b.Size256]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Fingerprint computes xxHash64 from a reader, streaming.
func Fingerprint(r io.Reader) (uint64, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

// FingerprintFile is Fingerprint over the whole file at path.
func FingerprintFile(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	sum, err := Fingerprint(f)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	return sum, nil
}

// DigestReader computes the blake2b-256 digest of everything read from r.
func DigestReader(r io.Reader) (Digest, error) {
	var d Digest
	h, err := blake2b.New256(nil)
	if err != nil {
		return d, err
	}
	if _, err := io.Copy(h, r); err != nil {
		return d, err
	}
	copy(d[:], h.Sum(nil))
	return d, nil
}

// DigestFile is DigestReader over the whole file at path.
func DigestFile(path string) (Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Digest{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	d, err := DigestReader(f)
	if err != nil {
		return Digest{}, fmt.Errorf("read %s: %w", path, err)
	}
	return d, nil
}
