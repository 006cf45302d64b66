package hash

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	stdhash "hash"
	"io"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Sentinel stands in for the digest of content that is not text.
const Sentinel = "Binary"

// Algorithm names a digest function. Both copies being compared must use the
// same one.
type Algorithm string

const (
	SHA1  Algorithm = "sha1"
	XXH64 Algorithm = "xxh64"
)

// Algorithms lists every supported algorithm, default first.
func Algorithms() []Algorithm {
	return []Algorithm{SHA1, XXH64}
}

// Parse resolves an algorithm name. An empty name selects SHA1.
func Parse(name string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(name)) {
	case "", SHA1:
		return SHA1, nil
	case XXH64:
		return XXH64, nil
	}
	return "", fmt.Errorf("unknown hash algorithm %q", name)
}

func (a Algorithm) String() string {
	return string(a)
}

func (a Algorithm) newHash() stdhash.Hash {
	if a == XXH64 {
		return xxhash.New()
	}
	return sha1.New()
}

// Sum returns the hex digest of data.
func (a Algorithm) Sum(data []byte) string {
	h := a.newHash()
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SumLines returns the digest of the concatenated lines, which equals the
// digest of the file region they were cut from.
func (a Algorithm) SumLines(lines []string) string {
	h := a.newHash()
	for _, line := range lines {
		io.WriteString(h, line)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Fold combines child digests (or sentinels) into a directory digest. The
// caller supplies them in sorted-name order.
func (a Algorithm) Fold(digests []string) string {
	return a.SumLines(digests)
}
