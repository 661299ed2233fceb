package utils

import (
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
)

// EvidenceFingerprint hashes a screenshot's bytes so duplicate or recycled
// evidence can be detected across matches. Returns the hex digest and the
// number of bytes read.
func EvidenceFingerprint(r io.Reader) (string, int64, error) {
	h := sha3.New256()
	n, err := io.Copy(h, r)
	if err != nil {
		return "", 0, fmt.Errorf("failed to hash evidence: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// EvidenceKey builds the object-storage key for an uploaded screenshot.
// Keys are date-partitioned and unguessable.
func EvidenceKey(matchID int, ext string) string {
	if ext == "" {
		ext = ".png"
	}
	return path.Join(
		"evidence",
		time.Now().UTC().Format("2006/01/02"),
		fmt.Sprintf("match-%d-%s%s", matchID, uuid.NewString(), ext),
	)
}
