package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a stable content hash used for change detection in
// the validation cache. It changes whenever the source item's content
// changes and is otherwise stable.
func Fingerprint(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
