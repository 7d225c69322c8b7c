// Package recognizer holds the face recognition vocabulary and the
// known-person registry. Embedding extraction happens in an external
// service; this package only stores reference embeddings and answers
// nearest-neighbour queries against them.
package recognizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/kozaktomas/campus-tracker/internal/detection"
)

// Match is an accepted face recognition result for one detection.
type Match struct {
	Identity   string         `json:"identity"`
	Confidence float64        `json:"confidence"`
	BBox       detection.BBox `json:"bbox"`
}

// RemoveDiacritics removes diacritical marks from a string (e.g., "Jiří" -> "Jiri").
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// NormalizePersonID normalizes a person id for ledger keying (lowercase,
// no diacritics, spaces and dashes collapsed to underscores).
func NormalizePersonID(id string) string {
	id = RemoveDiacritics(id)
	id = strings.ToLower(strings.TrimSpace(id))
	id = strings.ReplaceAll(id, "-", "_")
	id = strings.ReplaceAll(id, " ", "_")
	return id
}
