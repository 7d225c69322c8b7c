// Package location infers which camera site a video or frame belongs to.
// Classification is best-effort: the filename pattern table is tried
// first, and a visual signature comparison covers footage whose filename
// carries no usable metadata.
package location

import (
	"strings"

	"github.com/kozaktomas/campus-tracker/internal/config"
)

// Unknown is returned when no rule or signature matches.
const Unknown = "unknown"

// PatternClassifier resolves a filename to a camera site using an
// ordered substring table. Rule order is significant and preserved from
// configuration: the first matching rule wins.
type PatternClassifier struct {
	rules []config.LocationPattern
}

func NewPatternClassifier(rules []config.LocationPattern) *PatternClassifier {
	return &PatternClassifier{rules: rules}
}

// Classify matches the filename case-insensitively against each rule's
// patterns in order. Returns Unknown when nothing matches.
func (c *PatternClassifier) Classify(filename string) string {
	name := strings.ToLower(filename)
	for _, rule := range c.rules {
		for _, pattern := range rule.Patterns {
			if strings.Contains(name, strings.ToLower(pattern)) {
				return rule.Location
			}
		}
	}
	return Unknown
}
