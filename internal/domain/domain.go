package domain

import (
	"fmt"
	"strings"
)

// normalizeEnum uppercases and trims raw, mapping spaces and dashes to
// underscores so "pending review" and "pending-review" both resolve.
func normalizeEnum(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}

func invalidEnum(kind, raw string) error {
	return fmt.Errorf("invalid %s %q", kind, raw)
}
