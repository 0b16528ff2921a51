package util

import (
	"fmt"
	"regexp"
	"strings"
)

// validLabel matches a single RFC 1123 hostname label.
var validLabel = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// ValidateDomainName checks that name looks like a registrable domain that a
// provider could host a zone for:
//   - At least two labels (e.g. "example.com")
//   - At most 253 characters
//   - Each label is 1-63 characters of a-z, 0-9 and hyphens
//   - Labels do not start or end with a hyphen
//
// The name is expected to be normalised (lowercase, no trailing dot).
func ValidateDomainName(name string) error {
	if name == "" {
		return fmt.Errorf("domain name is required")
	}
	if len(name) > 253 {
		return fmt.Errorf("domain name must be at most 253 characters, got %d", len(name))
	}

	labels := strings.Split(name, ".")
	if len(labels) < 2 {
		return fmt.Errorf("domain name %q must contain at least two labels", name)
	}

	for _, label := range labels {
		if label == "" {
			return fmt.Errorf("domain name %q contains an empty label", name)
		}
		if !validLabel.MatchString(label) {
			return fmt.Errorf("domain name %q contains an invalid label %q", name, label)
		}
	}

	return nil
}
