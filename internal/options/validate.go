// Package options provides shared utilities for option validation across packages.
package options

import (
	"strings"

	"github.com/erraggy/oasexplorer/oaserrors"
)

// Source names one input option and whether it was set.
type Source struct {
	Option string
	Set    bool
}

// ValidateSingleInputSource ensures exactly one input source is specified.
// The returned error is a *oaserrors.ConfigError naming the offending options.
func ValidateSingleInputSource(sources ...Source) error {
	var set, all []string
	for _, s := range sources {
		all = append(all, s.Option)
		if s.Set {
			set = append(set, s.Option)
		}
	}

	switch len(set) {
	case 1:
		return nil
	case 0:
		return &oaserrors.ConfigError{
			Option:  "input",
			Message: "must specify an input source (use " + strings.Join(all, ", ") + ")",
		}
	default:
		return &oaserrors.ConfigError{
			Option:  "input",
			Value:   strings.Join(set, ", "),
			Message: "must specify exactly one input source",
		}
	}
}
