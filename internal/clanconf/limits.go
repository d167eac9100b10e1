// Package clanconf holds the small set of numeric limits the clan
// state machine enforces. Values match spec.md §3/§4.5 defaults and
// may be overridden from a YAML file, following the teacher's
// internal/config pattern of a struct with sensible zero-value
// defaults overlaid by an optional file.
package clanconf

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Limits bounds the clan state machine. Field names mirror the
// MAX_* constants named throughout spec.md.
type Limits struct {
	MaxOwnership      int `yaml:"max_ownership"`
	MaxMembership     int `yaml:"max_membership"`
	MaxClanNameChars  int `yaml:"max_clan_name_chars"`
	MaxClanTagChars   int `yaml:"max_clan_tag_chars"`
	MaxDescription    int `yaml:"max_description"`
	MaxAnnouncements  int `yaml:"max_announcements"`
	MaxBlacklist      int `yaml:"max_blacklist"`
}

// Default returns the limits pinned by spec.md and its original_source
// supplements (announcement/blacklist caps, §3 EXPANSION).
func Default() Limits {
	return Limits{
		MaxOwnership:     1,
		MaxMembership:    3,
		MaxClanNameChars: 20,
		MaxClanTagChars:  4,
		MaxDescription:   256,
		MaxAnnouncements: 5,
		MaxBlacklist:     50,
	}
}

// Load returns Default() overlaid by the YAML file at path, if present.
// A missing file is not an error — defaults apply.
func Load(path string) (Limits, error) {
	l := Default()
	if path == "" {
		return l, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return l, fmt.Errorf("reading limits file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &l); err != nil {
		return l, fmt.Errorf("parsing limits file %s: %w", path, err)
	}
	return l, nil
}
