package canary

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	modsemver "golang.org/x/mod/semver"
)

// packageHeader marks the start of the project metadata section in Cargo.toml.
const packageHeader = "[package]"

var (
	// ErrVersionNotFound is returned when the [package] section is missing or
	// carries no version assignment.
	ErrVersionNotFound = errors.New("version not found in [package] section of Cargo.toml")
	// ErrVersionFormat is returned when a version is present but matches
	// neither a stable X.Y.Z nor a canary X.Y.Z-canary.N shape.
	ErrVersionFormat = errors.New("version not found or incorrect format in [package] section")
)

// versionRe matches the first quoted version assignment. The quoted value is
// capture group 1 so the splice can replace exactly that range.
var versionRe = regexp.MustCompile(`version\s*=\s*"([\d.\w+-]+)"`)

// canaryRe recognizes the prerelease tag shape this tool produces.
var canaryRe = regexp.MustCompile(`^canary\.(\d+)$`)

// Rewrite holds the result of bumping a manifest in memory. Text is the full
// manifest with only the version replaced; everything outside the quoted
// version is byte-identical to the input.
type Rewrite struct {
	Old  string
	New  string
	Text string
}

// packageSection returns the byte range [start, end) of the [package]
// section: from the header to the start of the next top-level section, or to
// the end of the text if no further section follows. ok is false when the
// header is absent.
func packageSection(content string) (start, end int, ok bool) {
	start = strings.Index(content, packageHeader)
	if start < 0 {
		return 0, 0, false
	}
	end = len(content)
	// Scan for the next "\n[" whose section name does not begin with
	// "package", so sub-tables like [package.metadata] stay inside the window.
	for i := start; ; {
		j := strings.Index(content[i:], "\n[")
		if j < 0 {
			break
		}
		nameAt := i + j + len("\n[")
		if !strings.HasPrefix(content[nameAt:], "package") {
			end = i + j
			break
		}
		i = nameAt
	}
	return start, end, true
}

// nextVersion applies the bump rule to a current version string:
// X.Y.Z-canary.N increments N, a stable X.Y.Z rolls to X.(Y+1).0-canary.0,
// and anything else is ErrVersionFormat.
func nextVersion(current string) (string, error) {
	v, err := semver.StrictNewVersion(current)
	if err != nil {
		return "", ErrVersionFormat
	}
	if v.Metadata() != "" {
		return "", ErrVersionFormat
	}
	if pre := v.Prerelease(); pre != "" {
		m := canaryRe.FindStringSubmatch(pre)
		if m == nil {
			return "", ErrVersionFormat
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return "", ErrVersionFormat
		}
		bumped, err := v.SetPrerelease("canary." + strconv.Itoa(n+1))
		if err != nil {
			return "", ErrVersionFormat
		}
		return bumped.String(), nil
	}
	bumped, err := v.IncMinor().SetPrerelease("canary.0")
	if err != nil {
		return "", ErrVersionFormat
	}
	return bumped.String(), nil
}

// extractVersion returns the first quoted version inside the [package]
// section of content, or "" if there is no section or no version in it.
func extractVersion(content string) string {
	start, end, ok := packageSection(content)
	if !ok {
		return ""
	}
	m := versionRe.FindStringSubmatch(content[start:end])
	if m == nil {
		return ""
	}
	return m[1]
}

// BumpManifest computes the canary bump for a manifest text. Exactly one
// substitution is applied, on the first version assignment inside the
// [package] section; all other bytes are preserved. The rewritten text is
// re-scanned to confirm the new version is really in place before returning.
func BumpManifest(content string) (Rewrite, error) {
	start, end, ok := packageSection(content)
	if !ok {
		return Rewrite{}, ErrVersionNotFound
	}
	section := content[start:end]

	loc := versionRe.FindStringSubmatchIndex(section)
	if loc == nil {
		return Rewrite{}, ErrVersionNotFound
	}
	current := section[loc[2]:loc[3]]

	next, err := nextVersion(current)
	if err != nil {
		return Rewrite{}, err
	}

	// Splice the new version into the quoted range only.
	text := content[:start+loc[2]] + next + content[start+loc[3]:]

	// Re-extract from the rewritten text and validate what actually landed
	// in it. A failure here means the splice itself is broken, so never
	// proceed silently.
	got := extractVersion(text)
	if !modsemver.IsValid("v"+got) || got != next {
		return Rewrite{}, fmt.Errorf("failed to extract the new version after the update")
	}

	return Rewrite{Old: current, New: next, Text: text}, nil
}
