package canary

import (
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `[package]
name = "shiguredo_mp4"
version = "1.2.3"
edition = "2021"

[dependencies]
serde = { version = "1.0", features = ["derive"] }

[dev-dependencies]
anyhow = "1"
`

func TestBumpStableVersion(t *testing.T) {
	rw, err := BumpManifest(sampleManifest)
	require.NoError(t, err)

	assert.Equal(t, "1.2.3", rw.Old)
	assert.Equal(t, "1.3.0-canary.0", rw.New)

	want := strings.Replace(sampleManifest, `version = "1.2.3"`, `version = "1.3.0-canary.0"`, 1)
	assert.Equal(t, want, rw.Text, "only the package version may change")
}

func TestBumpCanaryVersion(t *testing.T) {
	manifest := strings.Replace(sampleManifest, `version = "1.2.3"`, `version = "2.0.0-canary.5"`, 1)

	rw, err := BumpManifest(manifest)
	require.NoError(t, err)

	assert.Equal(t, "2.0.0-canary.5", rw.Old)
	assert.Equal(t, "2.0.0-canary.6", rw.New)
}

func TestBumpLeavesDependencyPinsAlone(t *testing.T) {
	rw, err := BumpManifest(sampleManifest)
	require.NoError(t, err)

	assert.Contains(t, rw.Text, `serde = { version = "1.0", features = ["derive"] }`)

	depsAt := strings.Index(rw.Text, "[dependencies]")
	require.Positive(t, depsAt)
	assert.Equal(t, sampleManifest[strings.Index(sampleManifest, "[dependencies]"):], rw.Text[depsAt:],
		"everything after the package section must be byte-identical")
}

func TestBumpPackageSectionAtEndOfFile(t *testing.T) {
	manifest := "[package]\nname = \"x\"\nversion = \"0.9.1-canary.0\"\n"

	rw, err := BumpManifest(manifest)
	require.NoError(t, err)

	assert.Equal(t, "0.9.1-canary.1", rw.New)
	assert.Equal(t, "[package]\nname = \"x\"\nversion = \"0.9.1-canary.1\"\n", rw.Text)
}

func TestBumpSubTableStaysInsideWindow(t *testing.T) {
	manifest := `[package]
name = "x"
version = "1.2.3"

[package.metadata.docs]
all-features = true

[dependencies]
libc = { version = "0.2" }
`
	rw, err := BumpManifest(manifest)
	require.NoError(t, err)

	assert.Equal(t, "1.3.0-canary.0", rw.New)
	assert.Contains(t, rw.Text, `libc = { version = "0.2" }`)
}

func TestBumpVersionOnlyInDependencies(t *testing.T) {
	manifest := `[package]
name = "x"

[dependencies]
serde = { version = "1.0" }
`
	_, err := BumpManifest(manifest)
	assert.ErrorIs(t, err, ErrVersionNotFound)
}

func TestBumpNoPackageSection(t *testing.T) {
	_, err := BumpManifest("[dependencies]\nserde = \"1.0\"\n")
	assert.ErrorIs(t, err, ErrVersionNotFound)
}

func TestBumpRejectsUnrecognizedShapes(t *testing.T) {
	for _, v := range []string{"1.2", "1.2.3-beta.1", "1.2.3-canary.x", "1.2.3+build.4", "1.2.3-canary.1+build.4", "v1.2.3"} {
		manifest := strings.Replace(sampleManifest, `version = "1.2.3"`, `version = "`+v+`"`, 1)
		_, err := BumpManifest(manifest)
		assert.ErrorIs(t, err, ErrVersionFormat, "version %q", v)
	}
}

func TestExtractVersion(t *testing.T) {
	cases := []struct {
		name     string
		manifest string
		want     string
	}{
		{"stable", sampleManifest, "1.2.3"},
		{"metadata captured whole", strings.Replace(sampleManifest, `version = "1.2.3"`, `version = "1.2.3+build.4"`, 1), "1.2.3+build.4"},
		{"no package section", "[dependencies]\nserde = \"1.0\"\n", ""},
		{"no version in section", "[package]\nname = \"x\"\n\n[dependencies]\nserde = { version = \"1.0\" }\n", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, extractVersion(tc.manifest), tc.name)
	}
}

func TestBumpRoundTripsThroughTomlDecode(t *testing.T) {
	rw, err := BumpManifest(sampleManifest)
	require.NoError(t, err)

	var doc struct {
		Package struct {
			Version string `toml:"version"`
		} `toml:"package"`
	}
	require.NoError(t, toml.Unmarshal([]byte(rw.Text), &doc))
	assert.Equal(t, rw.New, doc.Package.Version)
}
