// Package canary implements the canary release pipeline: bump the version
// in the Cargo.toml [package] section, confirm with the user, refresh the
// lock entry for the pinned dependency, then commit, tag, and push.
package canary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Defaults for the files and dependency the pipeline touches.
const (
	DefaultManifest   = "Cargo.toml"
	DefaultLock       = "Cargo.lock"
	DefaultDependency = "shiguredo_mp4"
)

// Prompter asks the user to approve a version change. Only a case-insensitive
// "y" approves; any other input, including an empty line, declines.
type Prompter interface {
	Confirm(current, next string) (bool, error)
}

// stdinPrompter is the default Prompter, reading one line from standard input.
type stdinPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func (p stdinPrompter) Confirm(current, next string) (bool, error) {
	fmt.Fprint(p.out, "Do you want to update the version? (Y/n): ")
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(line), "y"), nil
}

// ReleaseMeta summarizes a pipeline run. Released is false when the user
// declined; in that case NewVersion is empty and nothing was touched.
type ReleaseMeta struct {
	OldVersion string
	NewVersion string
	Released   bool
}

// Pipeline holds the wiring for one canary release run. The zero value is
// not usable; construct it with New.
type Pipeline struct {
	ManifestPath string
	LockPath     string
	Dependency   string
	DryRun       bool

	Runner   Runner
	Prompter Prompter
	Out      io.Writer
}

// New returns a Pipeline bound to the real filesystem, subprocesses, and
// terminal. Tests swap Runner, Prompter, and Out for fakes.
func New(dryRun bool) *Pipeline {
	return &Pipeline{
		ManifestPath: DefaultManifest,
		LockPath:     DefaultLock,
		Dependency:   DefaultDependency,
		DryRun:       dryRun,
		Runner:       execRunner{},
		Prompter:     stdinPrompter{in: bufio.NewReader(os.Stdin), out: os.Stdout},
		Out:          os.Stdout,
	}
}

// Run executes the four pipeline steps in order: version rewrite with
// confirmation, lock refresh, commit, tag and push. The first failure aborts
// everything after it. A user decline returns a nil error with
// Released == false.
func (p *Pipeline) Run() (ReleaseMeta, error) {
	meta, err := p.updateVersion()
	if err != nil || !meta.Released {
		return meta, err
	}
	if err := p.refreshLock(); err != nil {
		return meta, err
	}
	if err := p.commitVersion(meta.NewVersion); err != nil {
		return meta, err
	}
	if err := p.tagAndPush(meta.NewVersion); err != nil {
		return meta, err
	}
	return meta, nil
}

// updateVersion reads the manifest, computes the bump, asks for
// confirmation, and writes the new text back (or prints it in dry-run mode).
func (p *Pipeline) updateVersion() (ReleaseMeta, error) {
	content, err := os.ReadFile(p.ManifestPath)
	if err != nil {
		return ReleaseMeta{}, fmt.Errorf("read %s: %w", p.ManifestPath, err)
	}

	rw, err := BumpManifest(string(content))
	if err != nil {
		return ReleaseMeta{}, err
	}
	meta := ReleaseMeta{OldVersion: rw.Old}

	fmt.Fprintf(p.Out, "Current version: %s\n", rw.Old)
	fmt.Fprintf(p.Out, "New version: %s\n", rw.New)

	ok, err := p.Prompter.Confirm(rw.Old, rw.New)
	if err != nil {
		return meta, err
	}
	if !ok {
		fmt.Fprintln(p.Out, "Version update canceled.")
		return meta, nil
	}

	meta.NewVersion = rw.New
	meta.Released = true

	if p.DryRun {
		fmt.Fprintln(p.Out, "Dry-run: Version would be updated to:")
		fmt.Fprintln(p.Out, rw.Text)
		return meta, nil
	}

	if err := os.WriteFile(p.ManifestPath, []byte(rw.Text), 0o644); err != nil {
		return meta, fmt.Errorf("write %s: %w", p.ManifestPath, err)
	}
	fmt.Fprintf(p.Out, "Version updated in %s to %s\n", p.ManifestPath, rw.New)
	return meta, nil
}
