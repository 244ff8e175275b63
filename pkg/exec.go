package canary

import (
	"fmt"
	"os"
	"os/exec"
)

// Runner executes one external command and blocks until it finishes. A
// non-zero exit surfaces as a non-nil error. The pipeline never retries.
type Runner interface {
	Run(name string, args ...string) error
}

// execRunner is the default Runner, backed by os/exec with the subprocess
// output passed straight through to the terminal.
type execRunner struct{}

func (execRunner) Run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// refreshLock runs the package-manager update for the one pinned dependency,
// or announces it in dry-run mode.
func (p *Pipeline) refreshLock() error {
	if p.DryRun {
		fmt.Fprintf(p.Out, "Dry-run: Would run 'cargo update %s'\n", p.Dependency)
		return nil
	}
	if err := p.Runner.Run("cargo", "update", p.Dependency); err != nil {
		return fmt.Errorf("cargo update %s: %w", p.Dependency, err)
	}
	fmt.Fprintf(p.Out, "cargo update %s executed\n", p.Dependency)
	return nil
}

// commitVersion stages the manifest and lock file and commits them with the
// canary bump message.
func (p *Pipeline) commitVersion(version string) error {
	message := fmt.Sprintf("[canary] Bump version to %s", version)
	if p.DryRun {
		fmt.Fprintf(p.Out, "Dry-run: Would run 'git add %s %s'\n", p.ManifestPath, p.LockPath)
		fmt.Fprintf(p.Out, "Dry-run: Would run 'git commit -m \"%s\"'\n", message)
		return nil
	}
	if err := p.Runner.Run("git", "add", p.ManifestPath, p.LockPath); err != nil {
		return fmt.Errorf("git add: %w", err)
	}
	if err := p.Runner.Run("git", "commit", "-m", message); err != nil {
		return fmt.Errorf("git commit: %w", err)
	}
	fmt.Fprintf(p.Out, "Version bumped and committed: %s\n", version)
	return nil
}

// tagAndPush tags the new commit with the literal version string, pushes the
// current branch, then pushes the tag by name. A failure partway leaves the
// earlier steps applied; rerunning after fixing the remote is the recovery
// path.
func (p *Pipeline) tagAndPush(version string) error {
	if p.DryRun {
		fmt.Fprintf(p.Out, "Dry-run: Would run 'git tag %s'\n", version)
		fmt.Fprintln(p.Out, "Dry-run: Would run 'git push'")
		fmt.Fprintf(p.Out, "Dry-run: Would run 'git push origin %s'\n", version)
		return nil
	}
	if err := p.Runner.Run("git", "tag", version); err != nil {
		return fmt.Errorf("git tag: %w", err)
	}
	if err := p.Runner.Run("git", "push"); err != nil {
		return fmt.Errorf("git push: %w", err)
	}
	if err := p.Runner.Run("git", "push", "origin", version); err != nil {
		return fmt.Errorf("git push origin %s: %w", version, err)
	}
	return nil
}
