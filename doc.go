// Package main implements the canary CLI tool.
//
// The canary tool automates the canary release workflow for a Cargo project.
// It reads the version from the [package] section of ./Cargo.toml, bumps it
// according to its shape (a -canary.N prerelease increments N; a stable
// version rolls to the next minor with -canary.0 appended), asks for
// interactive confirmation, writes the manifest back, refreshes the lock
// entry for the pinned dependency with "cargo update", then commits
// Cargo.toml and Cargo.lock, tags the commit with the new version, and
// pushes the branch and the tag.
//
// Command Usage:
//
//	canary [flags]
//
// Flags:
//
//	--dry-run:  Report every intended change (the rewritten manifest and the
//	            cargo/git commands that would run) without touching the
//	            filesystem or invoking any external command.
//	--version:  Displays the version of the canary CLI tool and exits.
//
// Examples:
//
//	# Bump 1.2.3 to 1.3.0-canary.0 and push the release
//	canary
//
//	# Bump 2.0.0-canary.5 to 2.0.0-canary.6 and push the release
//	canary
//
//	# Show what would happen without changing anything
//	canary --dry-run
//
// Any failing external command aborts the remaining steps immediately;
// steps that already ran are left in place and the run can be repaired by
// rerunning after the underlying problem is fixed. Declining the
// confirmation prompt exits cleanly without side effects.
//
// For the library API, see the documentation in the "pkg" package.
package main
