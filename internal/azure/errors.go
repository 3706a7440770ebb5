// Package azure lists the Azure VM image catalog by running the Azure CLI
// (`az`) and parsing its JSON output.
package azure

import (
	"errors"
	"fmt"
	"strings"
)

// azInstallURL is the URL to install the Azure CLI.
const azInstallURL = "https://learn.microsoft.com/cli/azure/install-azure-cli"

// MinAzVersion is the first Azure CLI release with the `az version` command.
const MinAzVersion = "2.11.0"

// Sentinel errors for structured error handling across the Azure CLI integration.
var (
	// ErrAzNotFound indicates the az CLI binary is not in PATH.
	ErrAzNotFound = fmt.Errorf("azure CLI (az) not found in PATH; install from %s", azInstallURL)

	// ErrAzTooOld indicates the installed az CLI is older than MinAzVersion.
	ErrAzTooOld = errors.New("azure CLI is too old")

	// ErrNotLoggedIn indicates `az account show` failed.
	ErrNotLoggedIn = errors.New("not logged in to Azure; run 'az login' first")

	// ErrCommandFailed indicates an az command returned a non-zero exit code.
	ErrCommandFailed = errors.New("az command failed")

	// ErrImageNotFound indicates the requested image version does not exist.
	ErrImageNotFound = errors.New("image not found")
)

// CommandError wraps ErrCommandFailed with the az subcommand and its stderr.
func CommandError(operation, stderr string) error {
	return fmt.Errorf("%w: az %s: %s", ErrCommandFailed, operation, strings.TrimSpace(stderr))
}

// TooOldError wraps ErrAzTooOld with the installed and required versions.
func TooOldError(installed string) error {
	return fmt.Errorf("%w: found %s, need >= %s; upgrade from %s",
		ErrAzTooOld, installed, MinAzVersion, azInstallURL)
}

// isNotFound reports whether az stderr describes a missing resource.
func isNotFound(stderr string) bool {
	lower := strings.ToLower(stderr)
	return strings.Contains(lower, "notfound") ||
		strings.Contains(lower, "not found") ||
		strings.Contains(lower, "could not be found")
}
