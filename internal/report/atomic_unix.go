//go:build !windows

package report

import (
	"os"

	"github.com/google/renameio/v2"
)

// writeFileAtomic writes via a temp file and rename so readers never see a
// truncated report.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	return renameio.WriteFile(filename, data, perm)
}
