//go:build windows

package report

import "os"

// writeFileAtomic falls back to a plain write; renameio does not support Windows.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	return os.WriteFile(filename, data, perm)
}
