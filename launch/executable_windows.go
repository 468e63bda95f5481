//go:build windows

package launch

import (
	"os"
	"path/filepath"
	"strings"
)

func isExecutable(path string) bool {
	st, err := os.Stat(path)
	if err != nil || !st.Mode().IsRegular() {
		return false
	}
	return strings.EqualFold(filepath.Ext(path), ".exe")
}
