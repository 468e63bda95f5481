//go:build !windows

package launch

import (
	"golang.org/x/sys/unix"
	"os"
)

func isExecutable(path string) bool {
	st, err := os.Stat(path)
	if err != nil || !st.Mode().IsRegular() {
		return false
	}
	return unix.Access(path, unix.X_OK) == nil
}
