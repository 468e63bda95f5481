package update

import (
	"github.com/hashicorp/go-version"
)

// Compare returns 1 when remote is newer than local, -1 when older and 0 when equal. Versions that
// do not parse compare by string equality only, returning 0 when equal and 1 otherwise.
func Compare(local string, remote string) int {
	lv, lerr := version.NewVersion(local)
	rv, rerr := version.NewVersion(remote)
	if lerr != nil || rerr != nil {
		if local == remote {
			return 0
		}
		return 1
	}
	return rv.Compare(lv)
}

// Describe summarizes the move from local to remote for logs and status output.
func Describe(local string, remote string) string {
	switch {
	case local == "":
		return "install " + remote
	case local == remote:
		return "current " + local
	case Compare(local, remote) < 0:
		return "downgrade " + local + " -> " + remote
	default:
		return "upgrade " + local + " -> " + remote
	}
}
