package classpath

import (
	"path/filepath"
)

// Descriptor names a library archive relative to the library root.
type Descriptor struct {
	Path string
}

// Descriptors wraps slash separated relative paths, keeping their order.
func Descriptors(paths []string) []Descriptor {
	out := make([]Descriptor, 0, len(paths))
	for _, p := range paths {
		out = append(out, Descriptor{Path: p})
	}
	return out
}

func (d Descriptor) Resolve(root string) string {
	return filepath.Join(root, filepath.FromSlash(d.Path))
}
