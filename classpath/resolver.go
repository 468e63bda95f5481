package classpath

import (
	"errors"
	"go.uber.org/zap"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const DefaultMaxLength = 8000

// Resolver assembles the ordered, de-duplicated list of archives for the runtime.
type Resolver struct {
	log *zap.SugaredLogger

	// MaxLength bounds the serialized classpath. Zero disables the limit.
	MaxLength int
	// IndirectionPath is where the indirection jar is written when MaxLength is exceeded.
	IndirectionPath string
	// Mandatory substrings pick the archives kept when the indirection jar cannot be written.
	Mandatory []string
	// Helpers are added after Mandatory, up to ReducedLimit entries.
	Helpers      []string
	ReducedLimit int
}

func NewResolver(log *zap.SugaredLogger, indirectionPath string) *Resolver {
	return &Resolver{
		log:             log,
		MaxLength:       DefaultMaxLength,
		IndirectionPath: indirectionPath,
		Mandatory:       []string{"launchwrapper", "jopt-simple", "lwjgl", "guava", "gson", "authlib"},
		Helpers:         []string{"log4j", "commons", "netty", "asm"},
		ReducedLimit:    20,
	}
}

// Resolve returns existing essentials in order, then the other jars below libraryRoot in walk
// order, then clientArchive.
//
// When the joined result would exceed MaxLength the list is replaced by a single indirection jar,
// or by the reduced list if that jar cannot be written.
func (r *Resolver) Resolve(libraryRoot string, essentials []Descriptor, clientArchive string) ([]string, error) {
	root, err := filepath.Abs(libraryRoot)
	if err != nil {
		return nil, err
	}

	// The client always goes last, even when it lives below the library root
	var client string
	if clientArchive != "" {
		client, err = filepath.Abs(clientArchive)
		if err != nil {
			return nil, err
		}
	}

	var entries []string
	seen := map[string]bool{}
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			entries = append(entries, p)
		}
	}

	missing := 0
	for _, d := range essentials {
		p := d.Resolve(root)
		if p == client {
			continue
		}
		if st, err := os.Stat(p); err == nil && st.Mode().IsRegular() {
			add(p)
		} else {
			missing++
		}
	}
	if missing > 0 {
		r.log.Warnw("Essential libraries missing", "count", missing)
	}

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if p != client && d.Type().IsRegular() && strings.EqualFold(filepath.Ext(p), ".jar") {
			add(p)
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	if client != "" {
		add(client)
	}

	length := len(Join(entries))
	if r.MaxLength <= 0 || length <= r.MaxLength {
		r.log.Debugw("Classpath resolved", "entries", len(entries), "length", length)
		return entries, nil
	}

	r.log.Infow("Classpath too long, writing indirection archive", "entries", len(entries), "length", length, "limit", r.MaxLength)

	if err := WriteIndirection(r.IndirectionPath, entries); err != nil {
		reduced := r.reduce(entries, client)
		r.log.Warnw("Indirection archive failed, using reduced classpath", "error", err, "entries", len(reduced))
		return reduced, nil
	}

	return []string{r.IndirectionPath}, nil
}

// reduce keeps the first match of each mandatory substring, then helper archives up to the limit, then the client.
func (r *Resolver) reduce(entries []string, client string) []string {
	var out []string
	picked := map[string]bool{}

	for _, m := range r.Mandatory {
		for _, e := range entries {
			if !picked[e] && e != client && strings.Contains(strings.ToLower(filepath.Base(e)), m) {
				picked[e] = true
				out = append(out, e)
				break
			}
		}
	}

	helpers := 0
	for _, e := range entries {
		if helpers >= r.ReducedLimit {
			break
		}
		if picked[e] || e == client {
			continue
		}

		name := strings.ToLower(filepath.Base(e))
		for _, h := range r.Helpers {
			if strings.Contains(name, h) {
				picked[e] = true
				out = append(out, e)
				helpers++
				break
			}
		}
	}

	if client != "" {
		out = append(out, client)
	}

	return out
}

// Join serializes entries the way they are measured against MaxLength: each quoted, separated by the OS list separator.
func Join(entries []string) string {
	quoted := make([]string, len(entries))
	for i, e := range entries {
		quoted[i] = `"` + e + `"`
	}
	return strings.Join(quoted, string(os.PathListSeparator))
}

// Arg is the value passed to -cp.
func Arg(entries []string) string {
	return strings.Join(entries, string(os.PathListSeparator))
}
