package classpath

import (
	"archive/zip"
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	manifestName = "META-INF/MANIFEST.MF"
	// Manifest lines may not exceed 72 bytes, excluding the line break
	maxLineBytes = 72
)

// WriteIndirection writes a jar whose manifest Class-Path lists entries, replacing any existing file at path.
func WriteIndirection(path string, entries []string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	uris := make([]string, 0, len(entries))
	for _, e := range entries {
		uris = append(uris, fileURI(e))
	}

	var mf bytes.Buffer
	writeHeader(&mf, "Manifest-Version", "1.0")
	writeHeader(&mf, "Created-By", "craftlauncher")
	writeHeader(&mf, "Class-Path", strings.Join(uris, " "))
	mf.WriteString("\r\n")

	tmp, err := os.CreateTemp(dir, ".classpath.*.tmp")
	if err != nil {
		return err
	}

	zw := zip.NewWriter(tmp)
	w, err := zw.CreateHeader(&zip.FileHeader{Name: manifestName, Method: zip.Deflate})
	if err == nil {
		_, err = w.Write(mf.Bytes())
	}
	if err == nil {
		err = zw.Close()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return nil
}

// writeHeader wraps name: value into manifest lines, continuing with a leading space.
func writeHeader(b *bytes.Buffer, name string, value string) {
	line := name + ": " + value
	limit := maxLineBytes

	for {
		n := min(limit, len(line))
		b.WriteString(line[:n])
		b.WriteString("\r\n")

		line = line[n:]
		if line == "" {
			return
		}

		b.WriteByte(' ')
		limit = maxLineBytes - 1
	}
}

func fileURI(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}

// ReadIndirection returns the entries listed in an indirection jar's Class-Path.
func ReadIndirection(path string) ([]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	f, err := zr.Open(manifestName)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	headers, err := parseManifest(f)
	if err != nil {
		return nil, err
	}

	cp, ok := headers["Class-Path"]
	if !ok {
		return nil, errors.New("manifest has no Class-Path")
	}

	var out []string
	for _, raw := range strings.Fields(cp) {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("class path entry %q: %w", raw, err)
		}

		p := u.Path
		if runtime.GOOS == "windows" && len(p) > 2 && p[0] == '/' && p[2] == ':' {
			p = p[1:]
		}
		out = append(out, filepath.FromSlash(p))
	}

	return out, nil
}

func parseManifest(r io.Reader) (map[string]string, error) {
	headers := map[string]string{}
	var last string

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			break
		}

		if strings.HasPrefix(line, " ") {
			if last == "" {
				return nil, errors.New("continuation without header")
			}
			headers[last] += line[1:]
			continue
		}

		name, value, ok := strings.Cut(line, ": ")
		if !ok {
			return nil, fmt.Errorf("malformed manifest line %q", line)
		}
		headers[name] = value
		last = name
	}

	return headers, sc.Err()
}
