package integrity

import (
	"fmt"
	"slices"
)

type Status int

const (
	// StatusCorrect target matches the reference
	StatusCorrect Status = iota
	// StatusMissing target does not exist
	StatusMissing
	// StatusCorrupted target exists with a different digest
	StatusCorrupted
)

func (s Status) String() string {
	switch s {
	case StatusCorrect:
		return "correct"
	case StatusMissing:
		return "missing"
	case StatusCorrupted:
		return "corrupted"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// FolderReport classifies every reference file of one folder. Paths are slash separated and sorted.
type FolderReport struct {
	Correct   []string
	Missing   []string
	Corrupted []string
}

func (f *FolderReport) Status(path string) (Status, bool) {
	if _, ok := slices.BinarySearch(f.Correct, path); ok {
		return StatusCorrect, true
	}
	if _, ok := slices.BinarySearch(f.Missing, path); ok {
		return StatusMissing, true
	}
	if _, ok := slices.BinarySearch(f.Corrupted, path); ok {
		return StatusCorrupted, true
	}
	return 0, false
}

func (f *FolderReport) Pending() int {
	return len(f.Missing) + len(f.Corrupted)
}

func (f *FolderReport) add(path string, s Status) {
	switch s {
	case StatusCorrect:
		f.Correct = append(f.Correct, path)
	case StatusMissing:
		f.Missing = append(f.Missing, path)
	case StatusCorrupted:
		f.Corrupted = append(f.Corrupted, path)
	}
}

// markCorrect moves a repaired path into Correct.
func (f *FolderReport) markCorrect(path string) {
	f.Missing = remove(f.Missing, path)
	f.Corrupted = remove(f.Corrupted, path)

	if i, ok := slices.BinarySearch(f.Correct, path); !ok {
		f.Correct = slices.Insert(f.Correct, i, path)
	}
}

func remove(list []string, path string) []string {
	if i, ok := slices.BinarySearch(list, path); ok {
		return slices.Delete(list, i, i+1)
	}
	return list
}

// Report is the result of one Verify call.
type Report struct {
	// Order lists folders in the order they were requested.
	Order   []string
	Folders map[string]*FolderReport
}

func newReport() *Report {
	return &Report{Folders: map[string]*FolderReport{}}
}

func (r *Report) IsValid() bool {
	return r.Pending() == 0
}

// Pending counts Missing plus Corrupted entries across all folders.
func (r *Report) Pending() int {
	n := 0
	for _, f := range r.Folders {
		n += f.Pending()
	}
	return n
}

func (r *Report) Summary() string {
	correct, missing, corrupted := 0, 0, 0
	for _, f := range r.Folders {
		correct += len(f.Correct)
		missing += len(f.Missing)
		corrupted += len(f.Corrupted)
	}
	return fmt.Sprintf("%d correct, %d missing, %d corrupted", correct, missing, corrupted)
}
