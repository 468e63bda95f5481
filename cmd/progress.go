package cmd

import (
	"fmt"
	"github.com/csnewman/craftlauncher/integrity"
	"github.com/schollz/progressbar/v3"
	"io"
)

// newProgress renders (percent, message) updates as a bar on w. Call the returned func when done.
func newProgress(w io.Writer, description string) (integrity.Progress, func()) {
	bar := progressbar.NewOptions(
		100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetWidth(30),
	)

	progress := func(percent int, message string) {
		bar.Describe(message)
		_ = bar.Set(percent)
	}

	finish := func() {
		_ = bar.Finish()
		fmt.Fprintln(w)
	}

	return progress, finish
}
