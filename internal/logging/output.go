package logging

import (
	"io"

	"go.uber.org/multierr"
)

// teeWriter copies every log line to all of its writers. A failing writer
// does not stop the others; their errors are combined.
type teeWriter []io.Writer

func (tw teeWriter) Write(p []byte) (int, error) {
	var err error
	for _, w := range tw {
		if _, werr := w.Write(p); werr != nil {
			err = multierr.Append(err, werr)
		}
	}
	if err != nil {
		return 0, err
	}
	return len(p), nil
}
