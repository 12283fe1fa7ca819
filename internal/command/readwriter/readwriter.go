package readwriter

import (
	"io"
)

// ReadWriter holds the standard streams a command reads from and writes to. Batch mode reads
// command lines from In.
type ReadWriter struct {
	Out    io.Writer
	In     io.Reader
	ErrOut io.Writer
}
