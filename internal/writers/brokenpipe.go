package writers

import (
	"errors"
	"io"
	"syscall"
)

// IsBrokenPipe reports whether err means the reader went away (EPIPE or
// a closed pipe), as happens when output is piped into head.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}

// quiet drops broken-pipe errors.
func quiet(err error) error {
	if IsBrokenPipe(err) {
		return nil
	}
	return err
}
