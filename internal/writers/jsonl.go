package writers

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"

	"ksites/pkg/api"
)

const (
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatTSV   = "tsv"
	FormatHTML  = "html"
)

var bwPool = sync.Pool{
	New: func() any { return bufio.NewWriterSize(io.Discard, 64<<10) },
}

// startEncoder runs a JSON-lines encoder goroutine for values of type T.
func startEncoder[T any](out io.Writer, bufSize int, encode func(*json.Encoder, T) error) (chan<- T, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan T, bufSize)
	done := make(chan error, 1)

	go func() {
		bw := bwPool.Get().(*bufio.Writer)
		bw.Reset(out)
		defer func() {
			bw.Reset(io.Discard)
			bwPool.Put(bw)
		}()

		enc := json.NewEncoder(bw)
		var err error
		for v := range in {
			if err != nil {
				continue // drain so senders never block
			}
			err = encode(enc, v)
		}
		if err == nil {
			err = bw.Flush()
		}
		done <- quiet(err)
	}()
	return in, done
}

// StartJSONL streams one DesignV1 per line.
func StartJSONL(out io.Writer, bufSize int) (chan<- api.DesignV1, <-chan error) {
	return startEncoder(out, bufSize, func(enc *json.Encoder, d api.DesignV1) error {
		return enc.Encode(d)
	})
}

func init() {
	Register(FormatJSON, func(w io.Writer, designs []api.DesignV1) error {
		if designs == nil {
			designs = []api.DesignV1{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(designs)
	})
}
