package writers

import (
	"fmt"
	"io"
	"sort"

	"ksites/pkg/api"
)

// Renderer writes a complete set of designs.
type Renderer func(w io.Writer, designs []api.DesignV1) error

// Renderers maps a format name to its buffered renderer. Formats register
// themselves in init blocks.
var Renderers = map[string]Renderer{}

// Register adds or replaces the renderer for format.
func Register(format string, fn Renderer) { Renderers[format] = fn }

// Formats lists every output format, including the streaming jsonl.
func Formats() []string {
	out := []string{FormatJSONL}
	for f := range Renderers {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Render dispatches to the renderer registered for format.
func Render(format string, w io.Writer, designs []api.DesignV1) error {
	fn, ok := Renderers[format]
	if !ok {
		return fmt.Errorf("unknown design format %q (no writer registered)", format)
	}
	return quiet(fn(w, designs))
}

// StartDesignWriter spins up a writer goroutine. jsonl streams each
// design as it arrives; other formats render once the channel closes.
func StartDesignWriter(out io.Writer, format string, bufSize int) (chan<- api.DesignV1, <-chan error) {
	if format == FormatJSONL {
		return StartJSONL(out, bufSize)
	}
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan api.DesignV1, bufSize)
	errCh := make(chan error, 1)
	go func() {
		var buf []api.DesignV1
		for d := range in {
			buf = append(buf, d)
		}
		errCh <- Render(format, out, buf)
	}()
	return in, errCh
}
