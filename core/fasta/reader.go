// Package fasta reads FASTA records from plain, gzip-compressed or
// standard-input sources.
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
)

// Record is one parsed FASTA entry. ID is the first header token and
// Description the rest of the header line.
type Record struct {
	ID          string
	Description string
	Seq         []byte
}

const maxLine = 64 * 1024 * 1024 // single-line chromosomes

// Read parses r and calls emit once per record in file order.
// It returns promptly with ctx.Err() once ctx is done.
func Read(ctx context.Context, r io.Reader, emit func(Record) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		cur  Record
		have bool
		body = make([]byte, 0, 1<<16)
	)
	flush := func() error {
		if !have {
			return nil
		}
		cur.Seq = append([]byte(nil), body...)
		body = body[:0]
		return emit(cur)
	}

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 || line[0] == ';' {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			cur = parseHeader(line[1:])
			have = true
			continue
		}
		if !have {
			return fmt.Errorf("fasta: sequence data before first header")
		}
		body = append(body, line...)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("fasta scan: %w", err)
	}
	return flush()
}

// ReadAll collects every record from r.
func ReadAll(ctx context.Context, r io.Reader) ([]Record, error) {
	var out []Record
	err := Read(ctx, r, func(rec Record) error {
		out = append(out, rec)
		return nil
	})
	return out, err
}

// ReadFile collects every record from path ("-" reads stdin; gzip is
// detected by magic bytes or a .gz suffix).
func ReadFile(ctx context.Context, path string) ([]Record, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	recs, err := ReadAll(ctx, rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

func parseHeader(hdr []byte) Record {
	h := strings.TrimSpace(string(hdr))
	if i := strings.IndexAny(h, " \t"); i >= 0 {
		return Record{ID: h[:i], Description: strings.TrimSpace(h[i+1:])}
	}
	return Record{ID: h}
}
