// Package writers renders design results as JSON, JSONL, TSV or an HTML
// report. Streaming formats are written from a goroutine fed by a
// channel; the others buffer every design before rendering.
package writers
