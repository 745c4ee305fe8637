// Package pipeline designs guides for many genes concurrently and hands
// results to a visit callback in input order.
//
// The only contract to implement is Designer (Design).
// This keeps the pipeline swappable and testable.
package pipeline
