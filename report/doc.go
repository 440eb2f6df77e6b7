// Package report aggregates [xfault.Error] streams into summary statistics.
//
// [Summarize] is a pure function over a slice of errors; [Reporter] collects a live stream for post-hoc
// summaries. Neither performs any logging of its own.
package report
