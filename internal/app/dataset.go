// Package app holds the per-session application state and applies input
// messages to it in a fixed recompute order.
package app

import (
	"context"
	"time"

	"github.com/nathansso/locvista/internal/commits"
	"github.com/nathansso/locvista/internal/records"
	"github.com/nathansso/locvista/internal/stats"
)

// Dataset is everything derived once from a load. It is immutable and
// shared by every session.
type Dataset struct {
	Source   string
	LoadedAt time.Time
	Records  []records.LineRecord
	Commits  []*commits.Commit
	Files    []commits.FileAggregate
	Stats    stats.Summary
	// Types lists line types in first-seen order.
	Types []string
}

// NewDataset aggregates recs.
func NewDataset(source string, recs []records.LineRecord, opts commits.Options) *Dataset {
	cs := commits.Aggregate(recs, opts)
	seen := make(map[string]struct{})
	var types []string
	for _, r := range recs {
		if _, ok := seen[r.Type]; !ok {
			seen[r.Type] = struct{}{}
			types = append(types, r.Type)
		}
	}
	return &Dataset{
		Source:   source,
		LoadedAt: time.Now(),
		Records:  recs,
		Commits:  cs,
		Files:    commits.AggregateFiles(recs),
		Stats:    stats.Compute(recs, cs),
		Types:    types,
	}
}

// Load fetches and aggregates src, returning the message that reports the outcome.
func Load(ctx context.Context, src records.Source, opts commits.Options) Message {
	recs, err := records.Load(ctx, src)
	if err != nil {
		return LoadFailed{Err: err}
	}
	return Loaded{Dataset: NewDataset(src.String(), recs, opts)}
}
