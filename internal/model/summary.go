package model

import (
	"cmp"
	"slices"
	"sync"
	"time"
)

// SkippedItem names an item that was abandoned, the stage it failed in and why.
type SkippedItem struct {
	Name   string `json:"name"`
	Stage  string `json:"stage"`
	Reason string `json:"reason"`
}

// Warning is a non-fatal condition attached to an item.
type Warning struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// RunSummary accumulates the outcome of a run. A single instance is shared by
// every worker, so all methods are safe for concurrent use.
//
// Design decision: Run state is an explicit value passed to each item rather
// than package-level counters. Tests can run batches in parallel and inspect
// independent summaries.
type RunSummary struct {
	mu sync.Mutex

	command   string
	startedAt time.Time
	elapsed   time.Duration

	generated int
	models    []string
	pages     []*ExportedPage
	skipped   []SkippedItem
	warnings  []Warning
}

// NewRunSummary starts a summary for the named command.
func NewRunSummary(command string, startedAt time.Time) *RunSummary {
	return &RunSummary{
		command:   command,
		startedAt: startedAt,
	}
}

// RecordGenerated counts one generated image and remembers the model used.
func (s *RunSummary) RecordGenerated(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generated++
	if model != "" && !slices.Contains(s.models, model) {
		s.models = append(s.models, model)
	}
}

// RecordProcessed adds an exported page.
func (s *RunSummary) RecordProcessed(page *ExportedPage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = append(s.pages, page)
}

// RecordSkipped records an abandoned item.
func (s *RunSummary) RecordSkipped(name, stage string, err error) {
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skipped = append(s.skipped, SkippedItem{Name: name, Stage: stage, Reason: reason})
}

// RecordWarning records a non-fatal condition.
func (s *RunSummary) RecordWarning(name, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warnings = append(s.warnings, Warning{Name: name, Message: message})
}

// RecordJob folds a finished PageJob into the summary.
func (s *RunSummary) RecordJob(job *PageJob) {
	if job.Model != "" {
		s.RecordGenerated(job.Model)
	}
	for _, w := range job.Warnings {
		s.RecordWarning(job.Name, w)
	}
	if job.Failed() {
		s.RecordSkipped(job.Name, job.FailedStep, job.Err)
		return
	}
	if job.Page != nil {
		s.RecordProcessed(job.Page)
	}
}

// Finish stamps the elapsed time.
func (s *RunSummary) Finish(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elapsed = now.Sub(s.startedAt)
}

// Snapshot returns a copy of the current state with items sorted by name,
// so output does not depend on worker scheduling.
func (s *RunSummary) Snapshot() SummarySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := SummarySnapshot{
		Command:   s.command,
		StartedAt: s.startedAt,
		Elapsed:   s.elapsed,
		Generated: s.generated,
		Processed: len(s.pages),
		Models:    slices.Clone(s.models),
		Pages:     make([]ExportedPage, len(s.pages)),
		Skipped:   slices.Clone(s.skipped),
		Warnings:  slices.Clone(s.warnings),
	}
	for i, p := range s.pages {
		snap.Pages[i] = *p
	}
	slices.Sort(snap.Models)
	slices.SortFunc(snap.Pages, func(a, b ExportedPage) int { return cmp.Compare(a.Source, b.Source) })
	slices.SortFunc(snap.Skipped, func(a, b SkippedItem) int { return cmp.Compare(a.Name, b.Name) })
	slices.SortStableFunc(snap.Warnings, func(a, b Warning) int { return cmp.Compare(a.Name, b.Name) })
	return snap
}

// SummarySnapshot is an immutable view of a RunSummary for reporting.
type SummarySnapshot struct {
	Command   string         `json:"command"`
	StartedAt time.Time      `json:"started_at"`
	Elapsed   time.Duration  `json:"elapsed_ns"`
	Generated int            `json:"generated"`
	Processed int            `json:"processed"`
	Models    []string       `json:"models_used,omitempty"`
	Pages     []ExportedPage `json:"pages,omitempty"`
	Skipped   []SkippedItem  `json:"skipped,omitempty"`
	Warnings  []Warning      `json:"warnings,omitempty"`
}

// Failed returns the number of skipped items.
func (s SummarySnapshot) Failed() int {
	return len(s.Skipped)
}
