package model

import (
	"errors"
	"slices"
	"testing"
)

func TestPageJob(t *testing.T) {
	t.Parallel()

	t.Run("new job is pending", func(t *testing.T) {
		t.Parallel()
		job := NewPageJob("cat.png", "input/cat.png")
		if job.Name != "cat.png" || job.SourcePath != "input/cat.png" {
			t.Errorf("job = %+v", job)
		}
		if job.Status != StatusPending {
			t.Errorf("status = %v, want pending", job.Status)
		}
		if job.Failed() {
			t.Error("new job should not be failed")
		}
	})

	t.Run("warnings do not fail the job", func(t *testing.T) {
		t.Parallel()
		job := NewPageJob("blank.png", "input/blank.png")
		job.AddWarning("blank image")
		job.AddWarning("not recorded")
		if job.Failed() {
			t.Error("warnings should not fail the job")
		}
		if !slices.Equal(job.Warnings, []string{"blank image", "not recorded"}) {
			t.Errorf("warnings = %v", job.Warnings)
		}
	})

	t.Run("error fails the job", func(t *testing.T) {
		t.Parallel()
		job := NewPageJob("bad.png", "input/bad.png")
		job.Err = errors.New("decode")
		if !job.Failed() {
			t.Error("job with error should be failed")
		}
	})
}
