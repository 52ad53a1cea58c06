package pipeline

import (
	"testing"
	"time"
)

func TestNewJob_QueuedWithID(t *testing.T) {
	job := NewJob("SE101", "/tmp/source")
	if job.ID == "" {
		t.Error("expected generated job ID")
	}
	if job.Status != StatusQueued || job.Phase != "queued" {
		t.Errorf("new job state = %s/%s", job.Status, job.Phase)
	}
	if job.CourseName != "SE101" || job.SourceDir != "/tmp/source" {
		t.Errorf("job fields = %q %q", job.CourseName, job.SourceDir)
	}
	if NewJob("SE101", "/tmp/source").ID == job.ID {
		t.Error("job IDs must be unique")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob("C", "src")

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusImporting, "importing"},
		{StatusExtracting, "structure"},
		{StatusBinding, "binding"},
		{StatusGenerating, "generating"},
		{StatusRendering, "rendering"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_AddError(t *testing.T) {
	job := NewJob("C", "src")
	job.AddError("chapter Lecture_3 failed")
	job.AddError("chapter Lecture_7 failed")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "chapter Lecture_3 failed" {
		t.Errorf("unexpected first error %q", snap.Progress.Errors[0])
	}
}

func TestJob_ChapterProgress(t *testing.T) {
	job := NewJob("C", "src")
	job.SetTotalChapters(5)
	job.IncrChaptersGenerated()
	job.IncrChaptersGenerated()

	snap := job.Snapshot()
	if snap.Progress.TotalChapters != 5 {
		t.Errorf("total = %d", snap.Progress.TotalChapters)
	}
	if snap.Progress.ChaptersGenerated != 2 {
		t.Errorf("generated = %d", snap.Progress.ChaptersGenerated)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	snap := NewJob("C", "src").Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := NewJob("C", "src")
	store.Put(job)

	got := store.Get(job.ID)
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != job.ID {
		t.Errorf("expected ID %q, got %q", job.ID, got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := NewJob("old-course", "src")
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	fresh := NewJob("new-course", "src")
	store.Put(fresh)

	store.Cleanup()

	if store.Get(expired.ID) != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get(fresh.ID) == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}
