package pipeline

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/muscatlabs/qanun/internal/chunker"
	"github.com/muscatlabs/qanun/internal/index"
	"github.com/muscatlabs/qanun/internal/section"
)

func testEmbed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, 4)
	for i, r := range text {
		vec[i%4] += float32(r%13) / 13
	}
	return vec, nil
}

func testWorker(t *testing.T) (*Worker, *section.Navigator, *index.Store) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	nav := section.NewNavigator(log)
	store, err := index.New("", testEmbed, log)
	if err != nil {
		t.Fatalf("index.New: %v", err)
	}
	cfg := chunker.Config{ChunkSize: 500, ChunkOverlap: 50, MinChunk: 3}
	return NewWorker(nav, store, newHashRegistry(), log, cfg), nav, store
}

func ingestText(t *testing.T, w *Worker, docID, text string) *Job {
	t.Helper()
	job := &Job{ID: generateULID(), DocID: docID, Status: StatusQueued, Filename: docID + ".txt"}
	job.SetFileData([]byte(text))
	w.Process(context.Background(), job)
	return job
}

func TestWorker_ProcessTextDocument(t *testing.T) {
	w, nav, store := testWorker(t)

	text := "Article 1: Scope\nThis law applies to all employment contracts in the private sector.\n" +
		"Article 2: Definitions\nEmployer means any natural or juridical person employing workers."
	job := ingestText(t, w, "labor-law", text)

	if job.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s (%v)", job.Status, job.Snapshot().Progress.Errors)
	}

	tree, ok := nav.Select("labor-law")
	if !ok {
		t.Fatal("document not registered with navigator")
	}
	if got := len(tree.Children(tree.Root())); got != 2 {
		t.Errorf("expected 2 top sections, got %d", got)
	}

	snap := job.Snapshot()
	if snap.Progress.Pages != 1 {
		t.Errorf("expected 1 page, got %d", snap.Progress.Pages)
	}
	if snap.Progress.TotalChunks == 0 || snap.Progress.ChunksIndexed != snap.Progress.TotalChunks {
		t.Errorf("expected all chunks indexed, got %+v", snap.Progress)
	}
	if store.Count() != snap.Progress.ChunksIndexed {
		t.Errorf("index count %d does not match job %d", store.Count(), snap.Progress.ChunksIndexed)
	}
}

func TestWorker_DuplicateContentSkipped(t *testing.T) {
	w, _, _ := testWorker(t)

	text := "Article 1: Scope\nThe same text both times."
	first := ingestText(t, w, "doc-a", text)
	if first.Status != StatusCompleted {
		t.Fatalf("first ingest: expected completed, got %s", first.Status)
	}

	second := ingestText(t, w, "doc-b", text)
	if second.Status != StatusDupSkipped {
		t.Errorf("expected duplicate_skipped, got %s", second.Status)
	}
}

func TestWorker_ReingestSameDocAllowed(t *testing.T) {
	w, _, _ := testWorker(t)

	text := "Article 1: Scope\nSame document uploaded twice."
	first := ingestText(t, w, "doc", text)
	second := ingestText(t, w, "doc", text)

	if first.Status != StatusCompleted || second.Status != StatusCompleted {
		t.Errorf("re-ingesting the same doc id should complete, got %s then %s", first.Status, second.Status)
	}
}

func TestWorker_UnsupportedFormatFails(t *testing.T) {
	w, _, _ := testWorker(t)

	job := &Job{ID: generateULID(), DocID: "sheet", Status: StatusQueued, Filename: "sheet.csv"}
	job.SetFileData([]byte("a,b,c"))
	w.Process(context.Background(), job)

	if job.Status != StatusFailed {
		t.Errorf("expected failed for unsupported format, got %s", job.Status)
	}
}

func TestWorker_EmptyFileFails(t *testing.T) {
	w, _, _ := testWorker(t)

	job := &Job{ID: generateULID(), DocID: "blank", Status: StatusQueued, Filename: "blank.txt"}
	job.SetFileData([]byte("   "))
	w.Process(context.Background(), job)

	if job.Status != StatusFailed {
		t.Errorf("expected failed for empty file, got %s", job.Status)
	}
	errs := job.Snapshot().Progress.Errors
	if len(errs) == 0 || !strings.Contains(errs[0], "no extractable text") {
		t.Errorf("expected no-extractable-text error, got %v", errs)
	}
}
