package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/muscatlabs/qanun/internal/chunker"
	"github.com/muscatlabs/qanun/internal/index"
	"github.com/muscatlabs/qanun/internal/parser"
	"github.com/muscatlabs/qanun/internal/section"
)

// Worker processes a single document job: parse, section, chunk, index.
type Worker struct {
	nav      *section.Navigator
	store    *index.Store
	hashes   *hashRegistry
	log      *slog.Logger
	chunkCfg chunker.Config
}

func NewWorker(nav *section.Navigator, store *index.Store, hashes *hashRegistry, log *slog.Logger, chunkCfg chunker.Config) *Worker {
	return &Worker{
		nav:      nav,
		store:    store,
		hashes:   hashes,
		log:      log,
		chunkCfg: chunkCfg,
	}
}

// Process runs the full ingest pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	pages, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if len(pages) == 0 {
		log.Warn("no extractable text")
		job.AddError("no extractable text")
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	// Dedup check on the parsed text.
	job.SetContentHash(ContentHashHex([]byte(flattenPages(pages))))
	if existing, dup := w.hashes.Lookup(job.ContentHash); dup && existing != job.DocID {
		log.Info("duplicate document, skipping", "existing_doc_id", existing)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}

	// Phase 2: Build the section tree.
	job.SetStatus(StatusSectioning, "sectioning")
	tree, err := w.nav.Load(job.DocID, pages)
	if err != nil {
		log.Error("sectioning failed", "error", err)
		job.AddError(fmt.Sprintf("sections: %s", err))
		job.SetStatus(StatusFailed, "sectioning")
		return
	}
	job.SetCounts(len(pages), tree.Len()-1)
	log.Info("sectioned document", "pages", len(pages), "sections", tree.Len()-1)

	// Phase 3: Chunk.
	job.SetStatus(StatusChunking, "chunking")
	chunks := chunker.ChunkTree(tree, w.chunkCfg)
	job.SetTotalChunks(len(chunks))
	log.Info("chunked document", "chunks", len(chunks))

	if len(chunks) == 0 {
		// The document is still navigable even with nothing to index.
		log.Warn("no chunks produced")
		w.hashes.Record(job.ContentHash, job.DocID)
		job.SetStatus(StatusCompleted, "done")
		return
	}

	// Phase 4: Index with retry on transient embedding failures.
	job.SetStatus(StatusIndexing, "indexing")
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		lastErr = w.store.Add(ctx, job.DocID, chunks)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		log.Warn("retryable indexing error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			lastErr = ctx.Err()
		}
		if ctx.Err() != nil {
			break
		}
	}
	if lastErr != nil {
		log.Error("indexing failed", "error", lastErr)
		job.AddError(fmt.Sprintf("index: %s", lastErr))
		job.SetStatus(StatusFailed, "indexing")
		return
	}

	job.SetChunksIndexed(len(chunks))
	w.hashes.Record(job.ContentHash, job.DocID)
	job.SetStatus(StatusCompleted, "done")
	log.Info("ingest complete", "chunks", len(chunks))
}

// flattenPages joins page text for content hashing.
func flattenPages(pages []section.Page) string {
	var buf bytes.Buffer
	for _, pg := range pages {
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(pg.Text)
	}
	return buf.String()
}
