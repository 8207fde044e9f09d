package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/muscatlabs/qanun/internal/chunker"
	"github.com/muscatlabs/qanun/internal/config"
	"github.com/muscatlabs/qanun/internal/index"
	"github.com/muscatlabs/qanun/internal/section"
)

// hashRegistry tracks content hashes of ingested documents for dedup.
type hashRegistry struct {
	mu sync.Mutex
	m  map[string]string
}

func newHashRegistry() *hashRegistry {
	return &hashRegistry{m: make(map[string]string)}
}

func (r *hashRegistry) Lookup(hash string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	docID, ok := r.m[hash]
	return docID, ok
}

func (r *hashRegistry) Record(hash, docID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[hash] = docID
}

// Orchestrator manages the document ingestion pipeline.
type Orchestrator struct {
	jobs     *JobStore
	queue    chan *Job
	nav      *section.Navigator
	store    *index.Store
	hashes   *hashRegistry
	log      *slog.Logger
	cfg      config.Config
	chunkCfg chunker.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline; Start launches its workers.
func NewOrchestrator(cfg config.Config, nav *section.Navigator, store *index.Store, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:   NewJobStore(cfg.JobTTL),
		queue:  make(chan *Job, cfg.MaxQueueSize),
		nav:    nav,
		store:  store,
		hashes: newHashRegistry(),
		log:    log,
		cfg:    cfg,
		chunkCfg: chunker.Config{
			ChunkSize:    cfg.DefaultChunkSize,
			ChunkOverlap: cfg.DefaultChunkOverlap,
			MinChunk:     50,
		},
	}
}

// NewJob builds a queued job for an uploaded file.
func (o *Orchestrator) NewJob(docID, filename string, data []byte) *Job {
	now := time.Now()
	job := &Job{
		ID:        generateULID(),
		DocID:     docID,
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		CreatedAt: now,
		UpdatedAt: now,
	}
	job.SetFileData(data)
	return job
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.nav, o.store, o.hashes, o.log, o.chunkCfg)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}
