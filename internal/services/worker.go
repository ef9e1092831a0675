package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"talentbridge/job-intake/internal/intake"
)

// Import sources accepted by the worker.
const (
	SourceURL  = "url"
	SourceText = "text"
	SourcePDF  = "pdf"
)

// ImportTask is one queued primary import for a session. Version is the
// draft version BeginImport handed out; the session discards the result
// if the lineage moved on before the task finished.
type ImportTask struct {
	SessionID uuid.UUID
	Version   int
	Source    string
	URL       string
	Text      string
	FilePath  string
}

// Worker runs queued imports on a fixed goroutine pool and kicks off the
// background enrichment call once an import lands a title and company.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	Enqueue(task ImportTask) bool
}

type worker struct {
	sessions          *intake.Store
	extractor         ExtractionService
	enricher          EnrichmentService
	taskQueue         chan ImportTask
	concurrency       int
	extractionTimeout time.Duration
	enrichmentTimeout time.Duration
	wg                sync.WaitGroup
	stopChan          chan struct{}
}

func NewWorker(
	sessions *intake.Store,
	extractor ExtractionService,
	enricher EnrichmentService,
	concurrency int,
	extractionTimeout time.Duration,
	enrichmentTimeout time.Duration,
) Worker {
	return &worker{
		sessions:          sessions,
		extractor:         extractor,
		enricher:          enricher,
		taskQueue:         make(chan ImportTask, 100),
		concurrency:       concurrency,
		extractionTimeout: extractionTimeout,
		enrichmentTimeout: enrichmentTimeout,
		stopChan:          make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting import worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processTasks(ctx, i+1)
	}
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping import worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Import worker stopped")
}

// Enqueue implements Worker. It reports false when the queue is full or
// the worker is shutting down, so the caller can fail the import
// instead of blocking the request.
func (w *worker) Enqueue(task ImportTask) bool {
	select {
	case w.taskQueue <- task:
		log.Printf("📥 Import for session %s enqueued\n", task.SessionID)
		return true
	case <-w.stopChan:
		return false
	default:
		return false
	}
}

func (w *worker) processTasks(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Import worker #%d stopped\n", workerID)
			return
		case task := <-w.taskQueue:
			log.Printf("👷 Import worker #%d processing session %s (%s)\n", workerID, task.SessionID, task.Source)
			w.runImport(ctx, task)
		}
	}
}

// runImport executes the parse, reconciles the result into the session
// and, when the draft has a title and company, fires the one background
// enrichment call for the new draft version.
func (w *worker) runImport(ctx context.Context, task ImportTask) {
	session, ok := w.sessions.Get(task.SessionID)
	if !ok {
		log.Printf("⚠️  Session %s gone before import ran\n", task.SessionID)
		return
	}

	extractCtx, cancel := context.WithTimeout(ctx, w.extractionTimeout)
	defer cancel()

	var profile *intake.PartialProfile
	var err error

	switch task.Source {
	case SourceURL:
		profile, err = w.extractor.FromURL(extractCtx, task.URL)
	case SourceText:
		profile, err = w.extractor.FromText(extractCtx, task.Text)
	case SourcePDF:
		profile, err = w.extractor.FromPDF(extractCtx, task.FilePath)
	default:
		session.FailImport(task.Version, "unknown import source")
		return
	}

	if err != nil {
		log.Printf("❌ Import failed for session %s: %v\n", task.SessionID, err)
		session.FailImport(task.Version, "could not extract a job posting from the selected source, please try again")
		return
	}

	version, draft, err := session.CompleteImport(task.Version, *profile)
	if err != nil {
		// Session moved on (restart or janitor) while we were parsing.
		log.Printf("⚠️  Discarding import result for session %s: %v\n", task.SessionID, err)
		return
	}

	log.Printf("✅ Import completed for session %s (draft v%d)\n", task.SessionID, version)

	if draft.Title != "" && draft.CompanyName != "" && session.TryBeginEnrichment(version) {
		w.wg.Add(1)
		go w.runEnrichment(ctx, session, version, draft)
	}
}

// runEnrichment performs the non-blocking enrichment call. Failures are
// silently absorbed; a result for a superseded draft version is dropped
// by the session.
func (w *worker) runEnrichment(ctx context.Context, session *intake.Session, version int, draft intake.JobDraft) {
	defer w.wg.Done()

	enrichCtx, cancel := context.WithTimeout(ctx, w.enrichmentTimeout)
	defer cancel()

	patch, err := w.enricher.Enrich(enrichCtx, draft)
	if err != nil {
		log.Printf("⚠️  Enrichment failed for session %s: %v\n", session.ID, err)
		session.FinishEnrichment(version, nil)
		return
	}

	if session.FinishEnrichment(version, patch) {
		log.Printf("✅ Enrichment applied for session %s (draft v%d)\n", session.ID, version)
	} else {
		log.Printf("⚠️  Stale enrichment result discarded for session %s (draft v%d)\n", session.ID, version)
	}
}
