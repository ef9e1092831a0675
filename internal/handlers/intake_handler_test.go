package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentbridge/job-intake/internal/intake"
	"talentbridge/job-intake/internal/models"
	"talentbridge/job-intake/internal/services"
)

type fakeWorker struct {
	mu        sync.Mutex
	tasks     []services.ImportTask
	enqueueOK bool
}

func (f *fakeWorker) Start(ctx context.Context) {}
func (f *fakeWorker) Stop()                     {}

func (f *fakeWorker) Enqueue(task services.ImportTask) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enqueueOK {
		return false
	}
	f.tasks = append(f.tasks, task)
	return true
}

func (f *fakeWorker) taskCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tasks)
}

type fakeBriefing struct {
	result *services.BriefingResult
	err    error
}

func (f *fakeBriefing) Extract(ctx context.Context, narrative string) (*services.BriefingResult, error) {
	return f.result, f.err
}

type fakeIndexer struct {
	mu      sync.Mutex
	indexed []uuid.UUID
}

func (f *fakeIndexer) IndexJob(ctx context.Context, job *models.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed = append(f.indexed, job.ID)
	return nil
}

func (f *fakeIndexer) indexedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.indexed)
}

type fakeDocRepo struct {
	docs      map[uuid.UUID]*models.Document
	createErr error
}

func (f *fakeDocRepo) Create(document *models.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.docs[document.ID] = document
	return nil
}

func (f *fakeDocRepo) FindByID(id uuid.UUID) (*models.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, errors.New("document not found")
	}
	return doc, nil
}

type fakeJobRepo struct {
	mu        sync.Mutex
	jobs      []*models.Job
	createErr error
}

func (f *fakeJobRepo) Create(job *models.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeJobRepo) FindByID(id uuid.UUID) (*models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, job := range f.jobs {
		if job.ID == id {
			return job, nil
		}
	}
	return nil, errors.New("job not found")
}

func (f *fakeJobRepo) FindPendingApproval(limit int) ([]models.Job, error) {
	return nil, nil
}

func (f *fakeJobRepo) lastJob() *models.Job {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.jobs) == 0 {
		return nil
	}
	return f.jobs[len(f.jobs)-1]
}

type fakeEmployerRepo struct {
	employers map[uuid.UUID]*models.Employer
}

func (f *fakeEmployerRepo) FindByID(id uuid.UUID) (*models.Employer, error) {
	e, ok := f.employers[id]
	if !ok {
		return nil, errors.New("employer not found")
	}
	return e, nil
}

func (f *fakeEmployerRepo) CanPublishJobs(id uuid.UUID) (bool, error) {
	e, err := f.FindByID(id)
	if err != nil {
		return false, err
	}
	return e.CanPublishJobs(), nil
}

type testEnv struct {
	app          *fiber.App
	sessions     *intake.Store
	worker       *fakeWorker
	briefing     *fakeBriefing
	indexer      *fakeIndexer
	docRepo      *fakeDocRepo
	jobRepo      *fakeJobRepo
	employerRepo *fakeEmployerRepo
	verifiedID   uuid.UUID
	unverifiedID uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		sessions: intake.NewStore(time.Hour),
		worker:   &fakeWorker{enqueueOK: true},
		briefing: &fakeBriefing{result: &services.BriefingResult{Completeness: 50}},
		indexer:  &fakeIndexer{},
		docRepo:  &fakeDocRepo{docs: make(map[uuid.UUID]*models.Document)},
		jobRepo:  &fakeJobRepo{},
		employerRepo: &fakeEmployerRepo{
			employers: make(map[uuid.UUID]*models.Employer),
		},
		verifiedID:   uuid.New(),
		unverifiedID: uuid.New(),
	}

	env.employerRepo.employers[env.verifiedID] = &models.Employer{
		ID:                 env.verifiedID,
		CompanyName:        "Acme",
		VerificationStatus: models.VerificationVerified,
	}
	env.employerRepo.employers[env.unverifiedID] = &models.Employer{
		ID:                 env.unverifiedID,
		CompanyName:        "Globex",
		VerificationStatus: models.VerificationUnverified,
	}

	handler := NewIntakeHandler(
		env.sessions,
		env.worker,
		env.briefing,
		env.indexer,
		env.docRepo,
		env.jobRepo,
		env.employerRepo,
	)
	sessionHandler := NewSessionHandler(env.sessions)

	app := fiber.New()
	api := app.Group("/api/v1/intake/sessions")
	api.Post("/", handler.HandleCreateSession)
	api.Get("/:id", sessionHandler.HandleGetSession)
	api.Post("/:id/import", handler.HandleImport)
	api.Post("/:id/briefing", handler.HandleBriefing)
	api.Post("/:id/answers", handler.HandleAnswers)
	api.Post("/:id/restart", handler.HandleRestart)
	api.Post("/:id/submit", handler.HandleSubmit)

	env.app = app
	return env
}

func (env *testEnv) request(t *testing.T, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

// reviewSession creates a session and drives it into review directly.
func (env *testEnv) reviewSession(t *testing.T, profile intake.PartialProfile) *intake.Session {
	t.Helper()
	s := env.sessions.Create()
	version, err := s.BeginImport()
	require.NoError(t, err)
	_, _, err = s.CompleteImport(version, profile)
	require.NoError(t, err)
	return s
}

func publishableProfile() intake.PartialProfile {
	min, max := 60000, 80000
	return intake.PartialProfile{
		Title:       "Backend Engineer",
		CompanyName: "Acme",
		SalaryMin:   intake.FlexInt{Value: &min},
		SalaryMax:   intake.FlexInt{Value: &max},
	}
}

func TestCreateSession(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.request(t, http.MethodPost, "/api/v1/intake/sessions/", nil)

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "selection", body["state"])
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, float64(0), body["filled_field_count"])
}

func TestGetSession(t *testing.T) {
	env := newTestEnv(t)
	s := env.sessions.Create()

	resp, body := env.request(t, http.MethodGet, "/api/v1/intake/sessions/"+s.ID.String(), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, s.ID.String(), body["id"])

	resp, _ = env.request(t, http.MethodGet, "/api/v1/intake/sessions/"+uuid.NewString(), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = env.request(t, http.MethodGet, "/api/v1/intake/sessions/not-a-uuid", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestImportText(t *testing.T) {
	env := newTestEnv(t)
	s := env.sessions.Create()

	resp, body := env.request(t, http.MethodPost, "/api/v1/intake/sessions/"+s.ID.String()+"/import", models.ImportRequest{
		Source: "text",
		Text:   "We are hiring a Backend Engineer at Acme.",
	})

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "importing", body["state"])
	require.Equal(t, 1, env.worker.taskCount())
	// The task carries the draft version so a superseded result can be
	// discarded.
	assert.Equal(t, s.View().Version, env.worker.tasks[0].Version)
}

func TestImportValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		req  models.ImportRequest
	}{
		{"Unknown source", models.ImportRequest{Source: "carrier-pigeon"}},
		{"URL import without url", models.ImportRequest{Source: "url"}},
		{"Text import without text", models.ImportRequest{Source: "text"}},
		{"PDF import without document", models.ImportRequest{Source: "pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := env.sessions.Create()
			resp, _ := env.request(t, http.MethodPost, "/api/v1/intake/sessions/"+s.ID.String()+"/import", tt.req)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			// A rejected request never leaves source selection.
			assert.Equal(t, intake.StateSelection, s.View().State)
		})
	}
}

func TestImportPDFResolvesDocument(t *testing.T) {
	env := newTestEnv(t)
	s := env.sessions.Create()

	doc := &models.Document{ID: uuid.New(), FilePath: "/uploads/job_description_x.pdf"}
	env.docRepo.docs[doc.ID] = doc

	resp, _ := env.request(t, http.MethodPost, "/api/v1/intake/sessions/"+s.ID.String()+"/import", models.ImportRequest{
		Source:     "pdf",
		DocumentID: doc.ID.String(),
	})

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	require.Equal(t, 1, env.worker.taskCount())
	assert.Equal(t, doc.FilePath, env.worker.tasks[0].FilePath)
}

func TestImportPDFUnknownDocument(t *testing.T) {
	env := newTestEnv(t)
	s := env.sessions.Create()

	resp, _ := env.request(t, http.MethodPost, "/api/v1/intake/sessions/"+s.ID.String()+"/import", models.ImportRequest{
		Source:     "pdf",
		DocumentID: uuid.NewString(),
	})

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestImportWhileImporting(t *testing.T) {
	env := newTestEnv(t)
	s := env.sessions.Create()
	_, err := s.BeginImport()
	require.NoError(t, err)

	resp, _ := env.request(t, http.MethodPost, "/api/v1/intake/sessions/"+s.ID.String()+"/import", models.ImportRequest{
		Source: "text",
		Text:   "another posting",
	})

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestImportQueueFull(t *testing.T) {
	env := newTestEnv(t)
	env.worker.enqueueOK = false
	s := env.sessions.Create()

	resp, _ := env.request(t, http.MethodPost, "/api/v1/intake/sessions/"+s.ID.String()+"/import", models.ImportRequest{
		Source: "text",
		Text:   "a posting",
	})

	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	// The session falls back to selection so the user can retry.
	assert.Equal(t, intake.StateSelection, s.View().State)
}

func TestBriefingMergesAdditively(t *testing.T) {
	env := newTestEnv(t)
	teamSize := 8
	env.briefing.result = &services.BriefingResult{
		Data: intake.ExtractedBriefing{
			TeamSize:      intake.FlexInt{Value: &teamSize},
			VacancyReason: "backfill",
		},
		Completeness: 60,
	}

	s := env.reviewSession(t, publishableProfile())

	resp, body := env.request(t, http.MethodPost, "/api/v1/intake/sessions/"+s.ID.String()+"/briefing", models.BriefingRequest{
		Narrative: "The team is 8 people and someone left.",
	})

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(60), body["briefing_completeness"])

	view := s.View()
	assert.Equal(t, "backfill", view.Draft.VacancyReason)
	require.NotNil(t, view.Draft.TeamSize)
	assert.Equal(t, 8, *view.Draft.TeamSize)
}

func TestBriefingExtractionFailure(t *testing.T) {
	env := newTestEnv(t)
	env.briefing.err = errors.New("model overloaded")
	env.briefing.result = nil

	s := env.reviewSession(t, publishableProfile())

	resp, _ := env.request(t, http.MethodPost, "/api/v1/intake/sessions/"+s.ID.String()+"/briefing", models.BriefingRequest{
		Narrative: "The team is 8 people and someone left.",
	})

	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}

func TestBriefingRequiresReview(t *testing.T) {
	env := newTestEnv(t)
	s := env.sessions.Create()

	resp, _ := env.request(t, http.MethodPost, "/api/v1/intake/sessions/"+s.ID.String()+"/briefing", models.BriefingRequest{
		Narrative: "The team is 8 people and someone left.",
	})

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestAnswers(t *testing.T) {
	env := newTestEnv(t)
	s := env.reviewSession(t, publishableProfile())

	resp, body := env.request(t, http.MethodPost, "/api/v1/intake/sessions/"+s.ID.String()+"/answers", map[string]interface{}{
		"answers": map[string]interface{}{
			"vacancy_reason": "growth",
			"team_size":      "6",
			"hiring_urgency": "urgent",
		},
	})

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	view := s.View()
	assert.Equal(t, "growth", view.Draft.VacancyReason)
	require.NotNil(t, view.Draft.TeamSize)
	assert.Equal(t, 6, *view.Draft.TeamSize)
	assert.Equal(t, intake.UrgencyUrgent, view.Draft.HiringUrgency)

	missing, ok := body["missing_fields"].([]interface{})
	require.True(t, ok)
	assert.NotContains(t, missing, "vacancy_reason")
	assert.Contains(t, missing, "decision_makers")
}

func TestRestart(t *testing.T) {
	env := newTestEnv(t)
	s := env.reviewSession(t, publishableProfile())

	resp, body := env.request(t, http.MethodPost, "/api/v1/intake/sessions/"+s.ID.String()+"/restart", nil)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "selection", body["state"])
	assert.Equal(t, float64(0), body["filled_field_count"])
}

func TestSubmitDraft(t *testing.T) {
	env := newTestEnv(t)
	s := env.reviewSession(t, intake.PartialProfile{
		Title:       "Backend Engineer",
		CompanyName: "Acme",
	})

	resp, body := env.request(t, http.MethodPost, "/api/v1/intake/sessions/"+s.ID.String()+"/submit", models.SubmitRequest{
		Mode:       "draft",
		EmployerID: env.unverifiedID.String(),
	})

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "draft", body["status"])

	job := env.jobRepo.lastJob()
	require.NotNil(t, job)
	assert.Equal(t, models.StatusDraft, job.Status)
	assert.Equal(t, "Backend Engineer", job.Title)
	assert.Greater(t, job.CompletenessScore, 0)

	// The session is gone after a successful submit.
	_, ok := env.sessions.Get(s.ID)
	assert.False(t, ok)
	// Draft saves are never indexed.
	assert.Equal(t, 0, env.indexer.indexedCount())
}

func TestSubmitPublishMissingSalary(t *testing.T) {
	env := newTestEnv(t)
	s := env.reviewSession(t, intake.PartialProfile{
		Title:       "Backend Engineer",
		CompanyName: "Acme",
	})

	resp, body := env.request(t, http.MethodPost, "/api/v1/intake/sessions/"+s.ID.String()+"/submit", models.SubmitRequest{
		Mode:       "publish",
		EmployerID: env.verifiedID.String(),
	})

	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "salary_range", body["field"])
	// Validation failure keeps the session in review.
	assert.Equal(t, intake.StateReview, s.View().State)
}

func TestSubmitPublishUnverifiedEmployer(t *testing.T) {
	env := newTestEnv(t)
	s := env.reviewSession(t, publishableProfile())

	resp, body := env.request(t, http.MethodPost, "/api/v1/intake/sessions/"+s.ID.String()+"/submit", models.SubmitRequest{
		Mode:       "publish",
		EmployerID: env.unverifiedID.String(),
	})

	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, fmt.Sprint(body["error"]), "verification")
}

func TestSubmitPublishSuccess(t *testing.T) {
	env := newTestEnv(t)
	s := env.reviewSession(t, publishableProfile())

	resp, body := env.request(t, http.MethodPost, "/api/v1/intake/sessions/"+s.ID.String()+"/submit", models.SubmitRequest{
		Mode:       "publish",
		EmployerID: env.verifiedID.String(),
	})

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "pending_approval", body["status"])

	job := env.jobRepo.lastJob()
	require.NotNil(t, job)
	assert.Equal(t, models.StatusPendingApproval, job.Status)
	require.NotNil(t, job.SalaryMin)
	assert.Equal(t, 60000, *job.SalaryMin)

	// The submitted posting gets indexed in the background.
	assert.Eventually(t, func() bool {
		return env.indexer.indexedCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSubmitPersistenceFailure(t *testing.T) {
	env := newTestEnv(t)
	env.jobRepo.createErr = errors.New("db down")
	s := env.reviewSession(t, publishableProfile())

	resp, _ := env.request(t, http.MethodPost, "/api/v1/intake/sessions/"+s.ID.String()+"/submit", models.SubmitRequest{
		Mode:       "draft",
		EmployerID: env.verifiedID.String(),
	})

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	// The draft survives for a retry.
	view := s.View()
	assert.Equal(t, intake.StateReview, view.State)
	assert.Equal(t, "Backend Engineer", view.Draft.Title)
}

func TestSubmitUnknownEmployer(t *testing.T) {
	env := newTestEnv(t)
	s := env.reviewSession(t, publishableProfile())

	resp, _ := env.request(t, http.MethodPost, "/api/v1/intake/sessions/"+s.ID.String()+"/submit", models.SubmitRequest{
		Mode:       "draft",
		EmployerID: uuid.NewString(),
	})

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
