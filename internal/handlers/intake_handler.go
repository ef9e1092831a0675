package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"talentbridge/job-intake/internal/intake"
	"talentbridge/job-intake/internal/models"
	"talentbridge/job-intake/internal/repositories"
	"talentbridge/job-intake/internal/services"
)

// IntakeHandler owns the intake-session lifecycle: create, import,
// briefing, quick-question answers, restart and submit.
type IntakeHandler struct {
	sessions     *intake.Store
	worker       services.Worker
	briefing     services.BriefingService
	indexer      services.JobIndexer
	docRepo      repositories.DocumentRepository
	jobRepo      repositories.JobRepository
	employerRepo repositories.EmployerRepository
	validate     *validator.Validate
}

func NewIntakeHandler(
	sessions *intake.Store,
	worker services.Worker,
	briefing services.BriefingService,
	indexer services.JobIndexer,
	docRepo repositories.DocumentRepository,
	jobRepo repositories.JobRepository,
	employerRepo repositories.EmployerRepository,
) *IntakeHandler {
	return &IntakeHandler{
		sessions:     sessions,
		worker:       worker,
		briefing:     briefing,
		indexer:      indexer,
		docRepo:      docRepo,
		jobRepo:      jobRepo,
		employerRepo: employerRepo,
		validate:     validator.New(),
	}
}

// HandleCreateSession handles POST /intake/sessions.
func (h *IntakeHandler) HandleCreateSession(c *fiber.Ctx) error {
	session := h.sessions.Create()
	return c.Status(fiber.StatusCreated).JSON(models.NewSessionResponse(session.View()))
}

// HandleImport handles POST /intake/sessions/:id/import. The parse runs
// asynchronously; the caller polls the session for the outcome.
func (h *IntakeHandler) HandleImport(c *fiber.Ctx) error {
	session, err := h.session(c)
	if session == nil {
		return err
	}

	var req models.ImportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	task := services.ImportTask{SessionID: session.ID, Source: req.Source}

	switch req.Source {
	case services.SourceURL:
		if req.URL == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "url is required for a url import",
			})
		}
		task.URL = req.URL
	case services.SourceText:
		if req.Text == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "text is required for a text import",
			})
		}
		task.Text = req.Text
	case services.SourcePDF:
		if req.DocumentID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "document_id is required for a pdf import",
			})
		}
		docID, err := uuid.Parse(req.DocumentID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid document_id format",
			})
		}
		doc, err := h.docRepo.FindByID(docID)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Document not found",
			})
		}
		task.FilePath = doc.FilePath
	}

	version, err := session.BeginImport()
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	task.Version = version

	if !h.worker.Enqueue(task) {
		session.FailImport(version, "import queue is full, please try again")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "import queue is full, please try again",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(models.NewSessionResponse(session.View()))
}

// HandleBriefing handles POST /intake/sessions/:id/briefing. Repeatable;
// each extraction merges additively into the draft.
func (h *IntakeHandler) HandleBriefing(c *fiber.Ctx) error {
	session, err := h.session(c)
	if session == nil {
		return err
	}

	var req models.BriefingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	result, err := h.briefing.Extract(c.Context(), req.Narrative)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "briefing extraction failed, please try again",
		})
	}

	if err := session.ApplyBriefing(result.Data, result.Completeness); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(models.BriefingResponse{
		Session:              models.NewSessionResponse(session.View()),
		BriefingCompleteness: result.Completeness,
	})
}

// HandleAnswers handles POST /intake/sessions/:id/answers. Answers feed
// the additive merge path, never a direct field write.
func (h *IntakeHandler) HandleAnswers(c *fiber.Ctx) error {
	session, err := h.session(c)
	if session == nil {
		return err
	}

	var req models.AnswersRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := session.ApplyAnswers(req.Answers); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(models.NewSessionResponse(session.View()))
}

// HandleRestart handles POST /intake/sessions/:id/restart.
func (h *IntakeHandler) HandleRestart(c *fiber.Ctx) error {
	session, err := h.session(c)
	if session == nil {
		return err
	}

	if err := session.Restart(); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(models.NewSessionResponse(session.View()))
}

// HandleSubmit handles POST /intake/sessions/:id/submit.
func (h *IntakeHandler) HandleSubmit(c *fiber.Ctx) error {
	session, err := h.session(c)
	if session == nil {
		return err
	}

	var req models.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	mode, err := intake.ParseSubmitMode(req.Mode)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	employerID, err := uuid.Parse(req.EmployerID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid employer_id format",
		})
	}

	if _, err := h.employerRepo.FindByID(employerID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Employer not found",
		})
	}

	canPublish := false
	if mode == intake.SubmitPublish {
		canPublish, err = h.employerRepo.CanPublishJobs(employerID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to check verification status",
			})
		}
	}

	draft, score, err := session.PrepareSubmit(mode, canPublish)
	if err != nil {
		var validationErr *intake.ValidationError
		if errors.As(err, &validationErr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": validationErr.Reason,
				"field": string(validationErr.Field),
			})
		}
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	status := models.StatusDraft
	if mode == intake.SubmitPublish {
		status = models.StatusPendingApproval
	}

	job := models.NewJobFromDraft(draft, employerID, status, score)
	if err := h.jobRepo.Create(job); err != nil {
		// Draft survives: the session returns to review for a retry.
		session.FailSubmit("failed to save the job, please try again")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save the job, please try again",
		})
	}

	if status == models.StatusPendingApproval && h.indexer != nil {
		go func(job *models.Job) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := h.indexer.IndexJob(ctx, job); err != nil {
				log.Printf("⚠️  Failed to index submitted job %s: %v\n", job.ID, err)
			}
		}(job)
	}

	h.sessions.Delete(session.ID)

	return c.Status(fiber.StatusCreated).JSON(models.SubmitResponse{
		JobID:             job.ID.String(),
		Status:            string(job.Status),
		CompletenessScore: job.CompletenessScore,
	})
}

// session resolves the :id path param to a live session, writing the
// error response itself when the lookup fails.
func (h *IntakeHandler) session(c *fiber.Ctx) (*intake.Session, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID format",
		})
	}

	session, ok := h.sessions.Get(id)
	if !ok {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	return session, nil
}
