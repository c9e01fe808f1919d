package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/docdesk/docdesk/backend/go-services/internal/apperr"
	"github.com/docdesk/docdesk/backend/go-services/internal/ingestion"
	"github.com/docdesk/docdesk/backend/go-services/internal/latency"
	"github.com/docdesk/docdesk/backend/go-services/internal/models"
	"github.com/docdesk/docdesk/backend/go-services/internal/store"
	"github.com/docdesk/docdesk/backend/go-services/pkg/logger"
	"github.com/docdesk/docdesk/backend/go-services/pkg/metrics"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// UploadRequest carries the caller-supplied document fields. Status is not
// accepted: uploaded documents always start out processing.
type UploadRequest struct {
	Title      string `json:"title"`
	Type       string `json:"type"`
	Size       string `json:"size"`
	UploadedBy string `json:"uploadedBy"`
	Content    string `json:"content,omitempty"`
}

func (r UploadRequest) validate() error {
	var missing []string
	if strings.TrimSpace(r.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(r.Type) == "" {
		missing = append(missing, "type")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", apperr.ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// Service defines the document operations used by the handler layer.
type Service interface {
	List(ctx context.Context) ([]models.Document, error)
	Search(ctx context.Context, term string) ([]models.Document, error)
	Get(ctx context.Context, id string) (models.Document, error)
	Upload(ctx context.Context, req UploadRequest) (models.Document, models.Ingestion, error)
	Delete(ctx context.Context, id string) error
}

// NewService returns a Service over the shared store. Uploads start an
// ingestion on eng; deletes cancel its pending completions.
func NewService(st *store.Store, eng *ingestion.Engine, sim *latency.Simulator, clock clockwork.Clock) Service {
	return &documentService{store: st, engine: eng, sim: sim, clock: clock}
}

type documentService struct {
	store  *store.Store
	engine *ingestion.Engine
	sim    *latency.Simulator
	clock  clockwork.Clock
}

func observe(op string, err error) {
	metrics.ServiceCalls.WithLabelValues("document", op, metrics.Outcome(err)).Inc()
}

func (s *documentService) List(ctx context.Context) ([]models.Document, error) {
	return s.Search(ctx, "")
}

func (s *documentService) Search(ctx context.Context, term string) ([]models.Document, error) {
	err := s.sim.Wait(ctx, latency.OpList)
	observe("list", err)
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	return s.store.Documents.Filter(func(d models.Document) bool {
		return term == "" || strings.Contains(strings.ToLower(d.Title), term)
	}), nil
}

func (s *documentService) Get(ctx context.Context, id string) (models.Document, error) {
	d, err := s.get(ctx, id)
	observe("get", err)
	return d, err
}

func (s *documentService) get(ctx context.Context, id string) (models.Document, error) {
	if err := s.sim.Wait(ctx, latency.OpGet); err != nil {
		return models.Document{}, err
	}
	d, err := s.store.Documents.Get(id)
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: document %s", apperr.ErrNotFound, id)
	}
	return d, nil
}

func (s *documentService) Upload(ctx context.Context, req UploadRequest) (models.Document, models.Ingestion, error) {
	d, ing, err := s.upload(ctx, req)
	observe("upload", err)
	return d, ing, err
}

func (s *documentService) upload(ctx context.Context, req UploadRequest) (models.Document, models.Ingestion, error) {
	if err := req.validate(); err != nil {
		return models.Document{}, models.Ingestion{}, err
	}
	if err := s.sim.Wait(ctx, latency.OpUpload); err != nil {
		return models.Document{}, models.Ingestion{}, err
	}
	d := models.Document{
		ID:         uuid.NewString(),
		Title:      strings.TrimSpace(req.Title),
		Type:       strings.ToUpper(strings.TrimSpace(req.Type)),
		Size:       req.Size,
		UploadedBy: req.UploadedBy,
		UploadDate: s.clock.Now(),
		Status:     models.DocumentProcessing,
		Content:    req.Content,
	}
	if err := s.store.Documents.Insert(d); err != nil {
		return models.Document{}, models.Ingestion{}, fmt.Errorf("insert document: %w", err)
	}
	ing, err := s.engine.Begin(d)
	if err != nil {
		return models.Document{}, models.Ingestion{}, err
	}
	logger.Infof("document %s (%q) uploaded by %q", d.ID, d.Title, d.UploadedBy)
	return d, ing, nil
}

// Delete removes the document. Its ingestions are kept; runs still in
// progress are failed and their pending completions cancelled.
func (s *documentService) Delete(ctx context.Context, id string) error {
	err := s.delete(ctx, id)
	observe("delete", err)
	return err
}

func (s *documentService) delete(ctx context.Context, id string) error {
	if err := s.sim.Wait(ctx, latency.OpDelete); err != nil {
		return err
	}
	if err := s.store.Documents.Delete(id); err != nil {
		return fmt.Errorf("%w: document %s", apperr.ErrNotFound, id)
	}
	s.engine.CancelForDocument(id)
	logger.Infof("document %s deleted", id)
	return nil
}
