// Package dashboard aggregates the overview shown after login.
package dashboard

import (
	"context"
	"sort"

	"github.com/docdesk/docdesk/backend/go-services/internal/models"
	"golang.org/x/sync/errgroup"
)

const recentLimit = 5

type DocumentLister interface {
	List(ctx context.Context) ([]models.Document, error)
}

type IngestionLister interface {
	List(ctx context.Context) ([]models.Ingestion, error)
}

type Summary struct {
	TotalDocuments      int                `json:"totalDocuments"`
	ProcessedDocuments  int                `json:"processedDocuments"`
	ProcessingDocuments int                `json:"processingDocuments"`
	FailedDocuments     int                `json:"failedDocuments"`
	ActiveIngestions    int                `json:"activeIngestions"`
	RecentIngestions    []models.Ingestion `json:"recentIngestions"`
}

type Service struct {
	docs       DocumentLister
	ingestions IngestionLister
}

func NewService(docs DocumentLister, ingestions IngestionLister) *Service {
	return &Service{docs: docs, ingestions: ingestions}
}

// Summary fetches documents and ingestions concurrently and folds them into
// counts plus the most recently started ingestions.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	var (
		docs []models.Document
		ings []models.Ingestion
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		docs, err = s.docs.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		ings, err = s.ingestions.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	sum := Summary{TotalDocuments: len(docs)}
	for _, d := range docs {
		switch d.Status {
		case models.DocumentProcessed:
			sum.ProcessedDocuments++
		case models.DocumentProcessing:
			sum.ProcessingDocuments++
		case models.DocumentFailed:
			sum.FailedDocuments++
		}
	}
	for _, ing := range ings {
		if ing.Status == models.IngestionInProgress {
			sum.ActiveIngestions++
		}
	}
	sort.SliceStable(ings, func(i, j int) bool { return ings[i].StartTime.After(ings[j].StartTime) })
	if len(ings) > recentLimit {
		ings = ings[:recentLimit]
	}
	sum.RecentIngestions = ings
	return sum, nil
}
