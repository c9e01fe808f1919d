// Package store is the process-local entity store: one explicit object owning
// the document, user and ingestion collections, passed by reference to the
// services that need it.
package store

import "github.com/docdesk/docdesk/backend/go-services/internal/models"

type Store struct {
	Documents  *Collection[models.Document]
	Users      *Collection[models.User]
	Ingestions *Collection[models.Ingestion]
}

// New returns an empty store.
func New() *Store {
	return &Store{
		Documents:  NewCollection(func(d *models.Document) string { return d.ID }),
		Users:      NewCollection(func(u *models.User) string { return u.ID }),
		Ingestions: NewCollection(func(i *models.Ingestion) string { return i.ID }),
	}
}

// IngestionsForDocument returns every ingestion that references documentID.
func (s *Store) IngestionsForDocument(documentID string) []models.Ingestion {
	return s.Ingestions.Filter(func(i models.Ingestion) bool { return i.DocumentID == documentID })
}
