package store

import (
	"errors"
	"testing"

	"github.com/docdesk/docdesk/backend/go-services/internal/models"
	"github.com/stretchr/testify/require"
)

func TestCollectionCRUD(t *testing.T) {
	s := New()
	require.NoError(t, s.Documents.Insert(models.Document{ID: "a", Title: "first"}))
	require.NoError(t, s.Documents.Insert(models.Document{ID: "b", Title: "second"}))
	require.ErrorIs(t, s.Documents.Insert(models.Document{ID: "a"}), ErrDuplicate)

	got, err := s.Documents.Get("a")
	require.NoError(t, err)
	require.Equal(t, "first", got.Title)

	updated, err := s.Documents.Update("a", func(d *models.Document) error {
		d.Status = models.DocumentProcessed
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, models.DocumentProcessed, updated.Status)

	require.NoError(t, s.Documents.Delete("a"))
	_, err = s.Documents.Get("a")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, s.Documents.Delete("a"), ErrNotFound)
	require.Equal(t, 1, s.Documents.Len())
}

func TestCollectionPreservesInsertionOrder(t *testing.T) {
	s := New()
	for _, id := range []string{"z", "a", "m"} {
		require.NoError(t, s.Users.Insert(models.User{ID: id}))
	}
	require.NoError(t, s.Users.Delete("a"))
	require.NoError(t, s.Users.Insert(models.User{ID: "b"}))

	var ids []string
	for _, u := range s.Users.List() {
		ids = append(ids, u.ID)
	}
	require.Equal(t, []string{"z", "m", "b"}, ids)
}

func TestCollectionReturnsCopies(t *testing.T) {
	s := New()
	require.NoError(t, s.Documents.Insert(models.Document{ID: "a", Title: "orig"}))
	list := s.Documents.List()
	list[0].Title = "mutated"
	got, _ := s.Documents.Get("a")
	require.Equal(t, "orig", got.Title)
}

func TestUpdateMutatorErrorLeavesEntityUnchanged(t *testing.T) {
	s := New()
	require.NoError(t, s.Ingestions.Insert(models.Ingestion{ID: "1", Status: models.IngestionCompleted}))
	boom := errors.New("nope")
	_, err := s.Ingestions.Update("1", func(i *models.Ingestion) error {
		i.Status = models.IngestionFailed
		return boom
	})
	require.ErrorIs(t, err, boom)
	got, _ := s.Ingestions.Get("1")
	require.Equal(t, models.IngestionCompleted, got.Status)
}

func TestSeed(t *testing.T) {
	s := NewSeeded()
	require.Equal(t, 5, s.Documents.Len())
	require.Equal(t, 5, s.Users.Len())
	require.Equal(t, 5, s.Ingestions.Len())

	failed, err := s.Ingestions.Get("4")
	require.NoError(t, err)
	require.Equal(t, models.IngestionFailed, failed.Status)
	require.Equal(t, "Invalid format in slides 11-15", failed.Error)

	require.Len(t, s.IngestionsForDocument("2"), 1)
	require.Empty(t, s.IngestionsForDocument("missing"))
}
