package models

import "time"

type IngestionStatus string

const (
	IngestionInProgress IngestionStatus = "in-progress"
	IngestionCompleted  IngestionStatus = "completed"
	IngestionFailed     IngestionStatus = "failed"
)

// Terminal reports whether no further automatic transition happens from s.
func (s IngestionStatus) Terminal() bool {
	return s == IngestionCompleted || s == IngestionFailed
}

// Ingestion tracks one processing run of a document. DocumentTitle is a copy
// taken at upload time and is never re-synced with the document.
type Ingestion struct {
	ID             string          `bson:"_id,omitempty" json:"id"`
	DocumentID     string          `bson:"documentId" json:"documentId"`
	DocumentTitle  string          `bson:"documentTitle" json:"documentTitle"`
	StartTime      time.Time       `bson:"startTime" json:"startTime"`
	EndTime        *time.Time      `bson:"endTime,omitempty" json:"endTime"`
	Status         IngestionStatus `bson:"status" json:"status"`
	ProcessedPages int             `bson:"processedPages" json:"processedPages"`
	TotalPages     int             `bson:"totalPages" json:"totalPages"`
	Error          string          `bson:"error,omitempty" json:"error,omitempty"`
}

// AnyInProgress reports whether at least one ingestion is still running.
func AnyInProgress(list []Ingestion) bool {
	for _, ing := range list {
		if ing.Status == IngestionInProgress {
			return true
		}
	}
	return false
}
