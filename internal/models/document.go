package models

import "time"

type DocumentStatus string

const (
	DocumentProcessing DocumentStatus = "processing"
	DocumentProcessed  DocumentStatus = "processed"
	DocumentFailed     DocumentStatus = "failed"
)

// Document is an uploaded file's metadata. Status is owned by the ingestion
// engine; UploadedBy is the uploader's display name, not a user id.
type Document struct {
	ID         string         `bson:"_id,omitempty" json:"id"`
	Title      string         `bson:"title" json:"title"`
	Type       string         `bson:"type" json:"type"`
	Size       string         `bson:"size" json:"size"`
	UploadedBy string         `bson:"uploadedBy" json:"uploadedBy"`
	UploadDate time.Time      `bson:"uploadDate" json:"uploadDate"`
	Status     DocumentStatus `bson:"status" json:"status"`
	Content    string         `bson:"content,omitempty" json:"content,omitempty"`
}
