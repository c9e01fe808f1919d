package store

import (
	"time"

	"github.com/docdesk/docdesk/backend/go-services/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func stamp(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		panic(err)
	}
	return t
}

func stampPtr(s string) *time.Time {
	t := stamp(s)
	return &t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

// Seed loads the demo data set shown on a fresh install.
func Seed(s *Store) {
	for _, d := range seedDocuments() {
		_ = s.Documents.Insert(d)
	}
	for _, u := range seedUsers() {
		_ = s.Users.Insert(u)
	}
	for _, i := range seedIngestions() {
		_ = s.Ingestions.Insert(i)
	}
}

// NewSeeded returns a store pre-populated by Seed.
func NewSeeded() *Store {
	s := New()
	Seed(s)
	return s
}

func seedDocuments() []models.Document {
	return []models.Document{
		{ID: "1", Title: "Annual Report 2023", Type: "PDF", Size: "2.3 MB", UploadedBy: "Admin User", UploadDate: day("2023-12-10"), Status: models.DocumentProcessed,
			Content: "This annual report outlines the financial performance of the company in 2023..."},
		{ID: "2", Title: "Product Specifications", Type: "DOCX", Size: "1.5 MB", UploadedBy: "Regular User", UploadDate: day("2024-01-15"), Status: models.DocumentProcessing,
			Content: "The product specifications include details about dimensions, materials, and manufacturing processes..."},
		{ID: "3", Title: "Employee Handbook", Type: "PDF", Size: "3.7 MB", UploadedBy: "Admin User", UploadDate: day("2023-11-05"), Status: models.DocumentProcessed,
			Content: "This handbook provides guidelines for all employees regarding company policies, benefits, and procedures..."},
		{ID: "4", Title: "Marketing Strategy", Type: "PPTX", Size: "5.2 MB", UploadedBy: "Regular User", UploadDate: day("2024-02-20"), Status: models.DocumentFailed,
			Content: "The marketing strategy outlines our approach to digital marketing, social media campaigns, and traditional advertising..."},
		{ID: "5", Title: "Client Contract Template", Type: "DOCX", Size: "0.8 MB", UploadedBy: "Admin User", UploadDate: day("2023-10-30"), Status: models.DocumentProcessed,
			Content: "This contract template establishes the terms and conditions for client engagements..."},
	}
}

func seedUsers() []models.User {
	return []models.User{
		{ID: "1", Name: "Admin User", Email: "admin@example.com", Role: models.RoleAdmin, Status: models.UserActive, CreatedAt: day("2023-09-01"), LastLogin: dayPtr("2024-04-01")},
		{ID: "2", Name: "Regular User", Email: "user@example.com", Role: models.RoleUser, Status: models.UserActive, CreatedAt: day("2023-10-15"), LastLogin: dayPtr("2024-03-28")},
		{ID: "3", Name: "Google User", Email: "google@example.com", Role: models.RoleUser, Status: models.UserActive, CreatedAt: day("2024-01-10"), LastLogin: dayPtr("2024-03-30")},
		{ID: "4", Name: "Jane Doe", Email: "jane@example.com", Role: models.RoleEditor, Status: models.UserInactive, CreatedAt: day("2023-11-05"), LastLogin: dayPtr("2024-02-15")},
		{ID: "5", Name: "John Smith", Email: "john@example.com", Role: models.RoleUser, Status: models.UserActive, CreatedAt: day("2024-02-20"), LastLogin: dayPtr("2024-03-25")},
	}
}

func seedIngestions() []models.Ingestion {
	return []models.Ingestion{
		{ID: "1", DocumentID: "1", DocumentTitle: "Annual Report 2023", StartTime: stamp("2023-12-10T10:30:00"), EndTime: stampPtr("2023-12-10T10:35:00"),
			Status: models.IngestionCompleted, ProcessedPages: 45, TotalPages: 45},
		{ID: "2", DocumentID: "2", DocumentTitle: "Product Specifications", StartTime: stamp("2024-01-15T14:20:00"),
			Status: models.IngestionInProgress, ProcessedPages: 12, TotalPages: 28},
		{ID: "3", DocumentID: "3", DocumentTitle: "Employee Handbook", StartTime: stamp("2023-11-05T09:15:00"), EndTime: stampPtr("2023-11-05T09:22:00"),
			Status: models.IngestionCompleted, ProcessedPages: 60, TotalPages: 60},
		{ID: "4", DocumentID: "4", DocumentTitle: "Marketing Strategy", StartTime: stamp("2024-02-20T16:40:00"), EndTime: stampPtr("2024-02-20T16:42:00"),
			Status: models.IngestionFailed, ProcessedPages: 10, TotalPages: 35, Error: "Invalid format in slides 11-15"},
		{ID: "5", DocumentID: "5", DocumentTitle: "Client Contract Template", StartTime: stamp("2023-10-30T11:05:00"), EndTime: stampPtr("2023-10-30T11:07:00"),
			Status: models.IngestionCompleted, ProcessedPages: 12, TotalPages: 12},
	}
}
