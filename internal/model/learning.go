package model

import "time"

// LearningContentType is kind of learning material
type LearningContentType string

const (
	// LearningVideo is video lesson
	LearningVideo LearningContentType = "video"
	// LearningPDF is pdf document
	LearningPDF LearningContentType = "pdf"
	// LearningAnnouncement is plain text announcement
	LearningAnnouncement LearningContentType = "announcement"
)

// LearningContent is learning content model entity
type LearningContent struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Type         LearningContentType `json:"type"`
	URL          string              `json:"url,omitempty"`
	ThumbnailURL string              `json:"thumbnailUrl,omitempty"`
	CreatedBy    string              `json:"createdBy"`
	CreatedAt    time.Time           `json:"createdAt"`
}
