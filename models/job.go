package models

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	StatusPending     JobStatus = "pending"
	StatusTranslating JobStatus = "translating"
	StatusEncoding    JobStatus = "encoding"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
)

// TranslationJob tracks one subtitle translation request from upload to
// reply. Jobs live only for the duration of a request; nothing is persisted.
type TranslationJob struct {
	ID          string
	ChatID      int64
	FileName    string
	Status      JobStatus
	Error       error
	CreatedAt   time.Time
	CompletedAt *time.Time

	SourceLang string
	TargetLang string
}

func NewTranslationJob(chatID int64, fileName, targetLang string) *TranslationJob {
	return &TranslationJob{
		ID:         uuid.New().String(),
		ChatID:     chatID,
		FileName:   fileName,
		Status:     StatusPending,
		CreatedAt:  time.Now(),
		SourceLang: "auto",
		TargetLang: targetLang,
	}
}

func (j *TranslationJob) SetStatus(status JobStatus) {
	j.Status = status
}

func (j *TranslationJob) Complete() {
	j.Status = StatusCompleted
	now := time.Now()
	j.CompletedAt = &now
}

func (j *TranslationJob) Fail(err error) {
	j.Status = StatusFailed
	j.Error = err
}

// OutputFileName is the suggested name for the translated file.
func (j *TranslationJob) OutputFileName() string {
	return "translated_" + j.TargetLang + ".srt"
}

func (j *TranslationJob) StatusText() string {
	switch j.Status {
	case StatusPending:
		return "Waiting to start"
	case StatusTranslating:
		return "Translating..."
	case StatusEncoding:
		return "Rebuilding subtitle file..."
	case StatusCompleted:
		return "Completed"
	case StatusFailed:
		return "Failed"
	default:
		return string(j.Status)
	}
}
