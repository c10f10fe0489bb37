package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/guttosm/shoppulse/internal/domain/models"
)

// Upload is one parsed log file held for the current session.
type Upload struct {
	ID       string
	FileName string
	Format   models.Format
	LoadedAt time.Time
	Buckets  *models.DayBuckets
	Lines    int
	Skipped  int
}

// SessionRepository holds at most one parsed log. Uploading replaces it
// wholesale and removing discards it; the bucket map is never mutated in place.
type SessionRepository interface {
	Replace(u *Upload) *Upload
	Clear() bool
	Current() (*Upload, bool)
}

type sessionRepository struct {
	mu      sync.RWMutex
	current *Upload
}

// NewSessionRepository returns an empty in-process repository.
func NewSessionRepository() SessionRepository {
	return &sessionRepository{}
}

// NewUpload stamps a parsed file with a fresh id and load time.
func NewUpload(fileName string, format models.Format, buckets *models.DayBuckets, lines, skipped int) *Upload {
	return &Upload{
		ID:       uuid.NewString(),
		FileName: fileName,
		Format:   format,
		LoadedAt: time.Now().UTC(),
		Buckets:  buckets,
		Lines:    lines,
		Skipped:  skipped,
	}
}

// Replace installs u and returns the upload it superseded, if any.
func (r *sessionRepository) Replace(u *Upload) *Upload {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.current
	r.current = u
	return prev
}

// Clear drops the current upload. It reports whether one was loaded.
func (r *sessionRepository) Clear() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	had := r.current != nil
	r.current = nil
	return had
}

func (r *sessionRepository) Current() (*Upload, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current, r.current != nil
}
