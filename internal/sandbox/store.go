package sandbox

import (
	"sync"
	"time"

	"github.com/sangkips/template-submitter/internal/domains/templates"
)

// Submission is one template accepted by the sandbox.
type Submission struct {
	ID         string
	Version    string
	AccountID  string
	Document   templates.Document
	ReceivedAt time.Time
}

// Store keeps accepted submissions in memory for the life of the process.
type Store struct {
	mu          sync.Mutex
	submissions []Submission
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Add(sub Submission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions = append(s.submissions, sub)
}

func (s *Store) List() []Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Submission(nil), s.submissions...)
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.submissions)
}
