package controllers

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/amaumene/cinelist/internal/models"
)

const (
	// SuggestDebounce is how long a query must stay unchanged before it is sent
	SuggestDebounce = 300 * time.Millisecond
	// SuggestMinLength is the minimum query length, ignoring surrounding spaces
	SuggestMinLength = 2
	// SuggestLimit caps the number of suggestions returned
	SuggestLimit = 7
)

// ErrSuperseded is returned for a suggestion query replaced by a newer one
var ErrSuperseded = errors.New("query superseded by a newer one")

// Suggester serves search-as-you-type lookups for one user. Each call
// supersedes the previous one: a pending or in-flight lookup is cancelled
// and its results are never delivered.
type Suggester struct {
	searcher TitleSearcher
	delay    time.Duration
	limit    int

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewSuggester creates a suggester with the default debounce and limit
func NewSuggester(searcher TitleSearcher) *Suggester {
	return &Suggester{
		searcher: searcher,
		delay:    SuggestDebounce,
		limit:    SuggestLimit,
	}
}

// Suggest waits out the debounce window and returns up to the limit of
// matches for query. It returns ErrSuperseded when a newer call arrived in
// the meantime.
func (s *Suggester) Suggest(ctx context.Context, query string) ([]models.Movie, error) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	seq := s.seq
	s.cancel = cancel
	s.mu.Unlock()

	defer s.finish(seq, cancel)

	query = strings.TrimSpace(query)
	if len([]rune(query)) < SuggestMinLength {
		return []models.Movie{}, nil
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return nil, s.cancelled(seq, ctx.Err())
	}

	results, err := s.searcher.Search(ctx, query)
	if !s.current(seq) {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, s.cancelled(seq, err)
	}

	if len(results) > s.limit {
		results = results[:s.limit]
	}
	return results, nil
}

func (s *Suggester) current(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq == seq
}

// cancelled reports ErrSuperseded when a newer call caused the failure
func (s *Suggester) cancelled(seq uint64, err error) error {
	if !s.current(seq) {
		return ErrSuperseded
	}
	return err
}

func (s *Suggester) finish(seq uint64, cancel context.CancelFunc) {
	cancel()
	s.mu.Lock()
	if s.seq == seq {
		s.cancel = nil
	}
	s.mu.Unlock()
}

// Stop cancels any pending lookup
func (s *Suggester) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
