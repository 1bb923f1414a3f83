package controllers

import (
	"context"
	"fmt"

	"github.com/agnivade/levenshtein"
	"github.com/amaumene/cinelist/internal/models"
	"github.com/amaumene/cinelist/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
)

// DefaultImportConcurrency caps parallel searches during a bulk import
const DefaultImportConcurrency = 8

// ImportResult is the outcome of a bulk import
type ImportResult struct {
	Added    []models.Movie   `json:"added"`
	NotFound []string         `json:"not_found"`
	Notices  []*models.Notice `json:"notices"`
}

// ImportController resolves pasted titles to catalog entries and adds them
// to a watchlist
type ImportController struct {
	searcher    TitleSearcher
	concurrency int
	logger      *logrus.Logger
}

// NewImportController creates a new import controller
func NewImportController(searcher TitleSearcher, concurrency int, logger *logrus.Logger) *ImportController {
	if concurrency < 1 {
		concurrency = DefaultImportConcurrency
	}
	return &ImportController{
		searcher:    searcher,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Import searches every non-blank line of text and adds the best matches
// to the watchlist. Lines without results, or whose lookup failed, get a
// Not Found notice each.
func (c *ImportController) Import(ctx context.Context, wl *WatchlistController, listID, text string) (ImportResult, error) {
	result := ImportResult{Added: []models.Movie{}, NotFound: []string{}, Notices: []*models.Notice{}}

	if _, ok := wl.Get(listID); !ok {
		result.Notices = append(result.Notices, models.ErrorNotice("Watchlist not found."))
		return result, fmt.Errorf("watchlist %s: %w", listID, models.ErrNotFound)
	}

	titles, err := utils.ParseTitleLines(text)
	if err != nil {
		return result, fmt.Errorf("failed to read import text: %w", err)
	}
	if len(titles) == 0 {
		result.Notices = append(result.Notices, models.ErrorNotice("No titles to import."))
		return result, fmt.Errorf("%w: no titles to import", models.ErrInvalidInput)
	}

	c.logger.WithFields(logrus.Fields{
		"watchlist_id": listID,
		"titles":       len(titles),
	}).Info("Starting bulk import")

	matches := make([]*models.Movie, len(titles))
	p := pool.New().WithContext(ctx).WithMaxGoroutines(c.concurrency)
	for i, title := range titles {
		i, title := i, title
		p.Go(func(ctx context.Context) error {
			results, err := c.searcher.Search(ctx, title)
			if err != nil {
				// a failed lookup only costs its own line
				c.logger.WithError(err).WithField("title", title).Warn("Import lookup failed")
				return nil
			}
			if best, ok := BestMatch(title, results); ok {
				matches[i] = &best
			}
			return nil
		})
	}
	err = p.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		c.logger.WithError(err).WithField("watchlist_id", listID).Error("Bulk import failed")
		result.Notices = append(result.Notices, &models.Notice{
			Level:   models.NoticeError,
			Title:   "Import Failed",
			Message: "An unexpected error occurred during import.",
		})
		return result, fmt.Errorf("import failed: %w", err)
	}

	toAdd := make([]models.Movie, 0, len(titles))
	for i, m := range matches {
		if m == nil {
			result.NotFound = append(result.NotFound, titles[i])
			result.Notices = append(result.Notices, &models.Notice{
				Level:   models.NoticeError,
				Title:   "Not Found",
				Message: fmt.Sprintf("Could not find a match for %q.", titles[i]),
			})
			continue
		}
		toAdd = append(toAdd, *m)
	}

	if len(toAdd) == 0 {
		return result, nil
	}

	added, notice, err := wl.AddMovies(ctx, listID, toAdd)
	if notice != nil {
		result.Notices = append(result.Notices, notice)
	}
	if err != nil {
		return result, err
	}
	result.Added = added
	return result, nil
}

// BestMatch picks the result for an imported line. The first result wins
// unless a later title is strictly closer to the line by case-folded edit
// distance and within a typo budget of a tenth of the line's length.
func BestMatch(line string, results []models.Movie) (models.Movie, bool) {
	if len(results) == 0 {
		return models.Movie{}, false
	}

	target := foldCase(line)
	budget := len([]rune(target)) / 10

	best := 0
	bestDist := levenshtein.ComputeDistance(target, foldCase(results[0].Title))
	for i := 1; i < len(results) && bestDist > 0; i++ {
		d := levenshtein.ComputeDistance(target, foldCase(results[i].Title))
		if d < bestDist && d <= budget {
			best, bestDist = i, d
		}
	}
	return results[best], true
}
