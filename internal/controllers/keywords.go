package controllers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/amaumene/cinelist/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
)

// DefaultKeywords are offered to every user and cannot be deleted
var DefaultKeywords = []string{"4K", "2160p", "1080p", "720p", "HDR"}

// KeywordsController manages one user's custom search keywords
type KeywordsController struct {
	userID string
	store  KeywordStore
	logger *logrus.Logger

	mu     sync.RWMutex
	custom []string
}

// NewKeywordsController creates a keywords controller for one user
func NewKeywordsController(userID string, store KeywordStore, logger *logrus.Logger) *KeywordsController {
	return &KeywordsController{
		userID: userID,
		store:  store,
		logger: logger,
		custom: []string{},
	}
}

// Refresh refetches the custom keywords
func (c *KeywordsController) Refresh(ctx context.Context) (*models.Notice, error) {
	keywords, err := c.store.ListKeywords(ctx, c.userID)
	if err != nil {
		c.logger.WithError(err).WithField("user_id", c.userID).Error("Failed to fetch keywords")
		return models.ErrorNotice("Could not fetch custom keywords."), fmt.Errorf("failed to fetch keywords: %w", err)
	}
	if keywords == nil {
		keywords = []string{}
	}

	c.mu.Lock()
	c.custom = keywords
	c.mu.Unlock()
	return nil, nil
}

// Add stores a custom keyword. A keyword matching an existing default or
// custom one, ignoring case, is a no-op with an info notice.
func (c *KeywordsController) Add(ctx context.Context, keyword string) (*models.Notice, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return models.ErrorNotice("Keyword cannot be empty."), fmt.Errorf("%w: empty keyword", models.ErrInvalidInput)
	}

	if c.exists(keyword) {
		return models.InfoNotice("Keyword Exists", fmt.Sprintf("%q is already in your list.", keyword)), nil
	}

	if err := c.store.AddKeyword(ctx, c.userID, keyword); err != nil {
		c.logger.WithError(err).WithField("user_id", c.userID).Error("Failed to add keyword")
		return models.ErrorNotice("Could not add keyword."), fmt.Errorf("failed to add keyword: %w", err)
	}

	c.mu.Lock()
	c.custom = append(c.custom, keyword)
	c.mu.Unlock()

	return models.InfoNotice("Keyword Added", fmt.Sprintf("%q has been added.", keyword)), nil
}

// Delete removes a custom keyword
func (c *KeywordsController) Delete(ctx context.Context, keyword string) (*models.Notice, error) {
	if err := c.store.DeleteKeyword(ctx, c.userID, keyword); err != nil {
		if models.IsNotFound(err) {
			return models.ErrorNotice("Keyword not found."), fmt.Errorf("keyword %q: %w", keyword, models.ErrNotFound)
		}
		c.logger.WithError(err).WithField("user_id", c.userID).Error("Failed to delete keyword")
		return models.ErrorNotice("Could not delete keyword."), fmt.Errorf("failed to delete keyword: %w", err)
	}

	folded := foldCase(keyword)
	c.mu.Lock()
	kept := make([]string, 0, len(c.custom))
	for _, k := range c.custom {
		if foldCase(k) != folded {
			kept = append(kept, k)
		}
	}
	c.custom = kept
	c.mu.Unlock()

	return models.InfoNotice("Keyword Deleted", fmt.Sprintf("%q has been deleted.", keyword)), nil
}

// All returns the defaults and custom keywords, sorted
func (c *KeywordsController) All() []string {
	c.mu.RLock()
	all := make([]string, 0, len(DefaultKeywords)+len(c.custom))
	all = append(all, DefaultKeywords...)
	all = append(all, c.custom...)
	c.mu.RUnlock()

	sort.Strings(all)
	return all
}

// Custom returns the user's own keywords, sorted
func (c *KeywordsController) Custom() []string {
	c.mu.RLock()
	custom := make([]string, len(c.custom))
	copy(custom, c.custom)
	c.mu.RUnlock()

	sort.Strings(custom)
	return custom
}

func (c *KeywordsController) exists(keyword string) bool {
	folded := foldCase(keyword)
	for _, k := range DefaultKeywords {
		if foldCase(k) == folded {
			return true
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, k := range c.custom {
		if foldCase(k) == folded {
			return true
		}
	}
	return false
}

// foldCase returns the Unicode case fold of s. A Caser keeps state, so
// each call gets its own.
func foldCase(s string) string {
	return cases.Fold().String(s)
}
