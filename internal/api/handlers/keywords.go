package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// KeywordsHandler serves the search keyword list
type KeywordsHandler struct {
	logger *logrus.Logger
}

// NewKeywordsHandler creates a new keywords handler
func NewKeywordsHandler(logger *logrus.Logger) *KeywordsHandler {
	return &KeywordsHandler{logger: logger}
}

// KeywordList holds the default plus custom keywords and the custom ones alone
type KeywordList struct {
	All    []string `json:"all"`
	Custom []string `json:"custom"`
}

type keywordRequest struct {
	Keyword string `json:"keyword"`
}

// List returns the keywords of the user
func (h *KeywordsHandler) List(c *fiber.Ctx) error {
	kw := session(c).Keywords
	return ok(c, KeywordList{All: kw.All(), Custom: kw.Custom()}, nil)
}

// Add stores a custom keyword
func (h *KeywordsHandler) Add(c *fiber.Ctx) error {
	var req keywordRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, nil)
	}
	kw := session(c).Keywords
	notice, err := kw.Add(c.UserContext(), req.Keyword)
	if err != nil {
		return fail(c, err, notice)
	}
	return ok(c, KeywordList{All: kw.All(), Custom: kw.Custom()}, notice)
}

// Delete removes a custom keyword
func (h *KeywordsHandler) Delete(c *fiber.Ctx) error {
	keyword, err := url.PathUnescape(c.Params("keyword"))
	if err != nil {
		return fail(c, invalid("malformed keyword"), nil)
	}
	kw := session(c).Keywords
	notice, err := kw.Delete(c.UserContext(), keyword)
	if err != nil {
		return fail(c, err, notice)
	}
	return ok(c, KeywordList{All: kw.All(), Custom: kw.Custom()}, notice)
}
