package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/amaumene/cinelist/internal/controllers"
	"github.com/amaumene/cinelist/internal/models"
	"github.com/amaumene/cinelist/internal/services/tmdb"
	"github.com/gofiber/fiber/v2"
)

// Envelope is the body of every API response
type Envelope struct {
	Data   interface{}    `json:"data"`
	Notice *models.Notice `json:"notice,omitempty"`
}

func respond(c *fiber.Ctx, status int, data interface{}, notice *models.Notice) error {
	return c.Status(status).JSON(Envelope{Data: data, Notice: notice})
}

func ok(c *fiber.Ctx, data interface{}, notice *models.Notice) error {
	return respond(c, fiber.StatusOK, data, notice)
}

// fail writes the error response for err. A nil notice is replaced by a
// generic one matching the status.
func fail(c *fiber.Ctx, err error, notice *models.Notice) error {
	status := StatusFor(err)
	if status == fiber.StatusNoContent {
		return c.SendStatus(status)
	}
	if notice == nil {
		notice = defaultNotice(status, err)
	}
	return respond(c, status, nil, notice)
}

// StatusFor maps an operation error to an HTTP status
func StatusFor(err error) int {
	switch {
	case errors.Is(err, controllers.ErrSuperseded):
		return fiber.StatusNoContent
	case errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrInvalidTemplate),
		errors.Is(err, tmdb.ErrMissingMediaType):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	}

	var statusErr *tmdb.StatusError
	if errors.As(err, &statusErr) {
		return fiber.StatusBadGateway
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

func defaultNotice(status int, err error) *models.Notice {
	switch status {
	case fiber.StatusBadRequest:
		return models.ErrorNotice(err.Error())
	case fiber.StatusNotFound:
		return models.ErrorNotice("The requested item was not found.")
	case fiber.StatusBadGateway, fiber.StatusGatewayTimeout:
		return models.ErrorNotice("The movie database could not be reached.")
	default:
		return models.ErrorNotice("Something went wrong.")
	}
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", models.ErrInvalidInput, msg)
}

// mediaTypeParam reads and validates the :mediaType route parameter
func mediaTypeParam(c *fiber.Ctx) (models.MediaType, error) {
	mt, err := models.ParseMediaType(c.Params("mediaType"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	return mt, nil
}

func idParam(c *fiber.Ctx, name string) (int, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, invalid(name + " must be a positive number")
	}
	return id, nil
}
