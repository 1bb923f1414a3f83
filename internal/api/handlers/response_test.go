package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/amaumene/cinelist/internal/controllers"
	"github.com/amaumene/cinelist/internal/models"
	"github.com/amaumene/cinelist/internal/services/tmdb"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"superseded suggestion", controllers.ErrSuperseded, http.StatusNoContent},
		{"invalid input", fmt.Errorf("%w: empty name", models.ErrInvalidInput), http.StatusBadRequest},
		{"invalid template", models.ErrInvalidTemplate, http.StatusBadRequest},
		{"missing media type", fmt.Errorf("normalize: %w", tmdb.ErrMissingMediaType), http.StatusBadRequest},
		{"not found", fmt.Errorf("watchlist x: %w", models.ErrNotFound), http.StatusNotFound},
		{"upstream status", fmt.Errorf("fetch: %w", &tmdb.StatusError{StatusCode: 500}), http.StatusBadGateway},
		{"upstream transport", fmt.Errorf("request failed: %w", &url.Error{Op: "Get", URL: "x", Err: errors.New("refused")}), http.StatusBadGateway},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"store failure", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b c"}, splitList(" a, ,b c,"))
	assert.Nil(t, splitList(""))
}
