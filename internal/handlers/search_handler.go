package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/synap5e/homehero-web/internal/httperr"
	"github.com/synap5e/homehero-web/internal/models"
	"github.com/synap5e/homehero-web/internal/search"
)

// ======================================================
// HANDLER
// ======================================================

type SearchHandler struct {
	Base
	registry *search.Registry
}

func NewSearchHandler(base Base, registry *search.Registry) *SearchHandler {
	return &SearchHandler{Base: base, registry: registry}
}

func (h *SearchHandler) searcher(c *gin.Context) *search.Searcher {
	s := h.session(c)
	return h.registry.For(s.ID, h.API.For(s))
}

// ======================================================
// STATE
// ======================================================

func (h *SearchHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.searcher(c).State())
}

// UpdateFilters replaces the facet set; a query follows after the debounce.
func (h *SearchHandler) UpdateFilters(c *gin.Context) {
	var f search.Filters
	if err := bind(c, &f); err != nil {
		h.fail(c, err)
		return
	}

	s := h.searcher(c)
	if err := s.Update(f); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, s.State())
}

// Search runs the current filters now.
func (h *SearchHandler) Search(c *gin.Context) {
	st, err := h.searcher(c).Search(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *SearchHandler) Clear(c *gin.Context) {
	c.JSON(http.StatusOK, h.searcher(c).Clear())
}

// Stream pushes every state change as a server-sent event.
func (h *SearchHandler) Stream(c *gin.Context) {
	updates, cancel := h.searcher(c).Subscribe()
	defer cancel()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case st, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("state", st)
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// ======================================================
// OPTIONS
// ======================================================

type searchOptions struct {
	Categories    []string          `json:"categories"`
	Locations     []models.Location `json:"locations"`
	RatingOptions []float64         `json:"rating_options"`
	SortOptions   []string          `json:"sort_options"`
}

// Options lists the facet values the search form offers. Categories come
// from the API when it answers, the built-in list otherwise.
func (h *SearchHandler) Options(c *gin.Context) {
	categories, err := h.client(c).ServiceCategories(c.Request.Context())
	if httperr.IsKind(err, httperr.KindUnauthorized) {
		h.fail(c, err)
		return
	}
	if err != nil || len(categories) == 0 {
		if err != nil {
			h.Log.Debug("service categories unavailable", zap.Error(err))
		}
		categories = models.ServiceCategories
	}

	c.JSON(http.StatusOK, searchOptions{
		Categories:    categories,
		Locations:     models.Locations,
		RatingOptions: search.RatingOptions,
		SortOptions:   []string{search.SortRating, search.SortPriceLow, search.SortPriceHigh, search.SortExperience},
	})
}
