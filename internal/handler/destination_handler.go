package handler

import (
	"net/http"
	"strings"

	"jharkhand-tourism/internal/model"
	"jharkhand-tourism/internal/service"

	"github.com/gin-gonic/gin"
)

// ListDestinations handles GET /api/destinations.
func (h *Handler) ListDestinations(c *gin.Context) {
	limit, offset, err := page(c)
	if err != nil {
		respondError(c, err)
		return
	}
	minRating, err := queryFloat(c, "min_rating", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	destinations, err := h.DestinationService.Search(c.Request.Context(), model.DestinationFilter{
		Category:  c.Query("category"),
		District:  c.Query("district"),
		MinRating: minRating,
		Keyword:   strings.TrimSpace(c.Query("q")),
		Sort:      c.Query("sort"),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, destinations)
}

func (h *Handler) GetDestination(c *gin.Context) {
	details, err := h.DestinationService.Details(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// NearbyDestinations handles GET /api/destinations/nearby?lat&lng&radius_km&limit.
func (h *Handler) NearbyDestinations(c *gin.Context) {
	lat, err := queryFloat(c, "lat", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	lng, err := queryFloat(c, "lng", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	radius, err := queryFloat(c, "radius_km", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	nearby, err := h.DestinationService.Nearby(c.Request.Context(), lat, lng, radius, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nearby)
}

func (h *Handler) CreateDestination(c *gin.Context) {
	var d model.Destination
	if !bindJSON(c, &d) {
		return
	}
	created, err := h.DestinationService.Create(c.Request.Context(), &d)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateDestination(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var d model.Destination
	if !bindJSON(c, &d) {
		return
	}
	updated, err := h.DestinationService.Update(c.Request.Context(), id, &d)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteDestination(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.DestinationService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) AddDestinationPhoto(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var in struct {
		URL     string `json:"url"`
		Caption string `json:"caption"`
	}
	if !bindJSON(c, &in) {
		return
	}
	photo, err := h.DestinationService.AddPhoto(c.Request.Context(), id, in.URL, in.Caption)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, photo)
}

// ListReviews handles GET /api/destinations/:slug/reviews, newest first.
func (h *Handler) ListReviews(c *gin.Context) {
	p, err := queryInt(c, "page", 1)
	if err != nil {
		respondError(c, err)
		return
	}
	perPage, err := queryInt(c, "per_page", 20)
	if err != nil {
		respondError(c, err)
		return
	}
	reviews, err := h.ReviewService.List(c.Request.Context(), c.Param("slug"), p, perPage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *Handler) CreateReview(c *gin.Context) {
	var in service.ReviewInput
	if !bindJSON(c, &in) {
		return
	}
	review, err := h.ReviewService.Create(c.Request.Context(), c.GetInt(ctxUserID), c.Param("slug"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *Handler) DeleteReview(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.ReviewService.Delete(c.Request.Context(), actor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
