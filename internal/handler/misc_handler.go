package handler

import (
	"net/http"

	"jharkhand-tourism/internal/model"
	"jharkhand-tourism/internal/service"

	"github.com/gin-gonic/gin"
)

// Translate handles POST /api/translate.
func (h *Handler) Translate(c *gin.Context) {
	var in service.TranslateInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.TranslationService.Translate(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) Languages(c *gin.Context) {
	c.JSON(http.StatusOK, service.Languages)
}

func (h *Handler) CreateTrip(c *gin.Context) {
	var in struct {
		Name string `json:"name"`
	}
	if !bindJSON(c, &in) {
		return
	}
	trip, err := h.TripService.CreateTrip(c.Request.Context(), c.GetInt(ctxUserID), in.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}

func (h *Handler) GetTrip(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	trip, err := h.TripService.Details(c.Request.Context(), c.GetInt(ctxUserID), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

func (h *Handler) AddTripDestination(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var in struct {
		DestinationID int `json:"destination_id"`
	}
	if !bindJSON(c, &in) {
		return
	}
	trip, err := h.TripService.AddDestination(c.Request.Context(), c.GetInt(ctxUserID), id, in.DestinationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// OptimizeTrip reorders the stops by nearest neighbour.
func (h *Handler) OptimizeTrip(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	trip, err := h.TripService.OptimizeTrip(c.Request.Context(), c.GetInt(ctxUserID), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

func (h *Handler) SubscribeOffers(c *gin.Context) {
	if err := h.OfferService.Subscribe(c.Request.Context(), c.GetInt(ctxUserID)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscribed": true})
}

func (h *Handler) UnsubscribeOffers(c *gin.Context) {
	if err := h.OfferService.Unsubscribe(c.Request.Context(), c.GetInt(ctxUserID)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscribed": false})
}

// BroadcastOffer handles POST /api/admin/offers/broadcast {message}.
func (h *Handler) BroadcastOffer(c *gin.Context) {
	var in struct {
		Message string `json:"message"`
	}
	if !bindJSON(c, &in) {
		return
	}
	res, err := h.OfferService.Broadcast(c.Request.Context(), in.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) SubmitEnquiry(c *gin.Context) {
	var e model.Enquiry
	if !bindJSON(c, &e) {
		return
	}
	saved, err := h.EnquiryService.Submit(c.Request.Context(), &e)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *Handler) ListEnquiries(c *gin.Context) {
	enquiries, err := h.EnquiryService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, enquiries)
}
