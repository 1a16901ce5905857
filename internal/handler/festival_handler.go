package handler

import (
	"net/http"
	"time"

	"jharkhand-tourism/internal/model"
	"jharkhand-tourism/internal/service"

	"github.com/gin-gonic/gin"
)

// festivalRequest takes plain YYYY-MM-DD dates.
type festivalRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Community   string `json:"community"`
	District    string `json:"district"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Highlights  string `json:"highlights"`
	ImageURL    string `json:"image_url"`
}

func (r festivalRequest) festival() (*model.Festival, error) {
	start, err := service.ParseDate("start_date", r.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := service.ParseDate("end_date", r.EndDate)
	if err != nil {
		return nil, err
	}
	return &model.Festival{
		Name:        r.Name,
		Description: r.Description,
		Community:   r.Community,
		District:    r.District,
		StartDate:   start,
		EndDate:     end,
		Highlights:  r.Highlights,
		ImageURL:    r.ImageURL,
	}, nil
}

// ListFestivals handles GET /api/festivals?month&year&district. Without a
// month it returns what is coming up.
func (h *Handler) ListFestivals(c *gin.Context) {
	month, err := queryInt(c, "month", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	year, err := queryInt(c, "year", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	var festivals []model.Festival
	if month == 0 {
		festivals, err = h.FestivalService.Upcoming(c.Request.Context(), time.Time{}, 0)
	} else {
		festivals, err = h.FestivalService.ByMonth(c.Request.Context(), year, month, c.Query("district"))
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, festivals)
}

// UpcomingFestivals handles GET /api/festivals/upcoming?from&limit.
func (h *Handler) UpcomingFestivals(c *gin.Context) {
	var from time.Time
	if raw := c.Query("from"); raw != "" {
		d, err := service.ParseDate("from", raw)
		if err != nil {
			respondError(c, err)
			return
		}
		from = d
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	festivals, err := h.FestivalService.Upcoming(c.Request.Context(), from, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, festivals)
}

func (h *Handler) FestivalCalendar(c *gin.Context) {
	year, err := queryInt(c, "year", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	calendar, err := h.FestivalService.Calendar(c.Request.Context(), year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, calendar)
}

func (h *Handler) GetFestival(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	f, err := h.FestivalService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *Handler) CreateFestival(c *gin.Context) {
	var in festivalRequest
	if !bindJSON(c, &in) {
		return
	}
	f, err := in.festival()
	if err != nil {
		respondError(c, err)
		return
	}
	created, err := h.FestivalService.Create(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateFestival(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var in festivalRequest
	if !bindJSON(c, &in) {
		return
	}
	f, err := in.festival()
	if err != nil {
		respondError(c, err)
		return
	}
	updated, err := h.FestivalService.Update(c.Request.Context(), id, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteFestival(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.FestivalService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
