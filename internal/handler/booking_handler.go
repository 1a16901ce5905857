package handler

import (
	"net/http"
	"strings"
	"time"

	"jharkhand-tourism/internal/model"
	"jharkhand-tourism/internal/service"

	"github.com/gin-gonic/gin"
)

// stay reads check_in, check_out and rooms from the query string.
func stay(c *gin.Context) (service.Stay, error) {
	checkIn, err := service.ParseDate("check_in", c.Query("check_in"))
	if err != nil {
		return service.Stay{}, err
	}
	checkOut, err := service.ParseDate("check_out", c.Query("check_out"))
	if err != nil {
		return service.Stay{}, err
	}
	rooms, err := queryInt(c, "rooms", 1)
	if err != nil {
		return service.Stay{}, err
	}
	return service.Stay{CheckIn: checkIn, CheckOut: checkOut, Rooms: rooms}, nil
}

// ListHotels handles GET /api/hotels?district&destination_id&min_stars&q.
func (h *Handler) ListHotels(c *gin.Context) {
	destinationID, err := queryInt(c, "destination_id", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	minStars, err := queryInt(c, "min_stars", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	hotels, err := h.HotelService.List(c.Request.Context(), model.HotelFilter{
		District:      c.Query("district"),
		DestinationID: destinationID,
		MinStars:      minStars,
		Keyword:       strings.TrimSpace(c.Query("q")),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hotels)
}

func (h *Handler) GetHotel(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	details, err := h.HotelService.Details(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *Handler) HotelAvailability(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	s, err := stay(c)
	if err != nil {
		respondError(c, err)
		return
	}
	rooms, err := h.HotelService.Availability(c.Request.Context(), id, s)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// QuoteStay handles GET /api/hotels/quote?room_id&check_in&check_out&rooms.
func (h *Handler) QuoteStay(c *gin.Context) {
	roomID, err := queryInt(c, "room_id", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	s, err := stay(c)
	if err != nil {
		respondError(c, err)
		return
	}
	quote, err := h.HotelService.Quote(c.Request.Context(), roomID, s)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *Handler) BookHotel(c *gin.Context) {
	var in service.HotelBookingInput
	if !bindJSON(c, &in) {
		return
	}
	booking, err := h.HotelService.Book(c.Request.Context(), c.GetInt(ctxUserID), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

func (h *Handler) CreateHotel(c *gin.Context) {
	var hotel model.Hotel
	if !bindJSON(c, &hotel) {
		return
	}
	created, err := h.HotelService.CreateHotel(c.Request.Context(), &hotel)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) CreateRoom(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var room model.Room
	if !bindJSON(c, &room) {
		return
	}
	created, err := h.HotelService.CreateRoom(c.Request.Context(), id, &room)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// routeFilter reads origin, destination, date and passengers.
func routeFilter(c *gin.Context) (model.RouteFilter, error) {
	f := model.RouteFilter{Origin: c.Query("origin"), Destination: c.Query("destination")}
	if raw := c.Query("date"); raw != "" {
		d, err := service.ParseDate("date", raw)
		if err != nil {
			return f, err
		}
		f.Date = d
	}
	passengers, err := queryInt(c, "passengers", 1)
	if err != nil {
		return f, err
	}
	f.Passengers = passengers
	return f, nil
}

func (h *Handler) SearchFlights(c *gin.Context) {
	f, err := routeFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}
	flights, err := h.TransportService.SearchFlights(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flights)
}

func (h *Handler) GetFlight(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	f, err := h.TransportService.Flight(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *Handler) SearchBuses(c *gin.Context) {
	f, err := routeFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}
	buses, err := h.TransportService.SearchBuses(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buses)
}

func (h *Handler) GetBus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	b, err := h.TransportService.Bus(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type flightBookingRequest struct {
	FlightID int `json:"flight_id"`
	service.SeatBookingInput
}

type busBookingRequest struct {
	BusID int `json:"bus_id"`
	service.SeatBookingInput
}

func (h *Handler) BookFlight(c *gin.Context) {
	var in flightBookingRequest
	if !bindJSON(c, &in) {
		return
	}
	booking, err := h.TransportService.BookFlight(c.Request.Context(), c.GetInt(ctxUserID), in.FlightID, in.SeatBookingInput)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

func (h *Handler) BookBus(c *gin.Context) {
	var in busBookingRequest
	if !bindJSON(c, &in) {
		return
	}
	booking, err := h.TransportService.BookBus(c.Request.Context(), c.GetInt(ctxUserID), in.BusID, in.SeatBookingInput)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

type scheduleRequest struct {
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	Price         float64   `json:"price"`
	TotalSeats    int       `json:"total_seats"`
}

func (r scheduleRequest) schedule() service.Schedule {
	return service.Schedule{
		Origin:        r.Origin,
		Destination:   r.Destination,
		DepartureTime: r.DepartureTime,
		ArrivalTime:   r.ArrivalTime,
		Price:         r.Price,
		TotalSeats:    r.TotalSeats,
	}
}

func (h *Handler) CreateFlight(c *gin.Context) {
	var in struct {
		Airline      string `json:"airline"`
		FlightNumber string `json:"flight_number"`
		scheduleRequest
	}
	if !bindJSON(c, &in) {
		return
	}
	f, err := h.TransportService.CreateFlight(c.Request.Context(), in.Airline, in.FlightNumber, in.schedule())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

func (h *Handler) CreateBus(c *gin.Context) {
	var in struct {
		Operator string `json:"operator"`
		BusType  string `json:"bus_type"`
		scheduleRequest
	}
	if !bindJSON(c, &in) {
		return
	}
	b, err := h.TransportService.CreateBus(c.Request.Context(), in.Operator, in.BusType, in.schedule())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// MyBookings handles GET /api/bookings.
func (h *Handler) MyBookings(c *gin.Context) {
	bookings, err := h.BookingService.ListMine(c.Request.Context(), c.GetInt(ctxUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// kindAndID reads the :kind and :id path parameters.
func kindAndID(c *gin.Context) (string, int, error) {
	kind, err := service.ParseKind(c.Param("kind"))
	if err != nil {
		return "", 0, err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return "", 0, err
	}
	return kind, id, nil
}

func (h *Handler) GetBooking(c *gin.Context) {
	kind, id, err := kindAndID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	booking, err := h.BookingService.Get(c.Request.Context(), actor(c), kind, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (h *Handler) CancelBooking(c *gin.Context) {
	kind, id, err := kindAndID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	summary, err := h.BookingService.Cancel(c.Request.Context(), actor(c), kind, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// LookupBooking returns only the status side of a booking found by reference.
func (h *Handler) LookupBooking(c *gin.Context) {
	summary, err := h.BookingService.Lookup(c.Request.Context(), c.Param("reference"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reference": summary.Reference, "kind": summary.Kind, "status": summary.Status})
}

// ListBookings handles GET /api/admin/bookings?kind&status.
func (h *Handler) ListBookings(c *gin.Context) {
	bookings, err := h.BookingService.List(c.Request.Context(), c.Query("kind"), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *Handler) SetBookingStatus(c *gin.Context) {
	kind, id, err := kindAndID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var in struct {
		Status string `json:"status"`
	}
	if !bindJSON(c, &in) {
		return
	}
	summary, err := h.BookingService.SetStatus(c.Request.Context(), kind, id, in.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) Dashboard(c *gin.Context) {
	stats, err := h.BookingService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

type checkoutRequest struct {
	BookingKind string `json:"booking_kind"`
	BookingID   int    `json:"booking_id"`
}

// Checkout handles POST /api/payments/checkout.
func (h *Handler) Checkout(c *gin.Context) {
	var in checkoutRequest
	if !bindJSON(c, &in) {
		return
	}
	co, err := h.PaymentService.Checkout(c.Request.Context(), c.GetInt(ctxUserID), in.BookingKind, in.BookingID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, co)
}

// PaymentCallback handles the gateway's signed POST /api/payments/callback.
func (h *Handler) PaymentCallback(c *gin.Context) {
	var in service.CallbackInput
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.PaymentService.Callback(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) GetPayment(c *gin.Context) {
	p, err := h.PaymentService.Get(c.Request.Context(), actor(c), c.Param("reference"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
