package handlers

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/membership-api/internal/httperr"
	"github.com/BruksfildServices01/membership-api/internal/httpresp"
	"github.com/BruksfildServices01/membership-api/internal/middleware"
	ucEvent "github.com/BruksfildServices01/membership-api/internal/usecase/event"
)

// ======================================================
// HANDLER
// ======================================================

type EventHandler struct {
	create   *ucEvent.CreateEvent
	update   *ucEvent.UpdateEvent
	register *ucEvent.RegisterToEvent
	queries  *ucEvent.Queries
	loc      *time.Location
	log      *slog.Logger
}

func NewEventHandler(
	create *ucEvent.CreateEvent,
	update *ucEvent.UpdateEvent,
	register *ucEvent.RegisterToEvent,
	queries *ucEvent.Queries,
	loc *time.Location,
	log *slog.Logger,
) *EventHandler {
	return &EventHandler{
		create:   create,
		update:   update,
		register: register,
		queries:  queries,
		loc:      loc,
		log:      log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

// EventRequest serves both creation and partial updates; absent fields stay nil.
type EventRequest struct {
	Title           *string  `json:"title" form:"title"`
	Description     *string  `json:"description" form:"description"`
	DateStart       *string  `json:"date_start" form:"date_start"`
	DateEnd         *string  `json:"date_end" form:"date_end"`
	Location        *string  `json:"location" form:"location"`
	Type            *string  `json:"type" form:"type"`
	MaxParticipants *int     `json:"max_participants" form:"max_participants"`
	PriceMember     *float64 `json:"price_member" form:"price_member"`
	PriceNonMember  *float64 `json:"price_non_member" form:"price_non_member"`
	IsFeatured      *bool    `json:"is_featured" form:"is_featured"`
}

const fieldImages = "images"

func (h *EventHandler) bind(c *gin.Context) (EventRequest, *time.Time, *time.Time, error) {
	var req EventRequest
	if err := c.ShouldBind(&req); err != nil {
		return req, nil, nil, httperr.Validation("invalid_request", "Invalid request body.")
	}

	start, err := parseOptionalEventTime(req.DateStart, h.loc)
	if err != nil {
		return req, nil, nil, err
	}
	end, err := parseOptionalEventTime(req.DateEnd, h.loc)
	if err != nil {
		return req, nil, nil, err
	}
	return req, start, end, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// ======================================================
// ADMIN
// ======================================================

func (h *EventHandler) Create(c *gin.Context) {
	req, start, end, err := h.bind(c)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	images, closeImages, err := formUploads(c, fieldImages)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	defer closeImages()

	ev, err := h.create.Execute(c.Request.Context(), ucEvent.CreateEventInput{
		Title:           deref(req.Title),
		Description:     deref(req.Description),
		DateStart:       deref(start),
		DateEnd:         deref(end),
		Location:        deref(req.Location),
		Type:            deref(req.Type),
		MaxParticipants: deref(req.MaxParticipants),
		PriceMember:     deref(req.PriceMember),
		PriceNonMember:  deref(req.PriceNonMember),
		IsFeatured:      deref(req.IsFeatured),
		Images:          images,
	}, middleware.CurrentUserID(c))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.Created(c, gin.H{"event": ev})
}

func (h *EventHandler) Update(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	req, start, end, err := h.bind(c)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	images, closeImages, err := formUploads(c, fieldImages)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	defer closeImages()

	ev, err := h.update.Execute(c.Request.Context(), id, ucEvent.UpdateEventInput{
		Title:           req.Title,
		Description:     req.Description,
		DateStart:       start,
		DateEnd:         end,
		Location:        req.Location,
		Type:            req.Type,
		MaxParticipants: req.MaxParticipants,
		PriceMember:     req.PriceMember,
		PriceNonMember:  req.PriceNonMember,
		IsFeatured:      req.IsFeatured,
		Images:          images,
	}, middleware.CurrentUserID(c))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, gin.H{"event": ev})
}

func (h *EventHandler) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	if err := h.queries.Delete(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, gin.H{"message": "Event deleted."})
}

// ======================================================
// PUBLIC
// ======================================================

func (h *EventHandler) List(c *gin.Context) {
	events, err := h.queries.List(c.Request.Context())
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, gin.H{"events": events})
}

func (h *EventHandler) Get(c *gin.Context) {
	ev, err := h.queries.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, gin.H{"event": ev})
}

// Register runs behind OptionalAuth so that an unknown slug answers 404
// before the caller's identity is checked.
func (h *EventHandler) Register(c *gin.Context) {
	ev, err := h.register.Execute(c.Request.Context(), c.Param("slug"), middleware.CurrentUserID(c))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, gin.H{
		"message": "Registration confirmed.",
		"event":   ev,
	})
}
