package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/membership-api/internal/dto"
	"github.com/BruksfildServices01/membership-api/internal/httperr"
	"github.com/BruksfildServices01/membership-api/internal/httpresp"
	"github.com/BruksfildServices01/membership-api/internal/middleware"
	ucEnrollment "github.com/BruksfildServices01/membership-api/internal/usecase/enrollment"
)

// ======================================================
// HANDLER
// ======================================================

type EnrollmentHandler struct {
	submit  *ucEnrollment.SubmitEnrollment
	review  *ucEnrollment.ReviewEnrollment
	queries *ucEnrollment.Queries
	log     *slog.Logger
}

func NewEnrollmentHandler(
	submit *ucEnrollment.SubmitEnrollment,
	review *ucEnrollment.ReviewEnrollment,
	queries *ucEnrollment.Queries,
	log *slog.Logger,
) *EnrollmentHandler {
	return &EnrollmentHandler{
		submit:  submit,
		review:  review,
		queries: queries,
		log:     log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type SubmitEnrollmentRequest struct {
	FirstName   string `json:"first_name" form:"first_name"`
	LastName    string `json:"last_name" form:"last_name"`
	Email       string `json:"email" form:"email"`
	Phone       string `json:"phone" form:"phone"`
	Country     string `json:"country" form:"country"`
	City        string `json:"city" form:"city"`
	CompanyName string `json:"company_name" form:"company_name"`

	// Either a list or a JSON-encoded list.
	Interests json.RawMessage `json:"interests" form:"-"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

const (
	fieldCompanyLogo       = "company_logo"
	fieldBusinessDocuments = "business_documents"
)

// ======================================================
// SUBMIT
// ======================================================

func (h *EnrollmentHandler) Submit(c *gin.Context) {
	var req SubmitEnrollmentRequest
	if err := c.ShouldBind(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	interests, err := h.interests(c, req.Interests)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	logos, closeLogos, err := formUploads(c, fieldCompanyLogo)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	defer closeLogos()

	docs, closeDocs, err := formUploads(c, fieldBusinessDocuments)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	defer closeDocs()

	in := ucEnrollment.SubmitInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		Country:     req.Country,
		City:        req.City,
		CompanyName: req.CompanyName,
		Interests:   interests,
		Documents:   docs,
	}
	if len(logos) > 0 {
		in.Logo = &logos[0]
	}

	res, err := h.submit.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.Created(c, gin.H{
		"message":       "Your enrollment has been submitted. A confirmation email is on its way.",
		"enrollment_id": res.Enrollment.ID,
	})
}

func (h *EnrollmentHandler) interests(c *gin.Context, raw json.RawMessage) ([]string, error) {
	if isMultipart(c) {
		values := c.PostFormArray("interests")
		if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
			return ucEnrollment.ParseInterests(values[0])
		}
		return values, nil
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []string{}, nil
	}

	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, httperr.Validation("invalid_interests", "Interests must be a list of strings.")
		}
		return ucEnrollment.ParseInterests(encoded)
	}

	return ucEnrollment.ParseInterests(string(raw))
}

// ======================================================
// ADMIN
// ======================================================

func (h *EnrollmentHandler) List(c *gin.Context) {
	res, err := h.queries.List(
		c.Request.Context(),
		c.Query("status"),
		queryInt(c, "page"),
		queryInt(c, "limit"),
	)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, gin.H{
		"enrollments": dto.NewEnrollmentListItems(res.Enrollments),
		"total":       res.Total,
		"page":        res.Page,
		"limit":       res.Limit,
	})
}

func (h *EnrollmentHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	e, err := h.queries.Get(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, e)
}

func (h *EnrollmentHandler) UpdateStatus(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_status", "A status of approved or rejected is required.")
		return
	}

	e, err := h.review.Execute(c.Request.Context(), id, req.Status, middleware.CurrentUserID(c))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, gin.H{
		"message":    "Status updated.",
		"enrollment": e,
	})
}

func (h *EnrollmentHandler) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	if err := h.queries.Delete(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, gin.H{"message": "Enrollment deleted."})
}

// ======================================================
// MEMBER
// ======================================================

func (h *EnrollmentHandler) Mine(c *gin.Context) {
	list, err := h.queries.ListMine(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.List(c, list)
}
