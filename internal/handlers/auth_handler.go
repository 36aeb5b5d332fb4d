package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/membership-api/internal/httperr"
	"github.com/BruksfildServices01/membership-api/internal/httpresp"
	"github.com/BruksfildServices01/membership-api/internal/middleware"
	"github.com/BruksfildServices01/membership-api/internal/usecase/user"
)

type AuthHandler struct {
	users *user.Service
	log   *slog.Logger
}

func NewAuthHandler(users *user.Service, log *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, log: log}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type ResetPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ProfileRequest is accepted as JSON or multipart; a multipart body may
// carry the photo file.
type ProfileRequest struct {
	FirstName                 *string `json:"first_name" form:"first_name"`
	LastName                  *string `json:"last_name" form:"last_name"`
	Phone                     *string `json:"phone" form:"phone"`
	CompanyName               *string `json:"company_name" form:"company_name"`
	CompanyAddress            *string `json:"company_address" form:"company_address"`
	CompanyRegistrationNumber *string `json:"company_registration_number" form:"company_registration_number"`
}

const fieldPhoto = "photo"

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Email and password are required.")
		return
	}

	token, u, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, gin.H{
		"token": token,
		"user":  u,
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, u)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Current and new password are required.")
		return
	}

	err := h.users.ChangePassword(
		c.Request.Context(),
		middleware.CurrentUserID(c),
		req.CurrentPassword,
		req.NewPassword,
	)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, gin.H{"message": "Password updated."})
}

// ResetPassword answers the same way whether or not the address is known.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Email is required.")
		return
	}

	if err := h.users.ResetPassword(c.Request.Context(), req.Email); err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, gin.H{"message": "If an account exists for this address, a temporary password has been sent."})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	photos, closePhotos, err := formUploads(c, fieldPhoto)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	defer closePhotos()

	in := user.ProfileInput{
		FirstName:                 req.FirstName,
		LastName:                  req.LastName,
		Phone:                     req.Phone,
		CompanyName:               req.CompanyName,
		CompanyAddress:            req.CompanyAddress,
		CompanyRegistrationNumber: req.CompanyRegistrationNumber,
	}
	if len(photos) > 0 {
		in.Photo = &photos[0]
	}

	u, err := h.users.UpdateProfile(c.Request.Context(), middleware.CurrentUserID(c), in)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, u)
}
