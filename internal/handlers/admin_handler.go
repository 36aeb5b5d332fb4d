package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/membership-api/internal/httperr"
	"github.com/BruksfildServices01/membership-api/internal/httpresp"
	"github.com/BruksfildServices01/membership-api/internal/middleware"
	ucEnrollment "github.com/BruksfildServices01/membership-api/internal/usecase/enrollment"
	"github.com/BruksfildServices01/membership-api/internal/usecase/user"
)

type AdminHandler struct {
	users       *user.Service
	enrollments *ucEnrollment.Queries
	log         *slog.Logger
}

func NewAdminHandler(users *user.Service, enrollments *ucEnrollment.Queries, log *slog.Logger) *AdminHandler {
	return &AdminHandler{users: users, enrollments: enrollments, log: log}
}

func (h *AdminHandler) Users(c *gin.Context) {
	h.listUsers(c, c.Query("role"))
}

func (h *AdminHandler) UsersByRole(c *gin.Context) {
	h.listUsers(c, c.Param("role"))
}

func (h *AdminHandler) listUsers(c *gin.Context, role string) {
	users, err := h.users.List(c.Request.Context(), role)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.List(c, users)
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	u, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, u)
}

func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Role is required.")
		return
	}

	u, err := h.users.UpdateRole(c.Request.Context(), id, req.Role, middleware.CurrentUserID(c))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, u)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	if err := h.users.Delete(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, gin.H{"message": "User and related enrollments deleted."})
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.enrollments.Stats(c.Request.Context())
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, stats)
}
