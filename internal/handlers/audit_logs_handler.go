package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/membership-api/internal/audit"
	"github.com/BruksfildServices01/membership-api/internal/httperr"
	"github.com/BruksfildServices01/membership-api/internal/httpresp"
	"github.com/BruksfildServices01/membership-api/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogReader interface {
	ListAuditLogs(ctx context.Context, f audit.Filter) ([]models.AuditLog, int64, error)
}

type AuditLogsHandler struct {
	logs AuditLogReader
	loc  *time.Location
	log  *slog.Logger
}

func NewAuditLogsHandler(logs AuditLogReader, loc *time.Location, log *slog.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs, loc: loc, log: log}
}

func (h *AuditLogsHandler) List(c *gin.Context) {

	// --------------------------------------------------
	// Optional filters
	// --------------------------------------------------

	f := audit.Filter{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		From:   parseDay(c.Query("from"), h.loc),
		To:     parseDay(c.Query("to"), h.loc),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	}

	f = f.Normalize()

	logs, total, err := h.logs.ListAuditLogs(c.Request.Context(), f)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, gin.H{
		"page":  f.Page,
		"limit": f.Limit,
		"total": total,
		"logs":  logs,
	})
}
