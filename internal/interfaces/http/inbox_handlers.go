package http

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/servicehub/internal/domain/entity"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ListNotifications handles GET /api/notifications
func (h *Handlers) ListNotifications(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	notifications, err := h.notifications.ListForUser(c.Request.Context(), actorFrom(c).ID, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusOK, notifications)
}

// UnreadCount handles GET /api/notifications/unread-count
func (h *Handlers) UnreadCount(c *gin.Context) {
	count, err := h.notifications.UnreadCount(c.Request.Context(), actorFrom(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusOK, gin.H{"count": count})
}

// MarkNotificationRead handles PATCH /api/notifications/:id/read
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	if err := h.notifications.MarkRead(c.Request.Context(), c.Param("id"), actorFrom(c).ID); err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusOK, gin.H{"id": c.Param("id"), "is_read": true})
}

// ListAuditLogs handles GET /api/audit-logs
func (h *Handlers) ListAuditLogs(c *gin.Context) {
	filter, err := auditFilterFrom(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	entries, err := h.audit.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusOK, entries)
}

// ExportAuditLogs handles GET /api/audit-logs/export
func (h *Handlers) ExportAuditLogs(c *gin.Context) {
	filter, err := auditFilterFrom(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := h.audit.ExportXLSX(c.Request.Context(), filter, &buf); err != nil {
		h.fail(c, err)
		return
	}

	filename := fmt.Sprintf("audit-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// auditFilterFrom reads entity_type, entity_id, user_id, since, until and limit
func auditFilterFrom(c *gin.Context) (entity.AuditFilter, error) {
	filter := entity.AuditFilter{
		EntityType: entity.EntityType(c.Query("entity_type")),
		EntityID:   c.Query("entity_id"),
		UserID:     c.Query("user_id"),
	}

	switch filter.EntityType {
	case "", entity.EntityTypeLeave, entity.EntityTypeExpense, entity.EntityTypeTicket:
	default:
		return filter, fmt.Errorf("invalid entity_type %q", filter.EntityType)
	}

	for _, p := range []struct {
		name string
		dst  *time.Time
	}{{"since", &filter.Since}, {"until", &filter.Until}} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, fmt.Errorf("invalid %s parameter: expected RFC3339", p.name)
		}
		*p.dst = t.UTC()
	}

	limit, err := queryInt(c, "limit")
	if err != nil {
		return filter, err
	}
	filter.Limit = limit
	return filter, nil
}
