package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/garyjia/servicehub/internal/application/workflow"
	"github.com/garyjia/servicehub/internal/domain/entity"
)

// SubmitLeaveRequest is the body of POST /api/leaves. The employee is the caller.
type SubmitLeaveRequest struct {
	LeaveType entity.LeaveType `json:"leave_type"`
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date"`
	Reason    string           `json:"reason"`
}

// ApprovalRequest is the body of the approve endpoints
type ApprovalRequest struct {
	Action  entity.ApprovalAction `json:"action"`
	Comment string                `json:"comment"`
}

// PayRequest is the body of PATCH /api/expenses/:id/pay
type PayRequest struct {
	Comment string `json:"comment"`
}

// SubmitExpenseRequest is the body of POST /api/expenses. The submitter is the caller.
type SubmitExpenseRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Category    string          `json:"category"`
	ReceiptURI  string          `json:"receipt_uri"`
}

// CreateTicketRequest is the body of POST /api/tickets. The creator is the caller.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    entity.TicketCategory `json:"category"`
	Priority    entity.TicketPriority `json:"priority"`
}

// TicketStatusRequest is the body of PATCH /api/tickets/:id/status
type TicketStatusRequest struct {
	Status     entity.TicketStatus `json:"status"`
	AssigneeID *string             `json:"assignee_id"`
}

// CommentRequest is the body of POST /api/tickets/:id/comments
type CommentRequest struct {
	Content string `json:"content"`
}

// TransitionResponse reports the status reached by a transition
type TransitionResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// SubmitLeave handles POST /api/leaves
func (h *Handlers) SubmitLeave(c *gin.Context) {
	var req SubmitLeaveRequest
	if !bindJSON(c, &req) {
		return
	}

	leave, err := h.engine.SubmitLeave(c.Request.Context(), workflow.SubmitLeaveInput{
		EmployeeID: actorFrom(c).ID,
		LeaveType:  req.LeaveType,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Reason:     req.Reason,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusCreated, leave)
}

// ListLeaves handles GET /api/leaves
func (h *Handlers) ListLeaves(c *gin.Context) {
	leaves, err := h.engine.ListLeaves(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusOK, leaves)
}

// GetLeaveBalance handles GET /api/leaves/balance
func (h *Handlers) GetLeaveBalance(c *gin.Context) {
	balance, err := h.engine.GetLeaveBalance(c.Request.Context(), actorFrom(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusOK, balance)
}

// GetLeave handles GET /api/leaves/:id
func (h *Handlers) GetLeave(c *gin.Context) {
	leave, err := h.engine.GetLeave(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusOK, leave)
}

// TransitionLeave handles PATCH /api/leaves/:id/approve
func (h *Handlers) TransitionLeave(c *gin.Context) {
	var req ApprovalRequest
	if !bindJSON(c, &req) {
		return
	}

	id := c.Param("id")
	status, err := h.engine.TransitionLeave(c.Request.Context(), id, actorFrom(c), req.Action, req.Comment)
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusOK, TransitionResponse{ID: id, Status: status.String()})
}

// SubmitExpense handles POST /api/expenses
func (h *Handlers) SubmitExpense(c *gin.Context) {
	var req SubmitExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	expense, err := h.engine.SubmitExpense(c.Request.Context(), workflow.SubmitExpenseInput{
		SubmitterID: actorFrom(c).ID,
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Category:    req.Category,
		ReceiptURI:  req.ReceiptURI,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusCreated, expense)
}

// ListExpenses handles GET /api/expenses
func (h *Handlers) ListExpenses(c *gin.Context) {
	expenses, err := h.engine.ListExpenses(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusOK, expenses)
}

// GetExpense handles GET /api/expenses/:id
func (h *Handlers) GetExpense(c *gin.Context) {
	expense, err := h.engine.GetExpense(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusOK, expense)
}

// TransitionExpense handles PATCH /api/expenses/:id/approve
func (h *Handlers) TransitionExpense(c *gin.Context) {
	var req ApprovalRequest
	if !bindJSON(c, &req) {
		return
	}

	id := c.Param("id")
	status, err := h.engine.TransitionExpense(c.Request.Context(), id, actorFrom(c), req.Action, req.Comment)
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusOK, TransitionResponse{ID: id, Status: status.String()})
}

// PayExpense handles PATCH /api/expenses/:id/pay
func (h *Handlers) PayExpense(c *gin.Context) {
	var req PayRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	id := c.Param("id")
	status, err := h.engine.MarkExpensePaid(c.Request.Context(), id, actorFrom(c), req.Comment)
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusOK, TransitionResponse{ID: id, Status: status.String()})
}

// CreateTicket handles POST /api/tickets
func (h *Handlers) CreateTicket(c *gin.Context) {
	var req CreateTicketRequest
	if !bindJSON(c, &req) {
		return
	}

	ticket, err := h.engine.CreateTicket(c.Request.Context(), workflow.CreateTicketInput{
		CreatorID:   actorFrom(c).ID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusCreated, ticket)
}

// ListTickets handles GET /api/tickets
func (h *Handlers) ListTickets(c *gin.Context) {
	tickets, err := h.engine.ListTickets(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusOK, tickets)
}

// GetTicket handles GET /api/tickets/:id
func (h *Handlers) GetTicket(c *gin.Context) {
	ticket, err := h.engine.GetTicket(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusOK, ticket)
}

// TransitionTicket handles PATCH /api/tickets/:id/status
func (h *Handlers) TransitionTicket(c *gin.Context) {
	var req TicketStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	id := c.Param("id")
	if err := h.engine.TransitionTicket(c.Request.Context(), id, actorFrom(c), req.Status, req.AssigneeID); err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusOK, TransitionResponse{ID: id, Status: req.Status.String()})
}

// CommentOnTicket handles POST /api/tickets/:id/comments
func (h *Handlers) CommentOnTicket(c *gin.Context) {
	var req CommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.engine.CommentOnTicket(c.Request.Context(), c.Param("id"), actorFrom(c).ID, req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusCreated, comment)
}
