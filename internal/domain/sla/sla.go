// Package sla derives ticket deadlines from priority.
package sla

import (
	"time"

	"github.com/garyjia/servicehub/internal/domain/entity"
)

var hoursByPriority = map[entity.TicketPriority]int{
	entity.TicketPriorityCritical: 4,
	entity.TicketPriorityHigh:     24,
	entity.TicketPriorityMedium:   48,
	entity.TicketPriorityLow:      72,
}

// Window returns the resolution window for a priority.
// Unknown priorities get the Medium window.
func Window(priority entity.TicketPriority) time.Duration {
	hours, ok := hoursByPriority[priority]
	if !ok {
		hours = hoursByPriority[entity.TicketPriorityMedium]
	}
	return time.Duration(hours) * time.Hour
}

// Deadline returns the SLA deadline for a ticket created at createdAt
func Deadline(priority entity.TicketPriority, createdAt time.Time) time.Time {
	return createdAt.Add(Window(priority))
}

// Status is the derived SLA view of a ticket at a point in time
type Status struct {
	Deadline  time.Time     `json:"sla_deadline"`
	Remaining time.Duration `json:"sla_remaining"`
	Breached  bool          `json:"sla_breached"`
}

// Evaluate computes the SLA view at now without touching the deadline
func Evaluate(deadline, now time.Time) Status {
	remaining := deadline.Sub(now)
	return Status{
		Deadline:  deadline,
		Remaining: remaining,
		Breached:  remaining < 0,
	}
}
