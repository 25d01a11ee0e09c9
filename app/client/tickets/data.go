package tickets

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("ticket not found")

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
)

type Ticket struct {
	ID          string
	Summary     string
	Description string
	Status      Status
	Priority    string
	AssignedTo  string
	TrackingURL string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateRequest struct {
	Summary     string
	Description string
	Priority    string
}

// Desk is the ticketing collaborator.
type Desk interface {
	Create(ctx context.Context, req CreateRequest) (Ticket, error)
	Status(ctx context.Context, id string) (Ticket, error)
}
