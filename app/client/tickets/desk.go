package tickets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"frontdesk/app/config"

	"github.com/samber/do"
)

var _ Desk = (*MemoryDesk)(nil)

// MemoryDesk keeps tickets in process memory. Losing the process loses the
// tickets, same as the session store.
type MemoryDesk struct {
	trackingBaseURL string

	mu      sync.RWMutex
	tickets map[string]Ticket
	nextID  int
}

func NewDesk(di *do.Injector) (Desk, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewMemory(cfg.Tickets.TrackingBaseURL), nil
}

func NewMemory(trackingBaseURL string) *MemoryDesk {
	d := &MemoryDesk{
		trackingBaseURL: strings.TrimSuffix(trackingBaseURL, "/"),
		tickets:         make(map[string]Ticket),
		nextID:          10000,
	}

	d.seed()

	return d
}

func (d *MemoryDesk) Create(_ context.Context, req CreateRequest) (Ticket, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := fmt.Sprintf("TKT-%d", d.nextID)
	d.nextID++

	now := time.Now()

	ticket := Ticket{
		ID:          id,
		Summary:     req.Summary,
		Description: req.Description,
		Status:      StatusOpen,
		Priority:    req.Priority,
		AssignedTo:  "Support Team",
		TrackingURL: d.trackingBaseURL + "/" + id,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	d.tickets[id] = ticket

	slog.Info("Created ticket",
		"ticket_id", id,
		"priority", req.Priority,
	)

	return ticket, nil
}

func (d *MemoryDesk) Status(_ context.Context, id string) (Ticket, error) {
	normalized := Normalize(id)

	d.mu.RLock()
	defer d.mu.RUnlock()

	ticket, ok := d.tickets[normalized]
	if !ok {
		return Ticket{}, ErrNotFound
	}

	return ticket, nil
}

// Normalize upcases a ticket identifier and restores a missing TKT- prefix.
func Normalize(id string) string {
	normalized := strings.ToUpper(strings.TrimSpace(id))
	if normalized == "" {
		return normalized
	}

	if !strings.HasPrefix(normalized, "TKT-") {
		normalized = "TKT-" + normalized
	}

	return normalized
}

func (d *MemoryDesk) seed() {
	now := time.Now()

	for _, ticket := range []Ticket{
		{
			ID:         "TKT-12345",
			Summary:    "Password reset request",
			Status:     StatusInProgress,
			Priority:   "medium",
			AssignedTo: "Support Team",
			CreatedAt:  now.Add(-72 * time.Hour),
			UpdatedAt:  now.Add(-24 * time.Hour),
		},
		{
			ID:         "TKT-67890",
			Summary:    "VPN access issue",
			Status:     StatusResolved,
			Priority:   "low",
			AssignedTo: "IT Department",
			CreatedAt:  now.Add(-240 * time.Hour),
			UpdatedAt:  now.Add(-120 * time.Hour),
		},
	} {
		ticket.TrackingURL = d.trackingBaseURL + "/" + ticket.ID
		d.tickets[ticket.ID] = ticket
	}
}
