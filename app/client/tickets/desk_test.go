package tickets

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryDesk_CreateAndStatus(t *testing.T) {
	desk := NewMemory("https://support.example.edu/tickets/")

	ticket, err := desk.Create(context.Background(), CreateRequest{
		Summary:  "Cannot log in",
		Priority: "high",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if ticket.ID != "TKT-10000" {
		t.Errorf("id = %q, want TKT-10000", ticket.ID)
	}
	if ticket.Status != StatusOpen {
		t.Errorf("status = %q, want open", ticket.Status)
	}
	if ticket.TrackingURL != "https://support.example.edu/tickets/TKT-10000" {
		t.Errorf("tracking url = %q", ticket.TrackingURL)
	}

	second, err := desk.Create(context.Background(), CreateRequest{Summary: "Another"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if second.ID != "TKT-10001" {
		t.Errorf("second id = %q, want TKT-10001", second.ID)
	}

	got, err := desk.Status(context.Background(), ticket.ID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if got.Summary != "Cannot log in" {
		t.Errorf("summary = %q", got.Summary)
	}
}

func TestMemoryDesk_SeededTickets(t *testing.T) {
	desk := NewMemory("")

	inProgress, err := desk.Status(context.Background(), "TKT-12345")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if inProgress.Status != StatusInProgress {
		t.Errorf("TKT-12345 status = %q, want in_progress", inProgress.Status)
	}

	resolved, err := desk.Status(context.Background(), "TKT-67890")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if resolved.Status != StatusResolved {
		t.Errorf("TKT-67890 status = %q, want resolved", resolved.Status)
	}
}

func TestMemoryDesk_StatusNormalizesID(t *testing.T) {
	desk := NewMemory("")

	for _, id := range []string{"tkt-12345", "12345", "  TKT-12345  "} {
		if _, err := desk.Status(context.Background(), id); err != nil {
			t.Errorf("Status(%q): %v", id, err)
		}
	}
}

func TestMemoryDesk_NotFound(t *testing.T) {
	desk := NewMemory("")

	_, err := desk.Status(context.Background(), "TKT-99999")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"tkt-12345", "TKT-12345"},
		{"12345", "TKT-12345"},
		{" TKT-1 ", "TKT-1"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
