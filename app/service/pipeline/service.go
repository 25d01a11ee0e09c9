package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"frontdesk/app/service/action"
	"frontdesk/app/service/query"
	"frontdesk/app/service/router"
	"frontdesk/app/service/session"

	"github.com/google/uuid"
	"github.com/samber/do"
)

// recentTurnWindow bounds how much history a capability sees.
const recentTurnWindow = 5

const (
	emptyMessageReply = "I didn't receive a message. Could you please try again?"
	apologyReply      = "I apologize, but I encountered an issue processing your request. Please try again, or let me know if you'd like to speak with a human support agent."
)

// Service runs the three-stage pipeline: understanding, routing, action.
// Process never fails: every path produces some Result and a session id.
type Service struct {
	querySvc  *query.Service
	routerSvc *router.Service
	registry  *action.Registry
	sessions  *session.Store
}

func New(di *do.Injector) (*Service, error) {
	return NewService(
		do.MustInvoke[*query.Service](di),
		do.MustInvoke[*router.Service](di),
		do.MustInvoke[*action.Registry](di),
		do.MustInvoke[*session.Store](di),
	), nil
}

func NewService(querySvc *query.Service, routerSvc *router.Service, registry *action.Registry, sessions *session.Store) *Service {
	return &Service{
		querySvc:  querySvc,
		routerSvc: routerSvc,
		registry:  registry,
		sessions:  sessions,
	}
}

// Process runs one message through the pipeline. An empty sessionID starts a
// new conversation; passing a previous id continues it.
func (s *Service) Process(ctx context.Context, message, sessionID string) (*action.Result, string) {
	if strings.TrimSpace(message) == "" {
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		return &action.Result{
			Content:       emptyMessageReply,
			Confidence:    0,
			NeedsFollowup: true,
		}, sessionID
	}

	sess, release := s.sessions.Checkout(sessionID)
	defer release()

	start := time.Now()

	structured, err := s.querySvc.Analyze(ctx, message, sess.ContextSummary())
	if err != nil {
		slog.Error("Understanding stage failed", "session_id", sess.ID, "error", err)
		return apology(err), sess.ID
	}

	decision := s.routerSvc.Route(structured)

	slog.Info("Routed message",
		"session_id", sess.ID,
		"intent", structured.Intent,
		"target", decision.Target,
		"priority", decision.Priority,
	)

	result, capabilityUsed, err := s.executeAction(ctx, decision, sess.RecentTurns(recentTurnWindow))
	if err != nil {
		slog.Error("All capabilities failed", "session_id", sess.ID, "error", err)
		return apology(err), sess.ID
	}

	sess.AddTurn(message, result.Content, string(structured.Intent), structured.EntityMap(), capabilityUsed, result.Confidence)

	slog.Info("Processed message",
		"session_id", sess.ID,
		"capability", capabilityUsed,
		"confidence", result.Confidence,
		"turns", len(sess.Turns),
		"duration", time.Since(start),
	)

	return result, sess.ID
}

// executeAction runs the targeted capability with the fallback chain:
// primary, then the decision's fallback, then general chat as last resort.
// The returned name is the capability that actually produced the content.
func (s *Service) executeAction(ctx context.Context, decision *router.Decision, recentTurns []session.Turn) (*action.Result, string, error) {
	attempted := make(map[string]bool)

	names := []string{decision.Target}
	if decision.Fallback != "" {
		names = append(names, decision.Fallback)
	}
	names = append(names, router.CapabilityGeneralChat)

	var lastErr error

	for _, name := range names {
		if attempted[name] {
			continue
		}
		attempted[name] = true

		capability, ok := s.registry.Get(name)
		if !ok {
			slog.Warn("Unknown capability requested", "capability", name)
			continue
		}

		result, err := capability.Execute(ctx, decision, recentTurns)
		if err != nil {
			slog.Warn("Capability failed", "capability", name, "error", err)
			lastErr = err
			continue
		}

		return result, name, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no capability available for %q", decision.Target)
	}

	return nil, "", lastErr
}

func apology(err error) *action.Result {
	return &action.Result{
		Content:              apologyReply,
		Confidence:           0,
		NeedsFollowup:        true,
		SuggestedNextActions: []string{"Try again", "Speak to human"},
		Metadata: map[string]string{
			"error": err.Error(),
		},
	}
}

func (s *Service) GetSession(id string) *session.Session {
	return s.sessions.Get(id)
}

func (s *Service) ClearSession(id string) bool {
	return s.sessions.Delete(id)
}
