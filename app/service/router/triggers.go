package router

import (
	"strings"

	"github.com/elliotchance/pie/v2"
)

// Trigger classes for immediate escalation, checked before any other
// routing. Order matters: safety beats legal beats general.
const (
	TriggerClassSafety  = "safety"
	TriggerClassLegal   = "legal"
	TriggerClassGeneral = "general"
)

type triggerClass struct {
	name     string
	priority Priority
	reason   string
	keywords []string
}

var triggerClasses = []triggerClass{
	{
		name:     TriggerClassSafety,
		priority: PriorityUrgent,
		reason:   "Safety concern detected - immediate attention required",
		keywords: []string{"suicide", "harm", "hurt myself", "kill", "die"},
	},
	{
		name:     TriggerClassLegal,
		priority: PriorityHigh,
		reason:   "Legal concern detected - requires human review",
		keywords: []string{"lawyer", "attorney", "legal", "sue", "lawsuit"},
	},
	{
		name:     TriggerClassGeneral,
		priority: PriorityHigh,
		reason:   "Escalation trigger detected",
		keywords: []string{
			"supervisor", "manager", "complaint", "incompetent",
			"emergency", "urgent", "immediately", "right now", "asap",
			"human", "real person", "speak to someone", "talk to someone",
		},
	},
}

// scanTriggers returns the highest-severity class whose keywords appear in
// the text, with the matched keywords, or nil when none match.
func scanTriggers(text string) (*triggerClass, []string) {
	lower := strings.ToLower(text)

	for i := range triggerClasses {
		class := &triggerClasses[i]

		matched := pie.Filter(class.keywords, func(keyword string) bool {
			return strings.Contains(lower, keyword)
		})

		if len(matched) > 0 {
			return class, matched
		}
	}

	return nil, nil
}
