package action

import (
	"frontdesk/app/client/llm"
	"frontdesk/app/client/search"
	"frontdesk/app/client/tickets"
	"frontdesk/app/config"
	"frontdesk/app/service/router"

	"github.com/samber/do"
)

// Registry dispatches capability names from routing decisions to
// implementations.
type Registry struct {
	capabilities map[string]Capability
}

func New(di *do.Injector) (*Registry, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewRegistry(
		do.MustInvoke[llm.Client](di),
		do.MustInvoke[*search.Index](di),
		do.MustInvoke[tickets.Desk](di),
		cfg.Knowledge.TopK,
	), nil
}

func NewRegistry(client llm.Client, searcher search.Searcher, desk tickets.Desk, topK int) *Registry {
	return &Registry{
		capabilities: map[string]Capability{
			router.CapabilityRetrieve:      NewRetrieve(client, searcher, topK),
			router.CapabilityGeneralChat:   NewGeneralChat(client),
			router.CapabilityClarification: NewClarification(client),
			router.CapabilityEscalation:    NewEscalation(desk),
			router.CapabilityTicketStatus:  NewStatusLookup(desk),
		},
	}
}

func (r *Registry) Get(name string) (Capability, bool) {
	capability, ok := r.capabilities[name]
	return capability, ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.capabilities))
	for name := range r.capabilities {
		names = append(names, name)
	}

	return names
}
