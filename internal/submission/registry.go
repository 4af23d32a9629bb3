package submission

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Registry keeps the flow behind each open report form, keyed by form token.
// Entries expire after ttl; the oldest are evicted beyond size.
type Registry struct {
	store Inserter
	flows *expirable.LRU[string, *Flow]
}

// NewRegistry creates a registry holding at most size flows for ttl each.
func NewRegistry(store Inserter, size int, ttl time.Duration) *Registry {
	return &Registry{
		store: store,
		flows: expirable.NewLRU[string, *Flow](size, nil, ttl),
	}
}

// New starts a flow for a freshly rendered form and returns its token.
func (r *Registry) New() (string, *Flow) {
	token := uuid.NewString()
	flow := NewFlow(r.store)
	r.flows.Add(token, flow)
	return token, flow
}

// Get returns the flow for token. Unknown or expired tokens get a new flow
// under a new token, so a stale form can still be submitted.
func (r *Registry) Get(token string) (string, *Flow) {
	if flow, ok := r.flows.Get(token); ok {
		return token, flow
	}
	return r.New()
}

// Len returns the number of live flows.
func (r *Registry) Len() int {
	return r.flows.Len()
}
