package providers

import (
	"net/http"
	"sort"
)

// ParsedEvent is the provider-neutral shape of one webhook payload.
type ParsedEvent struct {
	Type          string         `json:"type"`
	Provider      string         `json:"provider"`
	ExternalID    string         `json:"external_id"`
	CustomerID    string         `json:"customer_id"`
	CustomerEmail string         `json:"customer_email,omitempty"`
	Amount        float64        `json:"amount"`
	Currency      string         `json:"currency"`
	Status        string         `json:"status"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// Verifier validates and parses raw webhooks for one provider.
//
// Validate is a boolean check, never an error: a bad signature is a normal
// outcome and must leave all state untouched. Parse returning (nil, nil)
// means the payload is a provider test ping and there is nothing to process.
type Verifier interface {
	Type() string
	DisplayName() string
	Validate(body []byte, headers http.Header, secret string) bool
	Parse(body []byte) (*ParsedEvent, error)
}

// Registry is the closed set of supported providers. Adding a provider means
// adding one Verifier implementation and registering it here; nothing
// dispatches on type names anywhere else.
type Registry struct {
	verifiers map[string]Verifier
}

func NewRegistry() *Registry {
	r := &Registry{verifiers: make(map[string]Verifier)}
	r.register(&StripeVerifier{})
	r.register(&ChargifyVerifier{})
	r.register(&ShopifyVerifier{})
	return r
}

func (r *Registry) register(v Verifier) {
	r.verifiers[v.Type()] = v
}

func (r *Registry) Get(providerType string) (Verifier, bool) {
	v, ok := r.verifiers[providerType]
	return v, ok
}

func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.verifiers))
	for t := range r.verifiers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
