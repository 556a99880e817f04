// Package refine proxies prompt refinement requests to LLM providers. It
// sends the compiled prompt with refinement instructions to a configured
// provider and parses the structured response.
package refine

import (
	"fmt"
	"net/http"
	"sync"
)

// Provider adapts a single LLM backend to the refinement contract.
type Provider interface {
	// Name returns the registry key for the provider.
	Name() string
	// RequestURL returns the full endpoint URL for the given base URL.
	RequestURL(baseURL string) string
	// SetHeaders applies authentication and content headers to the request.
	SetHeaders(req *http.Request, apiKey string)
	// RequestBody builds the provider-specific request payload.
	RequestBody(model string, temperature float64, system, user string) any
	// ParseContent extracts the assistant message text from a raw response body.
	ParseContent(body []byte) (string, error)
}

var (
	providersMu sync.RWMutex
	providers   = make(map[string]Provider)
)

// RegisterProvider adds a provider to the registry, replacing any existing
// provider with the same name.
func RegisterProvider(p Provider) {
	providersMu.Lock()
	defer providersMu.Unlock()
	providers[p.Name()] = p
}

// LookupProvider returns the registered provider for name.
func LookupProvider(name string) (Provider, error) {
	providersMu.RLock()
	defer providersMu.RUnlock()

	p, ok := providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return p, nil
}

// ProviderNames returns the names of all registered providers.
func ProviderNames() []string {
	providersMu.RLock()
	defer providersMu.RUnlock()

	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	return names
}
