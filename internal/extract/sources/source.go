// Package sources holds the per-site extraction strategy sets. Each source
// knows how to turn one parsed listing page into a RawExtraction; everything
// downstream of that is source-agnostic.
package sources

import (
	"net/url"
	"strings"

	"github.com/KajetanPoliak/proklep/internal/extract"
	"github.com/KajetanPoliak/proklep/internal/model"
)

// Source is the capability interface one listing site implements.
type Source interface {
	// Name returns the source identifier recorded on extractions.
	Name() string

	// CanHandle checks whether this source understands pages from host.
	CanHandle(host string) bool

	// Extract produces a RawExtraction from the parsed page. Pure; no
	// network I/O.
	Extract(doc *extract.Document) *model.RawExtraction
}

// Registry dispatches pages to sources by host, with a generic fallback for
// unknown sites.
type Registry struct {
	sources []Source
	generic Source
}

// NewRegistry creates a registry with the built-in sources registered.
func NewRegistry() *Registry {
	r := &Registry{generic: newGeneric()}
	r.Register(newBezrealitky())
	r.Register(newSreality())
	return r
}

// Register adds a source. Sources are consulted in registration order.
func (r *Registry) Register(s Source) {
	r.sources = append(r.sources, s)
}

// ForURL picks the source for a listing URL.
func (r *Registry) ForURL(rawURL string) Source {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return r.generic
	}
	host := strings.ToLower(parsed.Host)
	for _, s := range r.sources {
		if s.CanHandle(host) {
			return s
		}
	}
	return r.generic
}
