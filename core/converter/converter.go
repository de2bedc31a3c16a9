// Package converter defines the boundary between jurisdiction-specific
// source formats and the canonical document model. A converter knows how to
// fetch raw source bytes for a citation and parse them into a Section; the
// registry maps (jurisdiction, format) pairs to converters.
package converter

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/FocuswithJustin/CedarLaw/core/citation"
	apperrors "github.com/FocuswithJustin/CedarLaw/core/errors"
	"github.com/FocuswithJustin/CedarLaw/core/law"
)

// Converter turns one jurisdiction's source format into canonical sections.
// Implementations live outside the archive core; the engine never sees raw
// source bytes.
type Converter interface {
	// Jurisdiction returns the jurisdiction ID this converter serves.
	Jurisdiction() string

	// Format returns the source format name (e.g., "uslm", "akn").
	Format() string

	// Fetch retrieves the raw source bytes for a citation.
	Fetch(ctx context.Context, c citation.Citation) ([]byte, error)

	// Parse converts raw source bytes into a canonical section. sourceURL
	// records provenance on the result.
	Parse(raw []byte, sourceURL string) (*law.Section, error)
}

// Registry maps "jurisdiction:format" keys to converters. Registration
// normally happens from init functions; lookups are safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	converters map[string]Converter
}

// NewRegistry creates an empty converter registry.
func NewRegistry() *Registry {
	return &Registry{converters: make(map[string]Converter)}
}

func registryKey(jurisdiction, format string) string {
	return strings.ToLower(jurisdiction) + ":" + strings.ToLower(format)
}

// Register adds a converter under its jurisdiction and format. A later
// registration for the same key replaces the earlier one.
func (r *Registry) Register(c Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.converters[registryKey(c.Jurisdiction(), c.Format())] = c
}

// Resolve returns the converter for a jurisdiction and format. With an empty
// format, it falls back to the jurisdiction's sole registered converter; if
// several formats are registered the lowest key wins, so resolution stays
// deterministic across runs.
func (r *Registry) Resolve(jurisdiction, format string) (Converter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if format != "" {
		if c, ok := r.converters[registryKey(jurisdiction, format)]; ok {
			return c, nil
		}
		return nil, apperrors.NewUnavailable(jurisdiction, format)
	}

	prefix := strings.ToLower(jurisdiction) + ":"
	var keys []string
	for key := range r.converters {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return nil, apperrors.NewUnavailable(jurisdiction, format)
	}
	sort.Strings(keys)
	return r.converters[keys[0]], nil
}

// List returns the registered "jurisdiction:format" keys, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.converters))
	for key := range r.converters {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// defaultRegistry backs the package-level registration API.
var defaultRegistry = NewRegistry()

// DefaultRegistry returns the registry that package-level Register feeds.
func DefaultRegistry() *Registry { return defaultRegistry }

// Register adds a converter to the default registry.
func Register(c Converter) { defaultRegistry.Register(c) }

// Resolve looks up a converter in the default registry.
func Resolve(jurisdiction, format string) (Converter, error) {
	return defaultRegistry.Resolve(jurisdiction, format)
}

// List returns the default registry's keys, sorted.
func List() []string { return defaultRegistry.List() }
