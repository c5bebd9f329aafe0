package datasource

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
)

// ErrUnsupportedScheme is returned when no adapter handles a URL scheme.
var ErrUnsupportedScheme = errors.New("unsupported connection url scheme")

// AdapterInfo describes a registered adapter.
type AdapterInfo struct {
	Type        string   `json:"type"`
	DisplayName string   `json:"displayName"`
	Schemes     []string `json:"schemes"`
}

// AdapterRegistration contains info and the factory for an adapter.
type AdapterRegistration struct {
	Info    AdapterInfo
	Factory Factory
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]AdapterRegistration) // keyed by scheme
)

// Register is called by each adapter's init() function.
// Thread-safe for concurrent init() calls.
func Register(reg AdapterRegistration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, scheme := range reg.Info.Schemes {
		registry[strings.ToLower(scheme)] = reg
	}
}

// RegisteredAdapters returns info for all registered adapters, sorted by type.
func RegisteredAdapters() []AdapterInfo {
	registryMu.RLock()
	defer registryMu.RUnlock()

	seen := make(map[string]bool)
	result := make([]AdapterInfo, 0, len(registry))
	for _, reg := range registry {
		if seen[reg.Info.Type] {
			continue
		}
		seen[reg.Info.Type] = true
		result = append(result, reg.Info)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Type < result[j].Type })
	return result
}

// GetFactory returns the factory for a URL scheme, or nil if none is registered.
func GetFactory(scheme string) Factory {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if reg, ok := registry[strings.ToLower(scheme)]; ok {
		return reg.Factory
	}
	return nil
}

// IsRegistered checks if an adapter handles the scheme.
func IsRegistered(scheme string) bool {
	return GetFactory(scheme) != nil
}

// Open picks the adapter by the scheme of connectionURL and opens it.
func Open(ctx context.Context, connectionURL string) (ConnectionTester, error) {
	u, err := url.Parse(connectionURL)
	if err != nil || u.Scheme == "" {
		return nil, fmt.Errorf("%w: cannot parse scheme", ErrUnsupportedScheme)
	}

	factory := GetFactory(u.Scheme)
	if factory == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	return factory(ctx, connectionURL)
}
