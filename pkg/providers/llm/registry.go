package llm

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/alantheprice/codebaseai/pkg/interfaces"
	"github.com/alantheprice/codebaseai/pkg/interfaces/types"
)

// ProviderFactory builds one kind of backend.
type ProviderFactory interface {
	// Create builds a backend from config
	Create(config *types.ProviderConfig) (interfaces.LLMProvider, error)

	// GetName returns the backend name used for lookup
	GetName() string

	// Validate checks config and fills in backend defaults
	Validate(config *types.ProviderConfig) error
}

// Registry maps backend names to their factories and remembers the backend
// built for each name. There is no package-level registry; callers build one
// and pass it where it is needed.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
	built     map[string]interfaces.LLMProvider
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]ProviderFactory),
		built:     make(map[string]interfaces.LLMProvider),
	}
}

// Register adds factory under its name. Names must be unique and non-empty.
func (r *Registry) Register(factory ProviderFactory) error {
	name := factory.GetName()
	if name == "" {
		return fmt.Errorf("provider factory must have a non-empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.factories[name]; dup {
		return fmt.Errorf("provider '%s' is already registered", name)
	}
	r.factories[name] = factory
	return nil
}

func (r *Registry) factory(name string) (ProviderFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("provider '%s' is not registered", name)
	}
	return f, nil
}

// GetProvider returns the backend registered as name, building it from config
// on first use. Once built, later calls return the same instance and ignore
// config.
func (r *Registry) GetProvider(name string, config *types.ProviderConfig) (interfaces.LLMProvider, error) {
	r.mu.RLock()
	p, ok := r.built[name]
	r.mu.RUnlock()
	if ok {
		return p, nil
	}

	f, err := r.factory(name)
	if err != nil {
		return nil, err
	}
	p, err = f.Create(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider '%s': %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.built[name]; ok {
		return existing, nil
	}
	r.built[name] = p
	return p, nil
}

// ListProviders returns the registered names in sorted order.
func (r *Registry) ListProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateConfig runs the named factory's validation over config.
func (r *Registry) ValidateConfig(name string, config *types.ProviderConfig) error {
	f, err := r.factory(name)
	if err != nil {
		return err
	}
	return f.Validate(config)
}

// CheckHealth checks every backend built so far, concurrently, and returns
// each one's IsAvailable result keyed by name. Backends never built are not
// checked.
func (r *Registry) CheckHealth(ctx context.Context) map[string]error {
	r.mu.RLock()
	built := make(map[string]interfaces.LLMProvider, len(r.built))
	for name, p := range r.built {
		built[name] = p
	}
	r.mu.RUnlock()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]error, len(built))
	)
	for name, p := range built {
		wg.Add(1)
		go func(name string, p interfaces.LLMProvider) {
			defer wg.Done()
			err := p.IsAvailable(ctx)
			mu.Lock()
			results[name] = err
			mu.Unlock()
		}(name, p)
	}
	wg.Wait()
	return results
}
