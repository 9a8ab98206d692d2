package leagues

import (
	"fmt"
	"os"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// UnresolvedError signals that no configuration source could produce a URL
// for a league. It names the override variable that would have resolved it.
type UnresolvedError struct {
	Key    string
	EnvVar string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("no url configured for %s (set %s or SPORTS_BASE_URL)", e.Key, e.EnvVar)
}

// Resolver maps league definitions to URLs. Resolution order: explicit
// per-league override variable, then the base-URL pattern, then unresolved.
// Resolved URLs are memoized in an LRU cache owned by the resolver; callers
// pass the resolver explicitly instead of relying on global state.
type Resolver struct {
	baseURL string
	lookup  func(string) (string, bool)
	cache   *lru.Cache[string, string]
}

// NewResolver builds a resolver over the given base-URL pattern. The lookup
// function supplies override variables; nil means os.LookupEnv.
func NewResolver(baseURL string, lookup func(string) (string, bool)) (*Resolver, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	cache, err := lru.New[string, string](64)
	if err != nil {
		return nil, fmt.Errorf("create url cache: %w", err)
	}
	return &Resolver{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		lookup:  lookup,
		cache:   cache,
	}, nil
}

// Resolve returns the target URL for def. Resolution is idempotent: the same
// definition always yields the same URL for the life of the resolver.
func (r *Resolver) Resolve(def Definition) (string, error) {
	if cached, ok := r.cache.Get(def.Key); ok {
		return cached, nil
	}

	envVar := EnvVarName(def.Key)
	if override, ok := r.lookup(envVar); ok && strings.TrimSpace(override) != "" {
		resolved := strings.TrimSpace(override)
		r.cache.Add(def.Key, resolved)
		return resolved, nil
	}

	if r.baseURL != "" {
		resolved := r.baseURL + "/" + Slug(def.Name)
		r.cache.Add(def.Key, resolved)
		return resolved, nil
	}

	return "", &UnresolvedError{Key: def.Key, EnvVar: envVar}
}
