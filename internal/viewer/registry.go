package viewer

import (
	"fmt"
	"sort"

	"github.com/san-kum/molview/internal/protein"
	"github.com/san-kum/molview/internal/scene"
)

// Options configure the backends a Registry hands out.
type Options struct {
	Open   scene.OpenFunc
	Params scene.Params
	Client *protein.Client
	Style  protein.Style
}

type Registry struct {
	backends map[string]func() Backend
}

func NewRegistry(opts Options) *Registry {
	r := &Registry{backends: make(map[string]func() Backend)}

	r.backends["ballstick"] = func() Backend {
		return NewContext(nil, nil, opts.Open, opts.Params)
	}
	r.backends["widget"] = func() Backend {
		client := opts.Client
		if client == nil {
			client = protein.NewClient("", 0)
		}
		return NewWidget(client, opts.Style)
	}

	return r
}

// Get returns a fresh backend.
func (r *Registry) Get(name string) (Backend, error) {
	fn, ok := r.backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown backend: %s", name)
	}
	return fn(), nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
