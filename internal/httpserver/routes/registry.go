package routes

import (
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/telemanager/internal/httpserver/deps"
)

// Registrar mounts one group of routes.
type Registrar func(r chi.Router, d deps.Deps)

var registry = map[string]Registrar{}

// Register adds a route group under a unique name. Route files call it
// from init().
func Register(name string, reg Registrar) {
	if _, dup := registry[name]; dup {
		panic("routes: duplicate registrar " + name)
	}
	registry[name] = reg
}

// Names lists the registered groups in mount order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterAll mounts every group on r. Called once from server.New().
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, name := range Names() {
		registry[name](r, d)
		d.Logger.Debug("routes mounted: " + name)
	}
}
