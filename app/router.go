/*
Package app glues the extensions together into a runnable state
machine: a path router for messages and a decorator chain for the
cross-cutting middleware (signature verification, logging).
*/
package app

import (
	"regexp"

	"github.com/dielemma/lifeline"
	"github.com/dielemma/lifeline/errors"
)

// Router allows us to register many handlers with different
// paths and then direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]lifeline.Handler
}

var _ lifeline.Registry = (*Router)(nil)
var _ lifeline.Handler = (*Router)(nil)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`).MatchString

// NewRouter initializes a router with no routes
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]lifeline.Handler),
	}
}

// Handle adds a new Handler for the given path. This function panics
// if a handler for given path is already registered or if the path is
// invalid.
func (r *Router) Handle(path string, h lifeline.Handler) {
	if !isPath(path) {
		panic("invalid path: " + path)
	}
	if _, ok := r.routes[path]; ok {
		panic("re-registering route: " + path)
	}
	r.routes[path] = h
}

// handler returns the registered Handler for this path.
// If no path is found, returns a noSuchPathHandler.
// This method always returns a non-nil Handler.
func (r *Router) handler(m lifeline.Msg) lifeline.Handler {
	path := m.Path()
	if h, ok := r.routes[path]; ok {
		return h
	}
	return noSuchPathHandler{path}
}

// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx lifeline.Context, store lifeline.KVStore, tx lifeline.Tx) (*lifeline.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg).Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx lifeline.Context, store lifeline.KVStore, tx lifeline.Tx) (*lifeline.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg).Deliver(ctx, store, tx)
}

// noSuchPathHandler always returns ErrNotFound,
// paired with the requested path
type noSuchPathHandler struct {
	path string
}

var _ lifeline.Handler = noSuchPathHandler{}

func (h noSuchPathHandler) Check(lifeline.Context, lifeline.KVStore, lifeline.Tx) (*lifeline.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", h.path)
}

func (h noSuchPathHandler) Deliver(lifeline.Context, lifeline.KVStore, lifeline.Tx) (*lifeline.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", h.path)
}
