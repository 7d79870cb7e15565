package app

import (
	"github.com/dielemma/lifeline"
)

// Decorators holds a chain of decorators, not yet resolved by a
// Handler
type Decorators struct {
	chain []lifeline.Decorator
}

// ChainDecorators takes a chain of decorators,
// and upon adding a final Handler, returns a Handler that will
// execute this whole stack.
//
//	app.ChainDecorators(
//	  logging.NewDecorator(),
//	  sigs.NewDecorator(),
//	).WithHandler(router)
func ChainDecorators(chain ...lifeline.Decorator) Decorators {
	return Decorators{chain: chain}
}

// Chain allows us to keep adding more decorators to the chain
func (d Decorators) Chain(chain ...lifeline.Decorator) Decorators {
	return Decorators{chain: append(d.chain, chain...)}
}

// WithHandler resolves the stack and returns a concrete Handler
func (d Decorators) WithHandler(h lifeline.Handler) lifeline.Handler {
	// start from the end and wrap the handler in the chain
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = wrapped{d.chain[i], h}
	}
	return h
}

// wrapped graft a decorator onto a handler to make a new handler
type wrapped struct {
	mid  lifeline.Decorator
	next lifeline.Handler
}

var _ lifeline.Handler = wrapped{}

// Check passes the handler as the next Checker to the decorator
func (w wrapped) Check(ctx lifeline.Context, store lifeline.KVStore, tx lifeline.Tx) (*lifeline.CheckResult, error) {
	return w.mid.Check(ctx, store, tx, w.next)
}

// Deliver passes the handler as the next Deliverer to the decorator
func (w wrapped) Deliver(ctx lifeline.Context, store lifeline.KVStore, tx lifeline.Tx) (*lifeline.DeliverResult, error) {
	return w.mid.Deliver(ctx, store, tx, w.next)
}
