package lifeline

import (
	"encoding/json"
)

// Handler is a core engine that can process a few specific messages.
// This could represent "open a deposit", or "transfer tokens".
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality
// like authentication, or logging, to many Handlers
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// CheckResult captures any non-error response from the pre-execution
// validation of a transaction.
type CheckResult struct {
	// Data is a machine-parseable return value, like the key of a newly
	// created record.
	Data []byte
	// Log is human readable data.
	Log string
	// GasAllocated is an estimate of the amount of work this operation is
	// allowed to perform.
	GasAllocated int64
	// GasPayment is the amount of work already performed, eg. signature
	// verification.
	GasPayment int64
}

// DeliverResult captures any non-error response from the execution of a
// transaction.
type DeliverResult struct {
	// Data is a machine-parseable return value, like the key of a newly
	// created record.
	Data []byte
	// Log is human readable data.
	Log string
}

// Registry is an interface to register your handler,
// the setup side of a Router
type Registry interface {
	Handle(path string, h Handler)
}

// Options are the app options.
// Each extension can look up its key and parse the json as desired.
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, obj)
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
