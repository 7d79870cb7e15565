package lifeline

import (
	"context"
	"io/ioutil"
	"regexp"
	"time"

	"github.com/dielemma/lifeline/errors"
	"github.com/sirupsen/logrus"
)

// Context is the execution context passed through decorators into handlers.
// It carries block-level information such as the current time, never
// request-scoped business data.
type Context = context.Context

type contextKey int

const (
	contextKeyHeight contextKey = iota
	contextKeyTime
	contextKeyChainID
	contextKeyLogger
)

var (
	// DefaultLogger is used for all contexts that have not set anything
	// themselves.
	DefaultLogger logrus.FieldLogger

	// IsValidChainID is the RegExp to ensure valid chain IDs
	IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString
)

func init() {
	discard := logrus.New()
	discard.SetOutput(ioutil.Discard)
	DefaultLogger = discard
}

// WithHeight sets the block height for the Context.
// Must only be called once, in the initialization phase.
func WithHeight(ctx Context, height int64) Context {
	if _, ok := GetHeight(ctx); ok {
		panic("can't set height twice")
	}
	return context.WithValue(ctx, contextKeyHeight, height)
}

// GetHeight returns the current block height, if set.
func GetHeight(ctx Context) (int64, bool) {
	val, ok := ctx.Value(contextKeyHeight).(int64)
	return val, ok
}

// WithBlockTime sets the block time for the Context. Block time is always
// represented in UTC.
func WithBlockTime(ctx Context, t time.Time) Context {
	return context.WithValue(ctx, contextKeyTime, t.UTC())
}

// BlockTime returns the block time as declared for this Context.
func BlockTime(ctx Context) (time.Time, error) {
	val, ok := ctx.Value(contextKeyTime).(time.Time)
	if !ok {
		return time.Time{}, errors.Wrap(errors.ErrHuman, "block time not present in the context")
	}
	if val.IsZero() {
		return val, errors.Wrap(errors.ErrHuman, "zero block time in the context")
	}
	return val, nil
}

// IsExpired returns true if given time is in the past as compared to the
// "now" as declared for the context. Expiration is inclusive, meaning that
// if current time is equal to the expiration time this function returns
// true.
//
// This function panics if the block time is not provided in the context.
// This must never happen. The panic is here to prevent a broken setup from
// processing data incorrectly.
func IsExpired(ctx Context, t UnixTime) bool {
	blockNow, err := BlockTime(ctx)
	if err != nil {
		panic("block time is not present")
	}
	return t <= AsUnixTime(blockNow)
}

// WithChainID sets the chain id for the Context.
// Must only be called once, in the initialization phase.
func WithChainID(ctx Context, chainID string) Context {
	if ctx.Value(contextKeyChainID) != nil {
		panic("can't set chain id twice")
	}
	if !IsValidChainID(chainID) {
		panic("invalid chain id: " + chainID)
	}
	return context.WithValue(ctx, contextKeyChainID, chainID)
}

// GetChainID returns the chain id. It panics if the chain id was not set,
// as it is required for signature verification and must be configured
// during application startup.
func GetChainID(ctx Context) string {
	val, ok := ctx.Value(contextKeyChainID).(string)
	if !ok {
		panic("chain id is not present in the context")
	}
	return val
}

// WithLogger sets a logger for this Context.
func WithLogger(ctx Context, logger logrus.FieldLogger) Context {
	// Logger can be overridden, on purpose.
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// GetLogger returns the logger for this Context, or DefaultLogger when none
// was attached.
func GetLogger(ctx Context) logrus.FieldLogger {
	if logger, ok := ctx.Value(contextKeyLogger).(logrus.FieldLogger); ok {
		return logger
	}
	return DefaultLogger
}
