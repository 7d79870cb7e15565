package app

import (
	"time"

	"github.com/dielemma/lifeline"
	"github.com/dielemma/lifeline/errors"
	"github.com/sirupsen/logrus"
)

// Logging is a decorator that logs every request with its path,
// duration and outcome
type Logging struct{}

var _ lifeline.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> info, success -> debug
func (l Logging) Check(ctx lifeline.Context, store lifeline.KVStore, tx lifeline.Tx, next lifeline.Checker) (*lifeline.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	l.log("check", ctx, tx, start, err)
	return res, err
}

// Deliver logs error -> info, success -> debug
func (l Logging) Deliver(ctx lifeline.Context, store lifeline.KVStore, tx lifeline.Tx, next lifeline.Deliverer) (*lifeline.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	l.log("deliver", ctx, tx, start, err)
	return res, err
}

func (l Logging) log(mode string, ctx lifeline.Context, tx lifeline.Tx, start time.Time, err error) {
	logger := lifeline.GetLogger(ctx).WithFields(logrus.Fields{
		"mode":     mode,
		"path":     lifeline.GetPath(tx),
		"duration": time.Since(start),
	})
	if err != nil {
		logger.WithField("code", errors.Code(err)).WithError(err).Info("tx failed")
	} else {
		logger.Debug("tx ok")
	}
}
