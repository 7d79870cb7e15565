package deposit

import (
	"github.com/dielemma/lifeline"
	"github.com/dielemma/lifeline/errors"
)

// isExpired reports whether the liveness window has elapsed.
//
// A timestamp in the future or before the configured floor is a hard
// error, never a liveness signal: a corrupted or adversarial timestamp
// could otherwise block legitimate claims forever, or allow premature
// ones. Expiry is inclusive at the boundary.
func isExpired(last lifeline.UnixTime, timeout lifeline.UnixDuration, now, floor lifeline.UnixTime) (bool, error) {
	if last > now {
		return false, errors.Wrapf(ErrInvalidTimestamp, "liveness %d is in the future (now %d)", last, now)
	}
	if last < floor {
		return false, errors.Wrapf(ErrInvalidTimestamp, "liveness %d precedes floor %d", last, floor)
	}
	return int64(now)-int64(last) >= int64(timeout), nil
}
