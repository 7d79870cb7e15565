package deposit

import (
	"testing"

	"github.com/dielemma/lifeline"
	"github.com/dielemma/lifeline/errors"
	"github.com/dielemma/lifeline/lifetest/assert"
)

func TestIsExpired(t *testing.T) {
	const floor lifeline.UnixTime = 1598000000
	base := floor + 1000000

	cases := map[string]struct {
		last    lifeline.UnixTime
		timeout lifeline.UnixDuration
		now     lifeline.UnixTime
		expired bool
		wantErr *errors.Error
	}{
		"not yet expired": {
			last: base, timeout: 3600, now: base + 3599,
			expired: false,
		},
		"expired exactly at the boundary": {
			last: base, timeout: 3600, now: base + 3600,
			expired: true,
		},
		"expired after the boundary": {
			last: base, timeout: 60, now: base + 61,
			expired: true,
		},
		"future timestamp is a hard error": {
			last: base + 1, timeout: 60, now: base,
			wantErr: ErrInvalidTimestamp,
		},
		"timestamp before the floor is a hard error": {
			last: floor - 1, timeout: 60, now: base,
			wantErr: ErrInvalidTimestamp,
		},
		"timestamp at the floor is valid": {
			last: floor, timeout: 60, now: base,
			expired: true,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			expired, err := isExpired(tc.last, tc.timeout, tc.now, floor)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.expired, expired)
		})
	}
}
