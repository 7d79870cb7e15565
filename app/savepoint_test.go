package app

import (
	"context"
	"testing"

	"github.com/dielemma/lifeline"
	"github.com/dielemma/lifeline/errors"
	"github.com/dielemma/lifeline/lifetest"
	"github.com/dielemma/lifeline/store"
	"github.com/stretchr/testify/assert"
)

// writeHandler writes a key before returning its configured error, so
// tests can observe whether a failing call left its write behind
type writeHandler struct {
	key   []byte
	value []byte
	err   error
}

func (h writeHandler) Check(ctx lifeline.Context, db lifeline.KVStore, tx lifeline.Tx) (*lifeline.CheckResult, error) {
	db.Set(h.key, h.value)
	if h.err != nil {
		return nil, h.err
	}
	return &lifeline.CheckResult{}, nil
}

func (h writeHandler) Deliver(ctx lifeline.Context, db lifeline.KVStore, tx lifeline.Tx) (*lifeline.DeliverResult, error) {
	db.Set(h.key, h.value)
	if h.err != nil {
		return nil, h.err
	}
	return &lifeline.DeliverResult{}, nil
}

func TestSavepoint(t *testing.T) {
	key := []byte{1, 2, 3}
	derr := errors.Wrap(errors.ErrState, "it failed")

	cases := map[string]struct {
		save      lifeline.Decorator
		handler   lifeline.Handler
		check     bool
		wantErr   error
		wantWrite bool
	}{
		"inactive savepoint keeps the failed write": {
			save:      NewSavepoint(),
			handler:   writeHandler{key: key, value: []byte{1}, err: derr},
			check:     true,
			wantErr:   derr,
			wantWrite: true,
		},
		"check failure discards the write": {
			save:      NewSavepoint().OnCheck(),
			handler:   writeHandler{key: key, value: []byte{1}, err: derr},
			check:     true,
			wantErr:   derr,
			wantWrite: false,
		},
		"deliver failure discards the write": {
			save:      NewSavepoint().OnDeliver(),
			handler:   writeHandler{key: key, value: []byte{1}, err: derr},
			wantErr:   derr,
			wantWrite: false,
		},
		"check savepoint does not shield deliver": {
			save:      NewSavepoint().OnCheck(),
			handler:   writeHandler{key: key, value: []byte{1}, err: derr},
			wantErr:   derr,
			wantWrite: true,
		},
		"success commits through the savepoint": {
			save:      NewSavepoint().OnCheck().OnDeliver(),
			handler:   writeHandler{key: key, value: []byte{1}},
			wantWrite: true,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			db := store.MemStore()
			h := ChainDecorators(tc.save).WithHandler(tc.handler)
			ctx := context.Background()

			var err error
			if tc.check {
				_, err = h.Check(ctx, db, &lifetest.Tx{})
			} else {
				_, err = h.Deliver(ctx, db, &lifetest.Tx{})
			}
			if tc.wantErr != nil {
				assert.Equal(t, tc.wantErr, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.wantWrite, db.Has(key))
		})
	}
}
