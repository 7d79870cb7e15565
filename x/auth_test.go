package x

import (
	"context"
	"testing"

	"github.com/dielemma/lifeline"
	"github.com/dielemma/lifeline/lifetest"
	"github.com/stretchr/testify/assert"
)

func TestAuth(t *testing.T) {
	a := lifetest.NewCondition()
	b := lifetest.NewCondition()
	c := lifetest.NewCondition()

	ctx1 := &lifetest.CtxAuth{Key: "foo"}
	ctx2 := &lifetest.CtxAuth{Key: "bar"}

	cases := map[string]struct {
		ctx          lifeline.Context
		auth         Authenticator
		mainSigner   lifeline.Condition
		wantInCtx    lifeline.Condition
		wantNotInCtx lifeline.Condition
		wantAll      []lifeline.Condition
	}{
		"empty context": {
			ctx:          context.Background(),
			auth:         &lifetest.Auth{},
			wantNotInCtx: b,
		},
		"signer a": {
			ctx:          context.Background(),
			auth:         &lifetest.Auth{Signer: a},
			mainSigner:   a,
			wantInCtx:    a,
			wantNotInCtx: b,
			wantAll:      []lifeline.Condition{a},
		},
		"chained authenticators keep order": {
			ctx: context.Background(),
			auth: ChainAuth(
				&lifetest.Auth{Signer: b},
				&lifetest.Auth{Signer: a}),
			mainSigner:   b,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []lifeline.Condition{b, a},
		},
		"ctxAuth checks what is set by same key": {
			ctx:          ctx1.SetConditions(context.Background(), a, b),
			auth:         ctx1,
			mainSigner:   a,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []lifeline.Condition{a, b},
		},
		"ctxAuth with different key sees nothing": {
			ctx:          ctx1.SetConditions(context.Background(), a, b),
			auth:         ctx2,
			wantNotInCtx: a,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.mainSigner, MainSigner(tc.ctx, tc.auth))
			if tc.wantInCtx != nil {
				assert.True(t, tc.auth.HasAddress(tc.ctx, tc.wantInCtx.Address()))
			}
			if tc.wantNotInCtx != nil {
				assert.False(t, tc.auth.HasAddress(tc.ctx, tc.wantNotInCtx.Address()))
			}

			all := tc.auth.GetConditions(tc.ctx)
			assert.Equal(t, tc.wantAll, all)

			addrs := GetAddresses(tc.ctx, tc.auth)
			assert.Equal(t, len(all), len(addrs))
			for i, cond := range all {
				assert.Equal(t, cond.Address(), addrs[i])
			}

			assert.True(t, HasAllAddresses(tc.ctx, tc.auth, addrs))
			assert.False(t, HasAllAddresses(tc.ctx, tc.auth, append(addrs, tc.wantNotInCtx.Address())))
		})
	}
}
