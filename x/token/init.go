package token

import (
	"github.com/dielemma/lifeline"
	"github.com/dielemma/lifeline/errors"
)

// Initializer fulfils the lifeline.Initializer interface to load
// token accounts from genesis options
type Initializer struct{}

var _ lifeline.Initializer = Initializer{}

// genesisAccount is the declaration of one account in the genesis file
type genesisAccount struct {
	Address lifeline.Address `json:"address"`
	Owner   lifeline.Address `json:"owner"`
	Asset   AssetID          `json:"asset"`
	Balance uint64           `json:"balance"`
}

// FromGenesis initializes the accounts stored under the "token" key
func (Initializer) FromGenesis(opts lifeline.Options, db lifeline.KVStore) error {
	var accounts []genesisAccount
	if err := opts.ReadOptions("token", &accounts); err != nil {
		return errors.Wrap(err, "read token genesis")
	}

	bucket := NewBucket()
	for i, ga := range accounts {
		acct := &Account{
			Owner:   ga.Owner,
			Asset:   []byte(ga.Asset),
			Balance: ga.Balance,
		}
		if err := ga.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account #%d address", i)
		}
		if err := bucket.Save(db, ga.Address, acct); err != nil {
			return errors.Wrapf(err, "save account #%d", i)
		}
	}
	return nil
}
