package deposit

import (
	"encoding/json"

	"github.com/dielemma/lifeline"
	"github.com/dielemma/lifeline/errors"
)

// configKey is where the deposit configuration is persisted
var configKey = []byte("_c:deposit")

// Config holds the stateful bounds enforced by the handlers. It is
// stored once at genesis and loaded on every operation.
type Config struct {
	// MinTimeout and MaxTimeout bound the liveness window at Open
	MinTimeout lifeline.UnixDuration `json:"min_timeout"`
	MaxTimeout lifeline.UnixDuration `json:"max_timeout"`
	// MinValidTime is the earliest plausible liveness timestamp.
	// Anything older is treated as corrupted state.
	MinValidTime lifeline.UnixTime `json:"min_valid_time"`
	// StorageReserve is charged in the escrowed asset from the funding
	// account onto the record address at Open, and refunded at
	// Teardown. Zero disables the reserve.
	StorageReserve uint64 `json:"storage_reserve"`
}

// DefaultConfig uses a one minute floor, a ten year ceiling and no
// storage reserve
func DefaultConfig() Config {
	return Config{
		MinTimeout:     60,
		MaxTimeout:     315360000,
		MinValidTime:   1598000000,
		StorageReserve: 0,
	}
}

// Validate ensures the bounds are usable
func (c Config) Validate() error {
	if c.MinTimeout <= 0 {
		return errors.Wrap(ErrInvalidTimeout, "min timeout must be positive")
	}
	if c.MaxTimeout < c.MinTimeout {
		return errors.Wrap(ErrInvalidTimeout, "max timeout below min")
	}
	if c.MinValidTime <= 0 {
		return errors.Wrap(ErrInvalidTimestamp, "min valid time must be positive")
	}
	return nil
}

// loadConfig returns the stored configuration, or the default if none
// was initialized
func loadConfig(db lifeline.ReadOnlyKVStore) (Config, error) {
	bz := db.Get(configKey)
	if bz == nil {
		return DefaultConfig(), nil
	}
	var c Config
	if err := json.Unmarshal(bz, &c); err != nil {
		return c, errors.Wrap(errors.ErrState, "cannot parse stored config")
	}
	return c, nil
}

// saveConfig persists the configuration, if it validates
func saveConfig(db lifeline.KVStore, c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	bz, err := json.Marshal(c)
	if err != nil {
		return err
	}
	db.Set(configKey, bz)
	return nil
}

// Initializer fulfils the lifeline.Initializer interface to load the
// deposit configuration from genesis options
type Initializer struct{}

var _ lifeline.Initializer = Initializer{}

// FromGenesis stores the configuration found under the "deposit" key.
// A missing key keeps the defaults.
func (Initializer) FromGenesis(opts lifeline.Options, db lifeline.KVStore) error {
	conf := DefaultConfig()
	if err := opts.ReadOptions("deposit", &conf); err != nil {
		return errors.Wrap(err, "read deposit genesis")
	}
	return saveConfig(db, conf)
}
