package deposit

import (
	"encoding/json"
	"testing"

	"github.com/dielemma/lifeline"
	"github.com/dielemma/lifeline/lifetest/assert"
	"github.com/dielemma/lifeline/store"
)

func TestLoadConfigDefaults(t *testing.T) {
	db := store.MemStore()

	conf, err := loadConfig(db)
	assert.Nil(t, err)
	assert.Equal(t, DefaultConfig(), conf)
	assert.Nil(t, conf.Validate())
}

func TestConfigFromGenesis(t *testing.T) {
	db := store.MemStore()
	opts := lifeline.Options{
		"deposit": json.RawMessage(`{
			"min_timeout": 120,
			"max_timeout": 3600,
			"min_valid_time": 1598000000,
			"storage_reserve": 10
		}`),
	}
	assert.Nil(t, Initializer{}.FromGenesis(opts, db))

	conf, err := loadConfig(db)
	assert.Nil(t, err)
	assert.Equal(t, lifeline.UnixDuration(120), conf.MinTimeout)
	assert.Equal(t, lifeline.UnixDuration(3600), conf.MaxTimeout)
	assert.Equal(t, uint64(10), conf.StorageReserve)
}

func TestConfigPartialGenesisKeepsDefaults(t *testing.T) {
	db := store.MemStore()
	opts := lifeline.Options{
		"deposit": json.RawMessage(`{"storage_reserve": 7}`),
	}
	assert.Nil(t, Initializer{}.FromGenesis(opts, db))

	conf, err := loadConfig(db)
	assert.Nil(t, err)
	assert.Equal(t, DefaultConfig().MinTimeout, conf.MinTimeout)
	assert.Equal(t, uint64(7), conf.StorageReserve)
}

func TestConfigValidation(t *testing.T) {
	db := store.MemStore()

	opts := lifeline.Options{
		"deposit": json.RawMessage(`{"min_timeout": 100, "max_timeout": 50}`),
	}
	err := Initializer{}.FromGenesis(opts, db)
	assert.IsErr(t, ErrInvalidTimeout, err)

	opts = lifeline.Options{
		"deposit": json.RawMessage(`{"min_valid_time": 0}`),
	}
	err = Initializer{}.FromGenesis(opts, db)
	assert.IsErr(t, ErrInvalidTimestamp, err)
}
