package lifetest

import (
	"github.com/dielemma/lifeline"
)

// Tx is a mock implementing lifeline.Tx interface, carrying a single
// message
type Tx struct {
	// Msg is the message held by this transaction
	Msg lifeline.Msg
	// Err if set is returned by all method calls
	Err error
}

var _ lifeline.Tx = (*Tx)(nil)

// GetMsg returns the wrapped message or the set error
func (tx *Tx) GetMsg() (lifeline.Msg, error) {
	if tx.Err != nil {
		return nil, tx.Err
	}
	return tx.Msg, nil
}

// Marshal serializes the wrapped message
func (tx *Tx) Marshal() ([]byte, error) {
	if tx.Err != nil {
		return nil, tx.Err
	}
	return tx.Msg.Marshal()
}

// Unmarshal is not supported on the mock and returns the set error
func (tx *Tx) Unmarshal([]byte) error {
	return tx.Err
}
