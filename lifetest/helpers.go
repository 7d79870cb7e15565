package lifetest

import (
	"crypto/rand"
	"fmt"

	"github.com/dielemma/lifeline"
)

// NewCondition returns a unique condition with a random payload, for
// tests that need an identity but do not care about its key
func NewCondition() lifeline.Condition {
	data := make([]byte, 32)
	if _, err := rand.Read(data); err != nil {
		panic(fmt.Sprintf("cannot read random data: %+v", err))
	}
	return lifeline.NewCondition("test", "random", data)
}
