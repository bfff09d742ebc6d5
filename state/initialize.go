package state

import (
	"time"

	"github.com/google/uuid"

	"scopec/scope"
)

// newLocalEnv creates a new LocalEnv instance with default values.
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start:   time.Now(),
		Scopes:  scope.NewRegistry(),
		BuildID: uuid.New(),
	}
}
