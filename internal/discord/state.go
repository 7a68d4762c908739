package discord

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StateTTL bounds how long a user may take between the authorize redirect and
// the callback.
const StateTTL = 10 * time.Minute

const statePrefix = "oauth_state:"

// StateStore keeps one-shot OAuth state values. Take must delete the value it
// returns so a state cannot be replayed.
type StateStore interface {
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	Take(ctx context.Context, key string) (string, error)
}

func newState() string {
	return uuid.NewString()
}

func stateKey(state string) string {
	return statePrefix + state
}
