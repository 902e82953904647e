package auth

import (
	"crypto/rsa"
	"sync"
	"time"
)

// Middleware resolves the actor for each request and stores it in the request
// context. It rejects nothing itself: requests with no usable credential
// continue unauthenticated, and denial is left to the guards downstream.
type Middleware struct {
	httpClient HTTPDoer
	adminRole  string
	devBypass  bool

	// Assertion verification
	assertCookieName string
	assertKeyURL     string
	assertKeyKID     string
	assertIssuer     string
	assertAudience   string
	assertLeeway     time.Duration

	// guarded by mu
	mu         sync.RWMutex
	assertKey  *rsa.PublicKey
	assertETag string
	cacheTTL   time.Duration
	lastFetch  time.Time
}
