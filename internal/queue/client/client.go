package client

import (
	"sync"

	"github.com/hibiken/asynq"
)

var (
	globalClient *asynq.Client
	globalMu     sync.RWMutex
)

// GetClient returns the process wide queue client set with SetClient, or nil.
func GetClient() *asynq.Client {
	globalMu.RLock()
	defer globalMu.RUnlock()

	return globalClient
}

// SetClient installs client for GetClient and returns a function restoring
// the previous one.
func SetClient(client *asynq.Client) func() {
	globalMu.Lock()
	prev := globalClient
	globalClient = client
	globalMu.Unlock()

	return func() { SetClient(prev) }
}
