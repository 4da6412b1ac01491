package testutil

import (
	"context"
	"sync"

	"github.com/caseclub-lab/backend/internal/model"
)

// MockBroadcaster records spins pushed to the live feed.
type MockBroadcaster struct {
	mutex sync.Mutex
	spins []model.Spin
}

func (m *MockBroadcaster) Broadcast(ctx context.Context, spin model.Spin) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.spins = append(m.spins, spin)
}

func (m *MockBroadcaster) Spins() []model.Spin {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([]model.Spin{}, m.spins...)
}
