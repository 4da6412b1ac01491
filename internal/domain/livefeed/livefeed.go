// Package livefeed pushes every successful draw to connected browsers. It is
// a notify-only side channel: broadcast failures never fail the draw.
package livefeed

import (
	"context"
	"encoding/json"

	"github.com/caseclub-lab/backend/internal/model"
	"github.com/caseclub-lab/backend/pkg/logger"
	"github.com/caseclub-lab/backend/pkg/ws"
	"github.com/caseclub-lab/backend/pkg/xredis"
)

const Channel = "spins:feed"

type Broadcaster interface {
	Broadcast(ctx context.Context, spin model.Spin)
}

type feed struct {
	hub    *ws.Hub
	redis  xredis.Client
	logger logger.Logger
}

// New builds the feed. The redis client may be nil, in which case broadcasts
// only reach clients of this process.
func New(hub *ws.Hub, redis xredis.Client, logger logger.Logger) *feed {
	return &feed{hub: hub, redis: redis, logger: logger}
}

func (f *feed) Broadcast(ctx context.Context, spin model.Spin) {
	b, err := json.Marshal(spin)
	if err != nil {
		f.logger.Errorf("Cannot marshal the spin for live feed: %v", err)
		return
	}

	if f.redis == nil {
		f.hub.BroadcastByChannel(Channel, b)
		return
	}

	if err := f.redis.Publish(ctx, Channel, string(b)); err != nil {
		f.logger.Warnf("Cannot publish spin to live feed: %v", err)
		f.hub.BroadcastByChannel(Channel, b)
	}
}

// Run relays the shared redis feed into the local websocket hub so every API
// instance shows the same stream. It blocks until the context ends.
func (f *feed) Run(ctx context.Context) {
	if f.redis == nil {
		return
	}

	for payload := range f.redis.Subscribe(ctx, Channel) {
		f.hub.BroadcastByChannel(Channel, []byte(payload))
	}
}
