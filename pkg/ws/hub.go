package ws

// Hub maintains the set of active clients of a channel and broadcasts
// messages to them.

type clients map[*Client]bool

type broadcastMsg struct {
	channel string
	payload []byte
}

type Hub struct {
	// Only the Run goroutine touches these maps.
	clients  clients
	channels map[string]clients

	broadcast  chan broadcastMsg
	register   chan *Client
	unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan broadcastMsg),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		channels:   make(map[string]clients),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			if _, ok := h.channels[client.channel]; !ok {
				h.channels[client.channel] = make(clients)
			}
			h.channels[client.channel][client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.disconnect(client)
			}
		case msg := <-h.broadcast:
			for client := range h.channels[msg.channel] {
				select {
				case client.send <- msg.payload:
				default:
					h.disconnect(client)
				}
			}
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) disconnect(client *Client) {
	delete(h.clients, client)
	delete(h.channels[client.channel], client)
	close(client.send)
}

// BroadcastByChannel delivers the message to every client of the channel.
// Clients whose send buffer is full are dropped rather than blocking the
// feed.
func (h *Hub) BroadcastByChannel(channel string, payload []byte) {
	h.broadcast <- broadcastMsg{channel: channel, payload: payload}
}
