package websocket

import "github.com/rs/zerolog/log"

type delivery struct {
	userID  string
	client  *Client // when set, only this client receives the message
	message []byte
}

// Hub maintains the set of active clients and routes messages to the
// clients of a single user. All map access happens on the Run goroutine.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Messages addressed to one user.
	deliver chan delivery

	// A map of user IDs to the set of their connected clients.
	subscriptions map[string]map[*Client]bool

	quit chan struct{}
	done chan struct{}
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		deliver:       make(chan delivery, 64),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
		quit:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Run starts the Hub's message processing loop. It returns after Stop.
func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			h.addSubscription(client)
			log.Info().Str("user_id", client.UserID).Int("total_clients", len(h.clients)).Msg("Client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				log.Info().Str("user_id", client.UserID).Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case d := <-h.deliver:
			if d.client != nil {
				if h.clients[d.client] {
					h.send(d.client, d.message)
				}
				continue
			}
			for client := range h.subscriptions[d.userID] {
				h.send(client, d.message)
			}
		case <-h.quit:
			for client := range h.clients {
				h.drop(client)
			}
			return
		}
	}
}

// Stop closes every client and ends Run.
func (h *Hub) Stop() {
	select {
	case <-h.quit:
	default:
		close(h.quit)
	}
	<-h.done
}

// BroadcastTo queues a message for every client of userID. It is safe to
// call from any goroutine and never blocks on a slow client.
func (h *Hub) BroadcastTo(userID string, message []byte) {
	select {
	case h.deliver <- delivery{userID: userID, message: message}:
	case <-h.quit:
	}
}

// SendTo queues a message for a single client.
func (h *Hub) SendTo(client *Client, message []byte) {
	select {
	case h.deliver <- delivery{userID: client.UserID, client: client, message: message}:
	case <-h.quit:
	}
}

// NotifyUser sends an action and payload to every connection of userID.
func (h *Hub) NotifyUser(userID, action string, payload interface{}) {
	h.BroadcastTo(userID, NewMessage(action, payload))
}

func (h *Hub) send(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		// Slow consumer.
		h.drop(client)
	}
}

// Connect registers client with the hub. It reports false, without
// blocking, once the hub has been stopped.
func (h *Hub) Connect(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.quit:
		return false
	}
}

func (h *Hub) unregister(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.quit:
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	h.removeSubscription(client)
	close(client.Send)
}

func (h *Hub) addSubscription(client *Client) {
	if h.subscriptions[client.UserID] == nil {
		h.subscriptions[client.UserID] = make(map[*Client]bool)
	}
	h.subscriptions[client.UserID][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	if subs, ok := h.subscriptions[client.UserID]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.subscriptions, client.UserID)
		}
	}
}
