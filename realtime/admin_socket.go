package realtime

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

// AdminFeed supplies the backing aggregate queries for the admin socket.
type AdminFeed interface {
	ActiveBookings() (any, int64, error)
	ActiveCount() (int64, error)
}

// AdminSocket serves the admin_notifications channel. Every connection joins
// the group on connect, receives a full snapshot immediately, and can pull a
// fresh count or list on demand. Pushed updates arrive through the broker.
type AdminSocket struct {
	Broker   Broker
	Feed     AdminFeed
	upgrader websocket.Upgrader
}

func NewAdminSocket(broker Broker, feed AdminFeed) *AdminSocket {
	return &AdminSocket{
		Broker: broker,
		Feed:   feed,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (s *AdminSocket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("realtime: admin upgrade failed: %v", err)
		return
	}
	client := newClient(conn)
	s.Broker.Join(GroupAdminNotifications, client)

	go client.writePump()
	s.sendSnapshot(client)
	client.readPump(
		func(data []byte) { s.handleFrame(client, data) },
		func() { s.Broker.Leave(GroupAdminNotifications, client) },
	)
}

func (s *AdminSocket) sendSnapshot(client *Client) {
	bookings, count, err := s.Feed.ActiveBookings()
	if err != nil {
		log.Printf("realtime: admin snapshot failed: %v", err)
		return
	}
	client.Send(NewBookingsDataUpdate(count, bookings))
}

// handleFrame answers the pull-based resync requests. Malformed or unknown
// frames are logged and ignored; the connection stays open.
func (s *AdminSocket) handleFrame(client *Client, data []byte) {
	var frame InboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		log.Printf("realtime: admin frame not JSON: %s", data)
		return
	}
	switch frame.Type {
	case TypeGetActiveBookings:
		s.sendSnapshot(client)
	case TypeGetActiveCount:
		count, err := s.Feed.ActiveCount()
		if err != nil {
			log.Printf("realtime: active count failed: %v", err)
			return
		}
		client.Send(NewActiveCountUpdate(count))
	case TypeHeartbeat:
		client.Send(HeartbeatAck{Type: TypeHeartbeatAck})
	default:
		log.Printf("realtime: admin frame with unknown type %q ignored", frame.Type)
	}
}
