package realtime

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

// NotificationFeed supplies the per-user queries for the notification socket.
type NotificationFeed interface {
	UnreadCount(userID uint) (int64, error)
	MarkAllRead(userID uint) error
	UserExists(userID uint) (bool, error)
}

// TokenVerifier resolves a connection token to a user id, for clients that
// authenticate via the query string instead of an authenticate frame.
type TokenVerifier func(token string) (uint, error)

// NotificationSocket serves the per-user notifications_{id} channel. An
// unauthenticated connection is accepted but inert until an authenticate
// frame supplies a user id; group membership and the initial unread count
// push happen once the principal is known.
type NotificationSocket struct {
	Broker   Broker
	Feed     NotificationFeed
	Verify   TokenVerifier
	upgrader websocket.Upgrader
}

func NewNotificationSocket(broker Broker, feed NotificationFeed, verify TokenVerifier) *NotificationSocket {
	return &NotificationSocket{
		Broker: broker,
		Feed:   feed,
		Verify: verify,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// session is the per-connection state; handlers run on the read pump
// goroutine, so no locking is needed.
type session struct {
	client *Client
	userID uint
	joined bool
}

func (s *NotificationSocket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("realtime: notification upgrade failed: %v", err)
		return
	}
	sess := &session{client: newClient(conn)}
	go sess.client.writePump()

	if token := r.URL.Query().Get("token"); token != "" && s.Verify != nil {
		if userID, err := s.Verify(token); err == nil {
			s.setupGroup(sess, userID)
		} else {
			log.Printf("realtime: connection token rejected: %v", err)
		}
	}

	sess.client.readPump(
		func(data []byte) { s.handleFrame(sess, data) },
		func() {
			if sess.joined {
				s.Broker.Leave(UserGroup(sess.userID), sess.client)
			}
		},
	)
}

func (s *NotificationSocket) handleFrame(sess *session, data []byte) {
	var frame InboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		log.Printf("realtime: notification frame not JSON: %s", data)
		return
	}
	switch frame.Type {
	case TypeAuthenticate:
		s.authenticate(sess, frame.UserID)
	case TypeMarkRead:
		if !sess.joined {
			return
		}
		// The feed republishes the zeroed unread count to the user's group,
		// which this connection is a member of.
		if err := s.Feed.MarkAllRead(sess.userID); err != nil {
			log.Printf("realtime: mark read failed for user %d: %v", sess.userID, err)
		}
	case TypeHeartbeat:
		sess.client.Send(HeartbeatAck{Type: TypeHeartbeatAck})
	default:
		log.Printf("realtime: notification frame with unknown type %q ignored", frame.Type)
	}
}

func (s *NotificationSocket) authenticate(sess *session, userID uint) {
	if userID == 0 {
		sess.client.Send(AuthResponse{Type: TypeAuthResponse, Success: false, Message: "No user ID provided"})
		return
	}
	ok, err := s.Feed.UserExists(userID)
	if err != nil || !ok {
		sess.client.Send(AuthResponse{Type: TypeAuthResponse, Success: false, Message: "Authentication failed"})
		return
	}
	s.setupGroup(sess, userID)
	sess.client.Send(AuthResponse{Type: TypeAuthResponse, Success: true})
}

// setupGroup joins the user's group and pushes the initial unread count. The
// first frame is deliberately minimal; the full notification list is pulled
// over HTTP.
func (s *NotificationSocket) setupGroup(sess *session, userID uint) {
	if sess.joined {
		s.Broker.Leave(UserGroup(sess.userID), sess.client)
	}
	sess.userID = userID
	sess.joined = true
	s.Broker.Join(UserGroup(userID), sess.client)

	count, err := s.Feed.UnreadCount(userID)
	if err != nil {
		log.Printf("realtime: initial count failed for user %d: %v", userID, err)
		return
	}
	sess.client.Send(InitialCount{Type: TypeInitialCount, Count: count})
}
