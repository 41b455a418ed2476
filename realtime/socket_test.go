package realtime

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type adminFeedStub struct {
	bookings any
	count    int64
}

func (f *adminFeedStub) ActiveBookings() (any, int64, error) { return f.bookings, f.count, nil }
func (f *adminFeedStub) ActiveCount() (int64, error)         { return f.count, nil }

type notificationFeedStub struct {
	mu          sync.Mutex
	unread      int64
	knownUsers  map[uint]bool
	markedUsers []uint
}

func (f *notificationFeedStub) UnreadCount(uint) (int64, error) { return f.unread, nil }

func (f *notificationFeedStub) MarkAllRead(userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markedUsers = append(f.markedUsers, userID)
	return nil
}

func (f *notificationFeedStub) UserExists(userID uint) (bool, error) {
	return f.knownUsers[userID], nil
}

func (f *notificationFeedStub) marked() []uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint(nil), f.markedUsers...)
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var frame map[string]any
	require.NoError(t, json.Unmarshal(data, &frame))
	return frame
}

func writeFrame(t *testing.T, conn *websocket.Conn, frame any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(frame))
}

func TestAdminSocketSnapshotOnConnect(t *testing.T) {
	hub := NewHub()
	feed := &adminFeedStub{bookings: []string{"a", "b"}, count: 2}
	srv := httptest.NewServer(NewAdminSocket(hub, feed))
	defer srv.Close()

	conn := dial(t, wsURL(srv))

	frame := readFrame(t, conn)
	assert.Equal(t, TypeBookingsDataUpdate, frame["type"])
	assert.Equal(t, float64(2), frame["count"])

	require.Eventually(t, func() bool {
		return hub.Members(GroupAdminNotifications) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestAdminSocketPullResync(t *testing.T) {
	hub := NewHub()
	feed := &adminFeedStub{bookings: []string{}, count: 5}
	srv := httptest.NewServer(NewAdminSocket(hub, feed))
	defer srv.Close()

	conn := dial(t, wsURL(srv))
	readFrame(t, conn) // connect snapshot

	writeFrame(t, conn, map[string]string{"type": TypeGetActiveCount})
	frame := readFrame(t, conn)
	assert.Equal(t, TypeActiveCountUpdate, frame["type"])
	assert.Equal(t, float64(5), frame["count"])

	writeFrame(t, conn, map[string]string{"type": TypeGetActiveBookings})
	frame = readFrame(t, conn)
	assert.Equal(t, TypeBookingsDataUpdate, frame["type"])
}

func TestAdminSocketHeartbeat(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(NewAdminSocket(hub, &adminFeedStub{}))
	defer srv.Close()

	conn := dial(t, wsURL(srv))
	readFrame(t, conn)

	writeFrame(t, conn, map[string]string{"type": TypeHeartbeat})
	frame := readFrame(t, conn)
	assert.Equal(t, TypeHeartbeatAck, frame["type"])
}

func TestAdminSocketIgnoresMalformedFrames(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(NewAdminSocket(hub, &adminFeedStub{}))
	defer srv.Close()

	conn := dial(t, wsURL(srv))
	readFrame(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json at all")))
	writeFrame(t, conn, map[string]string{"type": "make_coffee"})

	// The connection is still serving requests.
	writeFrame(t, conn, map[string]string{"type": TypeHeartbeat})
	frame := readFrame(t, conn)
	assert.Equal(t, TypeHeartbeatAck, frame["type"])
}

func TestAdminSocketReceivesBrokerPublishes(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(NewAdminSocket(hub, &adminFeedStub{}))
	defer srv.Close()

	conn := dial(t, wsURL(srv))
	readFrame(t, conn)

	require.Eventually(t, func() bool {
		return hub.Members(GroupAdminNotifications) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Publish(GroupAdminNotifications, NewActiveCountUpdate(7))
	frame := readFrame(t, conn)
	assert.Equal(t, TypeActiveCountUpdate, frame["type"])
	assert.Equal(t, float64(7), frame["count"])
}

func TestAdminSocketDisconnectLeavesGroup(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(NewAdminSocket(hub, &adminFeedStub{}))
	defer srv.Close()

	conn := dial(t, wsURL(srv))
	readFrame(t, conn)
	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		return hub.Members(GroupAdminNotifications) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestNotificationSocketAuthenticate(t *testing.T) {
	hub := NewHub()
	feed := &notificationFeedStub{unread: 3, knownUsers: map[uint]bool{42: true}}
	srv := httptest.NewServer(NewNotificationSocket(hub, feed, nil))
	defer srv.Close()

	conn := dial(t, wsURL(srv))

	writeFrame(t, conn, map[string]any{"type": TypeAuthenticate, "userId": 42})

	first := readFrame(t, conn)
	second := readFrame(t, conn)

	// Initial count is pushed on join, then the auth ack.
	assert.Equal(t, TypeInitialCount, first["type"])
	assert.Equal(t, float64(3), first["count"])
	assert.Equal(t, TypeAuthResponse, second["type"])
	assert.Equal(t, true, second["success"])

	require.Eventually(t, func() bool {
		return hub.Members(UserGroup(42)) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestNotificationSocketAuthenticateUnknownUser(t *testing.T) {
	hub := NewHub()
	feed := &notificationFeedStub{knownUsers: map[uint]bool{}}
	srv := httptest.NewServer(NewNotificationSocket(hub, feed, nil))
	defer srv.Close()

	conn := dial(t, wsURL(srv))

	writeFrame(t, conn, map[string]any{"type": TypeAuthenticate, "userId": 99})
	frame := readFrame(t, conn)
	assert.Equal(t, TypeAuthResponse, frame["type"])
	assert.Equal(t, false, frame["success"])
	assert.Equal(t, "Authentication failed", frame["message"])
	assert.Zero(t, hub.Members(UserGroup(99)))
}

func TestNotificationSocketAuthenticateMissingUserID(t *testing.T) {
	hub := NewHub()
	feed := &notificationFeedStub{knownUsers: map[uint]bool{}}
	srv := httptest.NewServer(NewNotificationSocket(hub, feed, nil))
	defer srv.Close()

	conn := dial(t, wsURL(srv))

	writeFrame(t, conn, map[string]string{"type": TypeAuthenticate})
	frame := readFrame(t, conn)
	assert.Equal(t, TypeAuthResponse, frame["type"])
	assert.Equal(t, false, frame["success"])
	assert.Equal(t, "No user ID provided", frame["message"])
}

func TestNotificationSocketTokenAuth(t *testing.T) {
	hub := NewHub()
	feed := &notificationFeedStub{unread: 1, knownUsers: map[uint]bool{7: true}}
	verify := func(token string) (uint, error) {
		if token == "good-token" {
			return 7, nil
		}
		return 0, errors.New("bad token")
	}
	srv := httptest.NewServer(NewNotificationSocket(hub, feed, verify))
	defer srv.Close()

	conn := dial(t, wsURL(srv)+"?token=good-token")

	frame := readFrame(t, conn)
	assert.Equal(t, TypeInitialCount, frame["type"])
	assert.Equal(t, float64(1), frame["count"])

	require.Eventually(t, func() bool {
		return hub.Members(UserGroup(7)) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestNotificationSocketMarkRead(t *testing.T) {
	hub := NewHub()
	feed := &notificationFeedStub{knownUsers: map[uint]bool{42: true}}
	srv := httptest.NewServer(NewNotificationSocket(hub, feed, nil))
	defer srv.Close()

	conn := dial(t, wsURL(srv))

	// Before authentication mark_read is ignored.
	writeFrame(t, conn, map[string]string{"type": TypeMarkRead})
	writeFrame(t, conn, map[string]any{"type": TypeAuthenticate, "userId": 42})
	readFrame(t, conn) // initial_count
	readFrame(t, conn) // auth_response

	writeFrame(t, conn, map[string]string{"type": TypeMarkRead})

	require.Eventually(t, func() bool {
		return len(feed.marked()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []uint{42}, feed.marked())
}

func TestNotificationSocketReceivesUserGroupPublishes(t *testing.T) {
	hub := NewHub()
	feed := &notificationFeedStub{knownUsers: map[uint]bool{42: true}}
	srv := httptest.NewServer(NewNotificationSocket(hub, feed, nil))
	defer srv.Close()

	conn := dial(t, wsURL(srv))
	writeFrame(t, conn, map[string]any{"type": TypeAuthenticate, "userId": 42})
	readFrame(t, conn)
	readFrame(t, conn)

	hub.Publish(UserGroup(42), NewUnreadUpdate(4))
	frame := readFrame(t, conn)
	assert.Equal(t, TypeUnreadUpdate, frame["type"])
	assert.Equal(t, float64(4), frame["count"])
}

func TestNotificationSocketHeartbeatWithoutAuth(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(NewNotificationSocket(hub, &notificationFeedStub{}, nil))
	defer srv.Close()

	conn := dial(t, wsURL(srv))
	writeFrame(t, conn, map[string]string{"type": TypeHeartbeat})
	frame := readFrame(t, conn)
	assert.Equal(t, TypeHeartbeatAck, frame["type"])
}
