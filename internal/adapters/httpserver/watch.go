package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"booknstay/internal/adapters/observability"
	"booknstay/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// the SDK authenticates with a bearer token, not cookies
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
)

// watchHotels pushes the top-N hotel snapshot on connect and again after
// every change-feed tick. Snapshots are whole result sets; there is no
// diffing on the wire.
func (h *Handlers) watchHotels(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("hotels watch upgrade failed")
		return
	}

	snapshot := func(ctx context.Context) (any, error) {
		hs, err := h.Catalog.TopHotels(ctx, h.CatalogLimit)
		if err != nil {
			return nil, err
		}
		return hotelsResponse{Hotels: hs}, nil
	}
	h.serveWatch(r.Context(), conn, "hotels", domain.HotelsChannel, snapshot)
}

// watchBookings is the per-user variant; requireAuth has already resolved
// the user, and the feed channel is keyed by that user.
func (h *Handlers) watchBookings(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("bookings watch upgrade failed")
		return
	}

	snapshot := func(ctx context.Context) (any, error) {
		bs, err := h.Bookings.ListByUser(ctx, uid)
		if err != nil {
			return nil, err
		}
		return bookingsResponse{Bookings: bs}, nil
	}
	h.serveWatch(r.Context(), conn, "bookings", domain.BookingsChannel(uid), snapshot)
}

// serveWatch runs one watcher until the client goes away or the snapshot
// query fails. Updates are delivered in feed order; each push replaces
// the previous one wholesale.
func (h *Handlers) serveWatch(ctx context.Context, conn *websocket.Conn, collection, channel string, snapshot func(context.Context) (any, error)) {
	defer conn.Close()

	observability.WatcherConnected(collection)
	defer observability.WatcherDisconnected(collection)

	ticks, stop := h.Feed.Watch(ctx, channel)
	defer stop()

	// drain client frames so close/pong handling works; the client never
	// sends application data
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	push := func() bool {
		v, err := snapshot(ctx)
		if err != nil {
			log.Warn().Err(err).Str("collection", collection).Msg("snapshot query failed, closing watcher")
			return false
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(v); err != nil {
			return false
		}
		observability.ObserveSnapshot(collection)
		return true
	}

	if !push() {
		return
	}

	pings := time.NewTicker(pingInterval)
	defer pings.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-clientGone:
			return
		case _, ok := <-ticks:
			if !ok || !push() {
				return
			}
		case <-pings.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
