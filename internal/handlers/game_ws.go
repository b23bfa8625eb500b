package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"

	"github.com/Subas2/SIANG-TAMBOLA/internal/events"
	"github.com/Subas2/SIANG-TAMBOLA/internal/middleware"
	"github.com/Subas2/SIANG-TAMBOLA/internal/models"
)

// BadSubprotocolError is sent when the client negotiates the wrong subprotocol.
const BadSubprotocolError websocket.StatusCode = 4001

type wsSnapshot struct {
	Type string       `json:"type"`
	Game *models.Game `json:"game"`
}

// GameWSHandler streams a game's live events (draws, seat sales, claim
// results) to one websocket subscriber. The first frame is a snapshot of the
// current game record so a late joiner can paint the board before events
// start flowing.
func (s *Server) GameWSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, err := gameIDParam(r)
		if err != nil {
			writeError(w, err)
			return
		}
		if _, err := sessionFrom(r); err != nil {
			writeError(w, err)
			return
		}
		g, err := s.Games.Get(r.Context(), gameID)
		if err != nil {
			writeError(w, err)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"tambola"},
			OriginPatterns: []string{"*"}, // Adjust in production
		})
		if err != nil {
			s.Logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != "tambola" {
			c.Close(BadSubprotocolError, "client must speak the tambola subprotocol")
			return
		}

		middleware.LogWebSocketConnect(s.Logger, r.RemoteAddr, r.URL.Path)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		if err := writeFrame(ctx, c, wsSnapshot{Type: "snapshot", Game: g}); err != nil {
			middleware.LogWebSocketDisconnect(s.Logger, r.RemoteAddr, r.URL.Path, err)
			return
		}

		sub := s.Broadcaster.Subscribe(gameID)
		defer s.Broadcaster.Unsubscribe(sub)

		// Drain client frames so pings and close handshakes are processed;
		// this stream is otherwise server-to-client only.
		go func() {
			defer cancel()
			for {
				if _, _, err := c.Read(ctx); err != nil {
					return
				}
			}
		}()

		err = writePump(ctx, c, sub)
		middleware.LogWebSocketDisconnect(s.Logger, r.RemoteAddr, r.URL.Path, err)
		c.Close(websocket.StatusNormalClosure, "stream closed")
	}
}

// writePump forwards broadcast events until the subscription or the
// connection dies.
func writePump(ctx context.Context, c *websocket.Conn, sub *events.Subscription) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-sub.Out:
			if !ok {
				return nil
			}
			if err := writeFrame(ctx, c, ev); err != nil {
				return err
			}
		}
	}
}

func writeFrame(ctx context.Context, c *websocket.Conn, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Write(ctx, websocket.MessageText, data)
}
