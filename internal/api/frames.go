package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/san-kum/molview/internal/render"
	"github.com/san-kum/molview/internal/viewer"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const maxFrameFPS = 60

// frameMessage is one rendered frame sent over the socket.
type frameMessage struct {
	Stream string `json:"stream"`
	Seq    int    `json:"seq"`
	SVG    string `json:"svg,omitempty"`
	Error  string `json:"error,omitempty"`
}

// handleFrames streams the rotating molecule as SVG documents until the
// client disconnects.
func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request) {
	source, err := s.resolveSource(r.URL.Query().Get("source"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	fps := s.cfg.FrameFPS
	if v := r.URL.Query().Get("fps"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxFrameFPS {
			writeError(w, http.StatusBadRequest, "fps must be between 1 and 60")
			return
		}
		fps = n
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	stream := uuid.NewString()
	log := s.logger.With("stream", stream, "source", source)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The read loop only watches for the client going away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn("websocket read", "error", err)
				}
				return
			}
		}
	}()

	svg := render.NewSVG(s.cfg.FrameWidth, s.cfg.FrameHeight)
	vc := viewer.NewContext(svg, nil, s.open, s.params)
	vc.Resize(s.cfg.FrameWidth, s.cfg.FrameHeight)
	if err := vc.Load(ctx, source); err != nil {
		conn.WriteJSON(frameMessage{Stream: stream, Error: "Failed to load structure."})
		return
	}
	log.Info("streaming frames", "fps", fps)

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	for seq := 0; ; seq++ {
		if err := vc.Frame(time.Now()); err != nil {
			log.Error("frame", "error", err)
			return
		}
		if err := conn.WriteJSON(frameMessage{Stream: stream, Seq: seq, SVG: svg.String()}); err != nil {
			log.Debug("stream closed", "frames", seq, "error", err)
			return
		}
		select {
		case <-ctx.Done():
			log.Debug("stream closed", "frames", seq+1)
			return
		case <-ticker.C:
		}
	}
}
