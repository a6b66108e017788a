package handler

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/sprtutor/examportal/internal/exam"
	"github.com/sprtutor/examportal/internal/service"
	ws "github.com/sprtutor/examportal/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allow-list permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams the exam countdown and accepts in-exam actions over a
// single WebSocket, replacing REST polling for clients that keep the
// connection open.
type WSHandler struct {
	examService *service.ExamService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(examService *service.ExamService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		examService: examService,
		log:         log.With().Str("component", "ws_handler").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
	}
}

// wsConn serializes writes: the tick pusher and the action loop both write
// to the same connection.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsConn) write(v interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return ws.WriteTyped(w.conn, v)
}

// ExamStream godoc
// WS /ws/v1/exam/sessions/:session_id/stream
// Pushes a tick event every second while the session runs, a single
// submitted event when it ends, and handles answer/navigate/submit actions
// inline.
func (h *WSHandler) ExamStream(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}

	sess, err := h.examService.GetSession(sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("session_id", sessionID.String()).Logger()
	wsLog.Info().Msg("Client connected")

	wc := &wsConn{conn: conn}
	done := make(chan struct{})

	go h.pushTicks(wc, sess, done, wsLog)
	h.readActions(wc, sess, wsLog)

	close(done)
	wsLog.Debug().Msg("Client disconnected")
}

// pushTicks sends the countdown once per second until the session leaves
// Active or the connection goes away.
func (h *WSHandler) pushTicks(wc *wsConn, sess *exam.Session, done <-chan struct{}, log zerolog.Logger) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			snap := sess.Snapshot()

			if snap.Status != exam.StatusActive {
				if err := wc.write(ws.SubmittedEvent{
					Event:    ws.EventSubmitted,
					Answered: len(snap.Answers),
				}); err != nil {
					log.Debug().Err(err).Msg("Submitted push failed")
				}
				return
			}

			if err := wc.write(ws.TickEvent{
				Event:    ws.EventTick,
				TimeLeft: snap.TimeLeft,
			}); err != nil {
				return
			}
		}
	}
}

// readActions processes client actions until the connection closes.
func (h *WSHandler) readActions(wc *wsConn, sess *exam.Session, log zerolog.Logger) {
	for {
		var msg ws.RequestPayload
		if err := ws.ReadJSON(wc.conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}

		switch msg.Action {
		case ws.ActionPing:
			wc.write(ws.PongResponse{Event: ws.EventPong})

		case ws.ActionAnswer:
			if msg.OptionIndex < 0 || msg.OptionIndex > 3 {
				h.writeError(wc, "option_index out of range")
				continue
			}
			if err := sess.SelectAnswer(msg.OptionIndex); err != nil {
				h.writeError(wc, err.Error())
				continue
			}
			h.writeState(wc, sess)

		case ws.ActionNavigate:
			var err error
			switch msg.NavOp {
			case "next":
				err = sess.Next()
			case "previous":
				err = sess.Previous()
			case "first":
				err = sess.First()
			case "last":
				err = sess.Last()
			case "goto":
				err = sess.GoTo(msg.Index)
			default:
				h.writeError(wc, "unknown nav_op: "+msg.NavOp)
				continue
			}
			if err != nil {
				h.writeError(wc, err.Error())
				continue
			}
			h.writeState(wc, sess)

		case ws.ActionSubmit:
			if err := sess.Submit(); err != nil {
				h.writeError(wc, err.Error())
				continue
			}
			// The tick pusher observes the terminal state and sends the
			// submitted event so it goes out exactly once.

		default:
			log.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			h.writeError(wc, "unknown action: "+string(msg.Action))
		}
	}
}

func (h *WSHandler) writeState(wc *wsConn, sess *exam.Session) {
	snap := sess.Snapshot()
	wc.write(ws.StateEvent{
		Event:        ws.EventState,
		CurrentIndex: snap.CurrentIndex,
		TimeLeft:     snap.TimeLeft,
		Answered:     len(snap.Answers),
	})
}

func (h *WSHandler) writeError(wc *wsConn, msg string) {
	wc.write(ws.ErrorResponse{Event: ws.EventError, Error: msg})
}
