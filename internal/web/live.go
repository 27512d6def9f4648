package web

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/trackodds/internal/metrics"
	"github.com/yourusername/trackodds/internal/models"
	"github.com/yourusername/trackodds/internal/service"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512

	defaultLiveRefresh = 30 * time.Second
)

// LiveMessageType identifies a live feed message
type LiveMessageType string

const (
	LiveMessageBoard LiveMessageType = "board"
)

// LiveMessage is pushed to live odds subscribers
type LiveMessage struct {
	Type         LiveMessageType       `json:"type"`
	ConnectionID string                `json:"connection_id"`
	RaceID       string                `json:"race_id"`
	RaceName     string                `json:"race_name,omitempty"`
	Board        []models.OddsSnapshot `json:"board"`
	SentAt       time.Time             `json:"sent_at"`
}

// LiveOddsHandler upgrades to a websocket and pushes the sorted board on
// connect and then every refresh interval
type LiveOddsHandler struct {
	svc      *service.DataService
	refresh  time.Duration
	logger   *logrus.Logger
	upgrader websocket.Upgrader
}

// NewLiveOddsHandler creates the live odds feed
func NewLiveOddsHandler(svc *service.DataService, refresh time.Duration, log *logrus.Logger) *LiveOddsHandler {
	if refresh <= 0 {
		refresh = defaultLiveRefresh
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LiveOddsHandler{
		svc:     svc,
		refresh: refresh,
		logger:  log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (h *LiveOddsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	id := uuid.New().String()
	log := h.logger.WithField("connection_id", id)
	metrics.LiveConnectionOpened()
	log.Info("Live odds connection opened")

	defer func() {
		conn.Close()
		metrics.LiveConnectionClosed()
		log.Info("Live odds connection closed")
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go h.readPump(conn, cancel)

	h.writePump(ctx, conn, id, log)
}

// readPump discards client messages and cancels ctx once the peer goes away
func (h *LiveOddsHandler) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *LiveOddsHandler) writePump(ctx context.Context, conn *websocket.Conn, id string, log *logrus.Entry) {
	refresh := time.NewTicker(h.refresh)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		refresh.Stop()
		ping.Stop()
	}()

	if err := h.push(ctx, conn, id); err != nil {
		log.WithError(err).Debug("Live odds write failed")
		return
	}

	for {
		select {
		case <-ctx.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case <-refresh.C:
			if err := h.push(ctx, conn, id); err != nil {
				log.WithError(err).Debug("Live odds write failed")
				return
			}

		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *LiveOddsHandler) push(ctx context.Context, conn *websocket.Conn, id string) error {
	page := h.svc.LoadBoardPage(ctx)
	msg := LiveMessage{
		Type:         LiveMessageBoard,
		ConnectionID: id,
		RaceID:       page.RaceID,
		Board:        page.Board,
		SentAt:       page.LoadedAt,
	}
	if page.Race != nil {
		msg.RaceName = page.Race.Name
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		return err
	}
	metrics.RecordLiveMessage()
	return nil
}
