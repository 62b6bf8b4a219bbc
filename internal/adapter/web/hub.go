package web

import (
	"TeluguTTS/internal/app/controller"
	"TeluguTTS/internal/service/voices"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Ensure interface compliance
var _ controller.Surface = (*Hub)(nil)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 << 10
	sendBuffer     = 16
)

// Commands действия пользователя, которые хаб передаёт контроллеру.
type Commands interface {
	Speak(text, key string)
	Stop()
	TextEdited()
}

// Snapshot состояние страницы, которое получают все браузеры.
type Snapshot struct {
	Type               string            `json:"type"`
	Voices             []voices.Option   `json:"voices"`
	VoiceSelectEnabled bool              `json:"voiceSelectEnabled"`
	SpeakEnabled       bool              `json:"speakEnabled"`
	StopVisible        bool              `json:"stopVisible"`
	Status             controller.Status `json:"status"`
	Focus              uint64            `json:"focus"` // растёт при каждом FocusText
}

type inbound struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// HubOptions ограничение сообщений input на одно соединение; speak и stop не ограничиваются.
type HubOptions struct {
	MessagesPerSecond float64
	Burst             int
}

type client struct {
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
}

// Hub реализует controller.Surface: держит снимок интерфейса и рассылает его по WebSocket.
type Hub struct {
	opts     HubOptions
	logger   *zap.SugaredLogger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	snap    Snapshot
	clients map[*client]struct{}
}

func NewHub(opts HubOptions, logger *zap.SugaredLogger) *Hub {
	if opts.MessagesPerSecond <= 0 {
		opts.MessagesPerSecond = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 10
	}
	return &Hub{
		opts:   opts,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		snap:    Snapshot{Type: "state"},
		clients: make(map[*client]struct{}),
	}
}

func (h *Hub) SetVoiceOptions(opts []voices.Option) {
	h.update(func(s *Snapshot) { s.Voices = append([]voices.Option(nil), opts...) })
}

func (h *Hub) SetVoiceSelectEnabled(enabled bool) {
	h.update(func(s *Snapshot) { s.VoiceSelectEnabled = enabled })
}

func (h *Hub) SetSpeakEnabled(enabled bool) {
	h.update(func(s *Snapshot) { s.SpeakEnabled = enabled })
}

func (h *Hub) SetStopVisible(visible bool) {
	h.update(func(s *Snapshot) { s.StopVisible = visible })
}

func (h *Hub) SetStatus(st controller.Status) {
	h.update(func(s *Snapshot) { s.Status = st })
}

func (h *Hub) FocusText() {
	h.update(func(s *Snapshot) { s.Focus++ })
}

// Snapshot текущее состояние страницы.
func (h *Hub) Snapshot() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.snap
	s.Voices = append([]voices.Option(nil), h.snap.Voices...)
	return s
}

// Clients число подключённых браузеров.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) update(fn func(s *Snapshot)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(&h.snap)
	data, err := json.Marshal(h.snap)
	if err != nil {
		h.logger.Errorw("Snapshot marshal failed", "error", err)
		return
	}
	for cl := range h.clients {
		h.enqueue(cl, data)
	}
}

// enqueue вызывается под h.mu. Медленный клиент отключается, а не тормозит остальных.
func (h *Hub) enqueue(cl *client, data []byte) {
	select {
	case cl.send <- data:
	default:
		h.logger.Warnw("WebSocket client too slow, dropping", "remote", cl.conn.RemoteAddr().String())
		delete(h.clients, cl)
		close(cl.send)
	}
}

func (h *Hub) add(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[cl] = struct{}{}
	data, err := json.Marshal(h.snap)
	if err != nil {
		h.logger.Errorw("Snapshot marshal failed", "error", err)
		return
	}
	h.enqueue(cl, data)
}

func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
}

// CloseAll отключает всех клиентов. Shutdown http.Server не трогает захваченные соединения.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		delete(h.clients, cl)
		close(cl.send)
	}
}

// ServeWS обработчик WebSocket: рассылка снимков и приём команд для cmds.
func (h *Hub) ServeWS(cmds Commands) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warnw("WebSocket upgrade failed", "remote", r.RemoteAddr, "error", err)
			return
		}
		cl := &client{
			conn:    conn,
			send:    make(chan []byte, sendBuffer),
			limiter: rate.NewLimiter(rate.Limit(h.opts.MessagesPerSecond), h.opts.Burst),
		}
		h.logger.Infow("WebSocket client connected", "remote", r.RemoteAddr)
		h.add(cl)
		go h.writeLoop(cl)
		h.readLoop(cl, cmds)
		h.logger.Infow("WebSocket client disconnected", "remote", r.RemoteAddr)
	}
}

func (h *Hub) readLoop(cl *client, cmds Commands) {
	defer h.remove(cl)
	cl.conn.SetReadLimit(maxMessageSize)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				h.logger.Warnw("WebSocket read error", "error", err)
			}
			return
		}
		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			h.logger.Warnw("Invalid WebSocket message", "error", err, "bytes", len(data))
			continue
		}
		switch msg.Type {
		case "speak":
			cmds.Speak(msg.Text, msg.Voice)
		case "stop":
			cmds.Stop()
		case "input":
			// лимит только на правки: speak и stop от нажатий проходят всегда
			if !cl.limiter.Allow() {
				h.logger.Debugw("Input message dropped: rate limit", "remote", cl.conn.RemoteAddr().String())
				continue
			}
			cmds.TextEdited()
		default:
			h.logger.Warnw("Unknown WebSocket message type", "type", msg.Type)
		}
	}
}

func (h *Hub) writeLoop(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = cl.conn.Close()
	}()

	for {
		select {
		case data, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
