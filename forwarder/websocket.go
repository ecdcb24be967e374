package forwarder

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	defaultWebSocketPath = "/r3e"
	writeTimeout         = 5 * time.Second
	shutdownTimeout      = 2 * time.Second
)

type WebSocketConfig struct {
	Address string
	Path    string
}

type client struct {
	send chan []byte
}

// push replaces any payload the client has not yet been sent.
func (c *client) push(payload []byte) {
	select {
	case c.send <- payload:
		return
	default:
	}
	select {
	case <-c.send:
	default:
	}
	select {
	case c.send <- payload:
	default:
	}
}

// WebSocketForwarder serves overlay clients. Each client receives the most
// recent payload on connect and every payload after that; a slow client
// skips to the latest.
type WebSocketForwarder struct {
	Config *WebSocketConfig

	mu      sync.Mutex
	clients map[*client]struct{}
	latest  []byte
}

func NewWebSocketForwarder(config *WebSocketConfig) *WebSocketForwarder {
	if config.Path == "" {
		config.Path = defaultWebSocketPath
	}
	return &WebSocketForwarder{
		Config:  config,
		clients: make(map[*client]struct{}),
	}
}

func (ws *WebSocketForwarder) Name() string {
	return "websocket " + ws.Config.Address + ws.Config.Path
}

func (ws *WebSocketForwarder) Forward(payload []byte) error {
	p := bytes.Clone(payload)

	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.latest = p
	for c := range ws.clients {
		c.push(p)
	}
	return nil
}

func (ws *WebSocketForwarder) Clients() int {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return len(ws.clients)
}

func (ws *WebSocketForwarder) add(c *client) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.clients[c] = struct{}{}
	if ws.latest != nil {
		c.push(ws.latest)
	}
}

func (ws *WebSocketForwarder) remove(c *client) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	delete(ws.clients, c)
}

func (ws *WebSocketForwarder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		log.WithField("remote", r.RemoteAddr).Warn("unable to accept websocket client ", err)
		return
	}
	defer conn.CloseNow()

	// clients never send; reading only services control frames
	ctx := conn.CloseRead(r.Context())

	c := &client{send: make(chan []byte, 1)}
	ws.add(c)
	defer ws.remove(c)
	log.WithField("remote", r.RemoteAddr).Info("websocket client connected")

	for {
		select {
		case p := <-c.send:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Write(wctx, websocket.MessageText, p)
			cancel()
			if err != nil {
				log.WithField("remote", r.RemoteAddr).Debug("websocket client write failed ", err)
				return
			}
		case <-ctx.Done():
			log.WithField("remote", r.RemoteAddr).Info("websocket client disconnected")
			return
		}
	}
}

// Start listens on the configured address until ctx is done.
func (ws *WebSocketForwarder) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle(ws.Config.Path, ws)
	server := &http.Server{
		Addr:    ws.Config.Address,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.WithField("address", ws.Config.Address).Info("websocket forwarder listening")
	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return ctx.Err()
	}
	return errors.Wrap(err, "websocket forwarder stopped")
}
