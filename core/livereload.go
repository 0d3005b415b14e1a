package core

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const ReloadPath = "/__cosmic_reload"

const reloadWriteWait = time.Second

// LiveReloader tells connected dev browsers to reload the page. It is an
// http.Handler for the websocket endpoint at ReloadPath.
type LiveReloader struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	closed  bool
}

func NewLiveReloader() *LiveReloader {
	return &LiveReloader{
		clients: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (lr *LiveReloader) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	lr.mu.Lock()
	closed := lr.closed
	lr.mu.Unlock()
	if closed {
		http.Error(w, "live reload stopped", http.StatusServiceUnavailable)
		return
	}

	conn, err := lr.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	lr.mu.Lock()
	if lr.closed {
		lr.mu.Unlock()
		goAway(conn)
		return
	}
	lr.clients[conn] = struct{}{}
	lr.mu.Unlock()

	go lr.drain(conn)
}

// drain consumes client frames so close and ping control messages are
// processed, and forgets the client once its connection fails.
func (lr *LiveReloader) drain(conn *websocket.Conn) {
	for {
		if _, _, err := conn.NextReader(); err != nil {
			break
		}
	}

	lr.mu.Lock()
	delete(lr.clients, conn)
	lr.mu.Unlock()
	conn.Close()
}

// Clients returns the number of connected browsers.
func (lr *LiveReloader) Clients() int {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	return len(lr.clients)
}

// Reload sends "reload" to every client and returns how many received it.
// Clients that cannot be written to are dropped.
func (lr *LiveReloader) Reload() int {
	lr.mu.Lock()
	defer lr.mu.Unlock()

	sent := 0
	for conn := range lr.clients {
		conn.SetWriteDeadline(time.Now().Add(reloadWriteWait))
		if err := conn.WriteMessage(websocket.TextMessage, []byte("reload")); err != nil {
			delete(lr.clients, conn)
			conn.Close()
			continue
		}
		sent++
	}
	return sent
}

// Close sends a going-away close frame to every client and refuses new
// connections.
func (lr *LiveReloader) Close() error {
	lr.mu.Lock()
	defer lr.mu.Unlock()

	if lr.closed {
		return nil
	}
	lr.closed = true

	for conn := range lr.clients {
		goAway(conn)
		delete(lr.clients, conn)
	}
	return nil
}

func goAway(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server stopped")
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(reloadWriteWait))
	conn.Close()
}

const reloadScript = `<script>(function(){var p=location.protocol==="https:"?"wss://":"ws://";var s=new WebSocket(p+location.host+%q);s.onmessage=function(e){if(e.data==="reload"){location.reload();}};})();</script>`

// InjectReloadScript inserts the live reload client before the last </body>,
// or appends it when the page has no body end tag.
func InjectReloadScript(html []byte, endpoint string) []byte {
	script := []byte(fmt.Sprintf(reloadScript, endpoint))

	i := bytes.LastIndex(html, []byte("</body>"))
	if i == -1 {
		return append(append([]byte{}, html...), script...)
	}

	out := make([]byte, 0, len(html)+len(script))
	out = append(out, html[:i]...)
	out = append(out, script...)
	return append(out, html[i:]...)
}
