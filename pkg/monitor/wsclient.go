package monitor

import (
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	// writeWait is how long to wait for a write to complete.
	writeWait = 10 * time.Second

	// pongWait is how long to wait for a pong response.
	pongWait = 60 * time.Second

	// pingPeriod must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// serveWS pumps hub messages to one websocket connection until either side
// goes away. It blocks, so it is called from the websocket handler.
func serveWS(hub *Hub, conn *websocket.Conn) {
	sub := hub.Subscribe()
	done := make(chan struct{})

	go func() {
		defer close(done)
		writePump(sub, conn)
	}()

	// We expect nothing from preview clients, but reading is what detects
	// disconnection and delivers pongs.
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	hub.Unsubscribe(sub)
	conn.Close()
	<-done
}

func writePump(sub *Subscriber, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-sub.C():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub dropped us - send close frame
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			wsType := websocket.TextMessage
			if msg.Kind == BinaryMessage {
				wsType = websocket.BinaryMessage
			}
			if err := conn.WriteMessage(wsType, msg.Data); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
