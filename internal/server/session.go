package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nathansso/locvista/internal/app"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
	maxFrameSize = 64 << 10
)

// MessageType names an outbound envelope.
type MessageType string

const (
	MessageTypeFrame MessageType = "frame"
	MessageTypeError MessageType = "error"
)

// UpdateMessage is the outbound envelope.
type UpdateMessage struct {
	Type MessageType `json:"type"`
	Data any         `json:"data"`
}

// ErrorData is the payload of an error envelope.
type ErrorData struct {
	Message string `json:"message"`
}

// rejected carries an inbound message that failed validation to the
// session loop, which owns the connection's writer.
type rejected struct{ err error }

func (rejected) Kind() string { return "rejected" }

// session is one websocket connection and the state it drives. Only run
// touches state or writes to conn.
type session struct {
	id    uint64
	conn  *websocket.Conn
	state *app.State
	inbox chan app.Message
	log   *slog.Logger
}

// handleWebSocket upgrades the connection and drives its session until the
// client goes away.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "err", err, "remote", r.RemoteAddr)
		return
	}
	defer conn.Close()

	sess := &session{
		conn:  conn,
		state: app.New(s.opts.App),
		inbox: make(chan app.Message, inboxSize),
	}
	s.register(sess)
	defer s.unregister(sess)
	sess.log = s.log.With("session", sess.id)

	done := make(chan struct{})
	go s.readLoop(sess, done)
	s.run(sess, done)
}

// readLoop decodes client envelopes into the inbox until the connection fails.
func (s *Server) readLoop(sess *session, done chan<- struct{}) {
	defer close(done)

	sess.conn.SetReadLimit(maxFrameSize)
	_ = sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	sess.conn.SetPongHandler(func(string) error {
		return sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				sess.log.Warn("websocket read failed", "err", err)
			}
			return
		}

		var msg app.Message
		if msg, err = s.decode(data); err != nil {
			msg = rejected{err: err}
		}

		select {
		case sess.inbox <- msg:
		case <-s.ctx.Done():
			return
		}
	}
}

// run applies inbox messages in order and answers each with a frame.
func (s *Server) run(sess *session, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	if !sess.state.Initialized() && len(sess.inbox) == 0 {
		if err := s.send(sess, UpdateMessage{Type: MessageTypeFrame, Data: sess.state.Frame()}); err != nil {
			return
		}
	}

	for {
		select {
		case <-s.ctx.Done():
			_ = sess.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"), time.Now().Add(writeWait))
			return
		case <-done:
			return
		case <-ticker.C:
			if err := sess.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case msg := <-sess.inbox:
			reply, ok := s.handle(sess, msg)
			if !ok {
				continue
			}
			if err := s.send(sess, reply); err != nil {
				return
			}
		}
	}
}

// handle dispatches one message. A panic is logged and the session keeps
// running with whatever state the message left behind.
func (s *Server) handle(sess *session, msg app.Message) (reply UpdateMessage, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			sess.log.Error("panic in session", "kind", msg.Kind(), "panic", r)
			reply, ok = UpdateMessage{Type: MessageTypeError, Data: ErrorData{Message: "internal error"}}, true
		}
	}()

	if rej, isRejected := msg.(rejected); isRejected {
		sess.log.Debug("rejected client message", "err", rej.err)
		return UpdateMessage{Type: MessageTypeError, Data: ErrorData{Message: rej.err.Error()}}, true
	}

	if err := sess.state.Dispatch(msg); err != nil {
		if errors.Is(err, app.ErrUninitialized) {
			return UpdateMessage{}, false
		}
		sess.log.Warn("message failed", "kind", msg.Kind(), "err", err)
		return UpdateMessage{Type: MessageTypeError, Data: ErrorData{Message: err.Error()}}, true
	}
	return UpdateMessage{Type: MessageTypeFrame, Data: sess.state.Frame()}, true
}

func (s *Server) send(sess *session, msg UpdateMessage) error {
	_ = sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := sess.conn.WriteJSON(msg); err != nil {
		sess.log.Warn("websocket write failed", "err", err)
		return err
	}
	if msg.Type == MessageTypeFrame {
		s.metrics.FrameSent()
	}
	return nil
}

// decode validates an inbound envelope and builds its message.
func (s *Server) decode(data []byte) (app.Message, error) {
	if err := s.schema.validate(data); err != nil {
		return nil, err
	}
	var env struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return app.Decode(env.Type, env.Data)
}
