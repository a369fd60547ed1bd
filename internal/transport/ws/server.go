package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/protocol"
	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/sim/world"
)

type Server struct {
	session  *world.Session
	log      *log.Logger
	queueMax int

	upgrader websocket.Upgrader
}

func NewServer(s *world.Session, queueMax int, logger *log.Logger) *Server {
	if queueMax <= 0 {
		queueMax = 8
	}
	return &Server{
		session:  s,
		log:      logger,
		queueMax: queueMax,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		playerID, out := s.handshake(conn)
		if playerID == "" {
			return
		}
		s.log.Printf("ws connect %s from %s", playerID, r.RemoteAddr)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b, ok := <-out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				break
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil || base.Type != protocol.TypeAct {
				continue
			}
			if err := protocol.ValidateAct(msg); err != nil {
				s.rejectAct(out, "malformed ACT")
				continue
			}
			var act protocol.ActMsg
			if err := json.Unmarshal(msg, &act); err != nil {
				continue
			}
			if act.ProtocolVersion != protocol.Version {
				s.rejectAct(out, "bad protocol_version")
				continue
			}
			select {
			case s.session.Inbox() <- world.ActionEnvelope{PlayerID: playerID, Act: act}:
			case <-s.session.Done():
			}
		}

		// Cleanup.
		select {
		case s.session.Leave() <- playerID:
		case <-s.session.Done():
		}
		s.log.Printf("ws disconnect %s", playerID)
	}
}

func (s *Server) handshake(conn *websocket.Conn) (playerID string, out chan []byte) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return "", nil
	}
	if err := protocol.ValidateHello(msg); err != nil {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "malformed HELLO"), time.Now().Add(time.Second))
		return "", nil
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return "", nil
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return "", nil
	}

	maxQ := hello.Capabilities.MaxQueue
	if maxQ <= 0 || maxQ > s.queueMax {
		maxQ = s.queueMax
	}
	out = make(chan []byte, maxQ)

	respCh := make(chan world.JoinResponse, 1)
	select {
	case s.session.Join() <- world.JoinRequest{
		Name:           hello.PlayerName,
		DeltaInstances: hello.Capabilities.DeltaInstances,
		Out:            out,
		Resp:           respCh,
	}:
	case <-s.session.Done():
		return "", nil
	}
	var resp world.JoinResponse
	select {
	case resp = <-respCh:
	case <-s.session.Done():
		return "", nil
	}

	if err := writeJSON(conn, resp.Welcome); err != nil {
		select {
		case s.session.Leave() <- resp.Welcome.PlayerID:
		case <-s.session.Done():
		}
		return "", nil
	}
	return resp.Welcome.PlayerID, out
}

// rejectAct queues a protocol-level ACK on the client's outbound channel;
// the writer goroutine owns the connection, so we never write it directly
// from the reader loop.
func (s *Server) rejectAct(out chan []byte, msg string) {
	b, err := json.Marshal(protocol.AckMsg{
		Type:            protocol.TypeAck,
		ProtocolVersion: protocol.Version,
		Accepted:        false,
		Code:            protocol.ErrProtoBadRequest,
		Message:         msg,
	})
	if err != nil {
		return
	}
	select {
	case out <- b:
	default:
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
