package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"

	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/protocol"
)

// A minimal client: joins, wanders forward while slowly turning, and digs
// straight down every couple of seconds. Doubles as an end-to-end smoke tool.
func main() {
	var (
		url  = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name = flag.String("name", "bot", "player name")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		PlayerName:      *name,
		Capabilities: protocol.HelloCapabilities{
			DeltaInstances: true,
			MaxQueue:       8,
		},
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	var (
		pos      [3]float64
		yaw      float64
		actNum   int
		lastAct  time.Time
		lastTurn time.Time
	)

	for {
		select {
		case <-stop:
			return
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			logger.Printf("read: %v", err)
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}

		switch base.Type {
		case protocol.TypeWelcome:
			var w protocol.WelcomeMsg
			if err := json.Unmarshal(msg, &w); err == nil {
				pos = w.Spawn
				logger.Printf("joined as %s, spawn %v, world %v", w.PlayerID, w.Spawn, w.WorldParams.Size)
			}
		case protocol.TypeFrame:
			var f protocol.FrameMsg
			if err := json.Unmarshal(msg, &f); err != nil {
				continue
			}
			pos = f.Self.Pos

			if time.Since(lastTurn) > 3*time.Second {
				yaw += 0.7
				lastTurn = time.Now()
			}
			move := protocol.ActMsg{
				Type:            protocol.TypeAct,
				ProtocolVersion: protocol.Version,
				Action:          protocol.ActionMove,
				Move:            &protocol.MoveAction{Forward: true, Yaw: yaw},
			}
			_ = conn.WriteJSON(move)

			if time.Since(lastAct) > 2*time.Second {
				actNum++
				dig := protocol.ActMsg{
					Type:            protocol.TypeAct,
					ProtocolVersion: protocol.Version,
					ActionID:        fmt.Sprintf("dig-%d", actNum),
					Action:          protocol.ActionBreak,
					Ray: &protocol.RayAction{
						Origin: pos,
						Dir:    [3]float64{0, -1, 0},
					},
				}
				_ = conn.WriteJSON(dig)
				lastAct = time.Now()
			}
		case protocol.TypeAck:
			var a protocol.AckMsg
			if err := json.Unmarshal(msg, &a); err == nil && a.AckFor != "" {
				if a.Accepted {
					logger.Printf("%s -> ok, target %v", a.AckFor, a.Target)
				} else {
					logger.Printf("%s -> %s", a.AckFor, a.Code)
				}
			}
		}
	}
}
