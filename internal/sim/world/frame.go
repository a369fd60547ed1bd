package world

import (
	"encoding/hex"

	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/protocol"
)

func (s *Session) welcomeFor(p *Player) protocol.WelcomeMsg {
	d := s.world.Digest()
	return protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		PlayerID:        p.ID,
		WorldParams: protocol.WorldParams{
			Size:       [3]int{s.cfg.Extent.SizeX, s.cfg.Extent.SizeY, s.cfg.Extent.SizeZ},
			TickRateHz: s.cfg.TickRateHz,
			PickReach:  s.cfg.PickReach,
		},
		Spawn:       [3]float64{p.Pos.X, p.Pos.Y, p.Pos.Z},
		WorldDigest: hex.EncodeToString(d[:]),
	}
}

// broadcastFrames sends every player their per-tick frame. A client that
// advertised delta_instances gets one full instance buffer on its first
// frame, then only the edits applied since the previous frame.
func (s *Session) broadcastFrames(tick uint64) {
	var full [][3]float64

	for _, p := range s.players {
		inst := protocol.InstancesFrame{Count: s.index.Len()}
		if p.deltaInstances && p.sentFull {
			inst.Encoding = protocol.EncodingDelta
			inst.Ops = append([]protocol.InstanceOp(nil), s.opsThisTick...)
		} else {
			if full == nil {
				full = s.index.Positions()
			}
			inst.Encoding = protocol.EncodingFull
			inst.Positions = full
			p.sentFull = true
		}

		ok := s.send(p, protocol.FrameMsg{
			Type:            protocol.TypeFrame,
			ProtocolVersion: protocol.Version,
			Tick:            tick,
			Self: protocol.SelfFrame{
				Pos:   [3]float64{p.Pos.X, p.Pos.Y, p.Pos.Z},
				Yaw:   p.Yaw,
				Pitch: p.Pitch,
			},
			Instances: inst,
		})
		if !ok {
			// A dropped delta frame would leave the client stale; force a
			// full buffer on the next one.
			p.sentFull = false
		}
	}
}
