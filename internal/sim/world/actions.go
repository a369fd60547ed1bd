package world

import (
	"encoding/json"
	"math"

	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/protocol"
	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/sim/world/pick"
	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/sim/world/voxel"
)

// floorClampY keeps flying players from sinking below the world floor.
const floorClampY = 1.0

func (s *Session) handleAct(env ActionEnvelope) {
	p, ok := s.players[env.PlayerID]
	if !ok {
		return
	}

	switch env.Act.Action {
	case protocol.ActionMove:
		if env.Act.Move != nil {
			p.intent = *env.Act.Move
			p.Yaw = env.Act.Move.Yaw
			p.Pitch = env.Act.Move.Pitch
		}
	case protocol.ActionBreak:
		s.applyBreak(p, env.Act)
	case protocol.ActionPlace:
		s.applyPlace(p, env.Act)
	default:
		s.ack(p, env.Act.ActionID, false, protocol.ErrBadRequest, "unknown action", nil)
	}
}

func (s *Session) pickRay(act protocol.ActMsg) (pick.Ray, bool) {
	if act.Ray == nil {
		return pick.Ray{}, false
	}
	r := pick.Ray{
		Origin: pick.Vec3{X: act.Ray.Origin[0], Y: act.Ray.Origin[1], Z: act.Ray.Origin[2]},
		Dir:    pick.Vec3{X: act.Ray.Dir[0], Y: act.Ray.Dir[1], Z: act.Ray.Dir[2]},
		Max:    s.cfg.PickReach,
	}
	if r.Dir.Length() == 0 {
		return pick.Ray{}, false
	}
	return r, true
}

func (s *Session) applyBreak(p *Player, act protocol.ActMsg) {
	ray, ok := s.pickRay(act)
	if !ok {
		s.ack(p, act.ActionID, false, protocol.ErrBadRequest, "BREAK requires a ray", nil)
		return
	}
	c, ok := pick.ForRemoval(ray, s.world, s.index)
	if !ok {
		s.ack(p, act.ActionID, false, protocol.ErrNoTarget, "no voxel within reach", nil)
		return
	}
	if !s.world.Remove(c) {
		s.ack(p, act.ActionID, false, protocol.ErrEmpty, "already empty", nil)
		return
	}
	s.index.Drop(c)
	s.recordEdit(p, protocol.ActionBreak, c)
	s.ack(p, act.ActionID, true, "", "", &c)
}

func (s *Session) applyPlace(p *Player, act protocol.ActMsg) {
	ray, ok := s.pickRay(act)
	if !ok {
		s.ack(p, act.ActionID, false, protocol.ErrBadRequest, "PLACE requires a ray", nil)
		return
	}
	hit, ok := pick.Nearest(ray, s.index)
	if !ok {
		s.ack(p, act.ActionID, false, protocol.ErrNoTarget, "no voxel within reach", nil)
		return
	}
	c := pick.PlacementCoord(hit, s.cfg.PlacementEpsilon)
	if !s.cfg.Extent.Contains(c) {
		s.ack(p, act.ActionID, false, protocol.ErrOutOfBounds, "placement outside world", nil)
		return
	}
	if !s.world.Add(c) {
		s.ack(p, act.ActionID, false, protocol.ErrOccupied, "cell occupied", nil)
		return
	}
	s.index.Append(c)
	s.recordEdit(p, protocol.ActionPlace, c)
	s.ack(p, act.ActionID, true, "", "", &c)
}

func (s *Session) recordEdit(p *Player, op string, c voxel.Vec3i) {
	instanceOp := "ADD"
	if op == protocol.ActionBreak {
		instanceOp = "REMOVE"
	}
	s.editsTotal++
	s.opsThisTick = append(s.opsThisTick, protocol.InstanceOp{
		Op:  instanceOp,
		Pos: [3]int{c.X, c.Y, c.Z},
	})
	if s.editLogger != nil {
		_ = s.editLogger.WriteEdit(EditEntry{
			Tick:     s.tick.Load(),
			PlayerID: p.ID,
			Op:       op,
			Pos:      [3]int{c.X, c.Y, c.Z},
		})
	}
}

func (s *Session) ack(p *Player, actionID string, accepted bool, code, msg string, target *voxel.Vec3i) {
	m := protocol.AckMsg{
		Type:            protocol.TypeAck,
		ProtocolVersion: protocol.Version,
		AckFor:          actionID,
		Accepted:        accepted,
		Code:            code,
		Message:         msg,
		ServerTick:      s.tick.Load(),
	}
	if target != nil {
		m.Target = &[3]int{target.X, target.Y, target.Z}
	}
	s.send(p, m)
}

func (s *Session) send(p *Player, v any) bool {
	b, err := json.Marshal(v)
	if err != nil {
		return false
	}
	select {
	case p.out <- b:
		return true
	default:
		// Client queue full; drop rather than stall the loop.
		return false
	}
}

// applyMove advances one player by their movement intent. Fly controls:
// horizontal heading from yaw, vertical strictly from the up/down flags,
// position clamped to the world extent with a floor clamp.
func (s *Session) applyMove(p *Player, dt float64) {
	in := p.intent
	var fwd, strafe, lift float64
	if in.Forward {
		fwd++
	}
	if in.Back {
		fwd--
	}
	if in.Right {
		strafe++
	}
	if in.Left {
		strafe--
	}
	if in.Up {
		lift++
	}
	if in.Down {
		lift--
	}
	if fwd == 0 && strafe == 0 && lift == 0 {
		return
	}

	sinY, cosY := math.Sin(p.Yaw), math.Cos(p.Yaw)
	step := s.cfg.MoveSpeed * dt
	p.Pos.X += (-sinY*fwd + cosY*strafe) * step
	p.Pos.Z += (-cosY*fwd - sinY*strafe) * step
	p.Pos.Y += lift * step

	p.Pos.X = clamp(p.Pos.X, 0, float64(s.cfg.Extent.SizeX))
	p.Pos.Z = clamp(p.Pos.Z, 0, float64(s.cfg.Extent.SizeZ))
	p.Pos.Y = clamp(p.Pos.Y, floorClampY, float64(s.cfg.Extent.SizeY)+8)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
