package world

import (
	"context"
	"fmt"
	"time"

	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/sim/world/pick"
)

// Run drives the session loop until ctx is cancelled or Stop is called.
// Everything the session owns is touched only from this goroutine.
func (s *Session) Run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.TickRateHz))
	defer ticker.Stop()

	dt := 1.0 / float64(s.cfg.TickRateHz)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case req := <-s.join:
			s.handleJoin(req)
		case id := <-s.leave:
			s.handleLeave(id)
		case env := <-s.inbox:
			s.handleAct(env)
		case <-ticker.C:
			s.step(dt)
		}
	}
}

func (s *Session) Stop() {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
}

func (s *Session) step(dt float64) {
	tick := s.tick.Add(1)

	for _, p := range s.players {
		s.applyMove(p, dt)
	}
	s.broadcastFrames(tick)
	s.opsThisTick = s.opsThisTick[:0]

	if s.snapshotSink != nil && s.cfg.SnapshotEveryTicks > 0 && tick%uint64(s.cfg.SnapshotEveryTicks) == 0 {
		select {
		case s.snapshotSink <- s.exportSnapshot(tick):
		default:
			// Writer is behind; skip this cadence rather than stall the loop.
		}
	}
}

func (s *Session) handleJoin(req JoinRequest) {
	s.nextPlayerNum++
	id := fmt.Sprintf("P%d", s.nextPlayerNum)

	name := req.Name
	if name == "" {
		name = "player"
	}

	p := &Player{
		ID:             id,
		Name:           name,
		Pos:            s.spawnPos(),
		out:            req.Out,
		deltaInstances: req.DeltaInstances,
	}
	s.players[id] = p

	req.Resp <- JoinResponse{Welcome: s.welcomeFor(p)}
}

func (s *Session) handleLeave(id string) {
	p, ok := s.players[id]
	if !ok {
		return
	}
	delete(s.players, id)
	close(p.out)
}

// spawnPos is the center of the world, floating above the tallest possible
// terrain column.
func (s *Session) spawnPos() pick.Vec3 {
	top := s.cfg.Terrain.BaseHeight + int(s.cfg.Terrain.AmpX+s.cfg.Terrain.AmpZ) + 2
	if top >= s.cfg.Extent.SizeY {
		top = s.cfg.Extent.SizeY - 1
	}
	return pick.Vec3{
		X: float64(s.cfg.Extent.SizeX) / 2,
		Y: float64(top) + 1.5,
		Z: float64(s.cfg.Extent.SizeZ) / 2,
	}
}
