package world

import (
	"sync/atomic"

	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/persistence/snapshot"
	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/protocol"
	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/sim/tuning"
	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/sim/world/instance"
	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/sim/world/pick"
	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/sim/world/voxel"
)

type Config struct {
	Extent  voxel.Extent
	Terrain voxel.TerrainParams

	TickRateHz       int
	PickReach        float64
	PlacementEpsilon float64
	MoveSpeed        float64

	SnapshotEveryTicks int
	ClientQueueMax     int
}

func ConfigFromTuning(t tuning.Tuning) Config {
	return Config{
		Extent: voxel.Extent{SizeX: t.WorldSizeX, SizeY: t.WorldSizeY, SizeZ: t.WorldSizeZ},
		Terrain: voxel.TerrainParams{
			BaseHeight: t.Terrain.BaseHeight,
			AmpX:       t.Terrain.AmpX,
			FreqX:      t.Terrain.FreqX,
			AmpZ:       t.Terrain.AmpZ,
			FreqZ:      t.Terrain.FreqZ,
		},
		TickRateHz:         t.TickRateHz,
		PickReach:          t.PickReach,
		PlacementEpsilon:   t.PlacementEpsilon,
		MoveSpeed:          t.MoveSpeed,
		SnapshotEveryTicks: t.SnapshotEveryTicks,
		ClientQueueMax:     t.ClientQueueMax,
	}
}

// Session is the single-threaded authoritative sandbox core: one voxel world,
// its derived instance index, and the connected players. All state is
// confined to the loop goroutine; the channels below are the only way in.
type Session struct {
	cfg Config

	world *voxel.World
	index *instance.Index

	tick atomic.Uint64

	players       map[string]*Player
	nextPlayerNum uint64

	// Instance edits applied this tick, for delta frames.
	opsThisTick []protocol.InstanceOp
	editsTotal  uint64

	inbox chan ActionEnvelope
	join  chan JoinRequest
	leave chan string
	stop  chan struct{}
	done  chan struct{}

	// Optional edit sinks (may be nil). Implemented in internal/persistence/*.
	editLogger EditLogger

	// Optional snapshot sink (may be nil). Snapshot writing is off-thread.
	snapshotSink chan<- snapshot.SnapshotV1
}

type Player struct {
	ID   string
	Name string

	Pos   pick.Vec3
	Yaw   float64
	Pitch float64

	intent protocol.MoveAction

	out            chan []byte
	deltaInstances bool
	sentFull       bool
}

type ActionEnvelope struct {
	PlayerID string
	Act      protocol.ActMsg
}

type JoinRequest struct {
	Name           string
	DeltaInstances bool
	Out            chan []byte
	Resp           chan JoinResponse
}

type JoinResponse struct {
	Welcome protocol.WelcomeMsg
}

// EditEntry is one applied block edit, as seen by the persistence sinks.
type EditEntry struct {
	Tick     uint64 `json:"tick"`
	PlayerID string `json:"player_id"`
	Op       string `json:"op"` // "BREAK" or "PLACE"
	Pos      [3]int `json:"pos"`
}

type EditLogger interface {
	WriteEdit(EditEntry) error
}

// NewSession seeds a fresh world from the configured terrain.
func NewSession(cfg Config) *Session {
	s := newSession(cfg)
	s.world = voxel.Generate(cfg.Extent, cfg.Terrain)
	s.index.Rebuild(s.world)
	return s
}

func newSession(cfg Config) *Session {
	return &Session{
		cfg:     cfg,
		index:   instance.NewIndex(),
		players: map[string]*Player{},
		inbox:   make(chan ActionEnvelope, 256),
		join:    make(chan JoinRequest, 8),
		leave:   make(chan string, 8),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *Session) Inbox() chan<- ActionEnvelope { return s.inbox }
func (s *Session) Join() chan<- JoinRequest     { return s.join }
func (s *Session) Leave() chan<- string         { return s.leave }

func (s *Session) Tick() uint64 { return s.tick.Load() }

// Done is closed when Run returns. Senders on the channels above must select
// on it so they never block against a stopped loop.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) SetEditLogger(l EditLogger)                    { s.editLogger = l }
func (s *Session) SetSnapshotSink(ch chan<- snapshot.SnapshotV1) { s.snapshotSink = ch }
