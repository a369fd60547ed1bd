package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string            `json:"type"`
	ProtocolVersion string            `json:"protocol_version"`
	PlayerName      string            `json:"player_name"`
	Capabilities    HelloCapabilities `json:"capabilities"`
}

type HelloCapabilities struct {
	DeltaInstances bool `json:"delta_instances,omitempty"`
	MaxQueue       int  `json:"max_queue,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	PlayerID        string      `json:"player_id"`
	WorldParams     WorldParams `json:"world_params"`
	Spawn           [3]float64  `json:"spawn"`
	WorldDigest     string      `json:"world_digest"` // sha256 hex of the occupancy array
}

type WorldParams struct {
	Size       [3]int  `json:"size"`
	TickRateHz int     `json:"tick_rate_hz"`
	PickReach  float64 `json:"pick_reach"`
}

// FRAME (server -> client): one per tick, the "render these cubes" sink.
type FrameMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	Tick            uint64         `json:"tick"`
	Self            SelfFrame      `json:"self"`
	Instances       InstancesFrame `json:"instances"`
}

type SelfFrame struct {
	Pos   [3]float64 `json:"pos"`
	Yaw   float64    `json:"yaw"`
	Pitch float64    `json:"pitch"`
}

// Instance buffer encodings.
const (
	EncodingFull  = "FULL"
	EncodingDelta = "DELTA"
)

type InstancesFrame struct {
	Count     int          `json:"count"`
	Encoding  string       `json:"encoding"`
	Positions [][3]float64 `json:"positions,omitempty"` // FULL: cube centers, slot order
	Ops       []InstanceOp `json:"ops,omitempty"`       // DELTA: edits since last frame
}

type InstanceOp struct {
	Op  string `json:"op"` // "ADD" or "REMOVE"
	Pos [3]int `json:"pos"`
}

// ACT (client -> server)
type ActMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	ActionID        string      `json:"action_id,omitempty"`
	Action          string      `json:"action"`
	Move            *MoveAction `json:"move,omitempty"`
	Ray             *RayAction  `json:"ray,omitempty"`
}

// MoveAction carries the discrete movement-intent flags plus look angles.
type MoveAction struct {
	Forward bool    `json:"forward,omitempty"`
	Back    bool    `json:"back,omitempty"`
	Left    bool    `json:"left,omitempty"`
	Right   bool    `json:"right,omitempty"`
	Up      bool    `json:"up,omitempty"`
	Down    bool    `json:"down,omitempty"`
	Yaw     float64 `json:"yaw"`
	Pitch   float64 `json:"pitch"`
}

// RayAction is the camera-derived pick ray for BREAK and PLACE.
type RayAction struct {
	Origin [3]float64 `json:"origin"`
	Dir    [3]float64 `json:"dir"`
}

// ACK (server -> client)
type AckMsg struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version"`
	AckFor          string  `json:"ack_for,omitempty"`
	Accepted        bool    `json:"accepted"`
	Code            string  `json:"code,omitempty"`
	Message         string  `json:"message,omitempty"`
	ServerTick      uint64  `json:"server_tick,omitempty"`
	Target          *[3]int `json:"target,omitempty"` // resolved voxel for BREAK/PLACE
}
