package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Action layer.
	ErrBadRequest  = "E_BAD_REQUEST"
	ErrNoTarget    = "E_NO_TARGET"
	ErrOutOfBounds = "E_OUT_OF_BOUNDS"
	ErrOccupied    = "E_OCCUPIED"
	ErrEmpty       = "E_EMPTY"
	ErrInternal    = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrBadRequest:      {},
	ErrNoTarget:        {},
	ErrOutOfBounds:     {},
	ErrOccupied:        {},
	ErrEmpty:           {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
