package handlers

import (
	"bytes"
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/marmos91/nfs4state/internal/protocol/nfs/v4/state"
	"github.com/marmos91/nfs4state/internal/protocol/nfs/v4/types"
	"github.com/marmos91/nfs4state/internal/telemetry"
)

// stateidWireSize is the XDR size of a stateid4: seqid plus other[12].
const stateidWireSize = 4 + types.NFS4_OTHER_SIZE

var errStateidSize = errors.New("stateid must be 16 bytes")

// StateidHandler resolves stateids to the clients that own them.
type StateidHandler struct {
	sm StateAuthority
}

// NewStateidHandler creates a handler for stateid endpoints.
// Returns nil if sm is nil.
func NewStateidHandler(sm StateAuthority) *StateidHandler {
	if sm == nil {
		return nil
	}
	return &StateidHandler{sm: sm}
}

// StateidInfo is the response type for stateid resolution.
type StateidInfo struct {
	Stateid string     `json:"stateid"`
	Seqid   uint32     `json:"seqid"`
	Counter uint32     `json:"counter"`
	Client  ClientInfo `json:"client"`
}

// Resolve handles GET /api/v1/stateids/{stateid}. The stateid is the hex
// form of its 16-byte XDR encoding, as captured on the wire.
func (h *StateidHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	sid, err := parseWireStateid(chi.URLParam(r, "stateid"))
	if err != nil {
		BadRequest(w, "invalid stateid format, expected 32 hex characters of XDR stateid4")
		return
	}
	if sid.IsSpecialStateid() {
		BadRequest(w, "special stateids are not bound to a client")
		return
	}

	telemetry.SetAttributes(r.Context(), telemetry.ClientID(sid.ClientID()))
	c, err := h.sm.GetClientByStateid(sid)
	if err != nil {
		WriteStateError(w, err)
		return
	}

	WriteJSONOK(w, stateidToInfo(sid, c))
}

func parseWireStateid(s string) (*types.Stateid4, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(raw) != stateidWireSize {
		return nil, errStateidSize
	}
	return types.DecodeStateid4(bytes.NewReader(raw))
}

func stateidToInfo(sid *types.Stateid4, c *state.Client) StateidInfo {
	return StateidInfo{
		Stateid: sid.String(),
		Seqid:   sid.Seqid,
		Counter: sid.Counter(),
		Client:  clientToInfo(c),
	}
}
