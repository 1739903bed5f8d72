package state

import (
	"github.com/marmos91/nfs4state/internal/protocol/nfs/v4/types"
)

// GrantedState is one piece of state (an open, a lock) granted to a client
// and addressed by a stateid. It is either unconfirmed or confirmed at a
// generation; the generation travels in the stateid's seqid.
//
// Values returned by Client accessors are copies; mutation goes through the
// owning Client so that its lock covers every transition.
type GrantedState struct {
	Stateid   types.Stateid4
	Confirmed bool

	release func() error
}

// Generation returns the current generation of the state.
func (g GrantedState) Generation() uint32 {
	return g.Stateid.Seqid
}

// check validates a presented stateid against the current state. Only a
// confirmed state at exactly the presented generation passes.
func (g *GrantedState) check(presented *types.Stateid4) error {
	if !g.Confirmed {
		return stateErrorf(ErrBadStateid, "state %x not confirmed", presented.Other)
	}

	switch current := g.Stateid.Seqid; {
	case presented.Seqid < current:
		return stateErrorf(ErrOldStateid, "generation %d superseded by %d", presented.Seqid, current)
	case presented.Seqid > current:
		return stateErrorf(ErrBadStateid, "generation %d not yet issued (current %d)", presented.Seqid, current)
	}
	return nil
}
