package service

import (
	"encoding/json"
	"sync"

	"github.com/bharatgram/server/internal/core/domain"
	"github.com/rs/zerolog/log"
)

// pairKey identifies a call by its unordered user pair.
type pairKey struct {
	lo, hi domain.UserID
}

func newPairKey(a, b domain.UserID) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

type callState struct {
	phase    domain.CallPhase
	callerID domain.UserID
	calleeID domain.UserID
}

// CallService brokers the offer/answer/ICE/hangup handshake between two
// users. It forwards opaque signaling payloads and tracks only the coarse
// phase of each pair's negotiation; the media path never touches it.
//
// Every forward is best-effort: an offline counterparty means a silent
// drop, and a signal referencing a pair with no in-flight state is a
// no-op. Calls ring until answered or ended; there is no broker-side
// timeout.
type CallService struct {
	registry *Registry

	mu    sync.Mutex
	calls map[pairKey]*callState
}

func NewCallService(registry *Registry) *CallService {
	return &CallService{
		registry: registry,
		calls:    make(map[pairKey]*callState),
	}
}

// CallUser starts a negotiation: if the callee is online, a Ringing state
// is created for the pair and the offer forwarded. An unreachable callee
// drops the request entirely; the caller keeps ringing from its own
// perspective.
func (s *CallService) CallUser(from, to domain.UserID, name string, offer json.RawMessage) {
	callee, ok := s.registry.Lookup(to)
	if !ok {
		log.Debug().
			Str("from", from.String()).
			Str("to", to.String()).
			Msg("Call request dropped, callee offline")
		return
	}

	s.mu.Lock()
	// A redial for the same pair supersedes the previous attempt.
	s.calls[newPairKey(from, to)] = &callState{
		phase:    domain.CallRinging,
		callerID: from,
		calleeID: to,
	}
	s.mu.Unlock()

	if err := callee.Send(domain.Event{
		Name: domain.EventIncomingCall,
		Payload: domain.IncomingCallPayload{
			From:  from.String(),
			Offer: offer,
			Name:  name,
		},
	}); err != nil {
		log.Warn().Err(err).Str("to", to.String()).Msg("Offer delivery failed")
	}

	log.Info().Str("from", from.String()).Str("to", to.String()).Msg("Call ringing")
}

// AnswerCall moves the pair from Ringing to Connecting and forwards the
// answer to the caller. If the caller disconnected while the call was
// ringing, the answer is dropped and the state torn down.
func (s *CallService) AnswerCall(from, to domain.UserID, answer json.RawMessage) {
	key := newPairKey(from, to)

	s.mu.Lock()
	state, ok := s.calls[key]
	if !ok || state.calleeID != from || state.phase != domain.CallRinging {
		s.mu.Unlock()
		return
	}

	caller, online := s.registry.Lookup(state.callerID)
	if !online {
		delete(s.calls, key)
		s.mu.Unlock()
		log.Debug().Str("caller", state.callerID.String()).Msg("Answer dropped, caller gone")
		return
	}

	state.phase = domain.CallConnecting
	s.mu.Unlock()

	if err := caller.Send(domain.Event{
		Name:    domain.EventCallAccepted,
		Payload: domain.CallAcceptedPayload{Answer: answer},
	}); err != nil {
		log.Warn().Err(err).Str("to", to.String()).Msg("Answer delivery failed")
	}
}

// ForwardCandidate relays one ICE candidate to the named side. Candidates
// flow both ways from Ringing onward, unordered and undeduplicated.
func (s *CallService) ForwardCandidate(from, to domain.UserID, candidate json.RawMessage) {
	s.mu.Lock()
	_, ok := s.calls[newPairKey(from, to)]
	s.mu.Unlock()
	if !ok {
		return
	}

	client, online := s.registry.Lookup(to)
	if !online {
		return
	}

	_ = client.Send(domain.Event{
		Name:    domain.EventICECandidate,
		Payload: domain.ICECandidatePayload{Candidate: candidate},
	})
}

// EndCall tears down the pair's state, notifying the other side if it is
// still connected. Without an in-flight state it does nothing at all.
func (s *CallService) EndCall(from, to domain.UserID) {
	key := newPairKey(from, to)

	s.mu.Lock()
	_, ok := s.calls[key]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.calls, key)
	s.mu.Unlock()

	s.notifyEnded(to)
	log.Info().Str("from", from.String()).Str("to", to.String()).Msg("Call ended")
}

// HandleDisconnect destroys every in-flight call referencing the user and
// notifies the surviving counterparties. Called synchronously from session
// teardown; there is no grace period.
func (s *CallService) HandleDisconnect(userID domain.UserID) {
	s.mu.Lock()
	var peers []domain.UserID
	for key, state := range s.calls {
		if state.callerID == userID || state.calleeID == userID {
			peer := state.callerID
			if peer == userID {
				peer = state.calleeID
			}
			peers = append(peers, peer)
			delete(s.calls, key)
		}
	}
	s.mu.Unlock()

	for _, peer := range peers {
		s.notifyEnded(peer)
	}
}

func (s *CallService) notifyEnded(userID domain.UserID) {
	client, ok := s.registry.Lookup(userID)
	if !ok {
		return
	}
	_ = client.Send(domain.Event{
		Name:    domain.EventCallEnded,
		Payload: struct{}{},
	})
}
