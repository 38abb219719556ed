package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FacingMode selects which camera the client decoder uses.
type FacingMode string

const (
	FacingEnvironment FacingMode = "environment"
	FacingUser        FacingMode = "user"
)

// SessionState is the scan-session gate. Armed sessions evaluate the next
// decoded text; suspended sessions drop decodes until the operator
// acknowledges the displayed outcome.
type SessionState string

const (
	SessionArmed     SessionState = "armed"
	SessionSuspended SessionState = "suspended"
	SessionFailed    SessionState = "failed"
	SessionClosed    SessionState = "closed"
)

// DecodeEventKind classifies events arriving from the client-side decoder.
type DecodeEventKind string

const (
	// EventDecoded carries one successfully decoded string.
	EventDecoded DecodeEventKind = "decoded"
	// EventNoCode means no code was visible this frame. Routine noise,
	// emitted at frame rate; always discarded silently.
	EventNoCode DecodeEventKind = "no_code"
	// EventInitFailed reports that camera/decoder initialization failed.
	EventInitFailed DecodeEventKind = "init_failed"
)

// DecodeEvent is one event from the decoder stream.
type DecodeEvent struct {
	Kind  DecodeEventKind `json:"kind"`
	Text  string          `json:"text,omitempty"`
	Error string          `json:"error,omitempty"`
}

// SessionUpdate is what the controller reports back to the operator UI after
// an event or command. RetryFacing instructs the client to reinitialize the
// decoder with the given facing mode.
type SessionUpdate struct {
	SessionID      string       `json:"session_id"`
	State          SessionState `json:"state"`
	FacingMode     FacingMode   `json:"facing_mode"`
	Result         *ScanResult  `json:"result,omitempty"`
	TransientError string       `json:"transient_error,omitempty"`
	FatalError     string       `json:"fatal_error,omitempty"`
	RetryFacing    bool         `json:"retry_facing,omitempty"`
}

// ScanSession gates one decoder stream onto the check-in engine: at most one
// identifier is in flight at a time, enforced here rather than by any lock on
// the roster.
type ScanSession struct {
	ID string

	mu            sync.Mutex
	state         SessionState
	facing        FacingMode
	fallbackTried bool
	lastResult    *ScanResult
	fatalErr      string

	engine CheckInService
	logger *zap.Logger
}

func newScanSession(engine CheckInService, facing FacingMode, logger *zap.Logger) *ScanSession {
	return &ScanSession{
		ID:     uuid.New().String(),
		state:  SessionArmed,
		facing: facing,
		engine: engine,
		logger: logger,
	}
}

// HandleEvent processes one decoder event. Returns (nil, nil) for events
// that are dropped without anything to report: frame noise, and decodes
// arriving while suspended. Events after Cancel fail with ErrSessionClosed.
func (s *ScanSession) HandleEvent(ctx context.Context, ev DecodeEvent) (*SessionUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case SessionClosed:
		return nil, ErrSessionClosed
	case SessionFailed:
		if ev.Kind == EventNoCode {
			return nil, nil
		}
		return nil, ErrSessionFailed
	}

	switch ev.Kind {
	case EventNoCode:
		return nil, nil

	case EventInitFailed:
		if !s.fallbackTried {
			s.fallbackTried = true
			s.facing = alternateFacing(s.facing)
			s.logger.Warn("decoder init failed, retrying with alternate camera",
				zap.String("session_id", s.ID),
				zap.String("facing_mode", string(s.facing)),
			)
			update := s.updateLocked()
			update.RetryFacing = true
			return update, nil
		}
		s.state = SessionFailed
		s.fatalErr = ev.Error
		if s.fatalErr == "" {
			s.fatalErr = "Camera access denied."
		}
		s.logger.Error("scan session failed",
			zap.String("session_id", s.ID),
			zap.String("error", s.fatalErr),
		)
		return s.updateLocked(), nil

	case EventDecoded:
		if s.state == SessionSuspended {
			// Same badge still in frame, or a second code before the
			// operator acknowledged. Dropped, not re-evaluated.
			return nil, nil
		}
		result, err := s.engine.Scan(ctx, ev.Text)
		if err != nil {
			s.logger.Error("scan evaluation failed",
				zap.String("session_id", s.ID),
				zap.Error(err),
			)
			s.state = SessionSuspended
			s.lastResult = nil
			update := s.updateLocked()
			update.TransientError = "Check-in could not be saved. Please try again."
			return update, nil
		}
		s.state = SessionSuspended
		s.lastResult = result
		return s.updateLocked(), nil

	default:
		return nil, fmt.Errorf("unknown decode event kind %q", ev.Kind)
	}
}

// Acknowledge is the operator's dismiss/next-guest action: the only way a
// suspended session becomes armed again.
func (s *ScanSession) Acknowledge() (*SessionUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case SessionClosed:
		return nil, ErrSessionClosed
	case SessionFailed:
		return nil, ErrSessionFailed
	}
	s.state = SessionArmed
	s.lastResult = nil
	return s.updateLocked(), nil
}

// Restart recovers a failed session after an explicit operator action.
func (s *ScanSession) Restart() (*SessionUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == SessionClosed {
		return nil, ErrSessionClosed
	}
	s.state = SessionArmed
	s.lastResult = nil
	s.fatalErr = ""
	s.fallbackTried = false
	return s.updateLocked(), nil
}

// SetFacingMode changes the camera. Treated as teardown-and-restart: any
// displayed outcome is cleared and the fallback budget resets.
func (s *ScanSession) SetFacingMode(mode FacingMode) (*SessionUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == SessionClosed {
		return nil, ErrSessionClosed
	}
	s.facing = mode
	s.state = SessionArmed
	s.lastResult = nil
	s.fatalErr = ""
	s.fallbackTried = false
	return s.updateLocked(), nil
}

// Cancel closes the session. Idempotent; every later event is dropped.
func (s *ScanSession) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = SessionClosed
	s.lastResult = nil
}

// Status reports the current session state.
func (s *ScanSession) Status() *SessionUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked()
}

func (s *ScanSession) updateLocked() *SessionUpdate {
	return &SessionUpdate{
		SessionID:  s.ID,
		State:      s.state,
		FacingMode: s.facing,
		Result:     s.lastResult,
		FatalError: s.fatalErr,
	}
}

func alternateFacing(mode FacingMode) FacingMode {
	if mode == FacingEnvironment {
		return FacingUser
	}
	return FacingEnvironment
}

// ScanSessionManager owns the live scan sessions of this instance.
type ScanSessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*ScanSession

	engine        CheckInService
	defaultFacing FacingMode
	logger        *zap.Logger
}

func NewScanSessionManager(engine CheckInService, defaultFacing FacingMode, logger *zap.Logger) *ScanSessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultFacing != FacingUser {
		defaultFacing = FacingEnvironment
	}
	return &ScanSessionManager{
		sessions:      make(map[string]*ScanSession),
		engine:        engine,
		defaultFacing: defaultFacing,
		logger:        logger,
	}
}

// Create opens a new armed session. An empty facing mode falls back to the
// configured default.
func (m *ScanSessionManager) Create(facing FacingMode) *ScanSession {
	if facing != FacingEnvironment && facing != FacingUser {
		facing = m.defaultFacing
	}
	session := newScanSession(m.engine, facing, m.logger)

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	m.logger.Info("scan session opened",
		zap.String("session_id", session.ID),
		zap.String("facing_mode", string(facing)),
	)
	return session
}

func (m *ScanSessionManager) Get(id string) (*ScanSession, error) {
	m.mu.RLock()
	session, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Close cancels and removes a session. Removal guarantees the decoder handle
// cannot be resurrected by late events.
func (m *ScanSessionManager) Close(id string) error {
	m.mu.Lock()
	session, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	session.Cancel()
	m.logger.Info("scan session closed", zap.String("session_id", id))
	return nil
}
