package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// countingEngine records how many scans reached the engine.
type countingEngine struct {
	calls  atomic.Int32
	result *ScanResult
	err    error
}

func (e *countingEngine) Scan(context.Context, string) (*ScanResult, error) {
	e.calls.Add(1)
	if e.err != nil {
		return nil, e.err
	}
	if e.result != nil {
		return e.result, nil
	}
	return &ScanResult{Outcome: OutcomeAccepted, Message: "ok", Timestamp: time.Now()}, nil
}

func newTestSession(engine CheckInService) *ScanSession {
	mgr := NewScanSessionManager(engine, FacingEnvironment, nil)
	return mgr.Create(FacingEnvironment)
}

func TestSessionGateOneEvaluationPerCycle(t *testing.T) {
	engine := &countingEngine{}
	s := newTestSession(engine)

	update, err := s.HandleEvent(context.Background(), DecodeEvent{Kind: EventDecoded, Text: "pass-1"})
	if err != nil {
		t.Fatalf("first decode: %v", err)
	}
	if update.State != SessionSuspended || update.Result == nil {
		t.Fatalf("update = %+v, want suspended with result", update)
	}

	// Same badge still in frame: dropped, not re-evaluated.
	update, err = s.HandleEvent(context.Background(), DecodeEvent{Kind: EventDecoded, Text: "pass-1"})
	if err != nil || update != nil {
		t.Fatalf("decode while suspended = %+v, %v, want nil, nil", update, err)
	}
	if got := engine.calls.Load(); got != 1 {
		t.Fatalf("engine evaluated %d times, want 1", got)
	}

	if _, err := s.Acknowledge(); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	if _, err := s.HandleEvent(context.Background(), DecodeEvent{Kind: EventDecoded, Text: "pass-2"}); err != nil {
		t.Fatalf("decode after acknowledge: %v", err)
	}
	if got := engine.calls.Load(); got != 2 {
		t.Fatalf("engine evaluated %d times, want 2", got)
	}
}

func TestSessionNoCodeNoise(t *testing.T) {
	engine := &countingEngine{}
	s := newTestSession(engine)

	for i := 0; i < 100; i++ {
		update, err := s.HandleEvent(context.Background(), DecodeEvent{Kind: EventNoCode})
		if err != nil || update != nil {
			t.Fatalf("no_code event produced %+v, %v", update, err)
		}
	}
	if engine.calls.Load() != 0 {
		t.Fatal("no_code events must never reach the engine")
	}
	if s.Status().State != SessionArmed {
		t.Fatal("session must stay armed through frame noise")
	}
}

func TestSessionInitFailureFallbackThenFatal(t *testing.T) {
	s := newTestSession(&countingEngine{})

	update, err := s.HandleEvent(context.Background(), DecodeEvent{Kind: EventInitFailed, Error: "NotAllowedError"})
	if err != nil {
		t.Fatalf("first init failure: %v", err)
	}
	if !update.RetryFacing || update.FacingMode != FacingUser {
		t.Fatalf("expected fallback to user camera, got %+v", update)
	}
	if update.State != SessionArmed {
		t.Fatalf("session must stay armed during fallback, got %s", update.State)
	}

	update, err = s.HandleEvent(context.Background(), DecodeEvent{Kind: EventInitFailed})
	if err != nil {
		t.Fatalf("second init failure: %v", err)
	}
	if update.State != SessionFailed {
		t.Fatalf("state = %s, want failed", update.State)
	}
	if update.FatalError != "Camera access denied." {
		t.Fatalf("fatal error = %q", update.FatalError)
	}

	// Failed sessions reject everything except frame noise.
	if _, err := s.HandleEvent(context.Background(), DecodeEvent{Kind: EventDecoded, Text: "pass-1"}); !errors.Is(err, ErrSessionFailed) {
		t.Fatalf("decode on failed session err = %v, want ErrSessionFailed", err)
	}
	if update, err := s.HandleEvent(context.Background(), DecodeEvent{Kind: EventNoCode}); err != nil || update != nil {
		t.Fatal("no_code must still be silently dropped on a failed session")
	}

	update, err = s.Restart()
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if update.State != SessionArmed || update.FatalError != "" {
		t.Fatalf("restart did not recover the session: %+v", update)
	}
}

func TestSessionSetFacingResetsCycle(t *testing.T) {
	s := newTestSession(&countingEngine{})

	if _, err := s.HandleEvent(context.Background(), DecodeEvent{Kind: EventDecoded, Text: "pass-1"}); err != nil {
		t.Fatalf("decode: %v", err)
	}
	update, err := s.SetFacingMode(FacingUser)
	if err != nil {
		t.Fatalf("set facing: %v", err)
	}
	if update.State != SessionArmed || update.Result != nil || update.FacingMode != FacingUser {
		t.Fatalf("facing change must re-arm and clear the result: %+v", update)
	}
}

func TestSessionCancelIsTerminal(t *testing.T) {
	s := newTestSession(&countingEngine{})
	s.Cancel()
	s.Cancel()

	if _, err := s.HandleEvent(context.Background(), DecodeEvent{Kind: EventDecoded, Text: "pass-1"}); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("err = %v, want ErrSessionClosed", err)
	}
	if _, err := s.Acknowledge(); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("acknowledge err = %v, want ErrSessionClosed", err)
	}
	if _, err := s.Restart(); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("restart err = %v, want ErrSessionClosed", err)
	}
}

func TestSessionEngineErrorSuspendsWithTransient(t *testing.T) {
	engine := &countingEngine{err: errors.New("db down")}
	s := newTestSession(engine)

	update, err := s.HandleEvent(context.Background(), DecodeEvent{Kind: EventDecoded, Text: "pass-1"})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if update.State != SessionSuspended {
		t.Fatalf("state = %s, want suspended", update.State)
	}
	if update.TransientError != "Check-in could not be saved. Please try again." {
		t.Fatalf("transient error = %q", update.TransientError)
	}
	if update.Result != nil {
		t.Fatal("a failed evaluation must not carry a result")
	}
}

func TestSessionManagerLifecycle(t *testing.T) {
	mgr := NewScanSessionManager(&countingEngine{}, FacingEnvironment, nil)
	s := mgr.Create("")

	if s.Status().FacingMode != FacingEnvironment {
		t.Fatal("empty facing mode must fall back to the default")
	}
	got, err := mgr.Get(s.ID)
	if err != nil || got != s {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if err := mgr.Close(s.ID); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := mgr.Get(s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Get after close err = %v, want ErrSessionNotFound", err)
	}
	if err := mgr.Close(s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("double close err = %v, want ErrSessionNotFound", err)
	}
}
