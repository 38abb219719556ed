package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"galapass/guesthub/internal/model"
	"galapass/guesthub/internal/repository"
	"galapass/guesthub/internal/roster"
)

// Operator-facing messages for the three terminal scan outcomes.
const (
	msgGuestNotFound = "Invalid Pass ID. Guest not found in records."
	msgAlreadyUsed   = "This pass has already been used for check-in."
)

type ScanOutcome string

const (
	OutcomeAccepted ScanOutcome = "accepted"
	OutcomeRejected ScanOutcome = "rejected"
)

type RejectReason string

const (
	ReasonNotFound    RejectReason = "not_found"
	ReasonAlreadyUsed RejectReason = "already_used"
)

// ScanResult is the terminal outcome of one scan cycle. On AlreadyUsed
// rejections Guest carries the prior check-in time so staff can see who used
// the pass and when.
type ScanResult struct {
	Outcome   ScanOutcome  `json:"outcome"`
	Reason    RejectReason `json:"reason,omitempty"`
	Guest     *model.Guest `json:"guest,omitempty"`
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
}

// CheckInService decides whether a scanned pass id admits a guest, and
// commits the check-in latch through the guest store. One call per decode;
// evaluation is synchronous. A returned error means the store failed hard and
// the scan must be reported as a transient failure, never as success.
type CheckInService interface {
	Scan(ctx context.Context, decodedText string) (*ScanResult, error)
}

type checkInService struct {
	guestRepo repository.GuestRepository
	logger    *zap.Logger
	now       func() time.Time
}

func NewCheckInService(guestRepo repository.GuestRepository, logger *zap.Logger) CheckInService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &checkInService{
		guestRepo: guestRepo,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *checkInService) Scan(ctx context.Context, decodedText string) (*ScanResult, error) {
	guest, err := s.guestRepo.GetByID(ctx, decodedText)
	if errors.Is(err, repository.ErrGuestNotFound) {
		return &ScanResult{
			Outcome:   OutcomeRejected,
			Reason:    ReasonNotFound,
			Message:   msgGuestNotFound,
			Timestamp: s.now(),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch guest: %w", err)
	}

	ts := s.now()
	updated, err := roster.MarkCheckedIn(*guest, ts)
	if errors.Is(err, roster.ErrAlreadyCheckedIn) {
		return s.rejectAlreadyUsed(guest, ts), nil
	}

	if err := s.guestRepo.CommitCheckIn(ctx, guest.ID, ts); err != nil {
		if errors.Is(err, repository.ErrCheckInConflict) {
			// Another scanner won the race after our read. Re-fetch so the
			// rejection carries the authoritative check-in time.
			return s.resolveConflict(ctx, guest.ID, ts)
		}
		if errors.Is(err, repository.ErrGuestNotFound) {
			// Deleted between the read and the write.
			return &ScanResult{
				Outcome:   OutcomeRejected,
				Reason:    ReasonNotFound,
				Message:   msgGuestNotFound,
				Timestamp: ts,
			}, nil
		}
		return nil, fmt.Errorf("commit check-in: %w", err)
	}

	s.logger.Info("guest checked in",
		zap.String("guest_id", updated.ID),
		zap.String("name", updated.Name),
		zap.Time("check_in_time", ts),
	)
	return &ScanResult{
		Outcome:   OutcomeAccepted,
		Guest:     &updated,
		Message:   fmt.Sprintf("%s successfully checked in.", updated.Name),
		Timestamp: ts,
	}, nil
}

func (s *checkInService) resolveConflict(ctx context.Context, id string, ts time.Time) (*ScanResult, error) {
	guest, err := s.guestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGuestNotFound) {
			// Deleted between the conflict and the re-fetch.
			return &ScanResult{
				Outcome:   OutcomeRejected,
				Reason:    ReasonNotFound,
				Message:   msgGuestNotFound,
				Timestamp: ts,
			}, nil
		}
		return nil, fmt.Errorf("re-fetch guest after conflict: %w", err)
	}
	return s.rejectAlreadyUsed(guest, ts), nil
}

func (s *checkInService) rejectAlreadyUsed(guest *model.Guest, ts time.Time) *ScanResult {
	s.logger.Warn("pass re-use attempt",
		zap.String("guest_id", guest.ID),
		zap.String("name", guest.Name),
	)
	return &ScanResult{
		Outcome:   OutcomeRejected,
		Reason:    ReasonAlreadyUsed,
		Guest:     guest,
		Message:   msgAlreadyUsed,
		Timestamp: ts,
	}
}
