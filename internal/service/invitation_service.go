package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"galapass/guesthub/internal/config"
	"galapass/guesthub/internal/model"
	"galapass/guesthub/internal/repository"
	"galapass/guesthub/pkg/queue"
)

const defaultTemplateBody = "<p>Dear {name},</p>" +
	"<p>We are honored to invite you to the {event}. Join us for a night of celebration at {location}.</p>" +
	"<p>Please confirm your attendance by clicking the button below.</p>" +
	`<p><a href="{confirmUrl}">Confirm Attendance</a></p>`

// SendReport summarizes a batch enqueue: which guests were queued and which
// ids could not be.
type SendReport struct {
	Queued  []string `json:"queued"`
	Skipped []string `json:"skipped,omitempty"`
}

// InvitationService manages the invitation template and drives email delivery
// through the job queue. Sends are asynchronous: the HTTP path only enqueues,
// the worker delivers and flips the invitation flag on success.
type InvitationService interface {
	GetTemplate(ctx context.Context) (*model.EmailTemplate, error)
	SaveTemplate(ctx context.Context, tpl *model.EmailTemplate) error
	SendInvitations(ctx context.Context, guestIDs []string) (*SendReport, error)
	EnqueuePassEmail(ctx context.Context, guestID string) error
	ProcessJob(ctx context.Context, job *queue.Job) error
}

type invitationService struct {
	guestRepo    repository.GuestRepository
	templateRepo repository.TemplateRepository
	jobs         queue.Queue
	sender       MailSender
	eventCfg     config.EventConfig
	invCfg       config.InvitationConfig
	logger       *zap.Logger
}

func NewInvitationService(
	guestRepo repository.GuestRepository,
	templateRepo repository.TemplateRepository,
	jobs queue.Queue,
	sender MailSender,
	eventCfg config.EventConfig,
	invCfg config.InvitationConfig,
	logger *zap.Logger,
) InvitationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &invitationService{
		guestRepo:    guestRepo,
		templateRepo: templateRepo,
		jobs:         jobs,
		sender:       sender,
		eventCfg:     eventCfg,
		invCfg:       invCfg,
		logger:       logger,
	}
}

// GetTemplate returns the saved template, or the built-in default when the
// organizer has never edited one.
func (s *invitationService) GetTemplate(ctx context.Context) (*model.EmailTemplate, error) {
	tpl, err := s.templateRepo.Get(ctx)
	if errors.Is(err, repository.ErrTemplateNotFound) {
		return s.defaultTemplate(), nil
	}
	if err != nil {
		return nil, err
	}
	return tpl, nil
}

func (s *invitationService) SaveTemplate(ctx context.Context, tpl *model.EmailTemplate) error {
	if strings.TrimSpace(tpl.Subject) == "" {
		return fmt.Errorf("%w: subject", ErrMissingField)
	}
	if strings.TrimSpace(tpl.Body) == "" {
		return fmt.Errorf("%w: body", ErrMissingField)
	}
	tpl.UpdatedAt = time.Now()
	return s.templateRepo.Save(ctx, tpl)
}

// SendInvitations enqueues one invitation job per guest id. Guests without an
// email address are skipped up front; unknown ids are skipped too, since the
// roster may have changed since the operator loaded the list.
func (s *invitationService) SendInvitations(ctx context.Context, guestIDs []string) (*SendReport, error) {
	report := &SendReport{}
	for _, id := range guestIDs {
		guest, err := s.guestRepo.GetByID(ctx, id)
		if errors.Is(err, repository.ErrGuestNotFound) {
			report.Skipped = append(report.Skipped, id)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("fetch guest %s: %w", id, err)
		}
		if strings.TrimSpace(guest.Email) == "" {
			report.Skipped = append(report.Skipped, id)
			continue
		}
		job, err := queue.NewInvitationJob(queue.InvitationPayload{GuestID: id})
		if err != nil {
			return nil, fmt.Errorf("build invitation job: %w", err)
		}
		if err := s.jobs.Enqueue(ctx, job); err != nil {
			return nil, fmt.Errorf("enqueue invitation for %s: %w", id, err)
		}
		report.Queued = append(report.Queued, id)
	}
	s.logger.Info("invitations queued",
		zap.Int("queued", len(report.Queued)),
		zap.Int("skipped", len(report.Skipped)),
	)
	return report, nil
}

// EnqueuePassEmail queues the pass email sent right after a successful RSVP.
func (s *invitationService) EnqueuePassEmail(ctx context.Context, guestID string) error {
	job, err := queue.NewPassEmailJob(queue.InvitationPayload{GuestID: guestID})
	if err != nil {
		return fmt.Errorf("build pass email job: %w", err)
	}
	return s.jobs.Enqueue(ctx, job)
}

// ProcessJob is the worker entry point for one dequeued job. A nil return
// acknowledges the job; an error sends it back through the retry path. The
// guest is re-read at send time and the invitation flag is only flipped after
// the mail server accepted the message.
func (s *invitationService) ProcessJob(ctx context.Context, job *queue.Job) error {
	var payload queue.InvitationPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		s.logger.Error("dropping malformed job",
			zap.String("job_id", job.ID),
			zap.Error(err),
		)
		return nil
	}

	guest, err := s.guestRepo.GetByID(ctx, payload.GuestID)
	if errors.Is(err, repository.ErrGuestNotFound) {
		s.logger.Warn("guest deleted before send, dropping job",
			zap.String("job_id", job.ID),
			zap.String("guest_id", payload.GuestID),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetch guest %s: %w", payload.GuestID, err)
	}
	if strings.TrimSpace(guest.Email) == "" {
		s.logger.Warn("guest has no email, dropping job",
			zap.String("job_id", job.ID),
			zap.String("guest_id", guest.ID),
		)
		return nil
	}

	tpl, err := s.GetTemplate(ctx)
	if err != nil {
		return fmt.Errorf("load template: %w", err)
	}
	subject := s.renderTemplate(tpl.Subject, guest)
	body := s.renderTemplate(tpl.Body, guest)

	if err := s.sender.Send(ctx, guest.Email, subject, body); err != nil {
		return fmt.Errorf("send to %s: %w", guest.Email, err)
	}

	if job.Type == queue.JobTypeInvitation {
		if err := s.guestRepo.MarkInvited(ctx, guest.ID, time.Now()); err != nil {
			if errors.Is(err, repository.ErrGuestNotFound) {
				return nil
			}
			return fmt.Errorf("mark invited %s: %w", guest.ID, err)
		}
	}
	s.logger.Info("email sent",
		zap.String("job_id", job.ID),
		zap.String("job_type", string(job.Type)),
		zap.String("guest_id", guest.ID),
	)
	return nil
}

func (s *invitationService) defaultTemplate() *model.EmailTemplate {
	return &model.EmailTemplate{
		Subject: s.invCfg.Subject,
		Body:    defaultTemplateBody,
	}
}

func (s *invitationService) renderTemplate(text string, guest *model.Guest) string {
	confirmURL := fmt.Sprintf("%s/api/v1/rsvp/%s/confirm", strings.TrimRight(s.eventCfg.BaseURL, "/"), guest.ID)
	passURL := fmt.Sprintf("%s/api/v1/passes/%s", strings.TrimRight(s.eventCfg.BaseURL, "/"), guest.ID)
	return strings.NewReplacer(
		"{name}", guest.Name,
		"{passId}", guest.ID,
		"{event}", s.eventCfg.Name,
		"{date}", s.eventCfg.Date,
		"{time}", s.eventCfg.Time,
		"{location}", s.eventCfg.Location,
		"{subLocation}", s.eventCfg.SubLocation,
		"{confirmUrl}", confirmURL,
		"{passUrl}", passURL,
	).Replace(text)
}
