package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"galapass/guesthub/internal/config"
	"galapass/guesthub/internal/model"
	"galapass/guesthub/internal/repository"
	"galapass/guesthub/internal/roster"
	"galapass/guesthub/pkg/crypto"
)

const (
	deleteTokenPrefix = "guesthub:confirm:guest-delete:"
	deleteTokenTTL    = 5 * time.Minute
)

// RSVPRequest is a self-service registration. All descriptive fields are
// required for guest-initiated RSVPs.
type RSVPRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	CountryCode  string `json:"country_code" binding:"required"`
	Mobile       string `json:"mobile" binding:"required"`
	Organization string `json:"organization" binding:"required"`
	Designation  string `json:"designation" binding:"required"`
}

// ImportRow is one pre-parsed spreadsheet row from a bulk import. Missing
// fields are defaulted; parsing the spreadsheet itself happens client-side.
type ImportRow struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email"`
	CountryCode   string `json:"country_code"`
	Mobile        string `json:"mobile"`
	Organization  string `json:"organization"`
	Designation   string `json:"designation"`
	AwardCategory string `json:"award_category"`
}

// EventStats are the headline attendance counters.
type EventStats struct {
	Total           int `json:"total"`
	Invited         int `json:"invited"`
	Confirmed       int `json:"confirmed"`
	CheckedIn       int `json:"checked_in"`
	AwardRecipients int `json:"award_recipients"`
}

// OrgStats is the per-organization attendance breakdown.
type OrgStats struct {
	Name      string `json:"name"`
	Total     int    `json:"total"`
	Invited   int    `json:"invited"`
	Confirmed int    `json:"confirmed"`
	CheckedIn int    `json:"checked_in"`
}

type GuestService interface {
	RegisterRSVP(ctx context.Context, req RSVPRequest) (*model.Guest, error)
	ConfirmAttendance(ctx context.Context, id string) (*model.Guest, error)
	GetGuest(ctx context.Context, id string) (*model.Guest, error)
	ListGuests(ctx context.Context) ([]model.Guest, error)
	CreateManual(ctx context.Context, row ImportRow) (*model.Guest, error)
	BulkImport(ctx context.Context, rows []ImportRow) ([]model.Guest, error)
	UpdateGuest(ctx context.Context, guest *model.Guest) error
	RequestDelete(ctx context.Context, id string) (string, error)
	ConfirmDelete(ctx context.Context, id string, token string) error
	Stats(ctx context.Context) (*EventStats, error)
	OrgStats(ctx context.Context) ([]OrgStats, error)
}

type guestService struct {
	guestRepo    repository.GuestRepository
	categoryRepo repository.CategoryRepository
	stateStore   repository.StateStore
	rsvpCfg      config.RSVPConfig
	logger       *zap.Logger
	now          func() time.Time
}

func NewGuestService(
	guestRepo repository.GuestRepository,
	categoryRepo repository.CategoryRepository,
	stateStore repository.StateStore,
	rsvpCfg config.RSVPConfig,
	logger *zap.Logger,
) GuestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &guestService{
		guestRepo:    guestRepo,
		categoryRepo: categoryRepo,
		stateStore:   stateStore,
		rsvpCfg:      rsvpCfg,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *guestService) RegisterRSVP(ctx context.Context, req RSVPRequest) (*model.Guest, error) {
	for field, value := range map[string]string{
		"name":         req.Name,
		"email":        req.Email,
		"country_code": req.CountryCode,
		"mobile":       req.Mobile,
		"organization": req.Organization,
		"designation":  req.Designation,
	} {
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, field)
		}
	}

	now := s.now()
	category := roster.Classify(
		req.Organization,
		s.rsvpCfg.NomineeOrganizations,
		s.rsvpCfg.NomineeCategory,
		s.rsvpCfg.DefaultCategory,
	)
	category = s.validCategoryOrDefault(ctx, category)

	guest := model.Guest{
		ID:            crypto.GeneratePassID(),
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.TrimSpace(req.Email),
		CountryCode:   strings.TrimSpace(req.CountryCode),
		Mobile:        strings.TrimSpace(req.Mobile),
		Organization:  strings.TrimSpace(req.Organization),
		Designation:   strings.TrimSpace(req.Designation),
		AwardCategory: category,
		RSVPDate:      now,
	}
	// Registering is itself a confirmation of attendance.
	guest = roster.MarkConfirmed(guest, now)

	if err := s.guestRepo.Create(ctx, &guest); err != nil {
		return nil, fmt.Errorf("create guest: %w", err)
	}
	s.logger.Info("guest registered",
		zap.String("guest_id", guest.ID),
		zap.String("organization", guest.Organization),
		zap.String("award_category", guest.AwardCategory),
	)
	return &guest, nil
}

// ConfirmAttendance marks a guest as confirmed, typically from the link in an
// invitation email. Idempotent.
func (s *guestService) ConfirmAttendance(ctx context.Context, id string) (*model.Guest, error) {
	if err := s.guestRepo.MarkConfirmed(ctx, id, s.now()); err != nil {
		return nil, err
	}
	return s.guestRepo.GetByID(ctx, id)
}

func (s *guestService) GetGuest(ctx context.Context, id string) (*model.Guest, error) {
	return s.guestRepo.GetByID(ctx, id)
}

func (s *guestService) ListGuests(ctx context.Context) ([]model.Guest, error) {
	return s.guestRepo.List(ctx)
}

func (s *guestService) CreateManual(ctx context.Context, row ImportRow) (*model.Guest, error) {
	guest := s.guestFromRow(ctx, row)
	if err := s.guestRepo.Create(ctx, &guest); err != nil {
		return nil, fmt.Errorf("create guest: %w", err)
	}
	return &guest, nil
}

func (s *guestService) BulkImport(ctx context.Context, rows []ImportRow) ([]model.Guest, error) {
	guests := make([]model.Guest, 0, len(rows))
	for _, row := range rows {
		if strings.TrimSpace(row.Name) == "" {
			continue
		}
		guests = append(guests, s.guestFromRow(ctx, row))
	}
	if err := s.guestRepo.BulkCreate(ctx, guests); err != nil {
		return nil, fmt.Errorf("bulk create guests: %w", err)
	}
	s.logger.Info("guests imported", zap.Int("count", len(guests)))
	return guests, nil
}

// UpdateGuest writes descriptive fields. The repository layer refuses to
// touch the id or the check-in latch; the category must be a member of the
// current set at assignment time.
func (s *guestService) UpdateGuest(ctx context.Context, guest *model.Guest) error {
	if strings.TrimSpace(guest.Name) == "" {
		return fmt.Errorf("%w: name", ErrMissingField)
	}
	if guest.AwardCategory != "" && guest.AwardCategory != s.rsvpCfg.DefaultCategory {
		exists, err := s.categoryRepo.ExistsByName(ctx, guest.AwardCategory)
		if err != nil {
			return fmt.Errorf("check category: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: %s", ErrUnknownCategory, guest.AwardCategory)
		}
	}
	return s.guestRepo.Update(ctx, guest)
}

// RequestDelete is phase one of guest removal: it verifies the guest exists
// and hands back a short-lived token the caller must echo to ConfirmDelete.
func (s *guestService) RequestDelete(ctx context.Context, id string) (string, error) {
	if _, err := s.guestRepo.GetByID(ctx, id); err != nil {
		return "", err
	}
	token, err := crypto.GenerateConfirmToken()
	if err != nil {
		return "", fmt.Errorf("generate confirm token: %w", err)
	}
	if err := s.stateStore.Set(ctx, deleteTokenPrefix+id, []byte(token), deleteTokenTTL); err != nil {
		return "", fmt.Errorf("store confirm token: %w", err)
	}
	return token, nil
}

func (s *guestService) ConfirmDelete(ctx context.Context, id string, token string) error {
	stored, err := s.stateStore.GetDel(ctx, deleteTokenPrefix+id)
	if err != nil {
		return fmt.Errorf("load confirm token: %w", err)
	}
	if len(stored) == 0 || string(stored) != token {
		return ErrConfirmTokenInvalid
	}
	if err := s.guestRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("guest deleted", zap.String("guest_id", id))
	return nil
}

func (s *guestService) Stats(ctx context.Context) (*EventStats, error) {
	guests, err := s.guestRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	stats := &EventStats{Total: len(guests)}
	for _, g := range guests {
		if g.InvitationSent {
			stats.Invited++
		}
		if g.RSVPConfirmed {
			stats.Confirmed++
		}
		if g.CheckedIn {
			stats.CheckedIn++
		}
		if g.AwardCategory != "" && g.AwardCategory != s.rsvpCfg.DefaultCategory {
			stats.AwardRecipients++
		}
	}
	return stats, nil
}

func (s *guestService) OrgStats(ctx context.Context) ([]OrgStats, error) {
	guests, err := s.guestRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	byOrg := make(map[string]*OrgStats)
	for _, g := range guests {
		org := strings.TrimSpace(g.Organization)
		if org == "" {
			org = "Unknown"
		}
		entry, ok := byOrg[org]
		if !ok {
			entry = &OrgStats{Name: org}
			byOrg[org] = entry
		}
		entry.Total++
		if g.InvitationSent {
			entry.Invited++
		}
		if g.RSVPConfirmed {
			entry.Confirmed++
		}
		if g.CheckedIn {
			entry.CheckedIn++
		}
	}
	stats := make([]OrgStats, 0, len(byOrg))
	for _, entry := range byOrg {
		stats = append(stats, *entry)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Total != stats[j].Total {
			return stats[i].Total > stats[j].Total
		}
		return stats[i].Name < stats[j].Name
	})
	return stats, nil
}

func (s *guestService) guestFromRow(ctx context.Context, row ImportRow) model.Guest {
	category := strings.TrimSpace(row.AwardCategory)
	if category == "" {
		category = s.rsvpCfg.DefaultCategory
	}
	category = s.validCategoryOrDefault(ctx, category)

	return model.Guest{
		ID:            crypto.GeneratePassID(),
		Name:          strings.TrimSpace(row.Name),
		Email:         strings.TrimSpace(row.Email),
		CountryCode:   strings.TrimSpace(row.CountryCode),
		Mobile:        strings.TrimSpace(row.Mobile),
		Organization:  strings.TrimSpace(row.Organization),
		Designation:   strings.TrimSpace(row.Designation),
		AwardCategory: category,
		RSVPDate:      s.now(),
	}
}

// validCategoryOrDefault keeps the membership invariant: a label outside the
// current category set collapses to the protected sentinel.
func (s *guestService) validCategoryOrDefault(ctx context.Context, category string) string {
	if category == s.rsvpCfg.DefaultCategory {
		return category
	}
	exists, err := s.categoryRepo.ExistsByName(ctx, category)
	if err != nil {
		s.logger.Warn("category lookup failed, using default",
			zap.String("category", category),
			zap.Error(err),
		)
		return s.rsvpCfg.DefaultCategory
	}
	if !exists {
		return s.rsvpCfg.DefaultCategory
	}
	return category
}
