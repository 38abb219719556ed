package service

import (
	"context"
	"errors"
	"testing"

	"galapass/guesthub/internal/config"
	"galapass/guesthub/internal/model"
	"galapass/guesthub/internal/repository"
)

func newGuestService(t *testing.T) (GuestService, repository.GuestRepository) {
	t.Helper()
	guestRepo := repository.NewMemoryGuestRepository()
	categoryRepo := repository.NewMemoryCategoryRepository()
	store := repository.NewMemoryStateStore()
	catSvc := NewCategoryService(categoryRepo, store, model.DefaultCategory, nil)
	if err := catSvc.SeedDefaults(context.Background()); err != nil {
		t.Fatalf("seed categories: %v", err)
	}
	cfg := config.RSVPConfig{
		NomineeOrganizations: []string{"Emirates", "Maldivian"},
		NomineeCategory:      "Nominee / Partner",
		DefaultCategory:      model.DefaultCategory,
	}
	return NewGuestService(guestRepo, categoryRepo, store, cfg, nil), guestRepo
}

func validRSVP() RSVPRequest {
	return RSVPRequest{
		Name:         "Alice",
		Email:        "alice@example.com",
		CountryCode:  "+960",
		Mobile:       "7771234",
		Organization: "Emirates Airlines",
		Designation:  "Manager",
	}
}

func TestRegisterRSVPClassifiesNominee(t *testing.T) {
	svc, _ := newGuestService(t)

	guest, err := svc.RegisterRSVP(context.Background(), validRSVP())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if guest.ID == "" {
		t.Fatal("pass id not assigned")
	}
	if guest.AwardCategory != "Nominee / Partner" {
		t.Fatalf("category = %q, want Nominee / Partner", guest.AwardCategory)
	}
	if !guest.RSVPConfirmed || guest.RSVPConfirmedAt == nil {
		t.Fatal("self-service registration must confirm attendance")
	}
	if guest.CheckedIn || guest.InvitationSent {
		t.Fatal("new guest must start without invitation or check-in flags")
	}
}

func TestRegisterRSVPDefaultsUnknownOrg(t *testing.T) {
	svc, _ := newGuestService(t)

	req := validRSVP()
	req.Organization = "Acme Corp"
	guest, err := svc.RegisterRSVP(context.Background(), req)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if guest.AwardCategory != model.DefaultCategory {
		t.Fatalf("category = %q, want default", guest.AwardCategory)
	}
}

func TestRegisterRSVPMissingField(t *testing.T) {
	svc, _ := newGuestService(t)

	req := validRSVP()
	req.Mobile = "   "
	if _, err := svc.RegisterRSVP(context.Background(), req); !errors.Is(err, ErrMissingField) {
		t.Fatalf("err = %v, want ErrMissingField", err)
	}
}

func TestBulkImportDefaults(t *testing.T) {
	svc, _ := newGuestService(t)

	guests, err := svc.BulkImport(context.Background(), []ImportRow{
		{Name: "Bob", Organization: "Acme"},
		{Name: "  "}, // skipped, no name
		{Name: "Carol", AwardCategory: "VIP"},
		{Name: "Dave", AwardCategory: "Nonexistent Category"},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(guests) != 3 {
		t.Fatalf("imported %d guests, want 3", len(guests))
	}
	if guests[0].AwardCategory != model.DefaultCategory {
		t.Fatalf("row without category = %q, want default", guests[0].AwardCategory)
	}
	if guests[1].AwardCategory != "VIP" {
		t.Fatalf("explicit category = %q, want VIP", guests[1].AwardCategory)
	}
	if guests[2].AwardCategory != model.DefaultCategory {
		t.Fatalf("unknown category = %q, want default", guests[2].AwardCategory)
	}
	for _, g := range guests {
		if g.RSVPConfirmed || g.InvitationSent || g.CheckedIn {
			t.Fatalf("imported guest %s must start with all flags clear", g.Name)
		}
	}
}

func TestUpdateGuestRejectsUnknownCategory(t *testing.T) {
	svc, _ := newGuestService(t)
	guest, err := svc.RegisterRSVP(context.Background(), validRSVP())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	guest.AwardCategory = "Made Up"
	if err := svc.UpdateGuest(context.Background(), guest); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("err = %v, want ErrUnknownCategory", err)
	}
}

func TestTwoPhaseDelete(t *testing.T) {
	svc, repo := newGuestService(t)
	ctx := context.Background()
	guest, err := svc.RegisterRSVP(ctx, validRSVP())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.ConfirmDelete(ctx, guest.ID, "never-issued"); !errors.Is(err, ErrConfirmTokenInvalid) {
		t.Fatalf("unsolicited confirm err = %v, want ErrConfirmTokenInvalid", err)
	}

	token, err := svc.RequestDelete(ctx, guest.ID)
	if err != nil {
		t.Fatalf("request delete: %v", err)
	}
	if err := svc.ConfirmDelete(ctx, guest.ID, token); err != nil {
		t.Fatalf("confirm delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, guest.ID); !errors.Is(err, repository.ErrGuestNotFound) {
		t.Fatalf("guest still present after delete: %v", err)
	}

	// The token is single use.
	if err := svc.ConfirmDelete(ctx, guest.ID, token); !errors.Is(err, ErrConfirmTokenInvalid) {
		t.Fatalf("reused token err = %v, want ErrConfirmTokenInvalid", err)
	}
}

func TestStats(t *testing.T) {
	svc, repo := newGuestService(t)
	ctx := context.Background()

	a, _ := svc.RegisterRSVP(ctx, validRSVP())
	req := validRSVP()
	req.Name = "Bob"
	req.Email = "bob@example.com"
	req.Organization = "Acme Corp"
	if _, err := svc.RegisterRSVP(ctx, req); err != nil {
		t.Fatalf("register bob: %v", err)
	}
	if err := repo.CommitCheckIn(ctx, a.ID, a.RSVPDate); err != nil {
		t.Fatalf("check in: %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 2 || stats.Confirmed != 2 || stats.CheckedIn != 1 || stats.AwardRecipients != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	orgs, err := svc.OrgStats(ctx)
	if err != nil {
		t.Fatalf("org stats: %v", err)
	}
	if len(orgs) != 2 {
		t.Fatalf("got %d orgs, want 2", len(orgs))
	}
}
