package enrollment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/membership-api/internal/audit"
	domain "github.com/BruksfildServices01/membership-api/internal/domain/enrollment"
	"github.com/BruksfildServices01/membership-api/internal/httperr"
	"github.com/BruksfildServices01/membership-api/internal/models"
	"github.com/BruksfildServices01/membership-api/internal/security"
)

type ReviewEnrollment struct {
	repo     domain.Repository
	notifier Notifier
	audit    *audit.Dispatcher
	log      *slog.Logger
	now      func() time.Time
}

func NewReviewEnrollment(
	repo domain.Repository,
	notifier Notifier,
	audit *audit.Dispatcher,
	log *slog.Logger,
) *ReviewEnrollment {
	return &ReviewEnrollment{
		repo:     repo,
		notifier: notifier,
		audit:    audit,
		log:      log,
		now:      time.Now,
	}
}

// provisioned describes the account resolved for an approved enrollment.
type provisioned struct {
	user     *models.User
	password string
	created  bool
}

func (uc *ReviewEnrollment) Execute(
	ctx context.Context,
	id uuid.UUID,
	status string,
	actorID uuid.UUID,
) (*models.Enrollment, error) {

	to, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	e, err := uc.repo.GetEnrollment(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, errEnrollmentNotFound
	}
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Status is committed before any account work
	// --------------------------------------------------
	if err := domain.Transition(e, to, uc.now()); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateEnrollment(ctx, e); err != nil {
		return nil, err
	}

	action := audit.ActionEnrollmentApproved
	if to == domain.StatusRejected {
		action = audit.ActionEnrollmentRejected
	}
	uc.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(actorID),
		Action:   action,
		Entity:   "enrollment",
		EntityID: audit.Ref(e.ID),
	})

	if to == domain.StatusRejected {
		uc.notifier.EnrollmentRejected(e)
		return e, nil
	}

	// --------------------------------------------------
	// Approval: resolve or provision the account
	// --------------------------------------------------
	acc, err := uc.provision(ctx, e)
	if err != nil {
		uc.log.ErrorContext(ctx, "account provisioning failed after approval",
			"enrollment_id", e.ID,
			"email", e.Email,
			"error", err,
		)
		return e, nil
	}

	e.User = acc.user

	if acc.created {
		uc.audit.Dispatch(audit.Event{
			ActorID:  audit.Ref(actorID),
			Action:   audit.ActionAccountProvisioned,
			Entity:   "user",
			EntityID: audit.Ref(acc.user.ID),
			Metadata: map[string]string{"enrollment_id": e.ID.String()},
		})
		uc.notifier.AccountWelcome(e, acc.user, acc.password)
	} else {
		uc.notifier.EnrollmentApproved(e, acc.user)
	}

	return e, nil
}

func (uc *ReviewEnrollment) provision(ctx context.Context, e *models.Enrollment) (provisioned, error) {
	user, err := uc.resolveUser(ctx, e)
	if err != nil {
		return provisioned{}, err
	}

	var acc provisioned
	if user != nil {
		acc.user = user
	} else {
		acc, err = uc.createAccount(ctx, e)
		if err != nil {
			return provisioned{}, err
		}
	}

	if e.UserID == nil || *e.UserID != acc.user.ID {
		previous := e.UserID
		domain.Link(e, acc.user)
		if err := uc.repo.UpdateEnrollment(ctx, e); err != nil {
			e.UserID = previous
			return provisioned{}, fmt.Errorf("link enrollment to user: %w", err)
		}
	}

	if domain.NeedsPhotoSync(e, acc.user) {
		logo := *e.CompanyLogo
		if err := uc.repo.UpdateUserPhoto(ctx, acc.user.ID, &logo); err != nil {
			uc.log.WarnContext(ctx, "user photo not synced", "user_id", acc.user.ID, "error", err)
		} else {
			acc.user.Photo = &logo
		}
	}

	return acc, nil
}

// resolveUser looks the account up by link first, then by email.
func (uc *ReviewEnrollment) resolveUser(ctx context.Context, e *models.Enrollment) (*models.User, error) {
	if e.UserID != nil {
		u, err := uc.repo.FindUserByID(ctx, *e.UserID)
		if err != nil {
			return nil, err
		}
		if u != nil {
			return u, nil
		}
	}
	return uc.repo.FindUserByEmail(ctx, e.Email)
}

func (uc *ReviewEnrollment) createAccount(ctx context.Context, e *models.Enrollment) (provisioned, error) {
	plain, hash, err := security.NewCredentials(security.ApprovalPasswordBytes)
	if err != nil {
		return provisioned{}, err
	}

	u := domain.NewAccount(e, hash)
	err = uc.repo.CreateUser(ctx, u)
	if err == nil {
		return provisioned{user: u, password: plain, created: true}, nil
	}
	if !errors.Is(err, models.ErrDuplicate) {
		return provisioned{}, err
	}

	// another request created the account first
	existing, lookupErr := uc.repo.FindUserByEmail(ctx, e.Email)
	if lookupErr != nil {
		return provisioned{}, lookupErr
	}
	if existing == nil {
		return provisioned{}, err
	}
	return provisioned{user: existing}, nil
}

var errEnrollmentNotFound = httperr.NotFoundErr("enrollment_not_found", "Enrollment not found.")
