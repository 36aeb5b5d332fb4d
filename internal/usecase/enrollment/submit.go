package enrollment

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/BruksfildServices01/membership-api/internal/audit"
	domain "github.com/BruksfildServices01/membership-api/internal/domain/enrollment"
	"github.com/BruksfildServices01/membership-api/internal/httperr"
	"github.com/BruksfildServices01/membership-api/internal/models"
	"github.com/BruksfildServices01/membership-api/internal/security"
	"github.com/BruksfildServices01/membership-api/internal/storage"
	"github.com/BruksfildServices01/membership-api/internal/validators"
)

const (
	MaxBusinessDocuments = 5
	submitLockTTL        = 30 * time.Second
)

// ======================================================
// INPUT
// ======================================================

type SubmitInput struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Country     string
	City        string
	CompanyName string
	Interests   []string

	Logo      *storage.Upload
	Documents []storage.Upload
}

type SubmitResult struct {
	Enrollment *models.Enrollment
	Account    *models.User
}

// ParseInterests accepts a JSON array encoded as a string.
func ParseInterests(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}, nil
	}

	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, httperr.Validation("invalid_interests", "Interests must be a JSON array of strings.")
	}
	return out, nil
}

// ======================================================
// USE CASE
// ======================================================

type SubmitEnrollment struct {
	repo        domain.Repository
	policy      domain.Policy
	store       storage.Store
	locker      Locker
	notifier    Notifier
	audit       *audit.Dispatcher
	log         *slog.Logger
	checkDomain func(email string) bool
}

func NewSubmitEnrollment(
	repo domain.Repository,
	policy domain.Policy,
	store storage.Store,
	locker Locker,
	notifier Notifier,
	audit *audit.Dispatcher,
	log *slog.Logger,
) *SubmitEnrollment {
	return &SubmitEnrollment{
		repo:     repo,
		policy:   policy,
		store:    store,
		locker:   locker,
		notifier: notifier,
		audit:    audit,
		log:      log,
	}
}

// WithDomainCheck enables a DNS lookup of the applicant's email domain.
func (uc *SubmitEnrollment) WithDomainCheck(check func(email string) bool) *SubmitEnrollment {
	uc.checkDomain = check
	return uc
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *SubmitEnrollment) Execute(
	ctx context.Context,
	in SubmitInput,
) (*SubmitResult, error) {

	// --------------------------------------------------
	// 1. Validation
	// --------------------------------------------------
	in = normalize(in)
	if err := uc.validate(in); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. One submission per email at a time
	// --------------------------------------------------
	release, ok, err := uc.locker.Acquire(ctx, "enrollment:"+in.Email, submitLockTTL)
	switch {
	case err != nil:
		uc.log.WarnContext(ctx, "submission lock unavailable", "error", err)
	case !ok:
		return nil, httperr.Conflict("submission_in_progress", "A submission for this email is already being processed.")
	default:
		defer release()
	}

	// --------------------------------------------------
	// 3. Guards
	// --------------------------------------------------
	existing, err := uc.repo.FindUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil && uc.policy.RejectExistingAccount {
		return nil, errAccountExists
	}

	if uc.policy.RejectPendingDuplicate {
		pending, err := uc.repo.FindPendingByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if pending != nil {
			return nil, errPendingExists
		}
	}

	// --------------------------------------------------
	// 4. Uploads
	// --------------------------------------------------
	e := &models.Enrollment{
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		Email:             in.Email,
		Phone:             in.Phone,
		Country:           in.Country,
		City:              in.City,
		CompanyName:       in.CompanyName,
		Interests:         in.Interests,
		BusinessDocuments: []models.Asset{},
		Status:            string(domain.InitialStatus()),
	}

	if err := uc.storeUploads(ctx, e, in); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5. Persist (with account, depending on policy)
	// --------------------------------------------------
	var (
		account  *models.User
		password string
	)

	switch {
	case uc.policy.CreatesAccountOnSubmit() && existing == nil:
		plain, hash, err := security.NewCredentials(security.SubmissionPasswordBytes)
		if err != nil {
			uc.discardUploads(ctx, e)
			return nil, err
		}
		account = domain.NewAccount(e, hash)
		password = plain
		err = uc.repo.CreateEnrollmentWithUser(ctx, e, account)
		if err != nil {
			account, password = nil, ""
		}
		if err = uc.persistError(ctx, e, err, true); err != nil {
			return nil, err
		}

	case uc.policy.CreatesAccountOnSubmit():
		// guard disabled and the account already exists: link it
		domain.Link(e, existing)
		if err := uc.persistError(ctx, e, uc.repo.CreateEnrollment(ctx, e), false); err != nil {
			return nil, err
		}

	default:
		if err := uc.persistError(ctx, e, uc.repo.CreateEnrollment(ctx, e), false); err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// 6. Side effects
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		Action:   audit.ActionEnrollmentSubmitted,
		Entity:   "enrollment",
		EntityID: audit.Ref(e.ID),
		Metadata: map[string]string{"email": e.Email},
	})
	if account != nil {
		uc.audit.Dispatch(audit.Event{
			Action:   audit.ActionAccountProvisioned,
			Entity:   "user",
			EntityID: audit.Ref(account.ID),
			Metadata: map[string]string{"enrollment_id": e.ID.String()},
		})
	}

	uc.notifier.EnrollmentReceived(e, password)
	uc.notifier.EnrollmentAdminAlert(e)

	return &SubmitResult{Enrollment: e, Account: account}, nil
}

var (
	errAccountExists = httperr.Conflict("account_exists", "An account already exists with this email.")
	errPendingExists = httperr.Conflict("enrollment_pending", "An enrollment is already pending for this email.")
)

func normalize(in SubmitInput) SubmitInput {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = validators.NormalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Country = strings.TrimSpace(in.Country)
	in.City = strings.TrimSpace(in.City)
	in.CompanyName = strings.TrimSpace(in.CompanyName)

	interests := make([]string, 0, len(in.Interests))
	for _, i := range in.Interests {
		if i = strings.TrimSpace(i); i != "" {
			interests = append(interests, i)
		}
	}
	in.Interests = interests
	return in
}

func (uc *SubmitEnrollment) validate(in SubmitInput) error {
	if in.FirstName == "" || in.LastName == "" || in.Email == "" ||
		in.Phone == "" || in.Country == "" || in.City == "" {
		return httperr.Validation("missing_fields", "First name, last name, email, phone, country and city are required.")
	}

	if !validators.IsEmailSyntaxValid(in.Email) {
		return httperr.Validation("invalid_email", "Invalid email format.")
	}

	if uc.checkDomain != nil && !uc.checkDomain(in.Email) {
		return httperr.Validation("invalid_email_domain", "The email domain does not appear to be valid.")
	}

	if len(in.Documents) > MaxBusinessDocuments {
		return httperr.Validation("too_many_documents", "At most 5 business documents are accepted.")
	}

	return nil
}

func (uc *SubmitEnrollment) storeUploads(ctx context.Context, e *models.Enrollment, in SubmitInput) error {
	if in.Logo != nil {
		asset, err := uc.store.Put(ctx, storage.FolderLogos, *in.Logo)
		if err != nil {
			return err
		}
		e.CompanyLogo = &asset
	}

	for _, doc := range in.Documents {
		asset, err := uc.store.Put(ctx, storage.FolderDocuments, doc)
		if err != nil {
			uc.discardUploads(ctx, e)
			return err
		}
		e.BusinessDocuments = append(e.BusinessDocuments, asset)
	}
	return nil
}

// discardUploads removes assets of an enrollment that was never stored.
func (uc *SubmitEnrollment) discardUploads(ctx context.Context, e *models.Enrollment) {
	assets := append([]models.Asset(nil), e.BusinessDocuments...)
	if e.CompanyLogo != nil {
		assets = append(assets, *e.CompanyLogo)
	}

	for _, a := range assets {
		if err := uc.store.Delete(ctx, a.PublicID); err != nil {
			uc.log.WarnContext(ctx, "orphan upload not removed", "public_id", a.PublicID, "error", err)
		}
	}
}

// persistError maps a duplicate key raised by a concurrent submission to the
// guard that would have caught it. withAccount tells whether a user row was
// part of the insert.
func (uc *SubmitEnrollment) persistError(ctx context.Context, e *models.Enrollment, err error, withAccount bool) error {
	if err == nil {
		return nil
	}

	uc.discardUploads(ctx, e)

	if !errors.Is(err, models.ErrDuplicate) {
		return err
	}

	if withAccount {
		if u, lookupErr := uc.repo.FindUserByEmail(ctx, e.Email); lookupErr == nil && u != nil {
			return errAccountExists
		}
	}
	return errPendingExists
}
