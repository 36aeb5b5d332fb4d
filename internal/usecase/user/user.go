package user

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/membership-api/internal/audit"
	"github.com/BruksfildServices01/membership-api/internal/httperr"
	"github.com/BruksfildServices01/membership-api/internal/models"
	"github.com/BruksfildServices01/membership-api/internal/security"
	"github.com/BruksfildServices01/membership-api/internal/storage"
	"github.com/BruksfildServices01/membership-api/internal/validators"
)

type Repository interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context, role string) ([]models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUserPassword(ctx context.Context, id uuid.UUID, hash string) error
	UpdateUserRole(ctx context.Context, id uuid.UUID, role string) error
	UpdateUserProfile(ctx context.Context, u *models.User) error
	DeleteUserCascade(ctx context.Context, id uuid.UUID) error
}

type TokenIssuer interface {
	Issue(userID uuid.UUID, role string) (string, error)
}

type Notifier interface {
	PasswordReset(u *models.User, password string)
}

var (
	errInvalidCredentials = httperr.UnauthorizedErr("invalid_credentials", "Invalid email or password.")
	errUserNotFound       = httperr.NotFoundErr("user_not_found", "User not found.")
	errInvalidRole        = httperr.Validation("invalid_role", "Role must be admin or member.")
)

const MinPasswordLength = 8

type Service struct {
	repo     Repository
	tokens   TokenIssuer
	store    storage.Store
	notifier Notifier
	audit    *audit.Dispatcher
	log      *slog.Logger
}

func NewService(
	repo Repository,
	tokens TokenIssuer,
	store storage.Store,
	notifier Notifier,
	audit *audit.Dispatcher,
	log *slog.Logger,
) *Service {
	return &Service{
		repo:     repo,
		tokens:   tokens,
		store:    store,
		notifier: notifier,
		audit:    audit,
		log:      log,
	}
}

// Login checks credentials and returns a signed token with the user.
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	u, err := s.repo.FindUserByEmail(ctx, validators.NormalizeEmail(email))
	if err != nil {
		return "", nil, err
	}
	if u == nil || !security.CheckPassword(u.PasswordHash, password) {
		return "", nil, errInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.repo.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errUserNotFound
	}
	return u, nil
}

// List returns all users, or those with role when it is set.
func (s *Service) List(ctx context.Context, role string) ([]models.User, error) {
	if role != "" && !validRole(role) {
		return nil, errInvalidRole
	}
	return s.repo.ListUsers(ctx, role)
}

func validRole(role string) bool {
	return role == models.RoleAdmin || role == models.RoleMember
}

// UpdateRole sets the role of another user.
func (s *Service) UpdateRole(ctx context.Context, id uuid.UUID, role string, actorID uuid.UUID) (*models.User, error) {
	if !validRole(role) {
		return nil, errInvalidRole
	}
	if id == actorID {
		return nil, httperr.ForbiddenErr("cannot_change_own_role", "Administrators cannot change their own role.")
	}

	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := u.Role

	err = s.repo.UpdateUserRole(ctx, id, role)
	if errors.Is(err, models.ErrNotFound) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Role = role

	s.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(actorID),
		Action:   audit.ActionUserRoleChanged,
		Entity:   "user",
		EntityID: audit.Ref(id),
		Metadata: map[string]string{"from": previous, "to": role},
	})
	return u, nil
}

// Delete removes a user together with their enrollments.
func (s *Service) Delete(ctx context.Context, id, actorID uuid.UUID) error {
	if id == actorID {
		return httperr.Validation("cannot_delete_self", "Administrators cannot delete their own account.")
	}

	err := s.repo.DeleteUserCascade(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return errUserNotFound
	}
	if err != nil {
		return err
	}

	s.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(actorID),
		Action:   audit.ActionUserDeleted,
		Entity:   "user",
		EntityID: audit.Ref(id),
	})
	return nil
}

// ChangePassword replaces the caller's password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	if len(next) < MinPasswordLength {
		return httperr.Validation("weak_password", "The new password must have at least 8 characters.")
	}
	if len(next) > security.MaxPasswordBytes {
		return httperr.Validation("password_too_long", "The new password must not exceed 72 bytes.")
	}

	u, err := s.repo.FindUserByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return errUserNotFound
	}
	if !security.CheckPassword(u.PasswordHash, current) {
		return httperr.UnauthorizedErr("invalid_current_password", "The current password is incorrect.")
	}

	hash, err := security.HashPassword(next)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateUserPassword(ctx, id, hash); err != nil {
		return err
	}

	s.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(id),
		Action:   audit.ActionPasswordChanged,
		Entity:   "user",
		EntityID: audit.Ref(id),
	})
	return nil
}

// ResetPassword replaces the password of the account owning email with a
// generated one and mails it. Unknown addresses succeed silently.
func (s *Service) ResetPassword(ctx context.Context, email string) error {
	u, err := s.repo.FindUserByEmail(ctx, validators.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if u == nil {
		return nil
	}

	password, hash, err := security.NewCredentials(security.ApprovalPasswordBytes)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateUserPassword(ctx, u.ID, hash); err != nil {
		return err
	}

	s.notifier.PasswordReset(u, password)

	s.audit.Dispatch(audit.Event{
		Action:   audit.ActionPasswordReset,
		Entity:   "user",
		EntityID: audit.Ref(u.ID),
	})
	return nil
}

// ProfileInput is a partial update of the caller's own profile: nil fields
// are left unchanged.
type ProfileInput struct {
	FirstName                 *string
	LastName                  *string
	Phone                     *string
	CompanyName               *string
	CompanyAddress            *string
	CompanyRegistrationNumber *string

	Photo *storage.Upload
}

// UpdateProfile applies in to the user's own record. A new photo replaces the
// stored one; the previous file is removed only when it was uploaded as a
// profile photo, since an approved enrollment's logo is shared with it.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileInput) (*models.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := setName(&u.FirstName, in.FirstName); err != nil {
		return nil, err
	}
	if err := setName(&u.LastName, in.LastName); err != nil {
		return nil, err
	}
	setTrimmed(&u.Phone, in.Phone)
	setTrimmed(&u.CompanyDetails.Name, in.CompanyName)
	setTrimmed(&u.CompanyDetails.Address, in.CompanyAddress)
	setTrimmed(&u.CompanyDetails.RegistrationNumber, in.CompanyRegistrationNumber)

	replaced := u.Photo
	if in.Photo != nil {
		photo, err := s.store.Put(ctx, storage.FolderPhotos, *in.Photo)
		if err != nil {
			return nil, err
		}
		u.Photo = &photo
	}

	if err := s.repo.UpdateUserProfile(ctx, u); err != nil {
		if in.Photo != nil {
			s.discard(ctx, u.Photo)
		}
		if errors.Is(err, models.ErrNotFound) {
			return nil, errUserNotFound
		}
		return nil, err
	}
	if in.Photo != nil && replaced != nil && strings.HasPrefix(replaced.PublicID, storage.FolderPhotos+"/") {
		s.discard(ctx, replaced)
	}

	s.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(id),
		Action:   audit.ActionProfileUpdated,
		Entity:   "user",
		EntityID: audit.Ref(id),
	})
	return u, nil
}

func (s *Service) discard(ctx context.Context, a *models.Asset) {
	if a == nil || a.PublicID == "" {
		return
	}
	if err := s.store.Delete(ctx, a.PublicID); err != nil {
		s.log.WarnContext(ctx, "orphan upload not removed", "public_id", a.PublicID, "error", err)
	}
}

func setName(dst *string, v *string) error {
	if v == nil {
		return nil
	}
	name := strings.TrimSpace(*v)
	if name == "" {
		return httperr.Validation("missing_name", "First and last name cannot be empty.")
	}
	*dst = name
	return nil
}

func setTrimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// EnsureAdmin makes sure email belongs to an administrator: the account is
// created when missing and promoted when it exists with another role.
// It reports whether anything changed.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email = validators.NormalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}

	existing, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		if existing.IsAdmin() {
			return false, nil
		}
		if err := s.repo.UpdateUserRole(ctx, existing.ID, models.RoleAdmin); err != nil {
			return false, err
		}
		s.audit.Dispatch(audit.Event{
			Action:   audit.ActionAdminBootstrapped,
			Entity:   "user",
			EntityID: audit.Ref(existing.ID),
			Metadata: map[string]string{"promoted_from": existing.Role},
		})
		return true, nil
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return false, err
	}

	admin := &models.User{
		FirstName:    "Admin",
		LastName:     "Admin",
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := s.repo.CreateUser(ctx, admin); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}

	s.audit.Dispatch(audit.Event{
		Action:   audit.ActionAdminBootstrapped,
		Entity:   "user",
		EntityID: audit.Ref(admin.ID),
	})
	return true, nil
}
