package enrollment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/membership-api/internal/models"
)

// Notifier sends enrollment emails. Calls must not block.
type Notifier interface {
	EnrollmentReceived(e *models.Enrollment, password string)
	EnrollmentAdminAlert(e *models.Enrollment)
	AccountWelcome(e *models.Enrollment, u *models.User, password string)
	EnrollmentApproved(e *models.Enrollment, u *models.User)
	EnrollmentRejected(e *models.Enrollment)
}

type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error)
}
