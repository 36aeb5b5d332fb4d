package enrollment

import "fmt"

// Provisioning names the moment a member account is created for an applicant.
type Provisioning string

const (
	ProvisionAtApproval   Provisioning = "at_approval"
	ProvisionAtSubmission Provisioning = "at_submission"
)

type Policy struct {
	Provisioning Provisioning

	// RejectExistingAccount refuses submissions whose email already owns an account.
	RejectExistingAccount bool
	// RejectPendingDuplicate refuses a second pending enrollment for one email.
	RejectPendingDuplicate bool
}

func DefaultPolicy() Policy {
	return Policy{
		Provisioning:           ProvisionAtApproval,
		RejectExistingAccount:  true,
		RejectPendingDuplicate: true,
	}
}

func NewPolicy(mode string, guardAccount, guardPending bool) (Policy, error) {
	p := Policy{
		Provisioning:           Provisioning(mode),
		RejectExistingAccount:  guardAccount,
		RejectPendingDuplicate: guardPending,
	}

	switch p.Provisioning {
	case "":
		p.Provisioning = ProvisionAtApproval
	case ProvisionAtApproval, ProvisionAtSubmission:
	default:
		return Policy{}, fmt.Errorf("unknown enrollment provisioning mode %q", mode)
	}

	return p, nil
}

func (p Policy) CreatesAccountOnSubmit() bool {
	return p.Provisioning == ProvisionAtSubmission
}
