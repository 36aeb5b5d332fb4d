package notify

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/BruksfildServices01/membership-api/internal/models"
	"github.com/BruksfildServices01/membership-api/internal/timezone"
)

type Submitter interface {
	Submit(msg Message)
}

type MailerConfig struct {
	Brand        string
	AdminEmail   string
	LoginURL     string
	DashboardURL string
	Timezone     string
}

// Mailer turns domain events into queued emails. Rendering failures are
// logged and the message is skipped.
type Mailer struct {
	out Submitter
	tpl *Templates
	cfg MailerConfig
	log *slog.Logger
}

func NewMailer(out Submitter, tpl *Templates, cfg MailerConfig, log *slog.Logger) *Mailer {
	if cfg.Brand == "" {
		cfg.Brand = "BAY SA WAAR"
	}
	return &Mailer{out: out, tpl: tpl, cfg: cfg, log: log}
}

func (m *Mailer) send(tplName, to, toName string, v view) {
	if to == "" {
		return
	}

	v.Brand = m.cfg.Brand
	html, err := m.tpl.Render(tplName, v)
	if err != nil {
		m.log.Error("email render failed", "template", tplName, "error", err)
		return
	}

	m.out.Submit(Message{
		To:      to,
		ToName:  toName,
		Subject: v.Title,
		HTML:    html,
	})
}

func (m *Mailer) login() button {
	return button{URL: m.cfg.LoginURL, Label: "Accéder à mon compte"}
}

func (m *Mailer) dashboard() button {
	return button{URL: m.cfg.DashboardURL, Label: "Ouvrir le dashboard"}
}

// EnrollmentReceived confirms a submission. A non-empty password means an
// account was created along with it.
func (m *Mailer) EnrollmentReceived(e *models.Enrollment, password string) {
	m.send(tplReceived, e.Email, fullName(e.FirstName, e.LastName), view{
		Title:     "Demande reçue",
		FirstName: e.FirstName,
		Email:     e.Email,
		Password:  password,
		Button:    m.login(),
	})
}

func (m *Mailer) EnrollmentAdminAlert(e *models.Enrollment) {
	details := []string{
		"Nom : " + fullName(e.FirstName, e.LastName),
		"Email : " + e.Email,
		"Téléphone : " + e.Phone,
		"Ville : " + e.City + ", " + e.Country,
	}
	if e.CompanyName != "" {
		details = append(details, "Entreprise : "+e.CompanyName)
	}
	if len(e.Interests) > 0 {
		details = append(details, "Intérêts : "+strings.Join(e.Interests, ", "))
	}

	m.send(tplAdminAlert, m.cfg.AdminEmail, "", view{
		Title:   "Admin: Nouvelle demande d'inscription",
		Details: details,
		Button:  m.dashboard(),
	})
}

func (m *Mailer) AccountWelcome(e *models.Enrollment, u *models.User, password string) {
	m.send(tplWelcome, u.Email, fullName(u.FirstName, u.LastName), view{
		Title:     "Bienvenue !",
		FirstName: e.FirstName,
		Email:     u.Email,
		Password:  password,
		Button:    m.login(),
	})
}

func (m *Mailer) EnrollmentApproved(e *models.Enrollment, u *models.User) {
	to := e.Email
	if u != nil && u.Email != "" {
		to = u.Email
	}
	m.send(tplApproved, to, fullName(e.FirstName, e.LastName), view{
		Title:     "Demande approuvée",
		FirstName: e.FirstName,
		Button:    button{URL: m.cfg.LoginURL, Label: "Se connecter"},
	})
}

func (m *Mailer) EnrollmentRejected(e *models.Enrollment) {
	m.send(tplRejected, e.Email, fullName(e.FirstName, e.LastName), view{
		Title:     "Mise à jour de votre demande",
		FirstName: e.FirstName,
	})
}

// PasswordReset sends the temporary password that replaced the user's one.
func (m *Mailer) PasswordReset(u *models.User, password string) {
	m.send(tplPasswordReset, u.Email, fullName(u.FirstName, u.LastName), view{
		Title:     "Réinitialisation du mot de passe",
		FirstName: u.FirstName,
		Email:     u.Email,
		Password:  password,
		Button:    button{URL: m.cfg.LoginURL, Label: "Se connecter"},
	})
}

func (m *Mailer) EventRegistered(ev *models.Event, u *models.User) {
	m.send(tplEventRegistered, u.Email, fullName(u.FirstName, u.LastName), view{
		Title:         "Confirmation d'inscription",
		FirstName:     u.FirstName,
		EventTitle:    ev.Title,
		EventDate:     timezone.FormatDateRange(ev.DateStart, ev.DateEnd, m.cfg.Timezone),
		EventLocation: ev.Location,
	})
}

func (m *Mailer) EventAdminAlert(ev *models.Event, u *models.User) {
	m.send(tplAdminAlert, m.cfg.AdminEmail, "", view{
		Title: "Admin: Nouvelle inscription à un événement",
		Details: []string{
			"Événement : " + ev.Title,
			"Participant : " + fullName(u.FirstName, u.LastName),
			"Email : " + u.Email,
			fmt.Sprintf("Inscrits : %d", len(ev.Registrations)),
		},
		Button: m.dashboard(),
	})
}

func fullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}
