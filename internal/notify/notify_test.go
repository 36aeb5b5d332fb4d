package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/membership-api/internal/logging"
	"github.com/BruksfildServices01/membership-api/internal/models"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []Message
	err  error
	gate chan struct{}
}

func (s *recordingSender) Send(ctx context.Context, msg Message) error {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.err
}

func (s *recordingSender) messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}

func TestDispatcherDeliversAndDrainsOnClose(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, logging.Discard(), 2, 10)

	for i := 0; i < 5; i++ {
		d.Submit(Message{To: "a@x.com", Subject: "s"})
	}
	d.Close()

	assert.Len(t, sender.messages(), 5)

	// submissions after close are dropped without panicking
	d.Submit(Message{To: "late@x.com"})
	d.Close()
	assert.Len(t, sender.messages(), 5)
}

func TestDispatcherFailuresDoNotPropagate(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	d := NewDispatcher(sender, logging.Discard(), 1, 10)

	d.Submit(Message{To: "a@x.com"})
	d.Close()

	assert.Len(t, sender.messages(), 1)
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	gate := make(chan struct{})
	sender := &recordingSender{gate: gate}
	d := NewDispatcher(sender, logging.Discard(), 1, 1)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 20; i++ {
			d.Submit(Message{To: "a@x.com"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Submit blocked on a full queue")
	}

	close(gate)
	d.Close()

	sent := len(sender.messages())
	assert.GreaterOrEqual(t, sent, 1)
	assert.Less(t, sent, 20)
}

type fakeClient struct {
	got    *mail.SGMailV3
	status int
	err    error
}

func (f *fakeClient) SendWithContext(ctx context.Context, m *mail.SGMailV3) (*rest.Response, error) {
	f.got = m
	if f.err != nil {
		return nil, f.err
	}
	return &rest.Response{StatusCode: f.status, Body: "body"}, nil
}

func TestSendGridSender(t *testing.T) {
	client := &fakeClient{status: 202}
	s := &SendGridSender{client: client, fromEmail: "noreply@x.com", fromName: "X"}

	err := s.Send(context.Background(), Message{To: "a@x.com", Subject: "Hi", HTML: "<p>hi</p>", Text: "hi"})
	require.NoError(t, err)

	require.NotNil(t, client.got)
	assert.Equal(t, "Hi", client.got.Subject)
	assert.Equal(t, "noreply@x.com", client.got.From.Address)
	require.Len(t, client.got.Content, 2)
	assert.Equal(t, "text/plain", client.got.Content[0].Type)
	assert.Equal(t, "text/html", client.got.Content[1].Type)
	assert.Equal(t, "a@x.com", client.got.Personalizations[0].To[0].Address)

	client.status = 401
	assert.Error(t, s.Send(context.Background(), Message{To: "a@x.com", HTML: "x"}))

	client.err = errors.New("network")
	assert.Error(t, s.Send(context.Background(), Message{To: "a@x.com", HTML: "x"}))
}

type captureSubmitter struct {
	msgs []Message
}

func (c *captureSubmitter) Submit(msg Message) {
	c.msgs = append(c.msgs, msg)
}

func newTestMailer(t *testing.T, admin string) (*Mailer, *captureSubmitter) {
	t.Helper()

	tpl, err := ParseTemplates()
	require.NoError(t, err)

	out := &captureSubmitter{}
	m := NewMailer(out, tpl, MailerConfig{
		AdminEmail:   admin,
		LoginURL:     "https://example.org/login",
		DashboardURL: "https://example.org/admin",
		Timezone:     "UTC",
	}, logging.Discard())
	return m, out
}

func TestMailerEnrollmentReceived(t *testing.T) {
	m, out := newTestMailer(t, "admin@x.com")
	e := &models.Enrollment{FirstName: "Amina", LastName: "Diallo", Email: "amina@x.com"}

	m.EnrollmentReceived(e, "")
	m.EnrollmentReceived(e, "deadbeefcafebabe")

	require.Len(t, out.msgs, 2)
	assert.Equal(t, "amina@x.com", out.msgs[0].To)
	assert.Contains(t, out.msgs[0].HTML, "Amina")
	assert.NotContains(t, out.msgs[0].HTML, "Mot de passe")
	assert.Contains(t, out.msgs[1].HTML, "deadbeefcafebabe")
	assert.Contains(t, out.msgs[1].HTML, "https://example.org/login")
}

func TestMailerEscapesApplicantInput(t *testing.T) {
	m, out := newTestMailer(t, "admin@x.com")
	e := &models.Enrollment{FirstName: "<script>x</script>", Email: "a@x.com"}

	m.EnrollmentRejected(e)

	require.Len(t, out.msgs, 1)
	assert.NotContains(t, out.msgs[0].HTML, "<script>")
}

func TestMailerAdminAlertSkippedWithoutAddress(t *testing.T) {
	m, out := newTestMailer(t, "")

	m.EnrollmentAdminAlert(&models.Enrollment{Email: "a@x.com"})
	assert.Empty(t, out.msgs)
}

func TestMailerEventRegistered(t *testing.T) {
	m, out := newTestMailer(t, "admin@x.com")
	ev := &models.Event{
		Title:     "Forum",
		Location:  "Dakar",
		DateStart: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
		DateEnd:   time.Date(2026, 5, 2, 18, 0, 0, 0, time.UTC),
	}
	u := &models.User{FirstName: "Amina", Email: "amina@x.com"}

	m.EventRegistered(ev, u)
	m.EventAdminAlert(ev, u)

	require.Len(t, out.msgs, 2)
	assert.Contains(t, out.msgs[0].HTML, "01/05/2026 - 02/05/2026")
	assert.Contains(t, out.msgs[0].HTML, "Dakar")
	assert.Equal(t, "admin@x.com", out.msgs[1].To)
	assert.True(t, strings.HasPrefix(out.msgs[1].Subject, "Admin:"))
}

func TestMailerPasswordReset(t *testing.T) {
	m, out := newTestMailer(t, "admin@x.com")

	m.PasswordReset(&models.User{FirstName: "Amina", Email: "amina@x.com"}, "a1b2c3d4")

	require.Len(t, out.msgs, 1)
	assert.Equal(t, "amina@x.com", out.msgs[0].To)
	assert.Equal(t, "Réinitialisation du mot de passe", out.msgs[0].Subject)
	assert.Contains(t, out.msgs[0].HTML, "a1b2c3d4")
	assert.Contains(t, out.msgs[0].HTML, "https://example.org/login")
}
