// Package notify delivers the human-review e-mails the reconciliation
// run produces: education conflicts, accepted name changes, and failure
// reports.
package notify

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/wneessen/go-mail"

	"github.com/alum-office/crmsync-cli/internal/config"
	"github.com/alum-office/crmsync-cli/internal/match"
)

// Mailer sends the advisory notifications a run produces.
type Mailer interface {
	// EducationConflict reports both education data sets for manual
	// resolution; no write happened.
	EducationConflict(ctx context.Context, submissionID, constituentID string, c match.Conflict) error
	// NameChanged reports a name update that was already applied.
	NameChanged(ctx context.Context, submissionID, constituentID string, change match.NameChange) error
	// RecordFailed reports a submission that errored and was skipped.
	RecordFailed(ctx context.Context, submissionID, constituentID string, cause error) error
	// RunFailed reports a run that aborted before completing.
	RunFailed(ctx context.Context, cause error) error
}

// New picks the mailer for the configuration: SMTP when a host is set,
// otherwise a no-op so runs work without mail configured.
func New(cfg config.MailConfig) (Mailer, error) {
	if cfg.Host == "" {
		return NopMailer{}, nil
	}
	return NewSMTPMailer(cfg)
}

// NopMailer drops every notification.
type NopMailer struct{}

func (NopMailer) EducationConflict(context.Context, string, string, match.Conflict) error {
	return nil
}

func (NopMailer) NameChanged(context.Context, string, string, match.NameChange) error {
	return nil
}

func (NopMailer) RecordFailed(context.Context, string, string, error) error { return nil }

func (NopMailer) RunFailed(context.Context, error) error { return nil }

// SMTPMailer sends notifications over SMTP.
type SMTPMailer struct {
	cfg    config.MailConfig
	client *mail.Client
}

// NewSMTPMailer builds an SMTP mailer from the mail configuration.
func NewSMTPMailer(cfg config.MailConfig) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "notify: smtp client")
	}
	return &SMTPMailer{cfg: cfg, client: client}, nil
}

func (m *SMTPMailer) EducationConflict(ctx context.Context, submissionID, constituentID string, c match.Conflict) error {
	body, err := renderEducationConflict(m.cfg, submissionID, constituentID, c)
	if err != nil {
		return err
	}
	return m.send(ctx, "Education conflict needs review: "+constituentID, body, false)
}

func (m *SMTPMailer) NameChanged(ctx context.Context, submissionID, constituentID string, change match.NameChange) error {
	body, err := renderNameChanged(m.cfg, submissionID, constituentID, change)
	if err != nil {
		return err
	}
	return m.send(ctx, "Name updated: "+constituentID, body, false)
}

func (m *SMTPMailer) RecordFailed(ctx context.Context, submissionID, constituentID string, cause error) error {
	body, err := renderRecordFailed(m.cfg, submissionID, constituentID, cause)
	if err != nil {
		return err
	}
	return m.send(ctx, "Submission failed: "+submissionID, body, true)
}

func (m *SMTPMailer) RunFailed(ctx context.Context, cause error) error {
	body, err := renderRunFailed(cause)
	if err != nil {
		return err
	}
	return m.send(ctx, "Reconciliation run failed", body, true)
}

func (m *SMTPMailer) send(ctx context.Context, subject, htmlBody string, attachLog bool) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return eris.Wrap(err, "notify: from address")
	}
	if err := msg.To(m.cfg.To...); err != nil {
		return eris.Wrap(err, "notify: to addresses")
	}
	if len(m.cfg.CC) > 0 {
		if err := msg.Cc(m.cfg.CC...); err != nil {
			return eris.Wrap(err, "notify: cc addresses")
		}
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)
	if attachLog && m.cfg.LogPath != "" {
		msg.AttachFile(m.cfg.LogPath)
	}
	return eris.Wrap(m.client.DialAndSendWithContext(ctx, msg), "notify: send")
}
