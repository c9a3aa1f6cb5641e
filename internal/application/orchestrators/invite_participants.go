package orchestrators

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"

	emailAdapter "capacitaciones/internal/adapters/email"
	trainingStore "capacitaciones/internal/adapters/storage/training"
	domain "capacitaciones/internal/domain/training"
)

// ErrNoRecipients is returned when the invite form submits no usable address.
var ErrNoRecipients = errors.New("por favor, ingrese al menos una dirección de correo electrónico")

// Invitation is a composed invite ready for either delivery surface.
type Invitation struct {
	Recipients []string
	Subject    string
	Body       string
}

// MailtoURL renders the invitation as a mailto link for the default mail
// handler of the browser.
// PRE: the invitation was built by ComposeInvitation
// POST: Returns a mailto URL with encoded subject and body
func (inv Invitation) MailtoURL() string {
	return "mailto:" + strings.Join(inv.Recipients, ",") +
		"?subject=" + escapeURIComponent(inv.Subject) +
		"&body=" + escapeURIComponent(inv.Body)
}

// escapeURIComponent percent-encodes s for use in a mailto query value.
// QueryEscape emits "+" for spaces, which mail clients take literally.
func escapeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// ComposeInvitation builds the invite subject, body and recipient list for a record.
// PRE: emails is comma-separated free text from the invite form
// POST: Returns the composed invitation, or ErrNoRecipients when no address
//
//	survives trimming
func ComposeInvitation(record domain.Training, emails string) (Invitation, error) {
	var recipients []string
	for _, addr := range strings.Split(emails, ",") {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		recipients = append(recipients, addr)
	}
	if len(recipients) == 0 {
		return Invitation{}, ErrNoRecipients
	}

	var roster strings.Builder
	for _, p := range record.Participants {
		id := p.ID
		if id == "" {
			id = "Sin ID"
		}
		roster.WriteString("- " + p.Name + " (" + id + ")\n")
	}

	body := "Hola,\n\n" +
		"Estás invitado(a) a la siguiente capacitación:\n\n" +
		"Nombre: " + record.TrainingName + "\n" +
		"Capacitador: " + record.TrainerName + "\n" +
		"Fecha: " + FormatScheduledDate(record) + "\n" +
		"Lugar: " + record.Location + "\n" +
		"Duración: " + strconv.FormatFloat(record.Duration, 'f', -1, 64) + " horas\n" +
		"Objetivo: " + record.Objective + "\n\n" +
		"Participantes Registrados:\n" +
		roster.String() + "\n" +
		"Saludos."

	return Invitation{
		Recipients: recipients,
		Subject:    "Invitación a Capacitación: " + record.TrainingName,
		Body:       body,
	}, nil
}

// FormatScheduledDate renders the scheduled date for display (es-ES day/month
// order). Blank or malformed dates render as "No especificada".
func FormatScheduledDate(record domain.Training) string {
	at, err := record.ScheduledAt()
	if err != nil {
		return "No especificada"
	}
	return at.Format(domain.DateAddedLayout)
}

// inviteMarkdown converts the plain-text invitation body to HTML. Hard wraps
// keep the line-per-field layout of the body intact.
var inviteMarkdown = goldmark.New(
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// SendInvitationInput carries the record id and the raw recipients field.
type SendInvitationInput struct {
	TrainingID string
	Emails     string
}

// SendInvitationDeps holds external dependencies for the invite orchestrator.
type SendInvitationDeps struct {
	Trainings   trainingStore.Store
	EmailSender emailAdapter.Sender
	FromAddress string
	ReplyTo     string
}

// SendInvitationResult reports the composed invite and the provider response.
type SendInvitationResult struct {
	Invitation Invitation
	MessageID  string
	SentAt     time.Time
}

// ExecuteSendInvitation composes and delivers an invitation through the email provider.
// PRE: Deps are wired; TrainingID references a stored record
// POST: The invite is sent to every recipient; the mailto variant is also
//
//	returned so the UI can offer the local mail handler as a fallback
func ExecuteSendInvitation(ctx context.Context, input SendInvitationInput, deps SendInvitationDeps) (SendInvitationResult, error) {
	records, err := deps.Trainings.Load(ctx)
	if err != nil {
		return SendInvitationResult{}, err
	}

	var record domain.Training
	found := false
	for _, r := range records {
		if r.ID == input.TrainingID {
			record = r
			found = true
			break
		}
	}
	if !found {
		return SendInvitationResult{}, ErrTrainingNotFound
	}

	inv, err := ComposeInvitation(record, input.Emails)
	if err != nil {
		return SendInvitationResult{}, err
	}

	var htmlBody bytes.Buffer
	if err := inviteMarkdown.Convert([]byte(inv.Body), &htmlBody); err != nil {
		return SendInvitationResult{}, err
	}

	sent, err := deps.EmailSender.Send(ctx, emailAdapter.SendRequest{
		To:      inv.Recipients,
		From:    deps.FromAddress,
		Subject: inv.Subject,
		HTML:    htmlBody.String(),
		ReplyTo: deps.ReplyTo,
	})
	if err != nil {
		return SendInvitationResult{}, err
	}

	slog.Info("invite_sent",
		"training_id", record.ID,
		"recipients", len(inv.Recipients),
		"message_id", sent.MessageID,
	)
	return SendInvitationResult{
		Invitation: inv,
		MessageID:  sent.MessageID,
		SentAt:     sent.SentAt,
	}, nil
}
