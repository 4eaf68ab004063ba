package services

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"j2systems/internal/domain"
	"j2systems/internal/util"
	apperrors "j2systems/pkg/errors"
)

const companyNotSpecified = "No especificada"

var (
	//go:embed templates/contact_notification.html
	contactNotificationRaw string

	contactNotificationTemplate = template.Must(template.New("contact_notification").Parse(contactNotificationRaw))

	headerSanitizer = strings.NewReplacer("\r", " ", "\n", " ")
)

type contactNotificationParams struct {
	Name         string
	Email        string
	Company      string
	Message      string
	SubmittedAt  string
	CalendarLink string
}

// ContactNotifier emails the operator about new contact messages
type ContactNotifier struct {
	mailer    Mailer
	recipient string
}

// NewContactNotifier creates a notifier delivering to recipient through mailer
func NewContactNotifier(mailer Mailer, recipient string) *ContactNotifier {
	return &ContactNotifier{mailer: mailer, recipient: recipient}
}

// NotifyNewContact sends one notification for msg. Delivery failures are
// returned as DELIVERY_ERROR and are never retried.
func (n *ContactNotifier) NotifyNewContact(ctx context.Context, msg *domain.ContactMessage) error {
	htmlBody, err := renderContactNotification(msg)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternalError, "failed to render contact notification", err)
	}

	subject := headerSanitizer.Replace(fmt.Sprintf("Nuevo Contacto: %s", msg.Name))
	if err := n.mailer.SendHTMLEmail(ctx, n.recipient, subject, htmlBody, contactNotificationText(msg)); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeDelivery, "failed to deliver contact notification", err)
	}
	return nil
}

// companyOrDefault returns the submitted company or the "not specified" label
func companyOrDefault(msg *domain.ContactMessage) string {
	if msg.Company == nil || strings.TrimSpace(*msg.Company) == "" {
		return companyNotSpecified
	}
	return *msg.Company
}

// meetingLink builds the follow-up meeting invite for msg
func meetingLink(msg *domain.ContactMessage) string {
	title := "Reunión con " + msg.Name
	if msg.Company != nil && strings.TrimSpace(*msg.Company) != "" {
		title += " - " + *msg.Company
	}
	description := fmt.Sprintf("Seguimiento del mensaje de contacto de %s (%s, %s).\n\nMensaje:\n%s",
		msg.Name, msg.Email, companyOrDefault(msg), msg.Message)
	return util.BuildCalendarLink(title, description, util.DefaultMeetingDuration)
}

func renderContactNotification(msg *domain.ContactMessage) (string, error) {
	params := contactNotificationParams{
		Name:         msg.Name,
		Email:        msg.Email,
		Company:      companyOrDefault(msg),
		Message:      msg.Message,
		SubmittedAt:  msg.CreatedAt.Format("02/01/2006 15:04 MST"),
		CalendarLink: meetingLink(msg),
	}

	var buf bytes.Buffer
	if err := contactNotificationTemplate.Execute(&buf, params); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func contactNotificationText(msg *domain.ContactMessage) string {
	return fmt.Sprintf(`Nuevo Mensaje de Contacto

Nombre: %s
Email: %s
Empresa: %s
Recibido: %s

Mensaje:
%s

Agendar reunión: %s

ID del mensaje: %s`, msg.Name, msg.Email, companyOrDefault(msg), msg.CreatedAt.Format("02/01/2006 15:04 MST"),
		msg.Message, meetingLink(msg), msg.ID)
}
