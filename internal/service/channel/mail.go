package channel

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v3"

	"issuehub/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

type mailTemplate struct {
	file    string
	subject string
}

// mailTemplates is keyed by event type; reminders reuse the deadline template.
var mailTemplates = map[domain.EventType]mailTemplate{
	domain.EventIssueCreated:    {file: "created.html", subject: "New issue: %s"},
	domain.EventIssueClosed:     {file: "closed.html", subject: "Issue closed: %s"},
	domain.EventComment:         {file: "comment.html", subject: "New comment on %s"},
	domain.EventCollaboratorAdd: {file: "collaborator-add.html", subject: "You were added to %s"},
	domain.EventAssigned:        {file: "assigned.html", subject: "Assigned to you: %s"},
	domain.EventTaskAssigned:    {file: "task-assigned.html", subject: "New task: %s"},
	domain.EventDeadline:        {file: "deadline.html", subject: "Due tomorrow: %s"},
	domain.EventReminder:        {file: "deadline.html", subject: "Due tomorrow: %s"},
}

// HasMailTemplate reports whether events of type t can be mailed at all.
func HasMailTemplate(t domain.EventType) bool {
	_, ok := mailTemplates[t]
	return ok
}

// emailClient is the part of the Resend client the sender uses.
type emailClient interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type ResendMailSender struct {
	client    emailClient
	from      string
	baseURL   string
	templates map[domain.EventType]*template.Template
}

func NewResendMailSender(apiKey, fromEmail, baseURL string) (*ResendMailSender, error) {
	return newResendMailSender(resend.NewClient(apiKey).Emails, fromEmail, baseURL)
}

func newResendMailSender(client emailClient, fromEmail, baseURL string) (*ResendMailSender, error) {
	templates := make(map[domain.EventType]*template.Template, len(mailTemplates))
	for eventType, mt := range mailTemplates {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+mt.file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse email template %s: %w", mt.file, err)
		}
		templates[eventType] = tmpl
	}

	return &ResendMailSender{
		client:    client,
		from:      fmt.Sprintf("IssueHub <%s>", fromEmail),
		baseURL:   baseURL,
		templates: templates,
	}, nil
}

type mailData struct {
	Title   string
	Name    string
	Actor   string
	Subject string
	Message string
	Link    string
}

// Send renders the template for req.Type and mails each recipient
// individually. Failures for single recipients are joined; the others are
// still attempted.
func (s *ResendMailSender) Send(ctx context.Context, req MailRequest) error {
	mt, ok := mailTemplates[req.Type]
	if !ok {
		return fmt.Errorf("no email template for event type %q", req.Type)
	}
	if len(req.Recipients) == 0 {
		return errors.New("mail request has no recipients")
	}

	subject := fmt.Sprintf(mt.subject, req.Subject)
	link := absoluteLink(s.baseURL, req.Link)

	var errs []error
	for _, r := range req.Recipients {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		var body bytes.Buffer
		err := s.templates[req.Type].Execute(&body, mailData{
			Title:   subject,
			Name:    r.Name,
			Actor:   req.Actor,
			Subject: req.Subject,
			Message: req.Message,
			Link:    link,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to execute email template: %w", err))
			continue
		}

		_, err = s.client.Send(&resend.SendEmailRequest{
			From:    s.from,
			To:      []string{r.Email},
			Subject: subject,
			Html:    body.String(),
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("send to %s: %w", r.ID, err))
		}
	}

	return errors.Join(errs...)
}
