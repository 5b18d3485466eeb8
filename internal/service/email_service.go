package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/myeventng/somarv26/internal/db"
	"github.com/myeventng/somarv26/internal/logger"
	"github.com/resend/resend-go/v2"
)

// ErrEmailNotConfigured reports a send attempt without relay credentials.
var ErrEmailNotConfigured = errors.New("email relay not configured")

// EmailService notifies the couple about new RSVPs and photo uploads
// through the Resend relay. Without an API key it logs instead of sending,
// so development runs never touch the relay.
type EmailService struct {
	client     *resend.Client
	from       string
	adminEmail string
}

// NewEmailService creates an EmailService. An empty apiKey leaves the
// service in log-only mode.
func NewEmailService(apiKey, from, adminEmail string) *EmailService {
	var client *resend.Client
	if apiKey != "" {
		client = resend.NewClient(apiKey)
	}
	return &EmailService{client: client, from: from, adminEmail: adminEmail}
}

// SendRSVPNotification emails the submitted reply to the couple.
func (s *EmailService) SendRSVPNotification(r db.RSVP) error {
	attending := "Not Attending"
	attendingCell := "No ❌"
	if r.Attending {
		attending = "Attending"
		attendingCell = "Yes ✅"
	}

	message := ""
	if r.Message != nil {
		message = fmt.Sprintf("<p><strong>Message:</strong> %s</p>", *r.Message)
	}

	subject := fmt.Sprintf("New RSVP: %s - %s", r.Name, attending)
	body := fmt.Sprintf(`
      <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
        <h2 style="color: #6b21a8;">New RSVP Submission</h2>
        <div style="background-color: #f3f4f6; padding: 20px; border-radius: 8px;">
          <p><strong>Name:</strong> %s</p>
          <p><strong>Email:</strong> %s</p>
          <p><strong>Attending:</strong> %s</p>
          <p><strong>Number of Guests:</strong> %d</p>
          %s
        </div>
      </div>`, r.Name, r.Email, attendingCell, r.GuestCount, message)

	return s.send("rsvp", subject, body)
}

// SendUploadNotification emails the couple about a new gallery photo.
func (s *EmailService) SendUploadNotification(img db.GalleryImage) error {
	details := ""
	if img.GuestName != nil {
		details += fmt.Sprintf("<p><strong>Guest Name:</strong> %s</p>", *img.GuestName)
	}
	if img.GuestEmail != nil {
		details += fmt.Sprintf("<p><strong>Email:</strong> %s</p>", *img.GuestEmail)
	}
	if img.GuestPhone != nil {
		details += fmt.Sprintf("<p><strong>Phone:</strong> %s</p>", *img.GuestPhone)
	}

	body := fmt.Sprintf(`
      <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
        <h2 style="color: #6b21a8;">New Photo Upload</h2>
        <div style="background-color: #f3f4f6; padding: 20px; border-radius: 8px;">
          <p><strong>Caption:</strong> %s</p>
          %s
          <p><strong>Image URL:</strong> <a href="%s">%s</a></p>
          <img src="%s" alt="Uploaded photo" style="max-width: 100%%; border-radius: 8px; margin-top: 10px;" />
        </div>
      </div>`, img.Caption, details, img.URL, img.URL, img.URL)

	return s.send("upload", "New Photo Uploaded to Wedding Gallery", body)
}

func (s *EmailService) send(kind, subject, html string) error {
	if s.client == nil || s.adminEmail == "" {
		logger.Log.Info().
			Str("type", kind).
			Str("subject", subject).
			Msg("email skipped (relay not configured)")
		return ErrEmailNotConfigured
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{s.adminEmail},
		Subject: subject,
		Html:    html,
	})
	if err == nil {
		logger.Log.Info().Str("type", kind).Str("to", s.adminEmail).Msg("email sent")
	}
	return err
}
