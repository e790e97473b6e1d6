package services

import (
	"fmt"
	"html"
	"log"

	"github.com/resend/resend-go/v2"

	"github.com/CampusPrayer/initializers"
)

type EmailService struct {
	client *resend.Client
	from   string
}

var emailService *EmailService

// InitEmailService sets up the Resend client. Without an API key the service
// stays nil and emails are skipped.
func InitEmailService() {
	if initializers.Cfg.ResendAPIKey == "" {
		log.Println("WARNING: RESEND_API_KEY not set. Email service will not be available.")
		return
	}

	emailService = &EmailService{
		client: resend.NewClient(initializers.Cfg.ResendAPIKey),
		from:   initializers.Cfg.EmailFrom,
	}

	log.Println("Email service initialized successfully with Resend")
}

func GetEmailService() *EmailService {
	return emailService
}

// SendWelcomeEmail greets a newly registered user.
func (s *EmailService) SendWelcomeEmail(toEmail string, name string) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("email service not initialized")
	}

	htmlBody, textBody := welcomeEmailBody(name)

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: "Welcome to Campus Prayer!",
		Html:    htmlBody,
		Text:    textBody,
	}

	sent, err := s.client.Emails.Send(params)
	if err != nil {
		log.Printf("Failed to send welcome email to %s: %v", toEmail, err)
		return fmt.Errorf("failed to send email: %v", err)
	}

	log.Printf("Successfully sent welcome email to %s. Email ID: %s", toEmail, sent.Id)
	return nil
}

func welcomeEmailBody(name string) (string, string) {
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
        }
        .header {
            text-align: center;
            padding: 20px 0;
            border-bottom: 2px solid #2f4f8f;
        }
        .header h1 {
            color: #2f4f8f;
            margin: 0;
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>Campus Prayer</h1>
    </div>

    <p>Welcome, %s!</p>

    <p>Your account is ready. Each day you can:</p>
    <ul>
        <li>Mark the campus prayer and your daily devotions on the checklist</li>
        <li>Keep your campus prayer streak going</li>
        <li>Share intentions on the prayer wall and pray for others</li>
    </ul>

    <p>Peace be with you,<br>The Campus Prayer Team</p>
</body>
</html>
`, html.EscapeString(name))

	textBody := fmt.Sprintf(`Welcome, %s!

Your account is ready. Each day you can mark the campus prayer and your daily
devotions on the checklist, keep your streak going, and share intentions on the
prayer wall.

Peace be with you,
The Campus Prayer Team
`, name)

	return htmlBody, textBody
}

// SendWelcomeEmailAsync sends the welcome email without blocking the caller.
func SendWelcomeEmailAsync(toEmail, name string) {
	service := GetEmailService()
	if service == nil {
		return
	}
	go func() {
		if err := service.SendWelcomeEmail(toEmail, name); err != nil {
			log.Printf("Welcome email for %s not sent: %v", toEmail, err)
		}
	}()
}
