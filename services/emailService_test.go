package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWelcomeEmailBody(t *testing.T) {
	htmlBody, textBody := welcomeEmailBody("<Ana>")

	assert.Contains(t, htmlBody, "Welcome, &lt;Ana&gt;!")
	assert.NotContains(t, htmlBody, "<Ana>")
	assert.Contains(t, textBody, "Welcome, <Ana>!")
}

func TestSendWelcomeEmailWithoutClient(t *testing.T) {
	var service *EmailService
	assert.Error(t, service.SendWelcomeEmail("test@example.com", "Test"))
}
