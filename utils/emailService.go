package utils

import (
	"fmt"
	"log"

	"lms/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail sends one HTML email through SendGrid. With no API key
// configured the message is logged and dropped, which keeps local
// development quiet.
func SendEmail(toEmail, toName, subject, htmlBody string) error {
	if config.AppConfig.SendGridKey == "" {
		log.Printf("[EMAIL] Skipped (no API key): %q to %s", subject, toEmail)
		return nil
	}

	from := mail.NewEmail(config.AppConfig.EmailName, config.AppConfig.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendGridKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("[EMAIL] Error sending %q to %s: %v", subject, toEmail, err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("[EMAIL] SendGrid rejected %q to %s: %d %s", subject, toEmail, resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid responded %d", resp.StatusCode)
	}
	return nil
}

// getEmailTemplate wraps body content in the platform email layout
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1A2B4C; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A2B4C; line-height: 1.6; }
			.content h2 { color: #1A2B4C; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #5B8DEF; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>%s</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				You are receiving this because of your course enrollment.
			</div>
		</div>
	</body>
	</html>
	`, config.AppConfig.EmailName, title, bodyContent)
}

// SendWelcomeEmail greets a user after enrolling in a course
func SendWelcomeEmail(email, name, courseTitle string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>You are enrolled in <strong>%s</strong>. Your first lesson is waiting.</p>
		<div class="info-box">Tip: learners who start within 24 hours are far more likely to finish.</div>
	`, name, courseTitle)

	if err := SendEmail(email, name, "Welcome to "+courseTitle, getEmailTemplate("Enrollment Confirmed", body)); err != nil {
		log.Printf("[EMAIL] Welcome email to %s failed: %v", email, err)
	}
}

// SendCertificateEmail delivers the certificate number after completion
func SendCertificateEmail(email, name, courseTitle, certificateNumber string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Congratulations on completing <strong>%s</strong>!</p>
		<div class="info-box">Certificate number: <strong>%s</strong></div>
	`, name, courseTitle, certificateNumber)

	if err := SendEmail(email, name, "Your certificate for "+courseTitle, getEmailTemplate("Course Completed", body)); err != nil {
		log.Printf("[EMAIL] Certificate email to %s failed: %v", email, err)
	}
}

// SendProgressReminder nudges a learner who has gone quiet
func SendProgressReminder(email, name, courseTitle string, progress float64) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>You are %.0f%% of the way through <strong>%s</strong>. Pick up where you left off!</p>
	`, name, progress, courseTitle)

	if err := SendEmail(email, name, "Keep going with "+courseTitle, getEmailTemplate("Your Course Misses You", body)); err != nil {
		log.Printf("[EMAIL] Progress reminder to %s failed: %v", email, err)
	}
}

// SendAccessExpiryNotice tells a learner their limited access has ended
func SendAccessExpiryNotice(email, name, courseTitle string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your access to <strong>%s</strong> has expired. Re-enroll any time to continue learning.</p>
	`, name, courseTitle)

	if err := SendEmail(email, name, "Access to "+courseTitle+" has ended", getEmailTemplate("Access Expired", body)); err != nil {
		log.Printf("[EMAIL] Expiry notice to %s failed: %v", email, err)
	}
}
