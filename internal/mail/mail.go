// Package mail delivers transactional email: the signup OTP and contact-form
// relays. Delivery is an external collaborator — the rest of the system only
// sees the Sender interface, so services are tested with an in-memory fake
// and the SMTP client is swapped in at wiring time.
package mail

import (
	"context"
	"fmt"
)

// Message is a single outbound email.
type Message struct {
	To      string
	ReplyTo string // optional; used by the contact form so replies reach the visitor
	Subject string
	Text    string
	HTML    string // optional alternative body
}

// Sender delivers a message. Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// OTPMessage builds the signup verification email for the given code.
func OTPMessage(to, code string) Message {
	return Message{
		To:      to,
		Subject: "Your OTP for Signup Verification",
		Text:    fmt.Sprintf("Your OTP is %s. It will expire in 5 minutes.", code),
		HTML: fmt.Sprintf(
			"<h2>Email Verification</h2><p>Hello,</p><p>Your OTP for signup verification is:</p><h3>%s</h3><p>This OTP will expire in 5 minutes.</p>",
			code,
		),
	}
}

// ContactMessage builds the relay email for a contact-form submission.
func ContactMessage(recipient, name, email, content string) Message {
	return Message{
		To:      recipient,
		ReplyTo: email,
		Subject: "Blogging Website Queries",
		Text:    fmt.Sprintf("Name: %s\nEmail: %s\nMessage: %s", name, email, content),
	}
}
