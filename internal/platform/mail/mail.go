// Copyright (c) 2026 PGNest. All rights reserved.
// Author: hello@pgnest.app

/*
Package mail provides outbound email delivery for the platform.

It wraps an SMTP transport (gomail) behind a small Sender interface so that
domain services can dispatch messages without knowing about transports, and
so tests can substitute an in-memory fake.
*/
package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// # Contract

// Sender dispatches transactional email to a single recipient.
type Sender interface {
	// SendOTP delivers a one-time verification code to the given address.
	SendOTP(toEmail string, code string) error
}

// # SMTP Implementation

// SMTPSender delivers mail through an authenticated SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender builds a Sender backed by the given SMTP relay.
//
// # Parameters
//   - host, port: SMTP relay address.
//   - username, password: relay credentials (empty username disables auth).
//   - from: the From header on outgoing mail.
func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

/*
SendOTP delivers a one-time verification code to the given address.

Parameters:
  - toEmail: Recipient address.
  - code: The 6-digit one-time code.

Returns:
  - error: Transport failure; the caller decides whether to surface it.
*/
func (sender *SMTPSender) SendOTP(toEmail string, code string) error {
	message := gomail.NewMessage()
	message.SetHeader("From", sender.from)
	message.SetHeader("To", toEmail)
	message.SetHeader("Subject", "Your PGNest verification code")

	message.SetBody("text/html", fmt.Sprintf(
		`<div style="font-family:sans-serif">
			<h2>PGNest Email Verification</h2>
			<p>Your one-time verification code is:</p>
			<h1 style="letter-spacing:4px">%s</h1>
			<p>This code expires in 10 minutes. If you did not request it, ignore this email.</p>
		</div>`, code))

	if err := sender.dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("mail: failed to send OTP to %s: %w", toEmail, err)
	}

	return nil
}
