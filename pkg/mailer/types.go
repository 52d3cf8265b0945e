package mailer

import "net/mail"

// Address formats a display name and email as an RFC 5322 address.
// An empty name yields the bare email.
func Address(name, email string) string {
	if name == "" {
		return email
	}
	return (&mail.Address{Name: name, Address: email}).String()
}

// Email is a fully rendered message ready for a Sender.
type Email struct {
	Headers     map[string]string
	Tags        map[string]string // provider tags; ignored by SMTP
	Subject     string
	HTML        string
	Text        string
	From        string // overrides the Mailer default sender
	ReplyTo     string
	To          []string
	Attachments []Attachment
}

// Attachment is a file carried inline with the message body.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Validate reports the first missing piece that would make delivery pointless.
func (e *Email) Validate() error {
	switch {
	case len(e.To) == 0:
		return ErrNoRecipient
	case e.Subject == "":
		return ErrNoSubject
	case e.HTML == "" && e.Text == "":
		return ErrNoContent
	case e.From == "":
		return ErrNoSender
	}
	for _, a := range e.Attachments {
		if a.Filename == "" {
			return ErrInvalidAttachment
		}
	}
	return nil
}
