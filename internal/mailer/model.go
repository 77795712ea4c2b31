package mailer

import "context"

type Recipient struct {
	Address string
	Name    string
}

// TemplateMessage is one templated transactional email. Merge variable
// values must already be strings; the template host fills the placeholders.
type TemplateMessage struct {
	TemplateKey     string
	From            Recipient
	To              []Recipient
	Subject         string
	MergeInfo       map[string]string
	ClientReference string
}

type SendResult struct {
	RequestID string
	Message   string
}

// Sender is the outbound templated-email capability.
type Sender interface {
	SendTemplate(ctx context.Context, msg TemplateMessage) (*SendResult, error)
}
