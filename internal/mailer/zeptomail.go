package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"indiadoors-be/internal/logger"

	"go.uber.org/zap"
)

const defaultZeptoBaseURL = "https://api.zeptomail.com"

type zeptoMailer struct {
	token         string
	bounceAddress string
	baseURL       string
	httpClient    *http.Client
}

func NewZeptoMailer(token, bounceAddress, baseURL string) Sender {
	if token == "" {
		logger.L().Warn("ZeptoMail token is empty")
	}
	if baseURL == "" {
		baseURL = defaultZeptoBaseURL
	}

	return &zeptoMailer{
		token:         token,
		bounceAddress: bounceAddress,
		baseURL:       baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type zeptoEmailAddress struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

type zeptoRecipient struct {
	EmailAddress zeptoEmailAddress `json:"email_address"`
}

type zeptoTemplateRequest struct {
	TemplateKey     string            `json:"template_key"`
	BounceAddress   string            `json:"bounce_address"`
	From            zeptoEmailAddress `json:"from"`
	To              []zeptoRecipient  `json:"to"`
	Subject         string            `json:"subject"`
	MergeInfo       map[string]string `json:"merge_info"`
	ClientReference string            `json:"client_reference,omitempty"`
}

func (z *zeptoMailer) SendTemplate(ctx context.Context, msg TemplateMessage) (*SendResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("template_key", msg.TemplateKey),
		zap.String("subject", msg.Subject),
		zap.Int("recipients", len(msg.To)),
	)

	if msg.TemplateKey == "" {
		return nil, errors.New("missing template key")
	}
	if z.bounceAddress == "" {
		return nil, errors.New("missing bounce address")
	}

	reqBody := zeptoTemplateRequest{
		TemplateKey:     msg.TemplateKey,
		BounceAddress:   z.bounceAddress,
		From:            zeptoEmailAddress{Address: msg.From.Address, Name: msg.From.Name},
		Subject:         msg.Subject,
		MergeInfo:       msg.MergeInfo,
		ClientReference: msg.ClientReference,
	}
	for _, r := range msg.To {
		reqBody.To = append(reqBody.To, zeptoRecipient{
			EmailAddress: zeptoEmailAddress{Address: r.Address, Name: r.Name},
		})
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		z.baseURL+"/v1.1/email/template", bytes.NewBuffer(jsonBody))
	if err != nil {
		log.Error("failed creating mail request", zap.Error(err))
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", z.token)

	resp, err := z.httpClient.Do(req)
	if err != nil {
		log.Error("mail request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read mail response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error("mail host returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return nil, fmt.Errorf("mail send failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var out struct {
		RequestID string `json:"request_id"`
		Message   string `json:"message"`
	}
	if err := json.Unmarshal(bodyBytes, &out); err != nil {
		// Delivery was accepted; a malformed body is not worth failing over.
		log.Warn("could not decode mail response", zap.Error(err))
	}

	log.Info("admin mail accepted", zap.String("mail_request_id", out.RequestID))
	return &SendResult{RequestID: out.RequestID, Message: out.Message}, nil
}
