package linkedin

import (
	"context"
	"fmt"
	"strings"
)

const (
	connectPath = "/invitations"
	messagePath = "/messages"
	inmailPath  = "/inmails"
)

// SendResult reports the outcome of one outbound message.
type SendResult struct {
	Status    string `json:"status"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

type sendPayload struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject,omitempty"`
	Body      string `json:"body"`
}

// SendConnectionRequest sends a connection invitation with a note.
func (c *Client) SendConnectionRequest(ctx context.Context, externalID, message string) (*SendResult, error) {
	return c.send(ctx, connectPath, externalID, "", message)
}

// SendDirectMessage sends a plain direct message to an existing connection.
func (c *Client) SendDirectMessage(ctx context.Context, externalID, message string) (*SendResult, error) {
	return c.send(ctx, messagePath, externalID, "", message)
}

// SendPremiumMessage sends a premium message with a subject line, reaching
// candidates outside the network.
func (c *Client) SendPremiumMessage(ctx context.Context, externalID, subject, body string) (*SendResult, error) {
	return c.send(ctx, inmailPath, externalID, subject, body)
}

func (c *Client) send(ctx context.Context, path, externalID, subject, body string) (*SendResult, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, fmt.Errorf("recipient external id is required")
	}
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("message body is required")
	}

	endpoint := fmt.Sprintf("%s%s", c.APIURL, path)
	payload := sendPayload{Recipient: externalID, Subject: subject, Body: body}

	var result SendResult
	if err := c.postJSON(ctx, endpoint, payload, &result); err != nil {
		return nil, fmt.Errorf("send to %s: %w", externalID, err)
	}

	if result.Status == "" {
		result.Status = "sent"
	}

	return &result, nil
}
