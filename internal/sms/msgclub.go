// Package sms sends text messages through the MsgClub HTTP gateway.
package sms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/communet/communet-api/internal/config"
)

const sendPath = "/rest/services/sendSMS/sendGroupSms"

// ErrRejected is wrapped by Send when the gateway answers with a non-200 status.
var ErrRejected = errors.New("sms gateway rejected message")

// MsgClubClient is a thin client for the MsgClub group SMS endpoint.
type MsgClubClient struct {
	BaseURL    string
	AuthKey    string
	SenderID   string
	RouteID    string
	HTTPClient *http.Client
}

// NewMsgClubClient builds a client from the SMS config.  cfg.Timeout bounds
// every call, including the body read.
func NewMsgClubClient(cfg config.SMSConfig) *MsgClubClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	scheme := cfg.Scheme
	if scheme == "" {
		scheme = "http"
	}
	return &MsgClubClient{
		BaseURL:    scheme + "://" + cfg.Host,
		AuthKey:    cfg.AuthKey,
		SenderID:   cfg.SenderID,
		RouteID:    cfg.RouteID,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Send delivers message to one phone number.  It returns nil only when the
// gateway acknowledged with 200.
func (c *MsgClubClient) Send(ctx context.Context, phone, message string) error {
	q := url.Values{}
	q.Set("AUTH_KEY", c.AuthKey)
	q.Set("senderId", c.SenderID)
	q.Set("message", message)
	q.Set("routeId", c.RouteID)
	q.Set("mobileNos", phone)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+sendPath+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	log.Debug().Str("gateway_response", strings.TrimSpace(string(body))).Msg("sms accepted")
	return nil
}
