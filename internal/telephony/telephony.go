// Package telephony places outbound calls through the Twilio REST API.
package telephony

import (
	"context"
	"errors"
	"fmt"

	twilio "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"voicetasks/internal/config"
)

// ErrNotConfigured is returned when account settings are missing.
var ErrNotConfigured = errors.New("telephony not configured")

// CallRequest describes an outbound call.
type CallRequest struct {
	To   string
	From string

	// URL is fetched by the provider when the call is answered.
	URL string

	// Method is the HTTP method used for URL.
	Method string
}

// Call is a placed call.
type Call struct {
	SID string
}

// Caller places outbound calls.
type Caller interface {
	PlaceCall(ctx context.Context, req CallRequest) (*Call, error)
}

// callCreator is the subset of the Twilio API used here.
type callCreator interface {
	CreateCall(params *openapi.CreateCallParams) (*openapi.ApiV2010Call, error)
}

// TwilioCaller implements Caller on the Twilio REST API.
type TwilioCaller struct {
	api callCreator
}

var _ Caller = (*TwilioCaller)(nil)

// NewTwilioCaller creates a caller for the given account.
func NewTwilioCaller(cfg config.Twilio) (*TwilioCaller, error) {
	if cfg.AccountSID == "" {
		return nil, fmt.Errorf("%w: %s is required", ErrNotConfigured, config.EnvAccountSID)
	}
	if cfg.AuthToken == "" {
		return nil, fmt.Errorf("%w: %s is required", ErrNotConfigured, config.EnvAuthToken)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioCaller{api: client.Api}, nil
}

// PlaceCall asks the provider to dial req.To from req.From.
// The Twilio client has no context support; ctx is only checked up front.
func (c *TwilioCaller) PlaceCall(ctx context.Context, req CallRequest) (*Call, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.To == "" || req.From == "" {
		return nil, fmt.Errorf("%w: both from and to numbers are required", ErrNotConfigured)
	}

	params := &openapi.CreateCallParams{}
	params.SetTo(req.To)
	params.SetFrom(req.From)
	params.SetUrl(req.URL)
	if req.Method != "" {
		params.SetMethod(req.Method)
	}

	resp, err := c.api.CreateCall(params)
	if err != nil {
		return nil, fmt.Errorf("failed to make call: %w", err)
	}

	call := &Call{}
	if resp != nil && resp.Sid != nil {
		call.SID = *resp.Sid
	}
	return call, nil
}
