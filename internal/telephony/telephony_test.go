package telephony

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"voicetasks/internal/config"
)

type fakeAPI struct {
	params *openapi.CreateCallParams
	sid    string
	err    error
}

func (f *fakeAPI) CreateCall(params *openapi.CreateCallParams) (*openapi.ApiV2010Call, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	sid := f.sid
	return &openapi.ApiV2010Call{Sid: &sid}, nil
}

func TestNewTwilioCaller_RequiresAccount(t *testing.T) {
	_, err := NewTwilioCaller(config.Twilio{AuthToken: "tok"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewTwilioCaller(config.Twilio{AccountSID: "AC1"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	c, err := NewTwilioCaller(config.Twilio{AccountSID: "AC1", AuthToken: "tok"})
	require.NoError(t, err)
	assert.NotNil(t, c.api)
}

func TestPlaceCall(t *testing.T) {
	api := &fakeAPI{sid: "CA123"}
	c := &TwilioCaller{api: api}

	call, err := c.PlaceCall(context.Background(), CallRequest{
		To:     "+15552223333",
		From:   "+15550001111",
		URL:    "https://calls.example.com/voice",
		Method: "POST",
	})
	require.NoError(t, err)
	assert.Equal(t, "CA123", call.SID)

	require.NotNil(t, api.params)
	assert.Equal(t, "+15552223333", *api.params.To)
	assert.Equal(t, "+15550001111", *api.params.From)
	assert.Equal(t, "https://calls.example.com/voice", *api.params.Url)
	assert.Equal(t, "POST", *api.params.Method)
}

func TestPlaceCall_ProviderError(t *testing.T) {
	c := &TwilioCaller{api: &fakeAPI{err: errors.New("unverified number")}}

	_, err := c.PlaceCall(context.Background(), CallRequest{To: "+1", From: "+2", URL: "https://x/voice"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unverified number")
}

func TestPlaceCall_MissingNumbers(t *testing.T) {
	api := &fakeAPI{}
	c := &TwilioCaller{api: api}

	_, err := c.PlaceCall(context.Background(), CallRequest{URL: "https://x/voice"})
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Nil(t, api.params)
}

func TestPlaceCall_CancelledContext(t *testing.T) {
	api := &fakeAPI{}
	c := &TwilioCaller{api: api}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.PlaceCall(ctx, CallRequest{To: "+1", From: "+2"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, api.params)
}
