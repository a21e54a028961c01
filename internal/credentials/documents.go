package credentials

import (
	"fmt"
	"time"
)

// TokenDocument is a stored OAuth token. Both the authorized-user layout
// ("token") and the x/oauth2 layout ("access_token") are accepted.
type TokenDocument struct {
	Token        string   `json:"token,omitempty"`
	AccessToken  string   `json:"access_token,omitempty"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	TokenURI     string   `json:"token_uri,omitempty"`
	ClientID     string   `json:"client_id,omitempty"`
	ClientSecret string   `json:"client_secret,omitempty"`
	Scopes       []string `json:"scopes,omitempty"`
	Expiry       string   `json:"expiry,omitempty"`
}

// accessToken returns whichever access token field is populated.
func (d *TokenDocument) accessToken() string {
	if d.Token != "" {
		return d.Token
	}
	return d.AccessToken
}

// needsClient reports whether the client identity must come from the client document.
func (d *TokenDocument) needsClient() bool {
	return d.ClientID == "" || d.ClientSecret == "" || d.TokenURI == ""
}

// mergeClient fills fields that are still empty from the client secrets.
func (d *TokenDocument) mergeClient(s ClientSecrets) {
	if d.ClientID == "" {
		d.ClientID = s.ClientID
	}
	if d.ClientSecret == "" {
		d.ClientSecret = s.ClientSecret
	}
	if d.TokenURI == "" {
		d.TokenURI = s.TokenURI
	}
}

// expiry parses the optional expiry timestamp. A zero time means unknown.
func (d *TokenDocument) expiry() (time.Time, error) {
	if d.Expiry == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999"} {
		if t, err := time.Parse(layout, d.Expiry); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid expiry %q", d.Expiry)
}

// ClientSecrets is the body of a downloaded OAuth client secrets file.
type ClientSecrets struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	AuthURI      string   `json:"auth_uri,omitempty"`
	TokenURI     string   `json:"token_uri,omitempty"`
	RedirectURIs []string `json:"redirect_uris,omitempty"`
}

// ClientDocument is an OAuth client secrets file as downloaded from the
// Google Cloud console. Desktop clients use "installed", web clients "web".
type ClientDocument struct {
	Installed *ClientSecrets `json:"installed,omitempty"`
	Web       *ClientSecrets `json:"web,omitempty"`
}

// Secrets returns the installed secrets, else the web secrets, else empty.
func (d *ClientDocument) Secrets() ClientSecrets {
	switch {
	case d.Installed != nil:
		return *d.Installed
	case d.Web != nil:
		return *d.Web
	default:
		return ClientSecrets{}
	}
}
