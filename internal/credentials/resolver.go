// Package credentials resolves the OAuth credential used to call the Google
// Tasks API.
//
// Documents are looked up in a chain of sources, normally the environment
// (deployed mode, each variable holding a whole JSON document) followed by
// local files (development mode). The first source that holds a document
// wins; if that copy is malformed resolution fails instead of falling
// through to the next source.
//
// Resolution is done fresh for every call. An expired access token is
// refreshed in memory and never written back.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	tasks "google.golang.org/api/tasks/v1"

	"voicetasks/internal/config"
	"voicetasks/internal/service"
)

// expiryDelta treats tokens this close to expiry as already expired.
const expiryDelta = 10 * time.Second

// DefaultTokenURI is the Google OAuth token endpoint.
var DefaultTokenURI = google.Endpoint.TokenURL

// Scopes is the fixed scope set: task management only.
var Scopes = []string{tasks.TasksScope}

// ConfigError reports a missing or malformed credential document.
type ConfigError struct {
	// Source names the env var or file path involved.
	Source string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("credential config error (%s): %v", e.Source, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ErrNotFound is wrapped by ConfigError when no source holds a document.
var ErrNotFound = errors.New("document not found")

// Bundle is a resolved credential.
type Bundle struct {
	Token        string
	RefreshToken string
	ClientID     string
	ClientSecret string
	TokenURI     string
	Scopes       []string

	// Expiry is zero when unknown.
	Expiry time.Time
}

// Expired reports whether the access token is missing or past its expiry.
func (b *Bundle) Expired(now time.Time) bool {
	if b.Token == "" {
		return true
	}
	return !b.Expiry.IsZero() && now.Add(expiryDelta).After(b.Expiry)
}

// OAuthConfig returns the oauth2 client configuration for the bundle.
func (b *Bundle) OAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     b.ClientID,
		ClientSecret: b.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  google.Endpoint.AuthURL,
			TokenURL: b.TokenURI,
		},
		Scopes: b.Scopes,
	}
}

// OAuthToken returns the bundle as an oauth2 token.
func (b *Bundle) OAuthToken() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  b.Token,
		TokenType:    "Bearer",
		RefreshToken: b.RefreshToken,
		Expiry:       b.Expiry,
	}
}

// TokenSource returns a static source for the bundle's access token.
func (b *Bundle) TokenSource() oauth2.TokenSource {
	return oauth2.StaticTokenSource(b.OAuthToken())
}

// Resolver builds credential bundles from a chain of sources.
type Resolver struct {
	sources []Source
	now     func() time.Time
}

// NewResolver creates a resolver that consults sources in order.
func NewResolver(sources ...Source) *Resolver {
	return &Resolver{sources: sources, now: time.Now}
}

// Default returns the environment-then-file resolver for cfg.
func Default(cfg *config.Config) *Resolver {
	return NewResolver(NewEnvSource(), NewFileSource(cfg))
}

// Resolve loads the token document, merges client identity when needed,
// and refreshes an expired token in memory.
func (r *Resolver) Resolve(ctx context.Context) (*Bundle, error) {
	var tok TokenDocument
	origin, err := r.load(TokenDoc, &tok)
	if err != nil {
		return nil, err
	}

	if tok.needsClient() {
		secrets, err := r.ClientSecrets()
		if err != nil {
			return nil, err
		}
		tok.mergeClient(secrets)
	}
	if tok.TokenURI == "" {
		tok.TokenURI = DefaultTokenURI
	}

	expiry, err := tok.expiry()
	if err != nil {
		return nil, &ConfigError{Source: origin, Err: err}
	}

	b := &Bundle{
		Token:        tok.accessToken(),
		RefreshToken: tok.RefreshToken,
		ClientID:     tok.ClientID,
		ClientSecret: tok.ClientSecret,
		TokenURI:     tok.TokenURI,
		Scopes:       Scopes,
		Expiry:       expiry,
	}

	if b.Expired(r.now()) && b.RefreshToken != "" {
		if err := refresh(ctx, b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// ClientSecrets loads the OAuth client document and returns its installed
// or web secrets.
func (r *Resolver) ClientSecrets() (ClientSecrets, error) {
	var doc ClientDocument
	if _, err := r.load(ClientDoc, &doc); err != nil {
		return ClientSecrets{}, err
	}
	return doc.Secrets(), nil
}

// load finds doc in the first source that holds it and decodes it into v.
// It returns the origin the document was read from.
func (r *Resolver) load(doc Document, v any) (string, error) {
	var tried []string
	for _, src := range r.sources {
		data, origin, ok, err := src.Lookup(doc)
		if origin != "" {
			tried = append(tried, origin)
		}
		if err != nil {
			return origin, &ConfigError{Source: origin, Err: err}
		}
		if !ok {
			continue
		}
		if err := json.Unmarshal(data, v); err != nil {
			return origin, &ConfigError{Source: origin, Err: fmt.Errorf("%s is set but is not valid JSON: %w", origin, err)}
		}
		return origin, nil
	}
	return "", &ConfigError{
		Source: strings.Join(tried, ", "),
		Err:    fmt.Errorf("%s %w", doc, ErrNotFound),
	}
}

// refresh exchanges the refresh token for a new access token.
func refresh(ctx context.Context, b *Bundle) error {
	ts := b.OAuthConfig().TokenSource(ctx, &oauth2.Token{RefreshToken: b.RefreshToken})
	fresh, err := ts.Token()
	if err != nil {
		return &service.RemoteError{Op: "refresh access token", Err: err}
	}
	b.Token = fresh.AccessToken
	b.Expiry = fresh.Expiry
	if fresh.RefreshToken != "" {
		b.RefreshToken = fresh.RefreshToken
	}
	return nil
}
