package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"voicetasks/internal/config"
	"voicetasks/internal/credentials"
)

const (
	// OAuth callback timeout
	oauthCallbackTimeout = 5 * time.Minute

	// Token exchange timeout
	tokenExchangeTimeout = 30 * time.Second

	// Starting port for OAuth callback server
	oauthStartPort = 8085

	// Max port attempts
	oauthMaxPortAttempts = 5
)

func newLoginCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authorize access to Google Tasks",
		Long: `Run the one-time OAuth consent flow and store the resulting token in
<secrets-dir>/token.json. The OAuth client is read from GOOGLE_CREDENTIALS_FILE
or <secrets-dir>/credentials.json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runLogin(cmd.Context(), force, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Log in again even if a usable token exists")
	return cmd
}

func (a *app) runLogin(ctx context.Context, force bool, out, errOut io.Writer) error {
	resolver := credentials.Default(a.cfg)

	secrets, err := resolver.ClientSecrets()
	if err != nil {
		if errors.Is(err, credentials.ErrNotFound) {
			printClientSetup(errOut, a.cfg)
		}
		return err
	}

	if !force && hasUsableToken(ctx, resolver) {
		a.println(out, "already logged in")
		return nil
	}

	oauthConfig := loginConfig(secrets)

	port, listener, err := findAvailablePort()
	if err != nil {
		return &credentials.ConfigError{Source: "oauth callback", Err: err}
	}
	defer listener.Close()

	oauthConfig.RedirectURL = fmt.Sprintf("http://localhost:%d/callback", port)

	verifier := oauth2.GenerateVerifier()
	authURL := oauthConfig.AuthCodeURL("state",
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.S256ChallengeOption(verifier),
	)

	fmt.Fprintln(errOut, "Open this URL in your browser:")
	fmt.Fprintln(errOut, authURL)

	code, err := awaitCode(ctx, listener)
	if err != nil {
		return &credentials.ConfigError{Source: "oauth callback", Err: err}
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, tokenExchangeTimeout)
	defer cancel()

	token, err := oauthConfig.Exchange(exchangeCtx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return &credentials.ConfigError{Source: "oauth exchange", Err: fmt.Errorf("failed to exchange code for token: %w", err)}
	}

	if err := a.cfg.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create secrets directory: %w", err)
	}
	if err := saveToken(a.cfg.TokenPath(), tokenDocument(token, oauthConfig)); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	a.println(out, "ok")
	return nil
}

// loginConfig builds the consent flow configuration from client secrets.
func loginConfig(s credentials.ClientSecrets) *oauth2.Config {
	endpoint := google.Endpoint
	if s.AuthURI != "" {
		endpoint.AuthURL = s.AuthURI
	}
	if s.TokenURI != "" {
		endpoint.TokenURL = s.TokenURI
	}
	return &oauth2.Config{
		ClientID:     s.ClientID,
		ClientSecret: s.ClientSecret,
		Endpoint:     endpoint,
		Scopes:       credentials.Scopes,
	}
}

// hasUsableToken reports whether the stored token resolves and can be refreshed.
func hasUsableToken(ctx context.Context, r *credentials.Resolver) bool {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	b, err := r.Resolve(ctx)
	return err == nil && b.RefreshToken != "" && b.Token != ""
}

// awaitCode serves the loopback redirect until it delivers an authorization code.
func awaitCode(ctx context.Context, listener net.Listener) (string, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "No code in callback", http.StatusBadRequest)
			select {
			case errCh <- errors.New("no code in callback"):
			default:
			}
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>Authentication successful</h1><p>You may close this window.</p></body></html>")
		select {
		case codeCh <- code:
		default:
		}
	})

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case errCh <- err:
			default:
			}
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	select {
	case code := <-codeCh:
		return code, nil
	case err := <-errCh:
		return "", err
	case <-time.After(oauthCallbackTimeout):
		return "", errors.New("oauth callback timed out")
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// findAvailablePort tries to find an available port starting from oauthStartPort.
func findAvailablePort() (int, net.Listener, error) {
	for i := 0; i < oauthMaxPortAttempts; i++ {
		port := oauthStartPort + i
		listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
		if err == nil {
			return port, listener, nil
		}
	}
	return 0, nil, errors.New("no available port found for the oauth callback")
}

// tokenDocument converts an exchanged token to the authorized-user layout
// read back by the credential resolver.
func tokenDocument(tok *oauth2.Token, cfg *oauth2.Config) credentials.TokenDocument {
	doc := credentials.TokenDocument{
		Token:        tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenURI:     cfg.Endpoint.TokenURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       cfg.Scopes,
	}
	if !tok.Expiry.IsZero() {
		doc.Expiry = tok.Expiry.UTC().Format(time.RFC3339)
	}
	return doc
}

// saveToken saves a token document to a file with mode 0600.
func saveToken(path string, doc credentials.TokenDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func printClientSetup(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "To authorize Google Tasks, you need OAuth client credentials:")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "1. Go to https://console.cloud.google.com/apis/credentials")
	fmt.Fprintln(w, "2. Create a project (or select an existing one)")
	fmt.Fprintln(w, "3. Enable the Google Tasks API:")
	fmt.Fprintln(w, "   https://console.cloud.google.com/apis/library/tasks.googleapis.com")
	fmt.Fprintln(w, "4. Create an OAuth client ID of type 'Desktop app' and download the JSON")
	fmt.Fprintln(w, "5. Save it as:")
	fmt.Fprintf(w, "   %s\n", cfg.ClientPath())
	fmt.Fprintf(w, "   or put its contents in %s\n", config.EnvClientDocument)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Then run 'voicetasks login' again.")
}
