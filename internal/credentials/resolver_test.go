package credentials

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicetasks/internal/service"
)

const clientJSON = `{"installed":{"client_id":"cid","client_secret":"csecret","redirect_uris":["http://localhost"]}}`

// staticEnv builds an EnvSource over a fixed map.
func staticEnv(vals map[string]string) *EnvSource {
	src := NewEnvSource()
	src.LookupEnv = func(k string) (string, bool) {
		v, ok := vals[k]
		return v, ok
	}
	return src
}

// fileSource writes the given documents into a temp dir.
func fileSource(t *testing.T, token, client string) *FileSource {
	t.Helper()
	dir := t.TempDir()
	src := &FileSource{Paths: map[Document]string{
		TokenDoc:  filepath.Join(dir, "token.json"),
		ClientDoc: filepath.Join(dir, "credentials.json"),
	}}
	if token != "" {
		require.NoError(t, os.WriteFile(src.Paths[TokenDoc], []byte(token), 0600))
	}
	if client != "" {
		require.NoError(t, os.WriteFile(src.Paths[ClientDoc], []byte(client), 0600))
	}
	return src
}

func TestResolve_TokenWithClientFields(t *testing.T) {
	env := staticEnv(map[string]string{
		"GOOGLE_TOKEN_FILE": `{"token":"at","refresh_token":"rt","client_id":"id","client_secret":"sec","token_uri":"https://example.com/token"}`,
	})
	r := NewResolver(env)

	b, err := r.Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "at", b.Token)
	assert.Equal(t, "rt", b.RefreshToken)
	assert.Equal(t, "id", b.ClientID)
	assert.Equal(t, "sec", b.ClientSecret)
	assert.Equal(t, "https://example.com/token", b.TokenURI)
	assert.Equal(t, []string{"https://www.googleapis.com/auth/tasks"}, b.Scopes)
}

func TestResolve_MergesClientDocument(t *testing.T) {
	files := fileSource(t, `{"token":"at","refresh_token":"rt"}`, clientJSON)
	r := NewResolver(files)

	b, err := r.Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "cid", b.ClientID)
	assert.Equal(t, "csecret", b.ClientSecret)
	assert.Equal(t, DefaultTokenURI, b.TokenURI)
}

func TestResolve_MergesWebClient(t *testing.T) {
	files := fileSource(t, `{"token":"at","client_id":"keep"}`,
		`{"web":{"client_id":"other","client_secret":"websecret","token_uri":"https://example.com/t"}}`)
	r := NewResolver(files)

	b, err := r.Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "keep", b.ClientID, "existing fields are not overwritten")
	assert.Equal(t, "websecret", b.ClientSecret)
	assert.Equal(t, "https://example.com/t", b.TokenURI)
}

func TestResolve_PrefersEnvironmentOverFile(t *testing.T) {
	env := staticEnv(map[string]string{
		"GOOGLE_TOKEN_FILE":       `{"token":"from-env"}`,
		"GOOGLE_CREDENTIALS_FILE": clientJSON,
	})
	files := fileSource(t, `{"token":"from-file"}`, clientJSON)
	r := NewResolver(env, files)

	b, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-env", b.Token)
}

func TestResolve_FallsBackToFileWhenEnvUnset(t *testing.T) {
	env := staticEnv(map[string]string{"GOOGLE_TOKEN_FILE": ""})
	files := fileSource(t, `{"token":"from-file"}`, clientJSON)
	r := NewResolver(env, files)

	b, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-file", b.Token)
}

func TestResolve_InvalidEnvJSONIsFatal(t *testing.T) {
	env := staticEnv(map[string]string{"GOOGLE_TOKEN_FILE": `{not json`})
	files := fileSource(t, `{"token":"from-file"}`, clientJSON)
	r := NewResolver(env, files)

	_, err := r.Resolve(context.Background())
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "GOOGLE_TOKEN_FILE", cfgErr.Source)
	assert.Contains(t, err.Error(), "GOOGLE_TOKEN_FILE")
}

func TestResolve_InvalidClientJSONIsFatal(t *testing.T) {
	env := staticEnv(map[string]string{
		"GOOGLE_TOKEN_FILE":       `{"token":"at"}`,
		"GOOGLE_CREDENTIALS_FILE": `[oops`,
	})
	r := NewResolver(env, fileSource(t, "", clientJSON))

	_, err := r.Resolve(context.Background())

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "GOOGLE_CREDENTIALS_FILE", cfgErr.Source)
}

func TestResolve_MissingEverywhere(t *testing.T) {
	r := NewResolver(staticEnv(nil), fileSource(t, "", ""))

	_, err := r.Resolve(context.Background())

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, cfgErr.Source, "GOOGLE_TOKEN_FILE")
	assert.Contains(t, cfgErr.Source, "token.json")
}

func TestResolve_MissingClientWhenNeeded(t *testing.T) {
	r := NewResolver(fileSource(t, `{"token":"at"}`, ""))

	_, err := r.Resolve(context.Background())

	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestResolve_InvalidExpiry(t *testing.T) {
	r := NewResolver(fileSource(t, `{"token":"at","expiry":"yesterday"}`, clientJSON))

	_, err := r.Resolve(context.Background())

	var cfgErr *ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func newTokenServer(t *testing.T, status int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = r.ParseForm()
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "rt", r.Form.Get("refresh_token"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"fresh","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestResolve_RefreshesExpiredToken(t *testing.T) {
	srv, calls := newTokenServer(t, http.StatusOK)
	token := `{"token":"stale","refresh_token":"rt","client_id":"id","client_secret":"sec","token_uri":"` + srv.URL + `","expiry":"2020-01-01T00:00:00.000000Z"}`
	files := fileSource(t, token, "")
	r := NewResolver(files)

	b, err := r.Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "fresh", b.Token)
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, b.Expired(time.Now()))

	// The refreshed value is never written back.
	data, err := os.ReadFile(files.Paths[TokenDoc])
	require.NoError(t, err)
	assert.Equal(t, token, string(data))
}

func TestResolve_RefreshesMissingAccessToken(t *testing.T) {
	srv, calls := newTokenServer(t, http.StatusOK)
	token := `{"refresh_token":"rt","client_id":"id","client_secret":"sec","token_uri":"` + srv.URL + `"}`
	r := NewResolver(fileSource(t, token, ""))

	b, err := r.Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "fresh", b.Token)
	assert.Equal(t, int32(1), calls.Load())
}

func TestResolve_ValidTokenIsNotRefreshed(t *testing.T) {
	srv, calls := newTokenServer(t, http.StatusOK)
	expiry := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	token := `{"access_token":"good","refresh_token":"rt","client_id":"id","client_secret":"sec","token_uri":"` + srv.URL + `","expiry":"` + expiry + `"}`
	r := NewResolver(fileSource(t, token, ""))

	b, err := r.Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "good", b.Token)
	assert.Equal(t, int32(0), calls.Load())
}

func TestResolve_RefreshFailureIsRemoteError(t *testing.T) {
	srv, _ := newTokenServer(t, http.StatusBadRequest)
	token := `{"token":"","refresh_token":"rt","client_id":"id","client_secret":"sec","token_uri":"` + srv.URL + `"}`
	r := NewResolver(fileSource(t, token, ""))

	_, err := r.Resolve(context.Background())

	var remoteErr *service.RemoteError
	assert.True(t, errors.As(err, &remoteErr))
}

func TestBundle_Expired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		bundle Bundle
		want   bool
	}{
		{"no token", Bundle{}, true},
		{"no expiry", Bundle{Token: "x"}, false},
		{"future", Bundle{Token: "x", Expiry: now.Add(time.Hour)}, false},
		{"past", Bundle{Token: "x", Expiry: now.Add(-time.Minute)}, true},
		{"within delta", Bundle{Token: "x", Expiry: now.Add(5 * time.Second)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.bundle.Expired(now))
		})
	}
}
