package exitcode

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"voicetasks/internal/credentials"
	"voicetasks/internal/service"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, Success},
		{"plain", errors.New("title required"), UserError},
		{"config", &credentials.ConfigError{Source: "token.json", Err: credentials.ErrNotFound}, AuthError},
		{"wrapped config", fmt.Errorf("resolve: %w", &credentials.ConfigError{Source: "x", Err: errors.New("bad")}), AuthError},
		{"remote", &service.RemoteError{Op: "create task", Err: errors.New("503")}, BackendError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromError(tt.err))
		})
	}
}
