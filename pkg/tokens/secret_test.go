package tokens

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSecret(t *testing.T) {
	t.Parallel()

	fixed := strings.Repeat("k", MinSecretLen)

	tests := []struct {
		name          string
		raw           string
		requireFixed  bool
		wantErr       error
		wantGenerated bool
	}{
		{name: "fixed secret", raw: fixed},
		{name: "fixed secret required and given", raw: fixed, requireFixed: true},
		{name: "too short", raw: "short", wantErr: ErrWeakSecret},
		{name: "missing but required", requireFixed: true, wantErr: ErrSecretRequired},
		{name: "missing generates", wantGenerated: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			secret, generated, err := LoadSecret(tt.raw, tt.requireFixed)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, secret)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantGenerated, generated)
			assert.Len(t, secret, MinSecretLen)
			if !tt.wantGenerated {
				assert.Equal(t, []byte(tt.raw), secret)
			}
		})
	}
}

func TestLoadSecret_GeneratedPerCall(t *testing.T) {
	t.Parallel()

	a, _, err := LoadSecret("", false)
	require.NoError(t, err)
	b, _, err := LoadSecret("", false)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
