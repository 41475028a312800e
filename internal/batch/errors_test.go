package batch

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("%w: no PDF files found", ErrNoInput), "NoInput"},
		{fmt.Errorf("encrypt: %w", ErrNoCredential), "NoCredential"},
		{fmt.Errorf("%w: pdftoppm", ErrExternalToolMissing), "ExternalToolMissing"},
		{errors.New("disk on fire"), "Internal"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Kind(tt.err))
	}
}

func TestStaticInput(t *testing.T) {
	v, ok := StaticInput("secret").ReadInput()
	assert.True(t, ok)
	assert.Equal(t, "secret", v)

	_, ok = StaticInput("   ").ReadInput()
	assert.False(t, ok)
}
