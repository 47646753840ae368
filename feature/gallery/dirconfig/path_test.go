package dirconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParent(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/", "/"},
		{"/travel/", "/"},
		{"/travel/2023/", "/travel/"},
		{"/travel/2023/beach/", "/travel/2023/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Parent(tt.path), tt.path)
	}
}
