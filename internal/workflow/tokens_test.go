package workflow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"estate_hub/internal/models"
)

func TestUUIDTokens(t *testing.T) {
	tokens := UUIDTokens()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := tokens()
		assert.True(t, strings.HasPrefix(token, "QR-"))
		assert.NotEqual(t, models.QRPlaceholder, token)
		assert.False(t, seen[token], "token %q repeated", token)
		seen[token] = true
	}
}
