package randid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	id := Generate(8)
	assert.Len(t, id, 8)
	for _, r := range id {
		assert.True(t, strings.ContainsRune(alphabet, r), "unexpected rune %q", r)
	}

	assert.Empty(t, Generate(0))

	seen := make(map[string]struct{})
	for range 100 {
		seen[Generate(8)] = struct{}{}
	}
	assert.Greater(t, len(seen), 90, "ids should rarely collide")
}
