package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	assert.Equal(t, 3, Distance("kitten", "sitting"))
	assert.Equal(t, 3, Distance("saturday", "sunday"))
	assert.Equal(t, 3, Distance("", "abc"))
	assert.Equal(t, 0, Distance("abc", "abc"))
}

func TestClosestMatches(t *testing.T) {
	options := []string{"UC-AUT-001", "UC-AUT-002", "UC-PAY-001"}

	matches := ClosestMatches("UC-AUT-001", options, 3)
	assert.NotEmpty(t, matches)
	assert.Equal(t, "UC-AUT-001", matches[0])

	matches = ClosestMatches("UC-AUTH-001", options, 3)
	assert.NotEmpty(t, matches)
	assert.Equal(t, "UC-AUT-001", matches[0])
}

func TestSuggestAlternatives(t *testing.T) {
	available := []string{"UC-AUT-001", "UC-PAY-001"}
	msg := SuggestAlternatives("UC-AUTH-001", available, "use case")
	assert.Contains(t, msg, "Did you mean")
	assert.Contains(t, msg, "UC-AUT-001")
}
