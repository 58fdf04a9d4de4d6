package telegram

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsParseError(t *testing.T) {
	assert.True(t, isParseError(errors.New("Bad Request: can't parse entities: Can't find end of the entity starting at byte offset 12")))
	assert.False(t, isParseError(errors.New("Forbidden: bot was blocked by the user")))
}

func TestNopNotifier(t *testing.T) {
	assert.NoError(t, NewNopNotifier().SendMessage("ignored"))
}
