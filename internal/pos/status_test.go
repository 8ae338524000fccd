package pos

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminalStates(t *testing.T) {
	assert.False(t, IsTerminal(StatusPreparing))
	assert.False(t, IsTerminal(StatusServed))
	assert.True(t, IsTerminal(StatusBilled))
	assert.True(t, IsTerminal(StatusCancelled))
}

func TestOriginsFor(t *testing.T) {
	assert.Equal(t, []Status{StatusPreparing}, DefaultPolicy.OriginsFor(StatusServed))
	assert.Equal(t, []Status{StatusPreparing, StatusServed}, DefaultPolicy.OriginsFor(StatusBilled))
	assert.Equal(t, []Status{StatusPreparing, StatusServed}, DefaultPolicy.OriginsFor(StatusCancelled))
	assert.Empty(t, DefaultPolicy.OriginsFor(StatusPreparing), "nothing transitions back to preparing")

	strict := TransitionPolicy{AllowDirectBilling: false}
	assert.Equal(t, []Status{StatusServed}, strict.OriginsFor(StatusBilled))
}

func TestValidStatus(t *testing.T) {
	for _, s := range AllStatuses {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus("ready"))
	assert.False(t, ValidStatus(""))
}
