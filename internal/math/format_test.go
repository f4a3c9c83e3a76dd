package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "100000.00", Format(100_000))
	assert.Equal(t, "98510.50", Format(98_510.499))
	assert.Equal(t, "-1.24", Format(-1.239))
}
