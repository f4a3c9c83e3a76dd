package kraken

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTickDirection(t *testing.T) {

	type test struct {
		price     float64
		last      float64
		direction string
	}

	tests := map[string]test{
		"first":  {price: 100, last: 0, direction: "ZeroTick"},
		"up":     {price: 101, last: 100, direction: "PlusTick"},
		"down":   {price: 99, last: 100, direction: "MinusTick"},
		"repeat": {price: 100, last: 100, direction: "ZeroTick"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.direction, tickDirection(tt.price, tt.last))
		})
	}
}
