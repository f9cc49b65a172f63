package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateVAT(t *testing.T) {
	breakdown := CalculateVAT(15670, DefaultVATRate)
	assert.InDelta(t, 15670, breakdown.WithVAT, 1e-9)
	assert.InDelta(t, 3290.7, breakdown.VATAmount, 1e-9)
	assert.InDelta(t, 12379.3, breakdown.WithoutVAT, 1e-9)
	assert.InDelta(t, breakdown.WithVAT, breakdown.WithoutVAT+breakdown.VATAmount, 1e-9)
}

func TestCalculateVATZeroAmount(t *testing.T) {
	breakdown := CalculateVAT(0, DefaultVATRate)
	assert.Zero(t, breakdown.WithVAT)
	assert.Zero(t, breakdown.WithoutVAT)
	assert.Zero(t, breakdown.VATAmount)
}
