package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatting(t *testing.T) {
	assert.Equal(t, "$1,000.00", Money(1000))
	assert.Equal(t, "$0.00", Money(0))
	assert.Equal(t, "$1,234,567.89", Money(1234567.891))
	assert.Equal(t, "80.00%", Percent(80))
	assert.Equal(t, "66.67%", Percent(66.666))
	assert.Equal(t, "80.0%", KPIPercent(80))
	assert.Equal(t, "100", Count(100))
	assert.Equal(t, "12,345", Count(12345))
	assert.Equal(t, "1,200", Quantity(1200))
	assert.Equal(t, "2.50", Quantity(2.5))
}
