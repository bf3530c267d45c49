package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetWindowMax(t *testing.T) {
	// GIVEN
	window := CreateRollingWindow(3)
	window.Append(1)
	window.Append(2)
	window.Append(3)

	// WHEN
	maximum := GetWindowMax(window)

	// THEN
	assert.Equal(t, 3.0, maximum)
}

func TestGetWindowMin_Rolled(t *testing.T) {
	// GIVEN
	window := CreateRollingWindow(3)
	window.Append(1)
	window.Append(5)
	window.Append(6)
	window.Append(7)

	// WHEN
	minimum := GetWindowMin(window)

	// THEN
	assert.Equal(t, 5.0, minimum)
}

func TestGetWindowAvg(t *testing.T) {
	// GIVEN
	window := CreateRollingWindow(2)
	window.Append(100)
	window.Append(300)

	// WHEN
	avg := GetWindowAvg(window)

	// THEN
	assert.Equal(t, 200.0, avg)
}
