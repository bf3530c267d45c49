package util

import "github.com/asecurityteam/rolling"

func CreateRollingWindow(size int) *rolling.PointPolicy {
	return rolling.NewPointPolicy(rolling.NewWindow(size))
}

// GetWindowMax returns the max value in the window
func GetWindowMax(window *rolling.PointPolicy) float64 {
	return window.Reduce(rolling.Max)
}

// GetWindowMin returns the min value in the window
func GetWindowMin(window *rolling.PointPolicy) float64 {
	return window.Reduce(rolling.Min)
}

// GetWindowAvg returns the average of all values in the window
func GetWindowAvg(window *rolling.PointPolicy) float64 {
	return window.Reduce(rolling.Avg)
}
