package fleet

import "time"

// MaintenanceImpact is the share of a rise removed by maintenance dampening.
const MaintenanceImpact = 0.5

// Advance moves a metric along its degradation rate by the years elapsed since
// the last maintenance. Any result greater than the current value is dampened by
// MaintenanceImpact. With a rate <= 0 the result never exceeds value, so falling
// metrics are never dampened.
func Advance(value, rate float64, ts, lastMaintenance time.Time) float64 {
	elapsedYears := float64(wholeDays(ts.Sub(lastMaintenance))) / 365
	next := value + rate*elapsedYears
	if next > value {
		next *= 1 - MaintenanceImpact
	}
	return next
}

// wholeDays floors d to whole days, rounding toward negative infinity.
func wholeDays(d time.Duration) int {
	days := int(d / (24 * time.Hour))
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return days
}
