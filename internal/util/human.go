package util

import "fmt"

var byteUnits = []string{"KB", "MB", "GB", "TB"}

// Human renders a byte count with a binary unit.
func Human(n int64) string {
	if n < 1<<10 {
		return fmt.Sprintf("%d B", n)
	}

	v, unit := float64(n), ""
	for _, u := range byteUnits {
		v /= 1 << 10
		unit = u
		if v < 1<<10 {
			break
		}
	}

	return fmt.Sprintf("%.2f %s", v, unit)
}
