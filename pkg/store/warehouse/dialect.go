package warehouse

import (
	"fmt"
	"strings"
)

// Placeholder returns the bind parameter syntax of the driver for the n-th (1-based) argument
func Placeholder(driver string, n int) string {
	if strings.EqualFold(driver, DriverPostgres) {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}
