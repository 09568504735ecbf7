package bestseller

import (
	"strings"
	"time"
)

const locatorDateLayout = "2006/01/02"

// BuildLocator returns the snapshot URL for the week `offset` 7-day periods
// before ref. Pure and deterministic: the same base, reference date, and
// offset always yield the same locator. The caller guarantees offset >= 0.
func BuildLocator(base string, ref time.Time, offset int) string {
	day := ref.AddDate(0, 0, -7*offset)
	return strings.TrimRight(base, "/") + "/" + day.Format(locatorDateLayout) + "/"
}
