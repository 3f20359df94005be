package leave

import (
	"math"
	"time"
)

// Balance is the per-user annual leave ledger.
type Balance struct {
	UserID        int64
	AnnualBalance int
	AnnualUsed    int
}

func (b Balance) Remaining() int {
	return b.AnnualBalance - b.AnnualUsed
}

// CanTake reports whether span more days fit within the entitlement.
func (b Balance) CanTake(span int) bool {
	return b.AnnualUsed+span <= b.AnnualBalance
}

// Entitlement returns the number of whole months between contract start and
// end, floored at zero. A month only counts once its day-of-month is reached.
func Entitlement(contractStart, contractEnd time.Time) int {
	years := contractEnd.Year() - contractStart.Year()
	months := int(contractEnd.Month()) - int(contractStart.Month())
	total := years*12 + months
	if contractEnd.Day() < contractStart.Day() {
		total--
	}
	if total < 0 {
		return 0
	}
	return total
}

// RequestedSpan returns the inclusive number of days between start and end.
func RequestedSpan(start, end time.Time) int {
	diff := end.Sub(start)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours()/24)) + 1
}
