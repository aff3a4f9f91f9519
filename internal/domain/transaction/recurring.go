package transaction

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// minOccurrences is the smallest group size worth classifying.
const minOccurrences = 3

// gapTolerance is the maximum deviation, in days, of any single interval
// from the group's mean for the group to count as recurring. This is a
// strict per-gap check, not a statistical band: one late bill disqualifies
// the group, which is acceptable for a heuristic detector.
const gapToleranceDays = 2.0

// RecurringGroup describes a detected recurring-transaction candidate.
type RecurringGroup struct {
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	Type            string          `json:"transaction_type"`
	Occurrences     int             `json:"occurrences"`
	AverageInterval int             `json:"average_interval"`
	Pattern         string          `json:"pattern"`
	LastDate        time.Time       `json:"last_date"`
	TransactionIDs  []string        `json:"transaction_ids"`
}

// DetectRecurring groups transactions by the signature
// (description, amount, type) and flags groups of three or more whose
// day-gaps are all within two days of the group mean. Input order does
// not matter; each group is sorted by date internally.
func DetectRecurring(txns []*Transaction) []RecurringGroup {
	groups := make(map[string][]*Transaction)
	for _, txn := range txns {
		key := fmt.Sprintf("%s-%s-%s", txn.Description, txn.Amount, txn.Type)
		groups[key] = append(groups[key], txn)
	}

	var result []RecurringGroup
	for _, group := range groups {
		if len(group) < minOccurrences {
			continue
		}

		sort.Slice(group, func(i, j int) bool {
			return group[i].TransactionDate.Before(group[j].TransactionDate)
		})

		gaps := make([]float64, 0, len(group)-1)
		for i := 1; i < len(group); i++ {
			days := group[i].TransactionDate.Sub(group[i-1].TransactionDate).Hours() / 24
			gaps = append(gaps, math.Round(days))
		}

		var sum float64
		for _, g := range gaps {
			sum += g
		}
		mean := sum / float64(len(gaps))

		consistent := true
		for _, g := range gaps {
			if math.Abs(g-mean) > gapToleranceDays {
				consistent = false
				break
			}
		}
		if !consistent {
			continue
		}

		ids := make([]string, len(group))
		for i, txn := range group {
			ids[i] = txn.ID
		}

		result = append(result, RecurringGroup{
			Description:     group[0].Description,
			Amount:          group[0].Amount,
			Type:            group[0].Type,
			Occurrences:     len(group),
			AverageInterval: int(math.Round(mean)),
			Pattern:         patternLabel(mean),
			LastDate:        group[len(group)-1].TransactionDate,
			TransactionIDs:  ids,
		})
	}

	// Map iteration order is random; fix the output order.
	sort.Slice(result, func(i, j int) bool {
		if result[i].Occurrences != result[j].Occurrences {
			return result[i].Occurrences > result[j].Occurrences
		}
		return result[i].Description < result[j].Description
	})

	return result
}

// patternLabel names a mean gap. The ranges are intentionally loose enough
// to absorb month-length and leap-year variation.
func patternLabel(meanGap float64) string {
	switch {
	case meanGap >= 28 && meanGap <= 31:
		return "monthly"
	case meanGap >= 13 && meanGap <= 15:
		return "bi-weekly"
	case meanGap >= 6 && meanGap <= 8:
		return "weekly"
	case meanGap >= 89 && meanGap <= 92:
		return "quarterly"
	case meanGap >= 364 && meanGap <= 366:
		return "annually"
	default:
		return fmt.Sprintf("every %d days", int(math.Round(meanGap)))
	}
}
