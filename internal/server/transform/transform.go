package transform

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophledger/internal/common"
)

// Record is one loosely-typed transaction supplied by the caller. Amount
// is nil when the caller omitted it; empty strings mean "absent".
type Record struct {
	Amount      *float64 `json:"amount,omitempty"`
	Type        string   `json:"type,omitempty"`
	Category    string   `json:"category,omitempty"`
	Date        string   `json:"date,omitempty"`
	Description string   `json:"description,omitempty"`
}

func (r Record) amount() float64 {
	if r.Amount == nil {
		return 0
	}
	return *r.Amount
}

// Batch is the input of every operation. A nil Transactions slice means
// the caller sent no transactions at all, which is rejected; an empty
// slice is a valid, empty batch.
type Batch struct {
	Transactions []Record `json:"transactions"`
	Period       string   `json:"period,omitempty"`
}

type Summary struct {
	TotalTransactions  int     `json:"total_transactions"`
	TotalIncome        float64 `json:"total_income"`
	TotalExpenses      float64 `json:"total_expenses"`
	NetAmount          float64 `json:"net_amount"`
	AverageTransaction float64 `json:"average_transaction"`
}

type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

type CategorizeResult struct {
	Categories []CategoryTotal `json:"categories"`
}

type OriginalRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type NormalizedRecord struct {
	Record
	NormalizedAmount float64 `json:"normalized_amount"`
}

type NormalizeResult struct {
	OriginalRange OriginalRange      `json:"original_range"`
	Transactions  []NormalizedRecord `json:"normalized_transactions"`
}

type PeriodBucket struct {
	Key      string  `json:"period"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Count    int     `json:"count"`
}

type AggregateResult struct {
	Period  string         `json:"period"`
	Buckets []PeriodBucket `json:"aggregated_data"`
}

type handler func(Batch) (any, error)

var handlers = map[Operation]handler{
	Summarize:  func(b Batch) (any, error) { return summarize(b.Transactions), nil },
	Categorize: func(b Batch) (any, error) { return categorize(b.Transactions), nil },
	Normalize:  func(b Batch) (any, error) { return normalize(b.Transactions) },
	Aggregate:  func(b Batch) (any, error) { return aggregate(b.Transactions, b.Period) },
}

// Apply runs op over batch. The concrete result type depends on op:
// Summary, CategorizeResult, NormalizeResult or AggregateResult.
// Invalid input wraps common.ErrValidation.
func Apply(op Operation, batch Batch) (any, error) {
	h, ok := handlers[op]
	if !ok {
		return nil, fmt.Errorf("%w: invalid transformation type %s", common.ErrValidation, op)
	}
	if batch.Transactions == nil {
		return nil, fmt.Errorf("%w: no transactions data provided", common.ErrValidation)
	}
	return h(batch)
}

// summarize totals income and expense records. Records of any other type,
// or with no type, are counted but excluded from the totals.
func summarize(records []Record) Summary {
	var s Summary
	s.TotalTransactions = len(records)

	for _, r := range records {
		switch r.Type {
		case "income":
			s.TotalIncome += r.amount()
		case "expense":
			s.TotalExpenses += r.amount()
		}
	}

	s.NetAmount = s.TotalIncome - s.TotalExpenses
	if len(records) > 0 {
		s.AverageTransaction = (s.TotalIncome + s.TotalExpenses) / float64(len(records))
	}
	return s
}

func categorize(records []Record) CategorizeResult {
	res := CategorizeResult{Categories: []CategoryTotal{}}
	index := map[string]int{}

	for _, r := range records {
		category := r.Category
		if category == "" {
			category = "Uncategorized"
		}
		i, ok := index[category]
		if !ok {
			i = len(res.Categories)
			index[category] = i
			res.Categories = append(res.Categories, CategoryTotal{Category: category})
		}
		res.Categories[i].Total += r.amount()
		res.Categories[i].Count++
	}
	return res
}

// normalize rescales every amount into [0, 1] using the batch's min and
// max. When all amounts are equal every record maps to 0.
func normalize(records []Record) (NormalizeResult, error) {
	if len(records) == 0 {
		return NormalizeResult{}, fmt.Errorf("%w: no valid amounts found", common.ErrValidation)
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range records {
		lo = math.Min(lo, r.amount())
		hi = math.Max(hi, r.amount())
	}

	out := make([]NormalizedRecord, 0, len(records))
	for _, r := range records {
		n := 0.0
		if hi != lo {
			n = (r.amount() - lo) / (hi - lo)
		}
		out = append(out, NormalizedRecord{Record: r, NormalizedAmount: n})
	}

	return NormalizeResult{
		OriginalRange: OriginalRange{Min: lo, Max: hi},
		Transactions:  out,
	}, nil
}

// aggregate buckets records by the calendar period of their date. Records
// without a parseable date are skipped. Any type other than "income",
// including a missing one, counts as an expense.
func aggregate(records []Record, period string) (AggregateResult, error) {
	if period == "" {
		period = "month"
	}
	keyFn, ok := bucketKeys[period]
	if !ok {
		return AggregateResult{}, fmt.Errorf("%w: unknown period %q, expected day, week, month or year", common.ErrValidation, period)
	}

	index := map[string]int{}
	buckets := []PeriodBucket{}

	for _, r := range records {
		date, ok := parseDate(r.Date)
		if !ok {
			continue
		}
		key := keyFn(date)

		i, seen := index[key]
		if !seen {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, PeriodBucket{Key: key})
		}

		if r.Type == "income" {
			buckets[i].Income += r.amount()
		} else {
			buckets[i].Expenses += r.amount()
		}
		buckets[i].Count++
	}

	sort.Slice(buckets, func(a, b int) bool { return buckets[a].Key < buckets[b].Key })

	return AggregateResult{Period: period, Buckets: buckets}, nil
}

var bucketKeys = map[string]func(time.Time) string{
	"day":   func(t time.Time) string { return t.Format("2006-01-02") },
	"month": func(t time.Time) string { return t.Format("2006-01") },
	"year":  func(t time.Time) string { return strconv.Itoa(t.Year()) },
	"week": func(t time.Time) string {
		y, w := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", y, w)
	},
}

// dateLayouts covers the ISO-8601 forms seen in exported statements:
// extended and basic notation, T or space separator, minute or second
// precision, with or without an offset. Fractional seconds are accepted
// after any seconds field.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04Z07:00",
	"2006-01-02 15:04",
	time.DateOnly,
	"20060102T150405Z07:00",
	"20060102T150405",
	"20060102",
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
