package usecase

import "github.com/ppclens/backend/internal/domain"

// ComputeMetrics fills ctr, cpc, acos and cvr for every record. Metrics the
// report already carried are kept (sanitized); the rest are derived from the
// raw counts. A zero denominator always yields 0, including zero sales with
// positive spend.
func ComputeMetrics(table *domain.TermTable) {
	if table == nil {
		return
	}
	keepCTR := table.HasMetric(domain.FieldCTR)
	keepCPC := table.HasMetric(domain.FieldCPC)
	keepACOS := table.HasMetric(domain.FieldACOS)
	keepCVR := table.HasMetric(domain.FieldCVR)

	for i := range table.Records {
		r := &table.Records[i]
		r.CTR = pick(keepCTR, r.CTR, r.Clicks, r.Impressions)
		r.CPC = pick(keepCPC, r.CPC, r.Spend, r.Clicks)
		r.ACOS = pick(keepACOS, r.ACOS, r.Spend, r.Sales)
		r.CVR = pick(keepCVR, r.CVR, r.Orders, r.Clicks)
	}
}

func pick(keep bool, existing, num, den float64) float64 {
	if keep {
		return sanitize(existing)
	}
	return SafeDiv(num, den)
}

// SafeDiv divides a by b, returning 0 when b is zero or the result is not finite
func SafeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return sanitize(a / b)
}
