package services

import (
	"math"
	"sort"
	"strings"

	"marketing-analytics-api/models"
)

// NoBestPlatform is the sentinel for products without contributing campaigns.
const NoBestPlatform = "N/A"

// PlatformStat is one platform's accumulated totals.
type PlatformStat struct {
	Platform    string  `json:"platform"`
	Spend       float64 `json:"spend"`
	Revenue     float64 `json:"revenue"`
	Conversions float64 `json:"conversions"`
}

// ProductStat is one product's accumulated totals plus derived metrics.
type ProductStat struct {
	ProductName  string  `json:"product_name"`
	Spend        float64 `json:"spend"`
	Revenue      float64 `json:"revenue"`
	Conversions  float64 `json:"conversions"`
	ROAS         float64 `json:"roas"`
	BestPlatform string  `json:"best_platform"`
}

// KPISummary is the dashboard headline block.
type KPISummary struct {
	TotalSpend   float64 `json:"totalSpend"`
	TotalRevenue float64 `json:"totalRevenue"`
	ROAS         float64 `json:"roas"`
	TotalOrders  float64 `json:"totalOrders"`
}

// AggregatePlatforms folds records into per-platform totals. Platforms
// outside the recognized set are bucketed under "unknown", never dropped.
// The result is sorted by revenue descending; equal revenue keeps first-seen
// input order (stable sort over first-seen accumulation order).
func AggregatePlatforms(records []models.CampaignReport) []PlatformStat {
	idx := make(map[string]int)
	var out []PlatformStat

	for _, rec := range records {
		p := models.NormalizePlatform(rec.Platform)
		if !models.IsKnownPlatform(p) {
			p = models.PlatformUnknown
		}

		i, ok := idx[p]
		if !ok {
			i = len(out)
			idx[p] = i
			out = append(out, PlatformStat{Platform: p})
		}
		out[i].Spend += rec.AmountSpent
		out[i].Revenue += rec.Revenue
		out[i].Conversions += rec.Conversions
	}

	for i := range out {
		out[i].Spend = round2(out[i].Spend)
		out[i].Revenue = round2(out[i].Revenue)
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Revenue > out[b].Revenue })
	return out
}

// platformTotals carries one platform's contribution to a single product.
type platformTotals struct {
	spend, revenue float64
}

// AggregateProducts folds records into per-product totals with ROAS and the
// best-performing platform (highest per-platform ROAS). Records with an
// empty product name are skipped: they exist in the store but never group.
// The result is sorted by revenue descending with stable ties, like
// AggregatePlatforms.
func AggregateProducts(records []models.CampaignReport) []ProductStat {
	idx := make(map[string]int)
	perPlatform := make(map[string]map[string]*platformTotals)
	var out []ProductStat

	for _, rec := range records {
		name := strings.TrimSpace(rec.ProductName)
		if name == "" {
			continue
		}

		i, ok := idx[name]
		if !ok {
			i = len(out)
			idx[name] = i
			out = append(out, ProductStat{ProductName: name})
			perPlatform[name] = make(map[string]*platformTotals)
		}
		out[i].Spend += rec.AmountSpent
		out[i].Revenue += rec.Revenue
		out[i].Conversions += rec.Conversions

		p := models.NormalizePlatform(rec.Platform)
		if !models.IsKnownPlatform(p) {
			p = models.PlatformUnknown
		}
		pt := perPlatform[name][p]
		if pt == nil {
			pt = &platformTotals{}
			perPlatform[name][p] = pt
		}
		pt.spend += rec.AmountSpent
		pt.revenue += rec.Revenue
	}

	for i := range out {
		out[i].ROAS = round2(safeDiv(out[i].Revenue, out[i].Spend))
		out[i].BestPlatform = bestPlatformFor(perPlatform[out[i].ProductName])
		out[i].Spend = round2(out[i].Spend)
		out[i].Revenue = round2(out[i].Revenue)
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Revenue > out[b].Revenue })
	return out
}

// bestPlatformFor picks the platform with the highest ROAS among the
// product's contributors. Platforms are compared in enumeration order so
// equal ROAS resolves deterministically; an empty contributor set yields the
// N/A sentinel.
func bestPlatformFor(byPlatform map[string]*platformTotals) string {
	best := NoBestPlatform
	bestROAS := math.Inf(-1)
	for _, p := range append(append([]string{}, models.KnownPlatforms...), models.PlatformUnknown) {
		pt, ok := byPlatform[p]
		if !ok {
			continue
		}
		roas := safeDiv(pt.revenue, pt.spend)
		if roas > bestROAS {
			bestROAS = roas
			best = p
		}
	}
	return best
}

// SummarizeKPIs computes headline totals across records. Currency-like
// values round to two decimals; ROAS is exactly 0 when nothing was spent.
func SummarizeKPIs(records []models.CampaignReport) KPISummary {
	var spend, revenue, conversions float64
	for _, rec := range records {
		spend += rec.AmountSpent
		revenue += rec.Revenue
		conversions += rec.Conversions
	}
	return KPISummary{
		TotalSpend:   round2(spend),
		TotalRevenue: round2(revenue),
		ROAS:         round2(safeDiv(revenue, spend)),
		TotalOrders:  conversions,
	}
}

// safeDiv divides n by d, returning 0 on a zero denominator so ratio fields
// are never NaN or Inf.
func safeDiv(n, d float64) float64 {
	if d == 0 {
		return 0
	}
	return n / d
}

// round2 rounds to two decimals for currency-style output.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
