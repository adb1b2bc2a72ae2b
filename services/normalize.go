package services

import (
	"encoding/json"
	"strconv"
	"strings"

	"marketing-analytics-api/models"

	"gorm.io/datatypes"
)

// Column aliases per canonical field, in precedence order. The canonical
// snake_case name leads each list; the rest are the header variants the
// Facebook, TikTok and Google exports actually ship. Matching is exact and
// case-sensitive.
var (
	campaignNameAliases = []string{"campaign_name", "Campaign name", "Campaign Name", "Campaign", "campaign"}
	productNameAliases  = []string{"product_name", "Product name", "Product Name", "Product", "product"}
	amountSpentAliases  = []string{"amount_spent", "Amount spent (USD)", "Amount spent (CAD)", "Amount spent", "Total cost", "Cost", "Spend"}
	revenueAliases      = []string{"revenue", "Purchases conversion value", "Total purchase value", "Purchase value", "Total conv. value", "Conv. value", "Revenue"}
	conversionsAliases  = []string{"conversions", "Purchases", "Results", "Conversions", "Orders"}
	clicksAliases       = []string{"clicks", "Link clicks", "Clicks (destination)", "Clicks"}
	impressionsAliases  = []string{"impressions", "Impressions", "Impr."}
)

// CampaignFieldAliases maps each canonical field name to its accepted header
// aliases in precedence order.
var CampaignFieldAliases = map[string][]string{
	"campaign_name": campaignNameAliases,
	"product_name":  productNameAliases,
	"amount_spent":  amountSpentAliases,
	"revenue":       revenueAliases,
	"conversions":   conversionsAliases,
	"clicks":        clicksAliases,
	"impressions":   impressionsAliases,
}

// PickColumn returns the value of the first alias that is present in the row
// and non-empty after trimming, or "" when none match. Alias order encodes
// precedence; header comparison is case-sensitive with no fuzzy matching.
func PickColumn(row map[string]string, aliases []string) string {
	for _, name := range aliases {
		if v, ok := row[name]; ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// CoerceNumber turns loosely formatted numeric text ("$1,234.56", "1 234,-")
// into a float64. Every byte that is not a digit, decimal point or minus
// sign is stripped first; input that still fails to parse yields exactly 0.
// Never returns an error, so malformed figures degrade to zero instead of
// failing the whole upload.
func CoerceNumber(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if cleaned == "" {
		return 0
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return f
}

// productNameFromCampaign derives the product from a campaign name such as
// "ProductX - Summer Sale": the segment before the first " - ", trimmed.
// Names without the delimiter are taken whole.
func productNameFromCampaign(campaign string) string {
	return strings.TrimSpace(strings.Split(campaign, " - ")[0])
}

// TransformRow converts one raw CSV row into a campaign report record owned
// by userID. Pure function with no I/O and no error path: numeric fields
// coerce to zero, and an empty product name only excludes the record from
// per-product grouping downstream. The original row is retained verbatim in
// RawData for audit.
func TransformRow(row map[string]string, userID int, platform, fileName string) models.CampaignReport {
	campaign := PickColumn(row, campaignNameAliases)
	product := PickColumn(row, productNameAliases)
	if product == "" {
		product = productNameFromCampaign(campaign)
	}

	raw, _ := json.Marshal(row)

	return models.CampaignReport{
		UserID:       userID,
		Platform:     platform,
		CampaignName: campaign,
		ProductName:  product,
		AmountSpent:  CoerceNumber(PickColumn(row, amountSpentAliases)),
		Revenue:      CoerceNumber(PickColumn(row, revenueAliases)),
		Conversions:  CoerceNumber(PickColumn(row, conversionsAliases)),
		Clicks:       CoerceNumber(PickColumn(row, clicksAliases)),
		Impressions:  CoerceNumber(PickColumn(row, impressionsAliases)),
		RawData:      datatypes.JSON(raw),
		FileName:     fileName,
	}
}

// DeriveRevenue fills in revenue from the owner's product settings when the
// export carried none: a zero-revenue record with conversions and a matching
// multiplier gets conversions * revenue_per_conversion. Applied while the
// batch is still in memory; stored records are never rewritten.
func DeriveRevenue(rec *models.CampaignReport, multipliers map[string]float64) {
	if rec.Revenue != 0 || rec.Conversions <= 0 || rec.ProductName == "" {
		return
	}
	if m, ok := multipliers[rec.ProductName]; ok && m > 0 {
		rec.Revenue = rec.Conversions * m
	}
}
