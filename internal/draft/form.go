package draft

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// StateField is the hidden form field carrying the encoded draft between
// tab posts.
const StateField = "draft"

var textFields = map[string]func(d *Draft) *string{
	"name":                                  func(d *Draft) *string { return &d.Name },
	"title":                                 func(d *Draft) *string { return &d.Title },
	"location":                              func(d *Draft) *string { return &d.Location },
	"description":                           func(d *Draft) *string { return &d.Description },
	"type":                                  func(d *Draft) *string { return &d.Type },
	"legalInfo":                             func(d *Draft) *string { return &d.LegalInfo },
	"vendorInfo.name":                       func(d *Draft) *string { return &d.VendorInfo.Name },
	"vendorInfo.phone":                      func(d *Draft) *string { return &d.VendorInfo.Phone },
	"vendorInfo.email":                      func(d *Draft) *string { return &d.VendorInfo.Email },
	"vendorInfo.website":                    func(d *Draft) *string { return &d.VendorInfo.Website },
	"offeringDetails.distributionFrequency": func(d *Draft) *string { return &d.OfferingDetails.DistributionFrequency },
}

var numberFields = map[string]func(d *Draft) *float64{
	"price":                             func(d *Draft) *float64 { return &d.Price },
	"yield":                             func(d *Draft) *float64 { return &d.Yield },
	"totalShares":                       func(d *Draft) *float64 { return &d.TotalShares },
	"availableShares":                   func(d *Draft) *float64 { return &d.AvailableShares },
	"totalValue":                        func(d *Draft) *float64 { return &d.TotalValue },
	"bedrooms":                          func(d *Draft) *float64 { return &d.Bedrooms },
	"bathrooms":                         func(d *Draft) *float64 { return &d.Bathrooms },
	"area":                              func(d *Draft) *float64 { return &d.Area },
	"fundingGoal":                       func(d *Draft) *float64 { return &d.FundingGoal },
	"fundingRaised":                     func(d *Draft) *float64 { return &d.FundingRaised },
	"return.projected":                  func(d *Draft) *float64 { return &d.Return.Projected },
	"return.historical":                 func(d *Draft) *float64 { return &d.Return.Historical },
	"financials.rentalIncome":           func(d *Draft) *float64 { return &d.Financials.RentalIncome },
	"financials.operatingExpenses":      func(d *Draft) *float64 { return &d.Financials.OperatingExpenses },
	"offeringDetails.minimumInvestment": func(d *Draft) *float64 { return &d.OfferingDetails.MinimumInvestment },
	"offeringDetails.holdingPeriod":     func(d *Draft) *float64 { return &d.OfferingDetails.HoldingPeriod },
}

// ParseForm rebuilds a draft from a form post: the encoded draft in
// StateField, overlaid with every known field present in the post. Numbers
// that do not parse become 0. Derived fields are recomputed.
func ParseForm(form url.Values) (*Draft, error) {
	d, err := Decode(form.Get(StateField))
	if err != nil {
		return nil, err
	}

	for name, field := range textFields {
		if vs, ok := form[name]; ok && len(vs) > 0 {
			*field(d) = strings.TrimSpace(vs[0])
		}
	}
	for name, field := range numberFields {
		if vs, ok := form[name]; ok && len(vs) > 0 {
			*field(d) = parseNumber(vs[0])
		}
	}

	d.Derive()
	return d, nil
}

func parseNumber(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

// Decode parses an encoded draft. An empty string yields a new draft.
func Decode(s string) (*Draft, error) {
	d := New()
	if strings.TrimSpace(s) == "" {
		return d, nil
	}
	if err := json.Unmarshal([]byte(s), d); err != nil {
		return nil, fmt.Errorf("decoding draft: %w", err)
	}
	return d, nil
}

// Encode returns the draft as JSON for StateField.
func (d *Draft) Encode() string {
	data, err := json.Marshal(d)
	if err != nil {
		return ""
	}
	return string(data)
}
