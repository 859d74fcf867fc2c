// Package draft holds the admin property form: its fields, the derived
// financial values, list editing, uploads and validation.
package draft

import (
	"math"
	"strings"
)

// Tabs of the admin form, in display order.
var Tabs = []Tab{
	{"basic", "Basic Info"},
	{"media", "Media"},
	{"features", "Features & Amenities"},
	{"financial", "Financial Details"},
	{"legal", "Legal & Risk"},
}

// Tab is one section of the admin form.
type Tab struct {
	ID    string
	Label string
}

// TabByID returns the tab id if known, the first tab otherwise.
func TabByID(id string) string {
	for _, t := range Tabs {
		if t.ID == id {
			return id
		}
	}
	return Tabs[0].ID
}

// Property types accepted by the admin form.
var Types = []string{"residential", "commercial", "industrial", "land", "mixed-use"}

// Distribution frequencies.
var Frequencies = []string{"monthly", "quarterly", "biannual", "annual"}

// VendorInfo is the seller's contact information.
type VendorInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website,omitempty"`
}

// Document is an attached document, inlined as a data URL in Content.
type Document struct {
	Name    string `json:"name"`
	URL     string `json:"url,omitempty"`
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
}

// Return holds the projected and historical yearly return in percent.
type Return struct {
	Projected  float64 `json:"projected"`
	Historical float64 `json:"historical"`
}

// Financials holds the income figures; NetOperatingIncome and CapRate are
// derived.
type Financials struct {
	RentalIncome       float64 `json:"rentalIncome"`
	OperatingExpenses  float64 `json:"operatingExpenses"`
	NetOperatingIncome float64 `json:"netOperatingIncome"`
	CapRate            float64 `json:"capRate"`
}

// OfferingDetails describes the share offering.
type OfferingDetails struct {
	MinimumInvestment     float64 `json:"minimumInvestment"`
	HoldingPeriod         float64 `json:"holdingPeriod"`
	DistributionFrequency string  `json:"distributionFrequency"`
}

// Draft is a property being created by an admin. It is sent to the backend
// as is.
type Draft struct {
	Name            string          `json:"name"`
	Title           string          `json:"title"`
	Location        string          `json:"location"`
	Description     string          `json:"description"`
	Type            string          `json:"type"`
	Price           float64         `json:"price"`
	Yield           float64         `json:"yield"`
	TotalShares     float64         `json:"totalShares"`
	AvailableShares float64         `json:"availableShares"`
	PricePerShare   float64         `json:"pricePerShare"`
	TotalValue      float64         `json:"totalValue"`
	Images          []string        `json:"images"`
	Documents       []Document      `json:"documents"`
	Bedrooms        float64         `json:"bedrooms"`
	Bathrooms       float64         `json:"bathrooms"`
	Area            float64         `json:"area"`
	Amenities       []string        `json:"amenities"`
	FundingGoal     float64         `json:"fundingGoal"`
	FundingRaised   float64         `json:"fundingRaised"`
	VendorInfo      VendorInfo      `json:"vendorInfo"`
	LegalInfo       string          `json:"legalInfo"`
	RiskFactors     []string        `json:"riskFactors"`
	Return          Return          `json:"return"`
	Financials      Financials      `json:"financials"`
	OfferingDetails OfferingDetails `json:"offeringDetails"`
}

// New returns an empty draft with the form's defaults.
func New() *Draft {
	return &Draft{
		Type:            "residential",
		TotalShares:     100,
		AvailableShares: 100,
		Images:          []string{},
		Documents:       []Document{},
		Amenities:       []string{},
		RiskFactors:     []string{},
		OfferingDetails: OfferingDetails{DistributionFrequency: "monthly"},
	}
}

// Derive recomputes the derived fields. A zero denominator yields 0, and
// no derived field is ever NaN or infinite.
func (d *Draft) Derive() {
	d.PricePerShare = 0
	if d.TotalShares > 0 {
		d.PricePerShare = finite(d.TotalValue / d.TotalShares)
	}

	d.Financials.NetOperatingIncome = finite(d.Financials.RentalIncome - d.Financials.OperatingExpenses)

	d.Financials.CapRate = 0
	if d.TotalValue > 0 {
		d.Financials.CapRate = finite(d.Financials.NetOperatingIncome / d.TotalValue * 100)
	}
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// AddAmenity appends a trimmed amenity; blank input is ignored.
func (d *Draft) AddAmenity(s string) {
	d.Amenities = add(d.Amenities, s)
}

// RemoveAmenity removes the amenity at i; out of range is a no-op.
func (d *Draft) RemoveAmenity(i int) {
	d.Amenities = remove(d.Amenities, i)
}

// AddRiskFactor appends a trimmed risk factor; blank input is ignored.
func (d *Draft) AddRiskFactor(s string) {
	d.RiskFactors = add(d.RiskFactors, s)
}

// RemoveRiskFactor removes the risk factor at i; out of range is a no-op.
func (d *Draft) RemoveRiskFactor(i int) {
	d.RiskFactors = remove(d.RiskFactors, i)
}

// RemoveImage removes the image at i; out of range is a no-op.
func (d *Draft) RemoveImage(i int) {
	d.Images = remove(d.Images, i)
}

// RemoveDocument removes the document at i; out of range is a no-op.
func (d *Draft) RemoveDocument(i int) {
	d.Documents = remove(d.Documents, i)
}

func add(list []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return list
	}
	return append(list, s)
}

func remove[T any](list []T, i int) []T {
	if i < 0 || i >= len(list) {
		return list
	}
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}

// Compact drops blank risk factors and amenities before submission.
func (d *Draft) Compact() {
	compact := func(list []string) []string {
		out := make([]string, 0, len(list))
		for _, s := range list {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	d.Amenities = compact(d.Amenities)
	d.RiskFactors = compact(d.RiskFactors)
}
