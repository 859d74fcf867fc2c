package draft

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"net/url"
	"strings"
	"testing"
)

func validDraft() *Draft {
	d := New()
	d.Name = "Harbour Lofts"
	d.Title = "Converted warehouse lofts"
	d.Location = "Ljubljana"
	d.Description = "Twelve lofts by the river."
	d.TotalValue = 1200000
	return d
}

func TestDerive(t *testing.T) {
	tests := []struct {
		name                 string
		totalValue, shares   float64
		income, expenses     float64
		wantPerShare, wantCR float64
	}{
		{"normal", 1000000, 100, 120000, 40000, 10000, 8},
		{"zero shares", 1000000, 0, 0, 0, 0, 0},
		{"zero value", 0, 100, 5000, 1000, 0, 0},
		{"negative noi", 500000, 50, 1000, 6000, 10000, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			d.TotalValue = tt.totalValue
			d.TotalShares = tt.shares
			d.Financials.RentalIncome = tt.income
			d.Financials.OperatingExpenses = tt.expenses
			d.Derive()

			if d.PricePerShare != tt.wantPerShare {
				t.Errorf("pricePerShare = %v, want %v", d.PricePerShare, tt.wantPerShare)
			}
			if d.Financials.NetOperatingIncome != tt.income-tt.expenses {
				t.Errorf("netOperatingIncome = %v, want %v", d.Financials.NetOperatingIncome, tt.income-tt.expenses)
			}
			if d.Financials.CapRate != tt.wantCR {
				t.Errorf("capRate = %v, want %v", d.Financials.CapRate, tt.wantCR)
			}
		})
	}
}

func TestDeriveNeverNaN(t *testing.T) {
	d := New()
	d.TotalValue = math.Inf(1)
	d.TotalShares = math.Inf(1)
	d.Derive()
	if math.IsNaN(d.PricePerShare) || math.IsInf(d.PricePerShare, 0) {
		t.Errorf("pricePerShare not finite: %v", d.PricePerShare)
	}
	if math.IsNaN(d.Financials.CapRate) || math.IsInf(d.Financials.CapRate, 0) {
		t.Errorf("capRate not finite: %v", d.Financials.CapRate)
	}
}

func TestListOps(t *testing.T) {
	d := New()
	d.AddAmenity("  Pool ")
	d.AddAmenity("   ")
	d.AddAmenity("Gym")
	if len(d.Amenities) != 2 || d.Amenities[0] != "Pool" {
		t.Fatalf("unexpected amenities: %q", d.Amenities)
	}

	d.RemoveAmenity(5)
	d.RemoveAmenity(-1)
	if len(d.Amenities) != 2 {
		t.Errorf("out of range removal changed list: %q", d.Amenities)
	}
	d.RemoveAmenity(0)
	if len(d.Amenities) != 1 || d.Amenities[0] != "Gym" {
		t.Errorf("unexpected amenities after removal: %q", d.Amenities)
	}

	d.AddRiskFactor("Vacancy")
	d.AddRiskFactor("")
	d.RemoveRiskFactor(0)
	if len(d.RiskFactors) != 0 {
		t.Errorf("expected no risk factors, got %q", d.RiskFactors)
	}

	d.Images = []string{"a", "b", "c"}
	d.RemoveImage(1)
	if strings.Join(d.Images, ",") != "a,c" {
		t.Errorf("unexpected images: %q", d.Images)
	}

	d.Documents = []Document{{Name: "x"}, {Name: "y"}}
	d.RemoveDocument(0)
	if len(d.Documents) != 1 || d.Documents[0].Name != "y" {
		t.Errorf("unexpected documents: %+v", d.Documents)
	}
}

func TestRemoveDoesNotAlias(t *testing.T) {
	d := New()
	d.Images = []string{"a", "b", "c"}
	before := d.Images
	d.RemoveImage(0)
	if before[0] != "a" {
		t.Error("RemoveImage modified the previous slice")
	}
}

func TestParseForm(t *testing.T) {
	prev := validDraft()
	prev.AddAmenity("Pool")

	form := url.Values{
		StateField:                     {prev.Encode()},
		"totalValue":                   {"2000000"},
		"totalShares":                  {"400"},
		"financials.rentalIncome":      {"150000"},
		"financials.operatingExpenses": {"50000"},
		"vendorInfo.email":             {" seller@example.com "},
		"yield":                        {"not a number"},
	}

	d, err := ParseForm(form)
	if err != nil {
		t.Fatalf("ParseForm: %v", err)
	}
	if d.Name != "Harbour Lofts" || len(d.Amenities) != 1 {
		t.Errorf("carried state lost: %+v", d)
	}
	if d.PricePerShare != 5000 {
		t.Errorf("expected pricePerShare 5000, got %v", d.PricePerShare)
	}
	if d.Financials.NetOperatingIncome != 100000 || d.Financials.CapRate != 5 {
		t.Errorf("unexpected financials: %+v", d.Financials)
	}
	if d.VendorInfo.Email != "seller@example.com" {
		t.Errorf("expected trimmed email, got %q", d.VendorInfo.Email)
	}
	if d.Yield != 0 {
		t.Errorf("unparseable number should be 0, got %v", d.Yield)
	}
}

func TestParseFormDefaults(t *testing.T) {
	d, err := ParseForm(url.Values{})
	if err != nil {
		t.Fatalf("ParseForm: %v", err)
	}
	if d.TotalShares != 100 || d.AvailableShares != 100 || d.OfferingDetails.DistributionFrequency != "monthly" {
		t.Errorf("unexpected defaults: %+v", d)
	}

	if _, err := ParseForm(url.Values{StateField: {"{broken"}}); err == nil {
		t.Error("expected error for broken state")
	}
}

func TestValidate(t *testing.T) {
	if err := validDraft().Validate(); err != nil {
		t.Fatalf("valid draft rejected: %v", err)
	}

	d := validDraft()
	d.Name = "   "
	d.Type = "castle"
	d.Price = -5
	d.VendorInfo.Email = "not-an-email"
	d.OfferingDetails.DistributionFrequency = "weekly"

	err := d.Validate()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	fields := ve.Fields()
	for _, f := range []string{"name", "type", "price", "vendorInfo.email", "offeringDetails.distributionFrequency"} {
		if !fields[f] {
			t.Errorf("expected problem for %s, got %v", f, ve.Problems)
		}
	}
	if fields["location"] {
		t.Error("location is valid and should not be reported")
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func TestUploads(t *testing.T) {
	d := validDraft()

	if err := d.AddImage(bytes.NewReader(pngBytes(t))); err != nil {
		t.Fatalf("AddImage: %v", err)
	}
	if len(d.Images) != 1 || !strings.HasPrefix(d.Images[0], "data:image/jpeg;base64,") {
		t.Errorf("unexpected image: %.40s", d.Images)
	}
	if err := d.AddImage(strings.NewReader("plain text")); err == nil {
		t.Error("expected error for non-image upload")
	}

	pdf := []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")
	if err := d.AddDocument("../../deed.pdf", bytes.NewReader(pdf)); err != nil {
		t.Fatalf("AddDocument: %v", err)
	}
	doc := d.Documents[0]
	if doc.Name != "deed.pdf" || doc.Type != "application/pdf" {
		t.Errorf("unexpected document: %+v", doc)
	}
	if !strings.HasPrefix(doc.Content, "data:application/pdf;base64,") {
		t.Errorf("unexpected content prefix: %.40s", doc.Content)
	}

	if err := d.Validate(); err != nil {
		t.Errorf("draft with uploads should validate: %v", err)
	}
}

type fakePublisher struct {
	got []any
	err error
}

func (f *fakePublisher) AddProperty(_ context.Context, token string, property any) error {
	if f.err != nil {
		return f.err
	}
	f.got = append(f.got, property)
	return nil
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	res := Submit(ctx, &fakePublisher{}, "", validDraft())
	if res.OK || res.Message != MsgAuthError || !errors.Is(res.Err, ErrNoToken) {
		t.Errorf("missing token: unexpected result %+v", res)
	}

	failing := &fakePublisher{err: errors.New("boom")}
	d := validDraft()
	res = Submit(ctx, failing, "tok", d)
	if res.OK || res.Message != MsgFailed || res.Draft != d {
		t.Errorf("failure should keep the draft: %+v", res)
	}

	bad := validDraft()
	bad.Title = ""
	res = Submit(ctx, &fakePublisher{}, "tok", bad)
	if res.OK || res.Message != MsgInvalid {
		t.Errorf("invalid draft: unexpected result %+v", res)
	}

	pub := &fakePublisher{}
	d = validDraft()
	d.TotalShares = 200
	d.RiskFactors = []string{"", "Vacancy", " "}
	res = Submit(ctx, pub, "tok", d)
	if !res.OK || res.Message != MsgAdded {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.Draft.Name != "" {
		t.Error("expected a fresh draft after success")
	}
	sent := pub.got[0].(*Draft)
	if sent.PricePerShare != 6000 {
		t.Errorf("derived fields should be recomputed before submission, got %v", sent.PricePerShare)
	}
	if len(sent.RiskFactors) != 1 {
		t.Errorf("blank risk factors should be dropped, got %q", sent.RiskFactors)
	}
}

func TestTabByID(t *testing.T) {
	if TabByID("legal") != "legal" || TabByID("nope") != "basic" {
		t.Error("unexpected tab resolution")
	}
}
