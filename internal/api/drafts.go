package api

import (
	"net/http"

	"github.com/erazemk/delez/internal/draft"
)

// DraftsHandler computes admin form fields.
type DraftsHandler struct{}

type derivedResponse struct {
	PricePerShare      float64 `json:"pricePerShare"`
	NetOperatingIncome float64 `json:"netOperatingIncome"`
	CapRate            float64 `json:"capRate"`
}

// Derive handles POST /api/drafts/derive.
func (h *DraftsHandler) Derive(w http.ResponseWriter, r *http.Request) {
	d := draft.New()
	if err := decodeJSON(w, r, d); err != nil {
		jsonError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	d.Derive()
	jsonResponse(w, http.StatusOK, derivedResponse{
		PricePerShare:      d.PricePerShare,
		NetOperatingIncome: d.Financials.NetOperatingIncome,
		CapRate:            d.Financials.CapRate,
	})
}
