package model

// Totals is the derived money summary of one tab's item list.
type Totals struct {
	Subtotal      float64 `json:"subtotal"`
	TotalDiscount float64 `json:"total_discount"`
	TaxAmount     float64 `json:"tax_amount"`
	Rounding      float64 `json:"rounding"`
	FinalTotal    float64 `json:"final_total"`
}
