package model

// Customer identifies the buyer attached to a tab.
type Customer struct {
	Name  string `json:"name"`
	TaxID string `json:"gst"`
}

// WalkingCustomer is the sentinel customer used when none is selected.
func WalkingCustomer() Customer {
	return Customer{Name: "Walking Customer", TaxID: "Not Applicable"}
}
