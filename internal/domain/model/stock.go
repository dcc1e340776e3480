package model

// StockLevel reports on-hand quantity of an item in one warehouse.
type StockLevel struct {
	Warehouse string  `json:"warehouse"`
	Available float64 `json:"actual_qty"`
}
