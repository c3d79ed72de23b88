package models

// Region is a compute region from the platform's region catalog, used only
// to resolve an item's region code into a display label.
type Region struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Country string `json:"country"`
}
