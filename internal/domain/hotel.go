package domain

// Hotel is a catalog document as the app consumes it. Name is the only
// required field; everything else defaults to "" when the document omits
// it. Price is display text, not a currency amount.
type Hotel struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Price    string `json:"price"`
	City     string `json:"city"`
}
