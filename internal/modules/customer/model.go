// README: Customer profile and purchase history entities.
package customer

import "errors"

var ErrNotFound = errors.New("customer not found")

// Preferences captures the shopping preferences kept on the profile.
type Preferences struct {
	PreferredBrands      []string `json:"preferred_brands,omitempty"`
	CategoriesInterested []string `json:"categories_interested,omitempty"`
	PriceSensitivity     string   `json:"price_sensitivity,omitempty"`
}

// StyleProfile describes how the customer likes to dress.
type StyleProfile struct {
	PreferredStyles []string `json:"preferred_styles,omitempty"`
	VIPCustomer     bool     `json:"vip_customer,omitempty"`
}

// SizeInfo holds the customer's known sizes per garment type.
type SizeInfo struct {
	Top      string `json:"top,omitempty"`
	Bottom   string `json:"bottom,omitempty"`
	Footwear string `json:"footwear,omitempty"`
}

// Purchase is one line of recent purchase history, denormalized with the
// product fields the recommender cares about.
type Purchase struct {
	ProductName string  `json:"product_name"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	Price       float64 `json:"price"`
	PurchasedAt string  `json:"purchased_at"`
}

// Context is the assembled customer view handed to the recommender. A missing
// customer yields the Guest context rather than an error.
type Context struct {
	CustomerID      int64        `json:"customer_id"`
	Name            string       `json:"name"`
	Preferences     Preferences  `json:"preferences"`
	StyleProfile    StyleProfile `json:"style_profile"`
	SizeInfo        SizeInfo     `json:"size_info"`
	Location        string       `json:"location,omitempty"`
	RecentPurchases []Purchase   `json:"recent_purchases"`
}

// Guest is the fallback context for unknown customers.
func Guest(customerID int64) Context {
	return Context{
		CustomerID:      customerID,
		Name:            "Guest",
		RecentPurchases: []Purchase{},
	}
}
