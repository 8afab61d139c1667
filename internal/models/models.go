package models

import "time"

// Restaurant is a listing entry returned by GET /api/restaurants.
type Restaurant struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Cuisine     string `json:"cuisine,omitempty"`
	Location    string `json:"location,omitempty"`
	Hours       string `json:"hours,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// Review is a free-text comment attached to a menu item.
type Review struct {
	Author  string `json:"author,omitempty"`
	Comment string `json:"comment"`
}

// MenuItem is one entry of a restaurant menu. Read-only to this client;
// the cart keeps its own snapshot.
type MenuItem struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
	Calories    int      `json:"calories,omitempty"`
	Image       string   `json:"image,omitempty"`
	Reviews     []Review `json:"reviews,omitempty"`
}

// UserProfile is the bearer-authenticated profile document.
type UserProfile struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// ProfileUpdate carries the fields sent on PUT /api/auth/profile.
// Password is omitted from the request when empty.
type ProfileUpdate struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	Password       string `json:"password,omitempty"`
}

// Payment is one past charge from GET /api/payments/history.
// Amount is in minor units, Created a unix timestamp.
type Payment struct {
	ID      string `json:"id"`
	Amount  int64  `json:"amount"`
	Created int64  `json:"created"`
	Status  string `json:"status"`
}

// PaymentIntent is the response of POST /api/payments/intent. The order
// id is handed to the status tracker after checkout.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	OrderID      string `json:"order_id"`
}

// OrderStatusView is a snapshot of one order's authoritative status. The
// status set is open-ended and owned by the remote order system.
type OrderStatusView struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// StatusUpdate is a push-channel message announcing a status transition
// for one order.
type StatusUpdate struct {
	OrderID   string    `json:"order_id"`
	OldStatus string    `json:"old_status,omitempty"`
	NewStatus string    `json:"new_status"`
	ChangedBy string    `json:"changed_by,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
