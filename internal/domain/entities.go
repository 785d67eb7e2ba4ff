package domain

import (
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSeller   Role = "seller"
	RoleCustomer Role = "customer"
)

// Account is the shared shape of admin, seller and customer rows. Sellers
// carry additional shipping fields (see Seller).
type Account struct {
	ID          string
	Name        string
	Email       string
	Password    string
	Role        Role
	AvatarKey   string
	Country     string
	Region      string
	Address     string
	PhoneNumber string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AccountUpdate lists the fields an account holder may change. Nil means
// "leave unchanged".
type AccountUpdate struct {
	Name        *string
	Email       *string
	Password    *string
	Country     *string
	Region      *string
	Address     *string
	PhoneNumber *string
}

type Seller struct {
	Account
	ShippingCountries []string
	ShippingRates     map[string]float64
}

type Product struct {
	ID          string
	SellerID    string
	CategoryID  string
	Name        string
	Description string
	Price       float64
	Quantity    int
	ImageKeys   []string
	RatingAvg   float64
	RatingCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Quantity    *int
	CategoryID  *string
}

type Category struct {
	ID          string
	Name        string
	Description string
	ImageKey    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Review struct {
	ID         string
	ProductID  string
	CustomerID string
	Rating     int
	Comment    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RatingAggregate is one row of the review rollup consumed by the
// maintenance job.
type RatingAggregate struct {
	ProductID string
	Average   float64
	Count     int
}

type SellerReport struct {
	ID         string
	SellerID   string
	ReporterID string
	Message    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Conversation links one customer and one seller. Names and avatar keys of
// both parties are joined in for roster rendering.
type Conversation struct {
	ID             string
	SellerID       string
	CustomerID     string
	SellerName     string
	SellerAvatar   string
	CustomerName   string
	CustomerAvatar string
	CreatedAt      time.Time
}

type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	Text           string
	CreatedAt      time.Time
}

// PresenceEntry maps a logical user to the live connection it registered on.
type PresenceEntry struct {
	UserID       string `json:"userId"`
	ConnectionID string `json:"connectionId"`
}

type ActivityEvent struct {
	Type      ActivityType `json:"type"`
	ActorID   string       `json:"actor_id"`
	SubjectID string       `json:"subject_id"`
	Timestamp time.Time    `json:"timestamp"`
}

type ActivityType string

const (
	ActivityMessageSent    ActivityType = "message_sent"
	ActivitySellerReported ActivityType = "seller_reported"
)

// Statistics is the admin dashboard count summary.
type Statistics struct {
	Sellers   int `json:"sellers"`
	Customers int `json:"customers"`
	Products  int `json:"products"`
	Reports   int `json:"sellerReports"`
}
