package domain

import (
	"context"
	"time"
)

// Repository interfaces
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	Update(ctx context.Context, id string, update *AccountUpdate) error
	UpdateAvatar(ctx context.Context, id, avatarKey string) error
	SaveRefreshToken(ctx context.Context, id, token string, expiresAt time.Time) error
	GetByRefreshToken(ctx context.Context, id, token string) (*Account, error)
	ClearRefreshToken(ctx context.Context, id string) error
	PurgeExpiredTokens(ctx context.Context, before time.Time) (int64, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, name string, page int) ([]*Account, error)
	Count(ctx context.Context) (int, error)
}

// SellerInfoRepository covers the seller-only shipping columns.
type SellerInfoRepository interface {
	GetShipping(ctx context.Context, sellerID string) ([]string, map[string]float64, error)
	UpdateShipping(ctx context.Context, sellerID string, countries []string, rates map[string]float64) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	Update(ctx context.Context, id, sellerID string, update *ProductUpdate) (*Product, error)
	UpdateImages(ctx context.Context, id string, imageKeys []string) error
	UpdateRating(ctx context.Context, id string, avg float64, count int) error
	Delete(ctx context.Context, id string) (*Product, error)
	GetOwned(ctx context.Context, id, sellerID string) (*Product, error)
	List(ctx context.Context, name, categoryID string, page int) ([]*Product, error)
	ListBySeller(ctx context.Context, sellerID, name, categoryID string, page int) ([]*Product, error)
	QuickSearch(ctx context.Context, name string) ([]*Product, error)
	Count(ctx context.Context) (int, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	Update(ctx context.Context, id string, name, description *string) (*Category, error)
	UpdateImage(ctx context.Context, id, imageKey string) error
	Delete(ctx context.Context, id string) error
}

type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	GetOwned(ctx context.Context, id, customerID string) (*Review, error)
	Update(ctx context.Context, id string, rating int, comment string) error
	Delete(ctx context.Context, id string) error
	ListByProduct(ctx context.Context, productID string) ([]*Review, error)
	AggregateRatings(ctx context.Context) ([]*RatingAggregate, error)
}

type ReportRepository interface {
	Create(ctx context.Context, report *SellerReport) error
	GetOwned(ctx context.Context, id, reporterID string) (*SellerReport, error)
	Update(ctx context.Context, id, message string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type ConversationRepository interface {
	Create(ctx context.Context, conversation *Conversation) error
	GetByID(ctx context.Context, id string) (*Conversation, error)
	GetByPair(ctx context.Context, customerID, sellerID string) (*Conversation, error)
	ListForUser(ctx context.Context, userID string) ([]*Conversation, error)
}

type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	ListByConversation(ctx context.Context, conversationID string) ([]*Message, error)
}

// Cache interfaces
type CatalogCache interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
	SetProduct(ctx context.Context, product *Product, ttl time.Duration) error
	InvalidateProduct(ctx context.Context, id string) error
}

// Object storage interface
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string) (string, error)
}

// Event interfaces
type EventPublisher interface {
	PublishActivity(ctx context.Context, event *ActivityEvent) error
}

type EventSubscriber interface {
	SubscribeToActivity(ctx context.Context, handler ActivityHandler) error
}

type ActivityHandler func(event *ActivityEvent) error

// Realtime interfaces
type ChatConnection interface {
	Send(message interface{}) error
	Close() error
	ID() string
}
