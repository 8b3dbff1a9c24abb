package domain

import (
	"context"
	"time"

	"shareit/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
}

type ItemRepository interface {
	CreateItem(ctx context.Context, item *models.Item) error
	PatchItem(ctx context.Context, ownerID, itemID int64, patch models.ItemPatch) (*models.Item, error)
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	GetItemsByOwner(ctx context.Context, ownerID int64, page models.Page) ([]*models.Item, error)
	SearchItems(ctx context.Context, text string, page models.Page) ([]*models.Item, error)
	GetItemsByRequestIDs(ctx context.Context, requestIDs []int64) ([]*models.Item, error)
}

type RequestRepository interface {
	CreateRequest(ctx context.Context, req *models.ItemRequest) error
	GetRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error)
	GetRequestsByRequestor(ctx context.Context, userID int64) ([]*models.ItemRequest, error)
	GetRequestsOfOthers(ctx context.Context, userID int64, page models.Page) ([]*models.ItemRequest, error)
}

type BookingRepository interface {
	CreateBookingChecked(ctx context.Context, booking *models.Booking) error
	GetBookingView(ctx context.Context, id int64) (*models.BookingView, error)
	UpdateBookingStatus(ctx context.Context, id int64, status models.BookingStatus) error
	ListBookings(ctx context.Context, filter models.BookingFilter) ([]*models.BookingView, error)
	GetBookingsByItemIDs(ctx context.Context, itemIDs []int64) ([]models.Booking, error)
	HasFinishedBooking(ctx context.Context, itemID, userID int64, now time.Time) (bool, error)
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByItemIDs(ctx context.Context, itemIDs []int64) ([]models.CommentView, error)
}

// Repository is the full storage surface implemented by database.DB.
type Repository interface {
	UserRepository
	ItemRepository
	RequestRepository
	BookingRepository
	CommentRepository
	Ping(ctx context.Context) error
}

type QuotaRepository interface {
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type SheetsWriter interface {
	ReplaceBookingsSheet(ctx context.Context, bookings []*models.BookingView) error
}
