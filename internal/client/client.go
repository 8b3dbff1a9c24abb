package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"shareit/internal/models"

	"github.com/redis/go-redis/v9"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d", e.StatusCode)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Client calls the shareit HTTP API on behalf of a user.
type Client struct {
	baseURL    string
	httpClient *http.Client

	redis    *redis.Client
	cacheTTL time.Duration
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// UseRedisCache configures optional Redis caching for search results.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// BookingRequest is the body of a new booking.
type BookingRequest struct {
	ItemID int64     `json:"itemId"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// NewItem is the body of a new item.
type NewItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   *int64 `json:"requestId,omitempty"`
}

func (c *Client) CreateUser(ctx context.Context, name, email string) (*models.User, error) {
	var out models.User
	body := map[string]string{"name": name, "email": email}
	if err := c.do(ctx, http.MethodPost, "/users", 0, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/users/"+strconv.FormatInt(id, 10), 0, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateItem(ctx context.Context, ownerID int64, item NewItem) (*models.Item, error) {
	var out models.Item
	if err := c.do(ctx, http.MethodPost, "/items", ownerID, item, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetItem(ctx context.Context, userID, itemID int64) (*models.ItemDetails, error) {
	var out models.ItemDetails
	if err := c.do(ctx, http.MethodGet, "/items/"+strconv.FormatInt(itemID, 10), userID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchItems finds available items. Results are cached when a Redis cache is configured.
func (c *Client) SearchItems(ctx context.Context, text string, page models.Page) ([]models.Item, error) {
	path := fmt.Sprintf("/items/search?text=%s&from=%d&size=%d", url.QueryEscape(text), page.From, page.Limit())
	cacheKey := "shareit:search:" + strings.ToLower(text) + ":" + strconv.Itoa(page.From) + ":" + strconv.Itoa(page.Limit())

	var out []models.Item
	if c.readCache(ctx, cacheKey, &out) {
		return out, nil
	}
	if err := c.do(ctx, http.MethodGet, path, 0, nil, &out); err != nil {
		return nil, err
	}
	c.writeCache(ctx, cacheKey, out)
	return out, nil
}

func (c *Client) PostComment(ctx context.Context, userID, itemID int64, text string) (*models.CommentView, error) {
	var out models.CommentView
	path := fmt.Sprintf("/items/%d/comment", itemID)
	if err := c.do(ctx, http.MethodPost, path, userID, map[string]string{"text": text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateBooking(ctx context.Context, bookerID int64, req BookingRequest) (*models.BookingView, error) {
	var out models.BookingView
	if err := c.do(ctx, http.MethodPost, "/bookings", bookerID, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DecideBooking approves or rejects a booking as its item's owner.
func (c *Client) DecideBooking(ctx context.Context, ownerID, bookingID int64, approved bool) (*models.BookingView, error) {
	var out models.BookingView
	path := fmt.Sprintf("/bookings/%d?approved=%t", bookingID, approved)
	if err := c.do(ctx, http.MethodPatch, path, ownerID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListBookings lists the user's bookings, or the bookings of the user's
// items when asOwner is set.
func (c *Client) ListBookings(ctx context.Context, userID int64, asOwner bool, state models.BookingState, page models.Page) ([]models.BookingView, error) {
	path := "/bookings"
	if asOwner {
		path += "/owner"
	}
	path += fmt.Sprintf("?state=%s&from=%d&size=%d", url.QueryEscape(string(state)), page.From, page.Limit())

	var out []models.BookingView
	if err := c.do(ctx, http.MethodGet, path, userID, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateRequest(ctx context.Context, userID int64, description string) (*models.RequestWithItems, error) {
	var out models.RequestWithItems
	if err := c.do(ctx, http.MethodPost, "/requests", userID, map[string]string{"description": description}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListOwnRequests(ctx context.Context, userID int64) ([]models.RequestWithItems, error) {
	var out []models.RequestWithItems
	if err := c.do(ctx, http.MethodGet, "/requests", userID, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Health reports whether the API and its database are up.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", 0, nil, nil)
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), out) == nil
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.cacheTTL).Err()
}

// do sends the request; userID 0 omits the identity header.
func (c *Client) do(ctx context.Context, method, path string, userID int64, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != 0 {
		req.Header.Set(models.UserIDHeader, strconv.FormatInt(userID, 10))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if json.NewDecoder(resp.Body).Decode(&msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
