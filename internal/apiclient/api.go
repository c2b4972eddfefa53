package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

type Session struct {
	User   User   `json:"user"`
	Tokens Tokens `json:"tokens"`
}

type Balance struct {
	Current decimal.Decimal `json:"current"`
	Spent   decimal.Decimal `json:"spent"`
}

type Profile struct {
	User    User    `json:"user"`
	Balance Balance `json:"balance"`
}

type Game struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
	URL   string `json:"url"`
}

type Account struct {
	ID             int64           `json:"id"`
	GameCategoryID int64           `json:"gameCategoryId"`
	GameName       string          `json:"gameName"`
	Type           string          `json:"type"`
	TypeLabel      string          `json:"typeLabel"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	Status         string          `json:"status"`
	URL            string          `json:"url"`
	PaymentURL     string          `json:"paymentUrl"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type PageMeta struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasNext     bool `json:"hasNext"`
	HasPrevious bool `json:"hasPrevious"`
}

type AccountPage struct {
	Items []Account `json:"items"`
	Meta  PageMeta  `json:"meta"`
}

// AccountFilter fields left at zero value are not sent
type AccountFilter struct {
	GameCategoryID int64
	Type           string
	Status         string
	MinPrice       *decimal.Decimal
	MaxPrice       *decimal.Decimal
	SortBy         string
	Page           int
	Limit          int
}

func (f AccountFilter) params() Params {
	p := Params{}
	set := func(key string, value any, zero bool) {
		if !zero {
			p[key] = value
		}
	}
	set("gameCategoryId", f.GameCategoryID, f.GameCategoryID == 0)
	set("type", f.Type, f.Type == "")
	set("status", f.Status, f.Status == "")
	set("minPrice", f.MinPrice, f.MinPrice == nil)
	set("maxPrice", f.MaxPrice, f.MaxPrice == nil)
	set("sortBy", f.SortBy, f.SortBy == "")
	set("page", f.Page, f.Page == 0)
	set("limit", f.Limit, f.Limit == 0)
	return p
}

type Order struct {
	ID        uuid.UUID       `json:"id"`
	AccountID int64           `json:"accountId"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

type Deposit struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Reference   uuid.UUID       `json:"reference"`
	ProcessedAt time.Time       `json:"processedAt"`
}

// call runs the request and unwraps the {"success":true,"data":...} envelope.
// Non-2xx responses become *APIError.
func call[T any](ctx context.Context, c *Client, method string, path string, opts RequestOptions) (T, error) {
	var zero T

	resp, err := c.Do(ctx, method, path, opts)
	if err != nil {
		return zero, err
	}

	return decodeData[T](resp, method, path)
}

func decodeData[T any](resp *Response, method string, path string) (T, error) {
	var payload envelope[T]

	if err := resp.Err(); err != nil {
		return payload.Data, err
	}
	if err := resp.Decode(&payload); err != nil {
		return payload.Data, fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return payload.Data, nil
}

// Login stores the issued tokens locally on success
func (c *Client) Login(ctx context.Context, email string, password string) (Session, error) {
	body := map[string]string{"email": email, "password": password}
	return c.authenticate(ctx, "/auth/login", body)
}

// Register creates the account and stores the issued tokens locally on success
func (c *Client) Register(ctx context.Context, email string, username string, password string) (Session, error) {
	body := map[string]string{"email": email, "username": username, "password": password}
	return c.authenticate(ctx, "/auth/register", body)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (Session, error) {
	session, err := call[Session](ctx, c, http.MethodPost, path, RequestOptions{Body: body})
	if err != nil {
		return session, err
	}

	if session.Tokens.AccessToken == "" {
		return session, ErrNoAccessToken
	}
	if err := c.store.Save(session.Tokens); err != nil {
		return session, fmt.Errorf("save tokens: %w", err)
	}
	return session, nil
}

// Profile reads the current user. It lives under /auth/, so a rejected session
// comes back as *APIError with status 401 and is never refreshed.
func (c *Client) Profile(ctx context.Context) (Profile, error) {
	return call[Profile](ctx, c, http.MethodGet, "/auth/profile", RequestOptions{})
}

func (c *Client) ListGames(ctx context.Context) ([]Game, error) {
	return call[[]Game](ctx, c, http.MethodGet, "/game-categories", RequestOptions{})
}

func (c *Client) GetGame(ctx context.Context, id int64) (Game, error) {
	return call[Game](ctx, c, http.MethodGet, "/game-categories/"+strconv.FormatInt(id, 10), RequestOptions{})
}

func (c *Client) ListAccounts(ctx context.Context, filter AccountFilter) (AccountPage, error) {
	return call[AccountPage](ctx, c, http.MethodGet, "/accounts", RequestOptions{Query: filter.params()})
}

func (c *Client) GetAccount(ctx context.Context, id int64) (Account, error) {
	return call[Account](ctx, c, http.MethodGet, "/accounts/"+strconv.FormatInt(id, 10), RequestOptions{})
}

func (c *Client) Purchase(ctx context.Context, accountID int64) (Order, error) {
	path := "/accounts/" + strconv.FormatInt(accountID, 10) + "/purchase"
	return call[Order](ctx, c, http.MethodPost, path, RequestOptions{})
}

func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	return call[[]Order](ctx, c, http.MethodGet, "/orders", RequestOptions{})
}

func (c *Client) CreateDeposit(ctx context.Context, amount decimal.Decimal, method string) (Deposit, error) {
	body := struct {
		Amount decimal.Decimal `json:"amount"`
		Method string          `json:"method"`
	}{amount, method}

	return call[Deposit](ctx, c, http.MethodPost, "/deposits", RequestOptions{Body: body})
}

func (c *Client) ListDeposits(ctx context.Context) ([]Deposit, error) {
	return call[[]Deposit](ctx, c, http.MethodGet, "/deposits", RequestOptions{})
}

func (c *Client) ListTransactions(ctx context.Context) ([]Transaction, error) {
	return call[[]Transaction](ctx, c, http.MethodGet, "/transactions", RequestOptions{})
}
