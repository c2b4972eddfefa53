package handlers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/accountshop/internal/models"
	"github.com/nkiryanov/accountshop/internal/service/catalog"
	"github.com/nkiryanov/accountshop/internal/slug"
)

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUserResponse(u models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Username: u.Username, CreatedAt: u.CreatedAt}
}

type tokensResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

func newTokensResponse(pair models.TokenPair) tokensResponse {
	return tokensResponse{
		AccessToken:  pair.Access.Value,
		RefreshToken: pair.Refresh.Value,
		ExpiresAt:    pair.Access.ExpiresAt,
	}
}

type sessionResponse struct {
	User   userResponse   `json:"user"`
	Tokens tokensResponse `json:"tokens"`
}

type balanceResponse struct {
	Current decimal.Decimal `json:"current"`
	Spent   decimal.Decimal `json:"spent"`
}

type gameResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
	URL   string `json:"url"`
}

func newGameResponse(g models.GameCategory) gameResponse {
	return gameResponse{ID: g.ID, Name: g.Name, Image: g.Image, URL: slug.GamePath(g.Name, g.ID)}
}

type accountResponse struct {
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

func newAccountResponse(a models.Account) accountResponse {
	accountType := slug.NormalizeType(a.Type)
	url := slug.TypedAccountPath(a.GameName, a.GameCategoryID, accountType.Key, a.Title, a.ID)

	return accountResponse{
		ID:             a.ID,
		GameCategoryID: a.GameCategoryID,
		GameName:       a.GameName,
		Type:           accountType.Key,
		TypeLabel:      accountType.Label,
		Title:          a.Title,
		Description:    a.Description,
		Price:          a.Price,
		Status:         a.Status,
		URL:            url,
		PaymentURL:     slug.PaymentPath(url),
		CreatedAt:      a.CreatedAt,
	}
}

type pageMeta struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasNext     bool `json:"hasNext"`
	HasPrevious bool `json:"hasPrevious"`
}

type accountPageResponse struct {
	Items []accountResponse `json:"items"`
	Meta  pageMeta          `json:"meta"`
}

func newAccountPageResponse(p catalog.Page) accountPageResponse {
	items := make([]accountResponse, 0, len(p.Items))
	for _, a := range p.Items {
		items = append(items, newAccountResponse(a))
	}

	return accountPageResponse{
		Items: items,
		Meta: pageMeta{
			Page:        p.Page,
			Limit:       p.Limit,
			Total:       p.Total,
			TotalPages:  p.TotalPages(),
			HasNext:     p.HasNext(),
			HasPrevious: p.HasPrevious(),
		},
	}
}

type orderResponse struct {
	ID        uuid.UUID       `json:"id"`
	AccountID int64           `json:"accountId"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

func newOrderResponse(o models.Order) orderResponse {
	return orderResponse{ID: o.ID, AccountID: o.AccountID, Amount: o.Amount, Status: o.Status, CreatedAt: o.CreatedAt}
}

type depositResponse struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func newDepositResponse(d models.Deposit) depositResponse {
	return depositResponse{
		ID:        d.ID,
		Amount:    d.Amount,
		Method:    d.Method,
		Status:    d.Status,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type transactionResponse struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Reference   uuid.UUID       `json:"reference"`
	ProcessedAt time.Time       `json:"processedAt"`
}

// Map a slice with fn; never returns nil so empty lists render as []
func mapSlice[T any, R any](items []T, fn func(T) R) []R {
	res := make([]R, 0, len(items))
	for _, item := range items {
		res = append(res, fn(item))
	}
	return res
}
