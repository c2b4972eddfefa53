package apiclient

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestClient_Login(t *testing.T) {
	t.Run("tokens saved", func(t *testing.T) {
		store := NewMemoryStore(Tokens{})
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/auth/login", r.URL.Path)

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, map[string]string{"email": "gamer@example.com", "password": "secret-pwd"}, body)

			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"data": map[string]any{
					"user":   map[string]any{"email": "gamer@example.com", "username": "gamer"},
					"tokens": map[string]any{"accessToken": "a1", "refreshToken": "r1"},
				},
			})
		}), store)

		session, err := c.Login(t.Context(), "gamer@example.com", "secret-pwd")

		require.NoError(t, err)
		require.Equal(t, "gamer", session.User.Username)

		tokens, err := store.Load()
		require.NoError(t, err)
		require.Equal(t, Tokens{AccessToken: "a1", RefreshToken: "r1"}, tokens)
	})

	t.Run("wrong password", func(t *testing.T) {
		store := NewMemoryStore(Tokens{})
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "service_error", "message": "Invalid email or password"})
		}), store)

		_, err := c.Login(t.Context(), "gamer@example.com", "wrong")

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		require.Equal(t, "service_error", apiErr.Code)
		require.Equal(t, "Invalid email or password", apiErr.Message)
		require.Equal(t, http.StatusUnauthorized, StatusCode(err))
	})
}

func TestClient_Profile(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/auth/profile", r.URL.Path)
			require.Equal(t, "Bearer a1", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"data": map[string]any{
					"user":    map[string]any{"username": "gamer"},
					"balance": map[string]any{"current": "150.50", "spent": "49.50"},
				},
			})
		}), NewMemoryStore(Tokens{AccessToken: "a1", RefreshToken: "r1"}))

		profile, err := c.Profile(t.Context())

		require.NoError(t, err)
		require.Equal(t, "gamer", profile.User.Username)
		require.True(t, decimal.RequireFromString("150.50").Equal(profile.Balance.Current))
	})

	t.Run("rejected session is not refreshed", func(t *testing.T) {
		rec := &recorder{}
		store := NewMemoryStore(Tokens{AccessToken: "old", RefreshToken: "r1"})
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec.add(r)
			if r.URL.Path == "/api/auth/refresh" {
				writeJSON(w, http.StatusOK, refreshedTokens("new", "r2"))
				return
			}
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "service_error", "message": "Unauthorized"})
		}), store)

		fired := false
		c.OnUnauthorized(func(error) { fired = true })

		_, err := c.Profile(t.Context())

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		require.Equal(t, []hit{
			{Path: "/api/auth/profile", Auth: "Bearer old"},
			{Path: "/api/auth/profile", Auth: ""},
		}, rec.all())
		require.False(t, fired, "unauthorized handlers must not fire")

		tokens, err := store.Load()
		require.NoError(t, err)
		require.Equal(t, Tokens{AccessToken: "old", RefreshToken: "r1"}, tokens, "tokens must be kept")
	})
}

func TestClient_ListAccounts(t *testing.T) {
	var query map[string][]string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"items": []map[string]any{{"id": 123, "title": "AR 60", "price": "12.5", "type": "vip"}},
				"meta":  map[string]any{"page": 2, "limit": 1, "total": 3, "totalPages": 3, "hasNext": true, "hasPrevious": true},
			},
		})
	}), nil)

	maxPrice := decimal.NewFromInt(100)
	page, err := c.ListAccounts(t.Context(), AccountFilter{
		GameCategoryID: 4,
		Type:           "vip",
		MaxPrice:       &maxPrice,
		Page:           2,
		Limit:          1,
	})

	require.NoError(t, err)
	require.Equal(t, map[string][]string{
		"gameCategoryId": {"4"},
		"type":           {"vip"},
		"maxPrice":       {"100"},
		"page":           {"2"},
		"limit":          {"1"},
	}, query)
	require.Len(t, page.Items, 1)
	require.Equal(t, int64(123), page.Items[0].ID)
	require.True(t, decimal.RequireFromString("12.5").Equal(page.Items[0].Price))
	require.True(t, page.Meta.HasNext)
}

func TestClient_Purchase(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/accounts/123/purchase", r.URL.Path)
		writeJSON(w, http.StatusPaymentRequired, map[string]string{"error": "service_error", "message": "Insufficient balance"})
	}), NewMemoryStore(Tokens{AccessToken: "a1"}))

	_, err := c.Purchase(t.Context(), 123)

	require.Error(t, err)
	require.Equal(t, http.StatusPaymentRequired, StatusCode(err))
	require.EqualError(t, err, "api error: status 402: Insufficient balance")
}
