package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathBuilders(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"game", GamePath("Wuthering Waves", 4), "/wuthering-waves-4"},
		{"typed game", TypedGamePath("Liên Quân", 7, "random-3k"), "/random-3k-lien-quan-7"},
		{"typed game default type", TypedGamePath("Liên Quân", 7, ""), "/normal-lien-quan-7"},
		{"nested list", AccountListPath("Genshin Impact", 4, "vip"), "/genshin-impact-4/vip"},
		{
			"typed detail",
			TypedAccountPath("Genshin Impact", 4, "vip", "AR 60 Account!", 123),
			"/vip-genshin-impact-4/ar-60-account-123.html",
		},
		{
			"nested detail",
			AccountDetailPath("Genshin Impact", 4, "vip", "AR 60 Account!", 123),
			"/genshin-impact-4/vip/ar-60-account-123.html",
		},
		{
			"payment",
			PaymentPath("/vip-genshin-impact-4/ar-60-account-123.html"),
			"/vip-genshin-impact-4/ar-60-account-123.html/payment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected Route
	}{
		{
			name:     "game",
			path:     "/genshin-impact-4",
			expected: Route{Kind: KindGame, GameID: 4, GameName: "Genshin Impact", Type: "normal", Outcome: Parsed},
		},
		{
			name:     "game with query",
			path:     "/genshin-impact-4?page=2",
			expected: Route{Kind: KindGame, GameID: 4, GameName: "Genshin Impact", Type: "normal", Outcome: Parsed},
		},
		{
			name:     "typed list",
			path:     "/random-3k-lien-quan-7",
			expected: Route{Kind: KindAccountList, GameID: 7, GameName: "Lien Quan", Type: "random-3k", Outcome: Parsed},
		},
		{
			name:     "nested list",
			path:     "/genshin-impact-4/vip",
			expected: Route{Kind: KindAccountList, GameID: 4, GameName: "Genshin Impact", Type: "vip", Outcome: Parsed},
		},
		{
			name:     "nested list unknown type",
			path:     "/genshin-impact-4/legendary",
			expected: Route{Kind: KindAccountList, GameID: 4, GameName: "Genshin Impact", Type: "normal", Outcome: Fallback},
		},
		{
			name: "typed detail",
			path: "/vip-genshin-impact-4/ar-60-account-123.html",
			expected: Route{
				Kind: KindAccountDetail, GameID: 4, GameName: "Genshin Impact", Type: "vip",
				AccountID: 123, AccountTitle: "Ar 60 Account", Outcome: Parsed,
			},
		},
		{
			name: "nested detail",
			path: "/genshin-impact-4/vip/ar-60-account-123.html",
			expected: Route{
				Kind: KindAccountDetail, GameID: 4, GameName: "Genshin Impact", Type: "vip",
				AccountID: 123, AccountTitle: "Ar 60 Account", Outcome: Parsed,
			},
		},
		{
			name: "typed payment",
			path: "/vip-genshin-impact-4/ar-60-account-123.html/payment",
			expected: Route{
				Kind: KindPayment, GameID: 4, GameName: "Genshin Impact", Type: "vip",
				AccountID: 123, AccountTitle: "Ar 60 Account", Outcome: Parsed,
			},
		},
		{
			name: "nested payment",
			path: "/genshin-impact-4/vip/ar-60-account-123.html/payment",
			expected: Route{
				Kind: KindPayment, GameID: 4, GameName: "Genshin Impact", Type: "vip",
				AccountID: 123, AccountTitle: "Ar 60 Account", Outcome: Parsed,
			},
		},
		{
			name: "detail without numeric id",
			path: "/vip-genshin-impact-4/ar-60-account.html",
			expected: Route{
				Kind: KindAccountDetail, GameID: 4, GameName: "Genshin Impact", Type: "vip",
				AccountID: 0, AccountTitle: "Ar 60", Outcome: Fallback,
			},
		},
		{
			name:     "bare game id",
			path:     "/42",
			expected: Route{Kind: KindGame, GameID: 42, GameName: "", Type: "normal", Outcome: Parsed},
		},
		{
			name:     "root",
			path:     "/",
			expected: Route{Kind: KindUnknown, Type: "normal", Outcome: Fallback},
		},
		{
			name:     "too deep",
			path:     "/a/b/c/d/e",
			expected: Route{Kind: KindUnknown, Type: "normal", Outcome: Fallback},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParsePath(tt.path))
		})
	}

	t.Run("built paths resolve back", func(t *testing.T) {
		for _, typ := range KnownTypes() {
			t.Run(typ, func(t *testing.T) {
				typed := ParsePath(PaymentPath(TypedAccountPath("Honkai Star Rail", 9, typ, "Trailblazer 70", 55)))
				nested := ParsePath(PaymentPath(AccountDetailPath("Honkai Star Rail", 9, typ, "Trailblazer 70", 55)))

				expected := Route{
					Kind: KindPayment, GameID: 9, GameName: "Honkai Star Rail", Type: typ,
					AccountID: 55, AccountTitle: "Trailblazer 70", Outcome: Parsed,
				}
				require.Equal(t, expected, typed)
				require.Equal(t, expected, nested)
			})
		}
	})
}
