package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"empty", "", ""},
		{"simple title", "Wuthering Waves", "wuthering-waves"},
		{"punctuation runs collapsed", "  Hello,   World!! ", "hello-world"},
		{"vietnamese diacritics", "Túi Mù", "tui-mu"},
		{"stacked marks", "Liên Quân Mobile", "lien-quan-mobile"},
		{"d with stroke", "Đắk Lắk", "dak-lak"},
		{"ampersand", "Tom & Jerry", "tom-and-jerry"},
		{"digits kept", "AR 60 Account #2", "ar-60-account-2"},
		{"only separators", "--- !!", ""},
		{"underscore is separator", "snake_case_name", "snake-case-name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Make(tt.text))
		})
	}
}

func TestWithID(t *testing.T) {
	assert.Equal(t, "wuthering-waves-4", WithID("Wuthering Waves", 4))
	assert.Equal(t, "premium-account-123.html", HTML("Premium Account", 123))
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		fragment string
		expected string
	}{
		{"", ""},
		{"lien-quan", "Lien Quan"},
		{"genshin-impact", "Genshin Impact"},
		{"3k-pack", "3k Pack"},
	}

	for _, tt := range tests {
		t.Run(tt.fragment, func(t *testing.T) {
			assert.Equal(t, tt.expected, TitleCase(tt.fragment))
		})
	}
}

func TestKnownTypes(t *testing.T) {
	t.Run("longest first", func(t *testing.T) {
		require.Equal(t,
			[]string{"random-1k", "random-3k", "acc-rank", "acc-reg", "normal", "random", "reroll", "tui-mu", "vip"},
			KnownTypes(),
		)
	})

	t.Run("copy returned", func(t *testing.T) {
		keys := KnownTypes()
		keys[0] = "broken"

		require.Equal(t, "random-1k", KnownTypes()[0], "callers must not be able to change match order")
	})
}

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		key      string
		expected AccountType
	}{
		{"vip", AccountType{Key: "vip", Label: "VIP"}},
		{"tui-mu", AccountType{Key: "tui-mu", Label: "TÚI MÙ"}},
		{" RANDOM-3K ", AccountType{Key: "random-3k", Label: "RANDOM 3K"}},
		{"", AccountType{Key: "normal", Label: "NORMAL"}},
		{"legendary", AccountType{Key: "normal", Label: "NORMAL"}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeType(tt.key))
		})
	}
}
