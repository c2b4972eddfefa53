package slug

import (
	"slices"
	"strings"
)

// DefaultType is used whenever an account type can't be recognized
const DefaultType = "normal"

// Account type as it appears in storefront URLs and in the catalog
type AccountType struct {
	// URL and API key, e.g. "random-3k"
	Key string

	// Human readable label, e.g. "RANDOM 3K"
	Label string
}

var accountTypes = []AccountType{
	{Key: "acc-reg", Label: "ACC REG"},
	{Key: "acc-rank", Label: "ACC RANK"},
	{Key: "tui-mu", Label: "TÚI MÙ"},
	{Key: "vip", Label: "VIP"},
	{Key: "reroll", Label: "REROLL"},
	{Key: "normal", Label: "NORMAL"},
	{Key: "random-3k", Label: "RANDOM 3K"},
	{Key: "random-1k", Label: "RANDOM 1K"},
	{Key: "random", Label: "RANDOM"},
}

// Keys ordered longest first, so "random-3k" is tried before "random"
var matchOrder = func() []string {
	keys := make([]string, 0, len(accountTypes))
	for _, t := range accountTypes {
		keys = append(keys, t.Key)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})
	return keys
}()

// KnownTypes returns account type keys in matching order (longest first)
func KnownTypes() []string {
	return slices.Clone(matchOrder)
}

// AccountTypes returns the type table in display order
func AccountTypes() []AccountType {
	return slices.Clone(accountTypes)
}

func LookupType(key string) (AccountType, bool) {
	for _, t := range accountTypes {
		if t.Key == key {
			return t, true
		}
	}
	return AccountType{}, false
}

// NormalizeType returns the matching type or the default one for unknown and empty keys
func NormalizeType(key string) AccountType {
	if t, ok := LookupType(strings.ToLower(strings.TrimSpace(key))); ok {
		return t
	}
	t, _ := LookupType(DefaultType)
	return t
}

// matchType finds the longest type key that equals s or prefixes it as "key-".
// The returned rest is what follows "key-" (empty when s equals the key).
func matchType(s string) (key string, rest string, ok bool) {
	for _, k := range matchOrder {
		if s == k {
			return k, "", true
		}
		if strings.HasPrefix(s, k+"-") {
			return k, s[len(k)+1:], true
		}
	}
	return "", s, false
}
