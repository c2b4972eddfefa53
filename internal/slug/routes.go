package slug

import (
	"strings"
)

const paymentSegment = "payment"

// GamePath builds "/{game}-{gameID}"
func GamePath(game string, gameID int64) string {
	return "/" + WithID(game, gameID)
}

// TypedGamePath builds the type-first list path "/{type}-{game}-{gameID}"
func TypedGamePath(game string, gameID int64, accountType string) string {
	return "/" + NormalizeType(accountType).Key + "-" + WithID(game, gameID)
}

// AccountListPath builds the nested list path "/{game}-{gameID}/{type}"
func AccountListPath(game string, gameID int64, accountType string) string {
	return GamePath(game, gameID) + "/" + NormalizeType(accountType).Key
}

// TypedAccountPath builds the type-first detail path "/{type}-{game}-{gameID}/{title}-{accountID}.html"
func TypedAccountPath(game string, gameID int64, accountType string, title string, accountID int64) string {
	return TypedGamePath(game, gameID, accountType) + "/" + HTML(title, accountID)
}

// AccountDetailPath builds the nested detail path "/{game}-{gameID}/{type}/{title}-{accountID}.html"
func AccountDetailPath(game string, gameID int64, accountType string, title string, accountID int64) string {
	return AccountListPath(game, gameID, accountType) + "/" + HTML(title, accountID)
}

// PaymentPath appends the checkout segment to a detail path
func PaymentPath(detailPath string) string {
	return strings.TrimSuffix(detailPath, "/") + "/" + paymentSegment
}

type Kind int

const (
	KindUnknown Kind = iota
	KindGame
	KindAccountList
	KindAccountDetail
	KindPayment
)

func (k Kind) String() string {
	switch k {
	case KindGame:
		return "game"
	case KindAccountList:
		return "account-list"
	case KindAccountDetail:
		return "account-detail"
	case KindPayment:
		return "payment"
	default:
		return "unknown"
	}
}

// Route is a decoded storefront path.
// Account fields are set for detail and payment routes only.
type Route struct {
	Kind         Kind
	GameID       int64
	GameName     string
	Type         string
	AccountID    int64
	AccountTitle string
	Outcome      Outcome
}

// ParsePath resolves a storefront path built by any of the path builders.
// Both the type-first and the nested layouts are recognized.
func ParsePath(p string) Route {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.Trim(p, "/")
	if p == "" {
		return Route{Type: DefaultType, Outcome: Fallback}
	}

	segs := strings.Split(p, "/")
	last := segs[len(segs)-1]

	switch {
	case len(segs) == 1:
		return oneLevelRoute(segs[0])

	case len(segs) == 2 && strings.HasSuffix(last, htmlSuffix):
		return typedDetailRoute(segs[0], segs[1], KindAccountDetail)

	case len(segs) == 2:
		return nestedListRoute(segs[0], segs[1])

	case len(segs) == 3 && last == paymentSegment && strings.HasSuffix(segs[1], htmlSuffix):
		return typedDetailRoute(segs[0], segs[1], KindPayment)

	case len(segs) == 3 && strings.HasSuffix(last, htmlSuffix):
		return nestedDetailRoute(segs[0], segs[1], segs[2], KindAccountDetail)

	case len(segs) == 4 && last == paymentSegment && strings.HasSuffix(segs[2], htmlSuffix):
		return nestedDetailRoute(segs[0], segs[1], segs[2], KindPayment)
	}

	return Route{Kind: KindUnknown, Type: DefaultType, Outcome: Fallback}
}

func oneLevelRoute(seg string) Route {
	ol, typed := parseOneLevel(seg)

	kind := KindGame
	if typed {
		kind = KindAccountList
	}

	return Route{
		Kind:     kind,
		GameID:   ol.GameID,
		GameName: ol.GameName,
		Type:     ol.Type,
		Outcome:  ol.Outcome,
	}
}

func nestedListRoute(gameSeg string, typeSeg string) Route {
	gameName, gameID, ok := parseEntity(gameSeg)
	_, known := LookupType(typeSeg)

	r := Route{
		Kind:     KindAccountList,
		GameID:   gameID,
		GameName: gameName,
		Type:     NormalizeType(typeSeg).Key,
		Outcome:  Parsed,
	}
	if !ok || !known {
		r.Outcome = Fallback
	}
	return r
}

func typedDetailRoute(listSeg string, accountSeg string, kind Kind) Route {
	r := oneLevelRoute(listSeg)
	r.Kind = kind

	title, accountID, ok := parseEntity(accountSeg)
	r.AccountID = accountID
	r.AccountTitle = title
	if !ok {
		r.Outcome = Fallback
	}
	return r
}

func nestedDetailRoute(gameSeg string, typeSeg string, accountSeg string, kind Kind) Route {
	r := nestedListRoute(gameSeg, typeSeg)
	r.Kind = kind

	title, accountID, ok := parseEntity(accountSeg)
	r.AccountID = accountID
	r.AccountTitle = title
	if !ok {
		r.Outcome = Fallback
	}
	return r
}

// parseEntity decodes "{name}-{id}[.html]" requiring a numeric id
func parseEntity(seg string) (name string, id int64, ok bool) {
	name, rawID := ParseWithID(seg)
	id, ok = parseNumber(rawID)
	return name, id, ok
}
