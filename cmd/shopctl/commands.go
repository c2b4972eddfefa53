package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/nkiryanov/accountshop/internal/apiclient"
	"github.com/nkiryanov/accountshop/internal/slug"
)

var errUsage = errors.New("usage")

type command struct {
	usage string
	run   func(ctx context.Context, s *shell, args []string) error
}

var commands = map[string]command{
	"register":     {"register --email E --username U [--password P]", cmdRegister},
	"login":        {"login --email E [--password P]", cmdLogin},
	"logout":       {"logout", cmdLogout},
	"profile":      {"profile", cmdProfile},
	"games":        {"games", cmdGames},
	"accounts":     {"accounts [--game ID] [--type T] [--status S] [--min-price P] [--max-price P] [--sort S] [--page N] [--limit N]", cmdAccounts},
	"open":         {"open <storefront-path>", cmdOpen},
	"buy":          {"buy <storefront-path|account-id>", cmdBuy},
	"orders":       {"orders", cmdOrders},
	"deposit":      {"deposit <amount> <MOMO|ATM|CARD>", cmdDeposit},
	"deposits":     {"deposits", cmdDeposits},
	"transactions": {"transactions", cmdTransactions},
}

// shell carries what commands need from the outside world
type shell struct {
	client *apiclient.Client
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func (s *shell) print(v any) error {
	enc := json.NewEncoder(s.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Read password without echo from a terminal or as a line from piped stdin
func (s *shell) readPassword() (string, error) {
	if f, ok := s.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(s.errOut, "Password: ") //nolint:errcheck
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(s.errOut) //nolint:errcheck
		return string(b), err
	}

	line, err := bufio.NewReader(s.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func usage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "Usage: shopctl [--api URL] [--timeout D] [--token-file F] [--log-level L] <command>") //nolint:errcheck
	fmt.Fprintln(w, "Commands:")                                                                      //nolint:errcheck
	for _, name := range names {
		fmt.Fprintln(w, "  "+commands[name].usage) //nolint:errcheck
	}
}

func cmdRegister(ctx context.Context, s *shell, args []string) error {
	fs := pflag.NewFlagSet("register", pflag.ContinueOnError)
	email := fs.String("email", "", "Email")
	username := fs.String("username", "", "Username")
	password := fs.String("password", "", "Password, read from stdin if not set")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *username == "" {
		return errUsage
	}

	if *password == "" {
		p, err := s.readPassword()
		if err != nil {
			return err
		}
		*password = p
	}

	session, err := s.client.Register(ctx, *email, *username, *password)
	if err != nil {
		return err
	}
	return s.print(session.User)
}

func cmdLogin(ctx context.Context, s *shell, args []string) error {
	fs := pflag.NewFlagSet("login", pflag.ContinueOnError)
	email := fs.String("email", "", "Email")
	password := fs.String("password", "", "Password, read from stdin if not set")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errUsage
	}

	if *password == "" {
		p, err := s.readPassword()
		if err != nil {
			return err
		}
		*password = p
	}

	session, err := s.client.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	return s.print(session.User)
}

func cmdLogout(ctx context.Context, s *shell, _ []string) error {
	return s.client.Logout(ctx)
}

func cmdProfile(ctx context.Context, s *shell, _ []string) error {
	profile, err := s.client.Profile(ctx)
	if err != nil {
		return err
	}
	return s.print(profile)
}

func cmdGames(ctx context.Context, s *shell, _ []string) error {
	games, err := s.client.ListGames(ctx)
	if err != nil {
		return err
	}
	return s.print(games)
}

func cmdAccounts(ctx context.Context, s *shell, args []string) error {
	var f apiclient.AccountFilter
	var minPrice, maxPrice string

	fs := pflag.NewFlagSet("accounts", pflag.ContinueOnError)
	fs.Int64Var(&f.GameCategoryID, "game", 0, "Game category id")
	fs.StringVar(&f.Type, "type", "", "Account type")
	fs.StringVar(&f.Status, "status", "", "Account status")
	fs.StringVar(&minPrice, "min-price", "", "Minimal price")
	fs.StringVar(&maxPrice, "max-price", "", "Maximal price")
	fs.StringVar(&f.SortBy, "sort", "", "Sort order: newest, price-asc, price-desc")
	fs.IntVar(&f.Page, "page", 0, "Page number")
	fs.IntVar(&f.Limit, "limit", 0, "Page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if f.MinPrice, err = parsePrice(minPrice); err != nil {
		return err
	}
	if f.MaxPrice, err = parsePrice(maxPrice); err != nil {
		return err
	}

	page, err := s.client.ListAccounts(ctx, f)
	if err != nil {
		return err
	}
	return s.print(page)
}

func parsePrice(v string) (*decimal.Decimal, error) {
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q", v)
	}
	return &d, nil
}

// Resolve a storefront path to the API data it shows
func cmdOpen(ctx context.Context, s *shell, args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	route := slug.ParsePath(args[0])

	switch route.Kind {
	case slug.KindGame, slug.KindAccountList:
		if route.GameID == 0 {
			break
		}
		game, err := s.client.GetGame(ctx, route.GameID)
		if err != nil {
			return err
		}

		// "random-dice-5" is both the game "Random Dice" and the random accounts of "Dice"
		if route.Kind == slug.KindGame || isGamePath(args[0], game) {
			page, err := s.client.ListAccounts(ctx, apiclient.AccountFilter{GameCategoryID: route.GameID})
			if err != nil {
				return err
			}
			return s.print(map[string]any{"game": game, "accounts": page})
		}

		page, err := s.client.ListAccounts(ctx, apiclient.AccountFilter{GameCategoryID: route.GameID, Type: route.Type})
		if err != nil {
			return err
		}
		return s.print(page)

	case slug.KindAccountDetail:
		if route.AccountID == 0 {
			break
		}
		account, err := s.client.GetAccount(ctx, route.AccountID)
		if err != nil {
			return err
		}
		return s.print(account)

	case slug.KindPayment:
		if route.AccountID == 0 {
			break
		}
		return paymentPreview(ctx, s, route.AccountID)
	}

	return fmt.Errorf("unknown storefront path %q", args[0])
}

func isGamePath(p string, game apiclient.Game) bool {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return strings.Trim(p, "/") == strings.Trim(slug.GamePath(game.Name, game.ID), "/")
}

func paymentPreview(ctx context.Context, s *shell, accountID int64) error {
	account, err := s.client.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}
	profile, err := s.client.Profile(ctx)
	if err != nil {
		return err
	}

	return s.print(map[string]any{
		"account":   account,
		"balance":   profile.Balance,
		"canAfford": account.Status == "AVAILABLE" && profile.Balance.Current.GreaterThanOrEqual(account.Price),
	})
}

func cmdBuy(ctx context.Context, s *shell, args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	accountID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		route := slug.ParsePath(args[0])
		if (route.Kind != slug.KindAccountDetail && route.Kind != slug.KindPayment) || route.AccountID == 0 {
			return fmt.Errorf("not an account path %q", args[0])
		}
		accountID = route.AccountID
	}

	order, err := s.client.Purchase(ctx, accountID)
	if err != nil {
		return err
	}
	return s.print(order)
}

func cmdOrders(ctx context.Context, s *shell, _ []string) error {
	orders, err := s.client.ListOrders(ctx)
	if err != nil {
		return err
	}
	return s.print(orders)
}

func cmdDeposit(ctx context.Context, s *shell, args []string) error {
	if len(args) != 2 {
		return errUsage
	}

	amount, err := decimal.NewFromString(args[0])
	if err != nil {
		return fmt.Errorf("invalid amount %q", args[0])
	}

	deposit, err := s.client.CreateDeposit(ctx, amount, strings.ToUpper(args[1]))
	if err != nil {
		return err
	}
	return s.print(deposit)
}

func cmdDeposits(ctx context.Context, s *shell, _ []string) error {
	deposits, err := s.client.ListDeposits(ctx)
	if err != nil {
		return err
	}
	return s.print(deposits)
}

func cmdTransactions(ctx context.Context, s *shell, _ []string) error {
	transactions, err := s.client.ListTransactions(ctx)
	if err != nil {
		return err
	}
	return s.print(transactions)
}
