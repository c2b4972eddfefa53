package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/accountshop/internal/apperrors"
	"github.com/nkiryanov/accountshop/internal/models"
	"github.com/nkiryanov/accountshop/internal/repository"
)

const (
	defaultAccessHeaderName  = "Authorization"
	defaultAccessAuthScheme  = "Bearer"
	defaultAccessCookieName  = "accessToken"
	defaultRefreshCookieName = "refreshToken"
)

var ErrNoToken = errors.New("no token in request")

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate Hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	Compare(hashedPassword string, password string) error
}

type tokenManager interface {
	GeneratePair(ctx context.Context, user models.User) (models.TokenPair, error)
	UseRefresh(ctx context.Context, refresh string) (models.RefreshToken, error)
	Revoke(ctx context.Context, refresh string) error
	ParseAccess(ctx context.Context, access string) (uuid.UUID, error)
}

type Config struct {
	// Header and scheme the access token is sent with: 'Authorization: Bearer <token>'
	AccessHeaderName string
	AccessAuthScheme string

	// Cookies both tokens are set to
	AccessCookieName  string
	RefreshCookieName string

	// Hasher to use during registration or login
	// BcryptHasher if not set
	Hasher PasswordHasher
}

type AuthService struct {
	accessHeaderName  string
	accessAuthScheme  string
	accessCookieName  string
	refreshCookieName string

	hasher       PasswordHasher
	tokenManager tokenManager
	storage      repository.Storage
}

func NewService(cfg Config, tokenManager tokenManager, storage repository.Storage) (*AuthService, error) {
	setDefault := func(field *string, def string) {
		if *field == "" {
			*field = def
		}
	}
	setDefault(&cfg.AccessHeaderName, defaultAccessHeaderName)
	setDefault(&cfg.AccessAuthScheme, defaultAccessAuthScheme)
	setDefault(&cfg.AccessCookieName, defaultAccessCookieName)
	setDefault(&cfg.RefreshCookieName, defaultRefreshCookieName)

	if cfg.Hasher == nil {
		cfg.Hasher = BcryptHasher{}
	}

	return &AuthService{
		accessHeaderName:  cfg.AccessHeaderName,
		accessAuthScheme:  cfg.AccessAuthScheme,
		accessCookieName:  cfg.AccessCookieName,
		refreshCookieName: cfg.RefreshCookieName,
		hasher:            cfg.Hasher,
		tokenManager:      tokenManager,
		storage:           storage,
	}, nil
}

// Register user with zero balance and login
func (s *AuthService) Register(ctx context.Context, email string, username string, password string) (models.User, models.TokenPair, error) {
	var (
		user models.User
		pair models.TokenPair
	)

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return user, pair, fmt.Errorf("can't use this as password, error=%w", err)
	}

	err = s.storage.InTx(ctx, func(storage repository.Storage) error {
		user, err = storage.User().CreateUser(ctx, email, username, hash)
		if err != nil {
			return err
		}
		return storage.Balance().CreateBalance(ctx, user.ID)
	})
	if err != nil {
		return user, pair, err
	}

	pair, err = s.tokenManager.GeneratePair(ctx, user)
	if err != nil {
		return user, pair, fmt.Errorf("token could not generated, sorry. %w", err)
	}

	return user, pair, nil
}

// Login with email and password
// Wrong email or password both end up with apperrors.ErrUserNotFound
func (s *AuthService) Login(ctx context.Context, email string, password string) (models.User, models.TokenPair, error) {
	var pair models.TokenPair

	user, err := s.storage.User().GetUserByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrUserNotFound):
		// Compare anyway so missing and existing users take the same time
		_ = s.hasher.Compare(dummyHash, password)
		return user, pair, apperrors.ErrUserNotFound
	default:
		return user, pair, err
	}

	err = s.hasher.Compare(user.HashedPassword, password)
	if err != nil {
		return models.User{}, pair, apperrors.ErrUserNotFound
	}

	pair, err = s.tokenManager.GeneratePair(ctx, user)
	if err != nil {
		return user, pair, fmt.Errorf("token could not generated, sorry. %w", err)
	}

	return user, pair, nil
}

// Exchange refresh token for the new pair; the old token becomes unusable
func (s *AuthService) RefreshPair(ctx context.Context, refresh string) (models.TokenPair, error) {
	var pair models.TokenPair

	token, err := s.tokenManager.UseRefresh(ctx, refresh)
	if err != nil {
		return pair, err
	}

	user, err := s.storage.User().GetUserByID(ctx, token.UserID)
	if err != nil {
		return pair, err
	}

	return s.tokenManager.GeneratePair(ctx, user)
}

// Revoke refresh token; empty token is ok
func (s *AuthService) Logout(ctx context.Context, refresh string) error {
	if refresh == "" {
		return nil
	}
	return s.tokenManager.Revoke(ctx, refresh)
}

// Set access token to the header and both tokens to HttpOnly cookies
func (s *AuthService) SetTokenPairToResponse(w http.ResponseWriter, pair models.TokenPair) {
	w.Header().Set(s.accessHeaderName, s.accessAuthScheme+" "+pair.Access.Value)

	http.SetCookie(w, s.cookie(s.accessCookieName, pair.Access))
	http.SetCookie(w, s.cookie(s.refreshCookieName, pair.Refresh))
}

// Expire both token cookies
func (s *AuthService) ClearTokens(w http.ResponseWriter) {
	for _, name := range []string{s.accessCookieName, s.refreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

func (s *AuthService) cookie(name string, token models.IssuedToken) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    token.Value,
		Path:     "/",
		Expires:  token.ExpiresAt,
		MaxAge:   token.MaxAge(time.Now()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

// Get refresh token from cookie, or from the auth header if cookie not set
func (s *AuthService) GetRefreshString(r *http.Request) (string, error) {
	cookie, err := r.Cookie(s.refreshCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	token, ok := s.bearer(r)
	if !ok {
		return "", ErrNoToken
	}
	return token, nil
}

// Get authenticated user from access token
// Header is checked first; the cookie is used only when the header is absent
func (s *AuthService) GetUserFromRequest(ctx context.Context, r *http.Request) (models.User, error) {
	access, ok := s.bearer(r)
	if !ok {
		cookie, err := r.Cookie(s.accessCookieName)
		if err != nil || cookie.Value == "" {
			return models.User{}, ErrNoToken
		}
		access = cookie.Value
	}

	userID, err := s.tokenManager.ParseAccess(ctx, access)
	if err != nil {
		return models.User{}, err
	}

	return s.storage.User().GetUserByID(ctx, userID)
}

func (s *AuthService) bearer(r *http.Request) (string, bool) {
	header := r.Header.Get(s.accessHeaderName)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, s.accessAuthScheme) {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
