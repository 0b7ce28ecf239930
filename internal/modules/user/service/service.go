package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"anoa.com/skillnest/internal/entity"
	"anoa.com/skillnest/internal/modules/user/dto"
	"anoa.com/skillnest/internal/modules/user/repository"
	"anoa.com/skillnest/pkg/apperror"
	"anoa.com/skillnest/pkg/logger"
	"anoa.com/skillnest/pkg/token"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

var (
	errInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid credentials", apperror.ErrUnauthorized)
	errEmailTaken         = apperror.New(http.StatusBadRequest, "email already registered", apperror.ErrBadRequest)
	errUnknownProvider    = apperror.New(http.StatusBadRequest, "unsupported oauth provider", apperror.ErrBadRequest)

	usernameInvalidChars = regexp.MustCompile(`[^a-z0-9_]+`)
)

// SearchTokenIssuer hands out search-engine tokens scoped to public content.
type SearchTokenIssuer interface {
	GenerateSearchToken() (string, error)
}

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	OAuthLoginURL(provider, state string) (string, error)
	OAuthCallback(ctx context.Context, provider, code string) (*dto.AuthResponse, error)
}

type authService struct {
	repo         repository.UserRepository
	tokens       *token.Manager
	searchTokens SearchTokenIssuer
	providers    map[string]*oauthProvider
	log          *logger.Logger
}

func NewAuthService(repo repository.UserRepository, tokens *token.Manager, searchTokens SearchTokenIssuer, googleCreds, githubCreds OAuthCredentials, log *logger.Logger) AuthService {
	return &authService{
		repo:         repo,
		tokens:       tokens,
		searchTokens: searchTokens,
		providers:    newProviders(googleCreds, githubCreds),
		log:          log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error) {
	email := normalizeEmail(input.Email)
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters: %w", apperror.ErrBadRequest)
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, errEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	username, err := s.uniqueUsername(ctx, email)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         entity.RoleUser,
	}
	profile := &entity.Profile{
		Username:   username,
		FullName:   strings.TrimSpace(input.FullName),
		Profession: blankToNil(input.Profession),
		SkillLevel: blankToNil(input.SkillLevel),
	}

	if err := s.repo.Create(ctx, user, profile); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("user registered", "user_id", user.ID)
	return s.buildAuthResponse(user)
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, errInvalidCredentials
	}

	return s.buildAuthResponse(user)
}

func (s *authService) provider(name string) (*oauthProvider, error) {
	p, ok := s.providers[strings.ToLower(name)]
	if !ok {
		return nil, errUnknownProvider
	}
	if !p.configured() {
		return nil, fmt.Errorf("%s login is not configured: %w", p.name, apperror.ErrBadRequest)
	}
	return p, nil
}

func (s *authService) OAuthLoginURL(provider, state string) (string, error) {
	p, err := s.provider(provider)
	if err != nil {
		return "", err
	}
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

func (s *authService) OAuthCallback(ctx context.Context, provider, code string) (*dto.AuthResponse, error) {
	p, err := s.provider(provider)
	if err != nil {
		return nil, err
	}

	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, apperror.New(http.StatusUnauthorized, "failed to exchange token: "+err.Error(), apperror.ErrUnauthorized)
	}

	info, err := p.fetchUser(ctx, p.config.Client(ctx, tok))
	if err != nil {
		return nil, err
	}
	if info.ID == "" || info.Email == "" {
		return nil, fmt.Errorf("%s account has no verified email: %w", p.name, apperror.ErrBadRequest)
	}
	// Accounts are linked by email, so an unverified address could take over someone else's account.
	if !info.EmailVerified {
		return nil, apperror.New(http.StatusUnauthorized, p.name+" email is not verified", apperror.ErrUnauthorized)
	}
	info.Email = normalizeEmail(info.Email)

	user, err := s.findOAuthUser(ctx, p.name, info)
	if err != nil {
		return nil, err
	}
	return s.buildAuthResponse(user)
}

// findOAuthUser resolves the provider account by provider id, then by email, then registers it.
func (s *authService) findOAuthUser(ctx context.Context, provider string, info *oauthUser) (*entity.User, error) {
	var (
		user *entity.User
		err  error
	)
	if provider == ProviderGoogle {
		user, err = s.repo.FindByGoogleID(ctx, info.ID)
	} else {
		user, err = s.repo.FindByGithubID(ctx, info.ID)
	}
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user, err = s.repo.FindByEmail(ctx, info.Email)
	if err == nil {
		setProviderID(user, provider, info.ID)
		if err := s.repo.Update(ctx, user, nil); err != nil {
			s.log.Warn("failed to link oauth account", "user_id", user.ID, "provider", provider, "error", err)
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	randomPassword := uuid.New().String()
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(randomPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	username, err := s.uniqueUsername(ctx, info.Email)
	if err != nil {
		return nil, err
	}

	fullName := strings.TrimSpace(info.Name)
	if fullName == "" {
		fullName = username
	}

	user = &entity.User{
		Email:        info.Email,
		PasswordHash: string(hashedPassword),
		Role:         entity.RoleUser,
	}
	setProviderID(user, provider, info.ID)

	profile := &entity.Profile{
		Username:  username,
		FullName:  fullName,
		AvatarURL: blankToNil(&info.AvatarURL),
	}

	if err := s.repo.Create(ctx, user, profile); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.log.Info("user registered via oauth", "user_id", user.ID, "provider", provider)
	return user, nil
}

func setProviderID(user *entity.User, provider, id string) {
	if provider == ProviderGoogle {
		user.GoogleID = &id
		return
	}
	user.GithubID = &id
}

// uniqueUsername derives a username from the email local part, suffixing it when taken.
func (s *authService) uniqueUsername(ctx context.Context, email string) (string, error) {
	base := UsernameFromEmail(email)
	username := base
	for i := 0; i < 5; i++ {
		exists, err := s.repo.UsernameExists(ctx, username, nil)
		if err != nil {
			return "", err
		}
		if !exists {
			return username, nil
		}
		username = base + "_" + uuid.New().String()[:4]
	}
	return base + "_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12], nil
}

// UsernameFromEmail turns the local part of an email into a valid username.
func UsernameFromEmail(email string) string {
	local := strings.ToLower(strings.SplitN(email, "@", 2)[0])
	local = strings.ReplaceAll(local, " ", "_")
	local = usernameInvalidChars.ReplaceAllString(local, "_")
	local = strings.Trim(local, "_")

	if len(local) > 40 {
		local = local[:40]
	}
	if len(local) < 3 {
		local = "user" + local
	}
	return local
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (s *authService) buildAuthResponse(user *entity.User) (*dto.AuthResponse, error) {
	accessToken, expiresAt, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, err
	}

	var searchToken string
	if s.searchTokens != nil {
		st, err := s.searchTokens.GenerateSearchToken()
		if err != nil {
			s.log.Warn("failed to generate search token", "user_id", user.ID, "error", err)
		} else {
			searchToken = st
		}
	}

	user.PasswordHash = ""

	return &dto.AuthResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt,
		User:        user,
		Profile:     user.Profile,
		SearchToken: searchToken,
	}, nil
}
