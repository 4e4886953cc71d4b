package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-listing-api/internal/dto"
	"github.com/iliyamo/hotel-listing-api/internal/model"
	"github.com/iliyamo/hotel-listing-api/internal/repository"
	"github.com/iliyamo/hotel-listing-api/internal/result"
	"github.com/iliyamo/hotel-listing-api/internal/utils"
)

// UserService registers users and issues access/refresh token pairs.
type UserService interface {
	Register(ctx context.Context, req dto.RegisterRequest) result.Result[dto.AuthResponse]
	Login(ctx context.Context, req dto.LoginRequest) result.Result[dto.AuthResponse]
	// Refresh rotates a refresh token: the old one is revoked and a new pair issued.
	Refresh(ctx context.Context, rawRefresh string) result.Result[dto.AuthResponse]
	// RefreshAccess issues a new access token and keeps the refresh token.
	RefreshAccess(ctx context.Context, rawRefresh string) result.Result[dto.TokenPart]
	// Logout revokes one refresh token, or every token of userID when
	// rawRefresh is empty.
	Logout(ctx context.Context, userID, rawRefresh string) result.Result[result.Unit]
	Me(ctx context.Context, userID string) result.Result[dto.UserResponse]
}

type AuthConfig struct {
	Token      utils.TokenConfig
	RefreshTTL time.Duration
	BcryptCost int
}

type userService struct {
	users  repository.UserStore
	tokens repository.TokenStore
	hotels repository.HotelStore
	cfg    AuthConfig
	log    *zap.Logger
}

func NewUserService(users repository.UserStore, tokens repository.TokenStore, hotels repository.HotelStore, cfg AuthConfig, log *zap.Logger) UserService {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	if cfg.Token.AccessTTL <= 0 {
		cfg.Token.AccessTTL = 15 * time.Minute
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 10
	}
	return &userService{users: users, tokens: tokens, hotels: hotels, cfg: cfg, log: log}
}

var (
	errInvalidCredentials = fail(result.BadRequest, "Invalid credentials.")
	errInvalidRefresh     = fail(result.BadRequest, "Invalid refresh token.")
)

func (s *userService) Register(ctx context.Context, req dto.RegisterRequest) result.Result[dto.AuthResponse] {
	return result.Guard(s.log, "user.register", "An unexpected error occurred while registering the user.", func() (result.Result[dto.AuthResponse], error) {
		if errs := req.Check(); len(errs) > 0 {
			return result.Fail[dto.AuthResponse](errs...), nil
		}
		role := req.Role
		if role == "" {
			role = model.RoleUser
		}
		if !model.IsKnownRole(role) {
			return result.Fail[dto.AuthResponse](result.NewError(result.Validation, fmt.Sprintf("Role '%s' is not supported.", role))), nil
		}

		var adminOf *int64
		if role == model.RoleHotelAdmin {
			if _, err := s.hotels.Get(ctx, *req.AssociatedHotelID); err != nil {
				return settle[dto.AuthResponse](hotelErr(err, *req.AssociatedHotelID), nil)
			}
			adminOf = req.AssociatedHotelID
		}

		hash, err := utils.HashPassword(req.Password, s.cfg.BcryptCost)
		if err != nil {
			return result.Result[dto.AuthResponse]{}, fmt.Errorf("hash password: %w", err)
		}
		u := model.User{
			ID:           uuid.NewString(),
			Email:        strings.ToLower(strings.TrimSpace(req.Email)),
			FirstName:    strings.TrimSpace(req.FirstName),
			LastName:     strings.TrimSpace(req.LastName),
			PasswordHash: hash,
			Role:         role,
			CreatedAt:    time.Now().UTC(),
		}
		if err := s.users.Create(ctx, &u, adminOf); err != nil {
			if errors.Is(err, repository.ErrEmailExists) {
				return result.Fail[dto.AuthResponse](result.NewError(result.Conflict, fmt.Sprintf("Email '%s' is already registered.", u.Email))), nil
			}
			return result.Result[dto.AuthResponse]{}, err
		}
		return s.issue(ctx, u)
	})
}

func (s *userService) Login(ctx context.Context, req dto.LoginRequest) result.Result[dto.AuthResponse] {
	return result.Guard(s.log, "user.login", "An unexpected error occurred while signing in.", func() (result.Result[dto.AuthResponse], error) {
		u, err := s.users.GetByEmail(ctx, req.Email)
		if errors.Is(err, repository.ErrUserNotFound) {
			return result.Fail[dto.AuthResponse](errInvalidCredentials...), nil
		}
		if err != nil {
			return result.Result[dto.AuthResponse]{}, err
		}
		if !utils.VerifyPassword(u.PasswordHash, req.Password) {
			return result.Fail[dto.AuthResponse](errInvalidCredentials...), nil
		}
		return s.issue(ctx, u)
	})
}

func (s *userService) Refresh(ctx context.Context, rawRefresh string) result.Result[dto.AuthResponse] {
	return result.Guard(s.log, "user.refresh", "An unexpected error occurred while refreshing the session.", func() (result.Result[dto.AuthResponse], error) {
		hash := utils.HashRefreshRaw(strings.TrimSpace(rawRefresh))
		u, err := s.refreshOwner(ctx, hash)
		if err != nil {
			return settle[dto.AuthResponse](err, nil)
		}
		if err := s.tokens.RevokeByHash(ctx, hash); err != nil {
			return result.Result[dto.AuthResponse]{}, err
		}
		return s.issue(ctx, u)
	})
}

func (s *userService) RefreshAccess(ctx context.Context, rawRefresh string) result.Result[dto.TokenPart] {
	return result.Guard(s.log, "user.refresh_access", "An unexpected error occurred while refreshing the session.", func() (result.Result[dto.TokenPart], error) {
		u, err := s.refreshOwner(ctx, utils.HashRefreshRaw(strings.TrimSpace(rawRefresh)))
		if err != nil {
			return settle[dto.TokenPart](err, nil)
		}
		access, err := utils.NewAccessToken(s.cfg.Token, u.ID, u.Email, u.Role)
		if err != nil {
			return result.Result[dto.TokenPart]{}, err
		}
		return result.Success(dto.TokenPart{Token: access.Token, Expires: access.Exp}), nil
	})
}

// refreshOwner loads the user owning a live refresh token.
func (s *userService) refreshOwner(ctx context.Context, hash string) (model.User, error) {
	userID, err := s.tokens.ValidateRefresh(ctx, hash)
	if errors.Is(err, repository.ErrInvalidRefresh) {
		return model.User{}, errInvalidRefresh
	}
	if err != nil {
		return model.User{}, err
	}
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return model.User{}, errInvalidRefresh
	}
	return u, err
}

func (s *userService) Logout(ctx context.Context, userID, rawRefresh string) result.Result[result.Unit] {
	return result.Guard(s.log, "user.logout", "An unexpected error occurred while signing out.", func() (result.Result[result.Unit], error) {
		raw := strings.TrimSpace(rawRefresh)
		switch {
		case raw != "":
			hash := utils.HashRefreshRaw(raw)
			if _, err := s.tokens.ValidateRefresh(ctx, hash); err != nil {
				if errors.Is(err, repository.ErrInvalidRefresh) {
					return result.Fail[result.Unit](errInvalidRefresh...), nil
				}
				return result.Result[result.Unit]{}, err
			}
			return result.Ok(), s.tokens.RevokeByHash(ctx, hash)
		case userID != "":
			return result.Ok(), s.tokens.RevokeAllForUser(ctx, userID)
		default:
			return result.Fail[result.Unit](result.NewError(result.BadRequest, "Provide an access token or a refresh token.")), nil
		}
	})
}

func (s *userService) Me(ctx context.Context, userID string) result.Result[dto.UserResponse] {
	return result.Guard(s.log, "user.me", "An unexpected error occurred while loading the user.", func() (result.Result[dto.UserResponse], error) {
		u, err := s.users.GetByID(ctx, userID)
		if errors.Is(err, repository.ErrUserNotFound) {
			return result.Fail[dto.UserResponse](result.NewError(result.NotFound, fmt.Sprintf("User '%s' was not found.", userID))), nil
		}
		if err != nil {
			return result.Result[dto.UserResponse]{}, err
		}
		return result.Success(dto.UserFromModel(u)), nil
	})
}

// issue signs an access token and stores a fresh refresh token for u.
func (s *userService) issue(ctx context.Context, u model.User) (result.Result[dto.AuthResponse], error) {
	access, err := utils.NewAccessToken(s.cfg.Token, u.ID, u.Email, u.Role)
	if err != nil {
		return result.Result[dto.AuthResponse]{}, fmt.Errorf("issue access: %w", err)
	}
	refresh, err := utils.NewRefreshToken(s.cfg.RefreshTTL)
	if err != nil {
		return result.Result[dto.AuthResponse]{}, fmt.Errorf("issue refresh: %w", err)
	}
	if err := s.tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return result.Result[dto.AuthResponse]{}, fmt.Errorf("store refresh: %w", err)
	}
	return result.Success(dto.AuthResponse{
		User:    dto.UserFromModel(u),
		Access:  dto.TokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: dto.TokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	}), nil
}
