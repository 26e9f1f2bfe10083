package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"app/internal/config"
	"app/internal/domain/model"
	repo "app/internal/repository"
)

// accesstokenの有効期限（refresh tokenは持たないので長め）
const accessTokenTTL = 24 * time.Hour

type AuthUsecase struct {
	cfg    config.Config
	users  repo.UserRepository
	stores repo.StoreRepository
}

func NewAuthUsecase(cfg config.Config, users repo.UserRepository, stores repo.StoreRepository) *AuthUsecase {
	return &AuthUsecase{cfg: cfg, users: users, stores: stores}
}

type UserOutput struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	StoreID  *int64 `json:"store_id,omitempty"`
	IsActive bool   `json:"is_active"`
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	//CUSTOMER / MANAGER / SUPPLIER。省略時はCUSTOMER
	Role string `json:"role" validate:"omitempty,oneof=CUSTOMER MANAGER SUPPLIER"`
	//MANAGERのときだけ必須
	StoreID *int64 `json:"store_id"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenOutput struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type LoginOutput struct {
	User  UserOutput  `json:"user"`
	Token TokenOutput `json:"token"`
}

func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (UserOutput, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || len(in.Password) < 8 {
		return UserOutput{}, NewHTTPError(http.StatusBadRequest, "email and password (8+ chars) required")
	}

	role := model.Role(in.Role)
	if role == "" {
		role = model.RoleCustomer
	}
	switch role {
	case model.RoleCustomer, model.RoleManager, model.RoleSupplier:
	default:
		//ADMINは自己登録不可
		return UserOutput{}, NewHTTPError(http.StatusBadRequest, "invalid role")
	}

	var storeID *int64
	if role == model.RoleManager {
		if in.StoreID == nil || *in.StoreID <= 0 {
			return UserOutput{}, NewHTTPError(http.StatusBadRequest, "store_id required for manager")
		}
		if _, err := u.stores.FindByID(ctx, *in.StoreID); err != nil {
			if err == repo.ErrNotFound {
				return UserOutput{}, NewHTTPError(http.StatusNotFound, "store not found")
			}
			return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		storeID = in.StoreID
	}

	if _, err := u.users.FindByEmail(ctx, email); err == nil {
		return UserOutput{}, NewHTTPError(http.StatusConflict, "email already registered")
	} else if err != repo.ErrNotFound {
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := model.User{
		Email:        email,
		PasswordHash: string(pwHash),
		Role:         role,
		StoreID:      storeID,
		IsActive:     true,
	}

	id, err := u.users.Create(ctx, user)
	if err != nil {
		//unique違反（同時登録の競合）はここに落ちる
		return UserOutput{}, NewHTTPError(http.StatusConflict, "email already registered")
	}
	user.ID = id

	return toUserOutput(user), nil
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || in.Password == "" {
		return LoginOutput{}, NewHTTPError(http.StatusBadRequest, "email and password required")
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err == repo.ErrNotFound {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//停止ユーザーはログイン不可
	if !user.IsActive {
		return LoginOutput{}, NewHTTPError(http.StatusForbidden, "account disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	_ = u.users.TouchLastLogin(ctx, user.ID)

	token, expiresIn, err := u.issueAccessToken(user)
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return LoginOutput{
		User: toUserOutput(user),
		Token: TokenOutput{
			AccessToken: token,
			ExpiresIn:   expiresIn,
		},
	}, nil
}

func (u *AuthUsecase) Me(ctx context.Context, userID int64) (UserOutput, error) {
	if userID <= 0 {
		return UserOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err == repo.ErrNotFound {
		return UserOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !user.IsActive {
		return UserOutput{}, NewHTTPError(http.StatusForbidden, "account disabled")
	}

	return toUserOutput(user), nil
}

// jwt発行
func (u *AuthUsecase) issueAccessToken(user model.User) (string, int, error) {
	now := time.Now()
	exp := now.Add(accessTokenTTL)

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	if user.StoreID != nil {
		claims["store_id"] = *user.StoreID
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := t.SignedString([]byte(u.cfg.JWTSecret))
	if err != nil {
		return "", 0, err
	}

	return signed, int(accessTokenTTL.Seconds()), nil
}

func toUserOutput(u model.User) UserOutput {
	return UserOutput{
		ID:       u.ID,
		Email:    u.Email,
		Role:     string(u.Role),
		StoreID:  u.StoreID,
		IsActive: u.IsActive,
	}
}
