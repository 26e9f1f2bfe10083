package usecase

import (
	"context"
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"app/internal/config"
	"app/internal/domain/model"
	repo "app/internal/repository"
)

type userRepoMock struct{ mock.Mock }

func (m *userRepoMock) Create(ctx context.Context, user model.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *userRepoMock) FindByID(ctx context.Context, userID int64) (model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *userRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *userRepoMock) TouchLastLogin(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func newAuthFixture() (*AuthUsecase, *userRepoMock, *storeRepoMock) {
	users := new(userRepoMock)
	stores := new(storeRepoMock)
	cfg := config.Config{JWTSecret: "test-secret"}
	return NewAuthUsecase(cfg, users, stores), users, stores
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(h)
}

func TestAuth_Register_NormalizesEmail(t *testing.T) {
	ctx := context.Background()
	uc, users, _ := newAuthFixture()

	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(model.User{}, repo.ErrNotFound)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		//小文字化・trim済みで、ハッシュのみ保存される
		return u.Email == "taro@example.com" && u.Role == model.RoleCustomer &&
			u.IsActive && u.PasswordHash != "" && u.PasswordHash != "password123"
	})).Return(int64(42), nil)

	out, err := uc.Register(ctx, RegisterInput{
		Email:    "  Taro@Example.COM ",
		Password: "password123",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(42), out.ID)
	assert.Equal(t, "taro@example.com", out.Email)
	assert.Equal(t, "CUSTOMER", out.Role)

	users.AssertExpectations(t)
}

func TestAuth_Register_AdminNotAllowed(t *testing.T) {
	uc, _, _ := newAuthFixture()

	_, err := uc.Register(context.Background(), RegisterInput{
		Email:    "admin@example.com",
		Password: "password123",
		Role:     "ADMIN",
	})
	assertHTTPStatus(t, err, http.StatusBadRequest)
	assertErrContains(t, err, "invalid role")
}

func TestAuth_Register_ManagerRequiresStore(t *testing.T) {
	uc, _, _ := newAuthFixture()

	_, err := uc.Register(context.Background(), RegisterInput{
		Email:    "manager@example.com",
		Password: "password123",
		Role:     "MANAGER",
	})
	assertHTTPStatus(t, err, http.StatusBadRequest)
	assertErrContains(t, err, "store_id required")
}

func TestAuth_Register_ManagerStoreMustExist(t *testing.T) {
	ctx := context.Background()
	uc, _, stores := newAuthFixture()

	stores.On("FindByID", mock.Anything, int64(9)).Return(model.Store{}, repo.ErrNotFound)

	_, err := uc.Register(ctx, RegisterInput{
		Email:    "manager@example.com",
		Password: "password123",
		Role:     "MANAGER",
		StoreID:  ptrInt64(9),
	})
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestAuth_Register_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	uc, users, _ := newAuthFixture()

	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(model.User{ID: 1, Email: "taro@example.com"}, nil)

	_, err := uc.Register(ctx, RegisterInput{
		Email:    "taro@example.com",
		Password: "password123",
	})
	assertHTTPStatus(t, err, http.StatusConflict)
	assertErrContains(t, err, "already registered")

	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuth_Login_Success_TokenCarriesClaims(t *testing.T) {
	ctx := context.Background()
	uc, users, _ := newAuthFixture()

	user := model.User{
		ID:           9,
		Email:        "manager@example.com",
		PasswordHash: mustHash(t, "password123"),
		Role:         model.RoleManager,
		StoreID:      ptrInt64(3),
		IsActive:     true,
	}
	users.On("FindByEmail", mock.Anything, "manager@example.com").Return(user, nil)
	users.On("TouchLastLogin", mock.Anything, int64(9)).Return(nil)

	out, err := uc.Login(ctx, LoginInput{Email: "manager@example.com", Password: "password123"})
	assert.NoError(t, err)
	assert.Equal(t, int64(9), out.User.ID)
	assert.Equal(t, int(accessTokenTTL.Seconds()), out.Token.ExpiresIn)

	parsed, err := jwt.Parse(out.Token.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	assert.True(t, parsed.Valid)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(9), claims["sub"])
	assert.Equal(t, "MANAGER", claims["role"])
	assert.Equal(t, float64(3), claims["store_id"])

	users.AssertExpectations(t)
}

func TestAuth_Login_WrongPassword(t *testing.T) {
	ctx := context.Background()
	uc, users, _ := newAuthFixture()

	user := model.User{
		ID:           9,
		Email:        "taro@example.com",
		PasswordHash: mustHash(t, "password123"),
		Role:         model.RoleCustomer,
		IsActive:     true,
	}
	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(user, nil)

	_, err := uc.Login(ctx, LoginInput{Email: "taro@example.com", Password: "wrong-password"})
	assertHTTPStatus(t, err, http.StatusUnauthorized)
	assertErrContains(t, err, "invalid credentials")
}

// 未登録メールも同じメッセージにする（存在の推測をさせない）
func TestAuth_Login_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	uc, users, _ := newAuthFixture()

	users.On("FindByEmail", mock.Anything, "nobody@example.com").Return(model.User{}, repo.ErrNotFound)

	_, err := uc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "password123"})
	assertHTTPStatus(t, err, http.StatusUnauthorized)
	assertErrContains(t, err, "invalid credentials")
}

func TestAuth_Login_DisabledAccount(t *testing.T) {
	ctx := context.Background()
	uc, users, _ := newAuthFixture()

	user := model.User{
		ID:           9,
		Email:        "taro@example.com",
		PasswordHash: mustHash(t, "password123"),
		IsActive:     false,
	}
	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(user, nil)

	_, err := uc.Login(ctx, LoginInput{Email: "taro@example.com", Password: "password123"})
	assertHTTPStatus(t, err, http.StatusForbidden)
	assertErrContains(t, err, "account disabled")
}

func TestAuth_Me(t *testing.T) {
	ctx := context.Background()
	uc, users, _ := newAuthFixture()

	users.On("FindByID", mock.Anything, int64(42)).Return(model.User{
		ID: 42, Email: "taro@example.com", Role: model.RoleCustomer, IsActive: true,
	}, nil)

	out, err := uc.Me(ctx, 42)
	assert.NoError(t, err)
	assert.Equal(t, "taro@example.com", out.Email)

	_, err = uc.Me(ctx, 0)
	assertHTTPStatus(t, err, http.StatusUnauthorized)
}
