package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-listing-api/internal/dto"
	"github.com/iliyamo/hotel-listing-api/internal/model"
	"github.com/iliyamo/hotel-listing-api/internal/repository/memstore"
	"github.com/iliyamo/hotel-listing-api/internal/result"
	"github.com/iliyamo/hotel-listing-api/internal/utils"
)

var authCfg = AuthConfig{
	Token:      utils.TokenConfig{Secret: "test-secret", Issuer: "hotel-listing-api", Audience: "hotel-listing-clients", AccessTTL: time.Minute},
	RefreshTTL: time.Hour,
	BcryptCost: 4,
}

func newUsers(t *testing.T) (*memstore.Store, UserService) {
	t.Helper()
	store := memstore.New()
	return store, NewUserService(store.Users, store.Tokens, store.Hotels, authCfg, nil)
}

func register(email, role string, hotelID *int64) dto.RegisterRequest {
	return dto.RegisterRequest{Email: email, Password: "Sup3rSecret!", FirstName: "Ada", LastName: "Lovelace", Role: role, AssociatedHotelID: hotelID}
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	_, users := newUsers(t)
	ctx := context.Background()

	reg := users.Register(ctx, register("Ada@Example.com", "", nil))
	require.True(t, reg.IsSuccess(), reg.Describe())
	assert.Equal(t, "ada@example.com", reg.Value().User.Email)
	assert.Equal(t, model.RoleUser, reg.Value().User.Role)
	assert.NotEmpty(t, reg.Value().Refresh.Token)

	claims, err := utils.ParseAccessToken(authCfg.Token, reg.Value().Access.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.Value().User.ID, claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)

	dup := users.Register(ctx, register("ada@example.com", model.RoleAdministrator, nil))
	assert.Equal(t, result.Conflict, dup.FirstCode())

	login := users.Login(ctx, dto.LoginRequest{Email: "ADA@example.com", Password: "Sup3rSecret!"})
	require.True(t, login.IsSuccess(), login.Describe())

	bad := users.Login(ctx, dto.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	assert.Equal(t, result.BadRequest, bad.FirstCode())
	assert.Equal(t, "Invalid credentials.", bad.Describe())

	unknown := users.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "x"})
	assert.Equal(t, "Invalid credentials.", unknown.Describe())
}

func TestUserService_RegisterHotelAdmin(t *testing.T) {
	store, users := newUsers(t)
	ctx := context.Background()

	noHotel := users.Register(ctx, register("ha@example.com", model.RoleHotelAdmin, nil))
	assert.Equal(t, result.Validation, noHotel.FirstCode())

	missing := int64(42)
	assert.Equal(t, result.NotFound, users.Register(ctx, register("ha@example.com", model.RoleHotelAdmin, &missing)).FirstCode())

	h := model.Hotel{Name: "Seaside", CountryID: 1, PerNightRate: model.Units(100)}
	require.NoError(t, store.Hotels.Create(ctx, &h))
	reg := users.Register(ctx, register("ha@example.com", model.RoleHotelAdmin, &h.ID))
	require.True(t, reg.IsSuccess(), reg.Describe())

	ok, err := store.Hotels.IsHotelAdmin(ctx, reg.Value().User.ID, h.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUserService_RefreshRotatesAndLogoutRevokes(t *testing.T) {
	_, users := newUsers(t)
	ctx := context.Background()
	reg := users.Register(ctx, register("rt@example.com", "", nil)).Value()

	rotated := users.Refresh(ctx, reg.Refresh.Token)
	require.True(t, rotated.IsSuccess(), rotated.Describe())
	assert.NotEqual(t, reg.Refresh.Token, rotated.Value().Refresh.Token)

	reused := users.Refresh(ctx, reg.Refresh.Token)
	assert.Equal(t, result.BadRequest, reused.FirstCode())

	access := users.RefreshAccess(ctx, rotated.Value().Refresh.Token)
	require.True(t, access.IsSuccess())
	assert.NotEmpty(t, access.Value().Token)

	require.True(t, users.Logout(ctx, "", rotated.Value().Refresh.Token).IsSuccess())
	assert.True(t, users.RefreshAccess(ctx, rotated.Value().Refresh.Token).IsFailure())

	login := users.Login(ctx, dto.LoginRequest{Email: "rt@example.com", Password: "Sup3rSecret!"}).Value()
	require.True(t, users.Logout(ctx, reg.User.ID, "").IsSuccess())
	assert.True(t, users.Refresh(ctx, login.Refresh.Token).IsFailure())

	assert.Equal(t, result.BadRequest, users.Logout(ctx, "", "").FirstCode())
}

func TestUserService_Me(t *testing.T) {
	_, users := newUsers(t)
	ctx := context.Background()
	reg := users.Register(ctx, register("me@example.com", "", nil)).Value()

	me := users.Me(ctx, reg.User.ID)
	require.True(t, me.IsSuccess())
	assert.Equal(t, "Ada", me.Value().FirstName)
	assert.Equal(t, result.NotFound, users.Me(ctx, "missing").FirstCode())
}
