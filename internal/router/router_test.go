package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-listing-api/internal/dto"
	"github.com/iliyamo/hotel-listing-api/internal/handler"
	"github.com/iliyamo/hotel-listing-api/internal/model"
	"github.com/iliyamo/hotel-listing-api/internal/repository/memstore"
	"github.com/iliyamo/hotel-listing-api/internal/service"
	"github.com/iliyamo/hotel-listing-api/internal/utils"
)

type app struct {
	e     *echo.Echo
	store *memstore.Store
}

func newApp(t *testing.T) app {
	t.Helper()
	store := memstore.New()
	store.PutAPIKey(model.APIKey{Key: "web-key", AppName: "web"})

	tokens := utils.TokenConfig{Secret: "router-secret", Issuer: "hotel-listing-api", Audience: "clients", AccessTTL: time.Minute}
	users := service.NewUserService(store.Users, store.Tokens, store.Hotels, service.AuthConfig{Token: tokens, RefreshTTL: time.Hour, BcryptCost: 4}, nil)
	d := Deps{Token: tokens, APIKeys: service.NewAPIKeyService(store.APIKeys, nil), Admins: store.Hotels}

	e := echo.New()
	e.Validator = handler.NewValidator()
	RegisterRoutes(e, handler.Health(nil))
	RegisterAuth(e, handler.NewAuthHandler(users), d)
	RegisterCatalog(e,
		handler.NewCountryHandler(service.NewCountryService(store.Countries, store.Hotels, nil)),
		handler.NewHotelHandler(service.NewHotelService(store.Hotels, store.Countries, nil)), d)
	RegisterBookings(e, handler.NewBookingHandler(service.NewBookingService(store.Bookings, nil, nil)), d)
	return app{e: e, store: store}
}

func (a app) do(t *testing.T, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

// register signs up a user and returns the Authorization header pair.
func (a app) register(t *testing.T, email, role string, hotelID int64) []string {
	t.Helper()
	body := `{"email":"` + email + `","password":"Sup3rSecret!","firstName":"Test","lastName":"User","role":"` + role + `"`
	if hotelID > 0 {
		body += `,"associatedHotelId":` + itoa(hotelID)
	}
	rec := a.do(t, http.MethodPost, "/api/auth/register", body+"}")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var auth dto.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &auth))
	return []string{echo.HeaderAuthorization, "Bearer " + auth.Access.Token}
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func idOf(t *testing.T, rec *httptest.ResponseRecorder) int64 {
	t.Helper()
	var v struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v.ID
}

func TestHealth(t *testing.T) {
	rec := newApp(t).do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCatalogAccess(t *testing.T) {
	a := newApp(t)
	admin := a.register(t, "admin@example.com", model.RoleAdministrator, 0)
	user := a.register(t, "user@example.com", "", 0)

	rec := a.do(t, http.MethodPost, "/api/countries", `{"name":"Jamaica","shortName":"JM"}`, user...)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/countries", `{"name":"Jamaica","shortName":"JM"}`, admin...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	countryID := idOf(t, rec)
	assert.Equal(t, "/api/countries/"+itoa(countryID), rec.Header().Get(echo.HeaderLocation))

	rec = a.do(t, http.MethodPost, "/api/hotels",
		`{"name":"Seaside","address":"1 Beach Rd","rating":4.5,"perNightRate":100,"countryId":`+itoa(countryID)+`}`, admin...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodGet, "/api/hotels", "").Code)
	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodGet, "/api/hotels", "", "X-Api-Key", "wrong").Code)

	rec = a.do(t, http.MethodGet, "/api/hotels?sortBy=name", "", "X-Api-Key", "web-key")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalCount":1`)

	rec = a.do(t, http.MethodGet, "/api/countries/"+itoa(countryID), "", user...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Seaside"`)

	rec = a.do(t, http.MethodPut, "/api/countries/"+itoa(countryID), `{"id":`+itoa(countryID+1)+`,"name":"X","shortName":"XX"}`, admin...)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Id route value does not match payload Id.")

	rec = a.do(t, http.MethodPatch, "/api/countries/"+itoa(countryID), `{"shortName":"JAM"}`, admin...)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, "/api/hotels/404", "", user...).Code)
}

func TestBookingAccess(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()
	country := model.Country{Name: "Jamaica", ShortName: "JM"}
	require.NoError(t, a.store.Countries.Create(ctx, &country))
	seaside := model.Hotel{Name: "Seaside", Address: "1 Beach Rd", Rating: 4, PerNightRate: model.Units(100), CountryID: country.ID}
	bay := model.Hotel{Name: "Bay", Address: "2 Bay Rd", Rating: 3, PerNightRate: model.Units(80), CountryID: country.ID}
	require.NoError(t, a.store.Hotels.Create(ctx, &seaside))
	require.NoError(t, a.store.Hotels.Create(ctx, &bay))

	guest := a.register(t, "guest@example.com", "", 0)
	manager := a.register(t, "manager@example.com", model.RoleHotelAdmin, seaside.ID)
	root := a.register(t, "root@example.com", model.RoleAdministrator, 0)

	base := "/api/hotels/" + itoa(seaside.ID) + "/bookings"
	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodGet, base, "").Code)

	rec := a.do(t, http.MethodPost, base, `{"checkIn":"2030-01-01","checkOut":"2030-01-04","guests":2}`, guest...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	bookingID := idOf(t, rec)

	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodGet, base+"/admin", "", guest...).Code)
	rec = a.do(t, http.MethodGet, base+"/admin", "", manager...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalCount":1`)

	otherAdmin := "/api/hotels/" + itoa(bay.ID) + "/bookings/admin"
	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodGet, otherAdmin, "", manager...).Code)
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, otherAdmin, "", root...).Code)

	confirm := base + "/" + itoa(bookingID) + "/admin/confirm"
	assert.Equal(t, http.StatusNoContent, a.do(t, http.MethodPut, confirm, "", manager...).Code)

	rec = a.do(t, http.MethodGet, base, "", guest...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"Confirmed"`)

	rec = a.do(t, http.MethodGet, base, "", manager...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalCount":0`)
}

func TestAuthFlow(t *testing.T) {
	a := newApp(t)
	a.register(t, "flow@example.com", "", 0)

	rec := a.do(t, http.MethodPost, "/api/auth/login", `{"email":"flow@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/auth/login", `{"email":"flow@example.com","password":"Sup3rSecret!"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var auth dto.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &auth))
	bearer := []string{echo.HeaderAuthorization, "Bearer " + auth.Access.Token}

	rec = a.do(t, http.MethodGet, "/api/auth/me", "", bearer...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"flow@example.com"`)

	rec = a.do(t, http.MethodPost, "/api/auth/refresh", `{"refreshToken":"`+auth.Refresh.Token+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodPost, "/api/auth/refresh", `{"refreshToken":"`+auth.Refresh.Token+`"}`).Code)

	assert.Equal(t, http.StatusNoContent, a.do(t, http.MethodPost, "/api/auth/logout", "", bearer...).Code)
	assert.Equal(t, http.StatusBadRequest, a.do(t, http.MethodPost, "/api/auth/logout", "").Code)
	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodPost, "/api/auth/logout", "", echo.HeaderAuthorization, "Bearer junk").Code)
}
