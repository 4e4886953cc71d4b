// Package memstore keeps every repository contract in process memory. It
// backs STORE_DRIVER=memory for local runs and the service tests.
package memstore

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/hotel-listing-api/internal/dto"
	"github.com/iliyamo/hotel-listing-api/internal/model"
	"github.com/iliyamo/hotel-listing-api/internal/query"
	"github.com/iliyamo/hotel-listing-api/internal/repository"
)

type data struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	countries   map[int64]model.Country
	hotels      map[int64]model.Hotel
	bookings    map[int64]model.Booking
	users       map[string]model.User
	hotelAdmins map[model.HotelAdmin]bool
	tokens      map[string]model.RefreshToken
	apiKeys     map[string]model.APIKey

	nextCountry, nextHotel, nextBooking, nextToken int64
}

// Store groups one implementation per repository contract over shared data.
type Store struct {
	Bookings  *Bookings
	Hotels    *Hotels
	Countries *Countries
	Users     *Users
	Tokens    *Tokens
	APIKeys   *APIKeys

	d *data
}

func New() *Store {
	d := &data{
		countries:   map[int64]model.Country{},
		hotels:      map[int64]model.Hotel{},
		bookings:    map[int64]model.Booking{},
		users:       map[string]model.User{},
		hotelAdmins: map[model.HotelAdmin]bool{},
		tokens:      map[string]model.RefreshToken{},
		apiKeys:     map[string]model.APIKey{},
	}
	return &Store{
		Bookings:  &Bookings{d: d},
		Hotels:    &Hotels{d: d},
		Countries: &Countries{d: d},
		Users:     &Users{d: d},
		Tokens:    &Tokens{d: d},
		APIKeys:   &APIKeys{d: d},
		d:         d,
	}
}

// PutAPIKey registers an API key; there is no HTTP surface for creating keys.
func (s *Store) PutAPIKey(k model.APIKey) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if k.CreatedAtUTC.IsZero() {
		k.CreatedAtUTC = time.Now().UTC()
	}
	s.d.apiKeys[k.Key] = k
}

// hotelView fills the joined country name. Caller holds mu.
func (d *data) hotelView(h model.Hotel) model.Hotel {
	h.CountryName = d.countries[h.CountryID].Name
	return h
}

// bookingView fills the joined hotel name. Caller holds mu.
func (d *data) bookingView(b model.Booking) model.Booking {
	b.HotelName = d.hotels[b.HotelID].Name
	return b
}

// Bookings implements repository.BookingStore.
type Bookings struct{ d *data }

// InUserTx serialises all transactions of the store. When fn fails only
// the rows written through the transaction are restored; writes made
// outside it in the meantime survive.
func (s *Bookings) InUserTx(ctx context.Context, userID string, fn func(tx repository.BookingTx) error) error {
	s.d.txMu.Lock()
	defer s.d.txMu.Unlock()

	tx := &bookingTx{Bookings: s, undo: map[int64]*model.Booking{}}
	err := fn(tx)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		tx.rollback()
	}
	return err
}

// bookingTx journals the prior value of every booking it writes. A nil
// entry marks a row the transaction inserted.
type bookingTx struct {
	*Bookings
	undo map[int64]*model.Booking
}

func (t *bookingTx) Insert(ctx context.Context, b *model.Booking) error {
	if err := t.Bookings.Insert(ctx, b); err != nil {
		return err
	}
	t.undo[b.ID] = nil
	return nil
}

func (t *bookingTx) Update(ctx context.Context, b *model.Booking) error {
	if _, seen := t.undo[b.ID]; !seen {
		t.d.mu.RLock()
		prev, ok := t.d.bookings[b.ID]
		t.d.mu.RUnlock()
		if ok {
			t.undo[b.ID] = &prev
		}
	}
	return t.Bookings.Update(ctx, b)
}

func (t *bookingTx) rollback() {
	t.d.mu.Lock()
	defer t.d.mu.Unlock()
	for id, prev := range t.undo {
		if prev == nil {
			delete(t.d.bookings, id)
			continue
		}
		t.d.bookings[id] = *prev
	}
}

func (s *Bookings) FindHotel(ctx context.Context, id int64) (model.Hotel, error) {
	if err := ctx.Err(); err != nil {
		return model.Hotel{}, err
	}
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	h, ok := s.d.hotels[id]
	if !ok {
		return model.Hotel{}, repository.ErrHotelNotFound
	}
	return s.d.hotelView(h), nil
}

func (s *Bookings) AnyOverlap(ctx context.Context, q repository.OverlapQuery) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	for _, b := range s.d.bookings {
		if b.HotelID != q.HotelID || b.UserID != q.UserID || b.IsCancelled() || b.ID == q.ExcludeID {
			continue
		}
		if b.Stay().Overlaps(q.Stay) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Bookings) Find(ctx context.Context, bookingID, hotelID int64, userID string) (model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return model.Booking{}, err
	}
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	b, ok := s.d.bookings[bookingID]
	if !ok || b.HotelID != hotelID || (userID != "" && b.UserID != userID) {
		return model.Booking{}, repository.ErrBookingNotFound
	}
	return s.d.bookingView(b), nil
}

func (s *Bookings) Insert(ctx context.Context, b *model.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	s.d.nextBooking++
	b.ID = s.d.nextBooking
	s.d.bookings[b.ID] = *b
	return nil
}

func (s *Bookings) Update(ctx context.Context, b *model.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if _, ok := s.d.bookings[b.ID]; !ok {
		return repository.ErrBookingNotFound
	}
	s.d.bookings[b.ID] = *b
	return nil
}

func (s *Bookings) List(ctx context.Context, q repository.BookingQuery) ([]model.Booking, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	s.d.mu.RLock()
	all := make([]model.Booking, 0, len(s.d.bookings))
	for _, b := range s.d.bookings {
		all = append(all, s.d.bookingView(b))
	}
	s.d.mu.RUnlock()

	page, total := query.Apply(all, repository.BookingSpec(q), q.Page)
	return page, total, nil
}

// Hotels implements repository.HotelStore.
type Hotels struct{ d *data }

func (s *Hotels) Get(ctx context.Context, id int64) (model.Hotel, error) {
	return (&Bookings{d: s.d}).FindHotel(ctx, id)
}

func (s *Hotels) all() []model.Hotel {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	out := make([]model.Hotel, 0, len(s.d.hotels))
	for _, h := range s.d.hotels {
		out = append(out, s.d.hotelView(h))
	}
	return out
}

func (s *Hotels) List(ctx context.Context, f dto.HotelFilter, p query.PageParams) ([]model.Hotel, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	page, total := query.Apply(s.all(), repository.HotelSpec(f), p)
	return page, total, nil
}

func (s *Hotels) PageByCountry(ctx context.Context, countryID int64, f dto.CountryFilter, p query.PageParams) ([]model.Hotel, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	page, total := query.Apply(s.all(), repository.CountryHotelsSpec(countryID, f), p)
	return page, total, nil
}

func (s *Hotels) ByCountry(ctx context.Context, countryID int64) ([]model.Hotel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	spec := repository.CountryHotelsSpec(countryID, dto.CountryFilter{})
	out := []model.Hotel{}
	for _, h := range s.all() {
		if spec.Matches(h) {
			out = append(out, h)
		}
	}
	spec.Sort(out)
	return out, nil
}

func (s *Hotels) ExistsByName(ctx context.Context, name string, countryID, excludeID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	for _, h := range s.d.hotels {
		if h.ID != excludeID && h.CountryID == countryID && sameName(h.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Hotels) Create(ctx context.Context, h *model.Hotel) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	s.d.nextHotel++
	h.ID = s.d.nextHotel
	s.d.hotels[h.ID] = *h
	return nil
}

func (s *Hotels) Update(ctx context.Context, h *model.Hotel) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if _, ok := s.d.hotels[h.ID]; !ok {
		return repository.ErrHotelNotFound
	}
	s.d.hotels[h.ID] = *h
	return nil
}

func (s *Hotels) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if _, ok := s.d.hotels[id]; !ok {
		return false, nil
	}
	delete(s.d.hotels, id)
	for bid, b := range s.d.bookings {
		if b.HotelID == id {
			delete(s.d.bookings, bid)
		}
	}
	return true, nil
}

func (s *Hotels) IsHotelAdmin(ctx context.Context, userID string, hotelID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	return s.d.hotelAdmins[model.HotelAdmin{HotelID: hotelID, UserID: userID}], nil
}

// Countries implements repository.CountryStore.
type Countries struct{ d *data }

func (s *Countries) List(ctx context.Context, f dto.CountryFilter) ([]model.Country, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.d.mu.RLock()
	all := make([]model.Country, 0, len(s.d.countries))
	for _, c := range s.d.countries {
		all = append(all, c)
	}
	s.d.mu.RUnlock()

	spec := repository.CountrySpec(f)
	out := make([]model.Country, 0, len(all))
	for _, c := range all {
		if spec.Matches(c) {
			out = append(out, c)
		}
	}
	spec.Sort(out)
	return out, nil
}

func (s *Countries) Get(ctx context.Context, id int64) (model.Country, error) {
	if err := ctx.Err(); err != nil {
		return model.Country{}, err
	}
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	c, ok := s.d.countries[id]
	if !ok {
		return model.Country{}, repository.ErrCountryNotFound
	}
	return c, nil
}

func (s *Countries) Exists(ctx context.Context, id int64) (bool, error) {
	_, err := s.Get(ctx, id)
	if errors.Is(err, repository.ErrCountryNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *Countries) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	for _, c := range s.d.countries {
		if c.ID != excludeID && sameName(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Countries) Create(ctx context.Context, c *model.Country) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	s.d.nextCountry++
	c.ID = s.d.nextCountry
	s.d.countries[c.ID] = *c
	return nil
}

func (s *Countries) Update(ctx context.Context, c *model.Country) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if _, ok := s.d.countries[c.ID]; !ok {
		return repository.ErrCountryNotFound
	}
	s.d.countries[c.ID] = *c
	return nil
}

func (s *Countries) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if _, ok := s.d.countries[id]; !ok {
		return false, nil
	}
	delete(s.d.countries, id)
	return true, nil
}

// Users implements repository.UserStore.
type Users struct{ d *data }

func (s *Users) Create(ctx context.Context, u *model.User, adminOf *int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	for _, existing := range s.d.users {
		if existing.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	s.d.users[u.ID] = *u
	if adminOf != nil {
		s.d.hotelAdmins[model.HotelAdmin{HotelID: *adminOf, UserID: u.ID}] = true
	}
	return nil
}

func (s *Users) GetByEmail(ctx context.Context, email string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	for _, u := range s.d.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (s *Users) GetByID(ctx context.Context, id string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	u, ok := s.d.users[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

// Tokens implements repository.TokenStore.
type Tokens struct{ d *data }

func (s *Tokens) StoreRefresh(ctx context.Context, userID, tokenHash string, exp time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	s.d.nextToken++
	s.d.tokens[tokenHash] = model.RefreshToken{
		ID: s.d.nextToken, UserID: userID, TokenHash: tokenHash, ExpiresAt: exp, CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (s *Tokens) ValidateRefresh(ctx context.Context, tokenHash string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	t, ok := s.d.tokens[tokenHash]
	if !ok || t.RevokedAt != nil || time.Now().UTC().After(t.ExpiresAt) {
		return "", repository.ErrInvalidRefresh
	}
	return t.UserID, nil
}

func (s *Tokens) RevokeByHash(ctx context.Context, tokenHash string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if t, ok := s.d.tokens[tokenHash]; ok && t.RevokedAt == nil {
		now := time.Now().UTC()
		t.RevokedAt = &now
		s.d.tokens[tokenHash] = t
	}
	return nil
}

func (s *Tokens) RevokeAllForUser(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	now := time.Now().UTC()
	for h, t := range s.d.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
			s.d.tokens[h] = t
		}
	}
	return nil
}

// APIKeys implements repository.APIKeyStore.
type APIKeys struct{ d *data }

func (s *APIKeys) GetByKey(ctx context.Context, key string) (model.APIKey, error) {
	if err := ctx.Err(); err != nil {
		return model.APIKey{}, err
	}
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	k, ok := s.d.apiKeys[key]
	if !ok {
		return model.APIKey{}, repository.ErrAPIKeyNotFound
	}
	return k, nil
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

var (
	_ repository.BookingStore = (*Bookings)(nil)
	_ repository.HotelStore   = (*Hotels)(nil)
	_ repository.CountryStore = (*Countries)(nil)
	_ repository.UserStore    = (*Users)(nil)
	_ repository.TokenStore   = (*Tokens)(nil)
	_ repository.APIKeyStore  = (*APIKeys)(nil)
)
