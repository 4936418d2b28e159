package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	mpdto "github.com/radieske/boliche-reservas-poc/internal/mercadopago/dto"
	"github.com/radieske/boliche-reservas-poc/internal/reservation"
)

type fakeStore struct {
	token        string
	tokenErr     error
	reservations map[string]*reservation.Reservation
	clients      map[string]*reservation.Client
}

func (f *fakeStore) AccessToken(ctx context.Context) (string, error) {
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	return f.token, nil
}

func (f *fakeStore) GetReservation(ctx context.Context, id string) (*reservation.Reservation, error) {
	r, ok := f.reservations[id]
	if !ok {
		return nil, fmt.Errorf("%w: reservation %s", reservation.ErrNotFound, id)
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) GetClient(ctx context.Context, id string) (*reservation.Client, error) {
	c, ok := f.clients[id]
	if !ok {
		return nil, fmt.Errorf("%w: client %s", reservation.ErrNotFound, id)
	}
	return c, nil
}

type fakeProvider struct {
	calls int
	token string
	last  mpdto.PreferenceRequest
	err   error
}

func (f *fakeProvider) CreatePreference(ctx context.Context, token string, p mpdto.PreferenceRequest) (*mpdto.PreferenceResponse, error) {
	f.calls++
	f.token = token
	f.last = p
	if f.err != nil {
		return nil, f.err
	}
	return &mpdto.PreferenceResponse{ID: "pref-" + p.ExternalReference, InitPoint: "https://mp.test/checkout/" + p.ExternalReference}, nil
}

var fixedNow = time.Date(2026, 10, 18, 19, 0, 0, 0, time.UTC)

func newTestCreator(s *fakeStore, p *fakeProvider) *Creator {
	c := NewCreator(zap.NewNop(), s, p, Options{
		SiteURL:           "https://boliche.test",
		WebhookURL:        "https://api.boliche.test/webhook",
		DefaultPayerEmail: "loja@boliche.test",
	})
	c.now = func() time.Time { return fixedNow }
	return c
}

func reservationAt(id string, created time.Time, value string) *reservation.Reservation {
	price, _ := reservation.ParsePrice(value)
	return &reservation.Reservation{
		ID:         id,
		CreatedAt:  reservation.Timestamp{Time: created},
		TotalValue: price,
		ClientName: "Nome na Reserva",
	}
}

func TestCreateCheckout_ReturnsURLWithinWindow(t *testing.T) {
	r := reservationAt("R1", fixedNow.Add(-5*time.Minute), "199,90")
	r.ClientID = "C1"
	store := &fakeStore{
		token:        "APP_USR-1",
		reservations: map[string]*reservation.Reservation{"R1": r},
		clients:      map[string]*reservation.Client{"C1": {ID: "C1", Name: "Ana", Email: "ana@example.com"}},
	}
	prov := &fakeProvider{}

	url, err := newTestCreator(store, prov).CreateCheckout(context.Background(), "R1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://mp.test/checkout/R1" {
		t.Fatalf("unexpected url %q", url)
	}

	p := prov.last
	if prov.token != "APP_USR-1" {
		t.Fatalf("expected stored token, got %q", prov.token)
	}
	if len(p.Items) != 1 || p.Items[0].Title != ItemTitle || p.Items[0].Quantity != 1 || p.Items[0].CurrencyID != "BRL" {
		t.Fatalf("unexpected items %+v", p.Items)
	}
	if p.Items[0].UnitPrice != 199.9 {
		t.Fatalf("expected unit price 199.9, got %v", p.Items[0].UnitPrice)
	}
	if p.Payer.Name != "Ana" || p.Payer.Email != "ana@example.com" {
		t.Fatalf("unexpected payer %+v", p.Payer)
	}
	if p.ExternalReference != "R1" || !p.Expires {
		t.Fatalf("unexpected reference/expiry %+v", p)
	}
	wantExp := fixedNow.Add(25 * time.Minute).Format("2006-01-02T15:04:05.000Z07:00")
	if p.ExpirationDateTo != wantExp {
		t.Fatalf("expected expiration %s, got %s", wantExp, p.ExpirationDateTo)
	}
	if p.NotificationURL != "https://api.boliche.test/webhook" {
		t.Fatalf("unexpected notification url %q", p.NotificationURL)
	}
	if !strings.HasPrefix(p.BackURLs.Success, "https://boliche.test/pagamento/sucesso") ||
		!strings.HasPrefix(p.BackURLs.Failure, "https://boliche.test/pagamento/falha") ||
		!strings.HasPrefix(p.BackURLs.Pending, "https://boliche.test/pagamento/pendente") {
		t.Fatalf("unexpected back urls %+v", p.BackURLs)
	}
}

func TestCreateCheckout_NormalizesPriceFormats(t *testing.T) {
	for _, raw := range []string{"150,50", "150.5"} {
		store := &fakeStore{
			token:        "T",
			reservations: map[string]*reservation.Reservation{"R": reservationAt("R", fixedNow, raw)},
		}
		prov := &fakeProvider{}
		if _, err := newTestCreator(store, prov).CreateCheckout(context.Background(), "R"); err != nil {
			t.Fatalf("%s: unexpected error %v", raw, err)
		}
		if prov.last.Items[0].UnitPrice != 150.5 {
			t.Fatalf("%s: expected 150.5, got %v", raw, prov.last.Items[0].UnitPrice)
		}
	}
}

func TestCreateCheckout_FallsBackToReservationNameAndStoreEmail(t *testing.T) {
	r := reservationAt("R2", fixedNow, "80")
	r.ClientID = "C-missing-email"
	store := &fakeStore{
		token:        "T",
		reservations: map[string]*reservation.Reservation{"R2": r},
		clients:      map[string]*reservation.Client{"C-missing-email": {ID: "C-missing-email"}},
	}
	prov := &fakeProvider{}

	if _, err := newTestCreator(store, prov).CreateCheckout(context.Background(), "R2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prov.last.Payer.Name != "Nome na Reserva" || prov.last.Payer.Email != "loja@boliche.test" {
		t.Fatalf("unexpected payer %+v", prov.last.Payer)
	}
}

func TestCreateCheckout_Failures(t *testing.T) {
	expired := reservationAt("OLD", fixedNow.Add(-31*time.Minute), "100")
	expired.PaymentStatus = reservation.PaymentPaid
	zero := reservationAt("ZERO", fixedNow, "0")

	cases := []struct {
		name    string
		store   *fakeStore
		prov    *fakeProvider
		id      string
		wantErr error
	}{
		{
			name:    "missing token",
			store:   &fakeStore{tokenErr: fmt.Errorf("%w: no row", reservation.ErrConfiguration)},
			prov:    &fakeProvider{},
			id:      "R",
			wantErr: reservation.ErrConfiguration,
		},
		{
			name:    "unknown reservation",
			store:   &fakeStore{token: "T", reservations: map[string]*reservation.Reservation{}},
			prov:    &fakeProvider{},
			id:      "NOPE",
			wantErr: reservation.ErrNotFound,
		},
		{
			name:    "expired window regardless of payment state",
			store:   &fakeStore{token: "T", reservations: map[string]*reservation.Reservation{"OLD": expired}},
			prov:    &fakeProvider{},
			id:      "OLD",
			wantErr: reservation.ErrExpired,
		},
		{
			name:    "zero price",
			store:   &fakeStore{token: "T", reservations: map[string]*reservation.Reservation{"ZERO": zero}},
			prov:    &fakeProvider{},
			id:      "ZERO",
			wantErr: reservation.ErrInvalidPrice,
		},
		{
			name:    "provider failure",
			store:   &fakeStore{token: "T", reservations: map[string]*reservation.Reservation{"R": reservationAt("R", fixedNow, "10")}},
			prov:    &fakeProvider{err: errors.New("mercadopago http 400: invalid payer")},
			id:      "R",
			wantErr: reservation.ErrProviderSubmit,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newTestCreator(tc.store, tc.prov).CreateCheckout(context.Background(), tc.id)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if tc.wantErr != reservation.ErrProviderSubmit && tc.prov.calls != 0 {
				t.Fatalf("provider must not be called on %s", tc.name)
			}
		})
	}
}

func TestCreateCheckout_ProviderMessageIsKept(t *testing.T) {
	store := &fakeStore{token: "T", reservations: map[string]*reservation.Reservation{"R": reservationAt("R", fixedNow, "10")}}
	prov := &fakeProvider{err: errors.New("mercadopago http 400: invalid payer")}

	_, err := newTestCreator(store, prov).CreateCheckout(context.Background(), "R")
	if err == nil || !strings.Contains(err.Error(), "invalid payer") {
		t.Fatalf("expected provider message in error, got %v", err)
	}
}
