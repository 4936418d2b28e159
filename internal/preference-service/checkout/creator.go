package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	mpdto "github.com/radieske/boliche-reservas-poc/internal/mercadopago/dto"
	"github.com/radieske/boliche-reservas-poc/internal/reservation"
)

const (
	ItemTitle  = "Reserva de Pista de Boliche"
	CurrencyID = "BRL"

	// formato aceito pelo provedor em expiration_date_to
	expirationLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Store define as leituras feitas no banco gerenciado
type Store interface {
	AccessToken(ctx context.Context) (string, error)
	GetReservation(ctx context.Context, id string) (*reservation.Reservation, error)
	GetClient(ctx context.Context, id string) (*reservation.Client, error)
}

// Provider cria a preferência no Mercado Pago
type Provider interface {
	CreatePreference(ctx context.Context, token string, p mpdto.PreferenceRequest) (*mpdto.PreferenceResponse, error)
}

type Options struct {
	SiteURL           string // base das back_urls
	WebhookURL        string // notification_url
	DefaultPayerEmail string
}

// Creator valida a reserva dentro da janela de 30 minutos e gera o link de checkout
type Creator struct {
	log      *zap.Logger
	store    Store
	provider Provider
	opts     Options
	now      func() time.Time
}

func NewCreator(log *zap.Logger, s Store, p Provider, opts Options) *Creator {
	return &Creator{log: log, store: s, provider: p, opts: opts, now: time.Now}
}

// CreateCheckout devolve a URL de checkout (init_point) da reserva
func (c *Creator) CreateCheckout(ctx context.Context, reservationID string) (string, error) {
	token, err := c.store.AccessToken(ctx)
	if err != nil {
		return "", err
	}

	res, err := c.store.GetReservation(ctx, reservationID)
	if err != nil {
		return "", err
	}

	deadline := res.PaymentDeadline()
	if !res.Payable(c.now()) {
		return "", fmt.Errorf("%w: deadline was %s", reservation.ErrExpired, deadline.Format(time.RFC3339))
	}

	price, err := res.TotalValue.Positive()
	if err != nil {
		return "", err
	}

	payer := c.payerFor(ctx, res)

	pref := mpdto.PreferenceRequest{
		Items: []mpdto.Item{{
			Title:      ItemTitle,
			UnitPrice:  price.Float(),
			Quantity:   1,
			CurrencyID: CurrencyID,
		}},
		Payer:             payer,
		ExternalReference: res.ID,
		Expires:           true,
		ExpirationDateTo:  deadline.Format(expirationLayout),
		BackURLs:          c.backURLs(res.ID),
		AutoReturn:        "approved",
		NotificationURL:   c.opts.WebhookURL,
	}

	out, err := c.provider.CreatePreference(ctx, token, pref)
	if err != nil {
		return "", fmt.Errorf("%w: %v", reservation.ErrProviderSubmit, err)
	}
	if out.InitPoint == "" {
		return "", fmt.Errorf("%w: empty init_point", reservation.ErrProviderSubmit)
	}

	c.log.Info("preference created",
		zap.String("reservationId", res.ID),
		zap.String("preferenceId", out.ID),
		zap.Int64("amountCents", price.Cents),
	)
	return out.InitPoint, nil
}

// payerFor usa o cadastro do cliente quando existe; senão o nome embutido na
// reserva e o email padrão da loja
func (c *Creator) payerFor(ctx context.Context, res *reservation.Reservation) mpdto.Payer {
	payer := mpdto.Payer{Name: res.ClientName, Email: c.opts.DefaultPayerEmail}
	if res.ClientID == "" {
		return payer
	}

	cli, err := c.store.GetClient(ctx, res.ClientID)
	if err != nil {
		if !errors.Is(err, reservation.ErrNotFound) {
			c.log.Warn("client lookup failed, using reservation data", zap.String("clientId", res.ClientID), zap.Error(err))
		}
		return payer
	}
	if n := strings.TrimSpace(cli.Name); n != "" {
		payer.Name = n
	}
	if e := strings.TrimSpace(cli.Email); e != "" {
		payer.Email = e
	}
	return payer
}

func (c *Creator) backURLs(reservationID string) mpdto.BackURLs {
	q := "?reserva=" + url.QueryEscape(reservationID)
	return mpdto.BackURLs{
		Success: c.opts.SiteURL + "/pagamento/sucesso" + q,
		Failure: c.opts.SiteURL + "/pagamento/falha" + q,
		Pending: c.opts.SiteURL + "/pagamento/pendente" + q,
	}
}
