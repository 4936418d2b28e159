package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	mpdto "github.com/radieske/boliche-reservas-poc/internal/mercadopago/dto"
)

// Client fala com a API do Mercado Pago. O access token vem do banco a cada
// chamada, por isso não fica guardado aqui.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(base, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// CreatePreference cria a preferência de checkout e devolve init_point/id
func (c *Client) CreatePreference(ctx context.Context, token string, p mpdto.PreferenceRequest) (*mpdto.PreferenceResponse, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/checkout/preferences", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Idempotency-Key", uuid.NewString())

	var out mpdto.PreferenceResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPayment consulta o pagamento direto no provedor
func (c *Client) GetPayment(ctx context.Context, token, paymentID string) (*mpdto.Payment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v1/payments/"+url.PathEscape(paymentID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var out mpdto.Payment
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(req *http.Request, out any) error {
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return providerError(res)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// providerError preserva a mensagem do provedor, que é devolvida ao chamador
func providerError(res *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	var e mpdto.ErrorResponse
	if json.Unmarshal(raw, &e) == nil {
		if e.Message != "" {
			return fmt.Errorf("mercadopago http %d: %s", res.StatusCode, e.Message)
		}
		if e.Error != "" {
			return fmt.Errorf("mercadopago http %d: %s", res.StatusCode, e.Error)
		}
	}
	return fmt.Errorf("mercadopago http %s", res.Status)
}
