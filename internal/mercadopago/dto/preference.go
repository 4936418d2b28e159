package dto

// PreferenceRequest é o corpo de POST /checkout/preferences
type PreferenceRequest struct {
	Items             []Item   `json:"items"`
	Payer             Payer    `json:"payer"`
	ExternalReference string   `json:"external_reference"`
	Expires           bool     `json:"expires"`
	ExpirationDateTo  string   `json:"expiration_date_to,omitempty"` // ISO 8601 com fuso
	BackURLs          BackURLs `json:"back_urls"`
	AutoReturn        string   `json:"auto_return,omitempty"`
	NotificationURL   string   `json:"notification_url,omitempty"`
}

type Item struct {
	Title      string  `json:"title"`
	UnitPrice  float64 `json:"unit_price"`
	Quantity   int     `json:"quantity"`
	CurrencyID string  `json:"currency_id"`
}

type Payer struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type BackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

// PreferenceResponse traz só o que o fluxo usa
type PreferenceResponse struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}
