package dto

// SimulatePayRequest é o corpo de POST /simulate/pay (atalho de desenvolvimento,
// faz o papel do comprador concluindo o checkout)
type SimulatePayRequest struct {
	PreferenceID string `json:"preferenceId"`
	Status       string `json:"status,omitempty"` // approved (default) | pending | rejected
}

type SimulatePayResponse struct {
	PaymentID      string `json:"paymentId"`
	Status         string `json:"status"`
	Notified       bool   `json:"notified"`
	NotifyResponse int    `json:"notifyResponse,omitempty"` // status HTTP devolvido pelo webhook
	NotifyError    string `json:"notifyError,omitempty"`
}
