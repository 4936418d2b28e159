package simulator

import (
	"strconv"
	"sync"

	"github.com/google/uuid"

	mpdto "github.com/radieske/boliche-reservas-poc/internal/mercadopago/dto"
)

const firstPaymentID = 1000000001

// Store guarda preferências e pagamentos em memória
type Store struct {
	mu          sync.Mutex
	preferences map[string]mpdto.PreferenceRequest
	payments    map[string]mpdto.Payment
	nextPayment int64
}

func NewStore() *Store {
	return &Store{
		preferences: make(map[string]mpdto.PreferenceRequest),
		payments:    make(map[string]mpdto.Payment),
		nextPayment: firstPaymentID,
	}
}

// SavePreference devolve o id gerado, no formato "<collector>-<uuid>" do provedor
func (s *Store) SavePreference(p mpdto.PreferenceRequest) string {
	id := "123456789-" + uuid.NewString()
	s.mu.Lock()
	s.preferences[id] = p
	s.mu.Unlock()
	return id
}

func (s *Store) Preference(id string) (mpdto.PreferenceRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.preferences[id]
	return p, ok
}

// CreatePayment registra um pagamento para a preferência com o status pedido
func (s *Store) CreatePayment(pref mpdto.PreferenceRequest, status string) mpdto.Payment {
	var amount float64
	for _, it := range pref.Items {
		amount += it.UnitPrice * float64(it.Quantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := strconv.FormatInt(s.nextPayment, 10)
	s.nextPayment++
	p := mpdto.Payment{
		ID:                mpdto.FlexibleID(id),
		Status:            status,
		StatusDetail:      statusDetail(status),
		ExternalReference: pref.ExternalReference,
		TransactionAmount: amount,
	}
	s.payments[id] = p
	return p
}

func (s *Store) Payment(id string) (mpdto.Payment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	return p, ok
}

func statusDetail(status string) string {
	switch status {
	case mpdto.StatusApproved:
		return "accredited"
	case mpdto.StatusRejected:
		return "cc_rejected_other_reason"
	default:
		return "pending_contingency"
	}
}
