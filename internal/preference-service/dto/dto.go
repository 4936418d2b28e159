package dto

type CreatePreferenceRequest struct {
	ReservationID string `json:"reservationId"`
}

type CreatePreferenceResponse struct {
	URL string `json:"url"`
}
