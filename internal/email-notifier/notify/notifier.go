package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/radieske/boliche-reservas-poc/internal/reservation"
	"github.com/radieske/boliche-reservas-poc/internal/resend"
)

const (
	MessageNotPaid  = "Reservation is not paid, email not sent"
	MessageNoEmail  = "Client has no email, email not sent"
	MessageNoClient = "Reservation has no client, email not sent"

	MessageAlreadyPaid = "Reservation was already paid, email not sent"
)

type ClientStore interface {
	GetClient(ctx context.Context, id string) (*reservation.Client, error)
}

type Sender interface {
	Send(ctx context.Context, e resend.Email) (string, error)
}

// Outcome: Sent=false com Message é um "não envio" esperado, não uma falha
type Outcome struct {
	Sent    bool
	EmailID string
	Message string
}

// Notifier envia o email de confirmação de uma reserva paga
type Notifier struct {
	log     *zap.Logger
	clients ClientStore
	sender  Sender
	from    string
}

func NewNotifier(log *zap.Logger, c ClientStore, s Sender, from string) *Notifier {
	return &Notifier{log: log, clients: c, sender: s, from: from}
}

// Notify não tenta reenviar; retry, se houver, é do trigger que chamou
func (n *Notifier) Notify(ctx context.Context, r reservation.Reservation) (Outcome, error) {
	if !r.IsPaid() {
		return Outcome{Message: MessageNotPaid}, nil
	}
	if r.ClientID == "" {
		n.log.Info("paid reservation without client", zap.String("reservationId", r.ID))
		return Outcome{Message: MessageNoClient}, nil
	}

	cli, err := n.clients.GetClient(ctx, r.ClientID)
	if errors.Is(err, reservation.ErrNotFound) {
		n.log.Warn("client not found for paid reservation", zap.String("reservationId", r.ID), zap.String("clientId", r.ClientID))
		return Outcome{Message: MessageNoEmail}, nil
	}
	if err != nil {
		return Outcome{}, err
	}
	email := strings.TrimSpace(cli.Email)
	if email == "" {
		n.log.Info("client has no email", zap.String("reservationId", r.ID), zap.String("clientId", cli.ID))
		return Outcome{Message: MessageNoEmail}, nil
	}

	html, err := RenderHTML(r, cli.Name)
	if err != nil {
		return Outcome{}, fmt.Errorf("render email: %w", err)
	}

	id, err := n.sender.Send(ctx, resend.Email{
		From:    n.from,
		To:      []string{email},
		Subject: Subject(r),
		HTML:    html,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", reservation.ErrEmailProvider, err)
	}

	n.log.Info("confirmation email sent", zap.String("reservationId", r.ID), zap.String("emailId", id))
	return Outcome{Sent: true, EmailID: id}, nil
}
