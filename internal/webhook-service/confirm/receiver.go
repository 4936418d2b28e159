package confirm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	mpdto "github.com/radieske/boliche-reservas-poc/internal/mercadopago/dto"
	"github.com/radieske/boliche-reservas-poc/internal/reservation"
	"github.com/radieske/boliche-reservas-poc/pkg/contracts/events"
)

const (
	MessageSuccess     = "Success"
	MessageIgnored     = "Ignored action"
	MessageNotApproved = "Payment not approved"

	source = "payment-webhook-service"
)

type Store interface {
	AccessToken(ctx context.Context) (string, error)
	MarkPaid(ctx context.Context, reservationID, paymentID string) (bool, error)
}

type Provider interface {
	GetPayment(ctx context.Context, token, paymentID string) (*mpdto.Payment, error)
}

// Deduper responde true apenas na primeira entrega confirmada de um pagamento.
// Release devolve a marca quando o evento não pôde ser publicado.
type Deduper interface {
	FirstDelivery(ctx context.Context, paymentID string) (bool, error)
	Release(ctx context.Context, paymentID string) error
}

type Publisher interface {
	PublishReservationPaid(ctx context.Context, e events.ReservationPaid) error
}

type Broadcaster interface {
	BroadcastReservationUpdated(ctx context.Context, e events.ReservationUpdated) error
}

type Result struct {
	Message   string
	Confirmed bool
}

// Receiver processa notificações do Mercado Pago. O corpo da notificação só
// serve para descobrir o id do pagamento: o status vem sempre da consulta direta.
type Receiver struct {
	log      *zap.Logger
	store    Store
	provider Provider

	// efeitos após a confirmação; todos opcionais
	Dedup       Deduper
	Publisher   Publisher
	Broadcaster Broadcaster

	now func() time.Time
}

func NewReceiver(log *zap.Logger, s Store, p Provider) *Receiver {
	return &Receiver{log: log, store: s, provider: p, now: time.Now}
}

// Handle devolve erro só nas falhas "duras" (token, consulta ao provedor,
// update no banco), para que o provedor reenvie a notificação
func (rc *Receiver) Handle(ctx context.Context, n mpdto.Notification) (Result, error) {
	if n.Action != mpdto.ActionPaymentCreated && n.Action != mpdto.ActionPaymentUpdated {
		return Result{Message: MessageIgnored}, nil
	}

	paymentID := n.Data.ID.String()
	if paymentID == "" {
		return Result{}, fmt.Errorf("%w: notification without payment id", reservation.ErrProviderQuery)
	}

	token, err := rc.store.AccessToken(ctx)
	if err != nil {
		return Result{}, err
	}

	payment, err := rc.provider.GetPayment(ctx, token, paymentID)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", reservation.ErrProviderQuery, err)
	}

	reservationID := payment.ExternalReference
	if payment.Status != mpdto.StatusApproved || reservationID == "" {
		rc.log.Info("payment not approved, nothing to update",
			zap.String("paymentId", paymentID),
			zap.String("status", payment.Status),
			zap.String("externalReference", reservationID),
		)
		return Result{Message: MessageNotApproved}, nil
	}

	found, err := rc.store.MarkPaid(ctx, reservationID, paymentID)
	if err != nil {
		return Result{}, err
	}
	if !found {
		// nada a reenviar: a referência não existe no banco
		rc.log.Warn("approved payment for unknown reservation",
			zap.String("paymentId", paymentID),
			zap.String("reservationId", reservationID),
		)
		return Result{Message: MessageSuccess}, nil
	}

	rc.log.Info("reservation confirmed",
		zap.String("reservationId", reservationID),
		zap.String("paymentId", paymentID),
	)
	rc.afterConfirm(ctx, reservationID, paymentID, payment.TransactionAmount)
	return Result{Message: MessageSuccess, Confirmed: true}, nil
}

// afterConfirm publica evento e broadcast uma única vez por pagamento.
// Falhas aqui só são logadas; o update já foi aplicado. Se o evento não sair,
// a marca de dedup é liberada para a próxima entrega tentar de novo.
func (rc *Receiver) afterConfirm(ctx context.Context, reservationID, paymentID string, amount float64) {
	claimed := false
	if rc.Dedup != nil {
		first, err := rc.Dedup.FirstDelivery(ctx, paymentID)
		if err != nil {
			rc.log.Warn("dedup check failed, publishing anyway", zap.String("paymentId", paymentID), zap.Error(err))
		} else if !first {
			rc.log.Info("duplicate delivery, skipping follow-ups", zap.String("paymentId", paymentID))
			return
		} else {
			claimed = true
		}
	}

	now := rc.now()
	if rc.Publisher != nil {
		err := rc.Publisher.PublishReservationPaid(ctx, events.ReservationPaid{
			ReservationID: reservationID,
			PaymentID:     paymentID,
			AmountCents:   reservation.PriceFromFloat(amount).Cents,
			Ts:            now,
		})
		if err != nil {
			rc.log.Error("publish reservation_paid", zap.String("reservationId", reservationID), zap.Error(err))
			if claimed {
				if rerr := rc.Dedup.Release(ctx, paymentID); rerr != nil {
					rc.log.Error("dedup release failed", zap.String("paymentId", paymentID), zap.Error(rerr))
				}
			}
			// broadcast fica para a entrega que conseguir publicar
			return
		}
	}
	if rc.Broadcaster != nil {
		err := rc.Broadcaster.BroadcastReservationUpdated(ctx, events.ReservationUpdated{
			ReservationID: reservationID,
			Status:        reservation.StatusConfirmed,
			PaymentStatus: reservation.PaymentPaid,
			Source:        source,
			UpdatedAt:     now,
		})
		if err != nil {
			rc.log.Warn("broadcast reservation update", zap.String("reservationId", reservationID), zap.Error(err))
		}
	}
}
