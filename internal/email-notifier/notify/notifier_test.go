package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/radieske/boliche-reservas-poc/internal/reservation"
	"github.com/radieske/boliche-reservas-poc/internal/resend"
)

type fakeClients struct {
	clients map[string]*reservation.Client
	err     error
	calls   int
}

func (f *fakeClients) GetClient(ctx context.Context, id string) (*reservation.Client, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.clients[id]
	if !ok {
		return nil, fmt.Errorf("%w: client %s", reservation.ErrNotFound, id)
	}
	return c, nil
}

type fakeSender struct {
	sent []resend.Email
	err  error
}

func (f *fakeSender) Send(ctx context.Context, e resend.Email) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, e)
	return fmt.Sprintf("email-%d", len(f.sent)), nil
}

func paidReservation() reservation.Reservation {
	price, _ := reservation.ParsePrice("199,90")
	return reservation.Reservation{
		ID:            "R1",
		Date:          "2026-10-24",
		Time:          "20:00:00",
		Lanes:         2,
		People:        8,
		EventType:     "Confraternização",
		TotalValue:    price,
		Status:        reservation.StatusConfirmed,
		PaymentStatus: reservation.PaymentPaid,
		ClientID:      "C1",
	}
}

func newNotifier(c *fakeClients, s *fakeSender) *Notifier {
	return NewNotifier(zap.NewNop(), c, s, "Boliche <reservas@boliche.test>")
}

func TestNotify_SkipsUnpaidReservations(t *testing.T) {
	clients := &fakeClients{clients: map[string]*reservation.Client{"C1": {ID: "C1", Email: "ana@example.com"}}}
	sender := &fakeSender{}
	r := paidReservation()
	r.PaymentStatus = reservation.PaymentPending

	out, err := newNotifier(clients, sender).Notify(context.Background(), r)
	if err != nil || out.Sent || out.Message != MessageNotPaid {
		t.Fatalf("unexpected outcome %+v err=%v", out, err)
	}
	if clients.calls != 0 || len(sender.sent) != 0 {
		t.Fatal("unpaid reservation must not look up clients nor send email")
	}
}

func TestNotify_ClientWithoutEmailIsSoftSuccess(t *testing.T) {
	clients := &fakeClients{clients: map[string]*reservation.Client{"C1": {ID: "C1", Name: "Ana"}}}
	sender := &fakeSender{}

	out, err := newNotifier(clients, sender).Notify(context.Background(), paidReservation())
	if err != nil || out.Sent || out.Message != MessageNoEmail {
		t.Fatalf("unexpected outcome %+v err=%v", out, err)
	}
	if len(sender.sent) != 0 {
		t.Fatal("no email expected")
	}
}

func TestNotify_MissingClientIsSoftSuccess(t *testing.T) {
	clients := &fakeClients{clients: map[string]*reservation.Client{}}
	out, err := newNotifier(clients, &fakeSender{}).Notify(context.Background(), paidReservation())
	if err != nil || out.Sent {
		t.Fatalf("unexpected outcome %+v err=%v", out, err)
	}

	r := paidReservation()
	r.ClientID = ""
	out, err = newNotifier(clients, &fakeSender{}).Notify(context.Background(), r)
	if err != nil || out.Message != MessageNoClient {
		t.Fatalf("unexpected outcome %+v err=%v", out, err)
	}
}

func TestNotify_SendsOneFormattedEmail(t *testing.T) {
	clients := &fakeClients{clients: map[string]*reservation.Client{"C1": {ID: "C1", Name: "Ana", Email: " ana@example.com "}}}
	sender := &fakeSender{}

	out, err := newNotifier(clients, sender).Notify(context.Background(), paidReservation())
	if err != nil || !out.Sent || out.EmailID != "email-1" {
		t.Fatalf("unexpected outcome %+v err=%v", out, err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected exactly one email, got %d", len(sender.sent))
	}
	e := sender.sent[0]
	if e.To[0] != "ana@example.com" || e.From != "Boliche <reservas@boliche.test>" {
		t.Fatalf("unexpected addressing %+v", e)
	}
	if e.Subject != "Reserva confirmada - 24/10/2026" {
		t.Fatalf("unexpected subject %q", e.Subject)
	}
	for _, want := range []string{"Olá, Ana!", "24/10/2026 (sábado)", "20:00", "R$ 199,90", `class="standard"`} {
		if !strings.Contains(e.HTML, want) {
			t.Fatalf("expected %q in body:\n%s", want, e.HTML)
		}
	}
	for _, unwanted := range []string{`class="birthday"`, `class="table"`, `class="observations"`} {
		if strings.Contains(e.HTML, unwanted) {
			t.Fatalf("did not expect %q in body", unwanted)
		}
	}
}

func TestNotify_ConditionalBlocks(t *testing.T) {
	clients := &fakeClients{clients: map[string]*reservation.Client{"C1": {ID: "C1", Name: "Ana", Email: "ana@example.com"}}}
	sender := &fakeSender{}
	r := paidReservation()
	r.EventType = "Aniversário"
	r.BirthdayPerson = "Joãozinho"
	r.TableReservation = true
	r.TableSeats = 12
	r.Observations = "Bolo <sem glúten>"

	if _, err := newNotifier(clients, sender).Notify(context.Background(), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	html := sender.sent[0].HTML
	for _, want := range []string{`class="birthday"`, "Joãozinho", `class="table"`, "para 12 pessoas", `class="observations"`, "Bolo &lt;sem glúten&gt;"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in body:\n%s", want, html)
		}
	}
	if strings.Contains(html, `class="standard"`) {
		t.Fatal("standard block must not appear for birthdays")
	}
}

func TestNotify_ProviderFailureSurfacesMessage(t *testing.T) {
	clients := &fakeClients{clients: map[string]*reservation.Client{"C1": {ID: "C1", Email: "ana@example.com"}}}
	sender := &fakeSender{err: errors.New("resend http 403: API key is invalid")}

	_, err := newNotifier(clients, sender).Notify(context.Background(), paidReservation())
	if !errors.Is(err, reservation.ErrEmailProvider) || !strings.Contains(err.Error(), "API key is invalid") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestNotify_ClientLookupFailureIsError(t *testing.T) {
	clients := &fakeClients{err: fmt.Errorf("%w: conn refused", reservation.ErrDatabase)}
	_, err := newNotifier(clients, &fakeSender{}).Notify(context.Background(), paidReservation())
	if !errors.Is(err, reservation.ErrDatabase) {
		t.Fatalf("expected database error, got %v", err)
	}
}
