package analytics

import (
	"errors"
	"testing"

	"github.com/radieske/boliche-reservas-poc/internal/reservation"
)

func res(date, hour, status, payment, eventType string, lanes, people int, cents int64) reservation.Reservation {
	return reservation.Reservation{
		Date:          date,
		Time:          hour,
		Status:        status,
		PaymentStatus: payment,
		EventType:     eventType,
		Lanes:         lanes,
		People:        people,
		TotalValue:    reservation.Price{Cents: cents, Valid: true},
	}
}

func TestAgenda(t *testing.T) {
	rs := []reservation.Reservation{
		res("2026-10-24", "20:00:00", reservation.StatusConfirmed, reservation.PaymentPaid, "Aniversário", 2, 10, 30000),
		res("2026-10-24", "18:00:00", reservation.StatusPending, reservation.PaymentPending, "Confraternização", 1, 6, 15000),
		res("2026-10-24", "20:00", reservation.StatusConfirmed, reservation.PaymentPaid, "Lazer", 1, 4, 12000),
		res("2026-10-24", "20:00", reservation.StatusCancelled, reservation.PaymentPending, "Lazer", 3, 12, 40000),
	}
	rs[1].TableReservation = true

	m := Agenda("2026-10-24", rs)
	if m.Total != 4 || m.Confirmed != 2 || m.Pending != 1 || m.Cancelled != 1 || m.Paid != 2 {
		t.Fatalf("unexpected counts %+v", m)
	}
	if m.LanesBooked != 4 || m.People != 20 || m.Birthdays != 1 || m.TableReservations != 1 {
		t.Fatalf("unexpected totals %+v", m)
	}
	if len(m.ByHour) != 2 {
		t.Fatalf("expected two slots, got %+v", m.ByHour)
	}
	if m.ByHour[0].Time != "18:00" || m.ByHour[1].Time != "20:00" {
		t.Fatalf("slots not ordered: %+v", m.ByHour)
	}
	if s := m.ByHour[1]; s.Reservations != 2 || s.Lanes != 3 || s.People != 14 {
		t.Fatalf("unexpected 20:00 slot %+v", s)
	}
}

func TestAgenda_EmptyDay(t *testing.T) {
	m := Agenda("2026-10-25", nil)
	if m.Total != 0 || m.ByHour == nil {
		t.Fatalf("unexpected metrics %+v", m)
	}
}

func TestRevenue(t *testing.T) {
	rs := []reservation.Reservation{
		res("2026-09-30", "20:00", reservation.StatusConfirmed, reservation.PaymentPaid, "Aniversário", 2, 10, 30000),
		res("2026-10-01", "20:00", reservation.StatusConfirmed, reservation.PaymentPaid, "Lazer", 1, 4, 12000),
		res("2026-10-02", "20:00", reservation.StatusConfirmed, reservation.PaymentPaid, "Aniversário", 1, 4, 18000),
		res("2026-10-03", "20:00", reservation.StatusPending, reservation.PaymentPending, "Lazer", 1, 4, 9990),
		res("2026-10-04", "20:00", reservation.StatusCancelled, reservation.PaymentPaid, "Lazer", 1, 4, 50000),
	}

	a := Revenue("2026-09-01", "2026-10-31", rs)
	if a.TotalCents != 60000 || a.PaidCount != 3 || a.AverageTicketCents != 20000 {
		t.Fatalf("unexpected totals %+v", a)
	}
	if a.PendingCents != 9990 {
		t.Fatalf("unexpected pending %d", a.PendingCents)
	}
	if len(a.ByMonth) != 2 || a.ByMonth[0].Month != "2026-09" || a.ByMonth[1].Cents != 30000 || a.ByMonth[1].Count != 2 {
		t.Fatalf("unexpected months %+v", a.ByMonth)
	}
	if len(a.ByEventType) != 2 || a.ByEventType[0].EventType != "Aniversário" || a.ByEventType[0].Cents != 48000 {
		t.Fatalf("unexpected event types %+v", a.ByEventType)
	}
}

func TestParseRange(t *testing.T) {
	if _, _, err := ParseRange("2026-10-01", "2026-10-31"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if _, _, err := ParseRange("2026-10-01", "2026-10-01"); err != nil {
		t.Fatalf("single day range should be valid: %v", err)
	}
	bad := [][2]string{
		{"2026-10-31", "2026-10-01"},
		{"01/10/2026", "2026-10-31"},
		{"2026-10-01", ""},
		{"2024-01-01", "2026-01-01"},
	}
	for _, b := range bad {
		if _, _, err := ParseRange(b[0], b[1]); !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("range %v: expected ErrInvalidRange, got %v", b, err)
		}
	}
}
