package analytics

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/radieske/boliche-reservas-poc/internal/reservation"
)

const dateLayout = "2006-01-02"

// MaxRange limita a janela das consultas de faturamento
const MaxRange = 366 * 24 * time.Hour

var ErrInvalidRange = errors.New("invalid date range")

type MonthRevenue struct {
	Month string `json:"month"` // YYYY-MM
	Cents int64  `json:"cents"`
	Count int    `json:"count"`
}

type EventTypeRevenue struct {
	EventType string `json:"event_type"`
	Cents     int64  `json:"cents"`
	Count     int    `json:"count"`
}

// RevenueAnalytics: só reservas pagas e não canceladas contam como faturamento
type RevenueAnalytics struct {
	From               string             `json:"from"`
	To                 string             `json:"to"`
	TotalCents         int64              `json:"total_cents"`
	PendingCents       int64              `json:"pending_cents"`
	PaidCount          int                `json:"paid_count"`
	AverageTicketCents int64              `json:"average_ticket_cents"`
	ByMonth            []MonthRevenue     `json:"by_month"`
	ByEventType        []EventTypeRevenue `json:"by_event_type"`
}

// ParseRange valida from/to (YYYY-MM-DD, from <= to, até MaxRange)
func ParseRange(from, to string) (time.Time, time.Time, error) {
	f, err := time.Parse(dateLayout, strings.TrimSpace(from))
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(to))
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	if t.Before(f) || t.Sub(f) > MaxRange {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	return f, t, nil
}

// Revenue agrega o faturamento do período
func Revenue(from, to string, rs []reservation.Reservation) RevenueAnalytics {
	a := RevenueAnalytics{From: from, To: to, ByMonth: []MonthRevenue{}, ByEventType: []EventTypeRevenue{}}
	months := map[string]*MonthRevenue{}
	types := map[string]*EventTypeRevenue{}

	for _, r := range rs {
		if r.IsCancelled() {
			continue
		}
		cents := r.TotalValue.Cents
		if !r.IsPaid() {
			a.PendingCents += cents
			continue
		}
		a.TotalCents += cents
		a.PaidCount++

		month := r.Date
		if len(month) >= 7 {
			month = month[:7]
		}
		mr, ok := months[month]
		if !ok {
			mr = &MonthRevenue{Month: month}
			months[month] = mr
		}
		mr.Cents += cents
		mr.Count++

		et := strings.TrimSpace(r.EventType)
		if et == "" {
			et = "Outros"
		}
		tr, ok := types[et]
		if !ok {
			tr = &EventTypeRevenue{EventType: et}
			types[et] = tr
		}
		tr.Cents += cents
		tr.Count++
	}

	if a.PaidCount > 0 {
		a.AverageTicketCents = a.TotalCents / int64(a.PaidCount)
	}
	for _, m := range months {
		a.ByMonth = append(a.ByMonth, *m)
	}
	sort.Slice(a.ByMonth, func(i, j int) bool { return a.ByMonth[i].Month < a.ByMonth[j].Month })
	for _, t := range types {
		a.ByEventType = append(a.ByEventType, *t)
	}
	sort.Slice(a.ByEventType, func(i, j int) bool {
		if a.ByEventType[i].Cents != a.ByEventType[j].Cents {
			return a.ByEventType[i].Cents > a.ByEventType[j].Cents
		}
		return a.ByEventType[i].EventType < a.ByEventType[j].EventType
	})
	return a
}
