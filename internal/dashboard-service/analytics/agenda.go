package analytics

import (
	"sort"

	"github.com/radieske/boliche-reservas-poc/internal/reservation"
)

// HourSlot agrega as reservas ativas de um horário
type HourSlot struct {
	Time         string `json:"time"` // HH:MM
	Reservations int    `json:"reservations"`
	Lanes        int    `json:"lanes"`
	People       int    `json:"people"`
}

// AgendaMetrics são os números do topo da agenda do dia
type AgendaMetrics struct {
	Date              string     `json:"date"`
	Total             int        `json:"total"`
	Confirmed         int        `json:"confirmed"`
	Pending           int        `json:"pending"`
	Cancelled         int        `json:"cancelled"`
	Paid              int        `json:"paid"`
	LanesBooked       int        `json:"lanes_booked"`
	People            int        `json:"people"`
	Birthdays         int        `json:"birthdays"`
	TableReservations int        `json:"table_reservations"`
	ByHour            []HourSlot `json:"by_hour"`
}

// Agenda calcula as métricas de um dia. Canceladas entram só nas contagens de status.
func Agenda(date string, rs []reservation.Reservation) AgendaMetrics {
	m := AgendaMetrics{Date: date, ByHour: []HourSlot{}}
	slots := map[string]*HourSlot{}

	for _, r := range rs {
		m.Total++
		if r.IsCancelled() {
			m.Cancelled++
			continue
		}
		if r.Status == reservation.StatusConfirmed {
			m.Confirmed++
		} else {
			m.Pending++
		}
		if r.IsPaid() {
			m.Paid++
		}
		m.LanesBooked += r.Lanes
		m.People += r.People
		if r.IsBirthday() {
			m.Birthdays++
		}
		if r.TableReservation {
			m.TableReservations++
		}

		t := hhmm(r.Time)
		s, ok := slots[t]
		if !ok {
			s = &HourSlot{Time: t}
			slots[t] = s
		}
		s.Reservations++
		s.Lanes += r.Lanes
		s.People += r.People
	}

	for _, s := range slots {
		m.ByHour = append(m.ByHour, *s)
	}
	sort.Slice(m.ByHour, func(i, j int) bool { return m.ByHour[i].Time < m.ByHour[j].Time })
	return m
}

func hhmm(t string) string {
	if len(t) >= 5 && t[2] == ':' {
		return t[:5]
	}
	return t
}
