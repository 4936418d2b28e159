package notify

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/radieske/boliche-reservas-poc/internal/reservation"
)

type emailView struct {
	ClientName     string
	Date           string
	Weekday        string
	Time           string
	Lanes          int
	People         int
	EventType      string
	Total          string
	Birthday       bool
	BirthdayPerson string
	Table          bool
	TableSeats     int
	Observations   string
}

var emailTmpl = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<body style="font-family: Arial, sans-serif; color: #222;">
  <h1>Reserva confirmada!</h1>
  <p>Olá, {{.ClientName}}! Recebemos o seu pagamento e a sua reserva está confirmada.</p>
  <table cellpadding="4">
    <tr><td><strong>Data:</strong></td><td>{{.Date}}{{if .Weekday}} ({{.Weekday}}){{end}}</td></tr>
    <tr><td><strong>Horário:</strong></td><td>{{.Time}}</td></tr>
    <tr><td><strong>Pistas:</strong></td><td>{{.Lanes}}</td></tr>
    <tr><td><strong>Pessoas:</strong></td><td>{{.People}}</td></tr>
    <tr><td><strong>Tipo de evento:</strong></td><td>{{.EventType}}</td></tr>
    <tr><td><strong>Valor pago:</strong></td><td>{{.Total}}</td></tr>
  </table>
{{if .Birthday}}
  <div class="birthday">
    <h2>🎂 Festa de aniversário</h2>
    <p>Vamos preparar tudo para comemorar{{if .BirthdayPerson}} o aniversário de <strong>{{.BirthdayPerson}}</strong>{{end}}! Chegue com 15 minutos de antecedência para organizarmos a recepção.</p>
  </div>
{{else}}
  <div class="standard">
    <p>Chegue com 15 minutos de antecedência para retirar os sapatos e liberar a pista.</p>
  </div>
{{end}}
{{if .Table}}
  <div class="table">
    <h2>Reserva de mesa</h2>
    <p>Sua mesa está reservada{{if gt .TableSeats 0}} para {{.TableSeats}} pessoas{{end}}.</p>
  </div>
{{end}}
{{if .Observations}}
  <div class="observations">
    <h2>Observações</h2>
    <p>{{.Observations}}</p>
  </div>
{{end}}
  <p>Até breve!</p>
</body>
</html>
`))

// Subject usa a data no formato brasileiro
func Subject(r reservation.Reservation) string {
	return "Reserva confirmada - " + FormatDate(r.Date)
}

// RenderHTML monta o corpo do email; o html/template escapa os campos livres
func RenderHTML(r reservation.Reservation, clientName string) (string, error) {
	name := strings.TrimSpace(clientName)
	if name == "" {
		name = strings.TrimSpace(r.ClientName)
	}
	if name == "" {
		name = "cliente"
	}
	v := emailView{
		ClientName:     name,
		Date:           FormatDate(r.Date),
		Weekday:        Weekday(r.Date),
		Time:           FormatTime(r.Time),
		Lanes:          r.Lanes,
		People:         r.People,
		EventType:      r.EventType,
		Total:          FormatBRL(r.TotalValue.Cents),
		Birthday:       r.IsBirthday(),
		BirthdayPerson: strings.TrimSpace(r.BirthdayPerson),
		Table:          r.TableReservation,
		TableSeats:     r.TableSeats,
		Observations:   strings.TrimSpace(r.Observations),
	}
	var buf bytes.Buffer
	if err := emailTmpl.Execute(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}
