package notify

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

var weekdaysPT = [...]string{"domingo", "segunda-feira", "terça-feira", "quarta-feira", "quinta-feira", "sexta-feira", "sábado"}

// FormatBRL formata centavos como "R$ 1.234,56"
func FormatBRL(cents int64) string {
	return brPrinter.Sprintf("R$ %.2f", float64(cents)/100)
}

// FormatDate converte "2026-10-25" em "25/10/2026"; valores fora do padrão voltam como vieram
func FormatDate(isoDate string) string {
	d, err := parseDate(isoDate)
	if err != nil {
		return isoDate
	}
	return d.Format("02/01/2006")
}

// Weekday devolve o dia da semana em português, ou "" se a data for inválida
func Weekday(isoDate string) string {
	d, err := parseDate(isoDate)
	if err != nil {
		return ""
	}
	return weekdaysPT[d.Weekday()]
}

// FormatTime corta os segundos de "20:00:00"
func FormatTime(t string) string {
	t = strings.TrimSpace(t)
	if len(t) >= 5 && t[2] == ':' {
		return t[:5]
	}
	return t
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		s = s[:10]
	}
	return time.Parse("2006-01-02", s)
}
