package reservation

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Price guarda total_value em centavos. A coluna chega como numérico ou como
// texto formatado no padrão brasileiro ("199,90", "R$ 1.234,56").
type Price struct {
	Cents int64
	Valid bool
}

// ParsePrice normaliza número ou texto com vírgula decimal para centavos
func ParsePrice(raw string) (Price, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if s == "" {
		return Price{}, fmt.Errorf("%w: empty value", ErrInvalidPrice)
	}
	if strings.Contains(s, ",") {
		// vírgula é o separador decimal; pontos são milhar
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Price{}, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	return checkedPrice(f)
}

// MaxReais limita o valor aceito; acima disso a conversão para centavos não é confiável
const MaxReais = 1e9

// PriceFromFloat devolve um Price inválido (Valid=false) fora de ±MaxReais
func PriceFromFloat(f float64) Price {
	p, err := checkedPrice(f)
	if err != nil {
		return Price{}
	}
	return p
}

func checkedPrice(f float64) (Price, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > MaxReais {
		return Price{}, fmt.Errorf("%w: %v out of range", ErrInvalidPrice, f)
	}
	return Price{Cents: int64(math.Round(f * 100)), Valid: true}, nil
}

// Float devolve o valor em reais, como o provedor espera em unit_price
func (p Price) Float() float64 {
	return float64(p.Cents) / 100
}

// Positive valida o preço antes de montar a preferência
func (p Price) Positive() (Price, error) {
	if !p.Valid || p.Cents <= 0 {
		return p, fmt.Errorf("%w: must be greater than zero", ErrInvalidPrice)
	}
	return p, nil
}

func (p *Price) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*p = Price{}
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		parsed, err := ParsePrice(str)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPrice, s)
	}
	parsed, err := checkedPrice(f)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Float())
}

// Scan aceita numeric (vem como []byte), text, float e int do driver
func (p *Price) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = Price{}
		return nil
	case []byte:
		parsed, err := ParsePrice(string(v))
		if err != nil {
			return err
		}
		*p = parsed
	case string:
		parsed, err := ParsePrice(v)
		if err != nil {
			return err
		}
		*p = parsed
	case float64:
		parsed, err := checkedPrice(v)
		if err != nil {
			return err
		}
		*p = parsed
	case int64:
		parsed, err := checkedPrice(float64(v))
		if err != nil {
			return err
		}
		*p = parsed
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidPrice, src)
	}
	return nil
}

func (p Price) Value() (driver.Value, error) {
	if !p.Valid {
		return nil, nil
	}
	return strconv.FormatFloat(p.Float(), 'f', 2, 64), nil
}
