package repo

import (
	"errors"
	"testing"

	"github.com/radieske/boliche-reservas-poc/internal/reservation"
)

func TestSingletonToken(t *testing.T) {
	cases := []struct {
		name    string
		rows    []string
		want    string
		wantErr bool
	}{
		{"no rows", nil, "", true},
		{"one row", []string{" APP_USR-123 "}, "APP_USR-123", false},
		{"empty token", []string{"   "}, "", true},
		{"two rows", []string{"a", "b"}, "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := singletonToken(tc.rows)
			if tc.wantErr {
				if !errors.Is(err, reservation.ErrConfiguration) {
					t.Fatalf("expected ErrConfiguration, got %v", err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("expected %q, got %q err=%v", tc.want, got, err)
			}
		})
	}
}
