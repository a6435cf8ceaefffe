package engine

import (
	"testing"

	"github.com/example/guriri-dispatch/internal/models"
)

func TestShouldAutoAccept(t *testing.T) {
	cases := []struct {
		name   string
		fee    string
		std    string
		online bool
		want   bool
	}{
		{"generous fee offline", "15", "10", false, true},
		{"generous fee online", "15", "10", true, true},
		{"standard fee online", "10", "10", true, true},
		{"standard fee offline", "10", "10", false, false},
		{"below standard online", "9.99", "10", true, false},
		{"unparseable fee treated as zero", "abc", "10", true, false},
	}
	for _, c := range cases {
		order := models.Order{CourierFee: c.fee}
		mb := models.Motoboy{StandardFee: c.std, Online: c.online}
		if got := ShouldAutoAccept(order, mb); got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}
