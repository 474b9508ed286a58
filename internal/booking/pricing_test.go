package booking

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestQuote(t *testing.T) {
	tests := []struct {
		name string
		in   PriceInput
		want string
	}{
		{
			name: "adults only",
			in: PriceInput{
				Base:         d("45.00"),
				Participants: Participants{Adults: 2},
			},
			want: "90.00",
		},
		{
			name: "children at factor, infants free",
			in: PriceInput{
				Base:         d("100.00"),
				ChildFactor:  d("0.7"),
				InfantFactor: d("0"),
				Participants: Participants{Adults: 2, Children: 1, Infants: 1},
			},
			want: "270.00", // 2*100 + 0.7*100 + 0
		},
		{
			name: "per-seat surcharge skips infants",
			in: PriceInput{
				Base:         d("25.00"),
				ChildFactor:  d("1"),
				Participants: Participants{Adults: 1, Children: 1, Infants: 1},
				Surcharge:    d("5.00"),
			},
			want: "60.00", // 25 + 25 + 2*5
		},
		{
			name: "round trip doubles and discounts the leg",
			in: PriceInput{
				Base:            d("25.00"),
				Participants:    Participants{Adults: 2},
				RoundTrip:       true,
				RoundTripFactor: d("0.9"),
			},
			want: "90.00", // 50 * 2 * 0.9
		},
		{
			name: "options are flat and never discounted",
			in: PriceInput{
				Base:            d("25.00"),
				Participants:    Participants{Adults: 1},
				RoundTrip:       true,
				RoundTripFactor: d("0.9"),
				Options:         []decimal.Decimal{d("7.00"), d("3.50")},
			},
			want: "55.50", // 25*2*0.9 + 7 + 3.5
		},
		{
			name: "result rounded to two decimals",
			in: PriceInput{
				Base:         d("33.33"),
				ChildFactor:  d("0.33"),
				Participants: Participants{Adults: 1, Children: 1},
			},
			want: "44.33", // 33.33 + 10.9989 -> 44.3289
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Quote(tt.in)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestTransferSurcharge(t *testing.T) {
	early, night := d("5.00"), d("8.00")
	tests := []struct {
		pickup string
		want   decimal.Decimal
	}{
		{"05:59", early},
		{"00:15", early},
		{"06:00", decimal.Zero},
		{"14:30", decimal.Zero},
		{"21:59", decimal.Zero},
		{"22:00", night},
		{"23:45", night},
		{"not-a-time", decimal.Zero},
		{"", decimal.Zero},
	}
	for _, tt := range tests {
		t.Run(tt.pickup, func(t *testing.T) {
			assert.True(t, tt.want.Equal(TransferSurcharge(tt.pickup, early, night)),
				"pickup %q", tt.pickup)
		})
	}
}

func TestParticipantsSeats(t *testing.T) {
	p := Participants{Adults: 2, Children: 1, Infants: 3}
	assert.Equal(t, uint32(3), p.Seats())
	assert.Equal(t, uint32(6), p.Total())
}
