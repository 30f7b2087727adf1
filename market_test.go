package dca

import (
	"errors"
	"testing"
)

func TestMarket_Ticker(t *testing.T) {
	testCases := []struct {
		market Market
		symbol string
		want   string
	}{
		{Domestic, "2330", "2330.TW"},
		{Domestic, " 0050 ", "0050.TW"},
		{Domestic, "2330.TW", "2330.TW"},
		{Domestic, "6488.two", "6488.TWO"},
		{International, "voo", "VOO"},
		{International, "BRK-B", "BRK-B"},
		{Crypto, "btc", "BTC-USD"},
		{Crypto, "ETH-USD", "ETH-USD"},
	}
	for _, tc := range testCases {
		got, err := tc.market.Ticker(tc.symbol)
		if err != nil {
			t.Errorf("%v.Ticker(%q) error = %v", tc.market, tc.symbol, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%v.Ticker(%q) = %q want %q", tc.market, tc.symbol, got, tc.want)
		}
	}

	if _, err := Domestic.Ticker("  "); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Ticker(\"  \") error = %v want %v", err, ErrInvalidInput)
	}
}

func TestParseMarket(t *testing.T) {
	testCases := []struct {
		in      string
		want    Market
		wantErr bool
	}{
		{"", Domestic, false},
		{"tw", Domestic, false},
		{"US", International, false},
		{"crypto", Crypto, false},
		{"jp", Domestic, true},
	}
	for _, tc := range testCases {
		got, err := ParseMarket(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseMarket(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseMarket(%q) = %v want %v", tc.in, got, tc.want)
		}
	}
	for _, m := range Markets {
		if got, _ := ParseMarket(m.String()); got != m {
			t.Errorf("ParseMarket(%q) = %v want %v", m.String(), got, m)
		}
	}
}

func TestMarket_Text(t *testing.T) {
	for _, m := range Markets {
		text, err := m.MarshalText()
		if err != nil {
			t.Fatalf("%v.MarshalText() unexpected error: %v", m, err)
		}
		var got Market
		if err := got.UnmarshalText(text); err != nil || got != m {
			t.Errorf("UnmarshalText(%q) = %v, %v want %v", text, got, err, m)
		}
	}
	var m Market
	if err := m.UnmarshalText([]byte("mars")); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("UnmarshalText(mars) error = %v want %v", err, ErrInvalidInput)
	}
}
