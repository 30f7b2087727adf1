package dca

import (
	"fmt"
	"strings"
)

// Market is the place an instrument is listed on. It decides how a user
// supplied symbol becomes a fully qualified ticker.
type Market int

const (
	Domestic      Market = iota // Taiwan stock exchanges, "tw"
	International               // US exchanges, "us"
	Crypto                      // crypto-currencies quoted in USD, "crypto"
)

// Markets lists all markets, in their canonical order.
var Markets = []Market{Domestic, International, Crypto}

func (m Market) String() string {
	switch m {
	case Domestic:
		return "tw"
	case International:
		return "us"
	case Crypto:
		return "crypto"
	default:
		panic(fmt.Sprintf("unknown market %d", m))
	}
}

// ParseMarket parses a market selector. The empty string is the Domestic market.
func ParseMarket(s string) (Market, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tw":
		return Domestic, nil
	case "us":
		return International, nil
	case "crypto":
		return Crypto, nil
	default:
		return Domestic, invalid("market", `must be one of "tw", "us" or "crypto"`, s)
	}
}

// Ticker returns the fully qualified ticker of symbol on this market.
//
//	Domestic.Ticker("2330")   == "2330.TW"
//	Domestic.Ticker("6488.two") == "6488.TWO"
//	Crypto.Ticker("btc")      == "BTC-USD"
//	International.Ticker("voo") == "VOO"
func (m Market) Ticker(symbol string) (string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return "", invalid("ticker", "is required", nil)
	}
	switch m {
	case Domestic:
		if !strings.HasSuffix(symbol, ".TW") && !strings.HasSuffix(symbol, ".TWO") {
			symbol += ".TW"
		}
	case Crypto:
		if !strings.HasSuffix(symbol, "-USD") {
			symbol += "-USD"
		}
	}
	return symbol, nil
}

// MarshalText implements encoding.TextMarshaler.
func (m Market) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Market) UnmarshalText(text []byte) error {
	v, err := ParseMarket(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
