// Package money parses and formats the monthly cost values stored with each
// subscription. All amounts are in a single currency (BRL).
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency is the only currency amounts are recorded in.
var Currency = currency.BRL

// Places is the number of fractional digits kept for amounts.
const Places = 2

var (
	// ErrEmpty reports a blank amount.
	ErrEmpty = errors.New("amount is empty")
	// ErrInvalid reports an amount that is not a plain decimal number.
	ErrInvalid = errors.New("amount is not a number")
)

// Parse reads a user-entered amount without rounding. Both "." and "," are
// accepted as the decimal separator; when both appear, the last one is the
// decimal separator and the other is grouping.
func Parse(raw string) (decimal.Decimal, error) {
	value := strings.TrimSpace(raw)
	value = strings.TrimPrefix(value, "R$")
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, ErrEmpty
	}

	negative := false
	if strings.HasPrefix(value, "-") {
		negative = true
		value = value[1:]
		if value == "" {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalid, raw)
		}
	}
	for _, r := range value {
		if (r < '0' || r > '9') && r != '.' && r != ',' {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalid, raw)
		}
	}

	normalized, err := normalizeSeparators(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", err, raw)
	}
	if negative {
		normalized = "-" + normalized
	}
	amount, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalid, raw)
	}
	return amount, nil
}

func normalizeSeparators(value string) (string, error) {
	lastDot := strings.LastIndex(value, ".")
	lastComma := strings.LastIndex(value, ",")

	var decimalSep, groupSep string
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastDot > lastComma {
			decimalSep, groupSep = ".", ","
		} else {
			decimalSep, groupSep = ",", "."
		}
	case lastComma >= 0:
		if strings.Count(value, ",") > 1 {
			groupSep = ","
		} else {
			decimalSep = ","
		}
	case lastDot >= 0:
		if strings.Count(value, ".") > 1 {
			groupSep = "."
		} else {
			decimalSep = "."
		}
	}

	intPart, fracPart := value, ""
	if decimalSep != "" {
		idx := strings.LastIndex(value, decimalSep)
		intPart, fracPart = value[:idx], value[idx+1:]
		if strings.Contains(fracPart, ".") || strings.Contains(fracPart, ",") {
			return "", ErrInvalid
		}
	}
	if groupSep != "" {
		groups := strings.Split(intPart, groupSep)
		for i, group := range groups {
			if i == 0 && (len(group) < 1 || len(group) > 3) {
				return "", ErrInvalid
			}
			if i > 0 && len(group) != 3 {
				return "", ErrInvalid
			}
		}
		intPart = strings.Join(groups, "")
	}
	if strings.ContainsAny(intPart, ".,") {
		return "", ErrInvalid
	}
	if intPart == "" {
		intPart = "0"
	}
	if fracPart == "" {
		if decimalSep != "" {
			return "", ErrInvalid
		}
		return intPart, nil
	}
	return intPart + "." + fracPart, nil
}

// Format renders d as a [Currency] amount using the number conventions of
// tag, e.g. "R$ 1,239.90" for en-US and "R$ 1.239,90" for pt-BR.
func Format(tag language.Tag, d decimal.Decimal) string {
	p := message.NewPrinter(tag)
	amount := d.Round(Places)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	return sign + p.Sprint(currency.Symbol(Currency)) + " " +
		p.Sprint(number.Decimal(amount.InexactFloat64(), number.Scale(Places)))
}

// Input renders d the way forms echo it back: plain digits with a "." decimal.
func Input(d decimal.Decimal) string {
	return d.StringFixed(Places)
}
