// Package format renders raw calculation results as display strings.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	// RupeeSymbol prefixes INR amounts.
	RupeeSymbol = "₹"

	lakh  = 1e5
	crore = 1e7
)

var (
	indianPrinter = message.NewPrinter(language.MustParse("en-IN"))
	// Pinned so the lakh grouping does not depend on the CLDR tables.
	indianPattern = number.PatternOverrides(map[string]string{"en-IN": "#,##,##0"})
)

// INR returns a whole-rupee amount using Indian digit grouping, e.g. "₹5,00,000".
func INR(amount float64) string {
	return signed(amount, RupeeSymbol+IndianGrouping(math.Abs(amount), 0))
}

// INRWithPaise is INR with two decimal places, e.g. "₹16,251.22".
func INRWithPaise(amount float64) string {
	return signed(amount, RupeeSymbol+IndianGrouping(math.Abs(amount), 2))
}

// Compact abbreviates large amounts into lakhs and crores, e.g. "₹5.00 L" or
// "₹1.36 Cr". Amounts under one lakh are rendered with INR.
func Compact(amount float64) string {
	abs := math.Abs(amount)
	switch {
	case !isFinite(amount):
		return INR(0)
	case abs >= crore:
		return signed(amount, fmt.Sprintf("%s%s Cr", RupeeSymbol, fixed(abs/crore, 2)))
	case abs >= lakh:
		return signed(amount, fmt.Sprintf("%s%s L", RupeeSymbol, fixed(abs/lakh, 2)))
	default:
		return INR(amount)
	}
}

// IndianGrouping formats a non-negative value with the given number of
// decimals, grouping the last three integer digits and then pairs, e.g.
// 1234567.891 with 2 decimals gives "12,34,567.89". Rounding is half away from
// zero on the decimal representation, so 0.125 becomes 0.13.
func IndianGrouping(value float64, decimals int) string {
	if !isFinite(value) {
		value = 0
	}
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}

	formatted := fixed(value, decimals)
	intPart, fracPart, _ := strings.Cut(formatted, ".")
	if whole, err := strconv.ParseInt(intPart, 10, 64); err == nil {
		intPart = indianPrinter.Sprint(number.Decimal(whole, indianPattern))
	}

	if fracPart == "" {
		return sign + intPart
	}
	return sign + intPart + "." + fracPart
}

// Percent renders a rate such as 10.5 as "10.50%".
func Percent(rate float64) string {
	return fixed(rate, 2) + "%"
}

// Tenure renders a term in months as years and months, e.g. "3 yrs", "1 yr 6 mo".
func Tenure(months int) string {
	if months <= 0 {
		return "0 mo"
	}
	years, rest := months/12, months%12
	var parts []string
	switch {
	case years == 1:
		parts = append(parts, "1 yr")
	case years > 1:
		parts = append(parts, fmt.Sprintf("%d yrs", years))
	}
	if rest > 0 {
		parts = append(parts, fmt.Sprintf("%d mo", rest))
	}
	return strings.Join(parts, " ")
}

func fixed(value float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return decimal.NewFromFloat(value).StringFixed(int32(decimals))
}

func signed(amount float64, formatted string) string {
	// Only prefix a sign when the rounded figure is non-zero.
	if amount < 0 && strings.ContainsAny(formatted, "123456789") {
		return "-" + formatted
	}
	return formatted
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
