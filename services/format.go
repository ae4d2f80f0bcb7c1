package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// CurrencyType selects the symbol and digit grouping used to display money.
// It never affects the totals math.
type CurrencyType string

const (
	CurrencyINR CurrencyType = "INR"
	CurrencyUSD CurrencyType = "USD"
	CurrencyEUR CurrencyType = "EUR"
)

// CurrencyOptions is the ordered list offered by the currency select.
var CurrencyOptions = []CurrencyType{CurrencyINR, CurrencyUSD, CurrencyEUR}

// Symbol returns the display symbol for the currency.
func (c CurrencyType) Symbol() string {
	switch c {
	case CurrencyUSD:
		return "$"
	case CurrencyEUR:
		return "€"
	default:
		return "₹"
	}
}

// ParseCurrencyType maps a form value to a currency, defaulting to INR.
func ParseCurrencyType(s string) CurrencyType {
	switch CurrencyType(strings.ToUpper(strings.TrimSpace(s))) {
	case CurrencyUSD:
		return CurrencyUSD
	case CurrencyEUR:
		return CurrencyEUR
	default:
		return CurrencyINR
	}
}

// FormatMoney rounds to 2 decimals and formats with the currency symbol.
// INR uses Indian grouping; USD and EUR use groups of three.
func FormatMoney(currency CurrencyType, amount float64) string {
	if currency == CurrencyINR || currency == "" {
		return FormatINR(amount)
	}
	amount = RoundMoney(amount)
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + currency.Symbol() + humanize.FormatFloat("#,###.##", amount)
}

// FormatINR formats rupees with Indian digit grouping and two decimals,
// e.g. ₹1,23,45,678.90. Amounts that round to zero never carry a sign.
func FormatINR(amount float64) string {
	s := strconv.FormatFloat(math.Abs(amount), 'f', 2, 64)
	whole, frac, _ := strings.Cut(s, ".")
	out := "₹" + applyIndianGrouping(whole) + "." + frac
	if amount < 0 && s != "0.00" {
		return "-" + out
	}
	return out
}

// applyIndianGrouping separates the last three digits, then pairs:
// 12345678 -> 1,23,45,678.
func applyIndianGrouping(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, groups := digits[:len(digits)-3], []string{digits[len(digits)-3:]}
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	return strings.Join(append([]string{head}, groups...), ",")
}

var indianScales = []struct {
	size int64
	name string
}{
	{10000000, "Crores"},
	{100000, "Lakhs"},
	{1000, "Thousand"},
	{100, "Hundred"},
}

// AmountToWords spells a rupee amount, rounded to whole rupees, for the
// "amount in words" line of a proforma invoice:
// 913183 -> "Nine Lakhs Thirteen Thousand One Hundred and Eighty Three Rupees Only/-".
func AmountToWords(amount float64) string {
	if amount < 0 {
		return "Negative " + AmountToWords(-amount)
	}
	rupees := int64(math.Round(amount))
	if rupees == 0 {
		return "Zero Rupees Only/-"
	}
	return indianWords(rupees) + " Rupees Only/-"
}

func indianWords(n int64) string {
	var parts []string
	for _, scale := range indianScales {
		if n < scale.size {
			continue
		}
		parts = append(parts, indianWords(n/scale.size)+" "+scale.name)
		n %= scale.size
	}
	if n > 0 {
		w := wordsUnder100(n)
		if len(parts) > 0 {
			w = "and " + w
		}
		parts = append(parts, w)
	}
	return strings.Join(parts, " ")
}

var smallNumbers = [...]string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var decades = [...]string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

func wordsUnder100(n int64) string {
	if n < 20 {
		return smallNumbers[n]
	}
	if n%10 == 0 {
		return decades[n/10]
	}
	return decades[n/10] + " " + smallNumbers[n%10]
}
