package render

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.Indonesian)

// Rupiah formats d as "Rp 12.500" with id-ID grouping and up to three
// fraction digits.
func Rupiah(d decimal.Decimal) string {
	return "Rp " + Number(d)
}

// Number formats d with id-ID grouping, e.g. "12.500,5".
func Number(d decimal.Decimal) string {
	return printer.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(3)))
}

type compactUnit struct {
	size   float64
	suffix string
}

var compactUnits = []compactUnit{
	{1e12, "T"},
	{1e9, "M"},
	{1e6, "jt"},
	{1e3, "rb"},
}

// Compact renders v in short id-ID notation: 12000 is "12 rb", 1200000 is
// "1,2 jt". Scaled values below ten keep one fraction digit.
func Compact(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	for _, unit := range compactUnits {
		if v < unit.size {
			continue
		}
		scaled := v / unit.size
		digits := 0
		if scaled < 10 {
			digits = 1
		}
		return sign + printer.Sprint(number.Decimal(scaled, number.MaxFractionDigits(digits))) + " " + unit.suffix
	}
	return sign + printer.Sprint(number.Decimal(v, number.MaxFractionDigits(0)))
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	return strings.ReplaceAll(cleaned, "\r", " ")
}
