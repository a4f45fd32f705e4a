package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"school-admin/models"
)

var turkishMonths = [...]string{
	"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
	"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
}

// ShortDate formats as DD.MM.YYYY.
func ShortDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// LongDateTime formats as "18 Ekim 2026 14:05".
func LongDateTime(t time.Time) string {
	return fmt.Sprintf("%d %s %d %02d:%02d", t.Day(), turkishMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

// Number formats with Turkish separators: 12.500 or 1.234,5.
func Number(v float64) string {
	negative := v < 0
	v = math.Abs(v)
	cents := int64(math.Round(v * 100))
	whole := cents / 100
	frac := cents % 100

	digits := strconv.FormatInt(whole, 10)
	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	if frac != 0 {
		f := fmt.Sprintf("%02d", frac)
		b.WriteByte(',')
		b.WriteString(strings.TrimRight(f, "0"))
	}
	return b.String()
}

func Money(v float64, symbol string) string {
	return Number(v) + " " + symbol
}

func levelLabels(levels []models.LanguageLevel) []string {
	out := make([]string, 0, len(levels))
	for _, l := range levels {
		out = append(out, l.Label())
	}
	return out
}
