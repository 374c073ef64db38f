package reports

import (
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var frMonths = [12]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

var upperFR = cases.Upper(language.French)

// FrenchMonthYear "AOÛT 2026": mes y año en francés, en mayúsculas con las
// reglas de caja del idioma (acentos preservados).
func FrenchMonthYear(t time.Time) string {
	return upperFR.String(fmt.Sprintf("%s %d", frMonths[t.Month()-1], t.Year()))
}

// FrenchDate "28/08/2026".
func FrenchDate(t time.Time) string {
	return t.Format("02/01/2006")
}
