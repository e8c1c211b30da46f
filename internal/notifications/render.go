// Package notifications renders and dispatches budget-exceeded notices and
// keeps a log of every dispatch.
package notifications

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"finance-manager/internal/models"
)

// Subject is the subject line of every notification mail.
const Subject = "Budget Exceeded!"

const template = "Dear User,\n\n" +
	"We want to inform you that your total expense of **%s** has exceeded your budget of **%s** for **%s**.\n\n" +
	"Description of Last Expense: %s\n\n" +
	"Please review your expenses at your earliest convenience.\n\n" +
	"Best regards!"

// Render returns the notification text for ev.
func Render(ev models.BudgetExceeded) string {
	return fmt.Sprintf(template, FormatAmount(ev.Total), FormatAmount(ev.Cap), ev.Category, ev.Description)
}

// FormatAmount formats v with at least one decimal digit ("1200.0", "12.5").
// Very large and very small magnitudes use scientific notation ("1.0E7").
func FormatAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-3 || abs >= 1e7) {
		mant, exp, _ := strings.Cut(strconv.FormatFloat(v, 'E', -1, 64), "E")
		if !strings.Contains(mant, ".") {
			mant += ".0"
		}
		e, _ := strconv.Atoi(exp)
		return mant + "E" + strconv.Itoa(e)
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
