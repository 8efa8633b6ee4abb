package engine

import (
	"strconv"
	"time"

	"github.com/yll1325/TrivialDB/expression"
)

// formatValue renders a projection result for the CSV output stream:
// strings raw, ints decimal, floats default floating decimal, bools as
// TRUE/FALSE, dates via a fixed template, NULL as the literal NULL.
func formatValue(v expression.Value) string {
	switch v.Type {
	case expression.TermInt:
		return strconv.FormatInt(int64(v.I), 10)
	case expression.TermFloat:
		return strconv.FormatFloat(float64(v.F), 'g', -1, 32)
	case expression.TermString:
		return v.S
	case expression.TermBool:
		if v.B {
			return "TRUE"
		}
		return "FALSE"
	case expression.TermDate:
		return time.Unix(v.D, 0).UTC().Format("2006-01-02 15:04:05")
	default:
		return "NULL"
	}
}
