package ingestion

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var integerFields = map[string]bool{
	"period_id": true,
	"year":      true,
	"periods":   true,
}

var decimalFields = map[string]bool{
	"component_quantity":               true,
	"component_base_quantity":          true,
	"component_unit_weight":            true,
	"percent_w_w":                      true,
	"percent_mechanical_pcr_content":   true,
	"percent_mechanical_pir_content":   true,
	"percent_chemical_recycled_content": true,
	"percent_bio_sourced":              true,
}

var dateFields = map[string]bool{
	"created_date":         true,
	"last_update_date":     true,
	"component_valid_from": true,
	"component_valid_to":   true,
	"signed_off_date":      true,
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Coerce maps a raw extracted field value to its database type, keyed by
// field name. Unparseable numerics become nil, except "version" which
// defaults to 1 (kept from the source system on purpose). Unlisted fields
// pass through as trimmed strings with empty normalized to nil.
func Coerce(fieldName string, raw interface{}) interface{} {
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(fmt.Sprint(raw))
	if s == "" {
		return nil
	}

	switch {
	case fieldName == "version":
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 1
		}
		return int(math.Floor(f))

	case integerFields[fieldName]:
		if i, err := strconv.Atoi(s); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f)
		}
		return nil

	case decimalFields[fieldName]:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return f

	case fieldName == "is_active":
		return s == "true" || s == "1"

	case dateFields[fieldName]:
		if t, ok := parseDate(s); ok {
			return t
		}
		return nil

	default:
		return s
	}
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
