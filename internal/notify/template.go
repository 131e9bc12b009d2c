package notify

import (
	"sort"
	"strings"
)

// Common template fields available to tenant-configurable templates. Missing
// values for these fields render as the empty string rather than leaving the
// literal token behind.
const (
	FieldName         = "name"
	FieldBusiness     = "business"
	FieldBusinessName = "business_name"
	FieldBooking      = "booking"
	FieldBookingLink  = "booking_link"
	FieldReviewLink   = "review_link"
)

var commonFields = []string{
	FieldName,
	FieldBusiness,
	FieldBusinessName,
	FieldBooking,
	FieldBookingLink,
	FieldReviewLink,
}

// Render substitutes named placeholders into a message template.
//
// The canonical placeholder syntax is double-brace ({{name}}), but tenants
// have entered single-brace ({name}) tokens in their templates for years, so
// both are resolved. Substitution is a single left-to-right scan of the
// template: field values are never re-scanned, so a customer-supplied value
// that happens to contain a token is emitted literally. Double-brace patterns
// are listed first so a {{name}} token is never half-consumed as {name}.
// Placeholders that are neither a common field nor present in fields are left
// as-is; unresolved tokens are a tenant data-quality issue, not a system
// fault.
func Render(template string, fields map[string]string) string {
	if template == "" {
		return template
	}

	resolved := make(map[string]string, len(fields)+len(commonFields))
	for _, f := range commonFields {
		resolved[f] = ""
	}
	for k, v := range fields {
		resolved[k] = v
	}

	keys := make([]string, 0, len(resolved))
	keys = append(keys, commonFields...)
	for k := range fields {
		if !isCommonField(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys[len(commonFields):])

	pairs := make([]string, 0, 4*len(keys))
	for _, k := range keys {
		pairs = append(pairs, "{{"+k+"}}", resolved[k])
	}
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", resolved[k])
	}

	return strings.NewReplacer(pairs...).Replace(template)
}

func isCommonField(k string) bool {
	for _, f := range commonFields {
		if f == k {
			return true
		}
	}
	return false
}

// SelectTemplate returns the tenant template when present and non-empty,
// falling back to the built-in default for that notification kind.
func SelectTemplate(tenantTemplate, defaultTemplate string) string {
	if strings.TrimSpace(tenantTemplate) != "" {
		return tenantTemplate
	}
	return defaultTemplate
}
