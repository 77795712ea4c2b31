package order

import "strings"

// Candidate keys clients have been observed to send for the street line and
// the postal code, in priority order.
var (
	streetLineKeys = []string{"address_line", "address_line1", "address1", "address", "street", "line1"}
	postalCodeKeys = []string{"postal_code", "pincode", "pin", "zip"}
)

// BuildAddressText collapses a loosely-keyed address object into the one-line
// snapshot stored on the order: first non-empty street candidate, city,
// state, first non-empty postal candidate, country, joined with ", ".
func BuildAddressText(addr map[string]string) string {
	if len(addr) == 0 {
		return ""
	}

	pick := func(keys []string) string {
		for _, k := range keys {
			if v := strings.TrimSpace(addr[k]); v != "" {
				return v
			}
		}
		return ""
	}

	candidates := []string{
		pick(streetLineKeys),
		strings.TrimSpace(addr["city"]),
		strings.TrimSpace(addr["state"]),
		pick(postalCodeKeys),
		strings.TrimSpace(addr["country"]),
	}

	var parts []string
	for _, c := range candidates {
		if c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, ", ")
}
