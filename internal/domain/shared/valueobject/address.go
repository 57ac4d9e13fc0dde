package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultCountry is the ISO country code assumed when none is given
const DefaultCountry = "FR"

// Address is a postal address block (billing, shipping, property).
// It is persisted as a JSON column.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	Region     string `json:"region,omitempty"`
	Country    string `json:"country"`
}

// NewAddress trims every field, defaults the country and validates lengths
func NewAddress(line1, line2, postalCode, city, country string) (Address, error) {
	addr := Address{
		Line1:      strings.TrimSpace(line1),
		Line2:      strings.TrimSpace(line2),
		PostalCode: strings.TrimSpace(postalCode),
		City:       strings.TrimSpace(city),
		Country:    strings.ToUpper(strings.TrimSpace(country)),
	}
	if addr.Country == "" {
		addr.Country = DefaultCountry
	}
	if err := addr.Validate(); err != nil {
		return Address{}, err
	}
	return addr, nil
}

// Validate checks field lengths. An entirely empty address is valid.
func (a Address) Validate() error {
	if a.IsEmpty() {
		return nil
	}
	if a.Line1 == "" {
		return fmt.Errorf("address line1 is required")
	}
	if len(a.Line1) > 200 || len(a.Line2) > 200 {
		return fmt.Errorf("address lines cannot exceed 200 characters")
	}
	if len(a.PostalCode) > 20 {
		return fmt.Errorf("postal code cannot exceed 20 characters")
	}
	if len(a.City) > 100 {
		return fmt.Errorf("city cannot exceed 100 characters")
	}
	if len(a.Country) > 2 {
		return fmt.Errorf("country must be an ISO 3166-1 alpha-2 code")
	}
	return nil
}

// IsEmpty reports whether no address line has been set
func (a Address) IsEmpty() bool {
	return a.Line1 == "" && a.Line2 == "" && a.PostalCode == "" && a.City == ""
}

// String formats the address on a single line
func (a Address) String() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Line1, a.Line2, strings.TrimSpace(a.PostalCode + " " + a.City), a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Value implements driver.Valuer
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}
	if len(data) == 0 {
		*a = Address{}
		return nil
	}
	return json.Unmarshal(data, a)
}
