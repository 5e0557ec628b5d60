package model

type CustomerType string

const (
	CustomerGuest     CustomerType = "guest"
	CustomerRetail    CustomerType = "retail"
	CustomerWholesale CustomerType = "wholesale"
	CustomerVIP       CustomerType = "vip"
)

var CustomerTypes = []CustomerType{CustomerGuest, CustomerRetail, CustomerWholesale, CustomerVIP}

func (t CustomerType) Valid() bool {
	for _, ct := range CustomerTypes {
		if t == ct {
			return true
		}
	}
	return false
}

type Customer struct {
	ID           string       `json:"id,omitempty"`
	Name         string       `json:"name,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	CustomerType CustomerType `json:"customerType"`
}

// DiscountTable maps a customer type to its discount percentage.
type DiscountTable map[CustomerType]float64
