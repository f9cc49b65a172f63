package utils

// DefaultVATRate is the standard Czech VAT rate applied to restaurant sales.
const DefaultVATRate = 0.21

// VATBreakdown splits a gross amount into its net and tax portions.
type VATBreakdown struct {
	WithVAT    float64 `json:"withVAT"`
	WithoutVAT float64 `json:"withoutVAT"`
	VATAmount  float64 `json:"vatAmount"`
}

// CalculateVAT computes the VAT breakdown for a gross amount at the given
// rate. A rate of 0.21 means 21%.
func CalculateVAT(amount, rate float64) VATBreakdown {
	vatAmount := amount * rate
	return VATBreakdown{
		WithVAT:    amount,
		WithoutVAT: amount - vatAmount,
		VATAmount:  vatAmount,
	}
}
