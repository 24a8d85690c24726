package constants

type PaymentMethod int

const (
	PaymentMethodUnknown PaymentMethod = iota
	PaymentMethodCash
	PaymentMethodCard
	PaymentMethodBanking
)

func (m PaymentMethod) String() string {
	switch m {
	case PaymentMethodCash:
		return "CASH"
	case PaymentMethodCard:
		return "CARD"
	case PaymentMethodBanking:
		return "BANKING"
	default:
		return "UNKNOWN"
	}
}

var paymentMethodMap = map[string]PaymentMethod{
	"CASH":    PaymentMethodCash,
	"CARD":    PaymentMethodCard,
	"BANKING": PaymentMethodBanking,
	"UNKNOWN": PaymentMethodUnknown,
}

func ParsePaymentMethod(s string) PaymentMethod {
	if method, ok := paymentMethodMap[s]; ok {
		return method
	}
	return PaymentMethodUnknown
}

// IsOnline reports whether the method settles through the payment gateway.
// CASH bills are treated as settled at creation time.
func (m PaymentMethod) IsOnline() bool {
	return m == PaymentMethodCard || m == PaymentMethodBanking
}
