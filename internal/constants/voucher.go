package constants

type VoucherType int
type VoucherStatus int

const (
	VoucherTypeUnknown VoucherType = iota
	VoucherTypePercentage
	VoucherTypeFixedAmount
)

const (
	VoucherStatusUnknown VoucherStatus = iota
	VoucherStatusActive
	VoucherStatusUsed
	VoucherStatusExpired
	VoucherStatusInactive
)

func (t VoucherType) String() string {
	switch t {
	case VoucherTypePercentage:
		return "PERCENTAGE"
	case VoucherTypeFixedAmount:
		return "FIXED_AMOUNT"
	default:
		return "UNKNOWN"
	}
}

var voucherTypeMap = map[string]VoucherType{
	"PERCENTAGE":   VoucherTypePercentage,
	"FIXED_AMOUNT": VoucherTypeFixedAmount,
	"UNKNOWN":      VoucherTypeUnknown,
}

func ParseVoucherType(s string) VoucherType {
	if t, ok := voucherTypeMap[s]; ok {
		return t
	}
	return VoucherTypeUnknown
}

func (s VoucherStatus) String() string {
	switch s {
	case VoucherStatusActive:
		return "ACTIVE"
	case VoucherStatusUsed:
		return "USED"
	case VoucherStatusExpired:
		return "EXPIRED"
	case VoucherStatusInactive:
		return "INACTIVE"
	default:
		return "UNKNOWN"
	}
}

var voucherStatusMap = map[string]VoucherStatus{
	"ACTIVE":   VoucherStatusActive,
	"USED":     VoucherStatusUsed,
	"EXPIRED":  VoucherStatusExpired,
	"INACTIVE": VoucherStatusInactive,
	"UNKNOWN":  VoucherStatusUnknown,
}

func ParseVoucherStatus(s string) VoucherStatus {
	if status, ok := voucherStatusMap[s]; ok {
		return status
	}
	return VoucherStatusUnknown
}
