package domain

type PayStatus string

const (
	PayStatusPending  PayStatus = "pending"
	PayStatusWaiting  PayStatus = "waiting"
	PayStatusComplete PayStatus = "complete"
)

func ParsePayStatus(s string) (PayStatus, bool) {
	switch PayStatus(s) {
	case PayStatusPending, PayStatusWaiting, PayStatusComplete:
		return PayStatus(s), true
	default:
		return "", false
	}
}
