package enums

import "fmt"

// MoneyEventType maps to the money_event_type_enum enum in Postgres.
type MoneyEventType string

const (
	MoneyEventTypeCreditPurchase   MoneyEventType = "credit_purchase"
	MoneyEventTypeCreditSpend      MoneyEventType = "credit_spend"
	MoneyEventTypeAuctionWinCredit MoneyEventType = "auction_win_credit"
	MoneyEventTypeRefund           MoneyEventType = "refund"
	MoneyEventTypeAdjustment       MoneyEventType = "adjustment"
)

var validMoneyEventTypes = []MoneyEventType{
	MoneyEventTypeCreditPurchase,
	MoneyEventTypeCreditSpend,
	MoneyEventTypeAuctionWinCredit,
	MoneyEventTypeRefund,
	MoneyEventTypeAdjustment,
}

// IsValid reports whether the value matches the canonical money event enum.
func (t MoneyEventType) IsValid() bool {
	for _, candidate := range validMoneyEventTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseMoneyEventType converts raw input into MoneyEventType.
func ParseMoneyEventType(value string) (MoneyEventType, error) {
	for _, candidate := range validMoneyEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid money event type %q", value)
}
