package enums

// SourceType tags the polymorphic origin of a money event.
type SourceType string

const (
	SourceTypeBid            SourceType = "bid"
	SourceTypeCreditPurchase SourceType = "credit_purchase"
	SourceTypeSettlement     SourceType = "auction_settlement"
)

// IsValid reports whether the value names a known source type. Unknown
// types are still persisted; reads resolve them to a nil source.
func (s SourceType) IsValid() bool {
	switch s {
	case SourceTypeBid, SourceTypeCreditPurchase, SourceTypeSettlement:
		return true
	}
	return false
}
