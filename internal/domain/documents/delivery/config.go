package delivery

const (
	// DocumentType tags ledger rows produced by deliveries.
	DocumentType = "delivery"

	// NumberPrefix is the numerator prefix for delivery numbers.
	NumberPrefix = "DLV"
)
