package receipt

const (
	// DocumentType tags ledger rows produced by receipts.
	DocumentType = "receipt"

	// NumberPrefix is the numerator prefix for receipt numbers.
	NumberPrefix = "RCP"
)
