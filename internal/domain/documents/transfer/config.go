package transfer

const (
	// DocumentType tags ledger rows produced by transfers.
	DocumentType = "transfer"

	// NumberPrefix is the numerator prefix for transfer numbers.
	NumberPrefix = "TRF"
)
