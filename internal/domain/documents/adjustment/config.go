package adjustment

const (
	// DocumentType tags ledger rows produced by adjustments.
	DocumentType = "adjustment"

	// NumberPrefix is the numerator prefix for adjustment numbers.
	NumberPrefix = "ADJ"
)
