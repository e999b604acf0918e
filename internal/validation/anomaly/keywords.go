package anomaly

// categoryKeyword maps a description token to the category it implies. The
// table is ordered: the first matching keyword wins, which keeps detection
// deterministic across runs.
type categoryKeyword struct {
	keyword  string
	category string
}

var categoryKeywords = []categoryKeyword{
	// fruit
	{"apple", "fruit"},
	{"banana", "fruit"},
	{"orange", "fruit"},
	{"grape", "fruit"},
	{"mango", "fruit"},
	{"strawberry", "fruit"},
	{"blueberry", "fruit"},
	{"peach", "fruit"},
	{"pear", "fruit"},
	// vegetables
	{"carrot", "vegetables"},
	{"potato", "vegetables"},
	{"onion", "vegetables"},
	{"broccoli", "vegetables"},
	{"lettuce", "vegetables"},
	{"tomato", "vegetables"},
	{"capsicum", "vegetables"},
	{"spinach", "vegetables"},
	// meat
	{"beef", "meat"},
	{"chicken", "meat"},
	{"pork", "meat"},
	{"lamb", "meat"},
	{"steak", "meat"},
	{"mince", "meat"},
	{"sausage", "meat"},
	// seafood
	{"salmon", "seafood"},
	{"tuna", "seafood"},
	{"prawn", "seafood"},
	{"fish", "seafood"},
	{"oyster", "seafood"},
	// bakery
	{"bread", "bakery"},
	{"roll", "bakery"},
	{"croissant", "bakery"},
	{"bagel", "bakery"},
	{"muffin", "bakery"},
	{"cake", "bakery"},
	// dairy
	{"milk", "dairy"},
	{"cheese", "dairy"},
	{"yoghurt", "dairy"},
	{"yogurt", "dairy"},
	{"butter", "dairy"},
	// deli
	{"ham", "deli"},
	{"salami", "deli"},
	{"prosciutto", "deli"},
}
