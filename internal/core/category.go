package core

// Category is one of a fixed set of expense/income classifications.
type Category string

const (
	CategoryFood              Category = "food"
	CategoryShopping          Category = "shopping"
	CategoryHouse             Category = "house"
	CategoryVehicle           Category = "vehicle"
	CategoryLifeEntertainment Category = "life_entertainment"
	CategoryCommunicationPC   Category = "communication_pc"
	CategoryFinancialExpenses Category = "financial_expenses"
	CategoryHealth            Category = "health"
	CategorySports            Category = "sports"
	CategoryFitness           Category = "fitness"
	CategoryWellness          Category = "wellness"
	CategoryIncome            Category = "income"
	CategoryOthers            Category = "others"
	CategoryRefund            Category = "refund"
)

// UncategorizedLabel is the fold target for unknown or missing
// category values during aggregation.
const UncategorizedLabel = "Uncategorized"

// categoryLabels maps enumeration values to display labels. A static
// map keeps the lookup O(1) and the set exhaustive in one place.
var categoryLabels = map[Category]string{
	CategoryFood:              "Food",
	CategoryShopping:          "Shopping",
	CategoryHouse:             "House",
	CategoryVehicle:           "Vehicle",
	CategoryLifeEntertainment: "Life & Entertainment",
	CategoryCommunicationPC:   "Communication & PC",
	CategoryFinancialExpenses: "Financial Expenses",
	CategoryHealth:            "Health",
	CategorySports:            "Sports",
	CategoryFitness:           "Fitness",
	CategoryWellness:          "Wellness",
	CategoryIncome:            "Income",
	CategoryOthers:            "Others",
	CategoryRefund:            "Refund",
}

// categoryOrder fixes the ordering used by form selectors.
var categoryOrder = []Category{
	CategoryFood,
	CategoryShopping,
	CategoryHouse,
	CategoryVehicle,
	CategoryLifeEntertainment,
	CategoryCommunicationPC,
	CategoryFinancialExpenses,
	CategoryHealth,
	CategorySports,
	CategoryFitness,
	CategoryWellness,
	CategoryIncome,
	CategoryOthers,
	CategoryRefund,
}

// Valid reports whether c is a known category value.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the display label for c, or UncategorizedLabel for
// unknown or empty values. Unknown categories are never rejected.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return UncategorizedLabel
}

// Categories returns all category values in selector order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// AccountTypes returns all account type values in selector order.
func AccountTypes() []AccountType {
	return []AccountType{AccountBank, AccountCash, AccountCredit, AccountSavings, AccountInvestment}
}
