package advisor

// Product identifies one entry of the fixed product catalog.
type Product string

const (
	TravelCard           Product = "travel_card"
	PremiumCard          Product = "premium_card"
	CreditCard           Product = "credit_card"
	CurrencyExchange     Product = "currency_exchange"
	DepositSavings       Product = "deposit_savings"
	DepositMulticurrency Product = "deposit_multicurrency"
	Investments          Product = "investments"
	CashLoan             Product = "cash_loan"
)

// Catalog lists every product in declaration order. The order is load
// bearing: ranking ties resolve to the earlier entry.
var Catalog = []Product{
	TravelCard,
	PremiumCard,
	CreditCard,
	CurrencyExchange,
	DepositSavings,
	DepositMulticurrency,
	Investments,
	CashLoan,
}

// DefaultProduct is the fallback recommendation for clients with no
// transaction data or no score above the confidence floor.
const DefaultProduct = DepositSavings

// DefaultShortlist is the fixed shortlist returned alongside
// DefaultProduct on the fallback path.
var DefaultShortlist = []Product{
	DepositSavings,
	DepositMulticurrency,
	PremiumCard,
	CreditCard,
}

// ShortlistSize is how many ranked products accompany the winner.
const ShortlistSize = 4
