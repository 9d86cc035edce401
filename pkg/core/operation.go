package core

// Operation identifies one remote endpoint.
type Operation int

// Operation constants, one per endpoint of the service.
const (
	// OpGetExchangeRate retrieves fiat exchange rates.
	OpGetExchangeRate Operation = iota
	// OpGetLanguageList lists the languages the service supports.
	OpGetLanguageList
	// OpChangeLanguage sets the account language.
	OpChangeLanguage
	// OpGetAccountInfo retrieves the account profile.
	OpGetAccountInfo
	// OpGetInviteCount retrieves the number of invited users.
	OpGetInviteCount
	// OpGetPromotionRewardInfo retrieves promotion reward details.
	OpGetPromotionRewardInfo
	// OpGetPromotionRewardSummary retrieves aggregated promotion rewards.
	OpGetPromotionRewardSummary
	// OpGetDepositAddress retrieves the deposit address for a coin.
	OpGetDepositAddress
	// OpCreateWithdrawal submits a withdrawal.
	OpCreateWithdrawal
	// OpCancelWithdrawal cancels a pending withdrawal.
	OpCancelWithdrawal
	// OpGetDepositHistory lists deposits.
	OpGetDepositHistory
	// OpGetWithdrawalHistory lists withdrawals.
	OpGetWithdrawalHistory
	// OpGetBalance retrieves balances, optionally for a single coin.
	OpGetBalance
	// OpCreateOrder places an order.
	OpCreateOrder
	// OpCancelOrder cancels an order.
	OpCancelOrder
	// OpGetActiveOrders lists the account's open orders.
	OpGetActiveOrders
	// OpGetCompletedOrders lists the account's filled or canceled orders.
	OpGetCompletedOrders
	// OpGetRecentOrders lists recent public fills for a market.
	OpGetRecentOrders
	// OpGetTicker retrieves ticker data.
	OpGetTicker
	// OpGetOrderBook retrieves order book depth.
	OpGetOrderBook
	// OpGetTrending lists trending markets.
	OpGetTrending
	// OpGetSymbols lists tradable markets.
	OpGetSymbols
	// OpGetCoins lists supported coins.
	OpGetCoins
)

var operationNames = [...]string{
	"GET_EXCHANGE_RATE",
	"GET_LANGUAGE_LIST",
	"CHANGE_LANGUAGE",
	"GET_ACCOUNT_INFO",
	"GET_INVITE_COUNT",
	"GET_PROMOTION_REWARD_INFO",
	"GET_PROMOTION_REWARD_SUMMARY",
	"GET_DEPOSIT_ADDRESS",
	"CREATE_WITHDRAWAL",
	"CANCEL_WITHDRAWAL",
	"GET_DEPOSIT_HISTORY",
	"GET_WITHDRAWAL_HISTORY",
	"GET_BALANCE",
	"CREATE_ORDER",
	"CANCEL_ORDER",
	"GET_ACTIVE_ORDERS",
	"GET_COMPLETED_ORDERS",
	"GET_RECENT_ORDERS",
	"GET_TICKER",
	"GET_ORDER_BOOK",
	"GET_TRENDING",
	"GET_SYMBOLS",
	"GET_COINS",
}

// String returns the string representation of the operation.
func (o Operation) String() string {
	if o < 0 || int(o) >= len(operationNames) {
		return "UNKNOWN"
	}
	return operationNames[o]
}

// Operations returns every defined operation in declaration order.
func Operations() []Operation {
	ops := make([]Operation, len(operationNames))
	for i := range ops {
		ops[i] = Operation(i)
	}
	return ops
}
