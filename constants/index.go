package constants

// Roles
const (
	ROLE_ADMIN   = "ADMIN"
	ROLE_MANAGER = "MANAGER"
	ROLE_STAFF   = "STAFF"
)

// Stocked item types. External lenses are never stocked.
const (
	ITEM_FRAME        = "FRAME"
	ITEM_LENS         = "LENS"
	ITEM_LENS_CLEANER = "LENS_CLEANER"
	ITEM_OTHER        = "OTHER"
	ITEM_HEARING      = "HEARING"
)

var StockedItemTypes = []string{ITEM_FRAME, ITEM_LENS, ITEM_LENS_CLEANER, ITEM_OTHER, ITEM_HEARING}

// Order status
const (
	ORDER_PENDING    = "PENDING"
	ORDER_PROCESSING = "PROCESSING"
	ORDER_COMPLETED  = "COMPLETED"
)

// Fitting status
const (
	FITTING_PENDING = "PENDING"
	FITTING_FITTED  = "FITTED"
)

// Progress timeline, append-only
const (
	PROGRESS_RECEIVED_FROM_CUSTOMER = "RECEIVED_FROM_CUSTOMER"
	PROGRESS_ISSUE_TO_FACTORY       = "ISSUE_TO_FACTORY"
	PROGRESS_RECEIVED_FROM_FACTORY  = "RECEIVED_FROM_FACTORY"
	PROGRESS_ISSUE_TO_CUSTOMER      = "ISSUE_TO_CUSTOMER"
)

var ProgressStatuses = []string{
	PROGRESS_RECEIVED_FROM_CUSTOMER,
	PROGRESS_ISSUE_TO_FACTORY,
	PROGRESS_RECEIVED_FROM_FACTORY,
	PROGRESS_ISSUE_TO_CUSTOMER,
}

// Payment
const (
	PAYMENT_CASH     = "CASH"
	PAYMENT_CARD     = "CARD"
	PAYMENT_TRANSFER = "TRANSFER"
	PAYMENT_WALLET   = "WALLET"

	PAYMENT_STATUS_PAID    = "PAID"
	PAYMENT_STATUS_PENDING = "PENDING"
)

// Stock movement actions
const (
	STOCK_ADD      = "ADD"
	STOCK_REMOVE   = "REMOVE"
	STOCK_TRANSFER = "TRANSFER"
)

// Refund expense category name, created on first use.
const EXPENSE_CATEGORY_ORDER_REFUND = "Order Refund"

// Messages
const (
	ERROR_INTERNAL_ERROR     = "Internal server error"
	ERROR_ACCOUNT_NOT_FOUND  = "Account does not exist"
	MISSING_LOGIN_INPUT      = "Username and password are required"
	INVALID_USERNAME         = "Username does not exist"
	INVALID_PASSWORD         = "Incorrect password"
	ACCOUNT_NOT_ACTIVE       = "Account is locked"
	NOT_ADMIN                = "Admin permission required"
	DATA_INPUT_IS_NOT_NUMBER = "Parameter must be a number"
	CAN_NOT_HASH_PASSWORD    = "Cannot hash password"
	ORDER_NOT_FOUND          = "Order not found"
	BRANCH_NOT_FOUND         = "Branch not found"
	CUSTOMER_NOT_FOUND       = "Customer not found"
	STOCK_RECORD_NOT_FOUND   = "No stock record for this item at this branch"
)
