package errors

// Error code constants, format CATEGORY_SPECIFIC_DETAIL. The frontend maps
// these codes to user-facing messages.

const (
	// ==================== Catalog (CATALOG_) ====================
	CatalogUnavailable     = "CATALOG_UNAVAILABLE"       // feed unreachable or non-success status
	CatalogProductNotFound = "CATALOG_PRODUCT_NOT_FOUND" // unknown product id

	// ==================== Cart (CART_) ====================
	CartOutOfStock      = "CART_OUT_OF_STOCK"      // product has no orderable stock
	CartVersionConflict = "CART_VERSION_CONFLICT"  // concurrent write lost the version race

	// ==================== Checkout (CHECKOUT_) ====================
	CheckoutIncompleteForm = "CHECKOUT_INCOMPLETE_FORM" // a required profile field is empty
	CheckoutEmptyCart      = "CHECKOUT_EMPTY_CART"      // checkout attempted with an empty cart
	CheckoutNotOpen        = "CHECKOUT_NOT_OPEN"        // submit without an open form

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // malformed request payload

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR" // unexpected server failure
)
