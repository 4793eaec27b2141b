package log

// Common field names for structured logging.
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldFile        = "file"
	FieldFormat      = "format"
	FieldLine        = "line"
	FieldRow         = "row"
	FieldRawValue    = "raw"
	FieldAccountID   = "account_id"
	FieldTxnID       = "transaction_id"
	FieldCategory    = "category"
	FieldTaxYear     = "tax_year"
	FieldCount       = "count"
	FieldAmountCents = "amount_cents"
	FieldLayout      = "layout"
)

// Standard component names.
const (
	ComponentApp      = "app"
	ComponentImporter = "importer"
	ComponentStorage  = "storage"
	ComponentLedger   = "ledger"
	ComponentReport   = "report"
)
