package logging

// Standardized field names for structured logging.
// These constants ensure consistency across the application's log output,
// making logs easier to parse, filter, and analyze.
const (
	FieldFile       = "file_path"
	FieldPage       = "page"
	FieldTable      = "table"
	FieldRow        = "row"
	FieldCategory   = "category"
	FieldReason     = "reason"
	FieldError      = "error"
	FieldCount      = "count"
	FieldStrategy   = "strategy"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
)
