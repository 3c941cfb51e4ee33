package pdfparser

// Table is one candidate table extracted from a document. Rows hold cell
// text by column index; a cell that was missing in the source is normalized
// to the empty string at this boundary, so downstream code never has to
// distinguish missing from empty.
type Table struct {
	Page int
	Rows [][]string
}

// TableSource produces candidate transaction tables from a PDF document.
// This interface allows for dependency injection and makes the parser
// testable by providing different implementations for production and testing.
type TableSource interface {
	// ExtractTables extracts all candidate tables from the document at the
	// given path, in page order.
	ExtractTables(pdfPath string) ([]Table, error)
}

// MockTableSource implements TableSource for testing purposes.
// It returns predefined tables instead of reading an actual PDF file.
type MockTableSource struct {
	MockTables []Table
	MockErr    error
}

// NewMockTableSource creates a new MockTableSource with the given mock data.
func NewMockTableSource(tables []Table, err error) *MockTableSource {
	return &MockTableSource{
		MockTables: tables,
		MockErr:    err,
	}
}

// ExtractTables returns the predefined tables or error.
func (m *MockTableSource) ExtractTables(pdfPath string) ([]Table, error) {
	if m.MockErr != nil {
		return nil, m.MockErr
	}
	return m.MockTables, nil
}
