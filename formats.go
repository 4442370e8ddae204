package dbind

var (
	// JSONFormat decodes standard JSON into Documents and Arrays:
	//
	//	{"title": "Hello", "items": [{"name": "A"}]}
	JSONFormat = NewFormat(DecodeJSON, "json")

	// RecordFormat decodes the blank-line separated "key:<tab>value" record
	// format into an Array of Documents. See ParseRecords.
	RecordFormat = NewFormat(func(src []byte) (Array, error) {
		return ParseRecords(string(src)), nil
	}, "txt", "rec")

	// TSVFormat decodes tab-separated values with a header line into an Array
	// of Documents. See ParseTSV.
	TSVFormat = NewFormat(func(src []byte) (Array, error) {
		return ParseTSV(string(src)), nil
	}, "tsv")
)

// Formats bundles the standard data formats.
func Formats() Registration {
	return Group(JSONFormat, RecordFormat, TSVFormat)
}

// DefaultRegistry holds the standard data formats.
var DefaultRegistry = mustRegistry(Formats())

func mustRegistry(regs ...Registration) *Registry {
	r, err := NewRegistry(regs...)
	if err != nil {
		panic(err)
	}
	return r
}
