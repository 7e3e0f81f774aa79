package ingestion

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"sort"
	"strings"
	"time"
)

// ParsedForm is the typed result of one multipart payload: coerced scalar
// values keyed by field name, classified files grouped by category, and the
// diagnostics collected along the way. The shape of every field is decided
// here, once, at the ingestion boundary.
type ParsedForm struct {
	Values          map[string]interface{}
	FilesByCategory map[string][]FileRecord
	FileFields      []string
	Warnings        []string
	TotalFields     int
}

// ParseMultipart runs every field of the form through extraction+coercion
// (non-file) or classification (file). It never fails: malformed fields are
// reported in Warnings and omitted.
func ParseMultipart(form *multipart.Form) *ParsedForm {
	parsed := &ParsedForm{
		Values:          map[string]interface{}{},
		FilesByCategory: map[string][]FileRecord{},
	}
	if form == nil {
		return parsed
	}

	names := make([]string, 0, len(form.Value))
	for name := range form.Value {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		raw := form.Value[name]
		if len(raw) == 0 {
			continue
		}
		parsed.TotalFields++
		if IsFileField(name) {
			// A file field delivered as a text part: a JSON wrapper object
			// carrying the payload inline.
			parsed.addFiles(name, decodeWrapper(raw[0]))
			continue
		}
		parsed.Values[name] = Coerce(name, ExtractScalar(decodeWrapper(raw[0])))
	}

	fileNames := make([]string, 0, len(form.File))
	for name := range form.File {
		fileNames = append(fileNames, name)
	}
	sort.Strings(fileNames)

	for _, name := range fileNames {
		headers := form.File[name]
		if len(headers) == 0 {
			continue
		}
		parsed.TotalFields++
		if !IsFileField(name) {
			parsed.Warnings = append(parsed.Warnings, name+": file part on a non-file field, treated as "+name+fileSuffix)
			name = name + fileSuffix
		}
		parsed.addFiles(name, headers)
	}

	return parsed
}

func (p *ParsedForm) addFiles(fieldName string, value interface{}) {
	records, warnings := ClassifyFiles(fieldName, value)
	p.Warnings = append(p.Warnings, warnings...)
	if len(records) == 0 {
		return
	}
	p.FileFields = append(p.FileFields, fieldName)
	category := CategoryFor(fieldName)
	p.FilesByCategory[category.Name] = append(p.FilesByCategory[category.Name], records...)

	// Echo the filenames into the component data under the base field name,
	// the way the upstream form consumers expect.
	names := make([]string, 0, len(records))
	for _, rec := range records {
		names = append(names, rec.Filename)
	}
	p.Values[BaseFieldName(fieldName)] = strings.Join(names, ", ")
}

// decodeWrapper turns a raw text part into the value tree the extractor and
// classifier understand. JSON objects become map trees; anything else stays
// a plain string.
func decodeWrapper(raw string) interface{} {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var decoded interface{}
		if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
			return decoded
		}
	}
	return raw
}

// StringValue returns the coerced field rendered as a trimmed string, empty
// when absent or nil. Validation and path building use this.
func (p *ParsedForm) StringValue(name string) string {
	v, ok := p.Values[name]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	default:
		return strings.TrimSpace(stringify(v))
	}
}

func stringify(v interface{}) string {
	if t, ok := v.(time.Time); ok {
		return t.Format("2006-01-02")
	}
	return fmt.Sprint(v)
}

// IntValue returns the coerced integer field, 0 when absent or not an int.
func (p *ParsedForm) IntValue(name string) (int, bool) {
	v, ok := p.Values[name]
	if !ok {
		return 0, false
	}
	i, ok := v.(int)
	return i, ok
}
