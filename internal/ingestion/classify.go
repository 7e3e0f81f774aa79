package ingestion

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
)

// FileRecord is one classified upload, buffer included, ready for the
// orchestrator.
type FileRecord struct {
	FieldName    string
	Filename     string
	OriginalName string
	MimeType     string
	Size         int64
	Buffer       []byte
}

// BufferProvider is the lazy buffer-retrieval capability some wrapper
// shapes expose instead of eager bytes.
type BufferProvider interface {
	ToBuffer() ([]byte, error)
}

// fileSuffix marks any field name as file-bearing regardless of the known
// set below.
const fileSuffix = "_files"

var knownFileFields = map[string]bool{
	"evidence_of_recycled_or_bio_source": true,
	"weight_evidence_files":              true,
	"weight_uom_evidence_files":          true,
	"packaging_type_evidence_files":      true,
	"material_type_evidence_files":       true,
}

// IsFileField reports whether a multipart field carries evidence files.
func IsFileField(name string) bool {
	if knownFileFields[name] {
		return true
	}
	return len(name) > len(fileSuffix) && name[len(name)-len(fileSuffix):] == fileSuffix
}

// ClassifyFiles inspects one file-bearing field value and extracts its file
// records. Unexpected shapes are reported as warnings and skipped, never
// failed on: a field that cannot be classified is simply absent from the
// result.
func ClassifyFiles(fieldName string, value interface{}) ([]FileRecord, []string) {
	var records []FileRecord
	var warnings []string

	switch v := value.(type) {
	case nil:
		return nil, nil

	case *multipart.FileHeader:
		rec, warn := fromFileHeader(fieldName, v)
		if warn != "" {
			warnings = append(warnings, warn)
		}
		if rec != nil {
			records = append(records, *rec)
		}

	case []*multipart.FileHeader:
		for _, fh := range v {
			rec, warn := fromFileHeader(fieldName, fh)
			if warn != "" {
				warnings = append(warnings, warn)
			}
			if rec != nil {
				records = append(records, *rec)
			}
		}

	case map[string]interface{}:
		if fields, ok := v["fields"].([]interface{}); ok {
			for i, el := range fields {
				obj, ok := el.(map[string]interface{})
				if !ok {
					warnings = append(warnings, fmt.Sprintf("%s: element %d is not a file object", fieldName, i))
					continue
				}
				rec, warn := fromWrapper(fieldName, obj, fmt.Sprintf("file_%d", i))
				if warn != "" {
					warnings = append(warnings, warn)
				}
				if rec != nil {
					records = append(records, *rec)
				}
			}
		} else {
			rec, warn := fromWrapper(fieldName, v, "unknown")
			if warn != "" {
				warnings = append(warnings, warn)
			}
			if rec != nil {
				records = append(records, *rec)
			}
		}

	default:
		warnings = append(warnings, fmt.Sprintf("%s: unrecognized file field shape %T", fieldName, value))
	}

	return records, warnings
}

func fromFileHeader(fieldName string, fh *multipart.FileHeader) (*FileRecord, string) {
	if fh == nil || fh.Filename == "" {
		return nil, fmt.Sprintf("%s: file header without filename", fieldName)
	}
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Sprintf("%s: cannot open %s: %v", fieldName, fh.Filename, err)
	}
	defer src.Close()
	buf, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Sprintf("%s: cannot read %s: %v", fieldName, fh.Filename, err)
	}
	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return &FileRecord{
		FieldName:    fieldName,
		Filename:     fh.Filename,
		OriginalName: fh.Filename,
		MimeType:     mimeType,
		Size:         int64(len(buf)),
		Buffer:       buf,
	}, ""
}

// fromWrapper resolves a file from a wrapper object shape: a filename-like
// property plus a buffer under one of several keys, falling back to the
// lazy ToBuffer capability.
func fromWrapper(fieldName string, obj map[string]interface{}, fallbackName string) (*FileRecord, string) {
	name := stringProp(obj, "filename")
	if name == "" {
		name = stringProp(obj, "name")
	}
	if name == "" {
		return nil, fmt.Sprintf("%s: file object without filename", fieldName)
	}
	original := stringProp(obj, "originalname")
	if original == "" {
		original = name
	}
	mimeType := stringProp(obj, "mimetype")
	if mimeType == "" {
		mimeType = stringProp(obj, "type")
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	buf := bufferProp(obj)
	if len(buf) == 0 {
		if provider, ok := obj["toBuffer"].(func() ([]byte, error)); ok {
			b, err := provider()
			if err != nil {
				return nil, fmt.Sprintf("%s: toBuffer failed for %s: %v", fieldName, name, err)
			}
			buf = b
		} else if provider, ok := obj["toBuffer"].(BufferProvider); ok {
			b, err := provider.ToBuffer()
			if err != nil {
				return nil, fmt.Sprintf("%s: toBuffer failed for %s: %v", fieldName, name, err)
			}
			buf = b
		}
	}

	rec := &FileRecord{
		FieldName:    fieldName,
		Filename:     name,
		OriginalName: original,
		MimeType:     mimeType,
		Size:         int64(len(buf)),
		Buffer:       buf,
	}
	if len(buf) == 0 {
		// Recorded but flagged; the orchestrator will report it instead of
		// uploading.
		return rec, fmt.Sprintf("%s: no valid buffer found for %s", fieldName, name)
	}
	return rec, ""
}

func stringProp(obj map[string]interface{}, key string) string {
	if v, ok := obj[key].(string); ok {
		return v
	}
	return ""
}

// bufferProp recovers eager bytes from the wrapper, trying the internal
// buffer key first, then data, then buffer. Base64 strings are accepted for
// JSON-carried payloads.
func bufferProp(obj map[string]interface{}) []byte {
	for _, key := range []string{"_buf", "data", "buffer"} {
		switch b := obj[key].(type) {
		case []byte:
			if len(b) > 0 {
				return b
			}
		case string:
			if decoded, err := base64.StdEncoding.DecodeString(b); err == nil && len(decoded) > 0 {
				return decoded
			}
		}
	}
	return nil
}
