package ingestion

import "strings"

// Category is one semantic evidence bucket. Name is what the evidence row
// stores, Folder is the storage path segment, Container overrides the
// default blob container when set.
type Category struct {
	Name      string
	Folder    string
	Container string
}

// Categories is the fixed, ordered list the upload orchestrator walks.
var Categories = []Category{
	{Name: "weight_evidence", Folder: "Weight"},
	{Name: "weight_uom_evidence", Folder: "weightUOM"},
	{Name: "packaging_type_evidence", Folder: "Packaging Type"},
	{Name: "material_type_evidence", Folder: "Material Type"},
	{Name: "packaging_specification_evidence", Folder: "PackagingEvidence", Container: "packaging"},
	{Name: "component_evidence", Folder: "evidence"},
	{Name: "other_evidence", Folder: "other"},
}

var categoryByField = map[string]string{
	"evidence_of_recycled_or_bio_source":     "component_evidence",
	"weight_evidence_files":                  "weight_evidence",
	"weight_uom_evidence_files":              "weight_uom_evidence",
	"packaging_type_evidence_files":          "packaging_type_evidence",
	"material_type_evidence_files":           "material_type_evidence",
	"packaging_specification_evidence_files": "packaging_specification_evidence",
	"packaging_evidence_files":               "packaging_specification_evidence",
}

// CategoryFor maps a file field name to its bucket. Unrecognized names land
// in other_evidence rather than being rejected.
func CategoryFor(fieldName string) Category {
	name, ok := categoryByField[fieldName]
	if !ok {
		name = "other_evidence"
	}
	for _, c := range Categories {
		if c.Name == name {
			return c
		}
	}
	return Category{Name: "other_evidence", Folder: "other"}
}

// BaseFieldName strips the file suffix so the filename can be echoed back
// into the component data under the plain field name.
func BaseFieldName(fieldName string) string {
	return strings.TrimSuffix(fieldName, fileSuffix)
}
