package services

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"time"

	"gorm.io/datatypes"

	"github.com/packtrace/sdp-backend/internal/domain"
	"github.com/packtrace/sdp-backend/internal/ingestion"
	"github.com/packtrace/sdp-backend/internal/platform/apierr"
	"github.com/packtrace/sdp-backend/internal/platform/logger"
	"github.com/packtrace/sdp-backend/internal/repos"
)

// IngestStrategy selects which of the two historical duplicate-check
// behaviors the pipeline runs.
type IngestStrategy string

const (
	// IngestReuseComponent reuses an existing component row by code and
	// always inserts a new mapping.
	IngestReuseComponent IngestStrategy = "reuse-component"
	// IngestDedupeMapping additionally rejects the request when a mapping
	// with the same natural key already exists.
	IngestDedupeMapping IngestStrategy = "dedupe-mapping"
)

func ParseIngestStrategy(raw string) IngestStrategy {
	if IngestStrategy(raw) == IngestDedupeMapping {
		return IngestDedupeMapping
	}
	return IngestReuseComponent
}

// requiredIngestFields must be present and non-empty before anything is
// persisted.
var requiredIngestFields = []string{
	"cm_code",
	"sku_code",
	"component_code",
	"version",
	"period_id",
	"year",
	"component_description",
	"component_valid_from",
	"component_valid_to",
}

type FileProcessing struct {
	TotalUploaded int           `json:"total_uploaded"`
	Categories    []string      `json:"categories"`
	Errors        []UploadError `json:"errors"`
}

type FieldSummary struct {
	TotalReceived int      `json:"total_received"`
	FileFields    []string `json:"file_fields"`
	Warnings      []string `json:"warnings"`
}

// IngestResult is the persisted-record summary returned on 201.
type IngestResult struct {
	ComponentID    int            `json:"component_id"`
	ComponentCode  string         `json:"component_code"`
	Action         string         `json:"action"`
	MappingID      int            `json:"mapping_id"`
	MappingStatus  string         `json:"mapping_status"`
	AuditID        int            `json:"audit_id"`
	EvidenceID     *int           `json:"evidence_id"`
	EvidenceIDs    []int          `json:"evidence_ids"`
	PeriodName     string         `json:"period_name,omitempty"`
	Upload         *UploadResult  `json:"upload"`
	FileProcessing FileProcessing `json:"fileProcessing"`
	FieldSummary   FieldSummary   `json:"fieldSummary"`
}

// IngestService runs the full add-component pipeline: parse, validate,
// duplicate check, persist component, upload evidence, persist mapping,
// audit snapshot and evidence rows. There is no cross-step transaction;
// each persisted record stands on its own.
type IngestService struct {
	log        *logger.Logger
	components repos.ComponentRepo
	mappings   repos.MappingRepo
	evidence   repos.EvidenceRepo
	audits     repos.AuditLogRepo
	periods    repos.PeriodRepo
	uploads    *UploadService
	strategy   IngestStrategy
}

func NewIngestService(
	log *logger.Logger,
	components repos.ComponentRepo,
	mappings repos.MappingRepo,
	evidence repos.EvidenceRepo,
	audits repos.AuditLogRepo,
	periods repos.PeriodRepo,
	uploads *UploadService,
	strategy IngestStrategy,
) *IngestService {
	return &IngestService{
		log:        log.With("service", "IngestService"),
		components: components,
		mappings:   mappings,
		evidence:   evidence,
		audits:     audits,
		periods:    periods,
		uploads:    uploads,
		strategy:   strategy,
	}
}

func (s *IngestService) Ingest(ctx context.Context, mpForm *multipart.Form, createdBy string) (*IngestResult, error) {
	form := ingestion.ParseMultipart(mpForm)

	var missing []string
	for _, name := range requiredIngestFields {
		if form.StringValue(name) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, apierr.Validation("Missing required fields").
			WithDetails("missing_fields", missing)
	}

	cmCode := form.StringValue("cm_code")
	skuCode := form.StringValue("sku_code")
	componentCode := form.StringValue("component_code")
	validFrom := timeValue(form.Values, "component_valid_from")
	validTo := timeValue(form.Values, "component_valid_to")

	exists, err := s.components.ExistsByNaturalKey(ctx, cmCode, skuCode, componentCode, validFrom, validTo)
	if err != nil {
		return nil, apierr.Persistence("checking for existing component", err)
	}
	if exists {
		return nil, apierr.Conflict(fmt.Sprintf(
			"Component %s already exists for this SKU and validity period", componentCode))
	}
	if s.strategy == IngestDedupeMapping {
		dup, err := s.mappings.ExistsByNaturalKey(ctx, cmCode, skuCode, componentCode, validFrom, validTo)
		if err != nil {
			return nil, apierr.Persistence("checking for existing mapping", err)
		}
		if dup {
			return nil, apierr.Conflict(fmt.Sprintf(
				"Mapping for component %s already exists", componentCode))
		}
	}

	// Period name resolution is informational; a missing period never
	// blocks the ingestion.
	periodName := ""
	if periodID, ok := form.IntValue("period_id"); ok {
		name, err := s.periods.GetNameByID(ctx, periodID)
		if err != nil {
			s.log.Warn("Period lookup failed", "period_id", periodID, "error", err)
		} else {
			periodName = name
		}
	}

	component, action, err := s.resolveComponent(ctx, form, componentCode, createdBy)
	if err != nil {
		return nil, err
	}

	upload := s.uploads.Upload(ctx, form.FilesByCategory,
		form.StringValue("year"), cmCode, skuCode, componentCode)

	version, _ := form.IntValue("version")
	periodID, _ := form.IntValue("period_id")
	mapping := &domain.ComponentMapping{
		CmCode:                   &cmCode,
		SkuCode:                  &skuCode,
		ComponentCode:            &componentCode,
		Version:                  &version,
		ComponentPackagingTypeID: strValue(form.Values, "component_packaging_type_id"),
		PeriodID:                 &periodID,
		ComponentValidFrom:       validFrom,
		ComponentValidTo:         validTo,
		CreatedBy:                &createdBy,
		IsActive:                 true,
	}
	if err := s.mappings.Create(ctx, mapping); err != nil {
		return nil, apierr.Persistence("inserting component mapping", err)
	}

	audit, err := s.writeAudit(ctx, component, version, createdBy)
	if err != nil {
		return nil, err
	}

	evidenceIDs, uploadErrors := s.writeEvidence(ctx, component.ID, upload, createdBy)
	upload.Errors = append(upload.Errors, uploadErrors...)

	// The outward contract carries the first evidence row's id, null when
	// the request had no files.
	var evidenceID *int
	if len(evidenceIDs) > 0 {
		evidenceID = &evidenceIDs[0]
	}

	categories := make([]string, 0, len(upload.UploadedFiles))
	for _, c := range ingestion.Categories {
		if len(upload.UploadedFiles[c.Name]) > 0 {
			categories = append(categories, c.Name)
		}
	}

	return &IngestResult{
		ComponentID:   component.ID,
		ComponentCode: componentCode,
		Action:        action,
		MappingID:     mapping.ID,
		MappingStatus: "created",
		AuditID:       audit.ID,
		EvidenceID:    evidenceID,
		EvidenceIDs:   evidenceIDs,
		PeriodName:    periodName,
		Upload:        upload,
		FileProcessing: FileProcessing{
			TotalUploaded: upload.TotalUploaded(),
			Categories:    categories,
			Errors:        upload.Errors,
		},
		FieldSummary: FieldSummary{
			TotalReceived: form.TotalFields,
			FileFields:    form.FileFields,
			Warnings:      form.Warnings,
		},
	}, nil
}

// resolveComponent reuses the earliest active row for the code when one
// exists; component_code is deliberately not unique across rows.
func (s *IngestService) resolveComponent(ctx context.Context, form *ingestion.ParsedForm, componentCode, createdBy string) (*domain.ComponentDetail, string, error) {
	existing, err := s.components.GetActiveByCode(ctx, componentCode)
	if err != nil {
		return nil, "", apierr.Persistence("looking up component", err)
	}
	if existing != nil {
		s.log.Info("Reusing existing component", "component_code", componentCode, "component_id", existing.ID)
		return existing, "mapping_only", nil
	}

	component := componentFromValues(form.Values)
	component.CreatedBy = &createdBy
	component.IsActive = true
	if err := s.components.Create(ctx, component); err != nil {
		return nil, "", apierr.Persistence("inserting component", err)
	}
	return component, "component_and_mapping", nil
}

func (s *IngestService) writeAudit(ctx context.Context, component *domain.ComponentDetail, version int, createdBy string) (*domain.ComponentAuditLog, error) {
	snapshot, err := json.Marshal(component)
	if err != nil {
		return nil, apierr.Unknown("serializing audit snapshot", err)
	}
	audit := &domain.ComponentAuditLog{
		ComponentID:   component.ID,
		CmCode:        component.CmCode,
		SkuCode:       component.SkuCode,
		ComponentCode: component.ComponentCode,
		Version:       &version,
		Snapshot:      datatypes.JSON(snapshot),
		CreatedBy:     &createdBy,
	}
	if err := s.audits.Create(ctx, audit); err != nil {
		return nil, apierr.Persistence("inserting audit log", err)
	}
	return audit, nil
}

// writeEvidence persists one row per uploaded file. A failed insert is
// reported alongside the upload errors and never aborts the batch.
func (s *IngestService) writeEvidence(ctx context.Context, componentID int, upload *UploadResult, createdBy string) ([]int, []UploadError) {
	var ids []int
	var errs []UploadError
	for _, category := range ingestion.Categories {
		for _, file := range upload.UploadedFiles[category.Name] {
			row := &domain.EvidenceFile{
				ComponentID:      componentID,
				EvidenceFileName: file.OriginalName,
				EvidenceFileURL:  file.BlobURL,
				Category:         category.Name,
				CreatedBy:        createdBy,
			}
			if err := s.evidence.Create(ctx, row); err != nil {
				s.log.Warn("Evidence insert failed", "file", file.OriginalName, "category", category.Name, "error", err)
				errs = append(errs, UploadError{
					FileName: file.OriginalName,
					Category: category.Name,
					Error:    err.Error(),
				})
				continue
			}
			ids = append(ids, row.ID)
		}
	}
	return ids, errs
}

// componentFromValues maps the coerced field table onto the component row.
// Fields absent from the form stay NULL.
func componentFromValues(values map[string]interface{}) *domain.ComponentDetail {
	return &domain.ComponentDetail{
		CmCode:                          strValue(values, "cm_code"),
		SkuCode:                         strValue(values, "sku_code"),
		FormulationReference:            strValue(values, "formulation_reference"),
		MaterialTypeID:                  strValue(values, "material_type_id"),
		ComponentsReference:             strValue(values, "components_reference"),
		ComponentCode:                   strValue(values, "component_code"),
		ComponentDescription:            strValue(values, "component_description"),
		ComponentValidFrom:              timeValue(values, "component_valid_from"),
		ComponentValidTo:                timeValue(values, "component_valid_to"),
		ComponentMaterialGroup:          strValue(values, "component_material_group"),
		ComponentQuantity:               floatValue(values, "component_quantity"),
		ComponentUomID:                  strValue(values, "component_uom_id"),
		ComponentBaseQuantity:           floatValue(values, "component_base_quantity"),
		ComponentBaseUomID:              strValue(values, "component_base_uom_id"),
		PercentWW:                       floatValue(values, "percent_w_w"),
		Evidence:                        strValue(values, "evidence"),
		ComponentPackagingTypeID:        strValue(values, "component_packaging_type_id"),
		ComponentPackagingMaterial:      strValue(values, "component_packaging_material"),
		HelperColumn:                    strValue(values, "helper_column"),
		ComponentUnitWeight:             floatValue(values, "component_unit_weight"),
		WeightUnitMeasureID:             strValue(values, "weight_unit_measure_id"),
		PercentMechanicalPcrContent:     floatValue(values, "percent_mechanical_pcr_content"),
		PercentMechanicalPirContent:     floatValue(values, "percent_mechanical_pir_content"),
		PercentChemicalRecycledContent:  floatValue(values, "percent_chemical_recycled_content"),
		PercentBioSourced:               floatValue(values, "percent_bio_sourced"),
		MaterialStructureMultimaterials: strValue(values, "material_structure_multimaterials"),
		ComponentPackagingColorOpacity:  strValue(values, "component_packaging_color_opacity"),
		ComponentPackagingLevelID:       strValue(values, "component_packaging_level_id"),
		ComponentDimensions:             strValue(values, "component_dimensions"),
		PackagingSpecificationEvidence:  strValue(values, "packaging_specification_evidence"),
		EvidenceOfRecycledOrBioSource:   strValue(values, "evidence_of_recycled_or_bio_source"),
		LastUpdateDate:                  timeValue(values, "last_update_date"),
		CategoryEntryID:                 strValue(values, "category_entry_id"),
		DataVerificationEntryID:         strValue(values, "data_verification_entry_id"),
		UserID:                          strValue(values, "user_id"),
		SignedOffBy:                     strValue(values, "signed_off_by"),
		SignedOffDate:                   timeValue(values, "signed_off_date"),
		MandatoryFieldsCompletionStatus: strValue(values, "mandatory_fields_completion_status"),
		EvidenceProvided:                strValue(values, "evidence_provided"),
		DocumentStatus:                  strValue(values, "document_status"),
		Year:                            intValue(values, "year"),
		ComponentUnitWeightID:           strValue(values, "component_unit_weight_id"),
		Periods:                         intValue(values, "periods"),
	}
}

func strValue(values map[string]interface{}, name string) *string {
	v, ok := values[name]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

func intValue(values map[string]interface{}, name string) *int {
	v, ok := values[name]
	if !ok || v == nil {
		return nil
	}
	i, ok := v.(int)
	if !ok {
		return nil
	}
	return &i
}

func floatValue(values map[string]interface{}, name string) *float64 {
	v, ok := values[name]
	if !ok || v == nil {
		return nil
	}
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}

func timeValue(values map[string]interface{}, name string) *time.Time {
	v, ok := values[name]
	if !ok || v == nil {
		return nil
	}
	t, ok := v.(time.Time)
	if !ok {
		return nil
	}
	return &t
}
