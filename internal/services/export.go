package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/packtrace/sdp-backend/internal/domain"
	"github.com/packtrace/sdp-backend/internal/platform/apierr"
	"github.com/packtrace/sdp-backend/internal/platform/logger"
	"github.com/packtrace/sdp-backend/internal/repos"
)

type ExportRequest struct {
	CmCode string `json:"cm_code"`
	Period string `json:"period"`
}

// ExportPayload is the JSON shape consumed by the client-side exporter.
type ExportPayload struct {
	CmCode       string                    `json:"cm_code"`
	Period       string                    `json:"period,omitempty"`
	GeneratedAt  time.Time                 `json:"generated_at"`
	SkuCount     int                       `json:"sku_count"`
	MappingCount int                       `json:"mapping_count"`
	Skus         []domain.SkuDetail        `json:"skus"`
	Mappings     []domain.ComponentMapping `json:"mappings"`
}

type ExportService struct {
	log      *logger.Logger
	skus     repos.SkuRepo
	mappings repos.MappingRepo
}

func NewExportService(log *logger.Logger, skus repos.SkuRepo, mappings repos.MappingRepo) *ExportService {
	return &ExportService{
		log:      log.With("service", "ExportService"),
		skus:     skus,
		mappings: mappings,
	}
}

func (s *ExportService) BuildPayload(ctx context.Context, req ExportRequest) (*ExportPayload, error) {
	if strings.TrimSpace(req.CmCode) == "" {
		return nil, apierr.Validation("cm_code is required")
	}
	skus, err := s.skus.GetByCmCode(ctx, req.CmCode)
	if err != nil {
		return nil, apierr.Persistence("loading skus for export", err)
	}
	skus = filterSkus(skus, req.Period, "")
	mappings, err := s.mappings.GetByCmCode(ctx, req.CmCode)
	if err != nil {
		return nil, apierr.Persistence("loading mappings for export", err)
	}
	return &ExportPayload{
		CmCode:       req.CmCode,
		Period:       req.Period,
		GeneratedAt:  time.Now().UTC(),
		SkuCount:     len(skus),
		MappingCount: len(mappings),
		Skus:         skus,
		Mappings:     mappings,
	}, nil
}

// BuildWorkbook renders the payload as an xlsx with one sheet per record
// type.
func (s *ExportService) BuildWorkbook(ctx context.Context, req ExportRequest) (*bytes.Buffer, string, error) {
	payload, err := s.BuildPayload(ctx, req)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	skuSheet := "SKUs"
	f.SetSheetName("Sheet1", skuSheet)
	skuHeader := []interface{}{
		"SKU Code", "Description", "CM Code", "CM Description", "Reference",
		"Formulation Reference", "Site", "Type", "Period", "Purchased Quantity", "Active",
	}
	if err := f.SetSheetRow(skuSheet, "A1", &skuHeader); err != nil {
		return nil, "", apierr.Unknown("writing export header", err)
	}
	for i, sku := range payload.Skus {
		row := []interface{}{
			sku.SkuCode,
			sku.SkuDescription,
			deref(sku.CmCode),
			deref(sku.CmDescription),
			deref(sku.SkuReference),
			deref(sku.FormulationReference),
			deref(sku.Site),
			deref(sku.SkuType),
			deref(sku.Period),
			derefFloat(sku.PurchasedQuantity),
			sku.IsActive,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(skuSheet, cell, &row); err != nil {
			return nil, "", apierr.Unknown("writing export row", err)
		}
	}

	mappingSheet := "Component Mappings"
	if _, err := f.NewSheet(mappingSheet); err != nil {
		return nil, "", apierr.Unknown("creating mapping sheet", err)
	}
	mappingHeader := []interface{}{
		"CM Code", "SKU Code", "Component Code", "Version", "Packaging Type",
		"Period ID", "Valid From", "Valid To", "Active",
	}
	if err := f.SetSheetRow(mappingSheet, "A1", &mappingHeader); err != nil {
		return nil, "", apierr.Unknown("writing export header", err)
	}
	for i, m := range payload.Mappings {
		row := []interface{}{
			deref(m.CmCode),
			deref(m.SkuCode),
			deref(m.ComponentCode),
			derefInt(m.Version),
			deref(m.ComponentPackagingTypeID),
			derefInt(m.PeriodID),
			formatDate(m.ComponentValidFrom),
			formatDate(m.ComponentValidTo),
			m.IsActive,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(mappingSheet, cell, &row); err != nil {
			return nil, "", apierr.Unknown("writing export row", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", apierr.Unknown("rendering workbook", err)
	}
	filename := fmt.Sprintf("sdp-export-%s-%s.xlsx", payload.CmCode, payload.GeneratedAt.Format("20060102-150405"))
	return buf, filename, nil
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefInt(v *int) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func derefFloat(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func formatDate(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.Format("2006-01-02")
}
