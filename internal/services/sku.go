package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/packtrace/sdp-backend/internal/domain"
	"github.com/packtrace/sdp-backend/internal/platform/apierr"
	"github.com/packtrace/sdp-backend/internal/platform/logger"
	"github.com/packtrace/sdp-backend/internal/repos"
)

// SkuInsertStrategy selects the duplicate-description behavior on insert.
type SkuInsertStrategy string

const (
	// SkuStrictDescription rejects inserts whose normalized description
	// already exists, returning the similar records for the client to show.
	SkuStrictDescription SkuInsertStrategy = "strict-description"
	// SkuNoDescriptionCheck only enforces sku_code uniqueness.
	SkuNoDescriptionCheck SkuInsertStrategy = "no-check"
)

func ParseSkuInsertStrategy(raw string) SkuInsertStrategy {
	if SkuInsertStrategy(raw) == SkuNoDescriptionCheck {
		return SkuNoDescriptionCheck
	}
	return SkuStrictDescription
}

const skuTypeExternal = "external"

type SkuInsertRequest struct {
	SkuCode              string   `json:"sku_code"`
	SkuDescription       string   `json:"sku_description"`
	CmCode               *string  `json:"cm_code"`
	CmDescription        *string  `json:"cm_description"`
	SkuReference         *string  `json:"sku_reference"`
	FormulationReference *string  `json:"formulation_reference"`
	Site                 *string  `json:"site"`
	SkuType              string   `json:"skutype"`
	BulkExpert           *string  `json:"bulk_expert"`
	Period               *string  `json:"period"`
	PurchasedQuantity    *float64 `json:"purchased_quantity"`
	DualSource           *string  `json:"dual_source"`
	CreatedBy            *string  `json:"created_by"`
	ComponentIDs         []int    `json:"component_ids"`
}

type SkuUpdateRequest struct {
	SkuDescription       *string  `json:"sku_description"`
	CmCode               *string  `json:"cm_code"`
	CmDescription        *string  `json:"cm_description"`
	SkuReference         *string  `json:"sku_reference"`
	FormulationReference *string  `json:"formulation_reference"`
	Site                 *string  `json:"site"`
	SkuType              *string  `json:"skutype"`
	BulkExpert           *string  `json:"bulk_expert"`
	Period               *string  `json:"period"`
	PurchasedQuantity    *float64 `json:"purchased_quantity"`
	DualSource           *string  `json:"dual_source"`
	ComponentIDs         []int    `json:"component_ids"`
}

type SkuUpdateResult struct {
	Sku               *domain.SkuDetail        `json:"sku"`
	RemovedComponents []domain.ComponentDetail `json:"removed_components"`
	LinkedComponents  []domain.ComponentDetail `json:"linked_components"`
}

// MappingWithComponent is one mapping row joined with the component details
// sharing its component_code.
type MappingWithComponent struct {
	Mapping   domain.ComponentMapping `json:"mapping"`
	Component *domain.ComponentDetail `json:"component"`
}

type SkuService struct {
	log        *logger.Logger
	skus       repos.SkuRepo
	components repos.ComponentRepo
	periods    repos.PeriodRepo
	strategy   SkuInsertStrategy
}

func NewSkuService(log *logger.Logger, skus repos.SkuRepo, components repos.ComponentRepo, periods repos.PeriodRepo, strategy SkuInsertStrategy) *SkuService {
	return &SkuService{
		log:        log.With("service", "SkuService"),
		skus:       skus,
		components: components,
		periods:    periods,
		strategy:   strategy,
	}
}

func (s *SkuService) GetAll(ctx context.Context) ([]domain.SkuDetail, error) {
	return s.skus.GetAll(ctx)
}

func (s *SkuService) GetByCmCode(ctx context.Context, cmCode string) ([]domain.SkuDetail, error) {
	if strings.TrimSpace(cmCode) == "" {
		return nil, apierr.Validation("cm_code is required")
	}
	return s.skus.GetByCmCode(ctx, cmCode)
}

func (s *SkuService) GetDescriptions(ctx context.Context) ([]repos.SkuDescription, error) {
	return s.skus.GetAllDescriptions(ctx)
}

// Insert creates a SKU and, for non-external types, links it into the
// selected components' comma-separated sku_code lists.
func (s *SkuService) Insert(ctx context.Context, req SkuInsertRequest) (*domain.SkuDetail, []domain.ComponentDetail, error) {
	code := strings.TrimSpace(req.SkuCode)
	description := strings.TrimSpace(req.SkuDescription)
	if code == "" || description == "" {
		return nil, nil, apierr.Validation("sku_code and sku_description are required")
	}

	exists, err := s.skus.ExistsByCode(ctx, code)
	if err != nil {
		return nil, nil, apierr.Persistence("checking sku code", err)
	}
	if exists {
		return nil, nil, apierr.Conflict(fmt.Sprintf("SKU %s already exists", code))
	}

	if s.strategy == SkuStrictDescription {
		dup, err := s.skus.ExistsByNormalizedDescription(ctx, description)
		if err != nil {
			return nil, nil, apierr.Persistence("checking sku description", err)
		}
		if dup {
			similar, err := s.skus.GetSimilarDescriptions(ctx, description)
			if err != nil {
				return nil, nil, apierr.Persistence("collecting similar descriptions", err)
			}
			return nil, nil, apierr.Unprocessable("A SKU with this description already exists").
				WithDetails("similar_skus", similar)
		}
	}

	sku := &domain.SkuDetail{
		SkuCode:              code,
		SkuDescription:       description,
		CmCode:               req.CmCode,
		CmDescription:        req.CmDescription,
		SkuReference:         req.SkuReference,
		FormulationReference: req.FormulationReference,
		Site:                 req.Site,
		BulkExpert:           req.BulkExpert,
		Period:               req.Period,
		PurchasedQuantity:    req.PurchasedQuantity,
		DualSource:           req.DualSource,
		CreatedBy:            req.CreatedBy,
		IsActive:             true,
	}
	if req.SkuType != "" {
		skuType := req.SkuType
		sku.SkuType = &skuType
	}
	if err := s.skus.Create(ctx, sku); err != nil {
		return nil, nil, apierr.Persistence("inserting sku", err)
	}

	var linked []domain.ComponentDetail
	if req.SkuType != skuTypeExternal && len(req.ComponentIDs) > 0 {
		linked, err = s.components.AddSkuToIDs(ctx, code, req.ComponentIDs)
		if err != nil {
			return nil, nil, apierr.Persistence("linking components", err)
		}
	}
	return sku, linked, nil
}

// Update rewrites the mutable SKU fields and re-links components: the code
// is first removed from every component list, then added back to the
// selected ones. An external sku type skips the add, leaving the code
// unreferenced.
func (s *SkuService) Update(ctx context.Context, skuCode string, req SkuUpdateRequest) (*SkuUpdateResult, error) {
	if strings.TrimSpace(skuCode) == "" {
		return nil, apierr.Validation("sku_code is required")
	}

	fields := map[string]interface{}{}
	setStr := func(column string, v *string) {
		if v != nil {
			fields[column] = *v
		}
	}
	setStr("sku_description", req.SkuDescription)
	setStr("cm_code", req.CmCode)
	setStr("cm_description", req.CmDescription)
	setStr("sku_reference", req.SkuReference)
	setStr("formulation_reference", req.FormulationReference)
	setStr("site", req.Site)
	setStr("skutype", req.SkuType)
	setStr("bulk_expert", req.BulkExpert)
	setStr("period", req.Period)
	setStr("dual_source", req.DualSource)
	if req.PurchasedQuantity != nil {
		fields["purchased_quantity"] = *req.PurchasedQuantity
	}

	sku, err := s.skus.UpdateByCode(ctx, skuCode, fields)
	if err != nil {
		return nil, apierr.Persistence("updating sku", err)
	}
	if sku == nil {
		return nil, apierr.NotFound(fmt.Sprintf("SKU %s not found", skuCode))
	}

	removed, err := s.components.RemoveSkuFromAll(ctx, skuCode)
	if err != nil {
		return nil, apierr.Persistence("unlinking components", err)
	}

	var linked []domain.ComponentDetail
	external := req.SkuType != nil && *req.SkuType == skuTypeExternal
	if !external && len(req.ComponentIDs) > 0 {
		linked, err = s.components.AddSkuToIDs(ctx, skuCode, req.ComponentIDs)
		if err != nil {
			return nil, apierr.Persistence("linking components", err)
		}
	}

	return &SkuUpdateResult{Sku: sku, RemovedComponents: removed, LinkedComponents: linked}, nil
}

func (s *SkuService) SetActive(ctx context.Context, id int, active bool) (*domain.SkuDetail, error) {
	sku, err := s.skus.SetActiveByID(ctx, id, active)
	if err != nil {
		return nil, apierr.Persistence("toggling sku", err)
	}
	if sku == nil {
		return nil, apierr.NotFound(fmt.Sprintf("SKU %d not found", id))
	}
	return sku, nil
}

// ToggleStatus flips the active flag on either record type.
func (s *SkuService) ToggleStatus(ctx context.Context, recordType string, id int, active bool) (interface{}, error) {
	switch recordType {
	case "sku":
		return s.SetActive(ctx, id, active)
	case "component":
		component, err := s.components.SetActive(ctx, id, active)
		if err != nil {
			return nil, apierr.Persistence("toggling component", err)
		}
		if component == nil {
			return nil, apierr.NotFound(fmt.Sprintf("Component %d not found", id))
		}
		return component, nil
	default:
		return nil, apierr.Validation("type must be sku or component")
	}
}

// ActiveYears lists the distinct period labels carried by active SKUs.
func (s *SkuService) ActiveYears(ctx context.Context) ([]string, error) {
	skus, err := s.skus.GetAll(ctx)
	if err != nil {
		return nil, apierr.Persistence("listing skus", err)
	}
	seen := map[string]bool{}
	var years []string
	for _, sku := range skus {
		if !sku.IsActive || sku.Period == nil || *sku.Period == "" {
			continue
		}
		if !seen[*sku.Period] {
			seen[*sku.Period] = true
			years = append(years, *sku.Period)
		}
	}
	sort.Strings(years)
	return years, nil
}

// GetComponentsBySkuReference returns active components whose sku_code list
// contains the given code, with their evidence omitted; the handler layer
// decides whether to hydrate files.
func (s *SkuService) GetComponentsBySkuReference(ctx context.Context, cmCode, skuCode string) ([]domain.ComponentDetail, error) {
	if strings.TrimSpace(cmCode) == "" || strings.TrimSpace(skuCode) == "" {
		return nil, apierr.Validation("cm_code and sku_code are required")
	}
	components, err := s.components.GetBySkuReference(ctx, cmCode, skuCode)
	if err != nil {
		return nil, apierr.Persistence("matching components by sku reference", err)
	}
	if len(components) == 0 {
		return nil, apierr.NotFound(fmt.Sprintf(
			"No active component details found for cm_code %s and sku_code %s", cmCode, skuCode))
	}
	return components, nil
}
