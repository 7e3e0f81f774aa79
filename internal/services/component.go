package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/packtrace/sdp-backend/internal/domain"
	"github.com/packtrace/sdp-backend/internal/platform/apierr"
	"github.com/packtrace/sdp-backend/internal/platform/logger"
	"github.com/packtrace/sdp-backend/internal/repos"
)

// ComponentWithEvidence is a component row hydrated with its evidence files.
type ComponentWithEvidence struct {
	domain.ComponentDetail
	EvidenceFiles []domain.EvidenceFile `json:"evidence_files"`
}

// dashboardSections is the validated include-list vocabulary.
var dashboardSections = []string{
	"skus",
	"descriptions",
	"references",
	"audit_logs",
	"component_data",
	"master_data",
}

type DashboardQuery struct {
	CmCode      string
	Include     []string
	Period      string
	Search      string
	ComponentID int
}

type ComponentService struct {
	log        *logger.Logger
	components repos.ComponentRepo
	mappings   repos.MappingRepo
	evidence   repos.EvidenceRepo
	audits     repos.AuditLogRepo
	skus       repos.SkuRepo
	masterData *MasterDataService
}

func NewComponentService(
	log *logger.Logger,
	components repos.ComponentRepo,
	mappings repos.MappingRepo,
	evidence repos.EvidenceRepo,
	audits repos.AuditLogRepo,
	skus repos.SkuRepo,
	masterData *MasterDataService,
) *ComponentService {
	return &ComponentService{
		log:        log.With("service", "ComponentService"),
		components: components,
		mappings:   mappings,
		evidence:   evidence,
		audits:     audits,
		skus:       skus,
		masterData: masterData,
	}
}

// GetByCode returns every row sharing the component code, each with its
// evidence files attached.
func (s *ComponentService) GetByCode(ctx context.Context, componentCode string) ([]ComponentWithEvidence, error) {
	if strings.TrimSpace(componentCode) == "" {
		return nil, apierr.Validation("component_code is required")
	}
	components, err := s.components.GetAllByCode(ctx, componentCode)
	if err != nil {
		return nil, apierr.Persistence("loading components", err)
	}
	return s.hydrateEvidence(ctx, components)
}

func (s *ComponentService) hydrateEvidence(ctx context.Context, components []domain.ComponentDetail) ([]ComponentWithEvidence, error) {
	ids := make([]int, 0, len(components))
	for _, c := range components {
		ids = append(ids, c.ID)
	}
	files, err := s.evidence.GetByComponentIDs(ctx, ids)
	if err != nil {
		return nil, apierr.Persistence("loading evidence files", err)
	}
	byComponent := map[int][]domain.EvidenceFile{}
	for _, f := range files {
		byComponent[f.ComponentID] = append(byComponent[f.ComponentID], f)
	}
	out := make([]ComponentWithEvidence, 0, len(components))
	for _, c := range components {
		out = append(out, ComponentWithEvidence{ComponentDetail: c, EvidenceFiles: byComponent[c.ID]})
	}
	return out, nil
}

// GetMappingsWithComponents joins the mapping rows for a manufacturer/SKU
// pair with the component details sharing each component_code.
func (s *ComponentService) GetMappingsWithComponents(ctx context.Context, cmCode, skuCode string) ([]MappingWithComponent, error) {
	if strings.TrimSpace(cmCode) == "" || strings.TrimSpace(skuCode) == "" {
		return nil, apierr.Validation("cm_code and sku_code are required")
	}
	mappings, err := s.mappings.GetByCmAndSku(ctx, cmCode, skuCode)
	if err != nil {
		return nil, apierr.Persistence("loading mappings", err)
	}
	codes := make([]string, 0, len(mappings))
	seen := map[string]bool{}
	for _, m := range mappings {
		if m.ComponentCode == nil || seen[*m.ComponentCode] {
			continue
		}
		seen[*m.ComponentCode] = true
		codes = append(codes, *m.ComponentCode)
	}
	components, err := s.components.GetByCodes(ctx, codes)
	if err != nil {
		return nil, apierr.Persistence("loading components", err)
	}
	byCode := map[string]*domain.ComponentDetail{}
	for i := range components {
		c := &components[i]
		if c.ComponentCode != nil {
			if _, ok := byCode[*c.ComponentCode]; !ok {
				byCode[*c.ComponentCode] = c
			}
		}
	}
	out := make([]MappingWithComponent, 0, len(mappings))
	for _, m := range mappings {
		var component *domain.ComponentDetail
		if m.ComponentCode != nil {
			component = byCode[*m.ComponentCode]
		}
		out = append(out, MappingWithComponent{Mapping: m, Component: component})
	}
	return out, nil
}

// Dashboard assembles the requested sections in one call. An unknown
// section name fails the whole request so clients notice typos.
func (s *ComponentService) Dashboard(ctx context.Context, q DashboardQuery) (map[string]interface{}, error) {
	if strings.TrimSpace(q.CmCode) == "" {
		return nil, apierr.Validation("cm_code is required")
	}
	include := q.Include
	if len(include) == 0 {
		include = dashboardSections
	}
	for _, section := range include {
		if !isDashboardSection(section) {
			return nil, apierr.Validation("invalid include value: "+section).
				WithDetails("allowed", dashboardSections)
		}
	}

	out := map[string]interface{}{"cm_code": q.CmCode}
	for _, section := range include {
		switch section {
		case "skus":
			skus, err := s.skus.GetByCmCode(ctx, q.CmCode)
			if err != nil {
				return nil, apierr.Persistence("loading skus", err)
			}
			out["skus"] = filterSkus(skus, q.Period, q.Search)
		case "descriptions":
			skus, err := s.skus.GetByCmCode(ctx, q.CmCode)
			if err != nil {
				return nil, apierr.Persistence("loading sku descriptions", err)
			}
			descriptions := make([]repos.SkuDescription, 0, len(skus))
			for _, sku := range skus {
				if !sku.IsActive {
					continue
				}
				descriptions = append(descriptions, repos.SkuDescription{
					SkuCode:        sku.SkuCode,
					SkuDescription: sku.SkuDescription,
					CmCode:         sku.CmCode,
					CmDescription:  sku.CmDescription,
				})
			}
			out["descriptions"] = descriptions
		case "references":
			mappings, err := s.mappings.GetByCmCode(ctx, q.CmCode)
			if err != nil {
				return nil, apierr.Persistence("loading mapping references", err)
			}
			out["references"] = mappings
		case "audit_logs":
			logs, err := s.audits.GetByCmCode(ctx, q.CmCode)
			if err != nil {
				return nil, apierr.Persistence("loading audit logs", err)
			}
			out["audit_logs"] = logs
		case "component_data":
			components, err := s.components.GetByCmCode(ctx, q.CmCode)
			if err != nil {
				return nil, apierr.Persistence("loading components", err)
			}
			if q.ComponentID > 0 {
				filtered := components[:0]
				for _, c := range components {
					if c.ID == q.ComponentID {
						filtered = append(filtered, c)
					}
				}
				components = filtered
			}
			hydrated, err := s.hydrateEvidence(ctx, components)
			if err != nil {
				return nil, err
			}
			out["component_data"] = hydrated
		case "master_data":
			bundle, err := s.masterData.GetBundle(ctx)
			if err != nil {
				return nil, err
			}
			out["master_data"] = bundle
		}
	}
	return out, nil
}

func isDashboardSection(name string) bool {
	for _, s := range dashboardSections {
		if s == name {
			return true
		}
	}
	return false
}

func filterSkus(skus []domain.SkuDetail, period, search string) []domain.SkuDetail {
	out := make([]domain.SkuDetail, 0, len(skus))
	needle := strings.ToLower(strings.TrimSpace(search))
	for _, sku := range skus {
		if period != "" && (sku.Period == nil || *sku.Period != period) {
			continue
		}
		if needle != "" {
			haystack := strings.ToLower(sku.SkuCode + " " + sku.SkuDescription)
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		out = append(out, sku)
	}
	return out
}

// ParseIncludeList splits a comma-separated include parameter, dropping
// empty segments.
func ParseIncludeList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ParseComponentID tolerates an absent or malformed id by returning zero.
func ParseComponentID(raw string) int {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id < 0 {
		return 0
	}
	return id
}
