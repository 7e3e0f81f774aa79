package services

import (
	"context"
	"testing"

	"github.com/packtrace/sdp-backend/internal/domain"
	"github.com/packtrace/sdp-backend/internal/platform/apierr"
	"github.com/packtrace/sdp-backend/internal/platform/logger"
	"github.com/packtrace/sdp-backend/internal/repos"
)

func intPtr(i int) *int { return &i }

func newComponentHarness(t *testing.T) (*ComponentService, *SkuService) {
	t.Helper()
	gdb := openTestDB(t)
	log := logger.NewNop()
	skus := repos.NewSkuRepo(gdb, log)
	components := repos.NewComponentRepo(gdb, log)
	mappings := repos.NewMappingRepo(gdb, log)
	evidence := repos.NewEvidenceRepo(gdb, log)
	audits := repos.NewAuditLogRepo(gdb, log)
	periods := repos.NewPeriodRepo(gdb, log)
	masterData := NewMasterDataService(log, repos.NewMasterDataRepo(gdb), periods, nil, 0)
	svc := NewComponentService(log, components, mappings, evidence, audits, skus, masterData)
	skuSvc := NewSkuService(log, skus, components, periods, SkuStrictDescription)

	ctx := context.Background()
	comp := &domain.ComponentDetail{CmCode: strPtr("CM001"), SkuCode: strPtr("SKU001"), ComponentCode: strPtr("COMP-A"), IsActive: true}
	if err := components.Create(ctx, comp); err != nil {
		t.Fatalf("seed component: %v", err)
	}
	if err := evidence.Create(ctx, &domain.EvidenceFile{
		ComponentID:      comp.ID,
		EvidenceFileName: "scale.pdf",
		EvidenceFileURL:  "https://x/scale.pdf",
		Category:         "weight_evidence",
	}); err != nil {
		t.Fatalf("seed evidence: %v", err)
	}
	if err := mappings.Create(ctx, &domain.ComponentMapping{
		CmCode:        strPtr("CM001"),
		SkuCode:       strPtr("SKU001"),
		ComponentCode: strPtr("COMP-A"),
		Version:       intPtr(1),
		IsActive:      true,
	}); err != nil {
		t.Fatalf("seed mapping: %v", err)
	}
	if err := audits.Create(ctx, &domain.ComponentAuditLog{ComponentID: comp.ID, CmCode: strPtr("CM001")}); err != nil {
		t.Fatalf("seed audit: %v", err)
	}
	return svc, skuSvc
}

func TestComponentGetByCodeHydratesEvidence(t *testing.T) {
	svc, _ := newComponentHarness(t)

	got, err := svc.GetByCode(context.Background(), "COMP-A")
	if err != nil {
		t.Fatalf("GetByCode: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d components", len(got))
	}
	if len(got[0].EvidenceFiles) != 1 || got[0].EvidenceFiles[0].EvidenceFileName != "scale.pdf" {
		t.Fatalf("evidence = %+v", got[0].EvidenceFiles)
	}

	if _, err := svc.GetByCode(context.Background(), "  "); err == nil {
		t.Fatal("blank code must be rejected")
	}
}

func TestMappingsJoinComponents(t *testing.T) {
	svc, _ := newComponentHarness(t)

	got, err := svc.GetMappingsWithComponents(context.Background(), "CM001", "SKU001")
	if err != nil {
		t.Fatalf("GetMappingsWithComponents: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d mappings", len(got))
	}
	if got[0].Component == nil || *got[0].Component.ComponentCode != "COMP-A" {
		t.Fatalf("joined component = %+v", got[0].Component)
	}
}

func TestDashboardAssemblesSections(t *testing.T) {
	svc, skuSvc := newComponentHarness(t)
	ctx := context.Background()

	if _, _, err := skuSvc.Insert(ctx, SkuInsertRequest{
		SkuCode:        "SKU001",
		SkuDescription: "Dashboard SKU",
		CmCode:         strPtr("CM001"),
		Period:         strPtr("2025"),
	}); err != nil {
		t.Fatalf("insert sku: %v", err)
	}

	data, err := svc.Dashboard(ctx, DashboardQuery{
		CmCode:  "CM001",
		Include: []string{"skus", "component_data", "audit_logs"},
	})
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if _, ok := data["master_data"]; ok {
		t.Fatal("unrequested section present")
	}
	skus := data["skus"].([]domain.SkuDetail)
	if len(skus) != 1 {
		t.Fatalf("skus = %+v", skus)
	}
	componentData := data["component_data"].([]ComponentWithEvidence)
	if len(componentData) != 1 || len(componentData[0].EvidenceFiles) != 1 {
		t.Fatalf("component_data = %+v", componentData)
	}
	logs := data["audit_logs"].([]domain.ComponentAuditLog)
	if len(logs) != 1 {
		t.Fatalf("audit_logs = %+v", logs)
	}

	// Search that misses filters the sku list out.
	data, err = svc.Dashboard(ctx, DashboardQuery{
		CmCode:  "CM001",
		Include: []string{"skus"},
		Search:  "no such sku",
	})
	if err != nil {
		t.Fatalf("Dashboard search: %v", err)
	}
	if skus := data["skus"].([]domain.SkuDetail); len(skus) != 0 {
		t.Fatalf("search should filter, got %+v", skus)
	}

	_, err = svc.Dashboard(ctx, DashboardQuery{CmCode: "CM001", Include: []string{"bogus"}})
	ae := apierr.From(err, "unexpected")
	if ae == nil || ae.Status != 400 {
		t.Fatalf("expected 400 for unknown section, got %v", err)
	}
}
