package services

import (
	"context"
	"testing"

	"github.com/packtrace/sdp-backend/internal/domain"
	"github.com/packtrace/sdp-backend/internal/platform/apierr"
	"github.com/packtrace/sdp-backend/internal/platform/logger"
	"github.com/packtrace/sdp-backend/internal/repos"
)

func strPtr(s string) *string { return &s }

type skuHarness struct {
	service    *SkuService
	components repos.ComponentRepo
	skus       repos.SkuRepo
}

func newSkuHarness(t *testing.T, strategy SkuInsertStrategy) *skuHarness {
	t.Helper()
	gdb := openTestDB(t)
	log := logger.NewNop()
	skus := repos.NewSkuRepo(gdb, log)
	components := repos.NewComponentRepo(gdb, log)
	periods := repos.NewPeriodRepo(gdb, log)
	return &skuHarness{
		service:    NewSkuService(log, skus, components, periods, strategy),
		components: components,
		skus:       skus,
	}
}

func TestSkuInsertConflictsOnCode(t *testing.T) {
	h := newSkuHarness(t, SkuStrictDescription)
	ctx := context.Background()

	if _, _, err := h.service.Insert(ctx, SkuInsertRequest{SkuCode: "SKU001", SkuDescription: "First"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	_, _, err := h.service.Insert(ctx, SkuInsertRequest{SkuCode: "SKU001", SkuDescription: "Other"})
	ae := apierr.From(err, "unexpected")
	if ae == nil || ae.Status != 409 {
		t.Fatalf("expected 409, got %v", err)
	}
}

func TestSkuInsertDuplicateDescriptionStrategies(t *testing.T) {
	ctx := context.Background()

	// Each subtest gets its own in-memory database through t.Name().
	t.Run("strict", func(t *testing.T) {
		h := newSkuHarness(t, SkuStrictDescription)
		if _, _, err := h.service.Insert(ctx, SkuInsertRequest{SkuCode: "SKU001", SkuDescription: "Shampoo Bottle"}); err != nil {
			t.Fatalf("insert: %v", err)
		}
		_, _, err := h.service.Insert(ctx, SkuInsertRequest{SkuCode: "SKU002", SkuDescription: " shampoo bottle "})
		ae := apierr.From(err, "unexpected")
		if ae == nil || ae.Status != 422 {
			t.Fatalf("expected 422, got %v", err)
		}
		similar, ok := ae.Details["similar_skus"].([]repos.SkuDescription)
		if !ok || len(similar) != 1 || similar[0].SkuCode != "SKU001" {
			t.Fatalf("similar skus = %v", ae.Details["similar_skus"])
		}
	})

	t.Run("no-check", func(t *testing.T) {
		h := newSkuHarness(t, SkuNoDescriptionCheck)
		if _, _, err := h.service.Insert(ctx, SkuInsertRequest{SkuCode: "SKU001", SkuDescription: "Shampoo Bottle"}); err != nil {
			t.Fatalf("insert: %v", err)
		}
		if _, _, err := h.service.Insert(ctx, SkuInsertRequest{SkuCode: "SKU002", SkuDescription: "shampoo bottle"}); err != nil {
			t.Fatalf("no-check strategy should allow duplicate description, got %v", err)
		}
	})
}

func TestSkuInsertLinksComponents(t *testing.T) {
	h := newSkuHarness(t, SkuStrictDescription)
	ctx := context.Background()

	comp := &domain.ComponentDetail{ComponentCode: strPtr("COMP-A"), SkuCode: strPtr("SKU000"), IsActive: true}
	if err := h.components.Create(ctx, comp); err != nil {
		t.Fatalf("seed component: %v", err)
	}

	_, linked, err := h.service.Insert(ctx, SkuInsertRequest{
		SkuCode:        "SKU001",
		SkuDescription: "Linked SKU",
		ComponentIDs:   []int{comp.ID},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if len(linked) != 1 || *linked[0].SkuCode != "SKU000,SKU001" {
		t.Fatalf("linked = %+v", linked)
	}

	// External SKUs never join component lists.
	_, linked, err = h.service.Insert(ctx, SkuInsertRequest{
		SkuCode:        "SKU002",
		SkuDescription: "External SKU",
		SkuType:        "external",
		ComponentIDs:   []int{comp.ID},
	})
	if err != nil {
		t.Fatalf("insert external: %v", err)
	}
	if len(linked) != 0 {
		t.Fatalf("external insert linked components: %+v", linked)
	}
}

func TestSkuUpdateRelinksComponents(t *testing.T) {
	h := newSkuHarness(t, SkuStrictDescription)
	ctx := context.Background()

	a := &domain.ComponentDetail{ComponentCode: strPtr("COMP-A"), SkuCode: strPtr("SKU001"), IsActive: true}
	b := &domain.ComponentDetail{ComponentCode: strPtr("COMP-B"), SkuCode: strPtr("SKU009"), IsActive: true}
	for _, c := range []*domain.ComponentDetail{a, b} {
		if err := h.components.Create(ctx, c); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if _, _, err := h.service.Insert(ctx, SkuInsertRequest{SkuCode: "SKU001", SkuDescription: "To update"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	result, err := h.service.Update(ctx, "SKU001", SkuUpdateRequest{
		SkuDescription: strPtr("Updated"),
		ComponentIDs:   []int{b.ID},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if result.Sku.SkuDescription != "Updated" {
		t.Fatalf("description = %q", result.Sku.SkuDescription)
	}
	if len(result.RemovedComponents) != 1 || *result.RemovedComponents[0].ComponentCode != "COMP-A" {
		t.Fatalf("removed = %+v", result.RemovedComponents)
	}
	if len(result.LinkedComponents) != 1 || *result.LinkedComponents[0].SkuCode != "SKU009,SKU001" {
		t.Fatalf("linked = %+v", result.LinkedComponents)
	}

	// Switching to external strips the code everywhere without re-adding.
	result, err = h.service.Update(ctx, "SKU001", SkuUpdateRequest{
		SkuType:      strPtr("external"),
		ComponentIDs: []int{a.ID},
	})
	if err != nil {
		t.Fatalf("update external: %v", err)
	}
	if len(result.LinkedComponents) != 0 {
		t.Fatalf("external update linked components: %+v", result.LinkedComponents)
	}

	_, err = h.service.Update(ctx, "SKU404", SkuUpdateRequest{})
	ae := apierr.From(err, "unexpected")
	if ae == nil || ae.Status != 404 {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestToggleStatus(t *testing.T) {
	h := newSkuHarness(t, SkuStrictDescription)
	ctx := context.Background()

	comp := &domain.ComponentDetail{ComponentCode: strPtr("COMP-A"), IsActive: true}
	if err := h.components.Create(ctx, comp); err != nil {
		t.Fatalf("seed: %v", err)
	}
	sku, _, err := h.service.Insert(ctx, SkuInsertRequest{SkuCode: "SKU001", SkuDescription: "Toggle me"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	toggled, err := h.service.ToggleStatus(ctx, "sku", sku.ID, false)
	if err != nil {
		t.Fatalf("toggle sku: %v", err)
	}
	if toggled.(*domain.SkuDetail).IsActive {
		t.Fatal("sku still active")
	}

	toggledComp, err := h.service.ToggleStatus(ctx, "component", comp.ID, false)
	if err != nil {
		t.Fatalf("toggle component: %v", err)
	}
	if toggledComp.(*domain.ComponentDetail).IsActive {
		t.Fatal("component still active")
	}

	if _, err := h.service.ToggleStatus(ctx, "warehouse", 1, true); err == nil {
		t.Fatal("unknown type must be rejected")
	}
}

func TestActiveYears(t *testing.T) {
	h := newSkuHarness(t, SkuStrictDescription)
	ctx := context.Background()

	for _, req := range []SkuInsertRequest{
		{SkuCode: "SKU001", SkuDescription: "A", Period: strPtr("2025")},
		{SkuCode: "SKU002", SkuDescription: "B", Period: strPtr("2024")},
		{SkuCode: "SKU003", SkuDescription: "C", Period: strPtr("2025")},
	} {
		if _, _, err := h.service.Insert(ctx, req); err != nil {
			t.Fatalf("insert %s: %v", req.SkuCode, err)
		}
	}
	sku, err := h.skus.GetByCode(ctx, "SKU002")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := h.service.SetActive(ctx, sku.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	years, err := h.service.ActiveYears(ctx)
	if err != nil {
		t.Fatalf("ActiveYears: %v", err)
	}
	if len(years) != 1 || years[0] != "2025" {
		t.Fatalf("years = %v", years)
	}
}
