package repos

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/packtrace/sdp-backend/internal/db"
	"github.com/packtrace/sdp-backend/internal/domain"
	"github.com/packtrace/sdp-backend/internal/platform/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func timePtr(v time.Time) *time.Time { return &v }

func TestComponentRepoReuseLookup(t *testing.T) {
	gdb := openTestDB(t)
	repo := NewComponentRepo(gdb, logger.NewNop())
	ctx := context.Background()

	first := &domain.ComponentDetail{
		CmCode:        strPtr("CM001"),
		SkuCode:       strPtr("SKU001"),
		ComponentCode: strPtr("COMP-A"),
		IsActive:      true,
	}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}
	second := &domain.ComponentDetail{
		CmCode:        strPtr("CM001"),
		SkuCode:       strPtr("SKU002"),
		ComponentCode: strPtr("COMP-A"),
		IsActive:      true,
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetActiveByCode(ctx, "COMP-A")
	if err != nil {
		t.Fatalf("GetActiveByCode: %v", err)
	}
	if got == nil || got.ID != first.ID {
		t.Fatalf("expected earliest row %d, got %+v", first.ID, got)
	}

	missing, err := repo.GetActiveByCode(ctx, "COMP-Z")
	if err != nil {
		t.Fatalf("GetActiveByCode missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown code, got %+v", missing)
	}
}

func TestComponentRepoExistsByNaturalKey(t *testing.T) {
	gdb := openTestDB(t)
	repo := NewComponentRepo(gdb, logger.NewNop())
	ctx := context.Background()

	from := timePtr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	to := timePtr(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	if err := repo.Create(ctx, &domain.ComponentDetail{
		CmCode:             strPtr("CM001"),
		SkuCode:            strPtr("SKU001"),
		ComponentCode:      strPtr("COMP-A"),
		ComponentValidFrom: from,
		ComponentValidTo:   to,
		IsActive:           true,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, &domain.ComponentDetail{
		CmCode:        strPtr("CM001"),
		SkuCode:       strPtr("SKU001"),
		ComponentCode: strPtr("COMP-B"),
		IsActive:      true,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	exists, err := repo.ExistsByNaturalKey(ctx, "CM001", "SKU001", "COMP-A", from, to)
	if err != nil || !exists {
		t.Fatalf("expected match with dates, got exists=%v err=%v", exists, err)
	}
	exists, err = repo.ExistsByNaturalKey(ctx, "CM001", "SKU001", "COMP-A", nil, nil)
	if err != nil || exists {
		t.Fatalf("nil dates should not match dated row, got exists=%v err=%v", exists, err)
	}
	exists, err = repo.ExistsByNaturalKey(ctx, "CM001", "SKU001", "COMP-B", nil, nil)
	if err != nil || !exists {
		t.Fatalf("nil dates should match NULL columns, got exists=%v err=%v", exists, err)
	}
	exists, err = repo.ExistsByNaturalKey(ctx, "CM002", "SKU001", "COMP-A", from, to)
	if err != nil || exists {
		t.Fatalf("different cm should not match, got exists=%v err=%v", exists, err)
	}
}

func TestComponentRepoSkuReferenceMatching(t *testing.T) {
	gdb := openTestDB(t)
	repo := NewComponentRepo(gdb, logger.NewNop())
	ctx := context.Background()

	rows := []struct {
		code string
		skus string
	}{
		{"COMP-EXACT", "SKU001"},
		{"COMP-PREFIX", "SKU001,SKU002"},
		{"COMP-MIDDLE", "SKU000,SKU001,SKU002"},
		{"COMP-SUFFIX", "SKU000,SKU001"},
		{"COMP-SUBSTRING", "SKU0011"},
		{"COMP-OTHER", "SKU009"},
	}
	for _, row := range rows {
		if err := repo.Create(ctx, &domain.ComponentDetail{
			CmCode:        strPtr("CM001"),
			SkuCode:       strPtr(row.skus),
			ComponentCode: strPtr(row.code),
			IsActive:      true,
		}); err != nil {
			t.Fatalf("create %s: %v", row.code, err)
		}
	}

	got, err := repo.GetBySkuReference(ctx, "CM001", "SKU001")
	if err != nil {
		t.Fatalf("GetBySkuReference: %v", err)
	}
	codes := make([]string, 0, len(got))
	for _, c := range got {
		codes = append(codes, *c.ComponentCode)
	}
	want := []string{"COMP-EXACT", "COMP-MIDDLE", "COMP-PREFIX", "COMP-SUFFIX"}
	if len(codes) != len(want) {
		t.Fatalf("got codes %v, want %v", codes, want)
	}
	for i, code := range want {
		if codes[i] != code {
			t.Fatalf("got codes %v, want %v", codes, want)
		}
	}
}

func TestComponentRepoSkuListEditing(t *testing.T) {
	gdb := openTestDB(t)
	repo := NewComponentRepo(gdb, logger.NewNop())
	ctx := context.Background()

	a := &domain.ComponentDetail{CmCode: strPtr("CM001"), SkuCode: strPtr("SKU001,SKU002"), ComponentCode: strPtr("COMP-A"), IsActive: true}
	b := &domain.ComponentDetail{CmCode: strPtr("CM001"), SkuCode: strPtr("SKU001"), ComponentCode: strPtr("COMP-B"), IsActive: true}
	c := &domain.ComponentDetail{CmCode: strPtr("CM001"), SkuCode: strPtr("SKU003"), ComponentCode: strPtr("COMP-C"), IsActive: true}
	for _, row := range []*domain.ComponentDetail{a, b, c} {
		if err := repo.Create(ctx, row); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	removed, err := repo.RemoveSkuFromAll(ctx, "SKU001")
	if err != nil {
		t.Fatalf("RemoveSkuFromAll: %v", err)
	}
	if len(removed) != 2 {
		t.Fatalf("expected 2 edits, got %d", len(removed))
	}
	reloaded, err := repo.GetAllByCode(ctx, "COMP-A")
	if err != nil || len(reloaded) != 1 {
		t.Fatalf("reload COMP-A: %v %v", reloaded, err)
	}
	if *reloaded[0].SkuCode != "SKU002" {
		t.Fatalf("COMP-A list after removal = %q", *reloaded[0].SkuCode)
	}

	added, err := repo.AddSkuToIDs(ctx, "SKU001", []int{a.ID, c.ID})
	if err != nil {
		t.Fatalf("AddSkuToIDs: %v", err)
	}
	if len(added) != 2 {
		t.Fatalf("expected 2 rows back, got %d", len(added))
	}
	reloaded, err = repo.GetAllByCode(ctx, "COMP-C")
	if err != nil || len(reloaded) != 1 {
		t.Fatalf("reload COMP-C: %v %v", reloaded, err)
	}
	if *reloaded[0].SkuCode != "SKU003,SKU001" {
		t.Fatalf("COMP-C list after add = %q", *reloaded[0].SkuCode)
	}

	// Adding again is a no-op.
	again, err := repo.AddSkuToIDs(ctx, "SKU001", []int{c.ID})
	if err != nil || len(again) != 1 {
		t.Fatalf("AddSkuToIDs repeat: %v %v", again, err)
	}
	if *again[0].SkuCode != "SKU003,SKU001" {
		t.Fatalf("repeat add changed list to %q", *again[0].SkuCode)
	}
}

func TestListElementHelpers(t *testing.T) {
	if got := removeListElement("SKU001", "SKU001"); got != "" {
		t.Fatalf("remove sole element = %q", got)
	}
	if got := removeListElement("SKU001, SKU002", "SKU001"); got != "SKU002" {
		t.Fatalf("remove with spaces = %q", got)
	}
	if got := addListElement("", "SKU001"); got != "SKU001" {
		t.Fatalf("add to empty = %q", got)
	}
	if got := addListElement("SKU001,SKU002", "SKU002"); got != "SKU001,SKU002" {
		t.Fatalf("duplicate add = %q", got)
	}
}

func TestComponentRepoSetActive(t *testing.T) {
	gdb := openTestDB(t)
	repo := NewComponentRepo(gdb, logger.NewNop())
	ctx := context.Background()

	row := &domain.ComponentDetail{CmCode: strPtr("CM001"), ComponentCode: strPtr("COMP-A"), IsActive: true}
	if err := repo.Create(ctx, row); err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := repo.SetActive(ctx, row.ID, false)
	if err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if updated == nil || updated.IsActive {
		t.Fatalf("expected inactive row, got %+v", updated)
	}
	missing, err := repo.SetActive(ctx, 9999, true)
	if err != nil || missing != nil {
		t.Fatalf("expected nil for unknown id, got %+v err=%v", missing, err)
	}
}

func TestSkuRepoDescriptions(t *testing.T) {
	gdb := openTestDB(t)
	repo := NewSkuRepo(gdb, logger.NewNop())
	ctx := context.Background()

	for _, sku := range []*domain.SkuDetail{
		{SkuCode: "SKU001", SkuDescription: "Shampoo Bottle 250ml", CmCode: strPtr("CM001"), IsActive: true},
		{SkuCode: "SKU002", SkuDescription: "  Shampoo Bottle 500ml  ", CmCode: strPtr("CM001"), IsActive: true},
		{SkuCode: "SKU003", SkuDescription: "Retired Pack", CmCode: strPtr("CM002"), IsActive: false},
	} {
		if err := repo.Create(ctx, sku); err != nil {
			t.Fatalf("create %s: %v", sku.SkuCode, err)
		}
	}

	exists, err := repo.ExistsByCode(ctx, "SKU001")
	if err != nil || !exists {
		t.Fatalf("ExistsByCode: exists=%v err=%v", exists, err)
	}

	exists, err = repo.ExistsByNormalizedDescription(ctx, " shampoo bottle 500ml ")
	if err != nil || !exists {
		t.Fatalf("normalized description should match, got exists=%v err=%v", exists, err)
	}
	exists, err = repo.ExistsByNormalizedDescription(ctx, "conditioner")
	if err != nil || exists {
		t.Fatalf("unrelated description matched: exists=%v err=%v", exists, err)
	}

	similar, err := repo.GetSimilarDescriptions(ctx, "Shampoo Bottle")
	if err != nil {
		t.Fatalf("GetSimilarDescriptions: %v", err)
	}
	if len(similar) != 2 {
		t.Fatalf("expected 2 similar rows, got %d", len(similar))
	}

	all, err := repo.GetAllDescriptions(ctx)
	if err != nil {
		t.Fatalf("GetAllDescriptions: %v", err)
	}
	for _, d := range all {
		if d.SkuCode == "SKU003" {
			t.Fatalf("inactive sku included in descriptions")
		}
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 active descriptions, got %d", len(all))
	}
}

func TestSkuRepoUpdateAndToggle(t *testing.T) {
	gdb := openTestDB(t)
	repo := NewSkuRepo(gdb, logger.NewNop())
	ctx := context.Background()

	sku := &domain.SkuDetail{SkuCode: "SKU001", SkuDescription: "Original", IsActive: true}
	if err := repo.Create(ctx, sku); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := repo.UpdateByCode(ctx, "SKU001", map[string]interface{}{
		"sku_description": "Renamed",
		"site":            "Plant 7",
	})
	if err != nil {
		t.Fatalf("UpdateByCode: %v", err)
	}
	if updated == nil || updated.SkuDescription != "Renamed" || updated.Site == nil || *updated.Site != "Plant 7" {
		t.Fatalf("update not applied: %+v", updated)
	}

	missing, err := repo.UpdateByCode(ctx, "SKU404", map[string]interface{}{"site": "x"})
	if err != nil || missing != nil {
		t.Fatalf("expected nil for unknown code, got %+v err=%v", missing, err)
	}

	toggled, err := repo.SetActiveByID(ctx, sku.ID, false)
	if err != nil {
		t.Fatalf("SetActiveByID: %v", err)
	}
	if toggled == nil || toggled.IsActive {
		t.Fatalf("expected inactive sku, got %+v", toggled)
	}
}

func TestMappingRepoNaturalKeyAndOrdering(t *testing.T) {
	gdb := openTestDB(t)
	repo := NewMappingRepo(gdb, logger.NewNop())
	ctx := context.Background()

	from := timePtr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	for _, m := range []*domain.ComponentMapping{
		{CmCode: strPtr("CM001"), SkuCode: strPtr("SKU001"), ComponentCode: strPtr("COMP-B"), Version: intPtr(2), ComponentValidFrom: from, IsActive: true},
		{CmCode: strPtr("CM001"), SkuCode: strPtr("SKU001"), ComponentCode: strPtr("COMP-A"), Version: intPtr(1), IsActive: true},
		{CmCode: strPtr("CM001"), SkuCode: strPtr("SKU002"), ComponentCode: strPtr("COMP-A"), Version: intPtr(1), IsActive: true},
	} {
		if err := repo.Create(ctx, m); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	exists, err := repo.ExistsByNaturalKey(ctx, "CM001", "SKU001", "COMP-B", from, nil)
	if err != nil || !exists {
		t.Fatalf("dated mapping should match, got exists=%v err=%v", exists, err)
	}
	exists, err = repo.ExistsByNaturalKey(ctx, "CM001", "SKU001", "COMP-B", nil, nil)
	if err != nil || exists {
		t.Fatalf("nil validFrom should not match dated row, got exists=%v err=%v", exists, err)
	}

	got, err := repo.GetByCmAndSku(ctx, "CM001", "SKU001")
	if err != nil {
		t.Fatalf("GetByCmAndSku: %v", err)
	}
	if len(got) != 2 || *got[0].ComponentCode != "COMP-A" || *got[1].ComponentCode != "COMP-B" {
		t.Fatalf("unexpected ordering: %+v", got)
	}

	all, err := repo.GetByCmCode(ctx, "CM001")
	if err != nil || len(all) != 3 {
		t.Fatalf("GetByCmCode: %d rows, err=%v", len(all), err)
	}
}

func TestEvidenceRepoByComponent(t *testing.T) {
	gdb := openTestDB(t)
	repo := NewEvidenceRepo(gdb, logger.NewNop())
	ctx := context.Background()

	for _, e := range []*domain.EvidenceFile{
		{ComponentID: 1, EvidenceFileName: "a.pdf", EvidenceFileURL: "https://x/a.pdf", Category: "weight_evidence"},
		{ComponentID: 1, EvidenceFileName: "b.pdf", EvidenceFileURL: "https://x/b.pdf", Category: "other_evidence"},
		{ComponentID: 2, EvidenceFileName: "c.pdf", EvidenceFileURL: "https://x/c.pdf", Category: "other_evidence"},
	} {
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	one, err := repo.GetByComponentID(ctx, 1)
	if err != nil || len(one) != 2 {
		t.Fatalf("GetByComponentID: %d rows, err=%v", len(one), err)
	}
	many, err := repo.GetByComponentIDs(ctx, []int{1, 2})
	if err != nil || len(many) != 3 {
		t.Fatalf("GetByComponentIDs: %d rows, err=%v", len(many), err)
	}
	none, err := repo.GetByComponentIDs(ctx, nil)
	if err != nil || len(none) != 0 {
		t.Fatalf("empty id list: %d rows, err=%v", len(none), err)
	}
}

func TestAuditLogRepoNewestFirst(t *testing.T) {
	gdb := openTestDB(t)
	repo := NewAuditLogRepo(gdb, logger.NewNop())
	ctx := context.Background()

	first := &domain.ComponentAuditLog{ComponentID: 1, CmCode: strPtr("CM001")}
	second := &domain.ComponentAuditLog{ComponentID: 2, CmCode: strPtr("CM001")}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByCmCode(ctx, "CM001")
	if err != nil {
		t.Fatalf("GetByCmCode: %v", err)
	}
	if len(got) != 2 || got[0].ID != second.ID {
		t.Fatalf("expected newest first, got %+v", got)
	}
}

func TestPeriodRepoMissingIsNotAnError(t *testing.T) {
	gdb := openTestDB(t)
	repo := NewPeriodRepo(gdb, logger.NewNop())
	ctx := context.Background()

	if err := gdb.Create(&domain.Period{Period: "July 2025 to June 2026", IsActive: true}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	name, err := repo.GetNameByID(ctx, 1)
	if err != nil || name != "July 2025 to June 2026" {
		t.Fatalf("GetNameByID: %q err=%v", name, err)
	}
	name, err = repo.GetNameByID(ctx, 42)
	if err != nil || name != "" {
		t.Fatalf("missing period should be empty without error, got %q err=%v", name, err)
	}
}

func TestMasterDataRepoActiveOnly(t *testing.T) {
	gdb := openTestDB(t)
	repo := NewMasterDataRepo(gdb)
	ctx := context.Background()

	if err := gdb.Create(&domain.MaterialType{ItemName: "Plastic", IsActive: true}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := gdb.Create(&domain.MaterialType{ItemName: "Asbestos", IsActive: false}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := gdb.Create(&domain.ComponentUom{ItemName: "PCS", IsActive: true}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	types, err := repo.GetMaterialTypes(ctx)
	if err != nil || len(types) != 1 || types[0].ItemName != "Plastic" {
		t.Fatalf("GetMaterialTypes: %+v err=%v", types, err)
	}
	uoms, err := repo.GetUoms(ctx)
	if err != nil || len(uoms) != 1 {
		t.Fatalf("GetUoms: %+v err=%v", uoms, err)
	}
}

func TestInactiveRowsPersistInactive(t *testing.T) {
	gdb := openTestDB(t)

	if err := gdb.Create(&domain.SkuDetail{SkuCode: "SKU001", SkuDescription: "Dormant", IsActive: false}).Error; err != nil {
		t.Fatalf("seed sku: %v", err)
	}
	if err := gdb.Create(&domain.MaterialType{ItemName: "Asbestos", IsActive: false}).Error; err != nil {
		t.Fatalf("seed material type: %v", err)
	}

	var sku domain.SkuDetail
	if err := gdb.First(&sku, "sku_code = ?", "SKU001").Error; err != nil {
		t.Fatalf("load sku: %v", err)
	}
	if sku.IsActive {
		t.Fatal("sku created inactive came back active")
	}
	var mt domain.MaterialType
	if err := gdb.First(&mt, "item_name = ?", "Asbestos").Error; err != nil {
		t.Fatalf("load material type: %v", err)
	}
	if mt.IsActive {
		t.Fatal("material type created inactive came back active")
	}
}
