package service

import (
	"context"
	"testing"

	"github.com/tarekelsergany/gold-ecommerce/internal/dto"
	"github.com/tarekelsergany/gold-ecommerce/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductFixture() (*stubGoldPriceRepo, *stubProductRepo, *stubHistoryRepo, ProductService) {
	gpRepo := newStubGoldPriceRepo()
	pRepo := newStubProductRepo()
	hRepo := newStubHistoryRepo()
	return gpRepo, pRepo, hRepo, NewProductService(pRepo, gpRepo, hRepo)
}

func setGoldPrice(gpRepo *stubGoldPriceRepo, price string) {
	_ = gpRepo.CreateTx(nil, &model.GoldPrice{PricePerGram: mustDec(price), Carat: "24K", Currency: "EGP"})
}

func strPtr(s string) *string { return &s }

func TestCreateProductComputesPrice(t *testing.T) {
	gpRepo, _, _, svc := newProductFixture()
	setGoldPrice(gpRepo, "3000")

	making := mustDec("7.5")
	margin := mustDec("15")
	resp, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name:          "Classic ring",
		Weight:        mustDec("10.5"),
		Carat:         "24K",
		MakingCharges: &making,
		ProfitMargin:  &margin,
		Category:      strPtr("rings"),
	})

	require.NoError(t, err)
	assert.Equal(t, "38941.88", resp.SellingPrice.String())
	assert.True(t, resp.IsActive)
}

func TestCreateProductUnknownCarat(t *testing.T) {
	gpRepo, _, _, svc := newProductFixture()
	setGoldPrice(gpRepo, "3000")

	// Unknown label falls back to purity factor 1.0, never fails.
	resp, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name:   "Mystery pendant",
		Weight: mustDec("10"),
		Carat:  "99K",
	})
	require.NoError(t, err)
	assert.Equal(t, "30000", resp.SellingPrice.String())
}

func TestCreateProductWithoutGoldPrice(t *testing.T) {
	_, _, _, svc := newProductFixture()

	_, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name:   "Premature ring",
		Weight: mustDec("5"),
		Carat:  "24K",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateProductInvalidWeight(t *testing.T) {
	gpRepo, _, _, svc := newProductFixture()
	setGoldPrice(gpRepo, "3000")

	_, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name:   "Weightless",
		Weight: mustDec("0"),
		Carat:  "24K",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateNonPricingFieldKeepsPrice(t *testing.T) {
	gpRepo, pRepo, hRepo, svc := newProductFixture()
	setGoldPrice(gpRepo, "3000")
	p := seedProduct(pRepo, "Ring", "24K", "10", "5", "10", "34650", true)

	resp, err := svc.Update(context.Background(), p.ID, dto.UpdateProductRequest{
		Name:          strPtr("Renamed ring"),
		Category:      strPtr("rings"),
		StockQuantity: intPtr(7),
	})

	require.NoError(t, err)
	assert.Equal(t, "Renamed ring", resp.Name)
	assert.Equal(t, "34650", resp.SellingPrice.String())
	// No repricing — no history row.
	assert.Zero(t, hRepo.countFor(p.ID))
}

func TestUpdateWeightReprices(t *testing.T) {
	gpRepo, pRepo, hRepo, svc := newProductFixture()
	setGoldPrice(gpRepo, "3000")
	p := seedProduct(pRepo, "Ring", "24K", "10", "5", "10", "34650", true)

	newWeight := mustDec("20")
	resp, err := svc.Update(context.Background(), p.ID, dto.UpdateProductRequest{
		Weight: &newWeight,
	})

	require.NoError(t, err)
	// 20 × 3000 = 60000; +5% = 63000; ×1.10 = 69300
	assert.Equal(t, "69300", resp.SellingPrice.String())
	assert.Equal(t, "69300", pRepo.products[p.ID].SellingPrice.String())

	require.Equal(t, 1, hRepo.countFor(p.ID))
	assert.Equal(t, "34650", hRepo.rows[0].OldPrice.String())
	assert.Equal(t, "69300", hRepo.rows[0].NewPrice.String())
	assert.Equal(t, "3000", hRepo.rows[0].GoldPrice.String())
}

func TestUpdateSameValueDoesNotReprice(t *testing.T) {
	gpRepo, pRepo, hRepo, svc := newProductFixture()
	setGoldPrice(gpRepo, "3000")
	p := seedProduct(pRepo, "Ring", "24K", "10", "5", "10", "34650", true)

	sameWeight := mustDec("10")
	_, err := svc.Update(context.Background(), p.ID, dto.UpdateProductRequest{Weight: &sameWeight})

	require.NoError(t, err)
	assert.Zero(t, hRepo.countFor(p.ID))
	assert.Equal(t, "34650", pRepo.products[p.ID].SellingPrice.String())
}

func TestUpdateUnknownProduct(t *testing.T) {
	_, _, _, svc := newProductFixture()

	_, err := svc.Update(context.Background(), 404, dto.UpdateProductRequest{Name: strPtr("Ghost")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeactivateHidesFromListing(t *testing.T) {
	_, pRepo, _, svc := newProductFixture()
	p := seedProduct(pRepo, "Ring", "24K", "10", "5", "10", "34650", true)
	seedProduct(pRepo, "Chain", "22K", "20", "8", "12", "50000", true)

	require.NoError(t, svc.Deactivate(context.Background(), p.ID))

	list, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "Chain", list[0].Name)

	// Still fetchable directly.
	got, err := svc.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestSearchFilters(t *testing.T) {
	_, pRepo, _, svc := newProductFixture()
	seedProduct(pRepo, "Gold ring", "24K", "10", "5", "10", "30000", true).Category = strPtr("rings")
	seedProduct(pRepo, "Gold chain", "22K", "20", "8", "12", "55000", true).Category = strPtr("chains")
	seedProduct(pRepo, "Hidden bangle", "18K", "15", "8", "10", "40000", false)

	byQuery, err := svc.Search(context.Background(), dto.ProductFilter{Query: "ring"})
	require.NoError(t, err)
	assert.Len(t, byQuery, 1)

	byCarat, err := svc.Search(context.Background(), dto.ProductFilter{Carat: "22K"})
	require.NoError(t, err)
	assert.Len(t, byCarat, 1)
	assert.Equal(t, "Gold chain", byCarat[0].Name)

	byRange, err := svc.Search(context.Background(), dto.ProductFilter{MinPrice: "50000", MaxPrice: "60000"})
	require.NoError(t, err)
	assert.Len(t, byRange, 1)

	// Inactive products never appear.
	all, err := svc.Search(context.Background(), dto.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCategoriesDistinctActive(t *testing.T) {
	_, pRepo, _, svc := newProductFixture()
	seedProduct(pRepo, "Ring A", "24K", "10", "5", "10", "30000", true).Category = strPtr("rings")
	seedProduct(pRepo, "Ring B", "24K", "8", "5", "10", "24000", true).Category = strPtr("rings")
	seedProduct(pRepo, "Chain", "22K", "20", "8", "12", "55000", true).Category = strPtr("chains")
	seedProduct(pRepo, "Old bangle", "18K", "15", "8", "10", "40000", false).Category = strPtr("bangles")

	cats, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"chains", "rings"}, cats)
}

func TestHistoryCapsLimitAtFifty(t *testing.T) {
	_, pRepo, hRepo, svc := newProductFixture()
	p := seedProduct(pRepo, "Ring", "24K", "10", "5", "10", "34650", true)

	for i := 0; i < 60; i++ {
		require.NoError(t, hRepo.CreateTx(nil, &model.PriceHistory{
			ProductID: p.ID,
			OldPrice:  mustDec("100"),
			NewPrice:  mustDec("200"),
			GoldPrice: mustDec("3000"),
		}))
	}

	items, err := svc.History(context.Background(), p.ID, 200)
	require.NoError(t, err)
	assert.Len(t, items, 50)
}

func TestHistoryRequiresExistingProduct(t *testing.T) {
	_, _, _, svc := newProductFixture()

	_, err := svc.History(context.Background(), 12345, 50)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuditDetectsAndRepairsDrift(t *testing.T) {
	gpRepo, pRepo, hRepo, svc := newProductFixture()
	setGoldPrice(gpRepo, "3000")

	// Consistent: 10 × 3000 × 1.0 = 30000, +5% = 31500, ×1.10 = 34650
	ok := seedProduct(pRepo, "Consistent ring", "24K", "10", "5", "10", "34650", true)
	// Drifted: stored price does not replay from attributes + current gold price
	bad := seedProduct(pRepo, "Drifted ring", "24K", "10", "5", "10", "11111", true)

	report, err := svc.AuditPrices(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Checked)
	assert.Equal(t, 1, report.Drifted)
	assert.Equal(t, 0, report.Repaired)
	require.Len(t, report.Items, 1)
	assert.Equal(t, bad.ID, report.Items[0].ProductID)
	assert.Equal(t, "34650", report.Items[0].ExpectedPrice.String())
	// Dry run — nothing written.
	assert.Equal(t, "11111", pRepo.products[bad.ID].SellingPrice.String())

	repaired, err := svc.AuditPrices(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, repaired.Repaired)
	assert.Equal(t, "34650", pRepo.products[bad.ID].SellingPrice.String())
	assert.Equal(t, 1, hRepo.countFor(bad.ID))
	assert.Zero(t, hRepo.countFor(ok.ID))

	// Second audit is clean.
	clean, err := svc.AuditPrices(context.Background(), false)
	require.NoError(t, err)
	assert.Zero(t, clean.Drifted)
}

func TestAuditWithoutGoldPrice(t *testing.T) {
	_, pRepo, _, svc := newProductFixture()
	seedProduct(pRepo, "Ring", "24K", "10", "5", "10", "34650", true)

	report, err := svc.AuditPrices(context.Background(), false)
	require.NoError(t, err)
	assert.Zero(t, report.Checked)
	assert.Zero(t, report.Drifted)
}

func intPtr(i int) *int { return &i }
