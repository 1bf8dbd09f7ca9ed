package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Donaciones-api/internal/application/dto"
	"github.com/jhoicas/Donaciones-api/internal/application/inventory"
	"github.com/jhoicas/Donaciones-api/internal/domain"
	"github.com/jhoicas/Donaciones-api/internal/domain/repository"
)

func TestCreateDonation_SinEfectoEnStock(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)

	out, err := e.coord.CreateDonation(ctx, admin, dto.CreateDonationRequest{
		DonorName: "Supermercado Éxito",
		Items: []dto.DonationItemRequest{
			donationItem("rice", "food", 5, "2024-07-01"),
			donationItem("milk", "food", 2, "no-es-fecha"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "A00001", out.SerialNumber)
	require.Len(t, out.Items, 1, "la fecha ilegible descarta la línea")
	assert.False(t, out.Items[0].IsHandled)
	require.NotNil(t, out.Items[0].ExpiryDate)
	assert.Equal(t, "2024-07-01", *out.Items[0].ExpiryDate)
	assert.Equal(t, "unidad", out.Items[0].ItemUnit)
	assert.Equal(t, int64(0), e.totalStock(t, "rice", "food"))
}

func TestCreateDonation_UnidadDelCatalogo(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	catalog := inventory.NewCatalogUseCase(e.store.Repos(), inventory.Options{})
	_, err := catalog.Upsert(ctx, dto.UpsertCatalogItemRequest{
		ItemName: "rice", ItemCategory: "food", Units: []string{"kg", "bulto"}, DefaultUnit: 1,
	})
	require.NoError(t, err)

	out, err := e.coord.CreateDonation(ctx, admin, dto.CreateDonationRequest{
		Items: []dto.DonationItemRequest{donationItem("rice", "food", 5, "")},
	})
	require.NoError(t, err)
	assert.Equal(t, "bulto", out.Items[0].ItemUnit)
}

func TestHandleDonationItem(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	out, err := e.coord.CreateDonation(ctx, admin, dto.CreateDonationRequest{
		Items: []dto.DonationItemRequest{donationItem("rice", "food", 5, "")},
	})
	require.NoError(t, err)
	lineID := out.Items[0].ID

	line, err := e.coord.HandleDonationItem(ctx, admin, lineID)
	require.NoError(t, err)
	assert.True(t, line.IsHandled)
	require.NotNil(t, line.HandledAt)
	assert.Equal(t, int64(5), e.totalStock(t, "rice", "food"), "registro creado en la recepción")

	_, err = e.coord.HandleDonationItem(ctx, admin, lineID)
	require.ErrorIs(t, err, domain.ErrConflict, "una línea se recibe una sola vez")
	assert.Equal(t, int64(5), e.totalStock(t, "rice", "food"))

	_, err = e.coord.HandleDonationItem(ctx, admin, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	logs, _, err := e.store.Repos().Logs.List(ctx, repository.InventoryLogFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "donation A00001 received", logs[0].Reason)
}

func TestDeleteDonation(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	out, err := e.coord.CreateDonation(ctx, admin, dto.CreateDonationRequest{
		Items: []dto.DonationItemRequest{donationItem("rice", "food", 5, ""), donationItem("beans", "food", 3, "")},
	})
	require.NoError(t, err)
	_, err = e.coord.HandleDonationItem(ctx, admin, out.Items[0].ID)
	require.NoError(t, err)

	require.NoError(t, e.coord.DeleteDonation(ctx, admin, out.ID))
	assert.Equal(t, int64(0), e.totalStock(t, "rice", "food"), "se retira solo lo recibido")

	got, err := e.store.Repos().Donations.GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	err = e.coord.DeleteDonation(ctx, admin, out.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteDonation_MercanciaYaEntregada(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	out, err := e.coord.CreateDonation(ctx, admin, dto.CreateDonationRequest{
		Items: []dto.DonationItemRequest{donationItem("rice", "food", 5, "")},
	})
	require.NoError(t, err)
	_, err = e.coord.HandleDonationItem(ctx, admin, out.Items[0].ID)
	require.NoError(t, err)
	_, err = e.coord.CreateDisbursement(ctx, admin, dto.CreateDisbursementRequest{
		Items: []dto.ItemRequest{item("rice", "food", 4)},
	})
	require.NoError(t, err)

	err = e.coord.DeleteDonation(ctx, admin, out.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "have 1, need 5")
	assert.Equal(t, int64(1), e.totalStock(t, "rice", "food"))

	got, err := e.store.Repos().Donations.GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.NotNil(t, got, "la donación sigue existiendo")
}
