package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Donaciones-api/internal/application/inventory"
	"github.com/jhoicas/Donaciones-api/internal/domain"
	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
	"github.com/jhoicas/Donaciones-api/internal/domain/repository"
	"github.com/jhoicas/Donaciones-api/internal/infrastructure/memory"
)

var rice = entity.NewItemKey("arroz", "alimentos")

func TestRun_RollbackDescartaCambios(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	boom := errors.New("boom")

	err := store.Run(ctx, func(r inventory.Repos) error {
		s, err := r.Stock.EnsureForUpdate(ctx, rice, "kg")
		require.NoError(t, err)
		require.NoError(t, r.Stock.UpdateQuantity(ctx, s.ID, 10))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.Repos().Stock.GetByKey(ctx, rice)
	require.NoError(t, err)
	assert.Nil(t, got, "el registro creado en la tx fallida no debe existir")
}

func TestRun_CommitVisibleFuera(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	err := store.Run(ctx, func(r inventory.Repos) error {
		s, err := r.Stock.EnsureForUpdate(ctx, rice, "kg")
		if err != nil {
			return err
		}
		return r.Stock.UpdateQuantity(ctx, s.ID, 10)
	})
	require.NoError(t, err)

	got, err := store.Repos().Stock.GetByKey(ctx, entity.NewItemKey(" arroz ", "alimentos"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(10), got.TotalStock)
	assert.Equal(t, "kg", got.Unit)
}

func TestRun_ContextoCanceladoNoConfirma(t *testing.T) {
	store := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())

	err := store.Run(ctx, func(r inventory.Repos) error {
		_, err := r.Stock.EnsureForUpdate(ctx, rice, "kg")
		cancel()
		return err
	})
	require.ErrorIs(t, err, context.Canceled)

	got, err := store.Repos().Stock.GetByKey(context.Background(), rice)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStock_CantidadNegativaRechazada(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	err := store.Run(ctx, func(r inventory.Repos) error {
		s, err := r.Stock.EnsureForUpdate(ctx, rice, "kg")
		require.NoError(t, err)
		return r.Stock.UpdateQuantity(ctx, s.ID, -1)
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestStock_ListFiltros(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Run(ctx, func(r inventory.Repos) error {
		for _, k := range []entity.ItemKey{rice, entity.NewItemKey("Arroz integral", "alimentos"), entity.NewItemKey("jabón", "aseo")} {
			s, err := r.Stock.EnsureForUpdate(ctx, k, "unidad")
			if err != nil {
				return err
			}
			s.SafetyStock = 5
			if err := r.Stock.UpdateSettings(ctx, s); err != nil {
				return err
			}
		}
		return nil
	}))

	list, total, err := store.Repos().Stock.List(ctx, repository.StockFilter{Name: "ARROZ", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, total, "búsqueda por subcadena sin distinguir mayúsculas")
	assert.Len(t, list, 2)

	_, total, err = store.Repos().Stock.List(ctx, repository.StockFilter{Category: "aseo", OnlyInsufficient: true, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	list, total, err = store.Repos().Stock.List(ctx, repository.StockFilter{Limit: 1, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, list, 1)
	assert.Equal(t, "jabón", list[0].Key.Name)
}

func TestSerials_NextYSet(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	serials := store.Repos().Serials

	n, err := serials.Next(ctx, entity.SerialTypeDisbursement, "B")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, serials.Set(ctx, entity.SerialTypeDisbursement, "B", 41))
	n, err = serials.Next(ctx, entity.SerialTypeDisbursement, "B")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
}

func TestDonations_MaxSerialYVencimientos(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	early := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	late := early.AddDate(0, 1, 0)

	require.NoError(t, store.Run(ctx, func(r inventory.Repos) error {
		for i, serial := range []string{"A99999", "A100000", "A00007"} {
			b := &entity.DonationBatch{ID: serial, SerialNumber: serial}
			if err := r.Donations.Create(ctx, b); err != nil {
				return err
			}
			exp := late
			if i == 1 {
				exp = early
			}
			item := &entity.DonationLineItem{ID: "it-" + serial, BatchID: b.ID, Key: rice, Unit: "kg", Quantity: 2, ExpiryDate: &exp}
			if err := r.Donations.CreateItem(ctx, item); err != nil {
				return err
			}
		}
		return nil
	}))

	repo := store.Repos().Donations
	maxSerial, err := repo.MaxSerial(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A100000", maxSerial, "orden por longitud y luego valor")

	groups, err := repo.SoonestExpiryByKey(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.True(t, groups[0].Soonest.Equal(early))

	lines, err := repo.ListExpiringLines(ctx, []entity.ItemKey{rice})
	require.NoError(t, err)
	assert.Len(t, lines, 3)

	err = store.Run(ctx, func(r inventory.Repos) error {
		return r.Donations.Create(ctx, &entity.DonationBatch{ID: "otro", SerialNumber: "A00007"})
	})
	assert.ErrorIs(t, err, domain.ErrConflict, "consecutivo repetido")
}

func TestParties_NombreUnico(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	require.NoError(t, repos.Recipients.Create(ctx, &entity.RecipientUnit{ID: "1", Name: "Hogar San José"}))
	err := repos.Recipients.Create(ctx, &entity.RecipientUnit{ID: "2", Name: "Hogar San José"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := repos.Recipients.GetByName(ctx, "Hogar San José")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "1", got.ID)
}
