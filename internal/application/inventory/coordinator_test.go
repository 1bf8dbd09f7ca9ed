package inventory_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Donaciones-api/internal/application/dto"
	"github.com/jhoicas/Donaciones-api/internal/application/inventory"
	"github.com/jhoicas/Donaciones-api/internal/domain"
	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
	"github.com/jhoicas/Donaciones-api/internal/domain/repository"
)

// ─── Escenario de referencia ──────────────────────────────────────────────────

func TestCreateDisbursement_EscenarioArroz(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	e.seedStock(t, "rice", "food", 10)

	out, err := e.coord.CreateDisbursement(ctx, admin, dto.CreateDisbursementRequest{
		RecipientName: "Comedor Norte",
		Items:         []dto.ItemRequest{item("rice", "food", 7)},
	})
	require.NoError(t, err)
	assert.Equal(t, "B00001", out.SerialNumber)
	assert.Equal(t, "Comedor Norte", out.RecipientName)
	assert.Nil(t, out.RecipientID, "unidad no registrada queda como texto libre")
	require.Len(t, out.Items, 1)
	assert.Equal(t, "kg", out.Items[0].ItemUnit, "unidad tomada del registro de stock")
	assert.Equal(t, int64(3), e.totalStock(t, "rice", "food"))

	_, err = e.coord.CreateDisbursement(ctx, admin, dto.CreateDisbursementRequest{
		Items: []dto.ItemRequest{item("rice", "food", 5)},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "rice/food: have 3, need 5")
	assert.Equal(t, int64(3), e.totalStock(t, "rice", "food"))

	require.NoError(t, e.coord.DeleteDisbursement(ctx, admin, out.ID))
	assert.Equal(t, int64(10), e.totalStock(t, "rice", "food"))

	logs, _, err := e.store.Repos().Logs.List(ctx, repository.InventoryLogFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, entity.ChangeTypeIncrease, logs[0].ChangeType)
	assert.Equal(t, "disbursement B00001 deleted", logs[0].Reason)
	assert.Equal(t, int64(3), logs[0].PreviousQuantity)
	assert.Equal(t, int64(10), logs[0].NewQuantity)
	assert.Equal(t, entity.ChangeTypeDecrease, logs[1].ChangeType)
	assert.Equal(t, int64(7), logs[1].ChangeAmount)
}

// ─── CreateDisbursement ───────────────────────────────────────────────────────

func TestCreateDisbursement_TodoONada(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	e.seedStock(t, "rice", "food", 10)
	e.seedStock(t, "beans", "food", 1)

	_, err := e.coord.CreateDisbursement(ctx, admin, dto.CreateDisbursementRequest{
		Items: []dto.ItemRequest{item("rice", "food", 4), item("beans", "food", 2)},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), e.totalStock(t, "rice", "food"), "sin descuentos parciales")

	serial, err := e.serials.Allocate(ctx, entity.SerialTypeDisbursement)
	require.NoError(t, err)
	assert.Equal(t, "B00001", serial, "el consecutivo del intento fallido se devolvió")
}

func TestCreateDisbursement_LineasRepetidasSeSuman(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	e.seedStock(t, "rice", "food", 5)

	_, err := e.coord.CreateDisbursement(ctx, admin, dto.CreateDisbursementRequest{
		Items: []dto.ItemRequest{item("rice", "food", 3), item(" rice ", "food", 3)},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "have 5, need 6")

	out, err := e.coord.CreateDisbursement(ctx, admin, dto.CreateDisbursementRequest{
		Items: []dto.ItemRequest{item("rice", "food", 2), item("rice", "food", 3)},
	})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, int64(0), e.totalStock(t, "rice", "food"))

	logs, _, err := e.store.Repos().Logs.List(ctx, repository.InventoryLogFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, logs, 2, "un asiento por línea")
	assert.Equal(t, int64(3), logs[1].NewQuantity, "5 → 3 y luego 3 → 0")
	assert.Equal(t, int64(3), logs[0].PreviousQuantity)
	assert.Equal(t, int64(0), logs[0].NewQuantity)
}

func TestCreateDisbursement_ArticuloInexistenteCuentaComoCero(t *testing.T) {
	e := newEngine(t)
	_, err := e.coord.CreateDisbursement(context.Background(), admin, dto.CreateDisbursementRequest{
		Items: []dto.ItemRequest{item("sugar", "food", 1)},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "sugar/food: have 0, need 1")
}

func TestCreateDisbursement_NormalizaLineas(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	e.seedStock(t, "rice", "food", 10)

	_, err := e.coord.CreateDisbursement(ctx, admin, dto.CreateDisbursementRequest{
		Items: []dto.ItemRequest{
			{ItemName: "rice", ItemCategory: "food", Quantity: decimal.RequireFromString("1.5")},
			{ItemName: "", ItemCategory: "food", Quantity: decimal.NewFromInt(1)},
			{ItemName: "rice", ItemCategory: "food", Quantity: decimal.NewFromInt(-2)},
		},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput, "ninguna línea válida")

	out, err := e.coord.CreateDisbursement(ctx, admin, dto.CreateDisbursementRequest{
		Items: []dto.ItemRequest{
			{ItemName: "rice", ItemCategory: "food", Quantity: decimal.RequireFromString("2.0")},
			{ItemName: "rice", ItemCategory: "food", Quantity: decimal.RequireFromString("0.5")},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Items, 1, "la línea fraccionaria se descarta")
	assert.Equal(t, int64(2), out.Items[0].Quantity)
}

func TestCreateDisbursement_ResuelveUnidadReceptora(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	e.seedStock(t, "rice", "food", 10)
	parties := inventory.NewPartyUseCase(e.store.Repos(), inventory.Options{})
	rec, err := parties.CreateRecipient(ctx, dto.CreatePartyRequest{Name: "Hogar San José"})
	require.NoError(t, err)

	out, err := e.coord.CreateDisbursement(ctx, admin, dto.CreateDisbursementRequest{
		RecipientName: " Hogar San José ",
		Items:         []dto.ItemRequest{item("rice", "food", 1)},
	})
	require.NoError(t, err)
	require.NotNil(t, out.RecipientID)
	assert.Equal(t, rec.ID, *out.RecipientID)
	require.NotNil(t, out.Recipient)

	_, err = e.coord.CreateDisbursement(ctx, admin, dto.CreateDisbursementRequest{
		RecipientID: "no-existe",
		Items:       []dto.ItemRequest{item("rice", "food", 1)},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(9), e.totalStock(t, "rice", "food"))
}

func TestCreateDisbursement_InvalidaCache(t *testing.T) {
	e := newEngine(t)
	e.seedStock(t, "rice", "food", 10)
	_, err := e.coord.CreateDisbursement(context.Background(), admin, dto.CreateDisbursementRequest{
		Items: []dto.ItemRequest{item("rice", "food", 1)},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, e.cache.count())

	_, err = e.coord.CreateDisbursement(context.Background(), admin, dto.CreateDisbursementRequest{
		Items: []dto.ItemRequest{item("rice", "food", 100)},
	})
	require.Error(t, err)
	assert.Equal(t, 1, e.cache.count(), "una operación fallida no invalida")
}

func TestDisbursement_CrearYAnularRestauraStock(t *testing.T) {
	type batch []dto.ItemRequest
	cases := []struct {
		name    string
		initial map[string]int64
		batches []batch
	}{
		{
			name:    "varias líneas y llaves",
			initial: map[string]int64{"rice": 10, "beans": 4, "oil": 7},
			batches: []batch{
				{item("rice", "food", 3), item("beans", "food", 4)},
				{item("oil", "food", 7), item("rice", "food", 2)},
			},
		},
		{
			name:    "llave repetida dentro del lote",
			initial: map[string]int64{"rice": 9},
			batches: []batch{
				{item("rice", "food", 2), item("rice", "food", 3), item("rice", "food", 4)},
			},
		},
		{
			name:    "agota y luego falla sin efecto",
			initial: map[string]int64{"rice": 5, "beans": 1},
			batches: []batch{
				{item("rice", "food", 5)},
				{item("beans", "food", 1), item("rice", "food", 1)},
				{item("beans", "food", 1)},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			e := newEngine(t)
			for name, qty := range tc.initial {
				e.seedStock(t, name, "food", qty)
			}

			var created []string
			for _, b := range tc.batches {
				out, err := e.coord.CreateDisbursement(ctx, admin, dto.CreateDisbursementRequest{Items: b})
				if err != nil {
					require.ErrorIs(t, err, domain.ErrInsufficientStock)
					continue
				}
				created = append(created, out.ID)
			}
			for name, qty := range tc.initial {
				assert.GreaterOrEqual(t, e.totalStock(t, name, "food"), int64(0))
				assert.LessOrEqual(t, e.totalStock(t, name, "food"), qty)
			}

			// Anular en orden inverso deja cada registro como al inicio
			for i := len(created) - 1; i >= 0; i-- {
				require.NoError(t, e.coord.DeleteDisbursement(ctx, admin, created[i]))
			}
			for name, qty := range tc.initial {
				assert.Equal(t, qty, e.totalStock(t, name, "food"), name)
			}
		})
	}
}

func TestDisbursement_SecuenciaAleatoriaRestauraStock(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	names := []string{"rice", "beans", "oil", "milk"}
	initial := map[string]int64{}
	for i, n := range names {
		initial[n] = int64(20 + 5*i)
		e.seedStock(t, n, "food", initial[n])
	}

	rng := rand.New(rand.NewPCG(7, 11))
	var created []string
	for i := 0; i < 40; i++ {
		n := 1 + rng.IntN(3)
		lines := make([]dto.ItemRequest, 0, n)
		for range n {
			lines = append(lines, item(names[rng.IntN(len(names))], "food", int64(1+rng.IntN(6))))
		}
		out, err := e.coord.CreateDisbursement(ctx, admin, dto.CreateDisbursementRequest{Items: lines})
		if err != nil {
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
		} else {
			created = append(created, out.ID)
		}
		// De vez en cuando se anula un lote cualquiera de los vigentes
		if len(created) > 0 && rng.IntN(4) == 0 {
			k := rng.IntN(len(created))
			require.NoError(t, e.coord.DeleteDisbursement(ctx, admin, created[k]))
			created = append(created[:k], created[k+1:]...)
		}
		for _, n := range names {
			require.GreaterOrEqual(t, e.totalStock(t, n, "food"), int64(0))
		}
	}
	rng.Shuffle(len(created), func(i, j int) { created[i], created[j] = created[j], created[i] })
	for _, id := range created {
		require.NoError(t, e.coord.DeleteDisbursement(ctx, admin, id))
	}
	for _, n := range names {
		assert.Equal(t, initial[n], e.totalStock(t, n, "food"), n)
	}
}

func TestDeleteDisbursement_DobleAnulacionConcurrente(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	e.seedStock(t, "rice", "food", 10)
	out, err := e.coord.CreateDisbursement(ctx, admin, dto.CreateDisbursementRequest{
		Items: []dto.ItemRequest{item("rice", "food", 7)},
	})
	require.NoError(t, err)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = e.coord.DeleteDisbursement(ctx, admin, out.ID)
		}()
	}
	wg.Wait()

	var ok, notFound int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrNotFound):
			notFound++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, notFound)
	assert.Equal(t, int64(10), e.totalStock(t, "rice", "food"), "el stock se devuelve una sola vez")
}

func TestDeleteDisbursement_NoExiste(t *testing.T) {
	e := newEngine(t)
	err := e.coord.DeleteDisbursement(context.Background(), admin, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── Concurrencia ─────────────────────────────────────────────────────────────

func TestCreateDisbursement_Concurrente(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	const (
		stock     = 10
		qty       = 3
		attempts  = 8
		wantOK    = stock / qty
		remaining = stock - wantOK*qty
	)
	e.seedStock(t, "rice", "food", stock)

	var ok, insufficient, other atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.coord.CreateDisbursement(ctx, admin, dto.CreateDisbursementRequest{
				Items: []dto.ItemRequest{item("rice", "food", qty)},
			})
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				insufficient.Add(1)
			default:
				other.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(wantOK), ok.Load())
	assert.Equal(t, int32(attempts-wantOK), insufficient.Load())
	assert.Zero(t, other.Load())
	assert.Equal(t, int64(remaining), e.totalStock(t, "rice", "food"))

	list, total, err := e.store.Repos().Disbursements.List(ctx, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, wantOK, total)
	serials := map[string]bool{}
	for _, b := range list {
		serials[b.SerialNumber] = true
	}
	assert.Equal(t, map[string]bool{"B00001": true, "B00002": true, "B00003": true}, serials, "sin huecos")
}
