// Package memory implementa los puertos del motor de inventario sobre un estado en memoria.
// Cada transacción trabaja sobre una copia del estado bajo un único mutex y la confirma
// reemplazando el estado completo, así que las transacciones son serializables.
// Se usa en pruebas y con STORE_BACKEND=memory.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Donaciones-api/internal/application/inventory"
	"github.com/jhoicas/Donaciones-api/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	stock             map[string]entity.StockRecord
	stockByKey        map[entity.ItemKey]string
	logs              []entity.InventoryLogEntry
	counters          map[string]entity.SerialCounter
	donations         map[string]entity.DonationBatch
	donationLines     map[string][]string // batchID → ids de línea en orden de inserción
	donationItems     map[string]entity.DonationLineItem
	disbursements     map[string]entity.DisbursementBatch
	disbursementLines map[string][]string
	disbursementItems map[string]entity.DisbursementLineItem
	recipients        map[string]entity.RecipientUnit
	donors            map[string]entity.Donor
	catalog           map[entity.ItemKey]entity.CatalogItem
}

func newState() state {
	return state{
		stock:             map[string]entity.StockRecord{},
		stockByKey:        map[entity.ItemKey]string{},
		counters:          map[string]entity.SerialCounter{},
		donations:         map[string]entity.DonationBatch{},
		donationLines:     map[string][]string{},
		donationItems:     map[string]entity.DonationLineItem{},
		disbursements:     map[string]entity.DisbursementBatch{},
		disbursementLines: map[string][]string{},
		disbursementItems: map[string]entity.DisbursementLineItem{},
		recipients:        map[string]entity.RecipientUnit{},
		donors:            map[string]entity.Donor{},
		catalog:           map[entity.ItemKey]entity.CatalogItem{},
	}
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneLines(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// clone copia profunda salvo punteros (*time.Time, *string) que nunca se mutan en sitio.
func (s state) clone() state {
	c := state{
		stock:             cloneMap(s.stock),
		stockByKey:        cloneMap(s.stockByKey),
		logs:              append([]entity.InventoryLogEntry(nil), s.logs...),
		counters:          cloneMap(s.counters),
		donations:         cloneMap(s.donations),
		donationLines:     cloneLines(s.donationLines),
		donationItems:     cloneMap(s.donationItems),
		disbursements:     cloneMap(s.disbursements),
		disbursementLines: cloneLines(s.disbursementLines),
		disbursementItems: cloneMap(s.disbursementItems),
		recipients:        cloneMap(s.recipients),
		donors:            cloneMap(s.donors),
		catalog:           make(map[entity.ItemKey]entity.CatalogItem, len(s.catalog)),
	}
	for k, v := range s.catalog {
		v.Units = append([]string(nil), v.Units...)
		c.catalog[k] = v
	}
	return c
}

// access ejecuta fn sobre el estado que corresponda (copia de la tx o estado confirmado).
type access interface {
	do(fn func(st *state) error) error
}

type txAccess struct{ st *state }

func (a txAccess) do(fn func(st *state) error) error { return fn(a.st) }

type committedAccess struct{ s *Store }

func (a committedAccess) do(fn func(st *state) error) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	return fn(&a.s.state)
}

// Store almacén en memoria.
type Store struct {
	mu    sync.Mutex
	state state
}

// NewStore crea un almacén vacío con los contadores de consecutivo en cero.
func NewStore() *Store {
	st := newState()
	for t, prefix := range entity.SerialPrefixes {
		st.counters[t] = entity.SerialCounter{Type: t, Prefix: prefix}
	}
	return &Store{state: st}
}

// Run ejecuta fn sobre una copia del estado; si fn no falla y el contexto sigue vivo, la copia
// pasa a ser el estado confirmado.
func (s *Store) Run(ctx context.Context, fn func(r inventory.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(newRepos(txAccess{st: &work})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state = work
	return nil
}

// Repos devuelve repositorios sobre el estado confirmado (consultas y escrituras sueltas).
// No deben usarse dentro de un callback de Run.
func (s *Store) Repos() inventory.Repos {
	return newRepos(committedAccess{s: s})
}

func newRepos(a access) inventory.Repos {
	return inventory.Repos{
		Stock:         &stockRepo{a: a},
		Logs:          &logRepo{a: a},
		Serials:       &serialRepo{a: a},
		Donations:     &donationRepo{a: a},
		Disbursements: &disbursementRepo{a: a},
		Recipients:    &recipientRepo{a: a},
		Donors:        &donorRepo{a: a},
		Catalog:       &catalogRepo{a: a},
	}
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
