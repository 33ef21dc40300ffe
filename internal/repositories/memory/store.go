// Package memory provides an in-process implementation of the directory
// store. It backs the `memory` database type and the service tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	model "github.com/zdziszkee/swift-directory/internal/models"
	repository "github.com/zdziszkee/swift-directory/internal/repositories"
)

// ErrReadOnly is returned by writes issued inside ReadSnapshot.
var ErrReadOnly = errors.New("memory store: write inside read snapshot")

var _ repository.Store = (*Store)(nil)

// Store keeps countries and banks in maps guarded by a single RWMutex.
type Store struct {
	mu        sync.RWMutex
	countries map[string]model.Country
	banks     map[string]model.SwiftBank
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		countries: make(map[string]model.Country),
		banks:     make(map[string]model.SwiftBank),
	}
}

func (s *Store) Countries() repository.CountryRepository { return countries{view{s: s}} }

func (s *Store) SwiftBanks() repository.SwiftBankRepository { return banks{view{s: s}} }

// ReadSnapshot holds the read lock for the duration of fn.
func (s *Store) ReadSnapshot(ctx context.Context, fn func(repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(snapshot{view{s: s, held: true}})
}

// Len returns the number of stored countries and banks.
func (s *Store) Len() (countries, banks int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.countries), len(s.banks)
}

// view carries whether the read lock is already held by ReadSnapshot.
type view struct {
	s    *Store
	held bool
}

func (v view) rlock() func() {
	if v.held {
		return func() {}
	}
	v.s.mu.RLock()
	return v.s.mu.RUnlock
}

func (v view) lock() (func(), error) {
	if v.held {
		return nil, ErrReadOnly
	}
	v.s.mu.Lock()
	return v.s.mu.Unlock, nil
}

type snapshot struct{ v view }

func (s snapshot) Countries() repository.CountryRepository { return countries{s.v} }
func (s snapshot) SwiftBanks() repository.SwiftBankRepository { return banks{s.v} }

func (s snapshot) ReadSnapshot(_ context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

type countries struct{ view }

func (c countries) UpsertCountries(ctx context.Context, list []*model.Country) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	unlock, err := c.lock()
	if err != nil {
		return 0, err
	}
	defer unlock()

	var inserted int64
	for _, country := range list {
		if _, ok := c.s.countries[country.ISO2Code]; ok {
			continue
		}
		c.s.countries[country.ISO2Code] = *country
		inserted++
	}
	return inserted, nil
}

func (c countries) FindNameByISO2(ctx context.Context, iso2 string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	defer c.rlock()()

	country, ok := c.s.countries[iso2]
	if !ok {
		return "", repository.ErrNotFound
	}
	return country.Name, nil
}

type banks struct{ view }

func (b banks) UpsertBatch(ctx context.Context, list []*model.SwiftBank) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	unlock, err := b.lock()
	if err != nil {
		return 0, err
	}
	defer unlock()

	var inserted int64
	for _, bank := range list {
		if _, ok := b.s.banks[bank.SwiftCode]; ok {
			continue
		}
		b.s.banks[bank.SwiftCode] = *bank
		inserted++
	}
	return inserted, nil
}

func (b banks) Save(ctx context.Context, bank *model.SwiftBank) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	unlock, err := b.lock()
	if err != nil {
		return err
	}
	defer unlock()

	b.s.banks[bank.SwiftCode] = *bank
	return nil
}

func (b banks) ExistsByCode(ctx context.Context, code string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	defer b.rlock()()

	_, ok := b.s.banks[code]
	return ok, nil
}

func (b banks) DeleteByCode(ctx context.Context, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	unlock, err := b.lock()
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := b.s.banks[code]; !ok {
		return repository.ErrNotFound
	}
	delete(b.s.banks, code)
	return nil
}

func (b banks) FindByCodeWithCountry(ctx context.Context, code string) (*model.SwiftCodeDetails, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer b.rlock()()

	bank, ok := b.s.banks[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	country, ok := b.s.countries[bank.CountryISO2]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &model.SwiftCodeDetails{
		SwiftCode:     bank.SwiftCode,
		BankName:      bank.BankName,
		Address:       bank.Address,
		CountryISO2:   country.ISO2Code,
		CountryName:   country.Name,
		IsHeadquarter: bank.IsHeadquarter,
	}, nil
}

func (b banks) FindBranchesByPrefix(ctx context.Context, code string) ([]model.Branch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer b.rlock()()

	return b.collect(func(bank model.SwiftBank) bool {
		if bank.SwiftCode == code || !model.SameInstitution(code, bank.SwiftCode) {
			return false
		}
		_, ok := b.s.countries[bank.CountryISO2]
		return ok
	}), nil
}

func (b banks) FindAllByCountry(ctx context.Context, iso2 string) ([]model.Branch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer b.rlock()()

	return b.collect(func(bank model.SwiftBank) bool {
		return bank.CountryISO2 == iso2
	}), nil
}

// collect must be called with the read lock held.
func (b banks) collect(match func(model.SwiftBank) bool) []model.Branch {
	out := []model.Branch{}
	for _, bank := range b.s.banks {
		if !match(bank) {
			continue
		}
		out = append(out, model.Branch{
			SwiftCode:     bank.SwiftCode,
			BankName:      bank.BankName,
			Address:       bank.Address,
			CountryISO2:   bank.CountryISO2,
			IsHeadquarter: bank.IsHeadquarter,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SwiftCode < out[j].SwiftCode })
	return out
}
