package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cadastra/cepd/core"
	"github.com/cadastra/cepd/ports"
)

// CEPService resolves postal codes through a read-through cache backed by
// the key-value store, falling back to the external directory on a miss.
type CEPService struct {
	store    ports.Store
	lookup   ports.AddressLookup
	cacheTTL time.Duration
	log      zerolog.Logger
}

// NewCEPService creates a new lookup service
func NewCEPService(store ports.Store, lookup ports.AddressLookup, cacheTTL time.Duration, log zerolog.Logger) *CEPService {
	return &CEPService{
		store:    store,
		lookup:   lookup,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// Lookup normalizes and validates raw, probes the cache and falls back to
// the directory service, writing successful responses through to the cache.
// Concurrent misses for the same code both hit upstream; last write wins.
func (s *CEPService) Lookup(ctx context.Context, raw string) (*core.LookupResult, error) {
	cep := core.NormalizeCEP(raw)
	if !core.ValidCEP(cep) {
		return nil, core.ErrInvalidCEP
	}

	if addr, ok := s.cacheGet(ctx, cep); ok {
		result := &core.LookupResult{
			Address: addr,
			Source:  core.SourceCache,
			Cached:  true,
		}
		if ttl, err := s.store.TTL(ctx, core.CacheKey(cep)); err == nil && ttl > 0 {
			result.CacheExpiresIn = ttl
		}
		return result, nil
	}

	addr, err := s.lookup.Fetch(ctx, cep)
	if err != nil {
		return nil, err
	}

	if err := s.cachePut(ctx, cep, addr); err != nil {
		return nil, err
	}

	return &core.LookupResult{
		Address: addr,
		Source:  core.SourceViaCEP,
		Cached:  false,
	}, nil
}

// Cached reports whether a record for raw is currently held in the cache.
func (s *CEPService) Cached(ctx context.Context, raw string) (bool, error) {
	cep := core.NormalizeCEP(raw)
	if !core.ValidCEP(cep) {
		return false, core.ErrInvalidCEP
	}
	return s.store.Exists(ctx, core.CacheKey(cep))
}

// Invalidate drops the cached record for raw, if any.
func (s *CEPService) Invalidate(ctx context.Context, raw string) error {
	cep := core.NormalizeCEP(raw)
	if !core.ValidCEP(cep) {
		return core.ErrInvalidCEP
	}
	return s.store.Del(ctx, core.CacheKey(cep))
}

// cacheGet probes the cache. Store failures and undecodable entries count
// as misses so a degraded cache never blocks a lookup.
func (s *CEPService) cacheGet(ctx context.Context, cep string) (*core.Address, bool) {
	value, err := s.store.Get(ctx, core.CacheKey(cep))
	if err != nil {
		if !errors.Is(err, core.ErrKeyNotFound) {
			s.log.Warn().Err(err).Str("cep", cep).Msg("cache read failed")
		}
		return nil, false
	}

	var addr core.Address
	if err := json.Unmarshal([]byte(value), &addr); err != nil {
		s.log.Warn().Err(err).Str("cep", cep).Msg("discarding undecodable cache entry")
		return nil, false
	}

	return &addr, true
}

// cachePut writes a successful upstream response through to the cache.
// Unlike reads, a write failure propagates: the entry was expected to land.
func (s *CEPService) cachePut(ctx context.Context, cep string, addr *core.Address) error {
	value, err := json.Marshal(addr)
	if err != nil {
		return fmt.Errorf("failed to serialize record: %w", err)
	}

	if err := s.store.Set(ctx, core.CacheKey(cep), string(value), s.cacheTTL); err != nil {
		s.log.Error().Err(err).Str("cep", cep).Msg("cache write failed")
		return err
	}

	return nil
}
