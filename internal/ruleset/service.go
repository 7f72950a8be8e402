package ruleset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/LevelUp_Go/internal/domain"
	"github.com/osse101/LevelUp_Go/internal/logger"
	"github.com/osse101/LevelUp_Go/internal/metrics"
	"github.com/osse101/LevelUp_Go/internal/repository"
)

// Service manages rulesets and serves the compiled active one
type Service interface {
	List(ctx context.Context) ([]domain.Ruleset, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Ruleset, error)

	// GetActive returns the compiled active ruleset, or the built-in defaults when
	// none is active and fallback is enabled.
	GetActive(ctx context.Context) (*Compiled, error)

	// Load compiles a specific ruleset whether or not it is active
	Load(ctx context.Context, id uuid.UUID) (*Compiled, error)

	Create(ctx context.Context, name string, rules json.RawMessage) (*domain.Ruleset, error)
	Update(ctx context.Context, id uuid.UUID, name string, rules json.RawMessage) (*domain.Ruleset, error)
	Activate(ctx context.Context, id uuid.UUID) (*domain.Ruleset, error)
}

// Options tune the compiled-ruleset cache
type Options struct {
	CacheSize          int
	CacheTTL           time.Duration
	FallbackToDefaults bool
}

// DefaultOptions returns the options used when none are configured
func DefaultOptions() Options {
	return Options{
		CacheSize:          DefaultCacheSize,
		CacheTTL:           DefaultCacheTTL,
		FallbackToDefaults: true,
	}
}

type service struct {
	repo     repository.RulesetRepository
	cache    *expirable.LRU[string, *Compiled]
	fallback bool

	// generation advances on every invalidation. A read only fills the cache
	// if no invalidation happened while it was loading from the repository.
	mu         sync.Mutex
	generation uint64
}

// NewService creates a ruleset service
func NewService(repo repository.RulesetRepository, opts Options) Service {
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	return &service{
		repo:     repo,
		cache:    expirable.NewLRU[string, *Compiled](opts.CacheSize, nil, opts.CacheTTL),
		fallback: opts.FallbackToDefaults,
	}
}

func (s *service) List(ctx context.Context) ([]domain.Ruleset, error) {
	return s.repo.ListRulesets(ctx)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*domain.Ruleset, error) {
	return s.repo.GetRuleset(ctx, id)
}

func (s *service) GetActive(ctx context.Context) (*Compiled, error) {
	if c, ok := s.cache.Get(activeCacheKey); ok {
		return c, nil
	}

	gen := s.currentGeneration()
	rs, err := s.repo.GetActiveRuleset(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveRuleset) && s.fallback {
			logger.FromContext(ctx).Debug(LogMsgUsingFallback)
			c, cerr := Defaults()
			if cerr != nil {
				return nil, cerr
			}
			s.store(gen, activeCacheKey, c)
			return c, nil
		}
		return nil, err
	}

	c, err := compile(rs)
	if err != nil {
		return nil, err
	}
	s.store(gen, activeCacheKey, c)
	return c, nil
}

func (s *service) Load(ctx context.Context, id uuid.UUID) (*Compiled, error) {
	key := id.String()
	if c, ok := s.cache.Get(key); ok {
		return c, nil
	}

	gen := s.currentGeneration()
	rs, err := s.repo.GetRuleset(ctx, id)
	if err != nil {
		return nil, err
	}
	c, err := compile(rs)
	if err != nil {
		return nil, err
	}
	s.store(gen, key, c)
	return c, nil
}

func (s *service) Create(ctx context.Context, name string, rules json.RawMessage) (*domain.Ruleset, error) {
	name, err := checkName(name)
	if err != nil {
		return nil, err
	}
	if err := validateRules(rules); err != nil {
		return nil, err
	}

	rs := &domain.Ruleset{Name: name, Rules: rules}
	if err := s.repo.CreateRuleset(ctx, rs); err != nil {
		return nil, err
	}

	metrics.RulesetChanges.WithLabelValues(metrics.ActionCreate).Inc()
	logger.FromContext(ctx).Info(LogMsgRulesetCreated, "ruleset_id", rs.ID, "name", rs.Name)
	return rs, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, name string, rules json.RawMessage) (*domain.Ruleset, error) {
	name, err := checkName(name)
	if err != nil {
		return nil, err
	}
	if err := validateRules(rules); err != nil {
		return nil, err
	}

	rs, err := s.repo.GetRuleset(ctx, id)
	if err != nil {
		return nil, err
	}
	rs.Name = name
	rs.Rules = rules
	if err := s.repo.UpdateRuleset(ctx, rs); err != nil {
		return nil, err
	}

	// rs.Active may be stale if an activation raced this update
	s.invalidate(id.String(), activeCacheKey)

	metrics.RulesetChanges.WithLabelValues(metrics.ActionUpdate).Inc()
	logger.FromContext(ctx).Info(LogMsgRulesetUpdated, "ruleset_id", rs.ID, "name", rs.Name, "active", rs.Active)
	return rs, nil
}

func (s *service) Activate(ctx context.Context, id uuid.UUID) (*domain.Ruleset, error) {
	rs, err := s.repo.GetRuleset(ctx, id)
	if err != nil {
		return nil, err
	}
	// A stored document may predate a validation rule; refuse to make it live.
	if err := validateRules(rs.Rules); err != nil {
		return nil, err
	}

	if err := s.repo.ActivateRuleset(ctx, id); err != nil {
		return nil, err
	}
	rs.Active = true
	s.invalidate()

	metrics.RulesetChanges.WithLabelValues(metrics.ActionActivate).Inc()
	logger.FromContext(ctx).Info(LogMsgRulesetActivated, "ruleset_id", rs.ID, "name", rs.Name)
	return rs, nil
}

func (s *service) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// store caches c under key unless an invalidation happened after gen was read
func (s *service) store(gen uint64, key string, c *Compiled) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation == gen {
		s.cache.Add(key, c)
	}
}

// invalidate drops keys, or the whole cache when none are given
func (s *service) invalidate(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	if len(keys) == 0 {
		s.cache.Purge()
		return
	}
	for _, key := range keys {
		s.cache.Remove(key)
	}
}

// Defaults compiles the built-in document
func Defaults() (*Compiled, error) {
	c, err := DefaultDocument().Compile()
	if err != nil {
		return nil, err
	}
	c.Name = DefaultRulesetName
	return c, nil
}

// ParseAndCompile parses raw rules_json and compiles it
func ParseAndCompile(rules json.RawMessage) (*Compiled, error) {
	doc, err := Parse(rules)
	if err != nil {
		return nil, err
	}
	return doc.Compile()
}

func compile(rs *domain.Ruleset) (*Compiled, error) {
	c, err := ParseAndCompile(rs.Rules)
	if err != nil {
		return nil, fmt.Errorf("ruleset %s: %w", rs.ID, err)
	}
	id := rs.ID
	c.RulesetID = &id
	c.Name = rs.Name
	return c, nil
}

func validateRules(rules json.RawMessage) error {
	if len(rules) == 0 {
		return fmt.Errorf("%w: rules document is required", domain.ErrInvalidRuleset)
	}
	_, err := ParseAndCompile(rules)
	return err
}

func checkName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: ruleset name is required", domain.ErrInvalidInput)
	}
	if len(name) > MaxNameLength {
		return "", fmt.Errorf("%w: ruleset name must be at most %d characters", domain.ErrInvalidInput, MaxNameLength)
	}
	return name, nil
}
