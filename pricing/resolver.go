// Package pricing resolves reference market prices for product categories.
package pricing

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"catalog-pricer/models"
	"catalog-pricer/utils"
)

// FallbackPrice is used whenever a real reference price cannot be produced.
const FallbackPrice = 10.0

// Item is one product returned by a price source. SalePrice is nil when the
// item carries no usable price.
type Item struct {
	SKU       string
	Name      string
	SalePrice *float64
}

// Provider looks up products matching a free-text keyword.
type Provider interface {
	Search(ctx context.Context, keyword string) ([]Item, error)
}

// Options tune a Resolver. Zero values give a single sequential attempt with a
// ten second timeout.
type Options struct {
	Timeout        time.Duration
	Attempts       int
	MaxConcurrency int
	RateLimitMs    int

	// OnResolved, when set, is called once per resolved category.
	OnResolved func(category string, price float64)
}

// Resolver turns categories into reference prices. It never returns an error:
// every failure degrades to FallbackPrice.
type Resolver struct {
	provider Provider
	logger   *utils.Logger
	opts     Options
	retry    *utils.RetryConfig
}

// NewResolver creates a Resolver. A nil provider means no credential is
// configured and every category resolves to FallbackPrice.
func NewResolver(provider Provider, logger *utils.Logger, opts Options) *Resolver {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	if opts.MaxConcurrency < 1 {
		opts.MaxConcurrency = 1
	}
	return &Resolver{
		provider: provider,
		logger:   logger,
		opts:     opts,
		retry: &utils.RetryConfig{
			MaxAttempts: opts.Attempts,
			BaseDelay:   500 * time.Millisecond,
			Logger:      logger,
		},
	}
}

// Resolve returns the mean sale price of the items matching category, or
// FallbackPrice when the lookup fails or yields no priced item.
func (r *Resolver) Resolve(ctx context.Context, category string) (price float64) {
	if r.provider == nil {
		r.logger.Debug("[resolver] No API credential, using fallback for %q", category)
		return FallbackPrice
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("[resolver] Lookup for %q panicked: %v, using fallback", category, rec)
			price = FallbackPrice
		}
	}()

	var items []Item
	err := r.retry.Do(ctx, "price lookup "+category, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()

		found, err := r.provider.Search(callCtx, category)
		if err != nil {
			return err
		}
		items = found
		return nil
	})
	if err != nil {
		r.logger.Warn("[resolver] Lookup for %q failed: %v, using fallback", category, err)
		return FallbackPrice
	}

	mean, ok := meanSalePrice(items)
	if !ok {
		r.logger.Warn("[resolver] No priced items for %q (%d returned), using fallback", category, len(items))
		return FallbackPrice
	}

	r.logger.Debug("[resolver] %q → $%.2f from %d items: %s", category, mean, len(items), itemNames(items))
	return mean
}

// ResolveAll resolves each distinct category exactly once and freezes the
// results into a CategoryPriceMap that keeps the order of categories.
func (r *Resolver) ResolveAll(ctx context.Context, categories []string) *models.CategoryPriceMap {
	unique := utils.NewOrderedSet()
	for _, c := range categories {
		unique.Add(c)
	}
	keys := unique.Keys()

	var mu sync.Mutex
	prices := make(map[string]float64, len(keys))

	pool := utils.NewWorkerPool(r.opts.MaxConcurrency, r.opts.RateLimitMs)
	for _, cat := range keys {
		pool.Submit(func() {
			p := r.Resolve(ctx, cat)

			mu.Lock()
			prices[cat] = p
			mu.Unlock()

			if r.opts.OnResolved != nil {
				r.opts.OnResolved(cat, p)
			}
		})
	}
	pool.Wait()

	r.logger.Info("[resolver] Resolved %d categories", unique.Size())
	return models.NewCategoryPriceMap(keys, prices)
}

// itemNames lists up to three items as "name (sku)" for debug logs.
func itemNames(items []Item) string {
	names := make([]string, 0, 3)
	for _, it := range items {
		if len(names) == 3 {
			names = append(names, "...")
			break
		}
		names = append(names, fmt.Sprintf("%s (%s)", it.Name, it.SKU))
	}
	return strings.Join(names, ", ")
}

func meanSalePrice(items []Item) (float64, bool) {
	var total float64
	var n int
	for _, it := range items {
		if it.SalePrice == nil {
			continue
		}
		total += *it.SalePrice
		n++
	}
	if n == 0 {
		return 0, false
	}
	return total / float64(n), true
}

// String describes the resolver for logs.
func (r *Resolver) String() string {
	return fmt.Sprintf("Resolver{remote: %t, timeout: %v, attempts: %d, concurrency: %d}",
		r.provider != nil, r.opts.Timeout, r.opts.Attempts, r.opts.MaxConcurrency)
}
