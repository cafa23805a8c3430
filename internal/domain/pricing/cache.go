package pricing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// QuoteCache memoizes quotes. It is purely an optimization: a Calculator with
// no cache returns identical quotes.
type QuoteCache interface {
	Get(key string) (Quote, bool)
	Add(key string, q Quote)
	Len() int
	Purge()
}

type lruQuoteCache struct {
	c *lru.Cache[string, Quote]
}

// NewLRUQuoteCache creates a bounded cache holding at most size quotes.
func NewLRUQuoteCache(size int) (QuoteCache, error) {
	c, err := lru.New[string, Quote](size)
	if err != nil {
		return nil, fmt.Errorf("create quote cache: %w", err)
	}
	return &lruQuoteCache{c: c}, nil
}

func (l *lruQuoteCache) Get(key string) (Quote, bool) { return l.c.Get(key) }
func (l *lruQuoteCache) Add(key string, q Quote)      { l.c.Add(key, q) }
func (l *lruQuoteCache) Len() int                     { return l.c.Len() }
func (l *lruQuoteCache) Purge()                       { l.c.Purge() }

// cacheKey derives a stable key from product identity, base price, collection,
// primary material and the effective materials list. The collection is kept
// verbatim because the quote and the rentability rule both see it as given.
func cacheKey(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "p=%s|b=%s|c=%q|k=%s", req.ProductID, req.BasePrice.String(),
		req.Collection, normalizeName(req.PrimaryMaterial))

	for _, m := range req.Materials {
		fmt.Fprintf(&b, "|m=%s:%s:%s:%s:%t", m.ID, m.Price.String(), m.Quantity.String(),
			m.ConsumptionCoeff.String(), m.IsActive())
	}

	keys := make([]string, 0, len(req.Quantities))
	for k := range req.Quantities {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "|q=%s:%s", k, req.Quantities[k].String())
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
