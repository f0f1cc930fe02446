package ports

import "context"

// TitleCache caches service titles keyed by external service code, used when
// denormalizing service_title into listed orders. Lookups are best effort: a
// cache error is treated as a miss.
type TitleCache interface {
	Get(ctx context.Context, code string) (title string, ok bool, err error)
	Set(ctx context.Context, code, title string) error
}
