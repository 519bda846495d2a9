package service

import "context"

// Board cache kinds. One entry per office board.
const (
	BoardReady   = "ready"
	BoardShipped = "shipped"
)

// BoardCache is the short-lived store behind the office boards.
// infra.BoardCache implements it on Redis.
//
// Readers take the generation before querying the store and store the result
// under it; Invalidate moves the generation on, so a result that raced a
// write is never served.
type BoardCache interface {
	Generation(ctx context.Context) (gen int64, ok bool)
	Get(ctx context.Context, kind string, gen int64, dest interface{}) bool
	Set(ctx context.Context, kind string, gen int64, v interface{})
	Invalidate(ctx context.Context)
}

type noCache struct{}

func (noCache) Generation(context.Context) (int64, bool)              { return 0, false }
func (noCache) Get(context.Context, string, int64, interface{}) bool { return false }
func (noCache) Set(context.Context, string, int64, interface{})      {}
func (noCache) Invalidate(context.Context)                           {}

func cacheOrNoop(c BoardCache) BoardCache {
	if c == nil {
		return noCache{}
	}
	return c
}
