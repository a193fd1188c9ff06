package aggregate

import "context"

// ResultCache memoizes aggregation results. The infra cache package
// implements it.
type ResultCache interface {
	Get(req Request) (*Result, bool)
	Set(req Request, result *Result)
}

// CachedService fronts the aggregation service with a result cache. Only
// fully successful runs are cached; a run with failed categories is served
// but not stored, so the next request retries the failing feeds.
type CachedService struct {
	service *Service
	cache   ResultCache
}

// NewCachedService wraps service with cache.
func NewCachedService(service *Service, cache ResultCache) *CachedService {
	return &CachedService{service: service, cache: cache}
}

// News returns the aggregation result for req, from cache when fresh. The
// bool reports a cache hit.
func (s *CachedService) News(ctx context.Context, req Request) (*Result, bool, error) {
	if result, ok := s.cache.Get(req); ok {
		return result, true, nil
	}

	result, err := s.service.Aggregate(ctx, req)
	if err != nil {
		return nil, false, err
	}

	complete := true
	for _, diag := range result.Diagnostics {
		if diag.Failed() {
			complete = false
			break
		}
	}
	if complete {
		s.cache.Set(req, result)
	}
	return result, false, nil
}
