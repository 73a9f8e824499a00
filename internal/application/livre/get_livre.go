package livre

import (
	"context"
	"log"

	"github.com/xiebiao/bibliotheque/internal/domain/livre"
	"github.com/xiebiao/bibliotheque/pkg/circuitbreaker"
	"github.com/xiebiao/bibliotheque/pkg/metrics"
)

// GetLivreUseCase 图书详情用例(Cache-Aside + 熔断)
// 读路径:熔断器保护下查Redis → 未命中回源MySQL → 回填缓存
// Redis故障时熔断器打开,后续请求直接走MySQL,不再等待Redis超时
type GetLivreUseCase struct {
	service livre.Service
	cache   Cache
	cb      *circuitbreaker.CircuitBreaker
}

// NewGetLivreUseCase 创建图书详情用例
func NewGetLivreUseCase(service livre.Service, cache Cache, cb *circuitbreaker.CircuitBreaker) *GetLivreUseCase {
	return &GetLivreUseCase{service: service, cache: cache, cb: cb}
}

// ByID 根据ID查询图书详情
func (uc *GetLivreUseCase) ByID(ctx context.Context, id string) (*LivreResponse, error) {
	// 1. 尝试缓存(熔断器保护,失败降级到MySQL)
	if cached := uc.fromCache(ctx, id); cached != nil {
		return ToLivreResponse(cached), nil
	}

	// 2. 回源MySQL
	l, err := uc.service.GetLivreByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3. 回填缓存(失败只记日志)
	uc.fillCache(ctx, l)

	return ToLivreResponse(l), nil
}

// ByISBN 根据ISBN查询图书(不走缓存,低频接口)
func (uc *GetLivreUseCase) ByISBN(ctx context.Context, isbn string) (*LivreResponse, error) {
	l, err := uc.service.GetLivreByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}
	return ToLivreResponse(l), nil
}

// fromCache 熔断器保护下读缓存,任何失败都返回nil(降级)
func (uc *GetLivreUseCase) fromCache(ctx context.Context, id string) *livre.Livre {
	if uc.cache == nil || uc.cb == nil {
		return nil
	}

	var cached *livre.Livre
	err := uc.cb.Execute(func() error {
		var err error
		cached, err = uc.cache.GetLivre(ctx, id)
		return err
	})
	if err != nil {
		if err != circuitbreaker.ErrOpenState {
			log.Printf("读取图书缓存失败: %v", err)
		}
		metrics.IncCounterVec(metrics.CacheRequestsTotal,
			map[string]string{"cache": "livre_detail", "result": "error"})
		return nil
	}

	result := "miss"
	if cached != nil {
		result = "hit"
	}
	metrics.IncCounterVec(metrics.CacheRequestsTotal,
		map[string]string{"cache": "livre_detail", "result": result})

	return cached
}

// fillCache 回填缓存(best-effort)
func (uc *GetLivreUseCase) fillCache(ctx context.Context, l *livre.Livre) {
	if uc.cache == nil || uc.cb == nil {
		return
	}
	err := uc.cb.Execute(func() error {
		return uc.cache.SetLivre(ctx, l)
	})
	if err != nil && err != circuitbreaker.ErrOpenState {
		log.Printf("回填图书缓存失败: %v", err)
	}
}
