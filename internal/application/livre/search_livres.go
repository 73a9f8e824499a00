package livre

import (
	"context"
	"log"
	"strings"

	"github.com/xiebiao/bibliotheque/internal/domain/livre"
	"github.com/xiebiao/bibliotheque/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bibliotheque/pkg/errors"
	"github.com/xiebiao/bibliotheque/pkg/metrics"
)

// ErrRequeteVide 空搜索词
var ErrRequeteVide = apperrors.New(apperrors.ErrCodeInvalidParams, "Le terme de recherche est requis")

// SearchLivresUseCase 图书搜索用例(短TTL缓存 + 熔断)
// 搜索结果按归一化的query缓存;副本数变化时缓存整体失效,
// TTL设短保证陈旧窗口可控
type SearchLivresUseCase struct {
	service livre.Service
	cache   Cache
	cb      *circuitbreaker.CircuitBreaker
}

// NewSearchLivresUseCase 创建图书搜索用例
func NewSearchLivresUseCase(service livre.Service, cache Cache, cb *circuitbreaker.CircuitBreaker) *SearchLivresUseCase {
	return &SearchLivresUseCase{service: service, cache: cache, cb: cb}
}

// Execute 执行搜索(书名/作者/类别,大小写不敏感的子串匹配)
func (uc *SearchLivresUseCase) Execute(ctx context.Context, query string) ([]*LivreResponse, error) {
	// 归一化:去首尾空白、小写(同一词的不同写法命中同一缓存key)
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return nil, ErrRequeteVide
	}

	// 1. 尝试缓存
	if cached := uc.fromCache(ctx, normalized); cached != nil {
		return ToLivreResponses(cached), nil
	}

	// 2. 回源MySQL
	livres, err := uc.service.RechercherLivres(ctx, normalized)
	if err != nil {
		return nil, err
	}

	// 3. 回填缓存(空结果也缓存,防穿透)
	uc.fillCache(ctx, normalized, livres)

	return ToLivreResponses(livres), nil
}

// fromCache 熔断器保护下读搜索缓存,任何失败都返回nil(降级)
func (uc *SearchLivresUseCase) fromCache(ctx context.Context, query string) []*livre.Livre {
	if uc.cache == nil || uc.cb == nil {
		return nil
	}

	var cached []*livre.Livre
	err := uc.cb.Execute(func() error {
		var err error
		cached, err = uc.cache.GetRecherche(ctx, query)
		return err
	})
	if err != nil {
		if err != circuitbreaker.ErrOpenState {
			log.Printf("读取搜索缓存失败: %v", err)
		}
		metrics.IncCounterVec(metrics.CacheRequestsTotal,
			map[string]string{"cache": "livre_recherche", "result": "error"})
		return nil
	}

	result := "miss"
	if cached != nil {
		result = "hit"
	}
	metrics.IncCounterVec(metrics.CacheRequestsTotal,
		map[string]string{"cache": "livre_recherche", "result": result})

	return cached
}

// fillCache 回填搜索缓存(best-effort)
func (uc *SearchLivresUseCase) fillCache(ctx context.Context, query string, livres []*livre.Livre) {
	if uc.cache == nil || uc.cb == nil {
		return
	}
	err := uc.cb.Execute(func() error {
		return uc.cache.SetRecherche(ctx, query, livres)
	})
	if err != nil && err != circuitbreaker.ErrOpenState {
		log.Printf("回填搜索缓存失败: %v", err)
	}
}
