package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bibliotheque/internal/domain/livre"
)

// 缓存key格式
const (
	// keyLivreDetail 图书详情缓存:livre:<id>
	keyLivreDetail = "livre:%s"

	// keyRecherche 搜索结果缓存:livres:recherche:<query>
	keyRecherche = "livres:recherche:%s"

	// rechercheScanPattern 搜索缓存的批量删除模式
	rechercheScanPattern = "livres:recherche:*"
)

// 缓存TTL
// 详情缓存写路径有主动失效,TTL只作兜底;
// 搜索结果按query缓存,命中率低,TTL设短避免陈旧结果
const (
	ttlLivreDetail = 10 * time.Minute
	ttlRecherche   = 60 * time.Second
)

// LivreCache 图书缓存(Cache-Aside)
// 设计说明:
// 1. 读路径:先查缓存,未命中回源MySQL后回填
// 2. 写路径:先更新MySQL,再删除缓存(不更新缓存,避免并发写覆盖)
// 3. 缓存故障不影响业务:调用方配合熔断器降级到直接查库
type LivreCache struct {
	client *redis.Client
}

// NewLivreCache 创建图书缓存
func NewLivreCache(client *redis.Client) *LivreCache {
	return &LivreCache{client: client}
}

// GetLivre 读取图书详情缓存
// 未命中返回(nil, nil),错误只在Redis故障时返回
func (c *LivreCache) GetLivre(ctx context.Context, id string) (*livre.Livre, error) {
	key := fmt.Sprintf(keyLivreDetail, id)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // 未命中
		}
		return nil, fmt.Errorf("lecture du cache livre: %w", err)
	}

	var l livre.Livre
	if err := json.Unmarshal(data, &l); err != nil {
		// 缓存内容损坏,当作未命中,删掉脏数据
		c.client.Del(ctx, key)
		return nil, nil
	}

	return &l, nil
}

// SetLivre 回填图书详情缓存
func (c *LivreCache) SetLivre(ctx context.Context, l *livre.Livre) error {
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("sérialisation du livre: %w", err)
	}

	key := fmt.Sprintf(keyLivreDetail, l.ID)
	if err := c.client.Set(ctx, key, data, ttlLivreDetail).Err(); err != nil {
		return fmt.Errorf("écriture du cache livre: %w", err)
	}

	return nil
}

// InvalidateLivre 失效图书详情缓存
// 图书更新/删除/借出/归还后调用;同时清掉搜索缓存,
// 因为副本数和可借状态会出现在搜索结果里
func (c *LivreCache) InvalidateLivre(ctx context.Context, id string) error {
	key := fmt.Sprintf(keyLivreDetail, id)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("invalidation du cache livre: %w", err)
	}

	return c.InvalidateRecherches(ctx)
}

// GetRecherche 读取搜索结果缓存
// 未命中返回(nil, nil)
func (c *LivreCache) GetRecherche(ctx context.Context, query string) ([]*livre.Livre, error) {
	key := fmt.Sprintf(keyRecherche, query)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("lecture du cache recherche: %w", err)
	}

	var livres []*livre.Livre
	if err := json.Unmarshal(data, &livres); err != nil {
		c.client.Del(ctx, key)
		return nil, nil
	}

	return livres, nil
}

// SetRecherche 回填搜索结果缓存
func (c *LivreCache) SetRecherche(ctx context.Context, query string, livres []*livre.Livre) error {
	data, err := json.Marshal(livres)
	if err != nil {
		return fmt.Errorf("sérialisation des résultats: %w", err)
	}

	key := fmt.Sprintf(keyRecherche, query)
	if err := c.client.Set(ctx, key, data, ttlRecherche).Err(); err != nil {
		return fmt.Errorf("écriture du cache recherche: %w", err)
	}

	return nil
}

// InvalidateRecherches 批量失效搜索缓存
// 使用SCAN遍历删除(不用KEYS,避免阻塞Redis)
func (c *LivreCache) InvalidateRecherches(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, rechercheScanPattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("invalidation du cache recherche: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("parcours du cache recherche: %w", err)
	}

	return nil
}
