package livre

import (
	"context"
	"log"

	"github.com/xiebiao/bibliotheque/internal/domain/livre"
)

// UpdateLivreUseCase 图书更新用例
type UpdateLivreUseCase struct {
	service livre.Service
	cache   Cache
}

// NewUpdateLivreUseCase 创建图书更新用例
func NewUpdateLivreUseCase(service livre.Service, cache Cache) *UpdateLivreUseCase {
	return &UpdateLivreUseCase{service: service, cache: cache}
}

// UpdateLivreRequest 更新请求DTO(部分更新,零值表示不修改)
type UpdateLivreRequest struct {
	ID                string
	Titre             string
	Auteur            string
	ISBN              string
	AnneePublication  int
	Genre             string
	NombreExemplaires *int // nil表示不调整副本数
}

// Execute 执行更新
// 先更新MySQL,再失效缓存(不更新缓存,避免并发写覆盖)
// 注意:副本数调整走这里是馆藏盘点场景;借出/归还的副本数
// 变化由借阅事务处理,不经过本用例
func (uc *UpdateLivreUseCase) Execute(ctx context.Context, req UpdateLivreRequest) (*LivreResponse, error) {
	l, err := uc.service.UpdateLivre(ctx, req.ID, req.Titre, req.Auteur, req.ISBN,
		req.AnneePublication, req.Genre, req.NombreExemplaires)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.InvalidateLivre(ctx, l.ID); err != nil {
			log.Printf("失效图书缓存失败: %v", err)
		}
	}

	return ToLivreResponse(l), nil
}
