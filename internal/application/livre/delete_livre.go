package livre

import (
	"context"
	"log"

	"github.com/xiebiao/bibliotheque/internal/domain/emprunt"
	"github.com/xiebiao/bibliotheque/internal/domain/livre"
)

// DeleteLivreUseCase 图书删除用例
// 跨聚合规则:有活跃借阅的图书不能删除
type DeleteLivreUseCase struct {
	livreRepo   livre.Repository
	empruntRepo emprunt.Repository
	cache       Cache
}

// NewDeleteLivreUseCase 创建图书删除用例
func NewDeleteLivreUseCase(
	livreRepo livre.Repository,
	empruntRepo emprunt.Repository,
	cache Cache,
) *DeleteLivreUseCase {
	return &DeleteLivreUseCase{
		livreRepo:   livreRepo,
		empruntRepo: empruntRepo,
		cache:       cache,
	}
}

// Execute 执行删除
// 业务规则:
// - 图书不存在 → NotFound
// - 存在活跃借阅(EN_COURS或EN_RETARD) → Conflict
// - 历史借阅(RETOURNE)不阻止删除
func (uc *DeleteLivreUseCase) Execute(ctx context.Context, id string) error {
	if _, err := uc.livreRepo.FindByID(ctx, id); err != nil {
		return err
	}

	count, err := uc.empruntRepo.CountActifsParLivre(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return livre.ErrEmpruntsEnCours
	}

	if err := uc.livreRepo.Delete(ctx, id); err != nil {
		return err
	}

	if uc.cache != nil {
		if err := uc.cache.InvalidateLivre(ctx, id); err != nil {
			log.Printf("失效图书缓存失败: %v", err)
		}
	}

	return nil
}
