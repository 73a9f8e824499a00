package utilisateur

import (
	"context"

	"github.com/xiebiao/bibliotheque/internal/domain/emprunt"
	"github.com/xiebiao/bibliotheque/internal/domain/utilisateur"
)

// DeleteUtilisateurUseCase 读者删除用例
// 跨聚合规则:有活跃借阅的读者不能删除,检查委托给借阅仓储,
// 不在这里重新定义"活跃"的含义
type DeleteUtilisateurUseCase struct {
	utilisateurRepo utilisateur.Repository
	empruntRepo     emprunt.Repository
}

// NewDeleteUtilisateurUseCase 创建读者删除用例
func NewDeleteUtilisateurUseCase(
	utilisateurRepo utilisateur.Repository,
	empruntRepo emprunt.Repository,
) *DeleteUtilisateurUseCase {
	return &DeleteUtilisateurUseCase{
		utilisateurRepo: utilisateurRepo,
		empruntRepo:     empruntRepo,
	}
}

// Execute 执行删除
// 业务规则:
// - 读者不存在 → NotFound
// - 存在活跃借阅(EN_COURS或EN_RETARD) → Conflict,归还后才能删除
// - 历史借阅(RETOURNE)不阻止删除,记录保留
func (uc *DeleteUtilisateurUseCase) Execute(ctx context.Context, id string) error {
	if _, err := uc.utilisateurRepo.FindByID(ctx, id); err != nil {
		return err
	}

	count, err := uc.empruntRepo.CountActifsParUtilisateur(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return utilisateur.ErrEmpruntsEnCours
	}

	return uc.utilisateurRepo.Delete(ctx, id)
}
