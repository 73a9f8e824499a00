package utilisateur

import (
	"context"

	"github.com/xiebiao/bibliotheque/internal/domain/utilisateur"
)

// UpdateUtilisateurUseCase 读者信息更新用例
type UpdateUtilisateurUseCase struct {
	service utilisateur.Service
}

// NewUpdateUtilisateurUseCase 创建读者更新用例
func NewUpdateUtilisateurUseCase(service utilisateur.Service) *UpdateUtilisateurUseCase {
	return &UpdateUtilisateurUseCase{service: service}
}

// UpdateUtilisateurRequest 更新请求DTO(部分更新,零值表示不修改)
type UpdateUtilisateurRequest struct {
	ID     string
	Nom    string
	Prenom string
	Email  string
	Actif  *bool // nil表示不修改激活状态
}

// Execute 执行更新
// 邮箱冲突检查在领域服务内完成
func (uc *UpdateUtilisateurUseCase) Execute(ctx context.Context, req UpdateUtilisateurRequest) (*UtilisateurResponse, error) {
	u, err := uc.service.UpdateUtilisateur(ctx, req.ID, req.Nom, req.Prenom, req.Email, req.Actif)
	if err != nil {
		return nil, err
	}

	return ToUtilisateurResponse(u), nil
}
