package utilisateur

import (
	"context"

	"github.com/xiebiao/bibliotheque/internal/domain/utilisateur"
)

// GetUtilisateurUseCase 读者查询用例
type GetUtilisateurUseCase struct {
	service utilisateur.Service
}

// NewGetUtilisateurUseCase 创建读者查询用例
func NewGetUtilisateurUseCase(service utilisateur.Service) *GetUtilisateurUseCase {
	return &GetUtilisateurUseCase{service: service}
}

// ByID 根据ID查询读者
func (uc *GetUtilisateurUseCase) ByID(ctx context.Context, id string) (*UtilisateurResponse, error) {
	u, err := uc.service.GetUtilisateurByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToUtilisateurResponse(u), nil
}

// ByEmail 根据邮箱查询读者
func (uc *GetUtilisateurUseCase) ByEmail(ctx context.Context, email string) (*UtilisateurResponse, error) {
	u, err := uc.service.GetUtilisateurByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return ToUtilisateurResponse(u), nil
}
