package utilisateur

import (
	"context"

	"github.com/xiebiao/bibliotheque/internal/domain/utilisateur"
)

// ListUtilisateursUseCase 读者列表用例
type ListUtilisateursUseCase struct {
	service utilisateur.Service
}

// NewListUtilisateursUseCase 创建读者列表用例
func NewListUtilisateursUseCase(service utilisateur.Service) *ListUtilisateursUseCase {
	return &ListUtilisateursUseCase{service: service}
}

// Execute 查询读者列表(按注册时间倒序)
func (uc *ListUtilisateursUseCase) Execute(ctx context.Context) ([]*UtilisateurResponse, error) {
	users, err := uc.service.ListUtilisateurs(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*UtilisateurResponse, len(users))
	for i, u := range users {
		result[i] = ToUtilisateurResponse(u)
	}

	return result, nil
}
