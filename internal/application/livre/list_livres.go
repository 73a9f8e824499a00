package livre

import (
	"context"

	"github.com/xiebiao/bibliotheque/internal/domain/livre"
)

// ListLivresUseCase 图书列表用例
type ListLivresUseCase struct {
	service livre.Service
}

// NewListLivresUseCase 创建图书列表用例
func NewListLivresUseCase(service livre.Service) *ListLivresUseCase {
	return &ListLivresUseCase{service: service}
}

// Execute 查询图书列表(按入藏时间倒序)
func (uc *ListLivresUseCase) Execute(ctx context.Context) ([]*LivreResponse, error) {
	livres, err := uc.service.ListLivres(ctx)
	if err != nil {
		return nil, err
	}
	return ToLivreResponses(livres), nil
}

// Disponibles 查询可借图书列表
func (uc *ListLivresUseCase) Disponibles(ctx context.Context) ([]*LivreResponse, error) {
	livres, err := uc.service.ListLivresDisponibles(ctx)
	if err != nil {
		return nil, err
	}
	return ToLivreResponses(livres), nil
}
