package livre

import (
	"context"

	"github.com/xiebiao/bibliotheque/internal/domain/livre"
)

// Cache 图书缓存接口(Cache-Aside)
// redis.LivreCache实现该接口;为nil时所有读写直接走MySQL
type Cache interface {
	GetLivre(ctx context.Context, id string) (*livre.Livre, error)
	SetLivre(ctx context.Context, l *livre.Livre) error
	InvalidateLivre(ctx context.Context, id string) error
	GetRecherche(ctx context.Context, query string) ([]*livre.Livre, error)
	SetRecherche(ctx context.Context, query string, livres []*livre.Livre) error
}

// CreateLivreUseCase 图书入藏用例
type CreateLivreUseCase struct {
	service livre.Service
}

// NewCreateLivreUseCase 创建图书入藏用例
func NewCreateLivreUseCase(service livre.Service) *CreateLivreUseCase {
	return &CreateLivreUseCase{service: service}
}

// CreateLivreRequest 入藏请求DTO
type CreateLivreRequest struct {
	Titre             string
	Auteur            string
	ISBN              string
	AnneePublication  int
	Genre             string
	NombreExemplaires int
}

// LivreResponse 图书响应DTO(本包各用例共用)
type LivreResponse struct {
	ID                string `json:"id"`
	Titre             string `json:"titre"`
	Auteur            string `json:"auteur"`
	ISBN              string `json:"isbn"`
	AnneePublication  int    `json:"annee_publication"`
	Genre             string `json:"genre"`
	NombreExemplaires int    `json:"nombre_exemplaires"`
	Disponible        bool   `json:"disponible"`
	DateAjout         string `json:"date_ajout"`
}

// Execute 执行入藏
// 校验(必填、ISBN格式、唯一性)在领域服务内完成
func (uc *CreateLivreUseCase) Execute(ctx context.Context, req CreateLivreRequest) (*LivreResponse, error) {
	l, err := uc.service.CreerLivre(ctx, req.Titre, req.Auteur, req.ISBN,
		req.AnneePublication, req.Genre, req.NombreExemplaires)
	if err != nil {
		return nil, err
	}

	return ToLivreResponse(l), nil
}

// ToLivreResponse 领域实体 → 响应DTO
func ToLivreResponse(l *livre.Livre) *LivreResponse {
	return &LivreResponse{
		ID:                l.ID,
		Titre:             l.Titre,
		Auteur:            l.Auteur,
		ISBN:              l.ISBN,
		AnneePublication:  l.AnneePublication,
		Genre:             l.Genre,
		NombreExemplaires: l.NombreExemplaires,
		Disponible:        l.Disponible,
		DateAjout:         l.DateAjout.Format("2006-01-02 15:04:05"),
	}
}

// ToLivreResponses 批量转换
func ToLivreResponses(livres []*livre.Livre) []*LivreResponse {
	result := make([]*LivreResponse, len(livres))
	for i, l := range livres {
		result[i] = ToLivreResponse(l)
	}
	return result
}
