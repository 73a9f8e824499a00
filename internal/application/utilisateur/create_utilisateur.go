package utilisateur

import (
	"context"

	"github.com/xiebiao/bibliotheque/internal/domain/utilisateur"
)

// CreateUtilisateurUseCase 读者注册用例
type CreateUtilisateurUseCase struct {
	service utilisateur.Service
}

// NewCreateUtilisateurUseCase 创建读者注册用例
func NewCreateUtilisateurUseCase(service utilisateur.Service) *CreateUtilisateurUseCase {
	return &CreateUtilisateurUseCase{service: service}
}

// CreateUtilisateurRequest 注册请求DTO
type CreateUtilisateurRequest struct {
	Nom    string
	Prenom string
	Email  string
}

// UtilisateurResponse 读者响应DTO(本包各用例共用)
type UtilisateurResponse struct {
	ID              string `json:"id"`
	Nom             string `json:"nom"`
	Prenom          string `json:"prenom"`
	Email           string `json:"email"`
	DateInscription string `json:"date_inscription"`
	Actif           bool   `json:"actif"`
}

// Execute 执行注册
// 校验(必填、邮箱格式、唯一性)在领域服务内完成
func (uc *CreateUtilisateurUseCase) Execute(ctx context.Context, req CreateUtilisateurRequest) (*UtilisateurResponse, error) {
	u, err := uc.service.CreerUtilisateur(ctx, req.Nom, req.Prenom, req.Email)
	if err != nil {
		return nil, err
	}

	return ToUtilisateurResponse(u), nil
}

// ToUtilisateurResponse 领域实体 → 响应DTO
func ToUtilisateurResponse(u *utilisateur.Utilisateur) *UtilisateurResponse {
	return &UtilisateurResponse{
		ID:              u.ID,
		Nom:             u.Nom,
		Prenom:          u.Prenom,
		Email:           u.Email,
		DateInscription: u.DateInscription.Format("2006-01-02 15:04:05"),
		Actif:           u.Actif,
	}
}
