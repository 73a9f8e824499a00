package dto

// CreateEmpruntRequest HTTP借阅请求
// DureeJours可选:不传则使用配置的默认借期(14天)
type CreateEmpruntRequest struct {
	UtilisateurID string `json:"utilisateur_id" binding:"required,uuid" example:"6f1c2d3e-4a5b-6c7d-8e9f-0a1b2c3d4e5f"`
	LivreID       string `json:"livre_id" binding:"required,uuid" example:"1a2b3c4d-5e6f-7a8b-9c0d-1e2f3a4b5c6d"`
	DureeJours    int    `json:"duree_jours" binding:"omitempty,min=1,max=365" example:"14"`
}
