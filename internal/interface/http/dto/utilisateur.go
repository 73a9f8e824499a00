// Package dto 定义HTTP层的请求结构
// 响应直接复用application层的Response DTO(已带json tag),
// 避免同一结构在两层重复定义
package dto

// CreateUtilisateurRequest HTTP读者注册请求
// validator tag说明:
// - required: 必填字段
// - email: 邮箱格式校验(领域服务还会再校验一次,HTTP层提前拦截)
type CreateUtilisateurRequest struct {
	Nom    string `json:"nom" binding:"required,max=100" example:"Dupont"`
	Prenom string `json:"prenom" binding:"required,max=100" example:"Marie"`
	Email  string `json:"email" binding:"required,email,max=100" example:"marie.dupont@example.fr"`
}

// UpdateUtilisateurRequest HTTP读者更新请求(部分更新)
type UpdateUtilisateurRequest struct {
	Nom    string `json:"nom" binding:"omitempty,max=100" example:"Dupont"`
	Prenom string `json:"prenom" binding:"omitempty,max=100" example:"Marie"`
	Email  string `json:"email" binding:"omitempty,email,max=100" example:"marie.dupont@example.fr"`
	Actif  *bool  `json:"actif" binding:"omitempty" example:"true"`
}
