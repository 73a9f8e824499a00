package dto

// CreateLivreRequest HTTP图书入藏请求
type CreateLivreRequest struct {
	Titre             string `json:"titre" binding:"required,max=200" example:"L'Étranger"`
	Auteur            string `json:"auteur" binding:"required,max=100" example:"Albert Camus"`
	ISBN              string `json:"isbn" binding:"required,max=20" example:"9782070360024"`
	AnneePublication  int    `json:"annee_publication" binding:"required" example:"1942"`
	Genre             string `json:"genre" binding:"required,max=50" example:"Roman"`
	NombreExemplaires int    `json:"nombre_exemplaires" binding:"min=0" example:"3"`
}

// UpdateLivreRequest HTTP图书更新请求(部分更新)
// NombreExemplaires用指针区分"不修改"和"调整为0"
type UpdateLivreRequest struct {
	Titre             string `json:"titre" binding:"omitempty,max=200" example:"L'Étranger"`
	Auteur            string `json:"auteur" binding:"omitempty,max=100" example:"Albert Camus"`
	ISBN              string `json:"isbn" binding:"omitempty,max=20" example:"9782070360024"`
	AnneePublication  int    `json:"annee_publication" binding:"omitempty" example:"1942"`
	Genre             string `json:"genre" binding:"omitempty,max=50" example:"Roman"`
	NombreExemplaires *int   `json:"nombre_exemplaires" binding:"omitempty,min=0" example:"3"`
}

// RechercheLivresRequest HTTP图书搜索请求(query参数)
type RechercheLivresRequest struct {
	Q string `form:"q" binding:"required,max=100" example:"camus"`
}
