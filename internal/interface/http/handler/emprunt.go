package handler

import (
	"github.com/gin-gonic/gin"

	appemprunt "github.com/xiebiao/bibliotheque/internal/application/emprunt"
	"github.com/xiebiao/bibliotheque/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bibliotheque/pkg/errors"
	"github.com/xiebiao/bibliotheque/pkg/response"
)

// EmpruntHandler 借阅HTTP处理器
type EmpruntHandler struct {
	createUseCase *appemprunt.CreateEmpruntUseCase
	returnUseCase *appemprunt.ReturnEmpruntUseCase
	listUseCase   *appemprunt.ListEmpruntsUseCase
}

// NewEmpruntHandler 创建借阅处理器
func NewEmpruntHandler(
	createUseCase *appemprunt.CreateEmpruntUseCase,
	returnUseCase *appemprunt.ReturnEmpruntUseCase,
	listUseCase *appemprunt.ListEmpruntsUseCase,
) *EmpruntHandler {
	return &EmpruntHandler{
		createUseCase: createUseCase,
		returnUseCase: returnUseCase,
		listUseCase:   listUseCase,
	}
}

// Create 借书
// @Summary      借书
// @Description  为读者借出一本图书;一名读者同时只能有一个活跃借阅
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateEmpruntRequest true "借阅请求"
// @Success      200 {object} response.Response{data=appemprunt.EmpruntResponse}
// @Failure      400 {object} response.Response "读者未激活/图书不可借/已有活跃借阅"
// @Failure      404 {object} response.Response "读者或图书不存在"
// @Router       /api/v1/emprunts [post]
func (h *EmpruntHandler) Create(c *gin.Context) {
	var req dto.CreateEmpruntRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.New(apperrors.ErrCodeBindError, "Format de requête invalide: "+err.Error()))
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), appemprunt.CreateEmpruntRequest{
		UtilisateurID: req.UtilisateurID,
		LivreID:       req.LivreID,
		DureeJours:    req.DureeJours,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Retourner 还书
// @Summary      还书
// @Description  归还借阅;记录不存在时返回404空响应,已归还的借阅返回业务错误
// @Tags         借阅
// @Produce      json
// @Param        id path string true "借阅ID"
// @Success      200 {object} response.Response{data=appemprunt.EmpruntResponse}
// @Failure      400 {object} response.Response "借阅不在进行中"
// @Failure      404 {object} response.Response "借阅记录不存在"
// @Router       /api/v1/emprunts/{id}/retour [post]
func (h *EmpruntHandler) Retourner(c *gin.Context) {
	result, err := h.returnUseCase.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	// 记录不存在:非错误,404空响应
	if result == nil {
		response.NotFound(c, "Emprunt introuvable")
		return
	}

	response.Success(c, result)
}

// EnCours 进行中的借阅列表
// @Summary      进行中的借阅
// @Tags         借阅
// @Produce      json
// @Success      200 {object} response.Response{data=[]appemprunt.EmpruntDetailResponse}
// @Router       /api/v1/emprunts/en-cours [get]
func (h *EmpruntHandler) EnCours(c *gin.Context) {
	result, err := h.listUseCase.EnCours(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// EnRetard 逾期借阅列表
// @Summary      逾期借阅
// @Description  查询前先执行逾期重评估(EN_COURS→EN_RETARD惰性转换)
// @Tags         借阅
// @Produce      json
// @Success      200 {object} response.Response{data=[]appemprunt.EmpruntDetailResponse}
// @Router       /api/v1/emprunts/en-retard [get]
func (h *EmpruntHandler) EnRetard(c *gin.Context) {
	result, err := h.listUseCase.EnRetard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Historique 借阅历史
// @Summary      借阅历史
// @Description  已归还的借阅,按实际归还时间倒序
// @Tags         借阅
// @Produce      json
// @Success      200 {object} response.Response{data=[]appemprunt.EmpruntDetailResponse}
// @Router       /api/v1/emprunts/historique [get]
func (h *EmpruntHandler) Historique(c *gin.Context) {
	result, err := h.listUseCase.Historique(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ParUtilisateur 读者的借阅列表
// @Summary      读者的借阅
// @Tags         借阅
// @Produce      json
// @Param        id path string true "读者ID"
// @Success      200 {object} response.Response{data=[]appemprunt.EmpruntDetailResponse}
// @Failure      404 {object} response.Response "读者不存在"
// @Router       /api/v1/utilisateurs/{id}/emprunts [get]
func (h *EmpruntHandler) ParUtilisateur(c *gin.Context) {
	result, err := h.listUseCase.ParUtilisateur(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
