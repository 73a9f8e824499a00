package handler

import (
	"github.com/gin-gonic/gin"

	applivre "github.com/xiebiao/bibliotheque/internal/application/livre"
	"github.com/xiebiao/bibliotheque/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bibliotheque/pkg/errors"
	"github.com/xiebiao/bibliotheque/pkg/response"
)

// LivreHandler 图书HTTP处理器
type LivreHandler struct {
	createUseCase *applivre.CreateLivreUseCase
	getUseCase    *applivre.GetLivreUseCase
	updateUseCase *applivre.UpdateLivreUseCase
	deleteUseCase *applivre.DeleteLivreUseCase
	listUseCase   *applivre.ListLivresUseCase
	searchUseCase *applivre.SearchLivresUseCase
}

// NewLivreHandler 创建图书处理器
func NewLivreHandler(
	createUseCase *applivre.CreateLivreUseCase,
	getUseCase *applivre.GetLivreUseCase,
	updateUseCase *applivre.UpdateLivreUseCase,
	deleteUseCase *applivre.DeleteLivreUseCase,
	listUseCase *applivre.ListLivresUseCase,
	searchUseCase *applivre.SearchLivresUseCase,
) *LivreHandler {
	return &LivreHandler{
		createUseCase: createUseCase,
		getUseCase:    getUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
		listUseCase:   listUseCase,
		searchUseCase: searchUseCase,
	}
}

// Create 图书入藏
// @Summary      图书入藏
// @Description  登记新图书,ISBN全馆唯一
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateLivreRequest true "图书信息"
// @Success      200 {object} response.Response{data=applivre.LivreResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      409 {object} response.Response "ISBN已存在"
// @Router       /api/v1/livres [post]
func (h *LivreHandler) Create(c *gin.Context) {
	var req dto.CreateLivreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.New(apperrors.ErrCodeBindError, "Format de requête invalide: "+err.Error()))
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), applivre.CreateLivreRequest{
		Titre:             req.Titre,
		Auteur:            req.Auteur,
		ISBN:              req.ISBN,
		AnneePublication:  req.AnneePublication,
		Genre:             req.Genre,
		NombreExemplaires: req.NombreExemplaires,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Get 图书详情(走缓存)
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response{data=applivre.LivreResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/livres/{id} [get]
func (h *LivreHandler) Get(c *gin.Context) {
	result, err := h.getUseCase.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetByISBN 按ISBN查询图书
// @Summary      按ISBN查询图书
// @Tags         图书
// @Produce      json
// @Param        isbn path string true "ISBN"
// @Success      200 {object} response.Response{data=applivre.LivreResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/livres/isbn/{isbn} [get]
func (h *LivreHandler) GetByISBN(c *gin.Context) {
	result, err := h.getUseCase.ByISBN(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// List 图书列表
// @Summary      图书列表
// @Description  按入藏时间倒序返回全部图书
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=[]applivre.LivreResponse}
// @Router       /api/v1/livres [get]
func (h *LivreHandler) List(c *gin.Context) {
	result, err := h.listUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Disponibles 可借图书列表
// @Summary      可借图书列表
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=[]applivre.LivreResponse}
// @Router       /api/v1/livres/disponibles [get]
func (h *LivreHandler) Disponibles(c *gin.Context) {
	result, err := h.listUseCase.Disponibles(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Recherche 搜索图书
// @Summary      搜索图书
// @Description  书名/作者/类别的大小写不敏感子串匹配
// @Tags         图书
// @Produce      json
// @Param        q query string true "搜索词"
// @Success      200 {object} response.Response{data=[]applivre.LivreResponse}
// @Failure      400 {object} response.Response "搜索词为空"
// @Router       /api/v1/livres/recherche [get]
func (h *LivreHandler) Recherche(c *gin.Context) {
	var req dto.RechercheLivresRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, apperrors.New(apperrors.ErrCodeBindError, "Le paramètre q est requis"))
		return
	}

	result, err := h.searchUseCase.Execute(c.Request.Context(), req.Q)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Update 更新图书
// @Summary      更新图书
// @Description  部分更新;副本数调整会同步更新可借标记
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        id path string true "图书ID"
// @Param        request body dto.UpdateLivreRequest true "更新字段"
// @Success      200 {object} response.Response{data=applivre.LivreResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response "ISBN已被占用"
// @Router       /api/v1/livres/{id} [put]
func (h *LivreHandler) Update(c *gin.Context) {
	var req dto.UpdateLivreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.New(apperrors.ErrCodeBindError, "Format de requête invalide: "+err.Error()))
		return
	}

	result, err := h.updateUseCase.Execute(c.Request.Context(), applivre.UpdateLivreRequest{
		ID:                c.Param("id"),
		Titre:             req.Titre,
		Auteur:            req.Auteur,
		ISBN:              req.ISBN,
		AnneePublication:  req.AnneePublication,
		Genre:             req.Genre,
		NombreExemplaires: req.NombreExemplaires,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Delete 删除图书
// @Summary      删除图书
// @Description  存在活跃借阅时拒绝删除
// @Tags         图书
// @Produce      json
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response "存在进行中的借阅"
// @Router       /api/v1/livres/{id} [delete]
func (h *LivreHandler) Delete(c *gin.Context) {
	if err := h.deleteUseCase.Execute(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
