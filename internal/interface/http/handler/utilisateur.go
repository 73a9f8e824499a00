package handler

import (
	"github.com/gin-gonic/gin"

	apputilisateur "github.com/xiebiao/bibliotheque/internal/application/utilisateur"
	"github.com/xiebiao/bibliotheque/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bibliotheque/pkg/errors"
	"github.com/xiebiao/bibliotheque/pkg/response"
)

// UtilisateurHandler 读者HTTP处理器
type UtilisateurHandler struct {
	createUseCase *apputilisateur.CreateUtilisateurUseCase
	getUseCase    *apputilisateur.GetUtilisateurUseCase
	updateUseCase *apputilisateur.UpdateUtilisateurUseCase
	deleteUseCase *apputilisateur.DeleteUtilisateurUseCase
	listUseCase   *apputilisateur.ListUtilisateursUseCase
}

// NewUtilisateurHandler 创建读者处理器
func NewUtilisateurHandler(
	createUseCase *apputilisateur.CreateUtilisateurUseCase,
	getUseCase *apputilisateur.GetUtilisateurUseCase,
	updateUseCase *apputilisateur.UpdateUtilisateurUseCase,
	deleteUseCase *apputilisateur.DeleteUtilisateurUseCase,
	listUseCase *apputilisateur.ListUtilisateursUseCase,
) *UtilisateurHandler {
	return &UtilisateurHandler{
		createUseCase: createUseCase,
		getUseCase:    getUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
		listUseCase:   listUseCase,
	}
}

// Create 注册读者
// @Summary      注册读者
// @Description  登记新读者,邮箱全馆唯一
// @Tags         读者
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateUtilisateurRequest true "读者信息"
// @Success      200 {object} response.Response{data=apputilisateur.UtilisateurResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      409 {object} response.Response "邮箱已存在"
// @Router       /api/v1/utilisateurs [post]
func (h *UtilisateurHandler) Create(c *gin.Context) {
	var req dto.CreateUtilisateurRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.New(apperrors.ErrCodeBindError, "Format de requête invalide: "+err.Error()))
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), apputilisateur.CreateUtilisateurRequest{
		Nom:    req.Nom,
		Prenom: req.Prenom,
		Email:  req.Email,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Get 读者详情
// @Summary      读者详情
// @Tags         读者
// @Produce      json
// @Param        id path string true "读者ID"
// @Success      200 {object} response.Response{data=apputilisateur.UtilisateurResponse}
// @Failure      404 {object} response.Response "读者不存在"
// @Router       /api/v1/utilisateurs/{id} [get]
func (h *UtilisateurHandler) Get(c *gin.Context) {
	result, err := h.getUseCase.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetByEmail 按邮箱查询读者
// @Summary      按邮箱查询读者
// @Tags         读者
// @Produce      json
// @Param        email path string true "邮箱"
// @Success      200 {object} response.Response{data=apputilisateur.UtilisateurResponse}
// @Failure      404 {object} response.Response "读者不存在"
// @Router       /api/v1/utilisateurs/email/{email} [get]
func (h *UtilisateurHandler) GetByEmail(c *gin.Context) {
	result, err := h.getUseCase.ByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// List 读者列表
// @Summary      读者列表
// @Description  按注册时间倒序返回全部读者
// @Tags         读者
// @Produce      json
// @Success      200 {object} response.Response{data=[]apputilisateur.UtilisateurResponse}
// @Router       /api/v1/utilisateurs [get]
func (h *UtilisateurHandler) List(c *gin.Context) {
	result, err := h.listUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Update 更新读者
// @Summary      更新读者
// @Description  部分更新:只修改请求中出现的字段
// @Tags         读者
// @Accept       json
// @Produce      json
// @Param        id path string true "读者ID"
// @Param        request body dto.UpdateUtilisateurRequest true "更新字段"
// @Success      200 {object} response.Response{data=apputilisateur.UtilisateurResponse}
// @Failure      404 {object} response.Response "读者不存在"
// @Failure      409 {object} response.Response "邮箱已被占用"
// @Router       /api/v1/utilisateurs/{id} [put]
func (h *UtilisateurHandler) Update(c *gin.Context) {
	var req dto.UpdateUtilisateurRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.New(apperrors.ErrCodeBindError, "Format de requête invalide: "+err.Error()))
		return
	}

	result, err := h.updateUseCase.Execute(c.Request.Context(), apputilisateur.UpdateUtilisateurRequest{
		ID:     c.Param("id"),
		Nom:    req.Nom,
		Prenom: req.Prenom,
		Email:  req.Email,
		Actif:  req.Actif,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Delete 删除读者
// @Summary      删除读者
// @Description  存在活跃借阅(EN_COURS或EN_RETARD)时拒绝删除
// @Tags         读者
// @Produce      json
// @Param        id path string true "读者ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "读者不存在"
// @Failure      409 {object} response.Response "存在进行中的借阅"
// @Router       /api/v1/utilisateurs/{id} [delete]
func (h *UtilisateurHandler) Delete(c *gin.Context) {
	if err := h.deleteUseCase.Execute(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
