package emprunt

import (
	apperrors "github.com/xiebiao/bibliotheque/pkg/errors"
)

// 借阅领域错误定义
var (
	// ErrEmpruntNotFound 借阅记录不存在
	ErrEmpruntNotFound = apperrors.New(apperrors.ErrCodeEmpruntNotFound, "Emprunt introuvable")

	// ErrEmpruntNonActif 借阅不在进行中(已归还,不能再归还或转逾期)
	ErrEmpruntNonActif = apperrors.New(apperrors.ErrCodeEmpruntNonActif, "Cet emprunt n'est pas en cours")

	// ErrEmpruntEnCours 读者已有活跃借阅(一人同时只能借一本)
	ErrEmpruntEnCours = apperrors.New(apperrors.ErrCodeEmpruntEnCours, "Cet utilisateur a déjà un emprunt en cours")

	// ErrDureeInvalide 无效的借期
	ErrDureeInvalide = apperrors.New(apperrors.ErrCodeInvalidParams, "La durée d'emprunt doit être positive")
)
