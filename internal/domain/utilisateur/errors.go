package utilisateur

import (
	apperrors "github.com/xiebiao/bibliotheque/pkg/errors"
)

// 读者领域错误定义
var (
	// ErrUtilisateurNotFound 读者不存在
	ErrUtilisateurNotFound = apperrors.New(apperrors.ErrCodeUserNotFound, "Utilisateur introuvable")

	// ErrEmailDuplicate 邮箱已存在
	ErrEmailDuplicate = apperrors.New(apperrors.ErrCodeEmailDuplicate, "Un utilisateur avec cet email existe déjà")

	// ErrEmailInvalide 邮箱格式不正确
	ErrEmailInvalide = apperrors.New(apperrors.ErrCodeInvalidParams, "Format d'email invalide")

	// ErrChampsRequis 必填字段缺失
	ErrChampsRequis = apperrors.New(apperrors.ErrCodeInvalidParams, "Nom, prénom et email sont requis")

	// ErrUtilisateurInactif 读者账号未激活
	ErrUtilisateurInactif = apperrors.New(apperrors.ErrCodeUserInactif, "Utilisateur inactif")

	// ErrEmpruntsEnCours 存在进行中的借阅,禁止删除
	ErrEmpruntsEnCours = apperrors.New(apperrors.ErrCodeDeleteBlocked, "Impossible de supprimer un utilisateur ayant des emprunts en cours")
)
