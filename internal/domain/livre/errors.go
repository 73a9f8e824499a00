package livre

import (
	apperrors "github.com/xiebiao/bibliotheque/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrLivreNotFound 图书不存在
	ErrLivreNotFound = apperrors.New(apperrors.ErrCodeLivreNotFound, "Livre introuvable")

	// ErrISBNDuplicate ISBN已存在
	ErrISBNDuplicate = apperrors.New(apperrors.ErrCodeISBNDuplicate, "Un livre avec cet ISBN existe déjà")

	// ErrISBNInvalide ISBN格式不正确
	ErrISBNInvalide = apperrors.New(apperrors.ErrCodeInvalidParams, "Format d'ISBN invalide")

	// ErrLivreIndisponible 图书不可借(无剩余副本)
	ErrLivreIndisponible = apperrors.New(apperrors.ErrCodeLivreIndisponible, "Livre non disponible")

	// ErrExemplairesInvalide 无效的副本数
	ErrExemplairesInvalide = apperrors.New(apperrors.ErrCodeInvalidParams, "Le nombre d'exemplaires ne peut pas être négatif")

	// ErrChampsRequis 必填字段缺失
	ErrChampsRequis = apperrors.New(apperrors.ErrCodeInvalidParams, "Titre, auteur, ISBN, année de publication et genre sont requis")

	// ErrAnneeInvalide 无效的出版年份
	ErrAnneeInvalide = apperrors.New(apperrors.ErrCodeInvalidParams, "Année de publication invalide")

	// ErrEmpruntsEnCours 存在进行中的借阅,禁止删除
	ErrEmpruntsEnCours = apperrors.New(apperrors.ErrCodeDeleteBlocked, "Impossible de supprimer un livre ayant des emprunts en cours")
)
