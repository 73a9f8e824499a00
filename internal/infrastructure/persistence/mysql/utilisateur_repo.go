package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bibliotheque/internal/domain/utilisateur"
	apperrors "github.com/xiebiao/bibliotheque/pkg/errors"
)

// utilisateurRepository 读者仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/utilisateur/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误(如邮箱重复),转换为业务错误
type utilisateurRepository struct {
	db *gorm.DB
}

// NewUtilisateurRepository 创建读者仓储
func NewUtilisateurRepository(db *gorm.DB) utilisateur.Repository {
	return &utilisateurRepository{db: db}
}

// Create 创建读者
func (r *utilisateurRepository) Create(ctx context.Context, u *utilisateur.Utilisateur) error {
	model := toUtilisateurModel(u)

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		// 唯一索引兜底:Service层已检查过,并发写入时仍可能撞上
		if isDuplicateError(err) {
			return utilisateur.ErrEmailDuplicate
		}
		return apperrors.Wrap(err, "Erreur de base de données")
	}

	return nil
}

// FindByID 根据ID查找读者
func (r *utilisateurRepository) FindByID(ctx context.Context, id string) (*utilisateur.Utilisateur, error) {
	var model UtilisateurModel
	err := r.getDB(ctx).Where("id = ?", id).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utilisateur.ErrUtilisateurNotFound
		}
		return nil, apperrors.Wrap(err, "Erreur de base de données")
	}

	return toUtilisateurEntity(&model), nil
}

// LockByID 悲观锁查询读者(借阅创建时调用)
// SELECT FOR UPDATE锁定行:必须使用getDB(ctx)从context获取事务DB
func (r *utilisateurRepository) LockByID(ctx context.Context, id string) (*utilisateur.Utilisateur, error) {
	var model UtilisateurModel
	err := r.getDB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utilisateur.ErrUtilisateurNotFound
		}
		return nil, apperrors.Wrap(err, "Erreur de base de données")
	}

	return toUtilisateurEntity(&model), nil
}

// FindByEmail 根据邮箱查找读者
func (r *utilisateurRepository) FindByEmail(ctx context.Context, email string) (*utilisateur.Utilisateur, error) {
	var model UtilisateurModel
	err := r.getDB(ctx).Where("email = ?", email).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utilisateur.ErrUtilisateurNotFound
		}
		return nil, apperrors.Wrap(err, "Erreur de base de données")
	}

	return toUtilisateurEntity(&model), nil
}

// Update 更新读者信息
func (r *utilisateurRepository) Update(ctx context.Context, u *utilisateur.Utilisateur) error {
	model := toUtilisateurModel(u)

	// 使用Save更新所有字段
	if err := r.getDB(ctx).Save(model).Error; err != nil {
		if isDuplicateError(err) {
			return utilisateur.ErrEmailDuplicate
		}
		return apperrors.Wrap(err, "Erreur de base de données")
	}

	return nil
}

// Delete 删除读者(硬删除)
func (r *utilisateurRepository) Delete(ctx context.Context, id string) error {
	result := r.getDB(ctx).Where("id = ?", id).Delete(&UtilisateurModel{})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "Erreur de base de données")
	}

	if result.RowsAffected == 0 {
		return utilisateur.ErrUtilisateurNotFound
	}

	return nil
}

// List 查询读者列表(按注册时间倒序)
func (r *utilisateurRepository) List(ctx context.Context) ([]*utilisateur.Utilisateur, error) {
	var models []UtilisateurModel
	err := r.getDB(ctx).Order("date_inscription DESC").Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "Erreur de base de données")
	}

	users := make([]*utilisateur.Utilisateur, len(models))
	for i := range models {
		users[i] = toUtilisateurEntity(&models[i])
	}

	return users, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toUtilisateurModel 领域实体 → GORM模型
func toUtilisateurModel(u *utilisateur.Utilisateur) *UtilisateurModel {
	return &UtilisateurModel{
		ID:              u.ID,
		Nom:             u.Nom,
		Prenom:          u.Prenom,
		Email:           u.Email,
		DateInscription: u.DateInscription,
		Actif:           u.Actif,
		UpdatedAt:       u.UpdatedAt,
	}
}

// toUtilisateurEntity GORM模型 → 领域实体
func toUtilisateurEntity(model *UtilisateurModel) *utilisateur.Utilisateur {
	return &utilisateur.Utilisateur{
		ID:              model.ID,
		Nom:             model.Nom,
		Prenom:          model.Prenom,
		Email:           model.Email,
		DateInscription: model.DateInscription,
		Actif:           model.Actif,
		UpdatedAt:       model.UpdatedAt,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *utilisateurRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}
