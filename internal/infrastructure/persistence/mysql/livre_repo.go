package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bibliotheque/internal/domain/livre"
	apperrors "github.com/xiebiao/bibliotheque/pkg/errors"
)

// livreRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/livre/repository.go定义的接口
// 2. LockByID/UpdateExemplaires供借阅事务使用,必须通过getDB(ctx)
//    参与事务,否则锁不生效
type livreRepository struct {
	db *gorm.DB
}

// NewLivreRepository 创建图书仓储
func NewLivreRepository(db *gorm.DB) livre.Repository {
	return &livreRepository{db: db}
}

// Create 创建图书
func (r *livreRepository) Create(ctx context.Context, l *livre.Livre) error {
	model := toLivreModel(l)

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return livre.ErrISBNDuplicate
		}
		return apperrors.Wrap(err, "Erreur de base de données")
	}

	return nil
}

// FindByID 根据ID查找图书
func (r *livreRepository) FindByID(ctx context.Context, id string) (*livre.Livre, error) {
	var model LivreModel
	err := r.getDB(ctx).Where("id = ?", id).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, livre.ErrLivreNotFound
		}
		return nil, apperrors.Wrap(err, "Erreur de base de données")
	}

	return toLivreEntity(&model), nil
}

// FindByISBN 根据ISBN查找图书
func (r *livreRepository) FindByISBN(ctx context.Context, isbn string) (*livre.Livre, error) {
	var model LivreModel
	err := r.getDB(ctx).Where("isbn = ?", isbn).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, livre.ErrLivreNotFound
		}
		return nil, apperrors.Wrap(err, "Erreur de base de données")
	}

	return toLivreEntity(&model), nil
}

// Update 更新图书信息
func (r *livreRepository) Update(ctx context.Context, l *livre.Livre) error {
	model := toLivreModel(l)

	// 使用Save更新所有字段
	if err := r.getDB(ctx).Save(model).Error; err != nil {
		if isDuplicateError(err) {
			return livre.ErrISBNDuplicate
		}
		return apperrors.Wrap(err, "Erreur de base de données")
	}

	return nil
}

// Delete 删除图书(硬删除)
func (r *livreRepository) Delete(ctx context.Context, id string) error {
	result := r.getDB(ctx).Where("id = ?", id).Delete(&LivreModel{})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "Erreur de base de données")
	}

	if result.RowsAffected == 0 {
		return livre.ErrLivreNotFound
	}

	return nil
}

// List 查询图书列表(按入藏时间倒序)
func (r *livreRepository) List(ctx context.Context) ([]*livre.Livre, error) {
	var models []LivreModel
	err := r.getDB(ctx).Order("date_ajout DESC").Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "Erreur de base de données")
	}

	return toLivreEntities(models), nil
}

// ListDisponibles 查询可借图书列表
func (r *livreRepository) ListDisponibles(ctx context.Context) ([]*livre.Livre, error) {
	var models []LivreModel
	err := r.getDB(ctx).
		Where("disponible = ?", true).
		Order("date_ajout DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "Erreur de base de données")
	}

	return toLivreEntities(models), nil
}

// Search 搜索图书(书名/作者/类别,大小写不敏感的子串匹配)
// utf8mb4默认collation即大小写不敏感,LIKE足够
func (r *livreRepository) Search(ctx context.Context, query string) ([]*livre.Livre, error) {
	var models []LivreModel
	keyword := "%" + query + "%"
	err := r.getDB(ctx).
		Where("titre LIKE ? OR auteur LIKE ? OR genre LIKE ?", keyword, keyword, keyword).
		Order("date_ajout DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "Erreur de base de données")
	}

	return toLivreEntities(models), nil
}

// LockByID 悲观锁查询图书(借阅创建时调用)
// SELECT FOR UPDATE锁定行:必须使用getDB(ctx)从context获取事务DB
func (r *livreRepository) LockByID(ctx context.Context, id string) (*livre.Livre, error) {
	var model LivreModel
	db := r.getDB(ctx)
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, livre.ErrLivreNotFound
		}
		return nil, apperrors.Wrap(err, "Erreur de base de données")
	}

	return toLivreEntity(&model), nil
}

// UpdateExemplaires 更新副本数(原子操作)
// 一条UPDATE同时维护副本数和Disponible标记:
// MySQL的SET从左到右求值,disponible引用的是更新后的副本数
func (r *livreRepository) UpdateExemplaires(ctx context.Context, id string, delta int) error {
	db := r.getDB(ctx)
	result := db.Exec(
		`UPDATE livres
		 SET nombre_exemplaires = nombre_exemplaires + ?,
		     disponible = nombre_exemplaires > 0,
		     updated_at = ?
		 WHERE id = ? AND nombre_exemplaires + ? >= 0`,
		delta, time.Now(), id, delta,
	)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "Erreur de base de données")
	}

	if result.RowsAffected == 0 {
		// 可能是图书不存在,或者副本数不足,再查一次确定原因
		var model LivreModel
		if err := db.Where("id = ?", id).First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return livre.ErrLivreNotFound
			}
			return apperrors.Wrap(err, "Erreur de base de données")
		}
		// 图书存在,说明是副本数不足
		return livre.ErrLivreIndisponible
	}

	return nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toLivreModel 领域实体 → GORM模型
func toLivreModel(l *livre.Livre) *LivreModel {
	return &LivreModel{
		ID:                l.ID,
		Titre:             l.Titre,
		Auteur:            l.Auteur,
		ISBN:              l.ISBN,
		AnneePublication:  l.AnneePublication,
		Genre:             l.Genre,
		NombreExemplaires: l.NombreExemplaires,
		Disponible:        l.Disponible,
		DateAjout:         l.DateAjout,
		UpdatedAt:         l.UpdatedAt,
	}
}

// toLivreEntity GORM模型 → 领域实体
func toLivreEntity(model *LivreModel) *livre.Livre {
	return &livre.Livre{
		ID:                model.ID,
		Titre:             model.Titre,
		Auteur:            model.Auteur,
		ISBN:              model.ISBN,
		AnneePublication:  model.AnneePublication,
		Genre:             model.Genre,
		NombreExemplaires: model.NombreExemplaires,
		Disponible:        model.Disponible,
		DateAjout:         model.DateAjout,
		UpdatedAt:         model.UpdatedAt,
	}
}

func toLivreEntities(models []LivreModel) []*livre.Livre {
	livres := make([]*livre.Livre, len(models))
	for i := range models {
		livres[i] = toLivreEntity(&models[i])
	}
	return livres
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *livreRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}
