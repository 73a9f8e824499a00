package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bibliotheque/internal/domain/emprunt"
	apperrors "github.com/xiebiao/bibliotheque/pkg/errors"
)

// statutsActifs 活跃状态集合("活跃"的唯一定义,各查询统一引用)
var statutsActifs = []string{
	string(emprunt.StatutEnCours),
	string(emprunt.StatutEnRetard),
}

// empruntRepository 借阅仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/emprunt/repository.go定义的接口
// 2. 列表方法JOIN读者和图书表,返回EmpruntAvecDetails
// 3. 事务通过context传递(创建借阅时与图书副本扣减同事务)
type empruntRepository struct {
	db *gorm.DB
}

// NewEmpruntRepository 创建借阅仓储
func NewEmpruntRepository(db *gorm.DB) emprunt.Repository {
	return &empruntRepository{db: db}
}

// Create 创建借阅记录
// 必须在事务中调用(通过getDB从context获取事务DB)
func (r *empruntRepository) Create(ctx context.Context, e *emprunt.Emprunt) error {
	model := toEmpruntModel(e)

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "Erreur de base de données")
	}

	return nil
}

// FindByID 根据ID查找借阅记录
func (r *empruntRepository) FindByID(ctx context.Context, id string) (*emprunt.Emprunt, error) {
	var model EmpruntModel
	err := r.getDB(ctx).Where("id = ?", id).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, emprunt.ErrEmpruntNotFound
		}
		return nil, apperrors.Wrap(err, "Erreur de base de données")
	}

	return toEmpruntEntity(&model), nil
}

// LockByID 悲观锁查询借阅记录(归还时调用)
// SELECT FOR UPDATE锁定行:必须使用getDB(ctx)从context获取事务DB
func (r *empruntRepository) LockByID(ctx context.Context, id string) (*emprunt.Emprunt, error) {
	var model EmpruntModel
	err := r.getDB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, emprunt.ErrEmpruntNotFound
		}
		return nil, apperrors.Wrap(err, "Erreur de base de données")
	}

	return toEmpruntEntity(&model), nil
}

// Update 更新借阅记录(归还用)
// 只更新状态相关字段,借出时间等创建后不再变更
func (r *empruntRepository) Update(ctx context.Context, e *emprunt.Emprunt) error {
	result := r.getDB(ctx).Model(&EmpruntModel{}).
		Where("id = ?", e.ID).
		Updates(map[string]interface{}{
			"statut":               string(e.Statut),
			"date_retour_effectif": e.DateRetourEffectif,
		})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "Erreur de base de données")
	}

	if result.RowsAffected == 0 {
		return emprunt.ErrEmpruntNotFound
	}

	return nil
}

// MarquerEnRetard 条件转换EN_COURS→EN_RETARD
// WHERE带statut条件:借阅在查询快照后被归还时UPDATE不命中,
// 返回false让调用方跳过。RETOURNE因此永远不会被改回EN_RETARD
func (r *empruntRepository) MarquerEnRetard(ctx context.Context, id string) (bool, error) {
	result := r.getDB(ctx).Model(&EmpruntModel{}).
		Where("id = ? AND statut = ?", id, string(emprunt.StatutEnCours)).
		Update("statut", string(emprunt.StatutEnRetard))

	if result.Error != nil {
		return false, apperrors.Wrap(result.Error, "Erreur de base de données")
	}

	return result.RowsAffected > 0, nil
}

// FindActifParUtilisateur 查找读者的活跃借阅
func (r *empruntRepository) FindActifParUtilisateur(ctx context.Context, utilisateurID string) (*emprunt.Emprunt, error) {
	var model EmpruntModel
	err := r.getDB(ctx).
		Where("utilisateur_id = ? AND statut IN ?", utilisateurID, statutsActifs).
		First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, emprunt.ErrEmpruntNotFound
		}
		return nil, apperrors.Wrap(err, "Erreur de base de données")
	}

	return toEmpruntEntity(&model), nil
}

// CountActifsParUtilisateur 统计读者的活跃借阅数
func (r *empruntRepository) CountActifsParUtilisateur(ctx context.Context, utilisateurID string) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&EmpruntModel{}).
		Where("utilisateur_id = ? AND statut IN ?", utilisateurID, statutsActifs).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "Erreur de base de données")
	}

	return count, nil
}

// CountActifsParLivre 统计图书的活跃借阅数
func (r *empruntRepository) CountActifsParLivre(ctx context.Context, livreID string) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&EmpruntModel{}).
		Where("livre_id = ? AND statut IN ?", livreID, statutsActifs).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "Erreur de base de données")
	}

	return count, nil
}

// ListEnCoursEchus 查询已超过应还日的EN_COURS借阅(逾期重评估用)
func (r *empruntRepository) ListEnCoursEchus(ctx context.Context, avant time.Time) ([]*emprunt.Emprunt, error) {
	var models []EmpruntModel
	err := r.getDB(ctx).
		Where("statut = ? AND date_retour_prevu < ?", string(emprunt.StatutEnCours), avant).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "Erreur de base de données")
	}

	emprunts := make([]*emprunt.Emprunt, len(models))
	for i := range models {
		emprunts[i] = toEmpruntEntity(&models[i])
	}

	return emprunts, nil
}

// ListEnCours 查询进行中的借阅(按借出时间倒序)
func (r *empruntRepository) ListEnCours(ctx context.Context) ([]*emprunt.EmpruntAvecDetails, error) {
	return r.listAvecDetails(ctx, "e.statut = ?", []interface{}{string(emprunt.StatutEnCours)}, "e.date_emprunt DESC")
}

// ListEnRetard 查询逾期的借阅(按应还时间正序,最久的在前)
func (r *empruntRepository) ListEnRetard(ctx context.Context) ([]*emprunt.EmpruntAvecDetails, error) {
	return r.listAvecDetails(ctx, "e.statut = ?", []interface{}{string(emprunt.StatutEnRetard)}, "e.date_retour_prevu ASC")
}

// ListHistorique 查询已归还的借阅(按实际归还时间倒序)
func (r *empruntRepository) ListHistorique(ctx context.Context) ([]*emprunt.EmpruntAvecDetails, error) {
	return r.listAvecDetails(ctx, "e.statut = ?", []interface{}{string(emprunt.StatutRetourne)}, "e.date_retour_effectif DESC")
}

// ListParUtilisateur 查询读者的全部借阅(按借出时间倒序)
func (r *empruntRepository) ListParUtilisateur(ctx context.Context, utilisateurID string) ([]*emprunt.EmpruntAvecDetails, error) {
	return r.listAvecDetails(ctx, "e.utilisateur_id = ?", []interface{}{utilisateurID}, "e.date_emprunt DESC")
}

// empruntDetailRow JOIN查询的扫描结构
type empruntDetailRow struct {
	ID                 string
	UtilisateurID      string
	LivreID            string
	DateEmprunt        time.Time
	DateRetourPrevu    time.Time
	DateRetourEffectif *time.Time
	Statut             string
	Nom                string
	Prenom             string
	Email              string
	Titre              string
	Auteur             string
	ISBN               string `gorm:"column:isbn"`
}

// listAvecDetails JOIN读者和图书表的通用列表查询
// 一次JOIN取回全部展示字段,避免N+1查询
func (r *empruntRepository) listAvecDetails(ctx context.Context, cond string, args []interface{}, order string) ([]*emprunt.EmpruntAvecDetails, error) {
	var rows []empruntDetailRow
	err := r.getDB(ctx).
		Table("emprunts AS e").
		Select(`e.id, e.utilisateur_id, e.livre_id, e.date_emprunt, e.date_retour_prevu,
			e.date_retour_effectif, e.statut,
			u.nom, u.prenom, u.email,
			l.titre, l.auteur, l.isbn`).
		Joins("JOIN utilisateurs AS u ON u.id = e.utilisateur_id").
		Joins("JOIN livres AS l ON l.id = e.livre_id").
		Where(cond, args...).
		Order(order).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "Erreur de base de données")
	}

	result := make([]*emprunt.EmpruntAvecDetails, len(rows))
	for i, row := range rows {
		result[i] = &emprunt.EmpruntAvecDetails{
			Emprunt: emprunt.Emprunt{
				ID:                 row.ID,
				UtilisateurID:      row.UtilisateurID,
				LivreID:            row.LivreID,
				DateEmprunt:        row.DateEmprunt,
				DateRetourPrevu:    row.DateRetourPrevu,
				DateRetourEffectif: row.DateRetourEffectif,
				Statut:             emprunt.Statut(row.Statut),
			},
			NomUtilisateur:    row.Nom,
			PrenomUtilisateur: row.Prenom,
			EmailUtilisateur:  row.Email,
			TitreLivre:        row.Titre,
			AuteurLivre:       row.Auteur,
			ISBNLivre:         row.ISBN,
		}
	}

	return result, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toEmpruntModel 领域实体 → GORM模型
func toEmpruntModel(e *emprunt.Emprunt) *EmpruntModel {
	return &EmpruntModel{
		ID:                 e.ID,
		UtilisateurID:      e.UtilisateurID,
		LivreID:            e.LivreID,
		DateEmprunt:        e.DateEmprunt,
		DateRetourPrevu:    e.DateRetourPrevu,
		DateRetourEffectif: e.DateRetourEffectif,
		Statut:             string(e.Statut),
	}
}

// toEmpruntEntity GORM模型 → 领域实体
func toEmpruntEntity(model *EmpruntModel) *emprunt.Emprunt {
	return &emprunt.Emprunt{
		ID:                 model.ID,
		UtilisateurID:      model.UtilisateurID,
		LivreID:            model.LivreID,
		DateEmprunt:        model.DateEmprunt,
		DateRetourPrevu:    model.DateRetourPrevu,
		DateRetourEffectif: model.DateRetourEffectif,
		Statut:             emprunt.Statut(model.Statut),
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *empruntRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}
