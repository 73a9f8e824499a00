package emprunt

import (
	"context"
	"time"
)

// Repository 借阅仓储接口(依赖倒置原则)
// 设计说明:
// 1. "活跃"统一指Statut为EN_COURS或EN_RETARD,各查询方法不得
//    各自定义活跃的含义
// 2. 列表方法返回EmpruntAvecDetails(JOIN读者和图书),供HTTP层直接输出
type Repository interface {
	// Create 创建借阅记录
	Create(ctx context.Context, e *Emprunt) error

	// FindByID 根据ID查找借阅记录
	FindByID(ctx context.Context, id string) (*Emprunt, error)

	// LockByID 悲观锁查询借阅记录(SELECT FOR UPDATE)
	// 归还时必须在事务内用锁定读:并发归还在行锁上串行化,
	// 后到者看到RETOURNE被状态机拒绝,副本数不会被重复回增
	LockByID(ctx context.Context, id string) (*Emprunt, error)

	// Update 更新借阅记录(归还用,必须在锁定读之后调用)
	Update(ctx context.Context, e *Emprunt) error

	// MarquerEnRetard 条件转换EN_COURS→EN_RETARD
	// UPDATE带statut='EN_COURS'条件:借阅在查询快照后被归还时
	// 转换不生效,返回false。逾期重评估据此跳过该条,
	// 保证RETOURNE永远不会被改回EN_RETARD
	MarquerEnRetard(ctx context.Context, id string) (bool, error)

	// FindActifParUtilisateur 查找读者的活跃借阅
	// 没有活跃借阅时返回ErrEmpruntNotFound
	FindActifParUtilisateur(ctx context.Context, utilisateurID string) (*Emprunt, error)

	// CountActifsParUtilisateur 统计读者的活跃借阅数
	// 删除读者前的检查用,避免调用方重新定义"活跃"
	CountActifsParUtilisateur(ctx context.Context, utilisateurID string) (int64, error)

	// CountActifsParLivre 统计图书的活跃借阅数(删除图书前的检查用)
	CountActifsParLivre(ctx context.Context, livreID string) (int64, error)

	// ListEnCoursEchus 查询已超过应还日的EN_COURS借阅(逾期重评估用)
	ListEnCoursEchus(ctx context.Context, avant time.Time) ([]*Emprunt, error)

	// ListEnCours 查询进行中的借阅(按借出时间倒序)
	ListEnCours(ctx context.Context) ([]*EmpruntAvecDetails, error)

	// ListEnRetard 查询逾期的借阅(按应还时间正序,最久的在前)
	ListEnRetard(ctx context.Context) ([]*EmpruntAvecDetails, error)

	// ListHistorique 查询已归还的借阅(按实际归还时间倒序)
	ListHistorique(ctx context.Context) ([]*EmpruntAvecDetails, error)

	// ListParUtilisateur 查询读者的全部借阅(按借出时间倒序)
	ListParUtilisateur(ctx context.Context, utilisateurID string) ([]*EmpruntAvecDetails, error)
}
