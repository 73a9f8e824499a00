package livre

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. LockByID/UpdateExemplaires仅供借阅事务使用,普通目录操作
//    走FindByID/Update
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, l *Livre) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id string) (*Livre, error)

	// FindByISBN 根据ISBN查找图书
	FindByISBN(ctx context.Context, isbn string) (*Livre, error)

	// Update 更新图书信息
	Update(ctx context.Context, l *Livre) error

	// Delete 删除图书(硬删除)
	// 调用方负责先检查是否存在进行中的借阅
	Delete(ctx context.Context, id string) error

	// List 查询图书列表(按入藏时间倒序)
	List(ctx context.Context) ([]*Livre, error)

	// ListDisponibles 查询可借图书列表
	ListDisponibles(ctx context.Context) ([]*Livre, error)

	// Search 搜索图书(书名/作者/类别,大小写不敏感的子串匹配)
	Search(ctx context.Context, query string) ([]*Livre, error)

	// LockByID 悲观锁查询图书(借阅创建时锁定副本数)
	// 使用SELECT FOR UPDATE锁定行,防止并发超借
	LockByID(ctx context.Context, id string) (*Livre, error)

	// UpdateExemplaires 更新副本数(原子操作)
	// delta为正数表示归还,负数表示借出
	// 内部保证副本数不为负且Disponible同步更新,不足时返回ErrLivreIndisponible
	UpdateExemplaires(ctx context.Context, id string, delta int) error
}
