package utilisateur

import (
	"context"
)

// Repository 读者仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于Mock测试,不依赖具体数据库实现
type Repository interface {
	// Create 创建读者
	Create(ctx context.Context, u *Utilisateur) error

	// FindByID 根据ID查找读者
	FindByID(ctx context.Context, id string) (*Utilisateur, error)

	// LockByID 悲观锁查询读者(SELECT FOR UPDATE)
	// 借阅创建事务内调用:同一读者对不同图书的并发借阅
	// 在读者行锁上串行化,"一人一活跃借阅"的检查才可靠
	LockByID(ctx context.Context, id string) (*Utilisateur, error)

	// FindByEmail 根据邮箱查找读者
	FindByEmail(ctx context.Context, email string) (*Utilisateur, error)

	// Update 更新读者信息
	Update(ctx context.Context, u *Utilisateur) error

	// Delete 删除读者(硬删除)
	// 调用方负责先检查是否存在进行中的借阅
	Delete(ctx context.Context, id string) error

	// List 查询读者列表(按注册时间倒序)
	List(ctx context.Context) ([]*Utilisateur, error)
}
