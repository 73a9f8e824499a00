package utilisateur

import (
	"context"
	"regexp"
)

// Service 读者领域服务接口
// 设计说明:
// 1. 领域服务封装业务规则校验(必填字段、邮箱格式、唯一性)
// 2. 不依赖具体的Repository实现(依赖倒置)
// 3. 跨聚合的规则(如删除前检查借阅)在application层处理
type Service interface {
	// CreerUtilisateur 注册读者
	// 业务规则:
	// - 姓、名、邮箱必填
	// - 邮箱格式必须合法
	// - 邮箱不能重复
	CreerUtilisateur(ctx context.Context, nom, prenom, email string) (*Utilisateur, error)

	// GetUtilisateurByID 根据ID获取读者
	GetUtilisateurByID(ctx context.Context, id string) (*Utilisateur, error)

	// GetUtilisateurByEmail 根据邮箱获取读者
	GetUtilisateurByEmail(ctx context.Context, email string) (*Utilisateur, error)

	// UpdateUtilisateur 更新读者信息(部分更新)
	// 业务规则:修改邮箱时,新邮箱不能被其他读者占用
	UpdateUtilisateur(ctx context.Context, id, nom, prenom, email string, actif *bool) (*Utilisateur, error)

	// ListUtilisateurs 查询读者列表
	ListUtilisateurs(ctx context.Context) ([]*Utilisateur, error)
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建读者领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreerUtilisateur 注册读者
func (s *service) CreerUtilisateur(ctx context.Context, nom, prenom, email string) (*Utilisateur, error) {
	// 1. 必填字段校验
	if nom == "" || prenom == "" || email == "" {
		return nil, ErrChampsRequis
	}

	// 2. 邮箱格式校验
	if !isValidEmail(email) {
		return nil, ErrEmailInvalide
	}

	// 3. 邮箱唯一性检查
	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrEmailDuplicate
	}
	if err != nil && err != ErrUtilisateurNotFound {
		return nil, err
	}

	// 4. 创建实体并持久化
	u := NewUtilisateur(nom, prenom, email)
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// GetUtilisateurByID 根据ID获取读者
func (s *service) GetUtilisateurByID(ctx context.Context, id string) (*Utilisateur, error) {
	return s.repo.FindByID(ctx, id)
}

// GetUtilisateurByEmail 根据邮箱获取读者
func (s *service) GetUtilisateurByEmail(ctx context.Context, email string) (*Utilisateur, error) {
	if !isValidEmail(email) {
		return nil, ErrEmailInvalide
	}
	return s.repo.FindByEmail(ctx, email)
}

// UpdateUtilisateur 更新读者信息
func (s *service) UpdateUtilisateur(ctx context.Context, id, nom, prenom, email string, actif *bool) (*Utilisateur, error) {
	// 1. 查询读者
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 2. 修改邮箱时检查格式与唯一性
	if email != "" && email != u.Email {
		if !isValidEmail(email) {
			return nil, ErrEmailInvalide
		}
		existing, err := s.repo.FindByEmail(ctx, email)
		if err == nil && existing != nil && existing.ID != id {
			return nil, ErrEmailDuplicate
		}
		if err != nil && err != ErrUtilisateurNotFound {
			return nil, err
		}
	}

	// 3. 更新字段
	u.UpdateInfo(nom, prenom, email)
	if actif != nil {
		if *actif {
			u.Activer()
		} else {
			u.Desactiver()
		}
	}

	// 4. 持久化
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// ListUtilisateurs 查询读者列表
func (s *service) ListUtilisateurs(ctx context.Context) ([]*Utilisateur, error) {
	return s.repo.List(ctx)
}

// emailRegexp 邮箱格式校验(简化实现,与前端校验保持一致)
var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// isValidEmail 校验邮箱格式
func isValidEmail(email string) bool {
	return emailRegexp.MatchString(email)
}
