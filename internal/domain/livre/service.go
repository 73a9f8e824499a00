package livre

import (
	"context"
	"regexp"
	"time"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装业务规则校验(必填字段、ISBN格式、唯一性)
// 2. 副本数的借出/归还不走这里,由借阅事务通过Repository原子操作完成
type Service interface {
	// CreerLivre 图书入藏
	// 业务规则:
	// - 书名、作者、ISBN、出版年份、类别必填
	// - ISBN格式必须合法(10位或13位数字)
	// - 出版年份必须在1450到明年之间
	// - 副本数>=0
	// - ISBN不能重复
	CreerLivre(ctx context.Context, titre, auteur, isbn string, anneePublication int, genre string, nombreExemplaires int) (*Livre, error)

	// GetLivreByID 根据ID获取图书
	GetLivreByID(ctx context.Context, id string) (*Livre, error)

	// GetLivreByISBN 根据ISBN获取图书
	GetLivreByISBN(ctx context.Context, isbn string) (*Livre, error)

	// UpdateLivre 更新图书信息(部分更新,可调整副本数)
	// 业务规则:修改ISBN时,新ISBN不能被其他图书占用
	UpdateLivre(ctx context.Context, id, titre, auteur, isbn string, anneePublication int, genre string, nombreExemplaires *int) (*Livre, error)

	// ListLivres 查询图书列表
	ListLivres(ctx context.Context) ([]*Livre, error)

	// ListLivresDisponibles 查询可借图书列表
	ListLivresDisponibles(ctx context.Context) ([]*Livre, error)

	// RechercherLivres 搜索图书
	RechercherLivres(ctx context.Context, query string) ([]*Livre, error)
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreerLivre 图书入藏
func (s *service) CreerLivre(ctx context.Context, titre, auteur, isbn string, anneePublication int, genre string, nombreExemplaires int) (*Livre, error) {
	// 1. 必填字段校验
	if titre == "" || auteur == "" || isbn == "" || anneePublication == 0 || genre == "" {
		return nil, ErrChampsRequis
	}

	// 2. ISBN格式校验
	if !isValidISBN(isbn) {
		return nil, ErrISBNInvalide
	}

	// 3. 出版年份校验(活字印刷至明年)
	if !isValidAnnee(anneePublication) {
		return nil, ErrAnneeInvalide
	}

	// 4. 副本数校验
	if nombreExemplaires < 0 {
		return nil, ErrExemplairesInvalide
	}

	// 5. ISBN唯一性检查
	existing, err := s.repo.FindByISBN(ctx, isbn)
	if err == nil && existing != nil {
		return nil, ErrISBNDuplicate
	}
	if err != nil && err != ErrLivreNotFound {
		return nil, err
	}

	// 6. 创建实体并持久化
	l := NewLivre(titre, auteur, isbn, anneePublication, genre, nombreExemplaires)
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	return l, nil
}

// GetLivreByID 根据ID获取图书
func (s *service) GetLivreByID(ctx context.Context, id string) (*Livre, error) {
	return s.repo.FindByID(ctx, id)
}

// GetLivreByISBN 根据ISBN获取图书
func (s *service) GetLivreByISBN(ctx context.Context, isbn string) (*Livre, error) {
	if !isValidISBN(isbn) {
		return nil, ErrISBNInvalide
	}
	return s.repo.FindByISBN(ctx, isbn)
}

// UpdateLivre 更新图书信息
func (s *service) UpdateLivre(ctx context.Context, id, titre, auteur, isbn string, anneePublication int, genre string, nombreExemplaires *int) (*Livre, error) {
	// 1. 查询图书
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 2. 修改ISBN时检查格式与唯一性
	if isbn != "" && isbn != l.ISBN {
		if !isValidISBN(isbn) {
			return nil, ErrISBNInvalide
		}
		existing, err := s.repo.FindByISBN(ctx, isbn)
		if err == nil && existing != nil && existing.ID != id {
			return nil, ErrISBNDuplicate
		}
		if err != nil && err != ErrLivreNotFound {
			return nil, err
		}
		l.ISBN = isbn
	}

	// 3. 出版年份校验
	if anneePublication != 0 && !isValidAnnee(anneePublication) {
		return nil, ErrAnneeInvalide
	}

	// 4. 更新字段
	l.UpdateInfo(titre, auteur, anneePublication, genre)
	if nombreExemplaires != nil {
		if err := l.SetNombreExemplaires(*nombreExemplaires); err != nil {
			return nil, err
		}
	}

	// 5. 持久化
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}

	return l, nil
}

// ListLivres 查询图书列表
func (s *service) ListLivres(ctx context.Context) ([]*Livre, error) {
	return s.repo.List(ctx)
}

// ListLivresDisponibles 查询可借图书列表
func (s *service) ListLivresDisponibles(ctx context.Context) ([]*Livre, error) {
	return s.repo.ListDisponibles(ctx)
}

// RechercherLivres 搜索图书
func (s *service) RechercherLivres(ctx context.Context, query string) ([]*Livre, error) {
	return s.repo.Search(ctx, query)
}

// =========================================
// 辅助函数:业务规则校验
// =========================================

// nonDigitRegexp 去除ISBN分隔符用
var nonDigitRegexp = regexp.MustCompile(`[^0-9Xx]`)

// isValidISBN 校验ISBN格式
// 支持:
// - ISBN-10: 10位,末位允许X(如 2070360024)
// - ISBN-13: 13位数字(如 9782070360024)
// 简化实现:只检查位数(生产环境应校验校验位)
func isValidISBN(isbn string) bool {
	// 去除可能的分隔符(如 978-2-07-036002-4 → 9782070360024)
	clean := nonDigitRegexp.ReplaceAllString(isbn, "")

	length := len(clean)
	return length == 10 || length == 13
}

// isValidAnnee 校验出版年份
func isValidAnnee(annee int) bool {
	return annee >= 1450 && annee <= time.Now().Year()+1
}
