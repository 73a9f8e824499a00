package livre

import (
	"time"

	"github.com/google/uuid"
)

// Livre 图书实体(聚合根)
// DDD设计说明:
// 1. Livre是图书聚合的根实体,代表馆藏的一种图书(而非单个副本)
// 2. NombreExemplaires是可借副本数的唯一事实来源
// 3. Disponible是派生标记(= NombreExemplaires > 0),与副本数在
//    同一操作内维护,禁止单独修改
// 4. ISBN作为业务唯一标识(数据库层保证唯一性)
type Livre struct {
	ID                string
	Titre             string // 书名
	Auteur            string // 作者
	ISBN              string
	AnneePublication  int    // 出版年份
	Genre             string // 类别
	NombreExemplaires int    // 可借副本数
	Disponible        bool   // 是否可借(= NombreExemplaires > 0)
	DateAjout         time.Time
	UpdatedAt         time.Time
}

// NewLivre 创建新图书(工厂方法)
// 参数校验由领域服务完成,这里只负责构造
func NewLivre(titre, auteur, isbn string, anneePublication int, genre string, nombreExemplaires int) *Livre {
	now := time.Now()
	return &Livre{
		ID:                uuid.NewString(),
		Titre:             titre,
		Auteur:            auteur,
		ISBN:              isbn,
		AnneePublication:  anneePublication,
		Genre:             genre,
		NombreExemplaires: nombreExemplaires,
		Disponible:        nombreExemplaires > 0,
		DateAjout:         now,
		UpdatedAt:         now,
	}
}

// EmprunterExemplaire 借出一个副本(领域行为)
// 业务规则:副本数不足时返回ErrLivreIndisponible
// 借出最后一个副本时Disponible翻转为false
func (l *Livre) EmprunterExemplaire() error {
	if l.NombreExemplaires < 1 {
		return ErrLivreIndisponible
	}
	l.NombreExemplaires--
	l.Disponible = l.NombreExemplaires > 0
	l.UpdatedAt = time.Now()
	return nil
}

// RendreExemplaire 归还一个副本(领域行为)
// 归还后副本数>=1,Disponible必然为true
func (l *Livre) RendreExemplaire() {
	l.NombreExemplaires++
	l.Disponible = true
	l.UpdatedAt = time.Now()
}

// SetNombreExemplaires 设置副本数(馆藏调整)
// 业务规则:副本数不能为负数;Disponible同步更新
func (l *Livre) SetNombreExemplaires(n int) error {
	if n < 0 {
		return ErrExemplairesInvalide
	}
	l.NombreExemplaires = n
	l.Disponible = n > 0
	l.UpdatedAt = time.Now()
	return nil
}

// UpdateInfo 更新图书基本信息(部分更新,零值表示不修改)
func (l *Livre) UpdateInfo(titre, auteur string, anneePublication int, genre string) {
	if titre != "" {
		l.Titre = titre
	}
	if auteur != "" {
		l.Auteur = auteur
	}
	if anneePublication != 0 {
		l.AnneePublication = anneePublication
	}
	if genre != "" {
		l.Genre = genre
	}
	l.UpdatedAt = time.Now()
}
