package utilisateur

import (
	"time"

	"github.com/google/uuid"
)

// Utilisateur 读者实体(聚合根)
// DDD设计说明:
// 1. Utilisateur是读者聚合的根实体,代表图书馆的注册读者
// 2. ID使用UUID字符串(创建时生成,不依赖数据库自增)
// 3. Email作为业务唯一标识(数据库层保证唯一性)
// 4. Actif标记账号是否激活,未激活的读者不能借书
type Utilisateur struct {
	ID              string
	Nom             string // 姓
	Prenom          string // 名
	Email           string
	DateInscription time.Time // 注册时间
	Actif           bool      // 账号是否激活
	UpdatedAt       time.Time
}

// NewUtilisateur 创建新读者(工厂方法)
// 新读者默认为激活状态
func NewUtilisateur(nom, prenom, email string) *Utilisateur {
	now := time.Now()
	return &Utilisateur{
		ID:              uuid.NewString(),
		Nom:             nom,
		Prenom:          prenom,
		Email:           email,
		DateInscription: now,
		Actif:           true,
		UpdatedAt:       now,
	}
}

// UpdateInfo 更新读者基本信息(部分更新,空字符串表示不修改)
func (u *Utilisateur) UpdateInfo(nom, prenom, email string) {
	if nom != "" {
		u.Nom = nom
	}
	if prenom != "" {
		u.Prenom = prenom
	}
	if email != "" {
		u.Email = email
	}
	u.UpdatedAt = time.Now()
}

// Desactiver 停用账号
// 停用不影响已有借阅,只阻止新的借阅
func (u *Utilisateur) Desactiver() {
	u.Actif = false
	u.UpdatedAt = time.Now()
}

// Activer 激活账号
func (u *Utilisateur) Activer() {
	u.Actif = true
	u.UpdatedAt = time.Now()
}

// PeutEmprunter 检查读者是否可以借书
// 业务规则:只有激活状态的读者可以借书
func (u *Utilisateur) PeutEmprunter() bool {
	return u.Actif
}
