package emprunt

import (
	"time"

	"github.com/google/uuid"
)

// Statut 借阅状态
// 状态机:
//
//	EN_COURS ──归还──→ RETOURNE (终态)
//	EN_COURS ──超过应还日──→ EN_RETARD ──归还──→ RETOURNE
//
// 不存在反向转换:RETOURNE不能回到任何状态,EN_RETARD不能回到EN_COURS
type Statut string

const (
	// StatutEnCours 进行中(未到应还日)
	StatutEnCours Statut = "EN_COURS"

	// StatutEnRetard 逾期(超过应还日仍未归还,仍占用副本)
	StatutEnRetard Statut = "EN_RETARD"

	// StatutRetourne 已归还(终态)
	StatutRetourne Statut = "RETOURNE"
)

// Emprunt 借阅实体(聚合根)
// DDD设计说明:
// 1. Emprunt是借阅聚合的根实体,关联读者和图书两个聚合(只持有ID)
// 2. DateRetourEffectif当且仅当状态为RETOURNE时非nil
// 3. EN_COURS和EN_RETARD都占用图书副本("活跃"借阅)
type Emprunt struct {
	ID                 string
	UtilisateurID      string
	LivreID            string
	DateEmprunt        time.Time  // 借出时间
	DateRetourPrevu    time.Time  // 应还时间(= DateEmprunt + 借期)
	DateRetourEffectif *time.Time // 实际归还时间(仅RETOURNE时非nil)
	Statut             Statut
}

// NewEmprunt 创建新借阅(工厂方法)
// dureeJours为借期天数,由调用方从配置取默认值或按请求覆盖
func NewEmprunt(utilisateurID, livreID string, dureeJours int) *Emprunt {
	now := time.Now()
	return &Emprunt{
		ID:              uuid.NewString(),
		UtilisateurID:   utilisateurID,
		LivreID:         livreID,
		DateEmprunt:     now,
		DateRetourPrevu: now.AddDate(0, 0, dureeJours),
		Statut:          StatutEnCours,
	}
}

// EstActif 检查借阅是否活跃(占用图书副本)
// EN_COURS和EN_RETARD都算活跃,EN_RETARD的读者同样不能再借
func (e *Emprunt) EstActif() bool {
	return e.Statut == StatutEnCours || e.Statut == StatutEnRetard
}

// EstEchu 检查借阅是否已超过应还日(按给定时刻判断)
// 只对EN_COURS有意义:EN_RETARD已标记,RETOURNE已结束
func (e *Emprunt) EstEchu(now time.Time) bool {
	return e.Statut == StatutEnCours && e.DateRetourPrevu.Before(now)
}

// Retourner 归还借阅(领域行为)
// 业务规则:
// - 只有活跃借阅(EN_COURS或EN_RETARD)可以归还
// - 归还已归还的借阅返回ErrEmpruntNonActif
// - 归还时刻设置DateRetourEffectif并进入终态RETOURNE
func (e *Emprunt) Retourner(now time.Time) error {
	if !e.EstActif() {
		return ErrEmpruntNonActif
	}
	e.Statut = StatutRetourne
	e.DateRetourEffectif = &now
	return nil
}

// MarquerEnRetard 标记为逾期(领域行为)
// 业务规则:只有EN_COURS可以转为EN_RETARD(每条借阅最多转一次)
func (e *Emprunt) MarquerEnRetard() error {
	if e.Statut != StatutEnCours {
		return ErrEmpruntNonActif
	}
	e.Statut = StatutEnRetard
	return nil
}

// EmpruntAvecDetails 带读者和图书信息的借阅视图
// 列表接口返回该结构,避免客户端再按ID逐个查询
type EmpruntAvecDetails struct {
	Emprunt
	NomUtilisateur    string
	PrenomUtilisateur string
	EmailUtilisateur  string
	TitreLivre        string
	AuteurLivre       string
	ISBNLivre         string
}
