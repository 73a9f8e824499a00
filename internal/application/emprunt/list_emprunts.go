package emprunt

import (
	"context"
	"log"
	"time"

	"github.com/xiebiao/bibliotheque/internal/domain/emprunt"
	"github.com/xiebiao/bibliotheque/internal/domain/utilisateur"
	"github.com/xiebiao/bibliotheque/pkg/metrics"
	"github.com/xiebiao/bibliotheque/pkg/mq"
)

// ListEmpruntsUseCase 借阅列表用例
// 逾期重评估(ReconcilerRetards)也挂在这里:EN_COURS→EN_RETARD的
// 转换只在查询逾期列表时惰性触发,没有后台定时任务
type ListEmpruntsUseCase struct {
	empruntRepo     emprunt.Repository
	utilisateurRepo utilisateur.Repository
	publisher       EventPublisher
}

// NewListEmpruntsUseCase 创建借阅列表用例
func NewListEmpruntsUseCase(
	empruntRepo emprunt.Repository,
	utilisateurRepo utilisateur.Repository,
	publisher EventPublisher,
) *ListEmpruntsUseCase {
	return &ListEmpruntsUseCase{
		empruntRepo:     empruntRepo,
		utilisateurRepo: utilisateurRepo,
		publisher:       publisher,
	}
}

// EmpruntDetailResponse 带读者和图书信息的借阅响应DTO
type EmpruntDetailResponse struct {
	EmpruntResponse
	Utilisateur struct {
		Nom    string `json:"nom"`
		Prenom string `json:"prenom"`
		Email  string `json:"email"`
	} `json:"utilisateur"`
	Livre struct {
		Titre  string `json:"titre"`
		Auteur string `json:"auteur"`
		ISBN   string `json:"isbn"`
	} `json:"livre"`
}

// EnCours 查询进行中的借阅
// 注意:不触发逾期重评估,列表里可能包含实际已超期但尚未
// 被重评估的EN_COURS记录(惰性转换的固有行为)
func (uc *ListEmpruntsUseCase) EnCours(ctx context.Context) ([]*EmpruntDetailResponse, error) {
	details, err := uc.empruntRepo.ListEnCours(ctx)
	if err != nil {
		return nil, err
	}
	return toDetailResponses(details), nil
}

// EnRetard 查询逾期的借阅
// 先执行逾期重评估,保证返回的列表是截至当前时刻的完整逾期集合
func (uc *ListEmpruntsUseCase) EnRetard(ctx context.Context) ([]*EmpruntDetailResponse, error) {
	if _, err := uc.ReconcilerRetards(ctx); err != nil {
		return nil, err
	}

	details, err := uc.empruntRepo.ListEnRetard(ctx)
	if err != nil {
		return nil, err
	}
	return toDetailResponses(details), nil
}

// Historique 查询已归还的借阅(按实际归还时间倒序)
func (uc *ListEmpruntsUseCase) Historique(ctx context.Context) ([]*EmpruntDetailResponse, error) {
	details, err := uc.empruntRepo.ListHistorique(ctx)
	if err != nil {
		return nil, err
	}
	return toDetailResponses(details), nil
}

// ParUtilisateur 查询读者的全部借阅
// 读者不存在时返回NotFound,与读者详情接口行为一致
func (uc *ListEmpruntsUseCase) ParUtilisateur(ctx context.Context, utilisateurID string) ([]*EmpruntDetailResponse, error) {
	if _, err := uc.utilisateurRepo.FindByID(ctx, utilisateurID); err != nil {
		return nil, err
	}

	details, err := uc.empruntRepo.ListParUtilisateur(ctx, utilisateurID)
	if err != nil {
		return nil, err
	}
	return toDetailResponses(details), nil
}

// ReconcilerRetards 逾期重评估(唯一的EN_COURS→EN_RETARD转换入口)
// 将所有已超过应还日的EN_COURS借阅标记为EN_RETARD,返回转换条数。
// 设计说明:
// 1. 逐条转换而非批量UPDATE:每条转换要发emprunt.retard事件
// 2. 重评估是幂等的:已是EN_RETARD的借阅不会再次匹配查询条件
// 3. 不在事务里:MarquerEnRetard是带statut='EN_COURS'条件的单条
//    原子UPDATE,查询快照后被归还的借阅转换不生效(返回false跳过),
//    RETOURNE不会被改回EN_RETARD
func (uc *ListEmpruntsUseCase) ReconcilerRetards(ctx context.Context) (int, error) {
	echus, err := uc.empruntRepo.ListEnCoursEchus(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	count := 0
	for _, e := range echus {
		ok, err := uc.empruntRepo.MarquerEnRetard(ctx, e.ID)
		if err != nil {
			log.Printf("标记逾期失败: emprunt=%s, err=%v", e.ID, err)
			continue
		}
		if !ok {
			// 查询快照已过期:该借阅刚被归还,跳过
			continue
		}
		e.Statut = emprunt.StatutEnRetard
		count++

		if metrics.EmpruntsEnRetardTotal != nil {
			metrics.EmpruntsEnRetardTotal.Inc()
		}

		if uc.publisher != nil {
			event := mq.EmpruntEvent{
				EmpruntID:       e.ID,
				UtilisateurID:   e.UtilisateurID,
				LivreID:         e.LivreID,
				Statut:          string(e.Statut),
				DateRetourPrevu: e.DateRetourPrevu,
				OccurredAt:      time.Now(),
			}
			if err := uc.publisher.Publish(mq.RoutingKeyEmpruntRetard, event); err != nil {
				log.Printf("发布逾期事件失败: %v", err)
			}
		}
	}

	return count, nil
}

// toDetailResponses 领域视图 → 响应DTO
func toDetailResponses(details []*emprunt.EmpruntAvecDetails) []*EmpruntDetailResponse {
	result := make([]*EmpruntDetailResponse, len(details))
	for i, d := range details {
		resp := &EmpruntDetailResponse{
			EmpruntResponse: *ToEmpruntResponse(&d.Emprunt),
		}
		resp.Utilisateur.Nom = d.NomUtilisateur
		resp.Utilisateur.Prenom = d.PrenomUtilisateur
		resp.Utilisateur.Email = d.EmailUtilisateur
		resp.Livre.Titre = d.TitreLivre
		resp.Livre.Auteur = d.AuteurLivre
		resp.Livre.ISBN = d.ISBNLivre
		result[i] = resp
	}
	return result
}
