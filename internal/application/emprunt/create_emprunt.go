package emprunt

import (
	"context"
	"log"
	"time"

	"github.com/xiebiao/bibliotheque/internal/domain/emprunt"
	"github.com/xiebiao/bibliotheque/internal/domain/livre"
	"github.com/xiebiao/bibliotheque/internal/domain/utilisateur"
	apperrors "github.com/xiebiao/bibliotheque/pkg/errors"
	"github.com/xiebiao/bibliotheque/pkg/metrics"
	"github.com/xiebiao/bibliotheque/pkg/mq"
)

// EventPublisher 借阅事件发布接口
// *mq.Publisher实现该接口;为nil时事件静默丢弃(MQ未启用)
type EventPublisher interface {
	Publish(routingKey string, message interface{}) error
}

// CacheInvalidator 图书缓存失效接口
// 借出/归还改变副本数后,必须清掉图书缓存;为nil时跳过(缓存未启用)
type CacheInvalidator interface {
	InvalidateLivre(ctx context.Context, id string) error
}

// Transactor 事务边界接口
// *mysql.TxManager实现该接口;fn内的仓储操作在同一事务中执行
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CreateEmpruntUseCase 创建借阅用例
// 整个服务最核心的用例:涉及事务、行锁、跨聚合的业务规则
type CreateEmpruntUseCase struct {
	empruntRepo      emprunt.Repository
	utilisateurRepo  utilisateur.Repository
	livreRepo        livre.Repository
	txManager        Transactor
	publisher        EventPublisher
	cache            CacheInvalidator
	dureeDefautJours int
}

// NewCreateEmpruntUseCase 创建借阅用例
func NewCreateEmpruntUseCase(
	empruntRepo emprunt.Repository,
	utilisateurRepo utilisateur.Repository,
	livreRepo livre.Repository,
	txManager Transactor,
	publisher EventPublisher,
	cache CacheInvalidator,
	dureeDefautJours int,
) *CreateEmpruntUseCase {
	return &CreateEmpruntUseCase{
		empruntRepo:      empruntRepo,
		utilisateurRepo:  utilisateurRepo,
		livreRepo:        livreRepo,
		txManager:        txManager,
		publisher:        publisher,
		cache:            cache,
		dureeDefautJours: dureeDefautJours,
	}
}

// CreateEmpruntRequest 借阅请求DTO
type CreateEmpruntRequest struct {
	UtilisateurID string
	LivreID       string
	DureeJours    int // 0表示使用配置的默认借期
}

// EmpruntResponse 借阅响应DTO
type EmpruntResponse struct {
	ID                 string  `json:"id"`
	UtilisateurID      string  `json:"utilisateur_id"`
	LivreID            string  `json:"livre_id"`
	DateEmprunt        string  `json:"date_emprunt"`
	DateRetourPrevu    string  `json:"date_retour_prevu"`
	DateRetourEffectif *string `json:"date_retour_effectif"`
	Statut             string  `json:"statut"`
}

// Execute 执行借阅
//
// 核心问题:并发超借
// 场景:某书仅剩1个副本,两个读者同时借
// 错误实现:先查副本数再扣减,两个请求都通过检查,副本数变成-1
// 正确实现:悲观锁
//  1. SELECT FOR UPDATE锁定读者行和图书行(固定顺序,避免死锁)
//  2. 检查副本数和读者的活跃借阅
//  3. 创建借阅记录 + 扣减副本数
//  4. COMMIT释放锁
//
// 读者行锁同时覆盖另一种并发:同一读者同时借两本不同的书,
// 仅靠图书行锁无法串行化活跃借阅检查
//
// 前置条件按固定顺序检查,保证并发时错误信息稳定:
// 读者存在 → 读者激活 → 图书存在 → 有副本 → 读者无活跃借阅
func (uc *CreateEmpruntUseCase) Execute(ctx context.Context, req CreateEmpruntRequest) (*EmpruntResponse, error) {
	start := time.Now()

	// 1. 借期:未指定用默认值,负数拒绝
	duree := req.DureeJours
	if duree == 0 {
		duree = uc.dureeDefautJours
	}
	if duree < 0 {
		return nil, uc.fail(emprunt.ErrDureeInvalide, "invalide")
	}

	// 2. 读者检查(无需锁:停用读者的并发借阅由活跃借阅检查兜底)
	u, err := uc.utilisateurRepo.FindByID(ctx, req.UtilisateurID)
	if err != nil {
		return nil, uc.fail(err, "introuvable")
	}
	if !u.PeutEmprunter() {
		return nil, uc.fail(utilisateur.ErrUtilisateurInactif, "inactif")
	}

	// 3. 事务:锁定读者和图书 → 校验 → 创建借阅 → 扣减副本
	var created *emprunt.Emprunt
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 锁定读者行:同一读者对不同图书的并发借阅在此串行化,
		// 否则活跃借阅检查可能两边都通过。锁定顺序固定为读者→图书
		if _, err := uc.utilisateurRepo.LockByID(txCtx, req.UtilisateurID); err != nil {
			return err
		}

		// 锁定图书行(SELECT FOR UPDATE),同一本书的并发借阅在此串行化
		l, err := uc.livreRepo.LockByID(txCtx, req.LivreID)
		if err != nil {
			return err
		}

		// 必须在锁定后检查副本数,否则并发扣减导致超借
		if l.NombreExemplaires < 1 {
			return livre.ErrLivreIndisponible
		}

		// 一人同时只能有一个活跃借阅(EN_RETARD也算)
		_, err = uc.empruntRepo.FindActifParUtilisateur(txCtx, req.UtilisateurID)
		if err == nil {
			return emprunt.ErrEmpruntEnCours
		}
		if err != emprunt.ErrEmpruntNotFound {
			return err
		}

		// 创建借阅记录
		e := emprunt.NewEmprunt(req.UtilisateurID, req.LivreID, duree)
		if err := uc.empruntRepo.Create(txCtx, e); err != nil {
			return err
		}

		// 扣减副本数(原子UPDATE,同一语句维护Disponible)
		// 失败则整个事务回滚,借阅记录不会残留
		if err := uc.livreRepo.UpdateExemplaires(txCtx, req.LivreID, -1); err != nil {
			return err
		}

		created = e
		return nil
	})
	if err != nil {
		return nil, uc.failWithReason(err)
	}

	// 4. 指标与事件(事务已提交,失败只记日志)
	if metrics.EmpruntsCreesTotal != nil {
		metrics.EmpruntsCreesTotal.Inc()
	}
	metrics.ObserveHistogram(metrics.EmpruntCreationDuration, time.Since(start).Seconds())

	uc.publishEvent(mq.RoutingKeyEmpruntCree, created)
	uc.invalidateCache(ctx, created.LivreID)

	return ToEmpruntResponse(created), nil
}

// fail 记录失败指标并原样返回错误
func (uc *CreateEmpruntUseCase) fail(err error, raison string) error {
	metrics.IncCounterVec(metrics.EmpruntsEchouesTotal, map[string]string{"raison": raison})
	return err
}

// failWithReason 按错误类型归类失败原因
func (uc *CreateEmpruntUseCase) failWithReason(err error) error {
	raison := "interne"
	switch {
	case err == livre.ErrLivreIndisponible:
		raison = "indisponible"
	case err == emprunt.ErrEmpruntEnCours:
		raison = "deja_emprunte"
	case apperrors.IsNotFound(err):
		raison = "introuvable"
	}
	return uc.fail(err, raison)
}

// publishEvent 发布借阅事件(nil-safe,失败不影响业务)
func (uc *CreateEmpruntUseCase) publishEvent(routingKey string, e *emprunt.Emprunt) {
	if uc.publisher == nil {
		return
	}
	event := mq.EmpruntEvent{
		EmpruntID:       e.ID,
		UtilisateurID:   e.UtilisateurID,
		LivreID:         e.LivreID,
		Statut:          string(e.Statut),
		DateRetourPrevu: e.DateRetourPrevu,
		OccurredAt:      time.Now(),
	}
	if err := uc.publisher.Publish(routingKey, event); err != nil {
		log.Printf("发布借阅事件失败: %v", err)
	}
}

// invalidateCache 失效图书缓存(副本数已变化)
func (uc *CreateEmpruntUseCase) invalidateCache(ctx context.Context, livreID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.InvalidateLivre(ctx, livreID); err != nil {
		log.Printf("失效图书缓存失败: %v", err)
	}
}

// ToEmpruntResponse 领域实体 → 响应DTO
func ToEmpruntResponse(e *emprunt.Emprunt) *EmpruntResponse {
	resp := &EmpruntResponse{
		ID:              e.ID,
		UtilisateurID:   e.UtilisateurID,
		LivreID:         e.LivreID,
		DateEmprunt:     e.DateEmprunt.Format("2006-01-02 15:04:05"),
		DateRetourPrevu: e.DateRetourPrevu.Format("2006-01-02 15:04:05"),
		Statut:          string(e.Statut),
	}
	if e.DateRetourEffectif != nil {
		s := e.DateRetourEffectif.Format("2006-01-02 15:04:05")
		resp.DateRetourEffectif = &s
	}
	return resp
}
