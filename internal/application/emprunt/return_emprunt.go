package emprunt

import (
	"context"
	"log"
	"time"

	"github.com/xiebiao/bibliotheque/internal/domain/emprunt"
	"github.com/xiebiao/bibliotheque/internal/domain/livre"
	"github.com/xiebiao/bibliotheque/pkg/metrics"
	"github.com/xiebiao/bibliotheque/pkg/mq"
)

// ReturnEmpruntUseCase 归还借阅用例
type ReturnEmpruntUseCase struct {
	empruntRepo emprunt.Repository
	livreRepo   livre.Repository
	txManager   Transactor
	publisher   EventPublisher
	cache       CacheInvalidator
}

// NewReturnEmpruntUseCase 创建归还用例
func NewReturnEmpruntUseCase(
	empruntRepo emprunt.Repository,
	livreRepo livre.Repository,
	txManager Transactor,
	publisher EventPublisher,
	cache CacheInvalidator,
) *ReturnEmpruntUseCase {
	return &ReturnEmpruntUseCase{
		empruntRepo: empruntRepo,
		livreRepo:   livreRepo,
		txManager:   txManager,
		publisher:   publisher,
		cache:       cache,
	}
}

// Execute 执行归还
//
// 语义约定:
// - 借阅记录不存在 → 返回(nil, nil),HTTP层输出404空响应
// - 已归还的借阅再次归还 → ErrEmpruntNonActif(业务错误,非幂等成功)
// - EN_COURS和EN_RETARD都可归还,逾期归还不额外处理(无罚金)
//
// 查询、状态机转换、副本回增都在同一事务内,且查询用SELECT FOR UPDATE:
// 同一借阅的并发归还在行锁上串行化,后到者在锁释放后看到RETOURNE,
// 被状态机拒绝,副本数不会被重复回增
func (uc *ReturnEmpruntUseCase) Execute(ctx context.Context, empruntID string) (*EmpruntResponse, error) {
	var e *emprunt.Emprunt
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 锁定读:并发归还在此串行化
		locked, err := uc.empruntRepo.LockByID(txCtx, empruntID)
		if err != nil {
			return err
		}

		// 状态机转换(非活跃借阅在此拒绝,事务回滚)
		if err := locked.Retourner(time.Now()); err != nil {
			return err
		}

		if err := uc.empruntRepo.Update(txCtx, locked); err != nil {
			return err
		}
		// 副本数只增不减,归还后必然>=1,Disponible必然翻转为true
		if err := uc.livreRepo.UpdateExemplaires(txCtx, locked.LivreID, +1); err != nil {
			return err
		}

		e = locked
		return nil
	})
	if err != nil {
		if err == emprunt.ErrEmpruntNotFound {
			return nil, nil
		}
		return nil, err
	}

	// 指标与事件(事务已提交,失败只记日志)
	if metrics.EmpruntsRetournesTotal != nil {
		metrics.EmpruntsRetournesTotal.Inc()
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
		if err := uc.publisher.Publish(mq.RoutingKeyEmpruntRetourne, event); err != nil {
			log.Printf("发布归还事件失败: %v", err)
		}
	}

	if uc.cache != nil {
		if err := uc.cache.InvalidateLivre(ctx, e.LivreID); err != nil {
			log.Printf("失效图书缓存失败: %v", err)
		}
	}

	return ToEmpruntResponse(e), nil
}
