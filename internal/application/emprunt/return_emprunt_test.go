package emprunt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bibliotheque/internal/domain/emprunt"
	"github.com/xiebiao/bibliotheque/internal/domain/livre"
	"github.com/xiebiao/bibliotheque/pkg/mq"
)

// returnFixture 还书用例的标准测试环境:一条活跃借阅,图书剩余2副本
type returnFixture struct {
	uc          *ReturnEmpruntUseCase
	empruntRepo *fakeEmpruntRepo
	livreRepo   *fakeLivreRepo
	publisher   *fakePublisher
	cache       *fakeCache
	pret        *emprunt.Emprunt
	ouvrage     *livre.Livre
}

func newReturnFixture(t *testing.T) *returnFixture {
	t.Helper()

	livreRepo := newFakeLivreRepo()
	empruntRepo := newFakeEmpruntRepo()
	publisher := &fakePublisher{}
	cache := &fakeCache{}

	ouvrage := livre.NewLivre("L'Étranger", "Albert Camus", "9782070360024", 1942, "Roman", 3)
	require.NoError(t, ouvrage.EmprunterExemplaire())
	require.NoError(t, livreRepo.Create(context.Background(), ouvrage))

	pret := emprunt.NewEmprunt("user-1", ouvrage.ID, 14)
	require.NoError(t, empruntRepo.Create(context.Background(), pret))

	uc := NewReturnEmpruntUseCase(empruntRepo, livreRepo, fakeTx{}, publisher, cache)

	return &returnFixture{
		uc:          uc,
		empruntRepo: empruntRepo,
		livreRepo:   livreRepo,
		publisher:   publisher,
		cache:       cache,
		pret:        pret,
		ouvrage:     ouvrage,
	}
}

// TestReturnEmprunt_Succes 测试正常还书
func TestReturnEmprunt_Succes(t *testing.T) {
	f := newReturnFixture(t)

	resp, err := f.uc.Execute(context.Background(), f.pret.ID)

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, string(emprunt.StatutRetourne), resp.Statut)
	require.NotNil(t, resp.DateRetourEffectif, "归还后必须有实际归还时间")

	// 副本回增
	assert.Equal(t, 3, f.ouvrage.NombreExemplaires)
	assert.True(t, f.ouvrage.Disponible)

	// 发布emprunt.retourne事件 + 失效图书缓存
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, mq.RoutingKeyEmpruntRetourne, f.publisher.events[0].routingKey)
	assert.Equal(t, []string{f.ouvrage.ID}, f.cache.invalidated)
}

// TestReturnEmprunt_EnRetard 测试逾期借阅也可以归还
// 逾期归还不额外处理(无罚金)
func TestReturnEmprunt_EnRetard(t *testing.T) {
	f := newReturnFixture(t)
	require.NoError(t, f.pret.MarquerEnRetard())

	resp, err := f.uc.Execute(context.Background(), f.pret.ID)

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, string(emprunt.StatutRetourne), resp.Statut)
	assert.Equal(t, 3, f.ouvrage.NombreExemplaires)
}

// TestReturnEmprunt_Introuvable 测试借阅记录不存在
// 约定:返回(nil, nil),HTTP层输出404空响应
func TestReturnEmprunt_Introuvable(t *testing.T) {
	f := newReturnFixture(t)

	resp, err := f.uc.Execute(context.Background(), "inexistant")

	assert.NoError(t, err)
	assert.Nil(t, resp)
	assert.Empty(t, f.publisher.events)
}

// TestReturnEmprunt_DejaRetourne 测试重复还书
// 非幂等:第二次归还返回业务错误,副本数不再变化
func TestReturnEmprunt_DejaRetourne(t *testing.T) {
	f := newReturnFixture(t)

	_, err := f.uc.Execute(context.Background(), f.pret.ID)
	require.NoError(t, err)
	require.Equal(t, 3, f.ouvrage.NombreExemplaires)

	_, err = f.uc.Execute(context.Background(), f.pret.ID)

	assert.Equal(t, emprunt.ErrEmpruntNonActif, err)
	assert.Equal(t, 3, f.ouvrage.NombreExemplaires, "重复归还不能重复回增副本")
	assert.Len(t, f.publisher.events, 1, "只有第一次归还发事件")
}

// TestReturnEmprunt_RetourConcurrent 测试并发归还同一借阅
// 对手请求在本事务开启前已提交归还:事务内的锁定读
// 看到RETOURNE,状态机拒绝,副本数不被第二次回增
func TestReturnEmprunt_RetourConcurrent(t *testing.T) {
	f := newReturnFixture(t)

	uc := NewReturnEmpruntUseCase(f.empruntRepo, f.livreRepo, hookTx{avant: func() {
		_, err := f.uc.Execute(context.Background(), f.pret.ID)
		require.NoError(t, err)
	}}, f.publisher, f.cache)

	_, err := uc.Execute(context.Background(), f.pret.ID)

	assert.Equal(t, emprunt.ErrEmpruntNonActif, err)
	assert.Equal(t, 3, f.ouvrage.NombreExemplaires, "并发归还只回增一次副本")
	require.NotNil(t, f.pret.DateRetourEffectif)
	assert.Len(t, f.publisher.events, 1, "只有先提交的归还发事件")
}
