package emprunt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bibliotheque/internal/domain/emprunt"
	"github.com/xiebiao/bibliotheque/internal/domain/livre"
	"github.com/xiebiao/bibliotheque/internal/domain/utilisateur"
	"github.com/xiebiao/bibliotheque/pkg/mq"
)

// createFixture 借书用例的标准测试环境:一个激活读者,一本3副本的图书
type createFixture struct {
	uc              *CreateEmpruntUseCase
	empruntRepo     *fakeEmpruntRepo
	utilisateurRepo *fakeUtilisateurRepo
	livreRepo       *fakeLivreRepo
	publisher       *fakePublisher
	cache           *fakeCache
	lecteur         *utilisateur.Utilisateur
	ouvrage         *livre.Livre
}

func newCreateFixture(t *testing.T) *createFixture {
	t.Helper()

	utilisateurRepo := newFakeUtilisateurRepo()
	livreRepo := newFakeLivreRepo()
	empruntRepo := newFakeEmpruntRepo()
	publisher := &fakePublisher{}
	cache := &fakeCache{}

	lecteur := utilisateur.NewUtilisateur("Dupont", "Marie", "marie@example.fr")
	require.NoError(t, utilisateurRepo.Create(context.Background(), lecteur))

	ouvrage := livre.NewLivre("L'Étranger", "Albert Camus", "9782070360024", 1942, "Roman", 3)
	require.NoError(t, livreRepo.Create(context.Background(), ouvrage))

	uc := NewCreateEmpruntUseCase(
		empruntRepo, utilisateurRepo, livreRepo, fakeTx{},
		publisher, cache, 14)

	return &createFixture{
		uc:              uc,
		empruntRepo:     empruntRepo,
		utilisateurRepo: utilisateurRepo,
		livreRepo:       livreRepo,
		publisher:       publisher,
		cache:           cache,
		lecteur:         lecteur,
		ouvrage:         ouvrage,
	}
}

// TestCreateEmprunt_Succes 测试正常借书
func TestCreateEmprunt_Succes(t *testing.T) {
	f := newCreateFixture(t)

	resp, err := f.uc.Execute(context.Background(), CreateEmpruntRequest{
		UtilisateurID: f.lecteur.ID,
		LivreID:       f.ouvrage.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, string(emprunt.StatutEnCours), resp.Statut)
	assert.Nil(t, resp.DateRetourEffectif)

	// 副本数扣减,可借标记同步
	assert.Equal(t, 2, f.ouvrage.NombreExemplaires)
	assert.True(t, f.ouvrage.Disponible)

	// 借阅记录落库
	e, err := f.empruntRepo.FindByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, emprunt.StatutEnCours, e.Statut)

	// 默认借期14天
	assert.Equal(t, e.DateEmprunt.AddDate(0, 0, 14), e.DateRetourPrevu)

	// 发布emprunt.cree事件 + 失效图书缓存
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, mq.RoutingKeyEmpruntCree, f.publisher.events[0].routingKey)
	assert.Equal(t, []string{f.ouvrage.ID}, f.cache.invalidated)

	// 事务内锁定了读者行
	assert.Equal(t, 1, f.utilisateurRepo.lockCalls)
}

// TestCreateEmprunt_DureePersonnalisee 测试自定义借期
func TestCreateEmprunt_DureePersonnalisee(t *testing.T) {
	f := newCreateFixture(t)

	resp, err := f.uc.Execute(context.Background(), CreateEmpruntRequest{
		UtilisateurID: f.lecteur.ID,
		LivreID:       f.ouvrage.ID,
		DureeJours:    30,
	})

	require.NoError(t, err)
	e, err := f.empruntRepo.FindByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, e.DateEmprunt.AddDate(0, 0, 30), e.DateRetourPrevu)
}

// TestCreateEmprunt_DureeNegative 测试负借期拒绝
func TestCreateEmprunt_DureeNegative(t *testing.T) {
	f := newCreateFixture(t)

	_, err := f.uc.Execute(context.Background(), CreateEmpruntRequest{
		UtilisateurID: f.lecteur.ID,
		LivreID:       f.ouvrage.ID,
		DureeJours:    -1,
	})

	assert.Equal(t, emprunt.ErrDureeInvalide, err)
	assert.Equal(t, 3, f.ouvrage.NombreExemplaires, "失败的借书不扣副本")
}

// TestCreateEmprunt_UtilisateurIntrouvable 测试读者不存在
func TestCreateEmprunt_UtilisateurIntrouvable(t *testing.T) {
	f := newCreateFixture(t)

	_, err := f.uc.Execute(context.Background(), CreateEmpruntRequest{
		UtilisateurID: "inexistant",
		LivreID:       f.ouvrage.ID,
	})

	assert.Equal(t, utilisateur.ErrUtilisateurNotFound, err)
}

// TestCreateEmprunt_UtilisateurInactif 测试停用读者借书
func TestCreateEmprunt_UtilisateurInactif(t *testing.T) {
	f := newCreateFixture(t)
	f.lecteur.Desactiver()

	_, err := f.uc.Execute(context.Background(), CreateEmpruntRequest{
		UtilisateurID: f.lecteur.ID,
		LivreID:       f.ouvrage.ID,
	})

	assert.Equal(t, utilisateur.ErrUtilisateurInactif, err)
	assert.Equal(t, 3, f.ouvrage.NombreExemplaires)
}

// TestCreateEmprunt_LivreIntrouvable 测试图书不存在
func TestCreateEmprunt_LivreIntrouvable(t *testing.T) {
	f := newCreateFixture(t)

	_, err := f.uc.Execute(context.Background(), CreateEmpruntRequest{
		UtilisateurID: f.lecteur.ID,
		LivreID:       "inexistant",
	})

	assert.Equal(t, livre.ErrLivreNotFound, err)
}

// TestCreateEmprunt_LivreIndisponible 测试无副本可借
func TestCreateEmprunt_LivreIndisponible(t *testing.T) {
	f := newCreateFixture(t)
	require.NoError(t, f.ouvrage.SetNombreExemplaires(0))

	_, err := f.uc.Execute(context.Background(), CreateEmpruntRequest{
		UtilisateurID: f.lecteur.ID,
		LivreID:       f.ouvrage.ID,
	})

	assert.Equal(t, livre.ErrLivreIndisponible, err)
	assert.Empty(t, f.publisher.events, "失败的借书不发事件")
}

// TestCreateEmprunt_DejaEmprunte 测试一人一书规则
// 读者已有活跃借阅(EN_COURS或EN_RETARD)时不能再借,包括同一本书
func TestCreateEmprunt_DejaEmprunte(t *testing.T) {
	statuts := []emprunt.Statut{emprunt.StatutEnCours, emprunt.StatutEnRetard}

	for _, statut := range statuts {
		t.Run(string(statut), func(t *testing.T) {
			f := newCreateFixture(t)

			existant := emprunt.NewEmprunt(f.lecteur.ID, "autre-livre", 14)
			existant.Statut = statut
			require.NoError(t, f.empruntRepo.Create(context.Background(), existant))

			_, err := f.uc.Execute(context.Background(), CreateEmpruntRequest{
				UtilisateurID: f.lecteur.ID,
				LivreID:       f.ouvrage.ID,
			})

			assert.Equal(t, emprunt.ErrEmpruntEnCours, err)
			assert.Equal(t, 3, f.ouvrage.NombreExemplaires, "被拒绝的借书不扣副本")
		})
	}
}

// TestCreateEmprunt_ConcurrentMemeLecteur 测试同一读者并发借两本不同的书
// 对手请求在本事务开启前已提交借阅:读者行锁之后的
// 活跃借阅检查看到它,一人一书规则不被绕过
func TestCreateEmprunt_ConcurrentMemeLecteur(t *testing.T) {
	f := newCreateFixture(t)

	autre := livre.NewLivre("La Peste", "Albert Camus", "9782070360420", 1947, "Roman", 2)
	require.NoError(t, f.livreRepo.Create(context.Background(), autre))

	uc := NewCreateEmpruntUseCase(
		f.empruntRepo, f.utilisateurRepo, f.livreRepo, hookTx{avant: func() {
			_, err := f.uc.Execute(context.Background(), CreateEmpruntRequest{
				UtilisateurID: f.lecteur.ID,
				LivreID:       autre.ID,
			})
			require.NoError(t, err)
		}},
		f.publisher, f.cache, 14)

	_, err := uc.Execute(context.Background(), CreateEmpruntRequest{
		UtilisateurID: f.lecteur.ID,
		LivreID:       f.ouvrage.ID,
	})

	assert.Equal(t, emprunt.ErrEmpruntEnCours, err)
	assert.Equal(t, 3, f.ouvrage.NombreExemplaires, "被拒绝的借书不扣副本")
	assert.Equal(t, 1, autre.NombreExemplaires, "先提交的借阅正常扣减")
	assert.Len(t, f.publisher.events, 1, "只有先提交的借阅发事件")
}

// TestCreateEmprunt_ApresRetour 测试归还后可以再借
func TestCreateEmprunt_ApresRetour(t *testing.T) {
	f := newCreateFixture(t)

	ancien := emprunt.NewEmprunt(f.lecteur.ID, f.ouvrage.ID, 14)
	require.NoError(t, ancien.Retourner(time.Now()))
	require.NoError(t, f.empruntRepo.Create(context.Background(), ancien))

	resp, err := f.uc.Execute(context.Background(), CreateEmpruntRequest{
		UtilisateurID: f.lecteur.ID,
		LivreID:       f.ouvrage.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, string(emprunt.StatutEnCours), resp.Statut)
}

// TestCreateEmprunt_SansPublisherNiCache 测试MQ与缓存未启用时借书仍然成功
func TestCreateEmprunt_SansPublisherNiCache(t *testing.T) {
	f := newCreateFixture(t)

	utilisateurRepo := newFakeUtilisateurRepo()
	require.NoError(t, utilisateurRepo.Create(context.Background(), f.lecteur))
	uc := NewCreateEmpruntUseCase(
		f.empruntRepo, utilisateurRepo, f.livreRepo, fakeTx{},
		nil, nil, 14)

	resp, err := uc.Execute(context.Background(), CreateEmpruntRequest{
		UtilisateurID: f.lecteur.ID,
		LivreID:       f.ouvrage.ID,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
}
