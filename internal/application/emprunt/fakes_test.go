package emprunt

import (
	"context"
	"time"

	"github.com/xiebiao/bibliotheque/internal/domain/emprunt"
	"github.com/xiebiao/bibliotheque/internal/domain/livre"
	"github.com/xiebiao/bibliotheque/internal/domain/utilisateur"
)

// 内存版仓储与协作者,实现domain接口,供用例测试使用
// 事务语义简化为直接执行fn:用例的正确性断言不依赖回滚,
// 回滚行为由集成测试覆盖

// fakeTx 直通事务管理器
type fakeTx struct{}

func (fakeTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// hookTx 在事务开启前执行钩子的事务管理器
// 模拟请求到达与事务开启之间,并发请求已抢先提交的时序
type hookTx struct {
	avant func()
}

func (t hookTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if t.avant != nil {
		t.avant()
	}
	return fn(ctx)
}

// fakeUtilisateurRepo 读者仓储
type fakeUtilisateurRepo struct {
	parID     map[string]*utilisateur.Utilisateur
	lockCalls int
}

func newFakeUtilisateurRepo() *fakeUtilisateurRepo {
	return &fakeUtilisateurRepo{parID: make(map[string]*utilisateur.Utilisateur)}
}

func (r *fakeUtilisateurRepo) Create(ctx context.Context, u *utilisateur.Utilisateur) error {
	r.parID[u.ID] = u
	return nil
}

func (r *fakeUtilisateurRepo) FindByID(ctx context.Context, id string) (*utilisateur.Utilisateur, error) {
	u, ok := r.parID[id]
	if !ok {
		return nil, utilisateur.ErrUtilisateurNotFound
	}
	return u, nil
}

func (r *fakeUtilisateurRepo) LockByID(ctx context.Context, id string) (*utilisateur.Utilisateur, error) {
	r.lockCalls++
	return r.FindByID(ctx, id)
}

func (r *fakeUtilisateurRepo) FindByEmail(ctx context.Context, email string) (*utilisateur.Utilisateur, error) {
	for _, u := range r.parID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, utilisateur.ErrUtilisateurNotFound
}

func (r *fakeUtilisateurRepo) Update(ctx context.Context, u *utilisateur.Utilisateur) error {
	r.parID[u.ID] = u
	return nil
}

func (r *fakeUtilisateurRepo) Delete(ctx context.Context, id string) error {
	delete(r.parID, id)
	return nil
}

func (r *fakeUtilisateurRepo) List(ctx context.Context) ([]*utilisateur.Utilisateur, error) {
	result := make([]*utilisateur.Utilisateur, 0, len(r.parID))
	for _, u := range r.parID {
		result = append(result, u)
	}
	return result, nil
}

// fakeLivreRepo 图书仓储
type fakeLivreRepo struct {
	parID map[string]*livre.Livre
}

func newFakeLivreRepo() *fakeLivreRepo {
	return &fakeLivreRepo{parID: make(map[string]*livre.Livre)}
}

func (r *fakeLivreRepo) Create(ctx context.Context, l *livre.Livre) error {
	r.parID[l.ID] = l
	return nil
}

func (r *fakeLivreRepo) FindByID(ctx context.Context, id string) (*livre.Livre, error) {
	l, ok := r.parID[id]
	if !ok {
		return nil, livre.ErrLivreNotFound
	}
	return l, nil
}

func (r *fakeLivreRepo) FindByISBN(ctx context.Context, isbn string) (*livre.Livre, error) {
	for _, l := range r.parID {
		if l.ISBN == isbn {
			return l, nil
		}
	}
	return nil, livre.ErrLivreNotFound
}

func (r *fakeLivreRepo) Update(ctx context.Context, l *livre.Livre) error {
	r.parID[l.ID] = l
	return nil
}

func (r *fakeLivreRepo) Delete(ctx context.Context, id string) error {
	delete(r.parID, id)
	return nil
}

func (r *fakeLivreRepo) List(ctx context.Context) ([]*livre.Livre, error) {
	result := make([]*livre.Livre, 0, len(r.parID))
	for _, l := range r.parID {
		result = append(result, l)
	}
	return result, nil
}

func (r *fakeLivreRepo) ListDisponibles(ctx context.Context) ([]*livre.Livre, error) {
	result := make([]*livre.Livre, 0)
	for _, l := range r.parID {
		if l.Disponible {
			result = append(result, l)
		}
	}
	return result, nil
}

func (r *fakeLivreRepo) Search(ctx context.Context, query string) ([]*livre.Livre, error) {
	return r.List(ctx)
}

func (r *fakeLivreRepo) LockByID(ctx context.Context, id string) (*livre.Livre, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeLivreRepo) UpdateExemplaires(ctx context.Context, id string, delta int) error {
	l, ok := r.parID[id]
	if !ok {
		return livre.ErrLivreNotFound
	}
	if l.NombreExemplaires+delta < 0 {
		return livre.ErrLivreIndisponible
	}
	l.NombreExemplaires += delta
	l.Disponible = l.NombreExemplaires > 0
	return nil
}

// fakeEmpruntRepo 借阅仓储
type fakeEmpruntRepo struct {
	parID map[string]*emprunt.Emprunt
}

func newFakeEmpruntRepo() *fakeEmpruntRepo {
	return &fakeEmpruntRepo{parID: make(map[string]*emprunt.Emprunt)}
}

func (r *fakeEmpruntRepo) Create(ctx context.Context, e *emprunt.Emprunt) error {
	r.parID[e.ID] = e
	return nil
}

func (r *fakeEmpruntRepo) FindByID(ctx context.Context, id string) (*emprunt.Emprunt, error) {
	e, ok := r.parID[id]
	if !ok {
		return nil, emprunt.ErrEmpruntNotFound
	}
	return e, nil
}

func (r *fakeEmpruntRepo) LockByID(ctx context.Context, id string) (*emprunt.Emprunt, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeEmpruntRepo) MarquerEnRetard(ctx context.Context, id string) (bool, error) {
	// 与MySQL实现一致:只有当前仍为EN_COURS的记录才会被转换
	e, ok := r.parID[id]
	if !ok || e.Statut != emprunt.StatutEnCours {
		return false, nil
	}
	e.Statut = emprunt.StatutEnRetard
	return true, nil
}

func (r *fakeEmpruntRepo) Update(ctx context.Context, e *emprunt.Emprunt) error {
	if _, ok := r.parID[e.ID]; !ok {
		return emprunt.ErrEmpruntNotFound
	}
	r.parID[e.ID] = e
	return nil
}

func (r *fakeEmpruntRepo) FindActifParUtilisateur(ctx context.Context, utilisateurID string) (*emprunt.Emprunt, error) {
	for _, e := range r.parID {
		if e.UtilisateurID == utilisateurID && e.EstActif() {
			return e, nil
		}
	}
	return nil, emprunt.ErrEmpruntNotFound
}

func (r *fakeEmpruntRepo) CountActifsParUtilisateur(ctx context.Context, utilisateurID string) (int64, error) {
	var count int64
	for _, e := range r.parID {
		if e.UtilisateurID == utilisateurID && e.EstActif() {
			count++
		}
	}
	return count, nil
}

func (r *fakeEmpruntRepo) CountActifsParLivre(ctx context.Context, livreID string) (int64, error) {
	var count int64
	for _, e := range r.parID {
		if e.LivreID == livreID && e.EstActif() {
			count++
		}
	}
	return count, nil
}

func (r *fakeEmpruntRepo) ListEnCoursEchus(ctx context.Context, avant time.Time) ([]*emprunt.Emprunt, error) {
	result := make([]*emprunt.Emprunt, 0)
	for _, e := range r.parID {
		if e.EstEchu(avant) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *fakeEmpruntRepo) ListEnCours(ctx context.Context) ([]*emprunt.EmpruntAvecDetails, error) {
	return r.listParStatut(emprunt.StatutEnCours), nil
}

func (r *fakeEmpruntRepo) ListEnRetard(ctx context.Context) ([]*emprunt.EmpruntAvecDetails, error) {
	return r.listParStatut(emprunt.StatutEnRetard), nil
}

func (r *fakeEmpruntRepo) ListHistorique(ctx context.Context) ([]*emprunt.EmpruntAvecDetails, error) {
	return r.listParStatut(emprunt.StatutRetourne), nil
}

func (r *fakeEmpruntRepo) ListParUtilisateur(ctx context.Context, utilisateurID string) ([]*emprunt.EmpruntAvecDetails, error) {
	result := make([]*emprunt.EmpruntAvecDetails, 0)
	for _, e := range r.parID {
		if e.UtilisateurID == utilisateurID {
			result = append(result, &emprunt.EmpruntAvecDetails{Emprunt: *e})
		}
	}
	return result, nil
}

func (r *fakeEmpruntRepo) listParStatut(statut emprunt.Statut) []*emprunt.EmpruntAvecDetails {
	result := make([]*emprunt.EmpruntAvecDetails, 0)
	for _, e := range r.parID {
		if e.Statut == statut {
			result = append(result, &emprunt.EmpruntAvecDetails{Emprunt: *e})
		}
	}
	return result
}

// fakePublisher 记录发布的事件
type fakePublisher struct {
	events []publishedEvent
}

type publishedEvent struct {
	routingKey string
	message    interface{}
}

func (p *fakePublisher) Publish(routingKey string, message interface{}) error {
	p.events = append(p.events, publishedEvent{routingKey: routingKey, message: message})
	return nil
}

// fakeCache 记录失效的图书ID
type fakeCache struct {
	invalidated []string
}

func (c *fakeCache) InvalidateLivre(ctx context.Context, id string) error {
	c.invalidated = append(c.invalidated, id)
	return nil
}
