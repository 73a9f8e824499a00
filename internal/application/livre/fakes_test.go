package livre

import (
	"context"
	"strings"

	"github.com/xiebiao/bibliotheque/internal/domain/emprunt"
	"github.com/xiebiao/bibliotheque/internal/domain/livre"
)

// fakeLivreRepo 内存图书仓储(测试用)
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
	if _, ok := r.parID[id]; !ok {
		return livre.ErrLivreNotFound
	}
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
	q := strings.ToLower(query)
	result := make([]*livre.Livre, 0)
	for _, l := range r.parID {
		if strings.Contains(strings.ToLower(l.Titre), q) ||
			strings.Contains(strings.ToLower(l.Auteur), q) ||
			strings.Contains(strings.ToLower(l.Genre), q) {
			result = append(result, l)
		}
	}
	return result, nil
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

// stubEmpruntRepo 只实现活跃借阅计数的借阅仓储桩
// 其余方法走内嵌的nil接口,误调用会panic(测试里不应该触达)
type stubEmpruntRepo struct {
	emprunt.Repository
	actifsParLivre int64
}

func (s *stubEmpruntRepo) CountActifsParLivre(ctx context.Context, livreID string) (int64, error) {
	return s.actifsParLivre, nil
}

// fakeLivreCache 内存缓存(测试用)
// getErr非nil时所有读写操作失败,模拟Redis故障
type fakeLivreCache struct {
	livres      map[string]*livre.Livre
	recherches  map[string][]*livre.Livre
	invalidated []string
	getErr      error
	getCalls    int
}

func newFakeLivreCache() *fakeLivreCache {
	return &fakeLivreCache{
		livres:     make(map[string]*livre.Livre),
		recherches: make(map[string][]*livre.Livre),
	}
}

func (c *fakeLivreCache) GetLivre(ctx context.Context, id string) (*livre.Livre, error) {
	c.getCalls++
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.livres[id], nil
}

func (c *fakeLivreCache) SetLivre(ctx context.Context, l *livre.Livre) error {
	if c.getErr != nil {
		return c.getErr
	}
	c.livres[l.ID] = l
	return nil
}

func (c *fakeLivreCache) InvalidateLivre(ctx context.Context, id string) error {
	delete(c.livres, id)
	c.recherches = make(map[string][]*livre.Livre)
	c.invalidated = append(c.invalidated, id)
	return nil
}

func (c *fakeLivreCache) GetRecherche(ctx context.Context, query string) ([]*livre.Livre, error) {
	c.getCalls++
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.recherches[query], nil
}

func (c *fakeLivreCache) SetRecherche(ctx context.Context, query string, livres []*livre.Livre) error {
	if c.getErr != nil {
		return c.getErr
	}
	c.recherches[query] = livres
	return nil
}
