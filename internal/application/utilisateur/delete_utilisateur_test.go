package utilisateur

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bibliotheque/internal/domain/emprunt"
	"github.com/xiebiao/bibliotheque/internal/domain/utilisateur"
)

// fakeUtilisateurRepo 内存读者仓储(测试用)
type fakeUtilisateurRepo struct {
	parID map[string]*utilisateur.Utilisateur
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
	if _, ok := r.parID[id]; !ok {
		return utilisateur.ErrUtilisateurNotFound
	}
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

// stubEmpruntRepo 只实现活跃借阅计数的借阅仓储桩
type stubEmpruntRepo struct {
	emprunt.Repository
	actifs int64
}

func (s *stubEmpruntRepo) CountActifsParUtilisateur(ctx context.Context, utilisateurID string) (int64, error) {
	return s.actifs, nil
}

// TestDeleteUtilisateur 测试读者删除
func TestDeleteUtilisateur(t *testing.T) {
	ctx := context.Background()

	t.Run("无活跃借阅可以删除", func(t *testing.T) {
		repo := newFakeUtilisateurRepo()
		uc := NewDeleteUtilisateurUseCase(repo, &stubEmpruntRepo{actifs: 0})

		u := utilisateur.NewUtilisateur("Dupont", "Marie", "marie@example.fr")
		require.NoError(t, repo.Create(ctx, u))

		err := uc.Execute(ctx, u.ID)

		require.NoError(t, err)
		_, err = repo.FindByID(ctx, u.ID)
		assert.Equal(t, utilisateur.ErrUtilisateurNotFound, err)
	})

	t.Run("有活跃借阅拒绝删除", func(t *testing.T) {
		repo := newFakeUtilisateurRepo()
		uc := NewDeleteUtilisateurUseCase(repo, &stubEmpruntRepo{actifs: 1})

		u := utilisateur.NewUtilisateur("Dupont", "Marie", "marie@example.fr")
		require.NoError(t, repo.Create(ctx, u))

		err := uc.Execute(ctx, u.ID)

		assert.Equal(t, utilisateur.ErrEmpruntsEnCours, err)
		_, err = repo.FindByID(ctx, u.ID)
		assert.NoError(t, err, "拒绝删除时读者保留")
	})

	t.Run("读者不存在", func(t *testing.T) {
		uc := NewDeleteUtilisateurUseCase(newFakeUtilisateurRepo(), &stubEmpruntRepo{})

		err := uc.Execute(ctx, "inexistant")

		assert.Equal(t, utilisateur.ErrUtilisateurNotFound, err)
	})
}
