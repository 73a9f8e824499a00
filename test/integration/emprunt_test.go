package integration

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// EmpruntDetailData 带读者和图书信息的借阅响应
type EmpruntDetailData struct {
	EmpruntData
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

// TestEmpruntLifecycle 测试完整借还周期:
// 借书 → 重复借书被拒 → 还书 → 重复还书被拒 → 再次借书成功
func TestEmpruntLifecycle(t *testing.T) {
	RequireServer(t)

	u := CreateTestUtilisateur(t, "cycle")
	l := CreateTestLivre(t, "Le Petit Prince", 2)

	// 借书成功,副本数减一
	empr := CreateTestEmprunt(t, u.ID, l.ID)
	assert.Equal(t, u.ID, empr.UtilisateurID)
	assert.Equal(t, l.ID, empr.LivreID)
	assert.Equal(t, "EN_COURS", empr.Statut)
	assert.Nil(t, empr.DateRetourEffectif)

	resp := GetJSON(t, BaseURL+"/livres/"+l.ID)
	require.Equal(t, 0, resp.Code)
	var livre LivreData
	require.NoError(t, json.Unmarshal(resp.Data, &livre))
	assert.Equal(t, 1, livre.NombreExemplaires, "借书后副本数应该减一")

	// 同一读者重复借书被拒(哪怕是另一本书)
	autre := CreateTestLivre(t, "Livre secondaire", 1)
	resp = PostJSON(t, BaseURL+"/emprunts", map[string]interface{}{
		"utilisateur_id": u.ID,
		"livre_id":       autre.ID,
	})
	assert.Equal(t, 40003, resp.Code, "已有活跃借阅的读者不能再借")

	// 还书成功,副本数恢复
	resp = PostJSON(t, BaseURL+"/emprunts/"+empr.ID+"/retour", nil)
	require.Equal(t, 0, resp.Code, "还书应该成功: %s", resp.Message)

	var retourne EmpruntData
	require.NoError(t, json.Unmarshal(resp.Data, &retourne))
	assert.Equal(t, "RETOURNE", retourne.Statut)
	assert.NotNil(t, retourne.DateRetourEffectif, "归还后应该记录实际归还时间")

	resp = GetJSON(t, BaseURL+"/livres/"+l.ID)
	require.Equal(t, 0, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Data, &livre))
	assert.Equal(t, 2, livre.NombreExemplaires, "还书后副本数应该恢复")

	// 重复还书被拒
	resp = PostJSON(t, BaseURL+"/emprunts/"+empr.ID+"/retour", nil)
	assert.Equal(t, 40004, resp.Code, "已归还的借阅不能再次归还")

	// 归还后读者可以再次借书
	resp = PostJSON(t, BaseURL+"/emprunts", map[string]interface{}{
		"utilisateur_id": u.ID,
		"livre_id":       l.ID,
	})
	assert.Equal(t, 0, resp.Code, "归还后应该可以再次借书: %s", resp.Message)
}

// TestEmpruntRegleMetier 测试借书业务规则
func TestEmpruntRegleMetier(t *testing.T) {
	RequireServer(t)

	t.Run("零副本图书不可借", func(t *testing.T) {
		u := CreateTestUtilisateur(t, "sans_stock")
		l := CreateTestLivre(t, "Livre sans exemplaire", 0)

		resp := PostJSON(t, BaseURL+"/emprunts", map[string]interface{}{
			"utilisateur_id": u.ID,
			"livre_id":       l.ID,
		})
		assert.Equal(t, 40001, resp.Code)
	})

	t.Run("停用账号不可借书", func(t *testing.T) {
		u := CreateTestUtilisateur(t, "inactif")
		l := CreateTestLivre(t, "Livre refusé aux inactifs", 1)

		inactif := false
		resp := PutJSON(t, BaseURL+"/utilisateurs/"+u.ID, map[string]interface{}{
			"actif": &inactif,
		})
		require.Equal(t, 0, resp.Code, "停用账号失败: %s", resp.Message)

		resp = PostJSON(t, BaseURL+"/emprunts", map[string]interface{}{
			"utilisateur_id": u.ID,
			"livre_id":       l.ID,
		})
		assert.Equal(t, 40002, resp.Code)
	})

	t.Run("读者不存在", func(t *testing.T) {
		l := CreateTestLivre(t, "Livre orphelin", 1)

		resp := PostJSON(t, BaseURL+"/emprunts", map[string]interface{}{
			"utilisateur_id": "00000000-0000-0000-0000-000000000000",
			"livre_id":       l.ID,
		})
		assert.Equal(t, 40401, resp.Code)
	})

	t.Run("图书不存在", func(t *testing.T) {
		u := CreateTestUtilisateur(t, "sans_livre")

		resp := PostJSON(t, BaseURL+"/emprunts", map[string]interface{}{
			"utilisateur_id": u.ID,
			"livre_id":       "00000000-0000-0000-0000-000000000000",
		})
		assert.Equal(t, 40402, resp.Code)
	})

	t.Run("归还不存在的借阅", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/emprunts/00000000-0000-0000-0000-000000000000/retour", nil)
		assert.Equal(t, 40400, resp.Code, "不存在的借阅记录返回404空响应")
	})

	t.Run("自定义借期", func(t *testing.T) {
		u := CreateTestUtilisateur(t, "longue_duree")
		l := CreateTestLivre(t, "Livre en prêt long", 1)

		resp := PostJSON(t, BaseURL+"/emprunts", map[string]interface{}{
			"utilisateur_id": u.ID,
			"livre_id":       l.ID,
			"duree_jours":    30,
		})
		require.Equal(t, 0, resp.Code, "自定义借期借书失败: %s", resp.Message)

		var data EmpruntData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.NotEqual(t, data.DateEmprunt, data.DateRetourPrevu)
	})
}

// TestEmpruntListes 测试借阅列表查询
func TestEmpruntListes(t *testing.T) {
	RequireServer(t)

	u := CreateTestUtilisateur(t, "listes")
	l := CreateTestLivre(t, "Livre suivi en liste", 1)
	empr := CreateTestEmprunt(t, u.ID, l.ID)

	t.Run("进行中列表包含新借阅", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/emprunts/en-cours")
		require.Equal(t, 0, resp.Code)

		var list []EmpruntDetailData
		require.NoError(t, json.Unmarshal(resp.Data, &list))

		found := false
		for _, e := range list {
			if e.ID == empr.ID {
				found = true
				assert.Equal(t, u.Email, e.Utilisateur.Email, "详情应该带读者信息")
				assert.Equal(t, l.ISBN, e.Livre.ISBN, "详情应该带图书信息")
			}
		}
		assert.True(t, found, "进行中列表应该包含刚创建的借阅")
	})

	t.Run("读者借阅列表", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/utilisateurs/"+u.ID+"/emprunts")
		require.Equal(t, 0, resp.Code)

		var list []EmpruntDetailData
		require.NoError(t, json.Unmarshal(resp.Data, &list))
		require.Len(t, list, 1)
		assert.Equal(t, empr.ID, list[0].ID)
	})

	t.Run("不存在读者的借阅列表", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/utilisateurs/00000000-0000-0000-0000-000000000000/emprunts")
		assert.Equal(t, 40401, resp.Code)
	})

	t.Run("逾期列表查询", func(t *testing.T) {
		// 无法在集成环境里直接构造过去的到期日,
		// 只验证逾期接口可用且新借阅不在其中
		resp := GetJSON(t, BaseURL+"/emprunts/en-retard")
		require.Equal(t, 0, resp.Code)

		var list []EmpruntDetailData
		require.NoError(t, json.Unmarshal(resp.Data, &list))
		for _, e := range list {
			assert.Equal(t, "EN_RETARD", e.Statut, "逾期列表只应该包含EN_RETARD状态")
			assert.NotEqual(t, empr.ID, e.ID, "未到期的借阅不应该出现在逾期列表")
		}
	})

	t.Run("历史列表只含已归还借阅", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/emprunts/"+empr.ID+"/retour", nil)
		require.Equal(t, 0, resp.Code, "还书失败: %s", resp.Message)

		resp = GetJSON(t, BaseURL+"/emprunts/historique")
		require.Equal(t, 0, resp.Code)

		var list []EmpruntDetailData
		require.NoError(t, json.Unmarshal(resp.Data, &list))

		found := false
		for _, e := range list {
			assert.Equal(t, "RETOURNE", e.Statut, "历史列表只应该包含已归还的借阅")
			assert.NotNil(t, e.DateRetourEffectif)
			if e.ID == empr.ID {
				found = true
			}
		}
		assert.True(t, found, "历史列表应该包含刚归还的借阅")
	})
}
