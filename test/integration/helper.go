package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 集成测试辅助工具
// 需要完整环境(MySQL + Redis + 服务本体)跑在本机:
//
//	go run ./cmd/api
//	go test ./test/integration/...
//
// 服务不在线时测试整体跳过,不算失败

const (
	// BaseURL API基础URL
	BaseURL = "http://localhost:8080/api/v1"
	// PingURL 健康检查URL
	PingURL = "http://localhost:8080/ping"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// UtilisateurData 读者响应数据
type UtilisateurData struct {
	ID              string `json:"id"`
	Nom             string `json:"nom"`
	Prenom          string `json:"prenom"`
	Email           string `json:"email"`
	DateInscription string `json:"date_inscription"`
	Actif           bool   `json:"actif"`
}

// LivreData 图书响应数据
type LivreData struct {
	ID                string `json:"id"`
	Titre             string `json:"titre"`
	Auteur            string `json:"auteur"`
	ISBN              string `json:"isbn"`
	AnneePublication  int    `json:"annee_publication"`
	Genre             string `json:"genre"`
	NombreExemplaires int    `json:"nombre_exemplaires"`
	Disponible        bool   `json:"disponible"`
}

// EmpruntData 借阅响应数据
type EmpruntData struct {
	ID                 string  `json:"id"`
	UtilisateurID      string  `json:"utilisateur_id"`
	LivreID            string  `json:"livre_id"`
	DateEmprunt        string  `json:"date_emprunt"`
	DateRetourPrevu    string  `json:"date_retour_prevu"`
	DateRetourEffectif *string `json:"date_retour_effectif"`
	Statut             string  `json:"statut"`
}

// RequireServer 检查服务是否在线,不在线则跳过测试
func RequireServer(t *testing.T) {
	t.Helper()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(PingURL)
	if err != nil {
		t.Skipf("服务未启动(%v),跳过集成测试", err)
	}
	resp.Body.Close()
}

// doJSON 发送请求并解析统一响应
func doJSON(t *testing.T, method, url string, data interface{}) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(raw, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(raw))

	return &result
}

// PostJSON 发送POST请求
func PostJSON(t *testing.T, url string, data interface{}) *Response {
	return doJSON(t, http.MethodPost, url, data)
}

// GetJSON 发送GET请求
func GetJSON(t *testing.T, url string) *Response {
	return doJSON(t, http.MethodGet, url, nil)
}

// PutJSON 发送PUT请求
func PutJSON(t *testing.T, url string, data interface{}) *Response {
	return doJSON(t, http.MethodPut, url, data)
}

// DeleteJSON 发送DELETE请求
func DeleteJSON(t *testing.T, url string) *Response {
	return doJSON(t, http.MethodDelete, url, nil)
}

// GenerateTestEmail 生成唯一的测试邮箱(时间戳保证重复运行不冲突)
func GenerateTestEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@test.fr", prefix, time.Now().UnixNano())
}

// GenerateTestISBN 生成唯一的测试ISBN(978 + 时间戳后10位)
func GenerateTestISBN() string {
	timestamp := time.Now().UnixNano()
	return fmt.Sprintf("978%010d", timestamp%10000000000)
}

// CreateTestUtilisateur 注册测试读者并返回数据
func CreateTestUtilisateur(t *testing.T, prefix string) *UtilisateurData {
	t.Helper()

	resp := PostJSON(t, BaseURL+"/utilisateurs", map[string]string{
		"nom":    "Testeur",
		"prenom": prefix,
		"email":  GenerateTestEmail(prefix),
	})
	require.Equal(t, 0, resp.Code, "注册读者失败: %s", resp.Message)

	var data UtilisateurData
	require.NoError(t, json.Unmarshal(resp.Data, &data), "解析读者响应失败")
	return &data
}

// CreateTestLivre 入藏测试图书并返回数据
func CreateTestLivre(t *testing.T, titre string, exemplaires int) *LivreData {
	t.Helper()

	resp := PostJSON(t, BaseURL+"/livres", map[string]interface{}{
		"titre":              titre,
		"auteur":             "Auteur de test",
		"isbn":               GenerateTestISBN(),
		"annee_publication":  2020,
		"genre":              "Test",
		"nombre_exemplaires": exemplaires,
	})
	require.Equal(t, 0, resp.Code, "图书入藏失败: %s", resp.Message)

	var data LivreData
	require.NoError(t, json.Unmarshal(resp.Data, &data), "解析图书响应失败")
	return &data
}

// CreateTestEmprunt 创建测试借阅并返回数据
func CreateTestEmprunt(t *testing.T, utilisateurID, livreID string) *EmpruntData {
	t.Helper()

	resp := PostJSON(t, BaseURL+"/emprunts", map[string]interface{}{
		"utilisateur_id": utilisateurID,
		"livre_id":       livreID,
	})
	require.Equal(t, 0, resp.Code, "创建借阅失败: %s", resp.Message)

	var data EmpruntData
	require.NoError(t, json.Unmarshal(resp.Data, &data), "解析借阅响应失败")
	return &data
}
