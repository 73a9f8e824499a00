// 借阅事件通知Worker
//
// 订阅 emprunt.* 全部借阅事件,把通知内容打到日志。
// 真实部署时把notify()换成邮件/SMS网关调用即可,消费骨架不变。
// API服务未启用MQ(mq.enabled=false)时本进程没有事件可消费。
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/xiebiao/bibliotheque/internal/infrastructure/config"
	"github.com/xiebiao/bibliotheque/pkg/mq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if !cfg.MQ.Enabled {
		log.Fatal("MQ未启用(mq.enabled=false),通知Worker无法启动")
	}

	consumer, err := mq.NewConsumer(
		cfg.MQ.URL,
		cfg.MQ.Exchange,
		"topic",
		"bibliotheque.notifications",
		[]string{"emprunt.*"},
	)
	if err != nil {
		log.Fatalf("创建消费者失败: %v", err)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := consumer.Consume(ctx, handleEmpruntEvent); err != nil {
		log.Fatalf("消费异常退出: %v", err)
	}
}

// handleEmpruntEvent 解析借阅事件并发送通知
func handleEmpruntEvent(body []byte) error {
	var event mq.EmpruntEvent
	if err := json.Unmarshal(body, &event); err != nil {
		// 载荷损坏的消息重新入队也救不回来,记录后丢弃
		log.Printf("事件载荷解析失败,丢弃: %v, body=%s", err, string(body))
		return nil
	}

	switch event.Statut {
	case "EN_COURS":
		notify(event.UtilisateurID, fmt.Sprintf(
			"Votre emprunt %s est enregistré, retour prévu le %s.",
			event.EmpruntID, event.DateRetourPrevu.Format("02/01/2006")))
	case "RETOURNE":
		notify(event.UtilisateurID, fmt.Sprintf(
			"Votre emprunt %s est bien rendu, merci.", event.EmpruntID))
	case "EN_RETARD":
		notify(event.UtilisateurID, fmt.Sprintf(
			"Votre emprunt %s est en retard depuis le %s, merci de rapporter le livre.",
			event.EmpruntID, event.DateRetourPrevu.Format("02/01/2006")))
	default:
		log.Printf("事件状态未知,忽略: statut=%s, emprunt=%s", event.Statut, event.EmpruntID)
	}

	return nil
}

// notify 发送通知(目前只落日志)
func notify(utilisateurID, message string) {
	log.Printf("通知读者 %s: %s", utilisateurID, message)
}
