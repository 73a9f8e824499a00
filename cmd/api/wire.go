//go:build wireinject
// +build wireinject

package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	appemprunt "github.com/xiebiao/bibliotheque/internal/application/emprunt"
	applivre "github.com/xiebiao/bibliotheque/internal/application/livre"
	apputilisateur "github.com/xiebiao/bibliotheque/internal/application/utilisateur"
	"github.com/xiebiao/bibliotheque/internal/domain/emprunt"
	"github.com/xiebiao/bibliotheque/internal/domain/livre"
	"github.com/xiebiao/bibliotheque/internal/domain/utilisateur"
	"github.com/xiebiao/bibliotheque/internal/infrastructure/config"
	"github.com/xiebiao/bibliotheque/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bibliotheque/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bibliotheque/internal/interface/http/handler"
	"github.com/xiebiao/bibliotheque/internal/interface/http/middleware"
	"github.com/xiebiao/bibliotheque/pkg/circuitbreaker"
	"github.com/xiebiao/bibliotheque/pkg/metrics"
	"github.com/xiebiao/bibliotheque/pkg/mq"
)

// Wire Provider配置
// 与main.go的手动组装等价;修改构造函数签名后运行:
//   cd cmd/api && wire
// 生成wire_gen.go

// infrastructureSet 基础设施Provider
var infrastructureSet = wire.NewSet(
	config.Load,
	mysql.NewDB,
	redis.NewClient,
	providePublisher,
	provideCircuitBreaker,
)

// repositorySet 仓储Provider
// 仓储构造函数直接返回领域接口,无需wire.Bind;
// 缓存是具体类型,绑定到应用层的两个接口
var repositorySet = wire.NewSet(
	mysql.NewUtilisateurRepository,
	mysql.NewLivreRepository,
	mysql.NewEmpruntRepository,
	mysql.NewTxManager,
	redis.NewLivreCache,
	wire.Bind(new(appemprunt.Transactor), new(*mysql.TxManager)),
	wire.Bind(new(applivre.Cache), new(*redis.LivreCache)),
	wire.Bind(new(appemprunt.CacheInvalidator), new(*redis.LivreCache)),
)

// domainSet 领域服务Provider
var domainSet = wire.NewSet(
	utilisateur.NewService,
	livre.NewService,
)

// applicationSet 应用层Provider
var applicationSet = wire.NewSet(
	apputilisateur.NewCreateUtilisateurUseCase,
	apputilisateur.NewGetUtilisateurUseCase,
	apputilisateur.NewUpdateUtilisateurUseCase,
	apputilisateur.NewDeleteUtilisateurUseCase,
	apputilisateur.NewListUtilisateursUseCase,
	applivre.NewCreateLivreUseCase,
	applivre.NewGetLivreUseCase,
	applivre.NewUpdateLivreUseCase,
	applivre.NewDeleteLivreUseCase,
	applivre.NewListLivresUseCase,
	applivre.NewSearchLivresUseCase,
	provideCreateEmpruntUseCase,
	appemprunt.NewReturnEmpruntUseCase,
	appemprunt.NewListEmpruntsUseCase,
)

// handlerSet 接口层Provider
var handlerSet = wire.NewSet(
	handler.NewUtilisateurHandler,
	handler.NewLivreHandler,
	handler.NewEmpruntHandler,
)

// providePublisher 按配置决定是否连接RabbitMQ
// 未启用时返回nil接口,用例侧对nil发布者静默跳过
func providePublisher(cfg *config.Config) (appemprunt.EventPublisher, error) {
	if !cfg.MQ.Enabled {
		return nil, nil
	}
	return mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
}

// provideCircuitBreaker 图书缓存读取的熔断器
func provideCircuitBreaker() *circuitbreaker.CircuitBreaker {
	cb := circuitbreaker.NewCircuitBreaker("livre-cache", circuitbreaker.Config{
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	cb.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		log.Printf("熔断器状态变化: %s %s → %s", name, from, to)
		metrics.SetGaugeVec(metrics.CircuitBreakerState,
			map[string]string{"name": name}, float64(to))
	})
	return cb
}

// provideCreateEmpruntUseCase 借书用例需要配置中的默认借期,Wire无法直接注入裸int
func provideCreateEmpruntUseCase(
	empruntRepo emprunt.Repository,
	utilisateurRepo utilisateur.Repository,
	livreRepo livre.Repository,
	txManager appemprunt.Transactor,
	publisher appemprunt.EventPublisher,
	cache appemprunt.CacheInvalidator,
	cfg *config.Config,
) *appemprunt.CreateEmpruntUseCase {
	return appemprunt.NewCreateEmpruntUseCase(
		empruntRepo, utilisateurRepo, livreRepo, txManager,
		publisher, cache, cfg.Emprunt.DureeDefautJours)
}

// provideGinEngine 创建Gin引擎并注册路由
func provideGinEngine(
	cfg *config.Config,
	utilisateurHandler *handler.UtilisateurHandler,
	livreHandler *handler.LivreHandler,
	empruntHandler *handler.EmpruntHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS())

	registerRoutes(r, utilisateurHandler, livreHandler, empruntHandler)
	return r
}

// InitializeApp Wire注入入口
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		handlerSet,
		provideGinEngine,
	)
	return nil, nil
}
