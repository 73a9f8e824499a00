package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	appemprunt "github.com/xiebiao/bibliotheque/internal/application/emprunt"
	applivre "github.com/xiebiao/bibliotheque/internal/application/livre"
	apputilisateur "github.com/xiebiao/bibliotheque/internal/application/utilisateur"
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
	"github.com/xiebiao/bibliotheque/pkg/response"
)

// main 主程序入口
// 依赖注入链:Repository ← Service ← UseCase ← Handler
// (wire.go中有等价的Wire Provider配置,手动组装便于阅读)
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())
	fmt.Printf("  - 默认借期: %d天\n", cfg.Emprunt.DureeDefautJours)

	// 2. 初始化Prometheus指标
	metrics.InitMetrics()

	// 3. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 4. 初始化Redis连接
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 5. 初始化消息发布者(可选,未启用时事件静默丢弃)
	var publisher *mq.Publisher
	if cfg.MQ.Enabled {
		publisher, err = mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
		if err != nil {
			log.Fatalf("初始化RabbitMQ失败: %v", err)
		}
	}
	// 接口变量单独赋值,避免typed-nil陷阱
	var eventPublisher appemprunt.EventPublisher
	if publisher != nil {
		eventPublisher = publisher
	}

	// 6. 依赖注入(手动组装)

	// 基础设施层
	utilisateurRepo := mysql.NewUtilisateurRepository(db)
	livreRepo := mysql.NewLivreRepository(db)
	empruntRepo := mysql.NewEmpruntRepository(db)
	txManager := mysql.NewTxManager(db)
	livreCache := redis.NewLivreCache(redisClient)

	// 缓存读取的熔断器:连续5次失败打开,30秒后半开探测
	cacheCB := circuitbreaker.NewCircuitBreaker("livre-cache", circuitbreaker.Config{
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	cacheCB.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		log.Printf("熔断器状态变化: %s %s → %s", name, from, to)
		metrics.SetGaugeVec(metrics.CircuitBreakerState,
			map[string]string{"name": name}, float64(to))
	})

	// 领域层
	utilisateurService := utilisateur.NewService(utilisateurRepo)
	livreService := livre.NewService(livreRepo)

	// 应用层:读者
	createUtilisateurUC := apputilisateur.NewCreateUtilisateurUseCase(utilisateurService)
	getUtilisateurUC := apputilisateur.NewGetUtilisateurUseCase(utilisateurService)
	updateUtilisateurUC := apputilisateur.NewUpdateUtilisateurUseCase(utilisateurService)
	deleteUtilisateurUC := apputilisateur.NewDeleteUtilisateurUseCase(utilisateurRepo, empruntRepo)
	listUtilisateursUC := apputilisateur.NewListUtilisateursUseCase(utilisateurService)

	// 应用层:图书
	createLivreUC := applivre.NewCreateLivreUseCase(livreService)
	getLivreUC := applivre.NewGetLivreUseCase(livreService, livreCache, cacheCB)
	updateLivreUC := applivre.NewUpdateLivreUseCase(livreService, livreCache)
	deleteLivreUC := applivre.NewDeleteLivreUseCase(livreRepo, empruntRepo, livreCache)
	listLivresUC := applivre.NewListLivresUseCase(livreService)
	searchLivresUC := applivre.NewSearchLivresUseCase(livreService, livreCache, cacheCB)

	// 应用层:借阅
	createEmpruntUC := appemprunt.NewCreateEmpruntUseCase(
		empruntRepo, utilisateurRepo, livreRepo, txManager,
		eventPublisher, livreCache, cfg.Emprunt.DureeDefautJours)
	returnEmpruntUC := appemprunt.NewReturnEmpruntUseCase(
		empruntRepo, livreRepo, txManager, eventPublisher, livreCache)
	listEmpruntsUC := appemprunt.NewListEmpruntsUseCase(empruntRepo, utilisateurRepo, eventPublisher)

	// 接口层
	utilisateurHandler := handler.NewUtilisateurHandler(
		createUtilisateurUC, getUtilisateurUC, updateUtilisateurUC,
		deleteUtilisateurUC, listUtilisateursUC)
	livreHandler := handler.NewLivreHandler(
		createLivreUC, getLivreUC, updateLivreUC,
		deleteLivreUC, listLivresUC, searchLivresUC)
	empruntHandler := handler.NewEmpruntHandler(createEmpruntUC, returnEmpruntUC, listEmpruntsUC)

	// 7. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS())

	registerRoutes(r, utilisateurHandler, livreHandler, empruntHandler)

	// 8. 启动服务(graceful shutdown)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		fmt.Printf("\n服务启动成功\n")
		fmt.Printf("   访问地址: http://localhost%s\n", addr)
		fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
		fmt.Printf("   API文档:  http://localhost%s/swagger/index.html\n", addr)
		fmt.Printf("   指标:     http://localhost%s/metrics\n", addr)
		fmt.Printf("\n按Ctrl+C停止服务\n\n")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("启动服务失败: %v", err)
		}
	}()

	// 等待退出信号
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	fmt.Println("收到退出信号,开始优雅关闭...")

	// 先停HTTP(最多等10秒让在途请求完成),再关闭下游连接
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP关闭异常: %v", err)
	}

	if publisher != nil {
		publisher.Close()
	}
	redisClient.Close()
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	fmt.Println("服务已退出")
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	utilisateurHandler *handler.UtilisateurHandler,
	livreHandler *handler.LivreHandler,
	empruntHandler *handler.EmpruntHandler,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档(访问 /swagger/index.html)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API路由组
	v1 := r.Group("/api/v1")
	{
		// 读者模块
		utilisateurs := v1.Group("/utilisateurs")
		{
			utilisateurs.POST("", utilisateurHandler.Create)
			utilisateurs.GET("", utilisateurHandler.List)
			utilisateurs.GET("/email/:email", utilisateurHandler.GetByEmail)
			utilisateurs.GET("/:id", utilisateurHandler.Get)
			utilisateurs.PUT("/:id", utilisateurHandler.Update)
			utilisateurs.DELETE("/:id", utilisateurHandler.Delete)
			utilisateurs.GET("/:id/emprunts", empruntHandler.ParUtilisateur)
		}

		// 图书模块
		// 注意:固定路径(/recherche、/disponibles)必须在/:id之前注册
		livres := v1.Group("/livres")
		{
			livres.POST("", livreHandler.Create)
			livres.GET("", livreHandler.List)
			livres.GET("/recherche", livreHandler.Recherche)
			livres.GET("/disponibles", livreHandler.Disponibles)
			livres.GET("/isbn/:isbn", livreHandler.GetByISBN)
			livres.GET("/:id", livreHandler.Get)
			livres.PUT("/:id", livreHandler.Update)
			livres.DELETE("/:id", livreHandler.Delete)
		}

		// 借阅模块
		emprunts := v1.Group("/emprunts")
		{
			emprunts.POST("", empruntHandler.Create)
			emprunts.POST("/:id/retour", empruntHandler.Retourner)
			emprunts.GET("/en-cours", empruntHandler.EnCours)
			emprunts.GET("/en-retard", empruntHandler.EnRetard)
			emprunts.GET("/historique", empruntHandler.Historique)
		}
	}
}
