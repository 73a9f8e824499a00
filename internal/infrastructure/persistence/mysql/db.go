package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bibliotheque/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	// 最大打开连接数（建议：CPU核数 * 2 + 磁盘数量）
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// 最大空闲连接数（建议：MaxOpenConns的1/4到1/2）
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// 连接最大存活时间（防止数据库主动断开连接）
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("数据库连接成功")

	// 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// AutoMigrate只会创建表、添加字段,不会删除或修改现有字段
func autoMigrate(db *gorm.DB) error {
	// 注意：这里使用GORM的模型定义（带tag），不是domain层的实体
	return db.AutoMigrate(
		&UtilisateurModel{},
		&LivreModel{},
		&EmpruntModel{},
	)
}

// UtilisateurModel GORM读者模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/utilisateur/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
// 4. ID是应用层生成的UUID字符串(size:36)
type UtilisateurModel struct {
	ID              string    `gorm:"primaryKey;size:36"`
	Nom             string    `gorm:"size:100;not null;comment:姓"`
	Prenom          string    `gorm:"size:100;not null;comment:名"`
	Email           string    `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	DateInscription time.Time `gorm:"index;comment:注册时间"`
	Actif           bool      `gorm:"default:true;comment:账号是否激活"`
	UpdatedAt       time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (UtilisateurModel) TableName() string {
	return "utilisateurs"
}

// LivreModel GORM图书模型
// 设计说明:
// 1. ISBN有唯一索引,防止重复
// 2. NombreExemplaires是副本数的唯一事实来源,Disponible为派生标记,
//    两者始终在同一条UPDATE语句内变更
// 3. 书名/作者/类别加搜索索引
type LivreModel struct {
	ID                string    `gorm:"primaryKey;size:36"`
	Titre             string    `gorm:"index:idx_search;size:200;not null;comment:书名"`
	Auteur            string    `gorm:"index:idx_search;size:100;not null;comment:作者"`
	ISBN              string    `gorm:"uniqueIndex;size:20;not null;comment:ISBN号"`
	AnneePublication  int       `gorm:"not null;comment:出版年份"`
	Genre             string    `gorm:"index:idx_search;size:50;not null;comment:类别"`
	NombreExemplaires int       `gorm:"default:0;comment:可借副本数"`
	Disponible        bool      `gorm:"index;default:false;comment:是否可借"`
	DateAjout         time.Time `gorm:"index;comment:入藏时间"`
	UpdatedAt         time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (LivreModel) TableName() string {
	return "livres"
}

// EmpruntModel GORM借阅模型
// 设计说明:
// 1. Statut存储状态字符串(EN_COURS/EN_RETARD/RETOURNE),便于排查
// 2. (UtilisateurID, Statut)复合索引支撑"读者是否有活跃借阅"查询
// 3. DateRetourEffectif可空,仅RETOURNE时非null
type EmpruntModel struct {
	ID                 string     `gorm:"primaryKey;size:36"`
	UtilisateurID      string     `gorm:"index:idx_user_statut;size:36;not null;comment:读者ID"`
	LivreID            string     `gorm:"index;size:36;not null;comment:图书ID"`
	DateEmprunt        time.Time  `gorm:"index;comment:借出时间"`
	DateRetourPrevu    time.Time  `gorm:"index;comment:应还时间"`
	DateRetourEffectif *time.Time `gorm:"comment:实际归还时间"`
	Statut             string     `gorm:"index:idx_user_statut,priority:2;index;size:20;not null;comment:状态"`
}

// TableName 指定表名
func (EmpruntModel) TableName() string {
	return "emprunts"
}
