package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/FleetLinkRent/FleetLinkRent/internal/common/config"
	"github.com/FleetLinkRent/FleetLinkRent/internal/common/db"
	"github.com/FleetLinkRent/FleetLinkRent/internal/common/logger"
	"github.com/FleetLinkRent/FleetLinkRent/internal/common/server"
	"github.com/FleetLinkRent/FleetLinkRent/internal/common/tracing"
	"github.com/FleetLinkRent/FleetLinkRent/internal/httpapi"
	"github.com/FleetLinkRent/FleetLinkRent/internal/rental"
	"github.com/FleetLinkRent/FleetLinkRent/internal/store"
	"github.com/FleetLinkRent/FleetLinkRent/internal/user"
	"github.com/FleetLinkRent/FleetLinkRent/internal/vehicle"
)

var (
	configPath = flag.String("config", "configs/rental-service.json", "配置文件路径")
)

func main() {
	flag.Parse()

	// 加载配置
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 初始化日志
	log, err := logger.NewLogger(cfg.Log.Backend, cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	// 初始化链路追踪
	tracer, closer, err := tracing.InitTracer(
		cfg.Server.Name,
		cfg.Jaeger.Endpoint,
		cfg.Jaeger.Sampler,
	)
	if err != nil {
		log.Warnf("failed to init tracer: %v", err)
	} else {
		defer closer.Close()
	}
	_ = tracer

	// 初始化数据库
	gormDB, err := db.NewMySQL(
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Database,
		cfg.Database.MaxIdle,
		cfg.Database.MaxOpen,
	)
	if err != nil {
		log.Fatalf("failed to init mysql: %v", err)
	}

	st := store.NewGormStore(gormDB)
	if err := st.AutoMigrate(); err != nil {
		log.Fatalf("failed to migrate mysql schema: %v", err)
	}

	// 组装核心：存储句柄只在这里构造一次，显式注入各组件。
	inv := vehicle.NewInventory(st)
	resolver := user.NewResolver(st, log)
	core := rental.NewService(st, resolver, inv, log)
	admin := rental.NewAdmin(st, inv, resolver, log)

	// 启动前预热投影和用户缓存，失败只告警（首个请求会再拉一次）。
	ctx := context.Background()
	if err := inv.Reload(ctx); err != nil {
		log.Warnf("failed to preload inventory: %v", err)
	}
	if err := resolver.Reload(ctx); err != nil {
		log.Warnf("failed to preload users: %v", err)
	}

	api := httpapi.New(core, admin, inv, st, log)

	// 启动统一的 HTTP 服务模板
	if err := server.RunHTTPServer(cfg, log, api.Router(cfg)); err != nil {
		log.Fatalf("rental-service exited with error: %v", err)
	}
}
