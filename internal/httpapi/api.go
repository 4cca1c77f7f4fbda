// Package httpapi 是薄的 API 层：把 HTTP 请求翻译成核心调用，把结果序列化回去。
// 路由名沿用前端已经在用的老接口（/getAllVehicles、/rentVehicle 等）。
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/FleetLinkRent/FleetLinkRent/internal/common/config"
	"github.com/FleetLinkRent/FleetLinkRent/internal/common/logger"
	"github.com/FleetLinkRent/FleetLinkRent/internal/common/middleware"
	"github.com/FleetLinkRent/FleetLinkRent/internal/common/server"
	"github.com/FleetLinkRent/FleetLinkRent/internal/rental"
	"github.com/FleetLinkRent/FleetLinkRent/internal/vehicle"
)

// API 持有各用例的句柄，本身不含业务逻辑。
type API struct {
	core  *rental.Service
	admin *rental.Admin
	inv   *vehicle.Inventory
	store rental.Store
	log   logger.Logger
}

func New(core *rental.Service, admin *rental.Admin, inv *vehicle.Inventory, store rental.Store, log logger.Logger) *API {
	return &API{core: core, admin: admin, inv: inv, store: store, log: log}
}

// Router 组装路由和中间件链。
// 链条顺序：recovery -> tracing -> access log -> CORS -> 请求超时。
// 租车/还车额外挂令牌桶限流；管理接口挂 JWT 鉴权（要求 admin 角色）。
func (a *API) Router(cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(server.Recovery(a.log))
	r.Use(server.Tracing(cfg.Server.Name))
	r.Use(server.AccessLog(a.log))
	r.Use(corsMiddleware)
	r.Use(server.Timeout(10 * time.Second))

	breaker := middleware.Breaker(middleware.NewCircuitBreaker("store", 5, 30*time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	// 只读接口
	r.Group(func(r chi.Router) {
		r.Use(breaker)
		r.Get("/getAllVehicles", a.handleGetAllVehicles)
		r.Get("/getAllMakes", a.handleGetAllMakes)
		r.Get("/getAllModels", a.handleGetAllModels)
		r.Get("/getAllColors", a.handleGetAllColors)
		r.Get("/getAllVehicleTypes", a.handleGetAllVehicleTypes)
		r.Get("/getVehicle", a.handleGetVehicle)
		r.Get("/getFilteredVehicles", a.handleGetFilteredVehicles)
		r.Get("/getTotalCost", a.handleGetTotalCost)
		r.Get("/getUser", a.handleGetUser)
	})

	// 租赁事务
	r.Group(func(r chi.Router) {
		r.Use(breaker)
		r.Use(middleware.RateLimit(middleware.NewTokenBucket(50, 25)))
		r.Post("/rentVehicle", a.handleRentVehicle)
		r.Post("/returnVehicle", a.handleReturnVehicle)
	})

	// 管理接口
	r.Group(func(r chi.Router) {
		r.Use(breaker)
		r.Use(server.JWTAuth(cfg.Auth, "admin", a.log))
		r.Post("/addVehicle", a.handleAddVehicle)
		r.Post("/updateVehicle", a.handleUpdateVehicle)
		r.Post("/deleteVehicle", a.handleDeleteVehicle)
		r.Post("/addUser", a.handleAddUser)
		r.Post("/modifyUser", a.handleModifyUser)
		r.Post("/deleteUser", a.handleDeleteUser)
	})

	return r
}

// corsMiddleware 对应原前端要求的跨域头。预检请求直接应答。
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		w.Header().Set("Access-Control-Max-Age", "3600")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
