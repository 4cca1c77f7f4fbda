// admin-token 本地开发用：给管理接口签一个 admin 角色的 HS256 JWT。
//
//	go run ./cmd/admin-token -config configs/rental-service.json -subject ops
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/FleetLinkRent/FleetLinkRent/internal/common/auth"
	"github.com/FleetLinkRent/FleetLinkRent/internal/common/config"
)

var (
	configPath = flag.String("config", "configs/rental-service.json", "配置文件路径")
	subject    = flag.String("subject", "admin", "token subject（用户标识）")
	roles      = flag.String("roles", "admin", "逗号分隔的角色列表")
	ttl        = flag.Duration("ttl", 24*time.Hour, "token 有效期")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Auth.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "auth.jwt_secret is empty in config")
		os.Exit(1)
	}

	roleList := []string{}
	for _, r := range strings.Split(*roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roleList = append(roleList, r)
		}
	}

	token, expiresAt, err := auth.GenerateAccessToken(cfg.Auth, *subject, roleList, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires at %s\n", expiresAt.Format(time.RFC3339))
}
