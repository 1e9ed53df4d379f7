package app

import (
	"testing"

	"failure_bank_backend/internal/config"
	"failure_bank_backend/internal/controller"

	"github.com/gin-gonic/gin"
)

func testControllers() *controllers {
	return &controllers{
		auth:         controller.NewAuthController(nil),
		user:         controller.NewUserController(nil),
		challenge:    controller.NewChallengeController(nil),
		stats:        controller.NewStatsController(nil),
		notification: controller.NewNotificationController(nil, nil),
		health:       controller.NewHealthController(nil, nil),
	}
}

// 历史客户端通过 /failures 访问挑战资源，两个资源名必须都注册
func TestRegisterRoutesExposesFailuresAlias(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	a := &App{Config: &config.Config{}}

	a.registerRoutes(router, testControllers(), a.Config)

	want := map[string]bool{
		"POST /api/challenges":       false,
		"GET /api/challenges":        false,
		"POST /api/failures":         false,
		"GET /api/failures":          false,
		"GET /api/failures/:id":      false,
		"PUT /api/failures/:id":      false,
		"DELETE /api/failures/:id":   false,
		"POST /api/logout":           false,
		"POST /api/notifications/send": false,
	}
	for _, r := range router.Routes() {
		key := r.Method + " " + r.Path
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for key, seen := range want {
		if !seen {
			t.Errorf("route %s not registered", key)
		}
	}
}
