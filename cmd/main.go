package main

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	v1 "visitordesk/api/v1"
	"visitordesk/config"
	"visitordesk/dao"
	"visitordesk/internal/auth"
	"visitordesk/internal/upload"
	myvalidator "visitordesk/internal/validator"
	"visitordesk/middleware"
	"visitordesk/model"
	"visitordesk/service"
	"visitordesk/utils"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "."
	}
	config.InitConfig(configPath)
	config.InitRedis()
	cfg := config.GlobalConfig

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logrus.SetLevel(level)
	}

	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}); err != nil {
		logrus.Fatalf("failed to migrate: %v", err)
	}

	uploads, err := upload.NewManager(cfg.Upload.Dir)
	if err != nil {
		logrus.Fatalf("failed to init uploads: %v", err)
	}

	tokens := auth.NewTokenManager(cfg.JWT)
	userDAO := dao.NewUserDAO(db)
	authService := service.NewAuthService(userDAO, tokens, uploads)
	userService := service.NewUserService(userDAO, uploads)
	authAPI := v1.NewAuthAPI(authService)
	userAPI := v1.NewUserAPI(userService)

	if err := seedAdmin(userDAO, cfg); err != nil {
		logrus.Fatalf("failed to seed admin: %v", err)
	}

	r := gin.Default()
	r.Use(middleware.CORS(cfg.CORS.Origin))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := myvalidator.Register(v); err != nil {
			logrus.Fatalf("failed to register validators: %v", err)
		}
	}

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Server is running"})
	})

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", authAPI.Register)
		if config.RedisClient != nil {
			loginLimiter := middleware.LoginRateLimiter(config.RedisClient, 5, time.Minute)
			authGroup.POST("/login", loginLimiter, authAPI.Login)
		} else {
			authGroup.POST("/login", authAPI.Login)
		}
		authGroup.POST("/refresh", authAPI.Refresh)
	}

	users := r.Group("/api/users")
	users.Use(middleware.AuthRequired(tokens), middleware.AdminOnly())
	{
		users.GET("", userAPI.List)
		users.GET("/:id", userAPI.GetByID)
		users.PUT("/:id", userAPI.Update)
		users.DELETE("/:id", userAPI.Delete)
	}

	r.Static("/uploads", cfg.Upload.Dir)
	r.Static("/app", cfg.Web.Dir)
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/app/index.html")
	})

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Route not found"})
	})

	logrus.Infof("server running on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logrus.Fatalf("failed to start server: %v", err)
	}
}

// seedAdmin provisions the configured admin account if it does not exist.
// Roles are never client-suppliable, so this is the only way in.
func seedAdmin(userDAO *dao.UserDAO, cfg *config.Config) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		return nil
	}
	if _, err := userDAO.FindByEmail(cfg.Admin.Email); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := utils.HashPassword(cfg.Admin.Password)
	if err != nil {
		return err
	}
	admin := &model.User{
		Name:     "Administrator",
		Email:    cfg.Admin.Email,
		Phone:    "0000000000",
		Password: hashed,
		State:    "-",
		City:     "-",
		Country:  "-",
		Pincode:  "0000",
		Role:     model.RoleAdmin,
	}
	if err := userDAO.CreateUser(admin); err != nil {
		return err
	}
	logrus.WithField("email", cfg.Admin.Email).Info("admin account seeded")
	return nil
}
