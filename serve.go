package main

import (
	"FeeloraGo/config"
	"FeeloraGo/middleware"
	"FeeloraGo/routes"
	"FeeloraGo/services"
	"FeeloraGo/utils"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd(configPath *string) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(*configPath, port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides SERVER_PORT)")
	return cmd
}

func serve(configPath, port string) error {
	// 初始化日志
	if err := config.InitLogger(); err != nil {
		return fmt.Errorf("无法初始化日志: %w", err)
	}
	defer config.Logger.Sync()

	// 加载配置
	conf, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("无法加载配置: %w", err)
	}
	if port != "" {
		conf.ServerPort = port
	}

	// 初始化数据库
	if err := config.InitDB(conf); err != nil {
		return fmt.Errorf("无法初始化数据库: %w", err)
	}
	if err := config.MigrateDB(config.DB); err != nil {
		return err
	}

	// 初始化Redis
	if err := config.InitRedis(conf); err != nil {
		return fmt.Errorf("无法初始化Redis: %w", err)
	}

	utils.InitJWT(conf.JWTSecret)
	if conf.JWTSecret == "" {
		config.Logger.Warnw("未配置 JWT_SECRET，访客登录不可用")
	}

	// 初始化大模型客户端
	gen, err := services.NewGenerator(context.Background(), conf)
	if err != nil {
		return fmt.Errorf("无法初始化大模型客户端: %w", err)
	}

	store := services.NewGormMoodStore(config.DB, config.RedisClient, conf.MoodCacheTTL)
	// 朗读由浏览器完成，服务端只返回 Speech
	app := services.NewApp(conf, gen, store, config.DB, nil)

	janitor, err := app.NewJanitor(conf)
	if err != nil {
		return err
	}
	janitor.Start()

	// 设置Gin模式
	if conf.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	middleware.SetupMiddleware(r)
	routes.RegisterRoutes(r, app, conf.InternalAuthToken)

	srv := &http.Server{
		Addr:    ":" + conf.ServerPort,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		config.Logger.Infow("启动服务器", "port", conf.ServerPort, "llm", conf.LLMProvider, "db", conf.DBDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// 等待中断信号以实现优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		<-janitor.Stop().Done()
		app.Close()
		return fmt.Errorf("服务器启动失败: %w", err)
	}
	config.Logger.Infow("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 先取消进行中的分析，再等待请求结束
	app.Close()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("服务器关闭失败: %w", err)
	}

	config.Logger.Infow("正在等待后台任务完成...")
	select {
	case <-janitor.Stop().Done():
	case <-ctx.Done():
	}
	if config.RedisClient != nil {
		config.RedisClient.Close()
	}
	config.Logger.Infow("服务器已关闭")
	return nil
}
