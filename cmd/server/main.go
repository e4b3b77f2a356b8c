package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/user/aisearch/internal/config"
	"github.com/user/aisearch/internal/handler"
	"github.com/user/aisearch/internal/repository"
	"github.com/user/aisearch/internal/router"
	"github.com/user/aisearch/internal/service"
	"github.com/user/aisearch/internal/utils"
)

func main() {
	// 加载环境变量
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	// 加载配置
	cfg := config.Load()

	// 初始化数据库
	db, err := repository.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	defer db.Close()

	if err := repository.Migrate(db); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	// 初始化仓库
	repos := repository.NewRepositories(db)

	// 初始化向量索引
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	index, err := repository.NewEmbeddingIndex(ctx, cfg.MilvusAddr, cfg.MilvusCollection, cfg.EmbedDim)
	cancel()
	if err != nil {
		log.Fatalf("向量索引初始化失败: %v", err)
	}
	defer index.Close()

	// 初始化服务
	ollama := utils.NewOllamaClient(cfg.OllamaHost, cfg.LLMModel, cfg.EmbedModel)
	ingestSvc := service.NewIngestService(repos.Movie, cfg.FeedBaseURL)
	enrichSvc := service.NewEnrichService(repos.Movie, ollama, index, cfg.EnrichConcurrency, cfg.EnrichBatchSize)
	searchSvc := service.NewSearchService(ollama, index)
	reindexSvc := service.NewReindexService(repos.Movie, index)

	// 启动后台同步与分析任务
	worker := service.NewWorker(ingestSvc, enrichSvc, cfg.WorkerInterval)
	worker.Start()

	// 初始化 Gin
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	h := handler.NewHandler(repos.Movie, cfg, searchSvc.Search, reindexSvc)
	r := router.New(h)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   15 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	go func() {
		log.Printf("服务器启动于 http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("正在关闭服务器...")

	// 先停后台任务，等当前轮次结束
	worker.Stop()

	// 5 秒超时上下文用于关闭过程
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("服务器强制关闭:", err)
	}

	log.Println("服务器已退出")
}
