package service

import (
	"context"
	"log"
	"sync"
	"time"
)

// Worker 后台任务调度：同步目录源后执行 AI 分析，周期重复
type Worker struct {
	ingest   *IngestService
	enrich   *EnrichService
	interval time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWorker 创建后台任务，interval 为两轮之间的间隔
func NewWorker(ingest *IngestService, enrich *EnrichService, interval time.Duration) *Worker {
	return &Worker{
		ingest:   ingest,
		enrich:   enrich,
		interval: interval,
	}
}

// Start 启动后台循环，立即执行一轮后按间隔重复
func (w *Worker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		log.Printf("[Worker] 后台任务启动，间隔 %v", w.interval)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		w.runOnce(ctx)
		for {
			select {
			case <-ctx.Done():
				log.Println("[Worker] 后台任务停止")
				return
			case <-ticker.C:
				w.runOnce(ctx)
			}
		}
	}()
}

// runOnce 执行一轮同步加分析，任何失败只记日志不中断循环
func (w *Worker) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	if _, err := w.ingest.Run(ctx); err != nil {
		log.Printf("[Worker] 目录同步失败: %v", err)
	}
	if _, err := w.enrich.Run(ctx); err != nil {
		log.Printf("[Worker] AI 分析失败: %v", err)
	}
}

// Stop 停止后台循环并等待当前轮次结束
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
