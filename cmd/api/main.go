// Package main (in api-subfolder) provides launch of the HTTP application
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnendingLoop/PhotoRestorer/internal/appconfig"
	"github.com/UnendingLoop/PhotoRestorer/internal/model"
	"github.com/UnendingLoop/PhotoRestorer/internal/mwlogger"
	"github.com/UnendingLoop/PhotoRestorer/internal/restorer"
	"github.com/UnendingLoop/PhotoRestorer/internal/service"
	"github.com/UnendingLoop/PhotoRestorer/internal/session"
	"github.com/UnendingLoop/PhotoRestorer/internal/transport"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"
)

func main() {
	// инициализировать конфиг/ считать энвы
	appConfig := config.New()
	appConfig.EnableEnv("")
	if err := appConfig.LoadEnvFiles("./.env"); err != nil {
		log.Printf("No .env loaded (%s), using process environment", err)
	}
	settings := appconfig.Load(appConfig)

	// стартуем логгер
	zlog.InitConsole()
	if err := zlog.SetLevel(settings.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	// готовим заранее слушатель прерываний - контекст для всего приложения
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// клиент модели
	client, err := restorer.NewGeminiClient(ctx, settings.APIKey)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Failed to create Gemini client")
	}
	orch := restorer.New(client.Models, settings.Model)

	// хранилище сессий живет только в памяти процесса
	store := session.NewStore(settings.SessionTTL)

	// создаем экземпляр сервиса
	var svc RestorationAPIService = service.NewRestorationService(store, orch, settings.PreviewSize)
	// cоздаем экземпляр хендлера HTTP
	handlers := transport.NewRestorationHandler(svc)
	// сетапим сервер
	engine := ginext.New(settings.GinMode)

	engine.GET("/ping", handlers.SimplePinger)
	engine.GET("/aspect-ratios", handlers.AspectRatios)
	engine.POST("/sessions", handlers.CreateSession)         // новая сессия, исходник и настройки опциональны
	engine.GET("/sessions/:id", handlers.GetSession)         // статус сессии
	engine.PUT("/sessions/:id/image", handlers.UploadSource) // заменить исходник
	engine.PUT("/sessions/:id/config", handlers.Configure)   // соотношение сторон и заметка
	engine.POST("/sessions/:id/restore", handlers.Restore)   // синхронная реставрация
	engine.POST("/sessions/:id/clear", handlers.ClearResult) // убрать результат, оставить исходник
	engine.POST("/sessions/:id/reset", handlers.Reset)       // начать заново
	engine.DELETE("/sessions/:id", handlers.DeleteSession)   // удаление
	engine.GET("/sessions/:id/original", handlers.LoadImage(model.KindOriginal))
	engine.GET("/sessions/:id/result", handlers.LoadImage(model.KindResult))
	engine.GET("/sessions/:id/original/preview", handlers.Preview(model.KindOriginal))
	engine.GET("/sessions/:id/result/preview", handlers.Preview(model.KindResult))
	engine.GET("/sessions/:id/download", handlers.Download)

	srv := newServer(":"+settings.Port, mwlogger.NewMWLogger(engine))

	// Server launch
	go func() {
		zlog.Logger.Info().Str("addr", srv.Addr).Str("model", settings.Model).Msg("Server running")
		err := srv.ListenAndServe()
		if err != nil {
			switch {
			case errors.Is(err, http.ErrServerClosed):
				zlog.Logger.Info().Msg("Server gracefully stopping...")
			default:
				zlog.Logger.Error().Err(err).Msg("Server stopped")
				stop()
			}
		}
	}()

	// запускаем фоновую чистку просроченных сессий
	go sweepLoop(ctx, svc)

	// ждем отмены контекста для запуска грейсфул закрытия сервера
	<-ctx.Done()

	shutdown(srv)
	zlog.Logger.Info().Msg("Exiting app...")
}

// реставрация идет синхронно и без дедлайна, поэтому WriteTimeout не задаем
func newServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func sweepLoop(ctx context.Context, svc RestorationAPIService) {
	defer func() {
		if r := recover(); r != nil {
			zlog.Logger.Error().Interface("panic", r).Msg("Sweep loop crashed")
		}
	}()

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			svc.SweepExpired(context.Background())
		}
	}
}

func shutdown(srv *http.Server) {
	zlog.Logger.Info().Msg("Interrupt received!!! Starting shutdown sequence...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Logger.Error().Err(err).Msg("Failed to shutdown server correctly")
		return
	}
	zlog.Logger.Info().Msg("Server stopped")
}
