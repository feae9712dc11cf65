package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/conon21154/lineguide/internal/config"
	"github.com/conon21154/lineguide/internal/contact"
	"github.com/conon21154/lineguide/internal/db"
	"github.com/conon21154/lineguide/internal/equipment"
	"github.com/conon21154/lineguide/internal/excel"
	httphandler "github.com/conon21154/lineguide/internal/http"
	"github.com/conon21154/lineguide/internal/http/middleware"
	"github.com/conon21154/lineguide/internal/logger"
	"github.com/conon21154/lineguide/internal/pdf"
	"github.com/conon21154/lineguide/internal/provider"
	"github.com/conon21154/lineguide/internal/queue"
	"github.com/conon21154/lineguide/internal/ratelimit"
	"github.com/conon21154/lineguide/internal/repository"
	"github.com/conon21154/lineguide/internal/service"
)

const naverDisplay = 10

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kakao := provider.NewKakaoClient(provider.KakaoConfig{
		APIKey:        cfg.Providers.Kakao.APIKey,
		BaseURL:       cfg.Providers.Kakao.BaseURL,
		Timeout:       cfg.Providers.Timeout,
		Limiter:       ratelimit.New(cfg.Providers.Kakao.MinInterval),
		ThrottlePause: time.Second,
	}, log)
	if cfg.Providers.VerifyOnStart {
		if err := kakao.Verify(ctx); err != nil {
			log.Fatal().Err(err).Msg("kakao credentials rejected")
		}
	}

	resolver := newResolver(ctx, cfg, kakao, log)
	locator := contact.NewRegionLocator(kakao, config.ProviderKakao, cfg.Contact.BusinessRegions, log)

	var store service.JobStore = repository.NewMemoryStore()
	if cfg.DB.DSN != "" {
		database, err := db.New(cfg.DB, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect database")
		}
		store = repository.NewJobRepository(database)
	} else {
		log.Warn().Msg("DB_DSN not set, jobs are kept in memory")
	}

	excelGenerator := excel.NewGenerator()
	var pdfGenerator service.PDFGenerator
	if gen := newPDFGenerator(cfg.Export.PDFFontPath, log); gen != nil {
		pdfGenerator = gen
	}

	equipmentStore := equipment.NewStore()
	mappingService := service.NewMappingService(store, resolver, excelGenerator, pdfGenerator, log)
	equipmentService := service.NewEquipmentService(equipmentStore, log)
	outageService := service.NewOutageService(locator, equipmentStore, excelGenerator, log)

	mappingService.Start(ctx)

	if cfg.Queue.URL != "" {
		consumer, err := queue.NewConsumer(cfg.Queue.URL, cfg.Queue.Queue, mappingService, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect queue")
		}
		defer consumer.Close()
		go func() {
			if err := consumer.Run(ctx); err != nil {
				log.Error().Err(err).Msg("queue consumer stopped")
			}
		}()
	}

	handler := httphandler.NewHandler(mappingService, equipmentService, outageService, log)
	router := httphandler.NewRouter(handler, middleware.APIKey(cfg.Auth.APIKey), cfg.Environment, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	server := &http.Server{
		Addr:        addr,
		Handler:     router,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().Str("addr", addr).Str("provider", cfg.Contact.Provider).Msg("starting lineguide")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

func newResolver(ctx context.Context, cfg *config.Config, kakao *provider.KakaoClient, log zerolog.Logger) contact.Resolver {
	if cfg.Contact.Provider == config.ProviderNaver {
		naver := provider.NewNaverClient(provider.NaverConfig{
			ClientID:      cfg.Providers.Naver.ClientID,
			ClientSecret:  cfg.Providers.Naver.ClientSecret,
			BaseURL:       cfg.Providers.Naver.BaseURL,
			Timeout:       cfg.Providers.Timeout,
			Limiter:       ratelimit.New(cfg.Providers.Naver.MinInterval),
			ThrottlePause: time.Second,
		}, log)
		if cfg.Providers.VerifyOnStart {
			if err := naver.Verify(ctx); err != nil {
				log.Fatal().Err(err).Msg("naver credentials rejected")
			}
		}
		return contact.NewKeywordCascade(naver, cfg.Providers.Naver.Keywords, naverDisplay, log)
	}

	return contact.NewPipeline(kakao, kakao, contact.PipelineConfig{
		ProbeKeyword:     cfg.Contact.ProbeKeyword,
		RadiusMeters:     cfg.Contact.NearbyRadius,
		NearbySize:       cfg.Contact.NearbySize,
		FallbackKeywords: cfg.Contact.FallbackKeywords,
		FallbackSize:     cfg.Contact.NearbySize,
	}, log)
}

func newPDFGenerator(fontPath string, log zerolog.Logger) *pdf.Generator {
	if fontPath == "" {
		log.Warn().Msg("PDF_FONT_PATH not set, pdf export disabled")
		return nil
	}
	fontData, err := os.ReadFile(fontPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", fontPath).Msg("failed to read pdf font")
	}
	gen, err := pdf.NewGenerator(fontData)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init pdf generator")
	}
	return gen
}
