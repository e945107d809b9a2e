package main

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"

	"github.com/AnnNaserNabil/ComicX/application/ports/outbound"
	"github.com/AnnNaserNabil/ComicX/application/services"
	"github.com/AnnNaserNabil/ComicX/config"
	"github.com/AnnNaserNabil/ComicX/infrastructure/adapters"
	"github.com/AnnNaserNabil/ComicX/infrastructure/gin_interface/controllers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded")
	}

	serverConfig, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get server config")
	}

	openRouterConfig, err := config.GetOpenRouterConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get OpenRouter config")
	}

	modelsLabConfig, err := config.GetModelsLabConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get ModelsLab config")
	}

	pipelineConfig, err := config.GetPipelineConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get pipeline config")
	}

	storageConfig, err := config.GetStorageConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get storage config")
	}

	zeroLogger := adapters.NewZerologWrapper()

	panicHandler := func(p interface{}) {
		zeroLogger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}

	// Nonblocking: a saturated pool rejects the submit so the request
	// boundary can answer 503 instead of holding the connection.
	workerPool, err := ants.NewPool(serverConfig.WorkerPoolSize,
		ants.WithPanicHandler(panicHandler), ants.WithNonblocking(true))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker pool")
	}
	defer workerPool.Release()

	dispatcher := adapters.NewAntsTaskDispatcher(workerPool)

	contentFetcher := adapters.NewContentFetcher(zeroLogger, nil)

	var artifactStore outbound.ArtifactStorePort
	if storageConfig.S3Bucket != "" {
		sess := session.Must(session.NewSessionWithOptions(session.Options{
			SharedConfigState: session.SharedConfigEnable,
			Config:            aws.Config{Region: aws.String(storageConfig.S3Region)},
		}))
		artifactStore = adapters.NewS3ArtifactStore(s3.New(sess), storageConfig, zeroLogger)
	} else {
		artifactStore, err = adapters.NewFilesystemArtifactStore(storageConfig.OutputDir, zeroLogger)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create artifact store")
		}
	}

	jobRepository := adapters.NewMemoryJobRepository()

	textGenerator := adapters.NewOpenRouterTextGenerator(openRouterConfig, zeroLogger)
	imageGenerator := adapters.NewModelsLabImageGenerator(modelsLabConfig, contentFetcher, zeroLogger)
	videoGenerator := adapters.NewModelsLabVideoGenerator(modelsLabConfig, contentFetcher, zeroLogger)

	documentIngestor := services.NewDocumentIngestor(zeroLogger)
	storyGenerator := services.NewStoryGenerator(zeroLogger, textGenerator)
	scriptGenerator := services.NewScriptGenerator(zeroLogger, textGenerator, pipelineConfig.PanelsPerPage)
	panelTextGenerator := services.NewPanelTextGenerator(zeroLogger, textGenerator, pipelineConfig.CaptionMaxWords)
	panelArtworkGenerator := services.NewPanelArtworkGenerator(zeroLogger, imageGenerator, pipelineConfig.MaxParallelPanels)
	panelVideoGenerator := services.NewPanelVideoGenerator(zeroLogger, videoGenerator, contentFetcher,
		pipelineConfig.VideoPollInterval, pipelineConfig.VideoClipTimeout, pipelineConfig.MaxParallelClips)

	comicAssembler := services.NewComicAssembler(zeroLogger, artifactStore,
		adapters.NewPDFComicEncoder(zeroLogger),
		adapters.NewCBZComicEncoder(zeroLogger),
		adapters.NewWebComicEncoder(zeroLogger),
		adapters.NewVideoComicEncoder(zeroLogger),
	)

	pipelineOrchestrator := services.NewComicPipelineOrchestrator(zeroLogger, jobRepository,
		documentIngestor, storyGenerator, scriptGenerator, panelTextGenerator,
		panelArtworkGenerator, panelVideoGenerator, comicAssembler, pipelineConfig.Weights)

	comicJobsController := controllers.NewComicJobsController(zeroLogger, dispatcher,
		jobRepository, artifactStore, pipelineOrchestrator, serverConfig,
		controllers.ProviderStatus{
			OpenRouterConfigured: openRouterConfig.ApiKey != "",
			ModelsLabConfigured:  modelsLabConfig.ApiKey != "",
		})

	router := gin.Default()

	if err := router.SetTrustedProxies(nil); err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies!")
	}

	comicJobsController.RegisterRoutes(router)

	if err := router.Run(":" + serverConfig.Port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server!")
	}
}
