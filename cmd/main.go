package main

import (
	"fmt"
	"veo-prompt-director/application/ports/outbound"
	"veo-prompt-director/application/services"
	"veo-prompt-director/catalog"
	"veo-prompt-director/config"
	"veo-prompt-director/infrastructure/adapters"
	"veo-prompt-director/infrastructure/gin_interface/controllers"
	"veo-prompt-director/middleware"
	mockgenerator "veo-prompt-director/mock"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/panjf2000/ants/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	config.LoadEnv()

	serverConfig, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get server config")
	}

	geminiConfig, err := config.GetGeminiConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get gemini config")
	}

	storeConfig, err := config.GetStoreConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get store config")
	}

	artifactConfig, err := config.GetArtifactConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get artifact config")
	}

	authConfig, err := config.GetAuthConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get auth config")
	}

	zeroLogger := adapters.NewZerologWrapper(serverConfig.LogLevel)

	panicHandler := func(p interface{}) {
		zeroLogger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}

	workerPool, err := ants.NewPool(serverConfig.WorkerPoolSize, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker pool")
	}
	defer workerPool.Release()

	presets, err := catalog.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load presets")
	}

	kvStore, err := newKeyValueStore(storeConfig, zeroLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create key value store")
	}

	artifactStore, err := newArtifactStore(artifactConfig, zeroLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create artifact store")
	}

	metrics := adapters.NewPrometheusMetrics()

	contentFetcher := adapters.NewContentFetcher(zeroLogger, geminiConfig.Timeout)

	var modelClient outbound.ModelPort
	var textStreamer outbound.TextStreamPort
	if serverConfig.MockScenesFile != "" {
		modelClient, textStreamer, err = mockgenerator.Init(serverConfig.MockScenesFile, workerPool, zeroLogger)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load mock scenes")
		}
	} else {
		modelClient = adapters.NewGeminiModelClient(contentFetcher, geminiConfig, zeroLogger)
		textStreamer = adapters.NewGeminiTextStreamer(geminiConfig, workerPool, zeroLogger)
	}

	videoClient := adapters.NewVeoVideoClient(contentFetcher, geminiConfig, zeroLogger)
	imageClient := adapters.NewImagenClient(contentFetcher, geminiConfig, zeroLogger)

	requestBuilder := services.NewRequestBuilder(presets, services.ModelSettings{
		ProModel:        geminiConfig.ProModel,
		FlashModel:      geminiConfig.FlashModel,
		DisplayLanguage: serverConfig.DisplayLanguage,
	})

	credentials := services.NewCredentialResolver(zeroLogger, kvStore, geminiConfig.ApiKey)

	history := services.NewHistoryStore(zeroLogger, kvStore, metrics)

	sceneGenerator := services.NewSceneGenerator(zeroLogger, requestBuilder, modelClient, textStreamer, credentials, metrics)

	workflow := services.NewWorkflowOrchestrator(zeroLogger, sceneGenerator, history, presets.DefaultInputs())

	mediaRunner := services.NewMediaJobRunner(zeroLogger, videoClient, imageClient, artifactStore, credentials, metrics,
		workerPool, geminiConfig.PollInterval)

	router := gin.Default()

	err = router.SetTrustedProxies(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies!")
	}

	router.Use(cors.New(corsConfig(serverConfig.CorsOrigins)))

	if authConfig.Enabled() {
		authHandler, err := middleware.NewAuthHandler(authConfig.JwksURL, zeroLogger)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create auth handler!")
		}
		router.Use(authHandler.AuthMiddleware())
	} else {
		zeroLogger.Warn("JWKS_URL is not set, the API is unauthenticated")
	}

	if artifactConfig.Driver == config.LocalArtifactDriver {
		router.Static(artifactConfig.BaseURL, artifactConfig.Dir)
	}

	controllers.NewHealthController(metrics.Handler()).RegisterRoutes(router)
	controllers.NewSessionController(zeroLogger, workflow).RegisterRoutes(router)
	controllers.NewMediaController(zeroLogger, workerPool, workflow, mediaRunner, serverConfig.SSEHeartbeat).RegisterRoutes(router)
	controllers.NewHistoryController(zeroLogger, history, workflow).RegisterRoutes(router)
	controllers.NewSettingsController(zeroLogger, credentials, workflow, presets).RegisterRoutes(router)
	controllers.NewStoryController(zeroLogger, workerPool, sceneGenerator, serverConfig.SSEHeartbeat).RegisterRoutes(router)

	zeroLogger.InfoWithFields("Starting server", map[string]interface{}{
		"addr":     serverConfig.Addr,
		"store":    storeConfig.Driver,
		"artifact": artifactConfig.Driver,
	})

	err = router.Run(serverConfig.Addr)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start server!")
	}
}

func newKeyValueStore(storeConfig *config.StoreConfig, logger outbound.LoggerPort) (outbound.KeyValueStorePort, error) {
	switch storeConfig.Driver {
	case config.MemoryStoreDriver:
		return adapters.NewMemoryKeyValueStore(), nil
	case config.DynamoStoreDriver:
		dynamoConfig, err := config.GetDynamoConfig()
		if err != nil {
			return nil, err
		}
		return adapters.NewDynamoKeyValueStore(logger, dynamodb.New(awsSession(dynamoConfig.Region)), dynamoConfig), nil
	case config.RedisStoreDriver:
		redisConfig, err := config.GetRedisConfig()
		if err != nil {
			return nil, err
		}
		client := redis.NewClient(&redis.Options{
			Addr:     redisConfig.Addr,
			Password: redisConfig.Password,
			DB:       redisConfig.DB,
		})
		return adapters.NewRedisKeyValueStore(logger, client, redisConfig), nil
	default:
		return adapters.NewFileKeyValueStore(logger, storeConfig.FilePath)
	}
}

func newArtifactStore(artifactConfig *config.ArtifactConfig, logger outbound.LoggerPort) (outbound.ArtifactStorePort, error) {
	if artifactConfig.Driver == config.S3ArtifactDriver {
		s3Config, err := config.GetS3Config()
		if err != nil {
			return nil, err
		}
		return adapters.NewS3ArtifactStore(logger, s3.New(awsSession(s3Config.Region)), s3Config), nil
	}
	return adapters.NewLocalArtifactStore(logger, artifactConfig)
}

func awsSession(region string) *session.Session {
	return session.Must(session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
		Config:            aws.Config{Region: aws.String(region)},
	}))
}

func corsConfig(origins []string) cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	for _, origin := range origins {
		if origin == "*" {
			corsConfig.AllowAllOrigins = true
			return corsConfig
		}
	}
	corsConfig.AllowOrigins = origins
	corsConfig.AllowCredentials = true
	return corsConfig
}
