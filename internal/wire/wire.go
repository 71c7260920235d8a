package wire

import (
	"Inkwell/internal/api"
	"Inkwell/internal/api/config"
	"Inkwell/internal/api/graph"
	"Inkwell/internal/api/handler"
	"Inkwell/internal/job"
	"Inkwell/internal/pkg/cron"
	"Inkwell/internal/pkg/es"
	"Inkwell/internal/pkg/kafka"
	"Inkwell/internal/pkg/minio"
	"Inkwell/internal/pkg/mongo"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/repository"
	"Inkwell/internal/service"

	"github.com/gin-gonic/gin"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router        *gin.Engine
	DB            *gorm.DB
	KafkaManager  *kafka.ConsumerManager
	EventProducer kafka.EventProducer
	CronMgr       *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoConn *mongoDB.Database, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	userFollowRepo := repository.NewUserFollowRepo(db)
	postRepo := repository.NewPostRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	commentRepo := repository.NewCommentRepo(db)
	interactionRepo := repository.NewInteractionRepo(db)
	newsletterRepo := repository.NewNewsletterRepo(db)
	notificationRepo := mongo.NewNotificationRepo(mongoConn)

	// ES 未配置时搜索退回数据库
	var postESRepo es.PostRepo
	if es.Client != nil {
		postESRepo = es.NewPostRepo(es.Client)
	}
	store := minio.NewObjectStore()

	producer, err := kafka.NewEventProducer(cfg)
	if err != nil {
		return nil, err
	}

	userService := service.NewUserService(userRepo)
	postService := service.NewPostService(postRepo, categoryRepo, postESRepo, store)
	categoryService := service.NewCategoryService(categoryRepo, postRepo)
	commentService := service.NewCommentService(commentRepo, postRepo, interactionRepo)
	interactionService := service.NewInteractionService(interactionRepo, postRepo, commentRepo, userRepo, userFollowRepo, producer)
	mediaService := service.NewMediaService(store, cfg.Upload.Folder, cfg.Upload.MaxImageBytes)
	newsletterService := service.NewNewsletterService(newsletterRepo)
	notificationService := service.NewNotificationService(notificationRepo)

	resolver := graph.NewResolver(
		userService,
		postService,
		categoryService,
		commentService,
		interactionService,
		mediaService,
		newsletterService,
		notificationService,
	)

	handlers := &api.HandlersGroup{
		GraphQLHandler: handler.NewGraphQLHandler(graph.NewSchema(resolver)),
		WsHandler:      handler.NewWsHandler(cfg.Server.AllowOrigins),
	}

	router := api.SetupRouter(handlers, cfg.Server.AllowOrigins)

	notificationHandler := kafka.NewNotificationHandler(notificationRepo, redis.Publish)
	kafkaMgr, err := kafka.NewConsumerManager(cfg, notificationHandler)
	if err != nil {
		_ = producer.Close()
		return nil, err
	}

	cronMgr := cron.NewCronManager(
		cfg.Cron,
		job.NewCounterReconcileJob(interactionService),
		job.NewMediaCleanupJob(store),
	)

	return &ApplicationContainer{
		Router:        router,
		DB:            db,
		KafkaManager:  kafkaMgr,
		EventProducer: producer,
		CronMgr:       cronMgr,
	}, nil
}
