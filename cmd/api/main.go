package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"adboard/internal/adapter/api"
	"adboard/internal/adapter/api/handler"
	apimiddleware "adboard/internal/adapter/api/middleware"
	"adboard/internal/adapter/api/router"
	"adboard/internal/adapter/repository"
	"adboard/internal/infrastructure/firebase"
	"adboard/internal/infrastructure/storage"
	"adboard/internal/infrastructure/websocket"
	"adboard/internal/usecase"
	"adboard/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption
	credentialsPath := ""

	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		credentialsPath = os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if credentialsPath == "" {
			credentialsPath = "./service-account.json"
		}
		if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", credentialsPath)
		}
		log.Printf("Using Firebase service account from file: %s", credentialsPath)
		opt = option.WithCredentialsFile(credentialsPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, credentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	adRepo := repository.NewFirestoreAdRepository(firestoreClient)
	favoriteRepo := repository.NewFirestoreFavoriteRepository(firestoreClient)
	convRepo := repository.NewFirestoreConversationRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseApiKey)

	wsManager := websocket.NewManager()
	go wsManager.Start(ctx)

	authUseCase := usecase.NewAuthUseCase(userRepo, firebaseAuthClient, cfg.AdminSecretKey)
	userUseCase := usecase.NewUserUseCase(userRepo, adRepo, storageClient)
	chatUseCase := usecase.NewChatUseCase(convRepo, userRepo, adRepo)
	adUseCase := usecase.NewAdUseCase(adRepo, favoriteRepo, userRepo, storageClient, chatUseCase)
	favoriteUseCase := usecase.NewFavoriteUseCase(favoriteRepo, adRepo)
	adminUseCase := usecase.NewAdminUseCase(adRepo, userRepo, favoriteRepo, storageClient)

	handler.Setup(authUseCase, userUseCase, adUseCase, favoriteUseCase, chatUseCase, adminUseCase)
	handler.SetupFileHandler(storageClient)
	handler.SetupDevTokenHandler(firebaseAuthClient, userRepo)

	e := echo.New()

	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userRepo)

	wsHandler := handler.NewWebSocketHandler(
		wsManager,
		authMiddleware,
		authUseCase,
		chatUseCase,
		websocket.NewFirestoreWatchers(firestoreClient),
	)

	router.Setup(e, authMiddleware, adminMiddleware)
	router.SetupWebSocketRouter(e, wsHandler)
	router.SetupDevRouter(e, cfg.Environment)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
