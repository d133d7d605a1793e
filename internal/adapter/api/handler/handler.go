package handler

import (
	"adboard/internal/domain/repository"
	"adboard/internal/infrastructure/firebase"
	"adboard/internal/infrastructure/storage"
	"adboard/internal/usecase"
)

var (
	authHandler     *AuthHandler
	userHandler     *UserHandler
	adHandler       *AdHandler
	favoriteHandler *FavoriteHandler
	chatHandler     *ChatHandler
	adminHandler    *AdminHandler
	fileHandler     *FileHandler
	devTokenHandler *DevTokenHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	adUseCase *usecase.AdUseCase,
	favoriteUseCase *usecase.FavoriteUseCase,
	chatUseCase *usecase.ChatUseCase,
	adminUseCase *usecase.AdminUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	adHandler = NewAdHandler(adUseCase)
	favoriteHandler = NewFavoriteHandler(favoriteUseCase)
	chatHandler = NewChatHandler(chatUseCase)
	adminHandler = NewAdminHandler(adminUseCase)
}

func SetupFileHandler(storageClient *storage.CloudStorageClient) {
	fileHandler = NewFileHandler(storageClient)
}

func SetupDevTokenHandler(firebaseAuth *firebase.FirebaseAuthClient, userRepo repository.UserRepository) {
	devTokenHandler = NewDevTokenHandler(firebaseAuth, userRepo)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetAdHandler() *AdHandler {
	return adHandler
}

func GetFavoriteHandler() *FavoriteHandler {
	return favoriteHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetAdminHandler() *AdminHandler {
	return adminHandler
}

func GetFileHandler() *FileHandler {
	return fileHandler
}

func GetDevTokenHandler() *DevTokenHandler {
	return devTokenHandler
}
