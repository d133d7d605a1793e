package handler

import (
	"github.com/labstack/echo/v4"

	"adboard/internal/usecase"
	"adboard/pkg/errors"
	"adboard/pkg/response"
	"adboard/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type startConversationRequest struct {
	AdID string `json:"ad_id" validate:"required"`
}

// StartConversation opens (or reopens) the caller's conversation with a
// listing's seller.
func (h *ChatHandler) StartConversation(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req startConversationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	conv, err := h.chatUseCase.StartConversation(c.Request().Context(), uid, req.AdID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, conv)
}

func (h *ChatHandler) ListConversations(c echo.Context) error {
	uid := c.Get("uid").(string)

	convs, err := h.chatUseCase.ListConversations(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, convs)
}

func (h *ChatHandler) GetMessages(c echo.Context) error {
	uid := c.Get("uid").(string)
	params := utils.GetPaginationParams(c)

	messages, total, err := h.chatUseCase.GetMessages(c.Request().Context(), uid, c.Param("id"), params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, messages, total, params.Page, params.PageSize)
}

type sendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	msg, err := h.chatUseCase.SendMessage(c.Request().Context(), uid, usecase.SendMessageInput{
		ConversationID: c.Param("id"),
		Text:           req.Text,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, msg)
}

func (h *ChatHandler) MarkRead(c echo.Context) error {
	uid := c.Get("uid").(string)

	if err := h.chatUseCase.MarkConversationRead(c.Request().Context(), uid, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Conversation marked as read"})
}

func (h *ChatHandler) Unread(c echo.Context) error {
	uid := c.Get("uid").(string)

	summary, err := h.chatUseCase.Unread(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, summary)
}

func (h *ChatHandler) DeleteConversation(c echo.Context) error {
	uid := c.Get("uid").(string)

	if err := h.chatUseCase.DeleteConversation(c.Request().Context(), uid, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Conversation deleted"})
}
