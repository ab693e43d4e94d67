// controllers/message_controller.go
package controllers

import (
	"net/http"

	"rental-backend/middleware"
	"rental-backend/models"
	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

type SendMessageRequest struct {
	Text  string               `json:"text"`
	Image *ListingImagePayload `json:"image"`
}

type MessageController struct {
	MessageSvc *services.MessageService
}

func NewMessageController(svc *services.MessageService) *MessageController {
	return &MessageController{MessageSvc: svc}
}

// Send — POST /messages/sendMessage/:id (receiver id in path)
func (ctl *MessageController) Send(c *gin.Context) {
	receiverID, ok := paramID(c)
	if !ok {
		return
	}
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	in := services.SendMessageInput{
		SenderID:   middleware.UserID(c),
		ReceiverID: receiverID,
		Text:       req.Text,
	}
	if req.Image != nil {
		in.Image = &models.ListingImage{PublicID: req.Image.PublicID, URL: req.Image.URL}
	}

	msg, err := ctl.MessageSvc.Send(in)
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, msg)
}

// Conversation — GET /messages/:id (other user's id)
func (ctl *MessageController) Conversation(c *gin.Context) {
	otherID, ok := paramID(c)
	if !ok {
		return
	}
	msgs, err := ctl.MessageSvc.Conversation(middleware.UserID(c), otherID)
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, msgs)
}
