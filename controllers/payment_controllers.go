package controllers

import (
	"errors"
	"io"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dinesync/resto-backend/authz"
	"github.com/dinesync/resto-backend/models"
	"github.com/dinesync/resto-backend/services"
	"github.com/dinesync/resto-backend/utils"
)

type PaymentController struct {
	DB       *gorm.DB
	Payments *services.PaymentService
	Gateway  *services.StripeService
}

func NewPaymentController(db *gorm.DB, gateway *services.StripeService) *PaymentController {
	return &PaymentController{
		DB:       db,
		Payments: services.NewPaymentService(db),
		Gateway:  gateway,
	}
}

// List returns the actor's own payments.
func (pc *PaymentController) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var payments []models.Payment
	if err := pc.DB.Scopes(authz.Scope(actor, authz.ResourcePayment)).Find(&payments).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of payments", payments)
}

// CreateIntent opens a gateway payment intent for an order the actor
// can see. The amount is the order's persisted total, converted to
// minor units; clients never supply the amount.
func (pc *PaymentController) CreateIntent(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	type request struct {
		OrderID  uint   `json:"order_id" binding:"required"`
		Currency string `json:"currency"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Currency == "" {
		req.Currency = "usd"
	}

	var order models.Order
	err := pc.DB.Scopes(authz.Scope(actor, authz.ResourceOrder)).First(&order, req.OrderID).Error
	if err != nil {
		utils.RespondAppError(c, utils.DBError(err, "order"))
		return
	}

	target := &authz.Target{UserID: &actor.ID}
	if !respondDecision(c, authz.Can(actor, authz.ActionCreate, authz.ResourcePayment, target)) {
		return
	}

	if existing, err := pc.Payments.FindByOrderID(order.ID); err == nil {
		utils.RespondJSON(c, http.StatusConflict, "A payment for this order already exists", existing)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	amountMinor := int64(math.Round(order.Total * 100))
	intent, err := pc.Gateway.CreatePaymentIntent(amountMinor, req.Currency)
	if err != nil {
		utils.RespondAppError(c, utils.ErrGateway(err))
		return
	}

	payment := models.Payment{
		UserID:      actor.ID,
		OrderID:     order.ID,
		Amount:      order.Total,
		Currency:    req.Currency,
		IntentID:    intent.ID,
		ReferenceID: uuid.NewString(),
		Status:      models.PaymentStatusPending,
	}
	if err := pc.Payments.RecordIntent(&payment); err != nil {
		// Lost the double-create race; the other intent wins.
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Payment intent created", gin.H{
		"client_secret": intent.ClientSecret,
		"payment":       payment,
	})
}

// HandleWebhook receives asynchronous gateway confirmations. A bad
// signature or payload is rejected with 400 and no state change; an
// event for an unknown intent is acknowledged as a no-op.
func (pc *PaymentController) HandleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.RespondAppError(c, utils.ErrValidation("unreadable payload"))
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if !pc.Gateway.VerifyWebhookSignature(payload, signature) {
		utils.RespondAppError(c, utils.ErrValidation("invalid signature"))
		return
	}

	event, err := services.ParseWebhookEvent(payload)
	if err != nil {
		utils.RespondAppError(c, utils.ErrValidation("%s", err.Error()))
		return
	}

	if err := pc.Payments.Reconcile(event.Type, event.Data.Object.ID); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Event processed", nil)
}
