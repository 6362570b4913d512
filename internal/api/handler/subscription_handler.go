package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gabchak/weather-auth/internal/core/domain"
	"github.com/gabchak/weather-auth/internal/core/ports"
)

// SubscriptionHandler serves the paid-subscription endpoints.
type SubscriptionHandler struct {
	service ports.SubscriptionService
}

func NewSubscriptionHandler(service ports.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

// Subscribe extends the caller's subscription by one month from today.
// A body email, when given, must name the caller.
//
// @Summary      Extend subscription
// @Tags         subscription
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      subscribeRequest  false  "Optional email, must match the token"
// @Success      200   {object}  subscriptionResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/v1/subscription [post]
func (h *SubscriptionHandler) Subscribe(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req subscribeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Email != "" && domain.NormalizeEmail(req.Email) != domain.NormalizeEmail(identity.Email) {
		return domain.ErrForbidden
	}

	paidBefore, err := h.service.Extend(c.Request().Context(), identity.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, subscriptionResponse{PaidBeforeDate: paidBefore.Format(dateLayout)})
}

// Status reports the caller's paid-before date.
//
// @Summary      Subscription status
// @Tags         subscription
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  subscriptionStatusResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/subscription [get]
func (h *SubscriptionHandler) Status(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	st, err := h.service.Status(c.Request().Context(), identity.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, subscriptionStatusResponse{
		PaidBeforeDate: formatDate(st.PaidBeforeDate),
		Active:         st.Active,
	})
}
