package handlers

import (
	"net"
	"net/http"

	"github.com/Faaz345/playsplit/middleware"
	"github.com/Faaz345/playsplit/services"
)

const webhookSignatureHeader = "X-Razorpay-Signature"

type PaymentHandler struct {
	paymentService services.PaymentService
}

func NewPaymentHandler(paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func clientInfo(r *http.Request) services.ClientInfo {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return services.ClientInfo{UserAgent: r.UserAgent(), IPAddress: ip}
}

// CreatePaymentLink godoc
// @Summary Создать платежную ссылку на долю игрока
// @Tags payments
// @Accept json
// @Produce json
// @Param input body services.CreatePaymentInput true "Матч"
// @Success 201 {object} envelope
// @Failure 422 {object} envelope "Уже оплачено или игрок не в матче"
// @Failure 502 {object} envelope "Ошибка платежного шлюза"
// @Security BearerAuth
// @Router /payments/create-payment-link [post]
func (h *PaymentHandler) CreatePaymentLink(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		unauthorizedResponse(w, r, "Authentication required")
		return
	}

	var input services.CreatePaymentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.ClientInfo = clientInfo(r)

	result, err := h.paymentService.CreatePaymentLink(r.Context(), user, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, "Payment link created successfully", result)
}

// CreateOrder godoc
// @Summary Создать заказ для checkout на клиенте
// @Tags payments
// @Accept json
// @Produce json
// @Param input body services.CreatePaymentInput true "Матч"
// @Success 201 {object} envelope
// @Security BearerAuth
// @Router /payments/create-order [post]
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		unauthorizedResponse(w, r, "Authentication required")
		return
	}

	var input services.CreatePaymentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.ClientInfo = clientInfo(r)

	result, err := h.paymentService.CreateOrder(r.Context(), user, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, "Order created successfully", result)
}

// VerifyPayment godoc
// @Summary Проверить подпись оплаты и зачесть платеж
// @Tags payments
// @Accept json
// @Produce json
// @Param input body services.VerifyPaymentInput true "Ответ checkout"
// @Success 200 {object} envelope
// @Failure 400 {object} envelope "Неверная подпись"
// @Security BearerAuth
// @Router /payments/verify [post]
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		unauthorizedResponse(w, r, "Authentication required")
		return
	}

	var input services.VerifyPaymentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	payment, err := h.paymentService.VerifyPayment(r.Context(), user, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "Payment verified successfully", jsonResponse{"payment": payment})
}

// Webhook godoc
// @Summary Вебхук платежного шлюза
// @Description Тело проверяется по HMAC из заголовка X-Razorpay-Signature. Ошибки обработки подтверждаются 200.
// @Tags payments
// @Accept json
// @Produce json
// @Param X-Razorpay-Signature header string true "Подпись"
// @Success 200 {object} envelope
// @Failure 401 {object} envelope "Неверная подпись"
// @Router /payments/webhook [post]
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.paymentService.HandleWebhook(r.Context(), body, r.Header.Get(webhookSignatureHeader))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "Webhook processed", result)
}

// MarkCashPayment godoc
// @Summary Отметить оплату наличными (админ)
// @Tags payments
// @Accept json
// @Produce json
// @Param input body services.CashPaymentInput true "Игрок и сумма"
// @Success 200 {object} envelope
// @Security BearerAuth
// @Router /payments/mark-cash-payment [post]
func (h *PaymentHandler) MarkCashPayment(w http.ResponseWriter, r *http.Request) {
	admin := middleware.UserFromContext(r.Context())
	if admin == nil {
		unauthorizedResponse(w, r, "Authentication required")
		return
	}

	var input services.CashPaymentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	payment, err := h.paymentService.MarkCashPayment(r.Context(), admin, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "Cash payment marked successfully", jsonResponse{"payment": payment})
}

// MatchPayments godoc
// @Summary Платежи по матчу (организатор или админ)
// @Tags payments
// @Produce json
// @Param matchID path string true "Код матча"
// @Success 200 {object} envelope
// @Security BearerAuth
// @Router /payments/match/{matchID} [get]
func (h *PaymentHandler) MatchPayments(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		unauthorizedResponse(w, r, "Authentication required")
		return
	}

	matchID, err := urlParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	payments, err := h.paymentService.GetMatchPayments(r.Context(), user, matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "Match payments retrieved", jsonResponse{"payments": payments})
}

// UserPayments godoc
// @Summary Последние платежи текущего пользователя
// @Tags payments
// @Produce json
// @Param limit query int false "Сколько вернуть"
// @Success 200 {object} envelope
// @Security BearerAuth
// @Router /payments/user [get]
func (h *PaymentHandler) UserPayments(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		unauthorizedResponse(w, r, "Authentication required")
		return
	}

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	payments, err := h.paymentService.GetUserPayments(r.Context(), user, limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "User payments retrieved", jsonResponse{"payments": payments})
}

// RefundPayment godoc
// @Summary Возврат онлайн-платежа (админ)
// @Tags payments
// @Accept json
// @Produce json
// @Param input body services.RefundInput true "Платеж и причина"
// @Success 200 {object} envelope
// @Failure 422 {object} envelope "Платеж не оплачен или наличный"
// @Security BearerAuth
// @Router /payments/refund [post]
func (h *PaymentHandler) RefundPayment(w http.ResponseWriter, r *http.Request) {
	admin := middleware.UserFromContext(r.Context())
	if admin == nil {
		unauthorizedResponse(w, r, "Authentication required")
		return
	}

	var input services.RefundInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.paymentService.RefundPayment(r.Context(), admin, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, "Refund initiated successfully", result)
}
