package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/passreset/internal/audit"
	"github.com/nfrund/passreset/internal/domain"
	"github.com/nfrund/passreset/internal/i18n"
	"github.com/nfrund/passreset/internal/metrics"
	"github.com/nfrund/passreset/internal/middleware"
	"github.com/nfrund/passreset/internal/pubsub"
	"github.com/nfrund/passreset/internal/recovery"
	"github.com/nfrund/passreset/internal/view"
	dto "github.com/nfrund/passreset/internal/view/dto/recovery"
	"github.com/nfrund/passreset/web/src/templates/layouts"
	"github.com/nfrund/passreset/web/src/templates/pages"
	"golang.org/x/text/message"
)

// ResetPasswordHandler serves the password reset form.
type ResetPasswordHandler struct {
	changer recovery.PasswordChanger
	events  pubsub.Publisher
	metrics *metrics.Recorder
}

// NewResetPasswordHandler creates a new ResetPasswordHandler.
func NewResetPasswordHandler(changer recovery.PasswordChanger, events pubsub.Publisher, recorder *metrics.Recorder) *ResetPasswordHandler {
	return &ResetPasswordHandler{
		changer: changer,
		events:  events,
		metrics: recorder,
	}
}

// ResetPasswordGet renders the password reset page (GET /changepassword?token=...).
// A missing token still renders the page, with a placeholder in its place.
func (h *ResetPasswordHandler) ResetPasswordGet(c echo.Context) error {
	form := recovery.NewForm(queryReader{c}, nil, h.changer)
	return h.renderPage(c, http.StatusOK, form, "")
}

// ResetPasswordPost handles the form submission (POST /changepassword?token=...).
func (h *ResetPasswordHandler) ResetPasswordPost(c echo.Context) error {
	var in recovery.FormInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form data")
	}

	p, _ := printerFor(c)
	nav := &echoNavigator{c: c, flash: p.Sprintf(i18n.MsgPasswordChanged)}
	form := recovery.NewForm(queryReader{c}, nav, h.changer)

	// Once issued, the backend request runs to completion even if the browser goes away.
	ctx := context.WithoutCancel(c.Request().Context())
	err := form.Submit(ctx, in)
	h.record(c, form.Token() != "", err)

	if form.State() == recovery.StateSuccess {
		// The navigator has already written the response.
		return err
	}

	logger := middleware.FromContext(c.Request().Context())
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		logger.Info("Password reset form rejected", "field", vErr.Field, "error", err)
	} else {
		logger.Warn("Password reset failed", "error", err)
	}

	msg, status := describeError(p, err)
	if isHTMX(c) {
		// htmx only swaps 2xx responses by default.
		return c.Render(http.StatusOK, "", pages.ResetPasswordForm(p, pageData(form, msg)))
	}
	return h.renderPage(c, status, form, msg)
}

func (h *ResetPasswordHandler) renderPage(c echo.Context, status int, form *recovery.Form, errMsg string) error {
	p, lang := printerFor(c)
	flashes := view.GetFlashData(c)

	content := pages.ResetPassword(p, pageData(form, errMsg))
	page := layouts.Base(lang, p.Sprintf(i18n.MsgTitle), flashes, content)
	return c.Render(status, "", page)
}

// record publishes the outcome and counts it. Neither may fail the request.
func (h *ResetPasswordHandler) record(c echo.Context, tokenPresent bool, err error) {
	outcome := audit.NewOutcome(tokenPresent, err)
	if h.metrics != nil {
		h.metrics.ObserveSubmission(outcome.Kind)
	}
	if h.events != nil {
		reqID := c.Response().Header().Get(echo.HeaderXRequestID)
		if pubErr := audit.Publish(c.Request().Context(), h.events, reqID, outcome); pubErr != nil {
			middleware.FromContext(c.Request().Context()).Error("Failed to publish outcome", "error", pubErr)
		}
	}
}

func pageData(form *recovery.Form, errMsg string) dto.ResetPasswordData {
	return dto.ResetPasswordData{
		Token:      form.Token(),
		TokenLabel: form.TokenLabel(),
		Error:      errMsg,
	}
}

// describeError turns a failed submission into a user-facing message and the
// status of the page that shows it.
func describeError(p *message.Printer, err error) (string, int) {
	var (
		vErr      *domain.ValidationError
		rejection *domain.RemoteRejectionError
		transport *domain.TransportError
	)
	switch {
	case errors.As(err, &vErr):
		if errors.Is(err, domain.ErrPasswordMismatch) {
			return p.Sprintf(i18n.MsgPasswordMismatch), http.StatusUnprocessableEntity
		}
		return p.Sprintf(i18n.MsgInvalidInput), http.StatusUnprocessableEntity
	case errors.As(err, &rejection):
		if rejection.Message != "" {
			return p.Sprintf(i18n.MsgRejectedDetail, rejection.Message), http.StatusUnprocessableEntity
		}
		return p.Sprintf(i18n.MsgRejected), http.StatusUnprocessableEntity
	case errors.As(err, &transport):
		return p.Sprintf(i18n.MsgUnreachable), http.StatusBadGateway
	case errors.Is(err, domain.ErrAlreadySubmitted):
		return p.Sprintf(i18n.MsgAlreadyChanged), http.StatusConflict
	default:
		return p.Sprintf(i18n.MsgUnexpectedFailure), http.StatusInternalServerError
	}
}
