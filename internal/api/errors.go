package api

import (
	"errors"
	"net/http"

	"alcyxob/workout-coach/internal/service"
	"alcyxob/workout-coach/internal/session"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

var errorStatuses = []struct {
	status int
	errs   []error
}{
	{http.StatusBadRequest, []error{
		service.ErrValidationFailed,
		service.ErrPasswordTooShort,
		service.ErrUnknownAction,
	}},
	{http.StatusUnauthorized, []error{
		service.ErrAuthenticationFailed,
		service.ErrInvalidToken,
	}},
	{http.StatusForbidden, []error{
		service.ErrWrongPassword,
		service.ErrExerciseAccessDenied,
		service.ErrPlanAccessDenied,
		service.ErrHistoryAccessDenied,
		service.ErrReminderAccessDenied,
	}},
	{http.StatusNotFound, []error{
		service.ErrUserNotFound,
		service.ErrExerciseNotFound,
		service.ErrPlanNotFound,
		service.ErrPlanEntryNotFound,
		service.ErrHistoryNotFound,
		service.ErrReminderNotFound,
		service.ErrSessionNotFound,
		service.ErrUploadMissing,
	}},
	{http.StatusConflict, []error{
		service.ErrUserAlreadyExists,
		service.ErrHistoryExists,
		service.ErrPerformanceExists,
		session.ErrInvalidTransition,
		session.ErrSessionFinished,
	}},
	{http.StatusUnprocessableEntity, []error{
		session.ErrEmptyPlan,
		session.ErrInvalidPlan,
	}},
	{http.StatusBadGateway, []error{
		service.ErrUploadURLError,
		service.ErrUploadConfirmationFailed,
		service.ErrExportFailed,
	}},
}

// statusFor maps a service or session error to an HTTP status. A session
// that failed to load is a 502 unless the plan itself was missing.
func statusFor(err error) int {
	var loadErr *session.LoadError
	if errors.As(err, &loadErr) && !errors.Is(err, service.ErrPlanNotFound) {
		return http.StatusBadGateway
	}
	for _, group := range errorStatuses {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return group.status
			}
		}
	}
	return http.StatusInternalServerError
}

// respondError aborts with the mapped status. Server-side failures are logged
// and answered with fallback instead of the raw error.
func respondError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.WithError(err).WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"status": status,
		}).Error(fallback)
		abortWithError(c, status, fallback)
		return
	}
	abortWithError(c, status, err.Error())
}
