package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"veo-prompt-director/application/ports/outbound"
	"veo-prompt-director/domain"
	"veo-prompt-director/infrastructure/gin_interface/dto"

	"github.com/gin-gonic/gin"
)

const clientClosedRequest = 499

func statusFor(err error) int {
	switch {
	case domain.IsCredentialError(err):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrSceneNotFound), errors.Is(err, domain.ErrHistoryItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrGenerationCancelled), errors.Is(err, domain.ErrStoryboardChanged):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoScenesToExtend):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		return clientClosedRequest
	default:
		return http.StatusBadGateway
	}
}

func errorBody(err error) dto.ErrorResponse {
	return dto.ErrorResponse{
		Error:              err.Error(),
		CredentialRequired: domain.IsCredentialError(err),
	}
}

func respondError(c *gin.Context, logger outbound.LoggerPort, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorWithFields(err, "Request failed", map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		})
	}
	c.AbortWithStatusJSON(status, errorBody(err))
}

func respondBadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
}

func sceneNumberParam(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("number"))
	if err != nil || n < 1 {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: "scene number must be a positive integer"})
		return 0, false
	}
	return n, true
}
