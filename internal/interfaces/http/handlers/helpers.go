package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	domainerrors "tracebloom.backend/internal/domain/errors"
	"tracebloom.backend/internal/interfaces/http/middleware"
	"tracebloom.backend/internal/interfaces/http/response"
)

// requireCaller reads the authenticated user id, writing a 401 when absent
func requireCaller(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok || userID == uuid.Nil {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return uuid.Nil, false
	}
	return userID, true
}

// pathID parses a uuid path parameter, writing a 400 when malformed
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}
