package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/iswift/iswift_backend/internal/core/ports/services"
	"github.com/iswift/iswift_backend/internal/dto"
)

type userHandler struct {
	userService portssvc.UserSvcFacade
}

func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{userService: us}
}

// registerUserRoutes registers routes related to users.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)
	rg.GET("/users", h.listUsers)
}

// listUsers godoc
// @Summary List users
// @Description Lists the public profiles of other users, for picking transfer recipients.
// @Tags users
// @Produce  json
// @Param   limit query int false "Page size (1-100)" default(20)
// @Param   nextToken query string false "Token of the next page"
// @Param   search query string false "Name, email or phone number fragment"
// @Success 200 {object} dto.ListUsersResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/users [get]
func (h *userHandler) listUsers(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var params dto.ListUsersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	users, nextToken, err := h.userService.ListUsers(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, dto.ToListUsersResponse(users, nextToken))
}
