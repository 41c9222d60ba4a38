package httpapi

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/trainpi/internal/common"
	"github.com/dmitrijs2005/trainpi/internal/models"
	"github.com/dmitrijs2005/trainpi/internal/rpc"
	"github.com/labstack/echo/v4"
)

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, rpc.PingResponse{Status: "ok"})
}

func (s *Server) register(c echo.Context) error {
	var req rpc.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	u, err := s.users.Register(c.Request().Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rpc.RegisterResponse{User: *u})
}

func (s *Server) login(c echo.Context) error {
	var req rpc.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	res, err := s.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// listExceptions answers with a bare JSON array; ?status= narrows it.
func (s *Server) listExceptions(c echo.Context) error {
	filter, err := models.ParseStatusFilter(c.QueryParam("status"))
	if err != nil {
		return err
	}
	items, err := s.exceptions.List(c.Request().Context(), userID(c), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (s *Server) createException(c echo.Context) error {
	var req rpc.CreateExceptionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	e, err := s.exceptions.Create(c.Request().Context(), userID(c), req.Type, req.Remarks)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, e)
}

func (s *Server) clearException(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return common.ErrorValidation
	}
	e, err := s.exceptions.Clear(c.Request().Context(), userID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}
